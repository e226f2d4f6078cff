package crm

// Event is a single row from an Events search response, together with the
// organiser and participants nested in that row.
type Event struct {
	Venue        string              `json:"Venue"`
	Title        string              `json:"Event_Title"`
	StartsAt     string              `json:"Start_DateTime"`
	Organiser    *EventOrganiser     `json:"Owner"`
	Participants []*EventParticipant `json:"Participants"`
}

// EventOrganiser is the owner record nested in an event row.
type EventOrganiser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// EventParticipant is one entry of an event's Participants array.
//
// ID is the participant record's own id. Participant is the linked
// contact's internal id — the two differ, and Participant is the one used
// for contact lookups and as the notification-outcome key.
type EventParticipant struct {
	ID          string `json:"id"`
	Participant string `json:"participant"`
	Name        string `json:"name"`
	Email       string `json:"Email"`

	// ContactDetails is nil after decoding a search response; phone
	// numbers are not part of the Events payload and are filled in by a
	// separate Contacts lookup during GetEventDetails.
	ContactDetails *Contact `json:"-"`
}

// Contact holds the phone numbers of a contact record.
type Contact struct {
	ID     string `json:"id"`
	Phone  string `json:"Phone"`
	Mobile string `json:"Mobile"`
}
