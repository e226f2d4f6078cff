package crm

import (
	"encoding/json"
	"errors"
	"fmt"
)

// envelope is the common wrapper around every CRM response body.
type envelope struct {
	Data []json.RawMessage `json:"data"`
}

// firstRow extracts data[0] from a response body.
func firstRow(body []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, malformed("invalid JSON envelope: %s", err)
	}
	if len(env.Data) == 0 {
		return nil, malformed("data[0] is absent")
	}
	return env.Data[0], nil
}

// DecodeEventSearch decodes an Events search response into an Event.
//
// Only the first result row is considered. Participants are decoded with
// ContactDetails unset; resolving them is the client's job, not the
// decoder's. The decode is pure and performs no I/O.
func DecodeEventSearch(body []byte) (*Event, error) {
	row, err := firstRow(body)
	if err != nil {
		return nil, err
	}
	var ev Event
	if err := json.Unmarshal(row, &ev); err != nil {
		return nil, wrapTypeError("event row", err)
	}
	if err := validateEvent(&ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// DecodeContactRecord decodes a Contacts response into a Contact.
func DecodeContactRecord(body []byte) (*Contact, error) {
	row, err := firstRow(body)
	if err != nil {
		return nil, err
	}
	var c Contact
	if err := json.Unmarshal(row, &c); err != nil {
		return nil, wrapTypeError("contact row", err)
	}
	if c.ID == "" {
		return nil, malformed("contact row: id is required")
	}
	return &c, nil
}

func validateEvent(ev *Event) error {
	switch {
	case ev.Venue == "":
		return malformed("event row: Venue is required")
	case ev.Title == "":
		return malformed("event row: Event_Title is required")
	case ev.StartsAt == "":
		return malformed("event row: Start_DateTime is required")
	case ev.Organiser == nil:
		return malformed("event row: Owner is required")
	case ev.Organiser.ID == "" || ev.Organiser.Email == "" || ev.Organiser.Name == "":
		return malformed("event row: Owner must have id, email and name")
	}
	for i, p := range ev.Participants {
		if p == nil {
			return malformed("event row: Participants[%d] is null", i)
		}
		if p.ID == "" {
			return malformed("event row: Participants[%d]: id is required", i)
		}
		if p.Participant == "" {
			return malformed("event row: Participants[%d]: participant is required", i)
		}
	}
	return nil
}

// wrapTypeError converts a wrong-type unmarshal failure into a
// MalformedResponseError so callers see a single decode-failure type.
func wrapTypeError(where string, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return malformed("%s: field %s has type %s, want %s",
			where, typeErr.Field, typeErr.Value, typeErr.Type)
	}
	return malformed("%s: %s", where, fmt.Sprint(err))
}
