package crm_test

import (
	"errors"
	"testing"

	"callbridge/internal/crm"
)

const eventSearchFixture = `{
  "data": [
    {
      "Venue": "HQ Berlin",
      "Event_Title": "Quarterly Planning",
      "Start_DateTime": "2026-09-01T10:00:00+02:00",
      "Owner": {
        "id": "org-1",
        "email": "jane@example.com",
        "name": "Jane Doe"
      },
      "Participants": [
        {
          "id": "part-1",
          "participant": "contact-100",
          "name": "Ada Example",
          "Email": "ada@example.com"
        },
        {
          "id": "part-2",
          "participant": "contact-200",
          "name": "Bob Example",
          "Email": "bob@example.com"
        }
      ]
    }
  ]
}`

func TestDecodeEventSearch(t *testing.T) {
	event, err := crm.DecodeEventSearch([]byte(eventSearchFixture))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if event.Venue != "HQ Berlin" {
		t.Errorf("venue: expected %q, got %q", "HQ Berlin", event.Venue)
	}
	if event.Title != "Quarterly Planning" {
		t.Errorf("title: expected %q, got %q", "Quarterly Planning", event.Title)
	}
	if event.StartsAt != "2026-09-01T10:00:00+02:00" {
		t.Errorf("startsAt: got %q", event.StartsAt)
	}
	if event.Organiser == nil || event.Organiser.ID != "org-1" ||
		event.Organiser.Email != "jane@example.com" || event.Organiser.Name != "Jane Doe" {
		t.Errorf("organiser not decoded: %+v", event.Organiser)
	}

	if len(event.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(event.Participants))
	}
	first := event.Participants[0]
	if first.ID != "part-1" || first.Participant != "contact-100" ||
		first.Name != "Ada Example" || first.Email != "ada@example.com" {
		t.Errorf("first participant not decoded: %+v", first)
	}
	for i, p := range event.Participants {
		if p.ContactDetails != nil {
			t.Errorf("participants[%d].ContactDetails should be unset after decode", i)
		}
	}
}

func TestDecodeEventSearch_NoParticipants(t *testing.T) {
	body := `{"data":[{"Venue":"HQ","Event_Title":"Standup","Start_DateTime":"2026-09-01T10:00:00Z",
		"Owner":{"id":"o1","email":"o@example.com","name":"O"}}]}`
	event, err := crm.DecodeEventSearch([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(event.Participants) != 0 {
		t.Errorf("expected no participants, got %d", len(event.Participants))
	}
}

func TestDecodeEventSearch_Malformed(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty data", `{"data":[]}`},
		{"missing data", `{}`},
		{"not json", `not json at all`},
		{"venue wrong type", `{"data":[{"Venue":42,"Event_Title":"T","Start_DateTime":"s",
			"Owner":{"id":"o","email":"e","name":"n"}}]}`},
		{"missing title", `{"data":[{"Venue":"HQ","Start_DateTime":"s",
			"Owner":{"id":"o","email":"e","name":"n"}}]}`},
		{"missing owner", `{"data":[{"Venue":"HQ","Event_Title":"T","Start_DateTime":"s"}]}`},
		{"owner missing email", `{"data":[{"Venue":"HQ","Event_Title":"T","Start_DateTime":"s",
			"Owner":{"id":"o","name":"n"}}]}`},
		{"participant missing contact id", `{"data":[{"Venue":"HQ","Event_Title":"T","Start_DateTime":"s",
			"Owner":{"id":"o","email":"e","name":"n"},
			"Participants":[{"id":"p1","name":"A","Email":"a@example.com"}]}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			event, err := crm.DecodeEventSearch([]byte(tc.body))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var malformed *crm.MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Errorf("expected MalformedResponseError, got %T: %v", err, err)
			}
			if event != nil {
				t.Errorf("no partial event should be returned, got %+v", event)
			}
		})
	}
}

func TestDecodeContactRecord(t *testing.T) {
	body := `{"data":[{"id":"contact-100","Phone":"+4930123456","Mobile":"+4917612345"}]}`
	contact, err := crm.DecodeContactRecord([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contact.ID != "contact-100" {
		t.Errorf("id: got %q", contact.ID)
	}
	if contact.Phone != "+4930123456" || contact.Mobile != "+4917612345" {
		t.Errorf("numbers not decoded: %+v", contact)
	}
}

func TestDecodeContactRecord_Malformed(t *testing.T) {
	for _, body := range []string{`{"data":[]}`, `{"data":[{"Phone":"+49"}]}`} {
		if _, err := crm.DecodeContactRecord([]byte(body)); err == nil {
			t.Errorf("expected error for %s", body)
		}
	}
}
