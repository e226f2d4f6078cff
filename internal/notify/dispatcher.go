// Package notify fans out per-participant event notifications and keeps
// each recipient's outcome isolated from the others'.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"callbridge/internal/crm"
	"callbridge/internal/metrics"
)

// Sender delivers a single SMS and reports the provider's delivery status.
type Sender interface {
	SendSMS(ctx context.Context, to, body string) (status string, err error)
}

// Dispatcher renders and sends one message per event participant.
type Dispatcher struct {
	sender   Sender
	settings func() *Settings
}

// NewDispatcher creates a Dispatcher. settings is called once per batch so
// hot-reloaded delivery settings take effect without restarting.
func NewDispatcher(sender Sender, settings func() *Settings) *Dispatcher {
	return &Dispatcher{sender: sender, settings: settings}
}

// messageData is what the delivery template is executed against.
type messageData struct {
	Title          string
	Venue          string
	StartsAt       string
	Organiser      string
	OrganiserEmail string
	Participant    string
}

// NotifyParticipants sends one message to every participant of the event
// and returns an outcome per participant, keyed by the contact id
// (EventParticipant.Participant, not the participant record's own id).
//
// A failure for one recipient never prevents attempting the others: the
// error text is recorded as that recipient's outcome and the loop moves
// on. Successful sends record the provider's delivery status string.
func (d *Dispatcher) NotifyParticipants(ctx context.Context, event *crm.Event) map[string]string {
	settings := d.settings()
	results := make(map[string]string, len(event.Participants))

	tmpl, err := template.New("message").Parse(settings.Template)
	if err != nil {
		// The loader validates templates, so this only happens with a
		// hand-built Settings. Record the failure for every recipient.
		for _, p := range event.Participants {
			results[p.Participant] = fmt.Sprintf("message template: %s", err)
		}
		return results
	}

	data := messageData{
		Title:          event.Title,
		Venue:          event.Venue,
		StartsAt:       formatStartTime(event.StartsAt, settings.TimeLayout),
		Organiser:      event.Organiser.Name,
		OrganiserEmail: event.Organiser.Email,
	}

	for _, p := range event.Participants {
		outcome, ok := d.notifyOne(ctx, tmpl, data, p, settings.NumberField)
		results[p.Participant] = outcome
		if ok {
			metrics.NotificationsSent.WithLabelValues("sent").Inc()
		} else {
			metrics.NotificationsSent.WithLabelValues("error").Inc()
		}
	}
	return results
}

func (d *Dispatcher) notifyOne(ctx context.Context, tmpl *template.Template, data messageData, p *crm.EventParticipant, numberField string) (string, bool) {
	number, err := destination(p, numberField)
	if err != nil {
		return err.Error(), false
	}

	data.Participant = p.Name
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Sprintf("render message: %s", err), false
	}

	status, err := d.sender.SendSMS(ctx, number, body.String())
	if err != nil {
		return err.Error(), false
	}
	return status, true
}

// destination picks the number to send to based on the number_field
// setting.
func destination(p *crm.EventParticipant, numberField string) (string, error) {
	if p.ContactDetails == nil {
		return "", fmt.Errorf("participant %s has no contact details", p.Participant)
	}
	number := p.ContactDetails.Phone
	if numberField == NumberFieldMobile {
		number = p.ContactDetails.Mobile
	}
	if number == "" {
		return "", fmt.Errorf("contact %s has no %s number", p.Participant, numberField)
	}
	return number, nil
}

// formatStartTime renders the event's start timestamp with the configured
// layout. The raw value is passed through unchanged if it is not a valid
// ISO-8601 timestamp.
func formatStartTime(startsAt, layout string) string {
	t, err := time.Parse(time.RFC3339, startsAt)
	if err != nil {
		return startsAt
	}
	return t.Format(layout)
}
