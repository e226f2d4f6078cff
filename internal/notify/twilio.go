package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"

	"callbridge/internal/calllog"
)

// TwilioGateway sends SMS messages and looks up completed calls through
// the Twilio REST API.
type TwilioGateway struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioGateway creates a gateway sending from the given number.
func NewTwilioGateway(accountSID, authToken, from string) *TwilioGateway {
	return &TwilioGateway{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

// SendSMS sends a single message and returns Twilio's delivery status
// string ("queued", "sent", ...).
func (g *TwilioGateway) SendSMS(ctx context.Context, to, body string) (string, error) {
	params := &api.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(g.from)
	params.SetBody(body)

	msg, err := g.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio: send to %s: %w", to, err)
	}
	if msg.Status == nil {
		return "unknown", nil
	}
	return *msg.Status, nil
}

// LookupCall fetches a completed call's duration and start time. The
// recording URL and transcription arrive on the webhook itself, so the
// returned record leaves those fields empty for the caller to fill in.
func (g *TwilioGateway) LookupCall(ctx context.Context, callSID string) (calllog.CallRecord, error) {
	call, err := g.client.Api.FetchCall(callSID, &api.FetchCallParams{})
	if err != nil {
		return calllog.CallRecord{}, fmt.Errorf("twilio: fetch call %s: %w", callSID, err)
	}

	var rec calllog.CallRecord
	if call.Duration != nil {
		seconds, err := strconv.Atoi(*call.Duration)
		if err != nil {
			return calllog.CallRecord{}, fmt.Errorf("twilio: call %s: bad duration %q", callSID, *call.Duration)
		}
		rec.DurationSeconds = seconds
	}
	if call.StartTime != nil {
		started, err := time.Parse(time.RFC1123Z, *call.StartTime)
		if err != nil {
			return calllog.CallRecord{}, fmt.Errorf("twilio: call %s: bad start time %q", callSID, *call.StartTime)
		}
		rec.StartedAt = started
	}
	return rec, nil
}
