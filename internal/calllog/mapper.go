// Package calllog maps completed inbound voice calls into CRM call-log
// records.
package calllog

import (
	"fmt"
	"time"

	"callbridge/internal/crm"
)

// CallRecord is the provider-side view of a completed call, as fetched
// from the telephony API after the call-completion webhook fires.
type CallRecord struct {
	DurationSeconds int
	RecordingURL    string
	Transcription   string
	StartedAt       time.Time
}

// FromInbound builds the LoggedCall for a call that arrived through the
// receive webhook.
//
// The duration is normalized into whole minutes plus a seconds remainder
// before being turned back into a duration value; the CRM wire format
// carries the two components separately. CallPurpose and CallResult are
// hard-coded defaults pending business-rule input, not computed values.
func FromInbound(rec CallRecord) *crm.LoggedCall {
	minutes := rec.DurationSeconds / 60
	seconds := rec.DurationSeconds % 60
	duration := time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second

	return &crm.LoggedCall{
		CallPurpose:        crm.CallPurposeProspecting,
		CallResult:         crm.CallResultRequestedMoreInfo,
		CallType:           crm.CallTypeInbound,
		OutgoingCallStatus: crm.OutgoingCallStatusCompleted,
		CallDuration:       duration,
		CallStarted:        rec.StartedAt,
		Subject:            fmt.Sprintf("Inbound Call From Twilio (%d:%02d)", minutes, seconds),
		Description:        rec.Transcription,
		VoiceRecording:     rec.RecordingURL,
	}
}
