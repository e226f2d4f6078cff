package calllog_test

import (
	"testing"
	"time"

	"callbridge/internal/calllog"
	"callbridge/internal/crm"
)

func TestFromInbound_DurationSplit(t *testing.T) {
	rec := calllog.CallRecord{
		DurationSeconds: 125,
		RecordingURL:    "https://example.com/rec.mp3",
		Transcription:   "hello there",
		StartedAt:       time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC),
	}
	call := calllog.FromInbound(rec)

	if want := 2*time.Minute + 5*time.Second; call.CallDuration != want {
		t.Errorf("duration: expected %v, got %v", want, call.CallDuration)
	}
	if want := "Inbound Call From Twilio (2:05)"; call.Subject != want {
		t.Errorf("subject: expected %q, got %q", want, call.Subject)
	}
}

func TestFromInbound_FixedValues(t *testing.T) {
	call := calllog.FromInbound(calllog.CallRecord{DurationSeconds: 42})

	if call.CallType != crm.CallTypeInbound {
		t.Errorf("call type: expected Inbound, got %q", call.CallType)
	}
	if call.OutgoingCallStatus != crm.OutgoingCallStatusCompleted {
		t.Errorf("outgoing call status: expected Completed, got %q", call.OutgoingCallStatus)
	}
	if call.CallPurpose != crm.CallPurposeProspecting {
		t.Errorf("call purpose: expected Prospecting, got %q", call.CallPurpose)
	}
	if call.CallResult != crm.CallResultRequestedMoreInfo {
		t.Errorf("call result: expected Requested more info, got %q", call.CallResult)
	}
}

func TestFromInbound_CarriesWebhookFields(t *testing.T) {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	call := calllog.FromInbound(calllog.CallRecord{
		DurationSeconds: 59,
		RecordingURL:    "https://example.com/r",
		Transcription:   "some words",
		StartedAt:       started,
	})

	if call.Description != "some words" {
		t.Errorf("description: got %q", call.Description)
	}
	if call.VoiceRecording != "https://example.com/r" {
		t.Errorf("voice recording: got %q", call.VoiceRecording)
	}
	if !call.CallStarted.Equal(started) {
		t.Errorf("call started: got %v", call.CallStarted)
	}
	if call.CallDuration != 59*time.Second {
		t.Errorf("sub-minute duration: got %v", call.CallDuration)
	}
	if call.Subject != "Inbound Call From Twilio (0:59)" {
		t.Errorf("subject: got %q", call.Subject)
	}
}
