package crm

import (
	"fmt"
	"time"
)

// The call enumerations mirror the CRM's picklist options verbatim,
// including the vendor's own spelling.

type CallPurpose string

const (
	CallPurposeAdministrative CallPurpose = "Administrative"
	CallPurposeDemo           CallPurpose = "Demo"
	CallPurposeDesk           CallPurpose = "Desk"
	CallPurposeNegotiation    CallPurpose = "Negotation"
	CallPurposeProject        CallPurpose = "Project"
	CallPurposeProspecting    CallPurpose = "Prospecting"
	CallPurposeNone           CallPurpose = "-None-"
)

type CallResult string

const (
	CallResultInterested        CallResult = "Interested"
	CallResultInvalidNumber     CallResult = "Invalid number"
	CallResultNone              CallResult = "-None-"
	CallResultNotInterested     CallResult = "Not interested"
	CallResultNoResponseBusy    CallResult = "No response/Busy"
	CallResultRequestedCallBack CallResult = "Requested call back"
	CallResultRequestedMoreInfo CallResult = "Requested more info"
)

type CallType string

const (
	CallTypeInbound  CallType = "Inbound"
	CallTypeMissed   CallType = "Missed"
	CallTypeOutbound CallType = "Outbound"
)

type OutgoingCallStatus string

const (
	OutgoingCallStatusCancelled OutgoingCallStatus = "Cancelled"
	OutgoingCallStatusCompleted OutgoingCallStatus = "Completed"
	OutgoingCallStatusNone      OutgoingCallStatus = "-None-"
	OutgoingCallStatusOverdue   OutgoingCallStatus = "Overdue"
	OutgoingCallStatusScheduled OutgoingCallStatus = "Scheduled"
)

// LoggedCall is a voice call to be recorded in the CRM's Calls module. It
// is built once per call-completion webhook and discarded after the
// persist call returns.
type LoggedCall struct {
	CallPurpose        CallPurpose
	CallResult         CallResult
	CallType           CallType
	OutgoingCallStatus OutgoingCallStatus
	CallDuration       time.Duration
	CallStarted        time.Time
	Subject            string
	Description        string
	CallAgenda         string
	VoiceRecording     string
}

// callRecord is the wire shape of a single Calls row.
type callRecord struct {
	CallAgenda         string `json:"Call_Agenda"`
	CallDuration       string `json:"Call_Duration"`
	CallDurationSec    string `json:"Call_Duration_in_seconds"`
	CallPurpose        string `json:"Call_Purpose"`
	CallResult         string `json:"Call_Result"`
	CallStartTime      string `json:"Call_Start_Time"`
	CallType           string `json:"Call_Type"`
	Description        string `json:"Description"`
	OutgoingCallStatus string `json:"Outgoing_Call_Status"`
	Subject            string `json:"Subject"`
	VoiceRecording     string `json:"Voice_Recording__s"`
}

type callPayload struct {
	Data []callRecord `json:"data"`
}

// encodeLoggedCall builds the Calls POST body. Call_Duration carries the
// whole-minutes component and Call_Duration_in_seconds the remainder, not
// the total.
func encodeLoggedCall(call *LoggedCall) callPayload {
	total := int(call.CallDuration / time.Second)
	return callPayload{Data: []callRecord{{
		CallAgenda:         call.CallAgenda,
		CallDuration:       fmt.Sprintf("%d", total/60),
		CallDurationSec:    fmt.Sprintf("%d", total%60),
		CallPurpose:        string(call.CallPurpose),
		CallResult:         string(call.CallResult),
		CallStartTime:      call.CallStarted.Format(time.RFC3339),
		CallType:           string(call.CallType),
		Description:        call.Description,
		OutgoingCallStatus: string(call.OutgoingCallStatus),
		Subject:            call.Subject,
		VoiceRecording:     call.VoiceRecording,
	}}}
}
