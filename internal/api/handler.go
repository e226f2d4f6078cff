package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twilio/twilio-go/twiml"

	"callbridge/internal/calllog"
	"callbridge/internal/crm"
	"callbridge/internal/metrics"
	"callbridge/internal/notify"
)

// CRM is the subset of the CRM client the handlers need.
type CRM interface {
	GetEventDetails(ctx context.Context, creator, venue string) (*crm.Event, error)
	RecordVoiceCall(ctx context.Context, call *crm.LoggedCall) error
	FieldMetadata(ctx context.Context, module string) (json.RawMessage, error)
}

// CallLookup fetches a completed call's record from the telephony
// provider.
type CallLookup interface {
	LookupCall(ctx context.Context, callSID string) (calllog.CallRecord, error)
}

// Options carries the request-independent values the handlers need.
type Options struct {
	// PublicURL is the externally reachable base URL, used to build the
	// voice-response callback URLs.
	PublicURL string
	// DefaultCreator and DefaultVenue are the search filter values used
	// when the webhook body does not carry them.
	DefaultCreator string
	DefaultVenue   string
}

// Handler holds all HTTP handler dependencies.
type Handler struct {
	crm        CRM
	dispatcher *notify.Dispatcher
	calls      CallLookup
	opts       Options
	mux        *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(crmClient CRM, dispatcher *notify.Dispatcher, calls CallLookup, opts Options) http.Handler {
	h := &Handler{
		crm:        crmClient,
		dispatcher: dispatcher,
		calls:      calls,
		opts:       opts,
		mux:        http.NewServeMux(),
	}

	h.mux.HandleFunc("POST /{$}", h.notifyMeeting)
	h.mux.HandleFunc("POST /call/receive", h.callReceive)
	h.mux.HandleFunc("POST /call/end", h.callEnd)
	h.mux.HandleFunc("POST /call/record", h.callRecord)
	h.mux.HandleFunc("GET /metadata/{module}", h.fieldMetadata)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// meetingRequest is the body of the default webhook. Meeting_Location and
// Meeting_Venue are interchangeable; some trigger sources send one, some
// the other.
type meetingRequest struct {
	Creator  string `json:"Meeting_Creator"`
	Location string `json:"Meeting_Location"`
	Venue    string `json:"Meeting_Venue"`
}

// POST / — look up the meeting in the CRM and message every participant.
// Responds with a JSON map of contact id to delivery outcome.
func (h *Handler) notifyMeeting(w http.ResponseWriter, r *http.Request) {
	metrics.WebhooksReceived.WithLabelValues("notify").Inc()
	start := time.Now()

	req, err := parseMeetingRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	creator := req.Creator
	if creator == "" {
		creator = h.opts.DefaultCreator
	}
	venue := req.Location
	if venue == "" {
		venue = req.Venue
	}
	if venue == "" {
		venue = h.opts.DefaultVenue
	}
	if creator == "" || venue == "" {
		writeError(w, http.StatusBadRequest, "Meeting_Creator and Meeting_Location are required")
		return
	}

	event, err := h.crm.GetEventDetails(r.Context(), creator, venue)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	outcomes := h.dispatcher.NotifyParticipants(r.Context(), event)
	metrics.NotifyDuration.Observe(float64(time.Since(start).Milliseconds()))
	writeJSON(w, http.StatusOK, outcomes)
}

func parseMeetingRequest(r *http.Request) (*meetingRequest, error) {
	var req meetingRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, fmt.Errorf("invalid JSON: %s", err)
		}
		return &req, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form body: %s", err)
	}
	req.Creator = r.PostFormValue("Meeting_Creator")
	req.Location = r.PostFormValue("Meeting_Location")
	req.Venue = r.PostFormValue("Meeting_Venue")
	return &req, nil
}

// POST /call/receive — answer an inbound call: prompt the caller, then
// record and transcribe what they say.
func (h *Handler) callReceive(w http.ResponseWriter, r *http.Request) {
	metrics.WebhooksReceived.WithLabelValues("call_receive").Inc()

	doc, err := twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{
			Message: "Please leave a message after the beep. Press the hash key when you are done.",
		},
		&twiml.VoiceRecord{
			Action:             h.opts.PublicURL + "/call/end",
			Method:             "POST",
			MaxLength:          "300",
			FinishOnKey:        "#",
			Transcribe:         "true",
			TranscribeCallback: h.opts.PublicURL + "/call/record",
		},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeXML(w, http.StatusOK, doc)
}

// POST /call/end — thank the caller and hang up.
func (h *Handler) callEnd(w http.ResponseWriter, r *http.Request) {
	metrics.WebhooksReceived.WithLabelValues("call_end").Inc()

	doc, err := twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{Message: "Thank you for your message. Goodbye."},
		&twiml.VoiceHangup{},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeXML(w, http.StatusOK, doc)
}

// POST /call/record — the provider's transcription callback. Fetches the
// completed call, maps it to a call-log record, and persists it in the
// CRM. Responds with a plaintext success or failure body.
func (h *Handler) callRecord(w http.ResponseWriter, r *http.Request) {
	metrics.WebhooksReceived.WithLabelValues("call_record").Inc()

	if err := r.ParseForm(); err != nil {
		writeText(w, http.StatusBadRequest, fmt.Sprintf("invalid form body: %s", err))
		return
	}
	callSID := r.PostFormValue("CallSid")
	if callSID == "" {
		writeText(w, http.StatusBadRequest, "CallSid is required")
		return
	}

	rec, err := h.calls.LookupCall(r.Context(), callSID)
	if err != nil {
		writeText(w, http.StatusBadGateway, fmt.Sprintf("could not fetch call %s: %s", callSID, err))
		return
	}
	rec.RecordingURL = r.PostFormValue("RecordingUrl")
	rec.Transcription = r.PostFormValue("TranscriptionText")

	call := calllog.FromInbound(rec)
	if err := h.crm.RecordVoiceCall(r.Context(), call); err != nil {
		writeText(w, http.StatusBadGateway, fmt.Sprintf("could not record call %s: %s", callSID, err))
		return
	}
	metrics.CallsLogged.Inc()
	writeText(w, http.StatusOK, fmt.Sprintf("recorded call %s", callSID))
}

// GET /metadata/{module} — raw CRM field metadata for a module.
func (h *Handler) fieldMetadata(w http.ResponseWriter, r *http.Request) {
	meta, err := h.crm.FieldMetadata(r.Context(), r.PathValue("module"))
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(meta)
}

// GET /healthz — always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
