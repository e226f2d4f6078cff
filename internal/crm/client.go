package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"callbridge/internal/metrics"
)

// Client issues the handful of CRM REST calls this service needs. The
// injected *http.Client is expected to carry the bearer credential and the
// request timeout; Client itself performs no authentication.
type Client struct {
	http    *http.Client
	baseURL string
}

// New creates a Client rooted at baseURL (the CRM's record API root, e.g.
// "https://www.zohoapis.com/crm/v5").
func New(baseURL string, hc *http.Client) *Client {
	return &Client{http: hc, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// SearchCriteria builds the conjunctive Events search filter: an equals
// match on the creator and a starts-with match on the venue, both values
// percent-encoded.
func SearchCriteria(creator, venue string) string {
	return fmt.Sprintf("((Created_By:equals:%s)and(Venue:starts_with:%s))",
		encodeCriteriaValue(creator), encodeCriteriaValue(venue))
}

// encodeCriteriaValue percent-encodes a criteria operand. Spaces become
// %20, not +, since the value is embedded in the criteria expression
// rather than being a form field of its own.
func encodeCriteriaValue(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

// GetEventDetails searches for the event created by creator at a venue
// starting with venue, then resolves every participant's contact details
// with one Contacts lookup each, in response order.
//
// A failed contact lookup fails the whole call; no partial Event is ever
// returned.
func (c *Client) GetEventDetails(ctx context.Context, creator, venue string) (*Event, error) {
	body, err := c.get(ctx, "Events/search?criteria="+SearchCriteria(creator, venue), "search_events")
	if err != nil {
		return nil, fmt.Errorf("crm: search events: %w", err)
	}
	event, err := DecodeEventSearch(body)
	if err != nil {
		return nil, fmt.Errorf("crm: search events: %w", err)
	}

	for _, p := range event.Participants {
		contact, err := c.getContact(ctx, p.Participant)
		if err != nil {
			return nil, fmt.Errorf("crm: resolve contact %s: %w", p.Participant, err)
		}
		p.ContactDetails = contact
	}
	return event, nil
}

// getContact fetches just the phone and mobile numbers for a contact; the
// Events payload does not carry phone numbers, so this second request is
// unavoidable.
func (c *Client) getContact(ctx context.Context, contactID string) (*Contact, error) {
	path := fmt.Sprintf("Contacts/%s?fields=Phone,Mobile", url.PathEscape(contactID))
	body, err := c.get(ctx, path, "get_contact")
	if err != nil {
		return nil, err
	}
	return DecodeContactRecord(body)
}

// RecordVoiceCall persists a logged call into the CRM's Calls module.
//
// Success means the HTTP request completed with a 2xx status. The response
// body is not inspected for record-level error codes, so a business-level
// rejection with a 2xx status is not detected here.
func (c *Client) RecordVoiceCall(ctx context.Context, call *LoggedCall) error {
	payload, err := json.Marshal(encodeLoggedCall(call))
	if err != nil {
		return fmt.Errorf("crm: encode call: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/Calls", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("crm: record call: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.CRMRequests.WithLabelValues("record_call", "error").Inc()
		return fmt.Errorf("crm: record call: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.CRMRequests.WithLabelValues("record_call", "error").Inc()
		return &StatusError{Operation: "record call", StatusCode: resp.StatusCode}
	}
	metrics.CRMRequests.WithLabelValues("record_call", "ok").Inc()
	return nil
}

// FieldMetadata returns the raw field metadata document for a CRM module
// (e.g. "Calls"), unparsed.
func (c *Client) FieldMetadata(ctx context.Context, module string) (json.RawMessage, error) {
	body, err := c.get(ctx, "settings/fields?module="+url.QueryEscape(module), "field_metadata")
	if err != nil {
		return nil, fmt.Errorf("crm: field metadata for %s: %w", module, err)
	}
	return json.RawMessage(body), nil
}

func (c *Client) get(ctx context.Context, pathAndQuery, operation string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+pathAndQuery, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.CRMRequests.WithLabelValues(operation, "error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.CRMRequests.WithLabelValues(operation, "error").Inc()
		return nil, &StatusError{Operation: operation, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.CRMRequests.WithLabelValues(operation, "error").Inc()
		return nil, err
	}
	metrics.CRMRequests.WithLabelValues(operation, "ok").Inc()
	return body, nil
}
