// Package perfsync drives the external streaming-performance scraper and keeps
// one snapshot per artist up to date.
package perfsync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotConfigured = errors.New("performance sync is not configured")
	ErrSyncMismatch  = errors.New("performance sync reported a mismatch")
)

type Request struct {
	ArtistID   uuid.UUID `json:"artist_id"`
	SpotifyID  string    `json:"spotify_id"`
	ArtistName string    `json:"artist_name"`
	// TeamID routes status events; it is not sent to the collaborator.
	TeamID uuid.UUID `json:"-"`
}

// Payload is a successful scrape. Raw keeps the collaborator's body verbatim.
type Payload struct {
	LeadStreamsTotal  int64
	MonthlyStreams    int64
	EstMonthlyRevenue float64
	ScrapedAt         time.Time
	Raw               json.RawMessage
}

// InvokeError carries the collaborator's best-effort message.
type InvokeError struct {
	StatusCode int
	Message    string
	Mismatch   bool
}

func (e *InvokeError) Error() string {
	return e.Message
}

func (e *InvokeError) Unwrap() error {
	if e.Mismatch {
		return ErrSyncMismatch
	}
	return nil
}

type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(url, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{url: url, apiKey: apiKey, httpClient: httpClient, now: time.Now}
}

type responseBody struct {
	Error             json.RawMessage `json:"error"`
	Message           string          `json:"message"`
	Mismatch          json.RawMessage `json:"mismatch"`
	LeadStreamsTotal  int64           `json:"lead_streams_total"`
	MonthlyStreams    int64           `json:"monthly_streams"`
	EstMonthlyRevenue float64         `json:"est_monthly_revenue"`
	ScrapedAt         *time.Time      `json:"scraped_at"`
}

func (c *Client) Invoke(ctx context.Context, req Request) (*Payload, error) {
	if c.url == "" {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sync request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build sync request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call performance sync: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read sync response: %w", err)
	}

	var body responseBody
	decodeErr := json.Unmarshal(raw, &body)

	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
	mismatch := decodeErr == nil && present(body.Mismatch)
	if !ok || mismatch || (decodeErr == nil && present(body.Error)) {
		return nil, &InvokeError{
			StatusCode: resp.StatusCode,
			Message:    bestMessage(body, resp.StatusCode, mismatch),
			Mismatch:   mismatch,
		}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode sync response: %w", decodeErr)
	}

	scrapedAt := c.now()
	if body.ScrapedAt != nil {
		scrapedAt = *body.ScrapedAt
	}

	return &Payload{
		LeadStreamsTotal:  body.LeadStreamsTotal,
		MonthlyStreams:    body.MonthlyStreams,
		EstMonthlyRevenue: body.EstMonthlyRevenue,
		ScrapedAt:         scrapedAt,
		Raw:               json.RawMessage(raw),
	}, nil
}

// present reports whether a field holds a truthy JSON value. Absent fields,
// null, false, "" and 0 are "not set".
func present(v json.RawMessage) bool {
	if len(bytes.TrimSpace(v)) == 0 {
		return false
	}
	var decoded any
	if err := json.Unmarshal(v, &decoded); err != nil {
		return true
	}
	switch x := decoded.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	}
	return true
}

func bestMessage(body responseBody, status int, mismatch bool) string {
	if present(body.Error) {
		var s string
		if json.Unmarshal(body.Error, &s) == nil && s != "" {
			return s
		}
		var obj struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body.Error, &obj) == nil && obj.Message != "" {
			return obj.Message
		}
	}
	if body.Message != "" {
		return body.Message
	}
	if mismatch {
		var s string
		if json.Unmarshal(body.Mismatch, &s) == nil && s != "" {
			return s
		}
		return "spotify artist does not match"
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("performance sync returned status %d", status)
}
