package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ScrapeClient talks to a hosted scraping API that renders the page and
// returns its metadata block.
type ScrapeClient struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

func NewScrapeClient(endpoint, apiKey string, httpClient *http.Client) *ScrapeClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &ScrapeClient{
		httpClient: httpClient,
		endpoint:   endpoint,
		apiKey:     apiKey,
	}
}

type scrapeRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type scrapeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Metadata struct {
			Title         string `json:"title"`
			Description   string `json:"description"`
			OGTitle       string `json:"ogTitle"`
			OGDescription string `json:"ogDescription"`
			OGImage       string `json:"ogImage"`
			Favicon       string `json:"favicon"`
		} `json:"metadata"`
	} `json:"data"`
}

func (s *ScrapeClient) Scrape(ctx context.Context, target string) (Meta, error) {
	ctx, cancel := context.WithTimeout(ctx, fallbackTimeout)
	defer cancel()

	payload, err := json.Marshal(scrapeRequest{URL: target, Formats: []string{"markdown"}})
	if err != nil {
		return Meta{}, fmt.Errorf("failed to encode scrape request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Meta{}, fmt.Errorf("failed to build scrape request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Meta{}, fmt.Errorf("failed to call scrape api: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Meta{}, fmt.Errorf("scrape api returned status %d", resp.StatusCode)
	}

	var body scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Meta{}, fmt.Errorf("failed to decode scrape response: %w", err)
	}

	md := body.Data.Metadata
	return Meta{
		Title:       firstNonEmpty(md.OGTitle, md.Title),
		Description: firstNonEmpty(md.OGDescription, md.Description),
		Image:       md.OGImage,
		Favicon:     md.Favicon,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
