package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StaleAfter is the age past which a snapshot should be resynced.
const StaleAfter = 24 * time.Hour

type PerformanceSnapshot struct {
	ArtistID          uuid.UUID       `json:"artist_id"`
	LeadStreamsTotal  int64           `json:"lead_streams_total"`
	MonthlyStreams    int64           `json:"monthly_streams"`
	EstMonthlyRevenue float64         `json:"est_monthly_revenue"`
	Raw               json.RawMessage `json:"raw,omitempty"`
	ScrapedAt         time.Time       `json:"scraped_at"`
}

func (s *PerformanceSnapshot) IsStale(now time.Time) bool {
	return now.Sub(s.ScrapedAt) > StaleAfter
}
