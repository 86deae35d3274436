package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/database"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Streaming revenue estimates are monthly; a quarter is three of them.
const monthsPerQuarter = 3

type ArtistCompletion struct {
	ArtistID   uuid.UUID `json:"artist_id"`
	ArtistName string    `json:"artist_name"`
	Total      int       `json:"total_tasks"`
	Completed  int       `json:"completed_tasks"`
	Percent    float64   `json:"completion_percent"`
}

type Overview struct {
	TeamID                  uuid.UUID          `json:"team_id"`
	Quarter                 string             `json:"quarter"`
	IncomeCents             int64              `json:"income_cents"`
	ExpenseCents            int64              `json:"expense_cents"`
	NetCents                int64              `json:"net_cents"`
	Income                  string             `json:"income"`
	Expense                 string             `json:"expense"`
	Net                     string             `json:"net"`
	ProjectedStreamsRevenue float64            `json:"projected_streaming_revenue"`
	ProjectedStreams        string             `json:"projected_streaming_revenue_formatted"`
	StageCounts             map[string]int     `json:"stage_counts"`
	Completion              []ArtistCompletion `json:"completion"`
	StaleSnapshots          int                `json:"stale_snapshots"`
}

type OverviewService struct {
	db        *database.DB
	prospects *ProspectService
	now       func() time.Time
}

func NewOverviewService(db *database.DB, prospects *ProspectService) *OverviewService {
	return &OverviewService{db: db, prospects: prospects, now: time.Now}
}

// Quarter builds the P&L view for a team. An empty quarter means the
// current one.
func (s *OverviewService) Quarter(ctx context.Context, teamID uuid.UUID, quarter string) (*Overview, error) {
	now := s.now()
	if quarter == "" {
		quarter = models.QuarterOf(now)
	}
	if !models.IsValidQuarter(quarter) {
		return nil, ErrInvalidQuarter
	}

	o := &Overview{TeamID: teamID, Quarter: quarter}

	if err := s.loadBudgetTotals(ctx, o); err != nil {
		return nil, err
	}

	var monthly float64
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(p.est_monthly_revenue), 0),
		       COUNT(*) FILTER (WHERE p.scraped_at < $2)
		FROM performance_snapshots p
		JOIN artists a ON a.id = p.artist_id
		WHERE a.team_id = $1
	`, teamID, now.Add(-models.StaleAfter)).Scan(&monthly, &o.StaleSnapshots)
	if err != nil {
		return nil, fmt.Errorf("failed to sum performance: %w", err)
	}
	o.ProjectedStreamsRevenue = math.Round(monthly*monthsPerQuarter*100) / 100
	o.ProjectedStreams = FormatCents(int64(math.Round(monthly * monthsPerQuarter * 100)))

	if o.StageCounts, err = s.prospects.StageCounts(ctx, teamID); err != nil {
		return nil, err
	}

	if o.Completion, err = s.completion(ctx, teamID); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *OverviewService) loadBudgetTotals(ctx context.Context, o *Overview) error {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT kind, COALESCE(SUM(amount_cents), 0)
		FROM budgets WHERE team_id = $1 AND quarter = $2
		GROUP BY kind
	`, o.TeamID, o.Quarter)
	if err != nil {
		return fmt.Errorf("failed to sum budgets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var total int64
		if err := rows.Scan(&kind, &total); err != nil {
			return fmt.Errorf("failed to scan budget total: %w", err)
		}
		switch kind {
		case models.BudgetIncome:
			o.IncomeCents = total
		case models.BudgetExpense:
			o.ExpenseCents = total
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	o.NetCents = o.IncomeCents - o.ExpenseCents
	o.Income = FormatCents(o.IncomeCents)
	o.Expense = FormatCents(o.ExpenseCents)
	o.Net = FormatCents(o.NetCents)
	return nil
}

func (s *OverviewService) completion(ctx context.Context, teamID uuid.UUID) ([]ArtistCompletion, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT a.id, a.name, COUNT(t.id), COUNT(t.id) FILTER (WHERE t.is_completed)
		FROM artists a
		LEFT JOIN tasks t ON t.artist_id = a.id
		WHERE a.team_id = $1
		GROUP BY a.id, a.name
		ORDER BY a.name
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	defer rows.Close()

	out := []ArtistCompletion{}
	for rows.Next() {
		var c ArtistCompletion
		if err := rows.Scan(&c.ArtistID, &c.ArtistName, &c.Total, &c.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan task counts: %w", err)
		}
		c.Percent = CompletionPercent(c.Completed, c.Total)
		out = append(out, c)
	}
	return out, rows.Err()
}

// CompletionPercent rounds to one decimal and is 0 when there are no tasks.
func CompletionPercent(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}

var currencyPrinter = message.NewPrinter(language.English)

// FormatCents renders an amount as US dollars with thousands separators,
// e.g. -123456 becomes "-$1,234.56".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + "$" + currencyPrinter.Sprintf("%d", cents/100) + fmt.Sprintf(".%02d", cents%100)
}
