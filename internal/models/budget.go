package models

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

const (
	BudgetIncome  = "income"
	BudgetExpense = "expense"
)

type Budget struct {
	ID          uuid.UUID `json:"id"`
	ArtistID    uuid.UUID `json:"artist_id"`
	TeamID      uuid.UUID `json:"team_id"`
	Quarter     string    `json:"quarter"`
	Category    string    `json:"category"`
	Kind        string    `json:"kind"`
	AmountCents int64     `json:"amount_cents"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BudgetUpdate struct {
	Quarter     *string
	Category    *string
	Kind        *string
	AmountCents *int64
	Description *string
}

var quarterPattern = regexp.MustCompile(`^\d{4}-Q[1-4]$`)

func IsValidQuarter(q string) bool {
	return quarterPattern.MatchString(q)
}

func IsValidBudgetKind(kind string) bool {
	return kind == BudgetIncome || kind == BudgetExpense
}

// QuarterOf formats t as YYYY-Qn.
func QuarterOf(t time.Time) string {
	return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
}
