package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/rosterdesk-api/internal/database"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CreateBudgetParams struct {
	ArtistID    uuid.UUID
	Quarter     string
	Category    string
	Kind        string
	AmountCents int64
	Description *string
}

type BudgetService struct {
	db *database.DB
}

func NewBudgetService(db *database.DB) *BudgetService {
	return &BudgetService{db: db}
}

const budgetColumns = `id, artist_id, team_id, quarter, category, kind, amount_cents, description, created_at, updated_at`

func scanBudget(row pgx.Row) (*models.Budget, error) {
	var b models.Budget
	err := row.Scan(&b.ID, &b.ArtistID, &b.TeamID, &b.Quarter, &b.Category, &b.Kind, &b.AmountCents, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBudgets(rows pgx.Rows) ([]models.Budget, error) {
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}

func validateBudget(quarter, kind string, amount int64) error {
	if !models.IsValidQuarter(quarter) {
		return ErrInvalidQuarter
	}
	if !models.IsValidBudgetKind(kind) {
		return ErrInvalidBudgetKind
	}
	if amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (s *BudgetService) ListByArtist(ctx context.Context, artistID uuid.UUID) ([]models.Budget, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets WHERE artist_id = $1
		ORDER BY quarter DESC, kind, category
	`, artistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return collectBudgets(rows)
}

func (s *BudgetService) ListByTeamQuarter(ctx context.Context, teamID uuid.UUID, quarter string) ([]models.Budget, error) {
	if !models.IsValidQuarter(quarter) {
		return nil, ErrInvalidQuarter
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets WHERE team_id = $1 AND quarter = $2
		ORDER BY kind, category
	`, teamID, quarter)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return collectBudgets(rows)
}

func (s *BudgetService) GetByID(ctx context.Context, budgetID uuid.UUID) (*models.Budget, error) {
	b, err := scanBudget(s.db.Pool.QueryRow(ctx, `
		SELECT `+budgetColumns+` FROM budgets WHERE id = $1
	`, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return b, nil
}

func (s *BudgetService) Create(ctx context.Context, p CreateBudgetParams) (*models.Budget, error) {
	p.Category = strings.TrimSpace(p.Category)
	if p.Category == "" {
		return nil, ErrNameRequired
	}
	if err := validateBudget(p.Quarter, p.Kind, p.AmountCents); err != nil {
		return nil, err
	}

	b, err := scanBudget(s.db.Pool.QueryRow(ctx, `
		INSERT INTO budgets (artist_id, team_id, quarter, category, kind, amount_cents, description)
		SELECT id, team_id, $2, $3, $4, $5, $6 FROM artists WHERE id = $1
		RETURNING `+budgetColumns,
		p.ArtistID, p.Quarter, p.Category, p.Kind, p.AmountCents, p.Description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}
	return b, nil
}

func (s *BudgetService) Update(ctx context.Context, budgetID uuid.UUID, u models.BudgetUpdate) (*models.Budget, error) {
	if u.Quarter == nil && u.Category == nil && u.Kind == nil && u.AmountCents == nil && u.Description == nil {
		return nil, ErrNoFieldsToUpdate
	}
	if u.Quarter != nil && !models.IsValidQuarter(*u.Quarter) {
		return nil, ErrInvalidQuarter
	}
	if u.Kind != nil && !models.IsValidBudgetKind(*u.Kind) {
		return nil, ErrInvalidBudgetKind
	}
	if u.AmountCents != nil && *u.AmountCents < 0 {
		return nil, ErrInvalidAmount
	}
	if u.Category != nil && strings.TrimSpace(*u.Category) == "" {
		return nil, ErrNameRequired
	}

	b, err := scanBudget(s.db.Pool.QueryRow(ctx, `
		UPDATE budgets SET
			quarter = COALESCE($1, quarter),
			category = COALESCE($2, category),
			kind = COALESCE($3, kind),
			amount_cents = COALESCE($4, amount_cents),
			description = COALESCE($5, description),
			updated_at = NOW()
		WHERE id = $6
		RETURNING `+budgetColumns,
		u.Quarter, u.Category, u.Kind, u.AmountCents, u.Description, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}
	return b, nil
}

func (s *BudgetService) Delete(ctx context.Context, budgetID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1`, budgetID)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBudgetNotFound
	}
	return nil
}
