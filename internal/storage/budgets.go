package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clubledger/internal/core"
)

const budgetColumns = `id, season_id, team_id, category, budgeted_amount_cents, notes, created_at, updated_at`

func scanBudget(row interface{ Scan(...any) error }) (core.Budget, error) {
	var b core.Budget
	var teamID, notes, updated sql.NullString
	var cents int64
	var created string
	if err := row.Scan(&b.ID, &b.SeasonID, &teamID, &b.Category, &cents, &notes, &created, &updated); err != nil {
		return core.Budget{}, err
	}
	b.TeamID = scanString(teamID)
	b.Notes = scanString(notes)
	b.BudgetedAmount = core.Money{Cents: cents}
	b.CreatedAt = parseTimestamp(created)
	if updated.Valid {
		b.UpdatedAt = parseTimestamp(updated.String)
	}
	return b, nil
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if err := r.seasonRef(ctx, b.SeasonID); err != nil {
		return core.Budget{}, err
	}
	if b.TeamID != "" {
		if err := r.teamRef(ctx, b.SeasonID, b.TeamID); err != nil {
			return core.Budget{}, err
		}
	}
	if b.ID == "" {
		b.ID = newID()
	}
	b.CreatedAt = now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (id, season_id, team_id, category, budgeted_amount_cents, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.SeasonID, nullable(b.TeamID), b.Category, b.BudgetedAmount.Cents,
		nullable(b.Notes), b.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, budgetID string) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = ?`, budgetID)
	b, err := scanBudget(row)
	if err != nil {
		return core.Budget{}, notFound("budget", budgetID, err)
	}
	return b, nil
}

// ListBudgets returns budgets for a season, optionally narrowed to one team.
// An empty teamID includes both season-wide and team-scoped rows.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, seasonID, teamID string) ([]core.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE season_id = ? ORDER BY created_at, id`
	args := []any{seasonID}
	if teamID != "" {
		query = `SELECT ` + budgetColumns + ` FROM budgets WHERE season_id = ? AND team_id = ? ORDER BY created_at, id`
		args = append(args, teamID)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListBudgetsByTeam(ctx context.Context, teamID string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE team_id = ? ORDER BY created_at, id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list budgets by team: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE budgets SET category = ?, budgeted_amount_cents = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		b.Category, b.BudgetedAmount.Cents, nullable(b.Notes),
		now().Format(time.RFC3339), b.ID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRow(res, "budget", b.ID)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, budgetID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res, "budget", budgetID)
}
