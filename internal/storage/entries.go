package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clubledger/internal/core"
)

const expenseColumns = `id, season_id, team_id, category, description, amount_cents,
	vendor, receipt_number, payment_date, notes, created_at`

const revenueColumns = `id, season_id, team_id, category, description, amount_cents,
	source, payment_date, notes, created_at`

func scanExpense(row interface{ Scan(...any) error }) (core.Expense, error) {
	var e core.Expense
	var teamID, vendor, receipt, notes sql.NullString
	var category, payment, created string
	var cents int64
	if err := row.Scan(&e.ID, &e.SeasonID, &teamID, &category, &e.Description,
		&cents, &vendor, &receipt, &payment, &notes, &created); err != nil {
		return core.Expense{}, err
	}
	e.TeamID = scanString(teamID)
	e.Category = core.ExpenseCategory(category)
	e.Amount = core.Money{Cents: cents}
	e.Vendor = scanString(vendor)
	e.ReceiptNumber = scanString(receipt)
	e.PaymentDate = parseDate(payment)
	e.Notes = scanString(notes)
	e.CreatedAt = parseTimestamp(created)
	return e, nil
}

func scanRevenue(row interface{ Scan(...any) error }) (core.Revenue, error) {
	var v core.Revenue
	var teamID, source, notes sql.NullString
	var category, payment, created string
	var cents int64
	if err := row.Scan(&v.ID, &v.SeasonID, &teamID, &category, &v.Description,
		&cents, &source, &payment, &notes, &created); err != nil {
		return core.Revenue{}, err
	}
	v.TeamID = scanString(teamID)
	v.Category = core.RevenueCategory(category)
	v.Amount = core.Money{Cents: cents}
	v.Source = scanString(source)
	v.PaymentDate = parseDate(payment)
	v.Notes = scanString(notes)
	v.CreatedAt = parseTimestamp(created)
	return v, nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := r.seasonRef(ctx, e.SeasonID); err != nil {
		return core.Expense{}, err
	}
	if e.TeamID != "" {
		if err := r.teamRef(ctx, e.SeasonID, e.TeamID); err != nil {
			return core.Expense{}, err
		}
	}
	if e.ID == "" {
		e.ID = newID()
	}
	e.CreatedAt = now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, season_id, team_id, category, description, amount_cents,
			vendor, receipt_number, payment_date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SeasonID, nullable(e.TeamID), string(e.Category), e.Description,
		e.Amount.Cents, nullable(e.Vendor), nullable(e.ReceiptNumber),
		e.PaymentDate.String(), nullable(e.Notes), e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, expenseID string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, expenseID)
	e, err := scanExpense(row)
	if err != nil {
		return core.Expense{}, notFound("expense", expenseID, err)
	}
	return e, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, seasonID, teamID string) ([]core.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE season_id = ? ORDER BY created_at, id`
	args := []any{seasonID}
	if teamID != "" {
		query = `SELECT ` + expenseColumns + ` FROM expenses WHERE season_id = ? AND team_id = ? ORDER BY created_at, id`
		args = append(args, teamID)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListExpensesByTeam(ctx context.Context, teamID string) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE team_id = ? ORDER BY created_at, id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list expenses by team: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses SET category = ?, description = ?, amount_cents = ?, vendor = ?,
			receipt_number = ?, payment_date = ?, notes = ?
		WHERE id = ?`,
		string(e.Category), e.Description, e.Amount.Cents, nullable(e.Vendor),
		nullable(e.ReceiptNumber), e.PaymentDate.String(), nullable(e.Notes), e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRow(res, "expense", e.ID)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, expenseID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireRow(res, "expense", expenseID)
}

func (r *SQLiteRepository) CreateRevenue(ctx context.Context, v core.Revenue) (core.Revenue, error) {
	if err := v.Validate(); err != nil {
		return core.Revenue{}, err
	}
	if err := r.seasonRef(ctx, v.SeasonID); err != nil {
		return core.Revenue{}, err
	}
	if v.TeamID != "" {
		if err := r.teamRef(ctx, v.SeasonID, v.TeamID); err != nil {
			return core.Revenue{}, err
		}
	}
	if v.ID == "" {
		v.ID = newID()
	}
	v.CreatedAt = now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO revenues (id, season_id, team_id, category, description, amount_cents,
			source, payment_date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.SeasonID, nullable(v.TeamID), string(v.Category), v.Description,
		v.Amount.Cents, nullable(v.Source), v.PaymentDate.String(),
		nullable(v.Notes), v.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return core.Revenue{}, fmt.Errorf("create revenue: %w", err)
	}
	return v, nil
}

func (r *SQLiteRepository) GetRevenue(ctx context.Context, revenueID string) (core.Revenue, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+revenueColumns+` FROM revenues WHERE id = ?`, revenueID)
	v, err := scanRevenue(row)
	if err != nil {
		return core.Revenue{}, notFound("revenue", revenueID, err)
	}
	return v, nil
}

func (r *SQLiteRepository) ListRevenues(ctx context.Context, seasonID, teamID string) ([]core.Revenue, error) {
	query := `SELECT ` + revenueColumns + ` FROM revenues WHERE season_id = ? ORDER BY created_at, id`
	args := []any{seasonID}
	if teamID != "" {
		query = `SELECT ` + revenueColumns + ` FROM revenues WHERE season_id = ? AND team_id = ? ORDER BY created_at, id`
		args = append(args, teamID)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list revenues: %w", err)
	}
	defer rows.Close()

	var out []core.Revenue
	for rows.Next() {
		v, err := scanRevenue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan revenue: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListRevenuesByTeam(ctx context.Context, teamID string) ([]core.Revenue, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+revenueColumns+` FROM revenues WHERE team_id = ? ORDER BY created_at, id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list revenues by team: %w", err)
	}
	defer rows.Close()

	var out []core.Revenue
	for rows.Next() {
		v, err := scanRevenue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan revenue: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateRevenue(ctx context.Context, v core.Revenue) error {
	if err := v.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE revenues SET category = ?, description = ?, amount_cents = ?, source = ?,
			payment_date = ?, notes = ?
		WHERE id = ?`,
		string(v.Category), v.Description, v.Amount.Cents, nullable(v.Source),
		v.PaymentDate.String(), nullable(v.Notes), v.ID)
	if err != nil {
		return fmt.Errorf("update revenue: %w", err)
	}
	return requireRow(res, "revenue", v.ID)
}

func (r *SQLiteRepository) DeleteRevenue(ctx context.Context, revenueID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM revenues WHERE id = ?`, revenueID)
	if err != nil {
		return fmt.Errorf("delete revenue: %w", err)
	}
	return requireRow(res, "revenue", revenueID)
}

// InsertExpenses bulk-inserts validated rows inside one transaction; the CSV
// importer batches through here.
func (r *SQLiteRepository) InsertExpenses(ctx context.Context, expenses []core.Expense) error {
	if len(expenses) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expenses (id, season_id, team_id, category, description, amount_cents,
			vendor, receipt_number, payment_date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare batch insert: %w", err)
	}
	defer stmt.Close()

	created := now().Format(time.RFC3339)
	for _, e := range expenses {
		id := e.ID
		if id == "" {
			id = newID()
		}
		if _, err := stmt.ExecContext(ctx, id, e.SeasonID, nullable(e.TeamID),
			string(e.Category), e.Description, e.Amount.Cents, nullable(e.Vendor),
			nullable(e.ReceiptNumber), e.PaymentDate.String(), nullable(e.Notes), created); err != nil {
			return fmt.Errorf("insert expense %q: %w", e.Description, err)
		}
	}
	return tx.Commit()
}

// InsertRevenues is the revenue counterpart of InsertExpenses.
func (r *SQLiteRepository) InsertRevenues(ctx context.Context, revenues []core.Revenue) error {
	if len(revenues) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO revenues (id, season_id, team_id, category, description, amount_cents,
			source, payment_date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare batch insert: %w", err)
	}
	defer stmt.Close()

	created := now().Format(time.RFC3339)
	for _, v := range revenues {
		id := v.ID
		if id == "" {
			id = newID()
		}
		if _, err := stmt.ExecContext(ctx, id, v.SeasonID, nullable(v.TeamID),
			string(v.Category), v.Description, v.Amount.Cents, nullable(v.Source),
			v.PaymentDate.String(), nullable(v.Notes), created); err != nil {
			return fmt.Errorf("insert revenue %q: %w", v.Description, err)
		}
	}
	return tx.Commit()
}
