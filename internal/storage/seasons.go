package storage

import (
	"context"
	"fmt"
	"time"

	"clubledger/internal/core"
)

// Organization is the thin owner record for public transparency reports.
type Organization struct {
	ID           string
	Name         string
	Description  string
	Website      string
	ContactEmail string
	ContactPhone string
	IsPublic     bool
	CreatedAt    time.Time
}

func (r *SQLiteRepository) CreateOrganization(ctx context.Context, org Organization) (Organization, error) {
	if org.ID == "" {
		org.ID = newID()
	}
	org.CreatedAt = now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO organizations (id, name, description, website, contact_email, contact_phone, is_public, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		org.ID, org.Name, nullable(org.Description), nullable(org.Website),
		nullable(org.ContactEmail), nullable(org.ContactPhone), org.IsPublic,
		org.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return Organization{}, fmt.Errorf("create organization: %w", err)
	}
	return org, nil
}

func (r *SQLiteRepository) GetOrganizationName(ctx context.Context, orgID string) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx, `SELECT name FROM organizations WHERE id = ?`, orgID).Scan(&name)
	if err != nil {
		return "", notFound("organization", orgID, err)
	}
	return name, nil
}

func (r *SQLiteRepository) CreateSeason(ctx context.Context, s core.Season) (core.Season, error) {
	if err := s.Validate(); err != nil {
		return core.Season{}, err
	}
	if s.ID == "" {
		s.ID = newID()
	}
	s.CreatedAt = now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO seasons (id, organization_id, name, season_type, year, start_date, end_date, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, nullable(s.OrganizationID), s.Name, string(s.Type), s.Year,
		s.StartDate.String(), s.EndDate.String(), s.IsActive,
		s.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return core.Season{}, fmt.Errorf("create season: %w", err)
	}
	return s, nil
}

const seasonColumns = `id, COALESCE(organization_id, ''), name, season_type, year, start_date, end_date, is_active, created_at`

func scanSeason(row interface{ Scan(...any) error }) (core.Season, error) {
	var s core.Season
	var seasonType, start, end, created string
	if err := row.Scan(&s.ID, &s.OrganizationID, &s.Name, &seasonType, &s.Year, &start, &end, &s.IsActive, &created); err != nil {
		return core.Season{}, err
	}
	s.Type = core.SeasonType(seasonType)
	s.StartDate = parseDate(start)
	s.EndDate = parseDate(end)
	s.CreatedAt = parseTimestamp(created)
	return s, nil
}

func parseDate(s string) core.Date {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return core.Date{}
	}
	return core.Date{Time: t}
}

func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	// datetime('now') default produces this shape
	t, _ := time.Parse("2006-01-02 15:04:05", s)
	return t
}

func (r *SQLiteRepository) GetSeason(ctx context.Context, seasonID string) (core.Season, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+seasonColumns+` FROM seasons WHERE id = ?`, seasonID)
	s, err := scanSeason(row)
	if err != nil {
		return core.Season{}, notFound("season", seasonID, err)
	}
	return s, nil
}

func (r *SQLiteRepository) ListSeasons(ctx context.Context) ([]core.Season, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+seasonColumns+` FROM seasons ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer rows.Close()

	var out []core.Season
	for rows.Next() {
		s, err := scanSeason(rows)
		if err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListSeasonsByOrganization(ctx context.Context, orgID string) ([]core.Season, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+seasonColumns+` FROM seasons WHERE organization_id = ? ORDER BY created_at, id`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list seasons by organization: %w", err)
	}
	defer rows.Close()

	var out []core.Season
	for rows.Next() {
		s, err := scanSeason(rows)
		if err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateSeason replaces the whole record; there are no partial patch semantics.
func (r *SQLiteRepository) UpdateSeason(ctx context.Context, s core.Season) error {
	if err := s.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE seasons SET organization_id = ?, name = ?, season_type = ?, year = ?,
			start_date = ?, end_date = ?, is_active = ?
		WHERE id = ?`,
		nullable(s.OrganizationID), s.Name, string(s.Type), s.Year,
		s.StartDate.String(), s.EndDate.String(), s.IsActive, s.ID)
	if err != nil {
		return fmt.Errorf("update season: %w", err)
	}
	return requireRow(res, "season", s.ID)
}

func (r *SQLiteRepository) DeleteSeason(ctx context.Context, seasonID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM seasons WHERE id = ?`, seasonID)
	if err != nil {
		return fmt.Errorf("delete season: %w", err)
	}
	return requireRow(res, "season", seasonID)
}
