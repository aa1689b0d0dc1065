package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clubledger/internal/core"
)

const teamColumns = `id, season_id, name, age_group, sport, gender, coach_id,
	max_players, current_players, registration_fee_cents, created_at`

func scanTeam(row interface{ Scan(...any) error }) (core.Team, error) {
	var t core.Team
	var gender, coachID sql.NullString
	var feeCents int64
	var created string
	if err := row.Scan(&t.ID, &t.SeasonID, &t.Name, &t.AgeGroup, &t.Sport,
		&gender, &coachID, &t.MaxPlayers, &t.CurrentPlayers, &feeCents, &created); err != nil {
		return core.Team{}, err
	}
	t.Gender = scanString(gender)
	t.CoachID = scanString(coachID)
	t.RegistrationFee = core.Money{Cents: feeCents}
	t.CreatedAt = parseTimestamp(created)
	return t, nil
}

func (r *SQLiteRepository) CreateTeam(ctx context.Context, t core.Team) (core.Team, error) {
	if err := t.Validate(); err != nil {
		return core.Team{}, err
	}
	if err := r.seasonRef(ctx, t.SeasonID); err != nil {
		return core.Team{}, err
	}
	if t.ID == "" {
		t.ID = newID()
	}
	t.CreatedAt = now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO teams (id, season_id, name, age_group, sport, gender, coach_id,
			max_players, current_players, registration_fee_cents, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.SeasonID, t.Name, t.AgeGroup, t.Sport, nullable(t.Gender),
		nullable(t.CoachID), t.MaxPlayers, t.CurrentPlayers,
		t.RegistrationFee.Cents, t.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return core.Team{}, fmt.Errorf("create team: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) GetTeam(ctx context.Context, teamID string) (core.Team, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = ?`, teamID)
	t, err := scanTeam(row)
	if err != nil {
		return core.Team{}, notFound("team", teamID, err)
	}
	return t, nil
}

// ListTeams returns the season's teams in creation order; the transparency
// report relies on this ordering being stable.
func (r *SQLiteRepository) ListTeams(ctx context.Context, seasonID string) ([]core.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY created_at, id`
	args := []any{}
	if seasonID != "" {
		query = `SELECT ` + teamColumns + ` FROM teams WHERE season_id = ? ORDER BY created_at, id`
		args = append(args, seasonID)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var out []core.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateTeam(ctx context.Context, t core.Team) error {
	if err := t.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE teams SET name = ?, age_group = ?, sport = ?, gender = ?, coach_id = ?,
			max_players = ?, current_players = ?, registration_fee_cents = ?
		WHERE id = ?`,
		t.Name, t.AgeGroup, t.Sport, nullable(t.Gender), nullable(t.CoachID),
		t.MaxPlayers, t.CurrentPlayers, t.RegistrationFee.Cents, t.ID)
	if err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	return requireRow(res, "team", t.ID)
}

// UpdateTeamRoster is used by the bulk registration-fee quick action: it
// records the roster size and per-player fee observed at payment time.
func (r *SQLiteRepository) UpdateTeamRoster(ctx context.Context, teamID string, playerCount int, fee core.Money) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE teams SET current_players = ?, registration_fee_cents = ? WHERE id = ?`,
		playerCount, fee.Cents, teamID)
	if err != nil {
		return fmt.Errorf("update team roster: %w", err)
	}
	return requireRow(res, "team", teamID)
}

func (r *SQLiteRepository) DeleteTeam(ctx context.Context, teamID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, teamID)
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	return requireRow(res, "team", teamID)
}
