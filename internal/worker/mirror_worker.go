package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clubledger/internal/amqp"
	"clubledger/internal/report"
	"clubledger/internal/sheets"
	"clubledger/internal/storage"
)

// MirrorWorker keeps the public spreadsheet mirror in step with the ledger.
// It appends one row per expense or revenue event and periodically rewrites
// the transparency snapshot.
type MirrorWorker struct {
	storage   *storage.SQLiteRepository
	appender  sheets.LedgerAppender
	snapshots sheets.SnapshotWriter
	reports   *report.Service

	snapshotSeasonID string
}

func NewMirrorWorker(storage *storage.SQLiteRepository, appender sheets.LedgerAppender, snapshots sheets.SnapshotWriter, reports *report.Service, snapshotSeasonID string) *MirrorWorker {
	return &MirrorWorker{
		storage:          storage,
		appender:         appender,
		snapshots:        snapshots,
		reports:          reports,
		snapshotSeasonID: snapshotSeasonID,
	}
}

// HandleLedgerEvent processes a single ledger event from AMQP
func (w *MirrorWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEvent) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"kind", msg.Kind,
		"id", msg.ID)

	row, err := w.buildRow(ctx, msg)
	if err != nil {
		return err
	}

	ref, err := w.appender.Append(ctx, row)
	if err != nil {
		return fmt.Errorf("append to mirror: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored ledger entry",
		"kind", msg.Kind,
		"id", msg.ID,
		"sheet_ref", ref,
		"amount_cents", row.Amount.Cents)

	return nil
}

func (w *MirrorWorker) buildRow(ctx context.Context, msg *amqp.LedgerEvent) (sheets.LedgerRow, error) {
	switch msg.Kind {
	case amqp.KindExpense:
		e, err := w.storage.GetExpense(ctx, msg.ID)
		if err != nil {
			return sheets.LedgerRow{}, fmt.Errorf("get expense from storage: %w", err)
		}
		row := sheets.LedgerRow{
			Kind:        msg.Kind,
			Date:        e.PaymentDate,
			Category:    e.Category.Label(),
			Description: e.Description,
			Amount:      e.Amount,
		}
		if err := w.resolveNames(ctx, e.SeasonID, e.TeamID, &row); err != nil {
			return sheets.LedgerRow{}, err
		}
		return row, nil
	case amqp.KindRevenue:
		r, err := w.storage.GetRevenue(ctx, msg.ID)
		if err != nil {
			return sheets.LedgerRow{}, fmt.Errorf("get revenue from storage: %w", err)
		}
		row := sheets.LedgerRow{
			Kind:        msg.Kind,
			Date:        r.PaymentDate,
			Category:    r.Category.Label(),
			Description: r.Description,
			Amount:      r.Amount,
		}
		if err := w.resolveNames(ctx, r.SeasonID, r.TeamID, &row); err != nil {
			return sheets.LedgerRow{}, err
		}
		return row, nil
	default:
		return sheets.LedgerRow{}, fmt.Errorf("unknown ledger event kind %q", msg.Kind)
	}
}

func (w *MirrorWorker) resolveNames(ctx context.Context, seasonID, teamID string, row *sheets.LedgerRow) error {
	season, err := w.storage.GetSeason(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("get season from storage: %w", err)
	}
	row.SeasonName = season.Name

	// Season-wide entries carry no team.
	if teamID != "" {
		team, err := w.storage.GetTeam(ctx, teamID)
		if err != nil {
			return fmt.Errorf("get team from storage: %w", err)
		}
		row.TeamName = team.Name
	}
	return nil
}

// WriteSnapshot publishes the current transparency report for the configured
// season.
func (w *MirrorWorker) WriteSnapshot(ctx context.Context) error {
	if w.snapshotSeasonID == "" {
		slog.InfoContext(ctx, "No snapshot season configured, skipping snapshot")
		return nil
	}

	rep, err := w.reports.BuildTransparencyReport(ctx, w.snapshotSeasonID)
	if err != nil {
		return fmt.Errorf("build transparency report: %w", err)
	}

	if err := w.snapshots.WriteSnapshot(ctx, rep); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Published transparency snapshot",
		"season_id", w.snapshotSeasonID,
		"total_expenses_cents", rep.TotalExpenses.Cents,
		"total_revenue_cents", rep.TotalRevenue.Cents)

	return nil
}

// RunSnapshotLoop rewrites the snapshot on a fixed interval until the context
// is cancelled. An initial snapshot is written immediately.
func (w *MirrorWorker) RunSnapshotLoop(ctx context.Context, interval time.Duration) error {
	if err := w.WriteSnapshot(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial snapshot failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping snapshot loop", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.WriteSnapshot(ctx); err != nil {
				slog.ErrorContext(ctx, "Snapshot failed", "error", err)
			}
		}
	}
}
