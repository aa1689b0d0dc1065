package worker

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"clubledger/internal/amqp"
	"clubledger/internal/core"
	"clubledger/internal/report"
	"clubledger/internal/sheets/memory"
	"clubledger/internal/storage"
)

type fixture struct {
	repo   *storage.SQLiteRepository
	mirror *memory.Store
	season core.Season
	team   core.Team
}

func newFixture(t *testing.T, snapshotSeasonID string) (*MirrorWorker, *fixture) {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	ctx := context.Background()
	season, err := repo.CreateSeason(ctx, core.Season{
		Name:      "Fall 2025",
		Type:      core.Fall,
		Year:      2025,
		StartDate: core.NewDate(2025, 9, 1),
		EndDate:   core.NewDate(2025, 11, 30),
	})
	if err != nil {
		t.Fatalf("CreateSeason: %v", err)
	}
	team, err := repo.CreateTeam(ctx, core.Team{
		SeasonID:        season.ID,
		Name:            "U10 Hawks",
		MaxPlayers:      20,
		CurrentPlayers:  10,
		RegistrationFee: core.Money{Cents: 15000},
	})
	if err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}

	mirror := memory.New()
	if snapshotSeasonID == "season" {
		snapshotSeasonID = season.ID
	}
	w := NewMirrorWorker(repo, mirror, mirror, report.NewService(repo), snapshotSeasonID)
	return w, &fixture{repo: repo, mirror: mirror, season: season, team: team}
}

func TestHandleLedgerEventExpense(t *testing.T) {
	w, fx := newFixture(t, "")
	ctx := context.Background()

	expense, err := fx.repo.CreateExpense(ctx, core.Expense{
		SeasonID:    fx.season.ID,
		TeamID:      fx.team.ID,
		Category:    core.ExpenseEquipment,
		Description: "Practice balls",
		Amount:      core.Money{Cents: 4500},
		PaymentDate: core.NewDate(2025, 9, 15),
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	event := amqp.NewLedgerEvent(amqp.KindExpense, expense.ID, expense.SeasonID)
	if err := w.HandleLedgerEvent(ctx, event); err != nil {
		t.Fatalf("HandleLedgerEvent: %v", err)
	}

	rows := fx.mirror.Rows()
	if len(rows) != 1 {
		t.Fatalf("mirror rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.Kind != amqp.KindExpense || row.Category != "Equipment" {
		t.Errorf("row = %+v", row)
	}
	if row.SeasonName != "Fall 2025" || row.TeamName != "U10 Hawks" {
		t.Errorf("names not resolved: season=%q team=%q", row.SeasonName, row.TeamName)
	}
	if row.Amount.Cents != 4500 || row.Date.String() != "2025-09-15" {
		t.Errorf("row = %+v", row)
	}
}

func TestHandleLedgerEventSeasonWideRevenue(t *testing.T) {
	w, fx := newFixture(t, "")
	ctx := context.Background()

	revenue, err := fx.repo.CreateRevenue(ctx, core.Revenue{
		SeasonID:    fx.season.ID,
		Category:    core.RevenueSponsorships,
		Description: "Sponsor banner",
		Amount:      core.Money{Cents: 80000},
		PaymentDate: core.NewDate(2025, 9, 10),
	})
	if err != nil {
		t.Fatalf("CreateRevenue: %v", err)
	}

	event := amqp.NewLedgerEvent(amqp.KindRevenue, revenue.ID, revenue.SeasonID)
	if err := w.HandleLedgerEvent(ctx, event); err != nil {
		t.Fatalf("HandleLedgerEvent: %v", err)
	}

	rows := fx.mirror.Rows()
	if len(rows) != 1 {
		t.Fatalf("mirror rows = %d, want 1", len(rows))
	}
	if rows[0].TeamName != "" {
		t.Errorf("season-wide revenue got team %q", rows[0].TeamName)
	}
	if rows[0].Category != "Sponsorships" {
		t.Errorf("category = %q", rows[0].Category)
	}
}

func TestHandleLedgerEventErrors(t *testing.T) {
	w, fx := newFixture(t, "")
	ctx := context.Background()

	// Missing entry leaves the mirror untouched so AMQP can requeue.
	event := amqp.NewLedgerEvent(amqp.KindExpense, "ghost", fx.season.ID)
	if err := w.HandleLedgerEvent(ctx, event); err == nil {
		t.Error("missing expense accepted")
	}

	event = amqp.NewLedgerEvent("transfer", "e1", fx.season.ID)
	err := w.HandleLedgerEvent(ctx, event)
	if err == nil || !strings.Contains(err.Error(), "unknown ledger event kind") {
		t.Errorf("unknown kind: got %v", err)
	}

	if len(fx.mirror.Rows()) != 0 {
		t.Errorf("failed events appended rows: %d", len(fx.mirror.Rows()))
	}
}

func TestWriteSnapshot(t *testing.T) {
	w, fx := newFixture(t, "season")
	ctx := context.Background()

	if _, err := fx.repo.CreateExpense(ctx, core.Expense{
		SeasonID:    fx.season.ID,
		TeamID:      fx.team.ID,
		Category:    core.ExpenseEquipment,
		Description: "Practice balls",
		Amount:      core.Money{Cents: 4500},
		PaymentDate: core.NewDate(2025, 9, 15),
	}); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	if err := w.WriteSnapshot(ctx); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	snap := fx.mirror.Snapshot()
	if snap == nil {
		t.Fatal("no snapshot written")
	}
	if snap.SeasonID != fx.season.ID {
		t.Errorf("SeasonID = %q", snap.SeasonID)
	}
	if snap.TotalExpenses.Cents != 4500 {
		t.Errorf("TotalExpenses = %d, want 4500", snap.TotalExpenses.Cents)
	}
	if len(snap.PlayerCostBreakdown) != 1 || snap.PlayerCostBreakdown[0].TeamName != "U10 Hawks" {
		t.Errorf("breakdown = %+v", snap.PlayerCostBreakdown)
	}
}

func TestWriteSnapshotSkipsWithoutSeason(t *testing.T) {
	w, fx := newFixture(t, "")

	if err := w.WriteSnapshot(context.Background()); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if fx.mirror.Snapshot() != nil {
		t.Error("snapshot written without a configured season")
	}
}
