package sheets

import (
	"context"

	"clubledger/internal/core"
)

// LedgerRow is one entry of the public ledger mirror.
type LedgerRow struct {
	Kind        string
	Date        core.Date
	SeasonName  string
	TeamName    string
	Category    string
	Description string
	Amount      core.Money
}

// Ports for outbound adapters.
type (
	LedgerAppender interface {
		Append(ctx context.Context, row LedgerRow) (rowRef string, err error)
	}

	// SnapshotWriter replaces the published transparency snapshot.
	SnapshotWriter interface {
		WriteSnapshot(ctx context.Context, report core.TransparencyReport) error
	}
)
