package services

import (
	"context"
	"fmt"
	"log/slog"

	"clubledger/internal/amqp"
	"clubledger/internal/core"
	"clubledger/internal/storage"
)

// LedgerService orchestrates expense and revenue writes across SQLite and AMQP
type LedgerService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewLedgerService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateExpense saves an expense locally and publishes a ledger event
func (s *LedgerService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	// Save to SQLite first (fast, reliable)
	created, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	// Publish async ledger event (non-blocking)
	if err := s.publishEvent(ctx, amqp.KindExpense, created.ID, created.SeasonID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", amqp.KindExpense, "id", created.ID, "error", err)
		// Don't fail the request - expense is saved locally
	}

	return created, nil
}

// CreateRevenue saves a revenue locally and publishes a ledger event
func (s *LedgerService) CreateRevenue(ctx context.Context, r core.Revenue) (core.Revenue, error) {
	created, err := s.storage.CreateRevenue(ctx, r)
	if err != nil {
		return core.Revenue{}, fmt.Errorf("save revenue: %w", err)
	}

	if err := s.publishEvent(ctx, amqp.KindRevenue, created.ID, created.SeasonID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", amqp.KindRevenue, "id", created.ID, "error", err)
		// Don't fail the request - revenue is saved locally
	}

	return created, nil
}

func (s *LedgerService) publishEvent(ctx context.Context, kind, id, seasonID string) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping ledger event")
		return nil
	}

	return s.amqpClient.PublishLedgerEvent(ctx, kind, id, seasonID)
}

// Close closes both storage and AMQP connections
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
