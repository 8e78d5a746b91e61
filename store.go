package shopmcp

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rickchristie/shop-mcp/internal/rowmap"
)

// unitOfWork runs statements against a live transaction. A nil return commits
// the transaction; any error aborts it with nothing applied.
type unitOfWork func(ctx context.Context, tx pgx.Tx) error

// inTx is the transaction executor shared by every store operation. It
// acquires a dedicated connection from the pool, begins a transaction, runs
// fn, and commits only when fn returns nil. The connection is released in all
// cases — success, business-rule failure, or unexpected fault — and an error
// from fn leaves the transaction rolled back, so no partial write is ever
// observable through this layer.
func (s *ShopMcp) inTx(ctx context.Context, fn unitOfWork) error {
	// Acquire semaphore (respects context cancellation to prevent deadlock)
	select {
	case s.semaphore <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("failed to acquire store slot: all %d connection slots are in use, context cancelled while waiting: %w", cap(s.semaphore), ctx.Err())
	}
	defer func() { <-s.semaphore }()

	opCtx, cancel := context.WithTimeout(ctx, time.Duration(s.config.Store.OpTimeoutSeconds)*time.Second)
	defer cancel()

	conn, err := s.pool.Acquire(opCtx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(opCtx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // use parent ctx, not opCtx — if the operation timed out, opCtx is cancelled and rollback would fail

	if err := fn(opCtx, tx); err != nil {
		return err
	}

	if err := tx.Commit(opCtx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// queryRecords runs one query inside its own transaction and shapes the full
// result set with the row mapper, applying sanitization rules.
func (s *ShopMcp) queryRecords(ctx context.Context, query string, args ...any) ([]rowmap.Record, error) {
	startTime := time.Now()
	var records []rowmap.Record
	err := s.inTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		columns, tuples, err := rowmap.Collect(rows)
		if err != nil {
			return err
		}
		records = rowmap.List(columns, tuples)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Dur("duration", time.Since(startTime)).
		Int("record_count", len(records)).
		Msg("records fetched")

	return s.sanitizer.SanitizeRecords(records), nil
}

// queryRecord is queryRecords for single-row lookups. An absent row produces
// an empty record, not an error — the domain modules turn that into a soft
// not-found failure where appropriate.
func (s *ShopMcp) queryRecord(ctx context.Context, query string, args ...any) (rowmap.Record, error) {
	var record rowmap.Record
	err := s.inTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		columns, tuples, err := rowmap.Collect(rows)
		if err != nil {
			return err
		}
		record = rowmap.Single(columns, tuples)
		return nil
	})
	if err != nil {
		return rowmap.Record{}, err
	}
	return s.sanitizer.SanitizeRecord(record), nil
}
