package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"AlphaLabs/internal/domain/models"
	pkgch "AlphaLabs/pkg/clickhouse"
	applogger "AlphaLabs/pkg/logger"
)

// CHEventArchive implements EventArchive backed by ClickHouse. Writes are
// keyed on the stable event id, so re-archiving the same merge is harmless
// given the ReplacingMergeTree table.
type CHEventArchive struct {
	ch *pkgch.Client
	db *sql.DB
	l  *applogger.Logger
}

var eventArchiveSchema = []string{
	`CREATE TABLE IF NOT EXISTS timeline_events (
		id         String,
		title      String,
		code       LowCardinality(String),
		occurs_at  DateTime64(3, 'UTC'),
		source     LowCardinality(String),
		stored_at  DateTime64(3, 'UTC')
	) ENGINE = ReplacingMergeTree(stored_at)
	ORDER BY (id)`,
}

// NewCHEventArchive creates the archive and ensures its table exists.
func NewCHEventArchive(ctx context.Context, ch *pkgch.Client, l *applogger.Logger) (*CHEventArchive, error) {
	if err := ch.InitSchema(ctx, eventArchiveSchema); err != nil {
		return nil, fmt.Errorf("event archive schema: %w", err)
	}
	return &CHEventArchive{ch: ch, db: ch.DB(), l: l}, nil
}

// StoreEvents archives one merged timeline's events in a single batch.
func (a *CHEventArchive) StoreEvents(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}
	start := time.Now()

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("archive begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO timeline_events (id, title, code, occurs_at, source, stored_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("archive prepare: %w", err)
	}

	storedAt := time.Now().UTC()
	for _, e := range events {
		if _, err := stmt.ExecContext(ctx, e.ID, e.Title, e.Code, e.OccursAt.UTC(), string(e.Source), storedAt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("archive insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("archive commit: %w", err)
	}

	if a.l != nil {
		a.l.Debug("timeline archived",
			applogger.Int("events", len(events)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

// Health performs a connection check.
func (a *CHEventArchive) Health(ctx context.Context) error {
	return a.ch.Health(ctx)
}

// Close closes the underlying pool.
func (a *CHEventArchive) Close() error {
	return a.ch.Close()
}
