// Package store persists parsed reports and their findings in PostgreSQL.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jacobarthurs/awrlens/internal/analyzer"
	"github.com/jacobarthurs/awrlens/internal/awr"
)

type Store struct {
	conn *pgx.Conn
}

func Connect(ctx context.Context, connStr string) (*Store, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return &Store{conn: conn}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

// Migrate creates the tables and indexes that do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, stmt := range schema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// SaveAnalysis stores the report row, its non-empty metric sections and its
// findings in one transaction.
func (s *Store) SaveAnalysis(ctx context.Context, up Upload, report *awr.Report, findings []analyzer.Finding) (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generating report id: %w", err)
	}

	metrics, err := metricRows(report)
	if err != nil {
		return uuid.Nil, err
	}
	results, err := resultRows(findings)
	if err != nil {
		return uuid.Nil, err
	}

	batch := &pgx.Batch{}
	batch.Queue(insertReport, newReportRow(id, up, report).args()...)
	for _, m := range metrics {
		batch.Queue(insertMetric, id, m.Category, m.Data)
	}
	for _, r := range results {
		batch.Queue(insertResult, r.args(id)...)
	}

	if err := s.send(ctx, batch); err != nil {
		return uuid.Nil, fmt.Errorf("saving %s: %w", up.Filename, err)
	}

	slog.Info("report saved",
		"id", id,
		"filename", up.Filename,
		"metric_categories", len(metrics),
		"findings", len(results))

	return id, nil
}

// SaveFailure records a report that could not be read or parsed.
func (s *Store) SaveFailure(ctx context.Context, up Upload, cause error) (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generating report id: %w", err)
	}

	batch := &pgx.Batch{}
	batch.Queue(insertReport, newFailureRow(id, up, cause).args()...)

	if err := s.send(ctx, batch); err != nil {
		return uuid.Nil, fmt.Errorf("saving failure for %s: %w", up.Filename, err)
	}
	return id, nil
}

func (s *Store) send(ctx context.Context, batch *pgx.Batch) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
