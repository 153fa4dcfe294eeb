// Package repository provides data access for training data records.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"convosell_backend/platform/apperr"
)

const trainingDataNotFoundMessage = "training data not found"

// Source types accepted for training.
const (
	SourcePDF  = "pdf"
	SourceURL  = "url"
	SourceFAQ  = "faq"
	SourceText = "text"
)

// Ingestion statuses.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Record tracks one training source through ingestion.
type Record struct {
	ID         uuid.UUID
	AgentID    uuid.UUID
	SourceType string
	Status     string
	Metadata   map[string]interface{}
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

const recordColumns = `id, agent_id, source_type, status, metadata, created_at, updated_at`

// Repository provides training data persistence backed by Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a training data repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new record in processing state.
func (r *Repository) Create(ctx context.Context, agentID uuid.UUID, sourceType string, metadata map[string]interface{}) (*Record, error) {
	query := `
		INSERT INTO training_data (id, agent_id, source_type, status, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + recordColumns

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, uuid.New(), agentID, sourceType, StatusProcessing, metadata))
	if err != nil {
		return nil, fmt.Errorf("create training record: %w", err)
	}
	return rec, nil
}

// UpdateStatus transitions a record and replaces its metadata.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, metadata map[string]interface{}) error {
	query := `UPDATE training_data SET status = $2, metadata = $3, updated_at = now() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status, metadata)
	if err != nil {
		return fmt.Errorf("update training record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(trainingDataNotFoundMessage)
	}
	return nil
}

// GetByID returns one record.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM training_data WHERE id = $1`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(trainingDataNotFoundMessage)
		}
		return nil, fmt.Errorf("get training record: %w", err)
	}
	return rec, nil
}

// ListByAgent returns all records for an agent, newest first.
func (r *Repository) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM training_data WHERE agent_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("list training records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan training record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// DeleteByAgent removes every record for an agent.
func (r *Repository) DeleteByAgent(ctx context.Context, agentID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM training_data WHERE agent_id = $1`, agentID); err != nil {
		return fmt.Errorf("delete training records: %w", err)
	}
	return nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID, &rec.AgentID, &rec.SourceType, &rec.Status,
		&rec.Metadata, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
