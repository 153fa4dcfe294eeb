// Package repository provides data access for sales agents.
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

const agentNotFoundMessage = "agent not found"

// Agent is a configured conversational sales agent owned by a user.
type Agent struct {
	ID                 uuid.UUID
	OwnerID            uuid.UUID
	Name               string
	CompanyName        string
	CompanyDescription string
	Tone               string
	Language           string
	GreetingMessage    string
	SalesStrategy      string
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CreateParams holds the fields for creating an agent.
type CreateParams struct {
	OwnerID            uuid.UUID
	Name               string
	CompanyName        string
	CompanyDescription string
	Tone               string
	Language           string
	GreetingMessage    string
	SalesStrategy      string
}

// UpdateParams holds the patch fields for updating an agent.
// Nil pointers leave the column unchanged.
type UpdateParams struct {
	OwnerID            uuid.UUID
	ID                 uuid.UUID
	Name               *string
	CompanyDescription *string
	Tone               *string
	Language           *string
	GreetingMessage    *string
	SalesStrategy      *string
	IsActive           *bool
}

const agentColumns = `id, owner_id, name, company_name, company_description, tone, language, greeting_message, sales_strategy, is_active, created_at, updated_at`

// Repository provides agent persistence backed by Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates an agent repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new agent.
func (r *Repository) Create(ctx context.Context, params CreateParams) (*Agent, error) {
	query := `
		INSERT INTO agents (id, owner_id, name, company_name, company_description, tone, language, greeting_message, sales_strategy)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + agentColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.New(), params.OwnerID, params.Name, params.CompanyName, params.CompanyDescription,
		params.Tone, params.Language, params.GreetingMessage, params.SalesStrategy,
	)
	agent, err := scanAgent(row)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	return agent, nil
}

// GetByID returns an agent owned by the given user.
func (r *Repository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE id = $1 AND owner_id = $2`

	agent, err := scanAgent(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(agentNotFoundMessage)
		}
		return nil, fmt.Errorf("get agent by id: %w", err)
	}
	return agent, nil
}

// GetPublic returns an agent by ID without an ownership check. Used by the
// public chat endpoints where the caller is anonymous; callers are expected
// to reject inactive agents themselves.
func (r *Repository) GetPublic(ctx context.Context, id uuid.UUID) (*Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE id = $1`

	agent, err := scanAgent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(agentNotFoundMessage)
		}
		return nil, fmt.Errorf("get public agent: %w", err)
	}
	return agent, nil
}

// List returns all agents for an owner, newest first.
func (r *Repository) List(ctx context.Context, ownerID uuid.UUID) ([]Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var agents []Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, *agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agents: %w", err)
	}
	return agents, nil
}

// Update applies a partial update to an agent owned by the given user.
func (r *Repository) Update(ctx context.Context, params UpdateParams) (*Agent, error) {
	query := `
		UPDATE agents SET
			name = COALESCE($3, name),
			company_description = COALESCE($4, company_description),
			tone = COALESCE($5, tone),
			language = COALESCE($6, language),
			greeting_message = COALESCE($7, greeting_message),
			sales_strategy = COALESCE($8, sales_strategy),
			is_active = COALESCE($9, is_active),
			updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + agentColumns

	row := r.pool.QueryRow(ctx, query,
		params.ID, params.OwnerID, params.Name, params.CompanyDescription,
		params.Tone, params.Language, params.GreetingMessage, params.SalesStrategy, params.IsActive,
	)
	agent, err := scanAgent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(agentNotFoundMessage)
		}
		return nil, fmt.Errorf("update agent: %w", err)
	}
	return agent, nil
}

// Delete removes an agent owned by the given user.
func (r *Repository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM agents WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(agentNotFoundMessage)
	}
	return nil
}

// CountByOwner returns the number of agents belonging to an owner.
func (r *Repository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM agents WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count agents: %w", err)
	}
	return count, nil
}

func scanAgent(row pgx.Row) (*Agent, error) {
	var a Agent
	err := row.Scan(
		&a.ID, &a.OwnerID, &a.Name, &a.CompanyName, &a.CompanyDescription,
		&a.Tone, &a.Language, &a.GreetingMessage, &a.SalesStrategy,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
