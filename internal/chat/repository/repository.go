// Package repository provides data access for conversations.
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

const conversationNotFoundMessage = "conversation not found"

// StoredMessage is a single transcript turn, persisted as jsonb.
type StoredMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Lead is the contact information captured from a conversation,
// persisted as jsonb.
type Lead struct {
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	InterestLevel string `json:"interest_level,omitempty"`
}

// Conversation is a chat session between a visitor and an agent.
type Conversation struct {
	ID        uuid.UUID
	AgentID   uuid.UUID
	SessionID string
	Channel   string
	Messages  []StoredMessage
	Lead      *Lead
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateParams holds the fields for creating a conversation.
type CreateParams struct {
	AgentID   uuid.UUID
	SessionID string
	Channel   string
	Messages  []StoredMessage
	Lead      *Lead
}

const conversationColumns = `id, agent_id, session_id, channel, messages, lead_info, created_at, updated_at`

// Repository provides conversation persistence backed by Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a conversation repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new conversation with its initial transcript.
func (r *Repository) Create(ctx context.Context, params CreateParams) (*Conversation, error) {
	query := `
		INSERT INTO conversations (id, agent_id, session_id, channel, messages, lead_info)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + conversationColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.New(), params.AgentID, params.SessionID, params.Channel, params.Messages, params.Lead,
	)
	conv, err := scanConversation(row)
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

// GetBySession returns the conversation for a session within one agent.
func (r *Repository) GetBySession(ctx context.Context, agentID uuid.UUID, sessionID string) (*Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE agent_id = $1 AND session_id = $2`

	conv, err := scanConversation(r.pool.QueryRow(ctx, query, agentID, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(conversationNotFoundMessage)
		}
		return nil, fmt.Errorf("get conversation by session: %w", err)
	}
	return conv, nil
}

// FindBySession returns the conversation for a session regardless of agent.
func (r *Repository) FindBySession(ctx context.Context, sessionID string) (*Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE session_id = $1`

	conv, err := scanConversation(r.pool.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(conversationNotFoundMessage)
		}
		return nil, fmt.Errorf("find conversation by session: %w", err)
	}
	return conv, nil
}

// SaveTranscript replaces the message history and lead snapshot.
func (r *Repository) SaveTranscript(ctx context.Context, id uuid.UUID, messages []StoredMessage, lead *Lead) error {
	query := `UPDATE conversations SET messages = $2, lead_info = $3, updated_at = now() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, messages, lead)
	if err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(conversationNotFoundMessage)
	}
	return nil
}

// Delete removes a conversation.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(conversationNotFoundMessage)
	}
	return nil
}

// CountByAgent returns the number of conversations for an agent.
func (r *Repository) CountByAgent(ctx context.Context, agentID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM conversations WHERE agent_id = $1`, agentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count conversations: %w", err)
	}
	return count, nil
}

func scanConversation(row pgx.Row) (*Conversation, error) {
	var conv Conversation
	err := row.Scan(
		&conv.ID, &conv.AgentID, &conv.SessionID, &conv.Channel,
		&conv.Messages, &conv.Lead, &conv.CreatedAt, &conv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}
