package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrConversationNotFound = errors.New("conversation not found")

// Conversation ties a manager and a contractor together around a listing.
type Conversation struct {
	ID            uuid.UUID
	ListingID     uuid.UUID
	ManagerID     uuid.UUID
	ContractorID  uuid.UUID
	CreatedAt     time.Time
	LastMessageAt *time.Time
}

type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Body           string
	SentAt         time.Time
	ReadAt         *time.Time
}

type MessageRepository interface {
	FindOrCreateConversation(ctx context.Context, listingID, managerID, contractorID uuid.UUID) (Conversation, error)
	FindConversation(ctx context.Context, id uuid.UUID) (Conversation, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]Conversation, error)
	AppendMessage(ctx context.Context, m Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]Message, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error
}

type PostgresMessageRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMessageRepository(db *pgxpool.Pool) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) FindOrCreateConversation(ctx context.Context, listingID, managerID, contractorID uuid.UUID) (Conversation, error) {
	var c Conversation
	row := r.db.QueryRow(ctx, `
		INSERT INTO conversations (id, listing_id, manager_id, contractor_id, created_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (listing_id, manager_id, contractor_id)
		DO UPDATE SET listing_id = EXCLUDED.listing_id
		RETURNING id, listing_id, manager_id, contractor_id, created_at, last_message_at`,
		uuid.New(), listingID, managerID, contractorID,
	)
	err := row.Scan(&c.ID, &c.ListingID, &c.ManagerID, &c.ContractorID, &c.CreatedAt, &c.LastMessageAt)
	return c, err
}

func (r *PostgresMessageRepository) FindConversation(ctx context.Context, id uuid.UUID) (Conversation, error) {
	var c Conversation
	row := r.db.QueryRow(ctx, `
		SELECT id, listing_id, manager_id, contractor_id, created_at, last_message_at
		FROM conversations WHERE id = $1`, id)
	err := row.Scan(&c.ID, &c.ListingID, &c.ManagerID, &c.ContractorID, &c.CreatedAt, &c.LastMessageAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Conversation{}, ErrConversationNotFound
		}
		return Conversation{}, err
	}
	return c, nil
}

func (r *PostgresMessageRepository) ListConversations(ctx context.Context, userID uuid.UUID) ([]Conversation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, listing_id, manager_id, contractor_id, created_at, last_message_at
		FROM conversations
		WHERE manager_id = $1 OR contractor_id = $1
		ORDER BY COALESCE(last_message_at, created_at) DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Conversation, 0)
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.ListingID, &c.ManagerID, &c.ContractorID, &c.CreatedAt, &c.LastMessageAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresMessageRepository) AppendMessage(ctx context.Context, m Message) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, body, sent_at)
		VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.ConversationID, m.SenderID, m.Body, m.SentAt,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE conversations SET last_message_at = $2 WHERE id = $1`,
		m.ConversationID, m.SentAt,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostgresMessageRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, conversation_id, sender_id, body, sent_at, read_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY sent_at DESC
		LIMIT $2 OFFSET $3`,
		conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Message, 0)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Body, &m.SentAt, &m.ReadAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresMessageRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	row := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM messages m
		JOIN conversations c ON c.id = m.conversation_id
		WHERE m.read_at IS NULL
		  AND m.sender_id <> $1
		  AND (c.manager_id = $1 OR c.contractor_id = $1)`,
		userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresMessageRepository) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE messages SET read_at = now()
		WHERE conversation_id = $1 AND sender_id <> $2 AND read_at IS NULL`,
		conversationID, readerID)
	return err
}
