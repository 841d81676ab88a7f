package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soportia/helpdesk/internal/domain"
)

// MessageRepository manages ticket thread messages.
type MessageRepository interface {
	// Create inserts the message. When the external message id collides with
	// an already stored message it returns domain.ErrDuplicateMessage; the
	// unique index makes the check-then-insert race safe.
	Create(ctx context.Context, msg *domain.Message) error
	FindByExternalID(ctx context.Context, externalID string) (*domain.Message, error)
	CountByTicket(ctx context.Context, ticketID string) (int, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Message, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository builds repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	attachments, err := marshalAttachments(msg.Attachments)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO messages (ticket_id, direction, sender, body, attachments, raw_payload, external_message_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (external_message_id) DO NOTHING
        RETURNING id, created_at`
	err = r.pool.QueryRow(ctx, query,
		msg.TicketID,
		msg.Direction,
		msg.Sender,
		msg.Body,
		attachments,
		msg.RawPayload,
		msg.ExternalMessageID,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err == pgx.ErrNoRows {
		return domain.ErrDuplicateMessage
	}
	return err
}

func (r *messageRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.Message, error) {
	const query = `
        SELECT id, ticket_id, direction, sender, body, attachments, raw_payload, external_message_id, created_at
        FROM messages WHERE external_message_id=$1`
	msg, err := scanMessage(r.pool.QueryRow(ctx, query, externalID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return msg, err
}

func (r *messageRepository) CountByTicket(ctx context.Context, ticketID string) (int, error) {
	const query = `SELECT COUNT(*) FROM messages WHERE ticket_id=$1`
	var count int
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *messageRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Message, error) {
	const query = `
        SELECT id, ticket_id, direction, sender, body, attachments, raw_payload, external_message_id, created_at
        FROM messages WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *msg)
	}
	return result, rows.Err()
}

func marshalAttachments(attachments []domain.Attachment) ([]byte, error) {
	if len(attachments) == 0 {
		return nil, nil
	}
	return json.Marshal(attachments)
}

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var (
		msg         domain.Message
		attachments []byte
	)
	if err := row.Scan(
		&msg.ID,
		&msg.TicketID,
		&msg.Direction,
		&msg.Sender,
		&msg.Body,
		&attachments,
		&msg.RawPayload,
		&msg.ExternalMessageID,
		&msg.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &msg.Attachments); err != nil {
			return nil, err
		}
	}
	return &msg, nil
}
