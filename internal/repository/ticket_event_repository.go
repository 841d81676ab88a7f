package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soportia/helpdesk/internal/domain"
)

// TicketEventRepository stores append-only audit entries.
type TicketEventRepository interface {
	Append(ctx context.Context, event *domain.TicketEvent) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketEvent, error)
}

type ticketEventRepository struct {
	pool *pgxpool.Pool
}

// NewTicketEventRepository builds repository.
func NewTicketEventRepository(pool *pgxpool.Pool) TicketEventRepository {
	return &ticketEventRepository{pool: pool}
}

func (r *ticketEventRepository) Append(ctx context.Context, event *domain.TicketEvent) error {
	const query = `
        INSERT INTO ticket_events (ticket_id, type, payload)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		event.TicketID,
		event.Type,
		event.Payload,
	).Scan(&event.ID, &event.CreatedAt)
}

func (r *ticketEventRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketEvent, error) {
	const query = `
        SELECT id, ticket_id, type, payload, created_at
        FROM ticket_events WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketEvent
	for rows.Next() {
		var event domain.TicketEvent
		if err := rows.Scan(
			&event.ID,
			&event.TicketID,
			&event.Type,
			&event.Payload,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}
