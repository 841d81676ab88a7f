package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soportia/helpdesk/internal/domain"
)

// TicketFilter captures dashboard search parameters.
type TicketFilter struct {
	CustomerID *string
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Categories []domain.TicketCategory
	AssignedTo *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByCode(ctx context.Context, code string) (*domain.Ticket, error)
	// FindOrCreateActive returns the customer's freshest active ticket whose
	// last activity is at or after cutoff, or inserts fresh when none
	// qualifies. Resolution is serialized per customer with a transactional
	// advisory lock so concurrent inbound messages cannot create two active
	// threads.
	FindOrCreateActive(ctx context.Context, customerID string, cutoff time.Time, fresh *domain.Ticket) (*domain.Ticket, bool, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, code, customer_id, contact_name, title, status, priority, category,
               channel, assigned_to, last_message_at, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (code, customer_id, contact_name, title, status, priority, category, channel, assigned_to, last_message_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW())
        RETURNING id, last_message_at, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Code,
		ticket.CustomerID,
		ticket.ContactName,
		ticket.Title,
		ticket.Status,
		ticket.Priority,
		ticket.Category,
		ticket.Channel,
		ticket.AssignedTo,
	).Scan(&ticket.ID, &ticket.LastMessageAt, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET contact_name=$1, title=$2, status=$3, priority=$4, category=$5,
            assigned_to=$6, last_message_at=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.ContactName,
		ticket.Title,
		ticket.Status,
		ticket.Priority,
		ticket.Category,
		ticket.AssignedTo,
		ticket.LastMessageAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return fetchTicket(ctx, r.pool, query, id)
}

func (r *ticketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE code=$1`
	return fetchTicket(ctx, r.pool, query, code)
}

func (r *ticketRepository) FindOrCreateActive(ctx context.Context, customerID string, cutoff time.Time, fresh *domain.Ticket) (*domain.Ticket, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Serialize resolution per customer. The lock is released on commit or
	// rollback, closing the find-then-create race for concurrent deliveries
	// from the same sender.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, customerID); err != nil {
		return nil, false, err
	}

	const findQuery = `
        SELECT ` + ticketColumns + `
        FROM tickets
        WHERE customer_id=$1 AND status = ANY($2) AND last_message_at >= $3
        ORDER BY last_message_at DESC
        LIMIT 1`
	statuses := make([]string, 0, len(domain.ActiveStatuses))
	for _, s := range domain.ActiveStatuses {
		statuses = append(statuses, string(s))
	}

	var ticket domain.Ticket
	err = tx.QueryRow(ctx, findQuery, customerID, statuses, cutoff).Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.CustomerID,
		&ticket.ContactName,
		&ticket.Title,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Category,
		&ticket.Channel,
		&ticket.AssignedTo,
		&ticket.LastMessageAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	switch {
	case err == nil:
		if err := tx.Commit(ctx); err != nil {
			return nil, false, err
		}
		return &ticket, false, nil
	case err != pgx.ErrNoRows:
		return nil, false, err
	}

	const insertQuery = `
        INSERT INTO tickets (code, customer_id, contact_name, title, status, priority, category, channel, last_message_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())
        RETURNING id, last_message_at, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertQuery,
		fresh.Code,
		fresh.CustomerID,
		fresh.ContactName,
		fresh.Title,
		fresh.Status,
		fresh.Priority,
		fresh.Category,
		fresh.Channel,
	).Scan(&fresh.ID, &fresh.LastMessageAt, &fresh.CreatedAt, &fresh.UpdatedAt); err != nil {
		return nil, false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return fresh, true, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, cat := range filter.Categories {
			args = append(args, cat)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("category IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(code) LIKE %s OR LOWER(title) LIKE %s OR customer_id IN (SELECT id FROM customers WHERE phone LIKE %s))",
			placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY last_message_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func fetchTicket(ctx context.Context, pool *pgxpool.Pool, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := pool.QueryRow(ctx, query, arg).Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.CustomerID,
		&ticket.ContactName,
		&ticket.Title,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Category,
		&ticket.Channel,
		&ticket.AssignedTo,
		&ticket.LastMessageAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Code,
			&ticket.CustomerID,
			&ticket.ContactName,
			&ticket.Title,
			&ticket.Status,
			&ticket.Priority,
			&ticket.Category,
			&ticket.Channel,
			&ticket.AssignedTo,
			&ticket.LastMessageAt,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
