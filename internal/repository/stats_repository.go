package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soportia/helpdesk/internal/domain"
)

// DailyCount is one point of the creation trend series.
type DailyCount struct {
	Date  time.Time
	Count int
}

// CustomerTicketCount ranks customers by ticket volume.
type CustomerTicketCount struct {
	CustomerID string
	Name       string
	Phone      string
	Tickets    int
}

// StatsRepository aggregates dashboard metrics over tickets.
type StatsRepository interface {
	CountTickets(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error)
	CountByPriority(ctx context.Context) (map[domain.TicketPriority]int, error)
	CountByCategory(ctx context.Context) (map[domain.TicketCategory]int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	CountResolvedSince(ctx context.Context, since time.Time) (int, error)
	AvgResolutionHours(ctx context.Context) (float64, error)
	CountUrgentUnassigned(ctx context.Context) (int, error)
	CreatedPerDay(ctx context.Context, since time.Time) ([]DailyCount, error)
	TopCustomers(ctx context.Context, limit int) ([]CustomerTicketCount, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository builds repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) CountTickets(ctx context.Context) (int, error) {
	return r.scalar(ctx, `SELECT COUNT(*) FROM tickets`)
}

func (r *statsRepository) CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.TicketStatus]int)
	for rows.Next() {
		var (
			status domain.TicketStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		result[status] = count
	}
	return result, rows.Err()
}

func (r *statsRepository) CountByPriority(ctx context.Context) (map[domain.TicketPriority]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT priority, COUNT(*) FROM tickets GROUP BY priority`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.TicketPriority]int)
	for rows.Next() {
		var (
			priority domain.TicketPriority
			count    int
		)
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		result[priority] = count
	}
	return result, rows.Err()
}

func (r *statsRepository) CountByCategory(ctx context.Context) (map[domain.TicketCategory]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT category, COUNT(*) FROM tickets GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.TicketCategory]int)
	for rows.Next() {
		var (
			category domain.TicketCategory
			count    int
		)
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		result[category] = count
	}
	return result, rows.Err()
}

func (r *statsRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	return r.scalar(ctx, `SELECT COUNT(*) FROM tickets WHERE created_at >= $1`, since)
}

func (r *statsRepository) CountResolvedSince(ctx context.Context, since time.Time) (int, error) {
	return r.scalar(ctx, `SELECT COUNT(*) FROM tickets WHERE status=$1 AND updated_at >= $2`,
		domain.TicketStatusResolved, since)
}

func (r *statsRepository) AvgResolutionHours(ctx context.Context) (float64, error) {
	const query = `
        SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (updated_at - created_at)) / 3600), 0)
        FROM tickets WHERE status IN ($1,$2)`
	var hours float64
	if err := r.pool.QueryRow(ctx, query, domain.TicketStatusResolved, domain.TicketStatusClosed).Scan(&hours); err != nil {
		return 0, err
	}
	return hours, nil
}

func (r *statsRepository) CountUrgentUnassigned(ctx context.Context) (int, error) {
	const query = `
        SELECT COUNT(*) FROM tickets
        WHERE priority=$1 AND assigned_to IS NULL AND status NOT IN ($2,$3)`
	return r.scalar(ctx, query,
		domain.TicketPriorityUrgent, domain.TicketStatusResolved, domain.TicketStatusClosed)
}

func (r *statsRepository) CreatedPerDay(ctx context.Context, since time.Time) ([]DailyCount, error) {
	const query = `
        SELECT date_trunc('day', created_at) AS day, COUNT(*)
        FROM tickets WHERE created_at >= $1
        GROUP BY day ORDER BY day ASC`
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DailyCount
	for rows.Next() {
		var point DailyCount
		if err := rows.Scan(&point.Date, &point.Count); err != nil {
			return nil, err
		}
		result = append(result, point)
	}
	return result, rows.Err()
}

func (r *statsRepository) TopCustomers(ctx context.Context, limit int) ([]CustomerTicketCount, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `
        SELECT c.id, c.name, c.phone, COUNT(t.id) AS tickets
        FROM customers c
        LEFT JOIN tickets t ON t.customer_id = c.id
        GROUP BY c.id, c.name, c.phone
        ORDER BY tickets DESC
        LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CustomerTicketCount
	for rows.Next() {
		var entry CustomerTicketCount
		if err := rows.Scan(&entry.CustomerID, &entry.Name, &entry.Phone, &entry.Tickets); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *statsRepository) scalar(ctx context.Context, query string, args ...any) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
