package service

import (
	"context"
	"math"
	"time"

	"github.com/soportia/helpdesk/internal/domain"
	"github.com/soportia/helpdesk/internal/repository"
)

// StatsService aggregates dashboard metrics.
type StatsService struct {
	stats repository.StatsRepository
	now   func() time.Time
}

// NewStatsService constructs the service.
func NewStatsService(stats repository.StatsRepository) *StatsService {
	return &StatsService{stats: stats, now: time.Now}
}

// StatusCount pairs a status with its ticket count.
type StatusCount struct {
	Status domain.TicketStatus `json:"status"`
	Count  int                 `json:"count"`
}

// PriorityCount pairs a priority with its ticket count.
type PriorityCount struct {
	Priority domain.TicketPriority `json:"priority"`
	Count    int                   `json:"count"`
}

// CategoryCount pairs a category with its ticket count.
type CategoryCount struct {
	Category domain.TicketCategory `json:"category"`
	Count    int                   `json:"count"`
}

// TrendPoint is one day of the creation trend.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TopCustomer ranks a customer by ticket volume.
type TopCustomer struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	TotalTickets int    `json:"total_tickets"`
}

// DashboardStats is the aggregate snapshot served to the dashboard.
type DashboardStats struct {
	TotalTickets       int             `json:"total_tickets"`
	TicketsToday       int             `json:"tickets_today"`
	ResolvedToday      int             `json:"resolved_today"`
	AvgResolutionHours float64         `json:"avg_resolution_hours"`
	UrgentUnassigned   int             `json:"urgent_unassigned"`
	ByStatus           []StatusCount   `json:"tickets_by_status"`
	ByPriority         []PriorityCount `json:"tickets_by_priority"`
	ByCategory         []CategoryCount `json:"tickets_by_category"`
	Last7Days          []TrendPoint    `json:"last_7_days"`
	TopCustomers       []TopCustomer   `json:"top_customers"`
}

// Collect gathers all dashboard metrics in one snapshot.
func (s *StatsService) Collect(ctx context.Context) (*DashboardStats, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := today.AddDate(0, 0, -6)

	total, err := s.stats.CountTickets(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.stats.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.stats.CountByPriority(ctx)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.stats.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	createdToday, err := s.stats.CountCreatedSince(ctx, today)
	if err != nil {
		return nil, err
	}
	resolvedToday, err := s.stats.CountResolvedSince(ctx, today)
	if err != nil {
		return nil, err
	}
	avgHours, err := s.stats.AvgResolutionHours(ctx)
	if err != nil {
		return nil, err
	}
	urgentUnassigned, err := s.stats.CountUrgentUnassigned(ctx)
	if err != nil {
		return nil, err
	}
	perDay, err := s.stats.CreatedPerDay(ctx, weekAgo)
	if err != nil {
		return nil, err
	}
	topCustomers, err := s.stats.TopCustomers(ctx, 5)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalTickets:       total,
		TicketsToday:       createdToday,
		ResolvedToday:      resolvedToday,
		AvgResolutionHours: math.Round(avgHours*10) / 10,
		UrgentUnassigned:   urgentUnassigned,
		ByStatus:           statusCounts(byStatus),
		ByPriority:         priorityCounts(byPriority),
		ByCategory:         categoryCounts(byCategory),
		Last7Days:          trendSeries(today, perDay),
		TopCustomers:       topCustomerEntries(topCustomers),
	}
	return stats, nil
}

func statusCounts(counts map[domain.TicketStatus]int) []StatusCount {
	order := []domain.TicketStatus{
		domain.TicketStatusOpen,
		domain.TicketStatusInProgress,
		domain.TicketStatusWaitingCustomer,
		domain.TicketStatusResolved,
		domain.TicketStatusClosed,
	}
	result := make([]StatusCount, 0, len(order))
	for _, status := range order {
		if count, ok := counts[status]; ok {
			result = append(result, StatusCount{Status: status, Count: count})
		}
	}
	return result
}

func priorityCounts(counts map[domain.TicketPriority]int) []PriorityCount {
	order := []domain.TicketPriority{
		domain.TicketPriorityLow,
		domain.TicketPriorityNormal,
		domain.TicketPriorityHigh,
		domain.TicketPriorityUrgent,
	}
	result := make([]PriorityCount, 0, len(order))
	for _, priority := range order {
		if count, ok := counts[priority]; ok {
			result = append(result, PriorityCount{Priority: priority, Count: count})
		}
	}
	return result
}

func categoryCounts(counts map[domain.TicketCategory]int) []CategoryCount {
	order := []domain.TicketCategory{
		domain.CategoryTechSupport,
		domain.CategoryBilling,
		domain.CategorySales,
		domain.CategoryOther,
	}
	result := make([]CategoryCount, 0, len(order))
	for _, category := range order {
		if count, ok := counts[category]; ok {
			result = append(result, CategoryCount{Category: category, Count: count})
		}
	}
	return result
}

// trendSeries fills the last seven days, inserting zeroes for silent days.
func trendSeries(today time.Time, perDay []repository.DailyCount) []TrendPoint {
	byDay := make(map[string]int, len(perDay))
	for _, point := range perDay {
		byDay[point.Date.Format("2006-01-02")] = point.Count
	}
	series := make([]TrendPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format("2006-01-02")
		series = append(series, TrendPoint{Date: day, Count: byDay[day]})
	}
	return series
}

func topCustomerEntries(entries []repository.CustomerTicketCount) []TopCustomer {
	result := make([]TopCustomer, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name
		if name == "" {
			name = entry.Phone
		}
		result = append(result, TopCustomer{
			ID:           entry.CustomerID,
			Name:         name,
			Phone:        entry.Phone,
			TotalTickets: entry.Tickets,
		})
	}
	return result
}
