package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/soportia/helpdesk/internal/domain"
	"github.com/soportia/helpdesk/internal/repository"
	apperrors "github.com/soportia/helpdesk/pkg/util"
)

// TicketService coordinates agent-facing ticket workflows.
type TicketService struct {
	tickets   repository.TicketRepository
	customers repository.CustomerRepository
	messages  repository.MessageRepository
	events    repository.TicketEventRepository
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CustomerRepo repository.CustomerRepository
	MessageRepo  repository.MessageRepository
	EventRepo    repository.TicketEventRepository
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:   deps.TicketRepo,
		customers: deps.CustomerRepo,
		messages:  deps.MessageRepo,
		events:    deps.EventRepo,
	}
}

// TicketCreateInput describes manual ticket creation from the web channel.
type TicketCreateInput struct {
	Title         string
	CustomerPhone string
	CustomerName  string
	Priority      domain.TicketPriority
	Category      domain.TicketCategory
}

// TicketUpdateInput describes a partial agent update.
type TicketUpdateInput struct {
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	AssignedTo *string
	ClearAgent bool
}

// MessageInput describes a manually appended message.
type MessageInput struct {
	Body      string
	Direction domain.MessageDirection
	Sender    domain.MessageSender
}

// CreateTicket creates a ticket on behalf of an agent.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	if len(title) < 3 {
		return nil, apperrors.NewValidationError("title too short", nil)
	}
	phone := strings.TrimSpace(input.CustomerPhone)
	if len(phone) < 5 {
		return nil, apperrors.NewValidationError("customer phone required", nil)
	}

	customer, err := s.customers.UpsertByPhone(ctx, phone, input.CustomerName)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityNormal
	}
	category := input.Category
	if category == "" {
		category = domain.CategoryTechSupport
	}
	if !priority.IsValid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}
	if !category.IsValid() {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": category})
	}

	ticket := &domain.Ticket{
		Code:        domain.GenerateTicketCode(time.Now()),
		CustomerID:  customer.ID,
		ContactName: customer.Name,
		Title:       title,
		Status:      domain.TicketStatusOpen,
		Priority:    priority,
		Category:    category,
		Channel:     domain.ChannelWeb,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// ListTickets returns tickets for the dashboard list view.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	return s.tickets.ListWithFilter(ctx, filter)
}

// GetTicket fetches a ticket with its thread and audit trail.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, []domain.Message, []domain.TicketEvent, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, nil, nil, err
	}
	msgs, err := s.messages.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	auditTrail, err := s.events.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	return ticket, msgs, auditTrail, nil
}

// UpdateTicket applies a partial agent update to status/priority/assignee.
func (s *TicketService) UpdateTicket(ctx context.Context, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}

	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *input.Status})
		}
		ticket.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
		}
		ticket.Priority = *input.Priority
	}
	if input.ClearAgent {
		ticket.AssignedTo = nil
	} else if input.AssignedTo != nil {
		ticket.AssignedTo = input.AssignedTo
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// AddMessage appends a manual message to a ticket. Outbound replies move
// the ticket to WAITING_CUSTOMER and refresh its activity timestamp.
func (s *TicketService) AddMessage(ctx context.Context, ticketID string, input MessageInput) (*domain.Message, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, apperrors.NewValidationError("body required", nil)
	}
	direction := input.Direction
	if direction == "" {
		direction = domain.DirectionOutbound
	}
	sender := input.Sender
	if sender == "" {
		sender = domain.SenderHuman
	}
	if !direction.IsValid() {
		return nil, apperrors.NewValidationError("unknown direction", map[string]any{"direction": direction})
	}
	if !sender.IsValid() {
		return nil, apperrors.NewValidationError("unknown sender", map[string]any{"sender": sender})
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}

	msg := &domain.Message{
		TicketID:  ticket.ID,
		Direction: direction,
		Sender:    sender,
		Body:      body,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	ticket.LastMessageAt = time.Now()
	if direction == domain.DirectionOutbound {
		ticket.Status = domain.TicketStatusWaitingCustomer
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return msg, nil
}
