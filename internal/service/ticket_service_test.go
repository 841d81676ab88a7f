package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soportia/helpdesk/internal/domain"
	"github.com/soportia/helpdesk/internal/repository"
	apperrors "github.com/soportia/helpdesk/pkg/util"
)

type memCustomerRepo struct {
	byPhone map[string]*domain.Customer
	seq     int
}

func (r *memCustomerRepo) UpsertByPhone(_ context.Context, phone, name string) (*domain.Customer, error) {
	if r.byPhone == nil {
		r.byPhone = make(map[string]*domain.Customer)
	}
	if c, ok := r.byPhone[phone]; ok {
		c.Name = name
		return c, nil
	}
	r.seq++
	c := &domain.Customer{ID: fmt.Sprintf("cust-%d", r.seq), Phone: phone, Name: name}
	r.byPhone[phone] = c
	return c, nil
}

func (r *memCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	for _, c := range r.byPhone {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memTicketRepo struct {
	tickets map[string]*domain.Ticket
	seq     int
}

func (r *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	if r.tickets == nil {
		r.tickets = make(map[string]*domain.Ticket)
	}
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	ticket.CreatedAt = time.Now()
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *memTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *memTicketRepo) GetByCode(_ context.Context, code string) (*domain.Ticket, error) {
	for _, ticket := range r.tickets {
		if ticket.Code == code {
			copied := *ticket
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memTicketRepo) FindOrCreateActive(ctx context.Context, _ string, _ time.Time, fresh *domain.Ticket) (*domain.Ticket, bool, error) {
	if err := r.Create(ctx, fresh); err != nil {
		return nil, false, err
	}
	return fresh, true, nil
}

func (r *memTicketRepo) ListWithFilter(_ context.Context, _ repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		result = append(result, *ticket)
	}
	return result, nil
}

type memMessageRepo struct {
	messages []*domain.Message
	seq      int
}

func (r *memMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.seq++
	msg.ID = fmt.Sprintf("msg-%d", r.seq)
	msg.CreatedAt = time.Now()
	copied := *msg
	r.messages = append(r.messages, &copied)
	return nil
}

func (r *memMessageRepo) FindByExternalID(_ context.Context, _ string) (*domain.Message, error) {
	return nil, nil
}

func (r *memMessageRepo) CountByTicket(_ context.Context, ticketID string) (int, error) {
	count := 0
	for _, msg := range r.messages {
		if msg.TicketID == ticketID {
			count++
		}
	}
	return count, nil
}

func (r *memMessageRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Message, error) {
	var result []domain.Message
	for _, msg := range r.messages {
		if msg.TicketID == ticketID {
			result = append(result, *msg)
		}
	}
	return result, nil
}

type memEventRepo struct {
	entries []*domain.TicketEvent
}

func (r *memEventRepo) Append(_ context.Context, event *domain.TicketEvent) error {
	r.entries = append(r.entries, event)
	return nil
}

func (r *memEventRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketEvent, error) {
	var result []domain.TicketEvent
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			result = append(result, *entry)
		}
	}
	return result, nil
}

func newTicketServiceFixture() (*TicketService, *memTicketRepo, *memCustomerRepo, *memMessageRepo) {
	tickets := &memTicketRepo{}
	customers := &memCustomerRepo{}
	messages := &memMessageRepo{}
	svc := NewTicketService(TicketDependencies{
		TicketRepo:   tickets,
		CustomerRepo: customers,
		MessageRepo:  messages,
		EventRepo:    &memEventRepo{},
	})
	return svc, tickets, customers, messages
}

func TestCreateTicketDefaults(t *testing.T) {
	svc, _, customers, _ := newTicketServiceFixture()

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		Title:         "Acceso bloqueado",
		CustomerPhone: "+5491155550000",
		CustomerName:  "Acme",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityNormal, ticket.Priority)
	assert.Equal(t, domain.CategoryTechSupport, ticket.Category)
	assert.Equal(t, domain.ChannelWeb, ticket.Channel)
	assert.NotEmpty(t, ticket.Code)
	assert.Contains(t, customers.byPhone, "+5491155550000")
}

func TestCreateTicketValidation(t *testing.T) {
	svc, _, _, _ := newTicketServiceFixture()

	_, err := svc.CreateTicket(context.Background(), TicketCreateInput{Title: "ab", CustomerPhone: "+549115555"})
	require.Error(t, err)

	_, err = svc.CreateTicket(context.Background(), TicketCreateInput{Title: "valid title", CustomerPhone: "12"})
	require.Error(t, err)

	_, err = svc.CreateTicket(context.Background(), TicketCreateInput{
		Title:         "valid title",
		CustomerPhone: "+549115555",
		Priority:      domain.TicketPriority("BOGUS"),
	})
	require.Error(t, err)
}

func TestUpdateTicketAssignee(t *testing.T) {
	svc, tickets, _, _ := newTicketServiceFixture()
	seed := &domain.Ticket{Code: "TCK-1", CustomerID: "c1", Title: "t", Status: domain.TicketStatusOpen,
		Priority: domain.TicketPriorityNormal, Category: domain.CategoryOther, Channel: domain.ChannelWhatsApp}
	require.NoError(t, tickets.Create(context.Background(), seed))

	agent := "agente@soportia"
	updated, err := svc.UpdateTicket(context.Background(), seed.ID, TicketUpdateInput{AssignedTo: &agent})
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, agent, *updated.AssignedTo)

	updated, err = svc.UpdateTicket(context.Background(), seed.ID, TicketUpdateInput{ClearAgent: true})
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedTo)
}

func TestUpdateTicketRejectsUnknownStatus(t *testing.T) {
	svc, tickets, _, _ := newTicketServiceFixture()
	seed := &domain.Ticket{Code: "TCK-1", CustomerID: "c1", Title: "t", Status: domain.TicketStatusOpen,
		Priority: domain.TicketPriorityNormal, Category: domain.CategoryOther, Channel: domain.ChannelWhatsApp}
	require.NoError(t, tickets.Create(context.Background(), seed))

	bogus := domain.TicketStatus("ARCHIVED")
	_, err := svc.UpdateTicket(context.Background(), seed.ID, TicketUpdateInput{Status: &bogus})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 400, domainErr.HTTPStatus)
}

func TestUpdateTicketNotFound(t *testing.T) {
	svc, _, _, _ := newTicketServiceFixture()

	status := domain.TicketStatusResolved
	_, err := svc.UpdateTicket(context.Background(), "missing", TicketUpdateInput{Status: &status})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 404, domainErr.HTTPStatus)
}

func TestAddMessageOutboundMovesToWaitingCustomer(t *testing.T) {
	svc, tickets, _, messages := newTicketServiceFixture()
	seed := &domain.Ticket{Code: "TCK-1", CustomerID: "c1", Title: "t", Status: domain.TicketStatusInProgress,
		Priority: domain.TicketPriorityNormal, Category: domain.CategoryOther, Channel: domain.ChannelWhatsApp}
	require.NoError(t, tickets.Create(context.Background(), seed))

	msg, err := svc.AddMessage(context.Background(), seed.ID, MessageInput{Body: "Estamos revisando tu caso"})
	require.NoError(t, err)

	assert.Equal(t, domain.DirectionOutbound, msg.Direction)
	assert.Equal(t, domain.SenderHuman, msg.Sender)
	require.Len(t, messages.messages, 1)

	updated, err := tickets.GetByID(context.Background(), seed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusWaitingCustomer, updated.Status)
	assert.False(t, updated.LastMessageAt.IsZero())
}

func TestAddMessageInternalNoteKeepsStatus(t *testing.T) {
	svc, tickets, _, _ := newTicketServiceFixture()
	seed := &domain.Ticket{Code: "TCK-1", CustomerID: "c1", Title: "t", Status: domain.TicketStatusInProgress,
		Priority: domain.TicketPriorityNormal, Category: domain.CategoryOther, Channel: domain.ChannelWhatsApp}
	require.NoError(t, tickets.Create(context.Background(), seed))

	_, err := svc.AddMessage(context.Background(), seed.ID, MessageInput{
		Body:      "nota interna",
		Direction: domain.DirectionInternalNote,
		Sender:    domain.SenderHuman,
	})
	require.NoError(t, err)

	updated, err := tickets.GetByID(context.Background(), seed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)
}

func TestGetTicketNotFound(t *testing.T) {
	svc, _, _, _ := newTicketServiceFixture()

	_, _, _, err := svc.GetTicket(context.Background(), "missing")
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 404, domainErr.HTTPStatus)
}
