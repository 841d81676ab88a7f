package handlers

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/soportia/helpdesk/internal/api/dto"
	"github.com/soportia/helpdesk/internal/domain"
	"github.com/soportia/helpdesk/internal/repository"
	"github.com/soportia/helpdesk/internal/service"
	apperrors "github.com/soportia/helpdesk/pkg/util"
)

// TicketsHandler manages agent-facing ticket endpoints.
type TicketsHandler struct {
	service  *service.TicketService
	validate *validator.Validate
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService, validate: validator.New()}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"reason": err.Error()})
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Title:         req.Title,
		CustomerPhone: req.CustomerPhone,
		CustomerName:  req.CustomerName,
		Priority:      req.Priority,
		Category:      req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.ListTickets(c.UserContext(), parseTicketQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, msgs, auditTrail, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, msgs, auditTrail)})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == nil && req.Priority == nil && req.AssignedTo == nil {
		return apperrors.NewValidationError("nothing to update", nil)
	}

	input := service.TicketUpdateInput{
		Status:   req.Status,
		Priority: req.Priority,
	}
	if req.AssignedTo != nil {
		if strings.TrimSpace(*req.AssignedTo) == "" {
			input.ClearAgent = true
		} else {
			input.AssignedTo = req.AssignedTo
		}
	}

	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// AddMessage POST /tickets/:id/messages.
func (h *TicketsHandler) AddMessage(c *fiber.Ctx) error {
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"reason": err.Error()})
	}

	msg, err := h.service.AddMessage(c.UserContext(), c.Params("id"), service.MessageInput{
		Body:      req.Text,
		Direction: req.Direction,
		Sender:    req.From,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": messageResponse(msg)})
}

func parseTicketQuery(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	if categoryStr := c.Query("category"); categoryStr != "" {
		for _, part := range strings.Split(categoryStr, ",") {
			filter.Categories = append(filter.Categories, domain.TicketCategory(strings.TrimSpace(part)))
		}
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		filter.CustomerID = &customerID
	}
	if agent := c.Query("assigned_to"); agent != "" {
		filter.AssignedTo = &agent
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:            ticket.ID,
		Code:          ticket.Code,
		CustomerID:    ticket.CustomerID,
		ContactName:   ticket.ContactName,
		Title:         ticket.Title,
		Status:        ticket.Status,
		Priority:      ticket.Priority,
		Category:      ticket.Category,
		Channel:       ticket.Channel,
		AssignedTo:    ticket.AssignedTo,
		LastMessageAt: ticket.LastMessageAt,
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket, messages []domain.Message, auditTrail []domain.TicketEvent) dto.TicketDetailResponse {
	msgs := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		msgs = append(msgs, messageResponse(&messages[i]))
	}
	entries := make([]dto.TicketEventResponse, 0, len(auditTrail))
	for _, entry := range auditTrail {
		entries = append(entries, dto.TicketEventResponse{
			ID:        entry.ID,
			Type:      entry.Type,
			Payload:   entry.Payload,
			CreatedAt: entry.CreatedAt,
		})
	}
	return dto.TicketDetailResponse{
		TicketSummary: ticketSummary(ticket),
		Messages:      msgs,
		Events:        entries,
	}
}

func messageResponse(msg *domain.Message) dto.MessageResponse {
	attachments := make([]dto.AttachmentResponse, 0, len(msg.Attachments))
	for _, att := range msg.Attachments {
		attachments = append(attachments, dto.AttachmentResponse{
			URL:  att.URL,
			Type: att.Type,
			Name: att.Name,
		})
	}
	return dto.MessageResponse{
		ID:          msg.ID,
		Direction:   msg.Direction,
		From:        msg.Sender,
		Body:        msg.Body,
		Attachments: attachments,
		CreatedAt:   msg.CreatedAt,
	}
}
