package dto

import (
	"time"

	"github.com/soportia/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title         string                `json:"title" validate:"required,min=3"`
	CustomerPhone string                `json:"customer_phone" validate:"required,min=5"`
	CustomerName  string                `json:"customer_name"`
	Priority      domain.TicketPriority `json:"priority"`
	Category      domain.TicketCategory `json:"category"`
}

// UpdateTicketRequest payload for partial agent updates.
type UpdateTicketRequest struct {
	Status     *domain.TicketStatus   `json:"status"`
	Priority   *domain.TicketPriority `json:"priority"`
	AssignedTo *string                `json:"assigned_to"`
}

// CreateMessageRequest payload for manual thread messages.
type CreateMessageRequest struct {
	Text      string                  `json:"text" validate:"required,min=1"`
	Direction domain.MessageDirection `json:"direction"`
	From      domain.MessageSender    `json:"from"`
}

// TicketSummary response.
type TicketSummary struct {
	ID            string                `json:"id"`
	Code          string                `json:"code"`
	CustomerID    string                `json:"customer_id"`
	ContactName   string                `json:"contact_name"`
	Title         string                `json:"title"`
	Status        domain.TicketStatus   `json:"status"`
	Priority      domain.TicketPriority `json:"priority"`
	Category      domain.TicketCategory `json:"category"`
	Channel       domain.TicketChannel  `json:"channel"`
	AssignedTo    *string               `json:"assigned_to"`
	LastMessageAt time.Time             `json:"last_message_at"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides the full thread view.
type TicketDetailResponse struct {
	TicketSummary
	Messages []MessageResponse     `json:"messages"`
	Events   []TicketEventResponse `json:"events"`
}

// MessageResponse represents one thread message.
type MessageResponse struct {
	ID          string                  `json:"id"`
	Direction   domain.MessageDirection `json:"direction"`
	From        domain.MessageSender    `json:"from"`
	Body        string                  `json:"body"`
	Attachments []AttachmentResponse    `json:"attachments"`
	CreatedAt   time.Time               `json:"created_at"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	URL  string `json:"url"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// TicketEventResponse represents one audit entry.
type TicketEventResponse struct {
	ID        string                 `json:"id"`
	Type      domain.TicketEventType `json:"type"`
	Payload   map[string]any         `json:"payload"`
	CreatedAt time.Time              `json:"created_at"`
}
