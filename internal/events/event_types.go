package events

import (
	"time"

	"github.com/soportia/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventMessageReceived EventType = "message_received"
	EventTicketCreated   EventType = "ticket_created"
	EventTicketEscalated EventType = "ticket_escalated"
	EventAutoReplySent   EventType = "auto_reply_sent"
)

// Event represents a domain event emitted by the pipeline and services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// MessageReceivedPayload payload.
type MessageReceivedPayload struct {
	MessageID   string `json:"message_id"`
	CustomerID  string `json:"customer_id"`
	BodyPreview string `json:"body_preview"`
	Attachments int    `json:"attachments"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Code     string                `json:"code"`
	Priority domain.TicketPriority `json:"priority"`
	Category domain.TicketCategory `json:"category"`
	Title    string                `json:"title"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	Code      string                `json:"code"`
	Priority  domain.TicketPriority `json:"priority"`
	MsgCount  int                   `json:"message_count"`
	Triggered string                `json:"triggered_by"`
}

// AutoReplySentPayload payload.
type AutoReplySentPayload struct {
	Code      string `json:"code"`
	Recipient string `json:"recipient"`
	Text      string `json:"text"`
}
