package domain

import "time"

// TicketEventType enumerates audit event kinds.
type TicketEventType string

const (
	EventTypeEscalated TicketEventType = "ESCALATED"
	EventTypeAutoReply TicketEventType = "AUTO_REPLY"
)

// TicketEvent is an append-only audit entry describing the outcome of a
// pipeline run or agent action. Never updated after creation.
type TicketEvent struct {
	ID        string
	TicketID  string
	Type      TicketEventType
	Payload   map[string]any
	CreatedAt time.Time
}
