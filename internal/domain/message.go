package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrDuplicateMessage is returned when a message insert collides with the
// unique index on the external message id. Callers treat it as a replay,
// never as a failure.
var ErrDuplicateMessage = errors.New("duplicate message fingerprint")

// MessageDirection indicates which way a message travelled.
type MessageDirection string

const (
	DirectionInbound      MessageDirection = "INBOUND"
	DirectionOutbound     MessageDirection = "OUTBOUND"
	DirectionInternalNote MessageDirection = "INTERNAL_NOTE"
)

// IsValid reports whether the value is a known direction.
func (d MessageDirection) IsValid() bool {
	switch d {
	case DirectionInbound, DirectionOutbound, DirectionInternalNote:
		return true
	}
	return false
}

// MessageSender classifies the author of a message.
type MessageSender string

const (
	SenderCustomer MessageSender = "CUSTOMER"
	SenderBot      MessageSender = "BOT"
	SenderHuman    MessageSender = "HUMAN"
)

// IsValid reports whether the value is a known sender class.
func (s MessageSender) IsValid() bool {
	switch s {
	case SenderCustomer, SenderBot, SenderHuman:
		return true
	}
	return false
}

// Attachment is a durable media reference stored with a message.
type Attachment struct {
	URL  string `json:"url"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// Message is an immutable record within a ticket thread.
type Message struct {
	ID                string
	TicketID          string
	Direction         MessageDirection
	Sender            MessageSender
	Body              string
	Attachments       []Attachment
	RawPayload        json.RawMessage
	ExternalMessageID *string
	CreatedAt         time.Time
}
