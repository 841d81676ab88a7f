package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen            TicketStatus = "OPEN"
	TicketStatusInProgress      TicketStatus = "IN_PROGRESS"
	TicketStatusWaitingCustomer TicketStatus = "WAITING_CUSTOMER"
	TicketStatusResolved        TicketStatus = "RESOLVED"
	TicketStatusClosed          TicketStatus = "CLOSED"
)

// ActiveStatuses are the states in which a ticket can still receive
// threaded inbound messages.
var ActiveStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusWaitingCustomer,
}

// IsActive reports whether the ticket can still absorb inbound messages.
func (s TicketStatus) IsActive() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusWaitingCustomer:
		return true
	}
	return false
}

// IsValid reports whether the value is a known status.
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusWaitingCustomer,
		TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityNormal TicketPriority = "NORMAL"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// Rank imposes the total order used for monotonic escalation.
func (p TicketPriority) Rank() int {
	switch p {
	case TicketPriorityLow:
		return 0
	case TicketPriorityNormal:
		return 1
	case TicketPriorityHigh:
		return 2
	case TicketPriorityUrgent:
		return 3
	}
	return -1
}

// IsValid reports whether the value is a known priority.
func (p TicketPriority) IsValid() bool {
	return p.Rank() >= 0
}

// TicketCategory enumerates coarse routing categories.
type TicketCategory string

const (
	CategoryTechSupport TicketCategory = "TECH_SUPPORT"
	CategoryBilling     TicketCategory = "BILLING"
	CategorySales       TicketCategory = "SALES"
	CategoryOther       TicketCategory = "OTHER"
)

// IsValid reports whether the value is a known category.
func (c TicketCategory) IsValid() bool {
	switch c {
	case CategoryTechSupport, CategoryBilling, CategorySales, CategoryOther:
		return true
	}
	return false
}

// TicketChannel identifies the origin of a conversation.
type TicketChannel string

const (
	ChannelWhatsApp TicketChannel = "WHATSAPP"
	ChannelEmail    TicketChannel = "EMAIL"
	ChannelWeb      TicketChannel = "WEB"
)

// Ticket is a bounded conversation thread owned by a customer.
type Ticket struct {
	ID            string
	Code          string
	CustomerID    string
	ContactName   string
	Title         string
	Status        TicketStatus
	Priority      TicketPriority
	Category      TicketCategory
	Channel       TicketChannel
	AssignedTo    *string
	LastMessageAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
