package ingest

import (
	"regexp"
	"strings"

	"github.com/soportia/helpdesk/internal/domain"
)

// criticalIntentPattern is deliberately distinct from the classifier's
// keyword set: it adds explicit escalation requests and formal complaints.
var criticalIntentPattern = regexp.MustCompile(`(amenaza|legal|fraude|cliente enojado|escala|denuncia)`)

// Escalation triggers, reported for the audit trail.
const (
	TriggerPriority     = "priority"
	TriggerKeyword      = "keyword"
	TriggerMessageCount = "message_count"
)

// EscalationInput carries the three independent escalation triggers.
type EscalationInput struct {
	Body          string
	Priority      domain.TicketPriority
	PriorMessages int
}

// ShouldEscalate decides whether this run moves the ticket toward human
// attention. Any single trigger suffices; the winning trigger is returned
// for auditing.
func ShouldEscalate(in EscalationInput, messageThreshold int) (bool, string) {
	if in.Priority == domain.TicketPriorityUrgent {
		return true, TriggerPriority
	}
	if criticalIntentPattern.MatchString(strings.ToLower(in.Body)) {
		return true, TriggerKeyword
	}
	if messageThreshold > 0 && in.PriorMessages >= messageThreshold {
		return true, TriggerMessageCount
	}
	return false, ""
}

// EscalationStatus applies the escalation status transition: only tickets
// sitting with the customer or newly opened move to IN_PROGRESS.
func EscalationStatus(current domain.TicketStatus) domain.TicketStatus {
	switch current {
	case domain.TicketStatusOpen, domain.TicketStatusWaitingCustomer:
		return domain.TicketStatusInProgress
	}
	return current
}
