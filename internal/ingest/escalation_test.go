package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soportia/helpdesk/internal/domain"
)

func TestShouldEscalateOnUrgentPriority(t *testing.T) {
	escalated, trigger := ShouldEscalate(EscalationInput{
		Body:     "consulta general",
		Priority: domain.TicketPriorityUrgent,
	}, 3)

	assert.True(t, escalated)
	assert.Equal(t, TriggerPriority, trigger)
}

func TestShouldEscalateOnCriticalKeyword(t *testing.T) {
	escalated, trigger := ShouldEscalate(EscalationInput{
		Body:     "quiero que escalen esto o hago la denuncia",
		Priority: domain.TicketPriorityNormal,
	}, 3)

	assert.True(t, escalated)
	assert.Equal(t, TriggerKeyword, trigger)
}

func TestShouldEscalateOnMessageCount(t *testing.T) {
	escalated, trigger := ShouldEscalate(EscalationInput{
		Body:          "sigo esperando respuesta",
		Priority:      domain.TicketPriorityNormal,
		PriorMessages: 3,
	}, 3)

	assert.True(t, escalated)
	assert.Equal(t, TriggerMessageCount, trigger)
}

func TestShouldEscalateBelowThreshold(t *testing.T) {
	escalated, trigger := ShouldEscalate(EscalationInput{
		Body:          "sigo esperando respuesta",
		Priority:      domain.TicketPriorityHigh,
		PriorMessages: 2,
	}, 3)

	assert.False(t, escalated)
	assert.Equal(t, "", trigger)
}

func TestShouldEscalateDisabledThreshold(t *testing.T) {
	escalated, _ := ShouldEscalate(EscalationInput{
		Body:          "sigo esperando",
		Priority:      domain.TicketPriorityNormal,
		PriorMessages: 50,
	}, 0)

	assert.False(t, escalated, "threshold 0 disables the message-count trigger")
}

func TestEscalationStatusTransitions(t *testing.T) {
	assert.Equal(t, domain.TicketStatusInProgress, EscalationStatus(domain.TicketStatusOpen))
	assert.Equal(t, domain.TicketStatusInProgress, EscalationStatus(domain.TicketStatusWaitingCustomer))
	assert.Equal(t, domain.TicketStatusInProgress, EscalationStatus(domain.TicketStatusInProgress))
	assert.Equal(t, domain.TicketStatusResolved, EscalationStatus(domain.TicketStatusResolved))
	assert.Equal(t, domain.TicketStatusClosed, EscalationStatus(domain.TicketStatusClosed))
}
