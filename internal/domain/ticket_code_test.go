package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTicketCodeFormat(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	code := GenerateTicketCode(now)

	assert.Regexp(t, regexp.MustCompile(`^TCK-2026-0314-\d{6}$`), code)
}

func TestTitleFromBody(t *testing.T) {
	assert.Equal(t, "no puedo entrar", TitleFromBody("no puedo entrar"))
	assert.Equal(t, "Consulta", TitleFromBody(""))
	assert.Equal(t, "Consulta", TitleFromBody("   "))

	long := "uno dos tres cuatro cinco seis siete ocho nueve diez"
	assert.Equal(t, "uno dos tres cuatro cinco seis siete ocho", TitleFromBody(long))
}

func TestPriorityRankOrdering(t *testing.T) {
	assert.Less(t, TicketPriorityLow.Rank(), TicketPriorityNormal.Rank())
	assert.Less(t, TicketPriorityNormal.Rank(), TicketPriorityHigh.Rank())
	assert.Less(t, TicketPriorityHigh.Rank(), TicketPriorityUrgent.Rank())
	assert.Equal(t, -1, TicketPriority("BOGUS").Rank())
}

func TestStatusIsActive(t *testing.T) {
	assert.True(t, TicketStatusOpen.IsActive())
	assert.True(t, TicketStatusInProgress.IsActive())
	assert.True(t, TicketStatusWaitingCustomer.IsActive())
	assert.False(t, TicketStatusResolved.IsActive())
	assert.False(t, TicketStatusClosed.IsActive())
}
