package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soportia/helpdesk/internal/domain"
)

func TestClassifyHighPriorityKeywords(t *testing.T) {
	for _, body := range []string{
		"es URGENTE por favor",
		"se cayó producción",
		"el sistema no anda",
		"me tira un error raro",
	} {
		got := Classify(body, domain.TicketPriorityNormal, domain.CategoryOther)
		assert.Equal(t, domain.TicketPriorityHigh, got.Priority, "body: %s", body)
	}
}

func TestClassifyUrgentPriorityKeywords(t *testing.T) {
	got := Classify("esto es un fraude, voy a iniciar acciones legales", domain.TicketPriorityNormal, domain.CategoryOther)
	assert.Equal(t, domain.TicketPriorityUrgent, got.Priority)
}

func TestClassifyPriorityNeverDowngrades(t *testing.T) {
	got := Classify("consulta general sin keywords", domain.TicketPriorityUrgent, domain.CategoryBilling)
	assert.Equal(t, domain.TicketPriorityUrgent, got.Priority)

	got = Classify("el sistema tira error", domain.TicketPriorityUrgent, domain.CategoryBilling)
	assert.Equal(t, domain.TicketPriorityUrgent, got.Priority, "HIGH keyword must not downgrade URGENT")
}

func TestClassifyBillingCategory(t *testing.T) {
	got := Classify("tengo una duda con la factura", domain.TicketPriorityNormal, domain.CategoryTechSupport)
	assert.Equal(t, domain.CategoryBilling, got.Category)
}

func TestClassifyRosterWinsOverBilling(t *testing.T) {
	got := Classify("walter me dijo que revise la factura", domain.TicketPriorityNormal, domain.CategoryOther)
	assert.Equal(t, domain.CategoryTechSupport, got.Category)
}

func TestClassifyKeepsCategoryWithoutMatches(t *testing.T) {
	got := Classify("consulta general", domain.TicketPriorityNormal, domain.CategorySales)
	assert.Equal(t, domain.CategorySales, got.Category)
}

func TestFirstPassCategory(t *testing.T) {
	assert.Equal(t, domain.CategoryBilling, FirstPassCategory("problema con el pago"))
	assert.Equal(t, domain.CategoryTechSupport, FirstPassCategory("no puedo entrar"))
}
