package ingest

import (
	"regexp"
	"strings"

	"github.com/soportia/helpdesk/internal/domain"
)

// Keyword rules. Matching is case-insensitive over the lowercased body;
// evaluation order is part of the contract (billing before the support
// roster, so the roster wins when both match).
var (
	highPriorityPattern   = regexp.MustCompile(`(urgente|producci[óo]n|ca[ií]do|no anda|error)`)
	urgentPriorityPattern = regexp.MustCompile(`(amenaza|legal|fraude|cliente enojado)`)
	billingPattern        = regexp.MustCompile(`(factura|pago|precio)`)
	supportRosterPattern  = regexp.MustCompile(`(walter|emilia|silvia|oscar|max)`)
)

// Classification is the result of one classifier run.
type Classification struct {
	Priority domain.TicketPriority
	Category domain.TicketCategory
}

// Classify derives priority and category from the message body and the
// ticket's current values. Priority only ever moves up; the function is a
// pure rule table and reproduces identically for identical inputs.
func Classify(body string, currentPriority domain.TicketPriority, currentCategory domain.TicketCategory) Classification {
	lower := strings.ToLower(body)

	priority := currentPriority
	if highPriorityPattern.MatchString(lower) && domain.TicketPriorityHigh.Rank() > priority.Rank() {
		priority = domain.TicketPriorityHigh
	}
	if urgentPriorityPattern.MatchString(lower) && domain.TicketPriorityUrgent.Rank() > priority.Rank() {
		priority = domain.TicketPriorityUrgent
	}

	category := currentCategory
	if billingPattern.MatchString(lower) {
		category = domain.CategoryBilling
	}
	if supportRosterPattern.MatchString(lower) {
		category = domain.CategoryTechSupport
	}

	return Classification{Priority: priority, Category: category}
}

// FirstPassCategory classifies a brand-new ticket from its first message.
func FirstPassCategory(body string) domain.TicketCategory {
	lower := strings.ToLower(body)
	if billingPattern.MatchString(lower) {
		return domain.CategoryBilling
	}
	return domain.CategoryTechSupport
}
