package domain

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// titleTokenLimit caps generated ticket titles to the first words of the
// opening message.
const titleTokenLimit = 8

// GenerateTicketCode produces a human-readable ticket code: year, month/day
// stamp and a random numeric suffix. Codes are never reused; the suffix
// keeps same-day collisions negligible.
func GenerateTicketCode(now time.Time) string {
	return fmt.Sprintf("TCK-%d-%s-%06d", now.Year(), now.Format("0102"), rand.Intn(1000000))
}

// TitleFromBody derives a ticket title from the first tokens of the opening
// message, falling back to a placeholder for empty bodies.
func TitleFromBody(body string) string {
	tokens := strings.Fields(body)
	if len(tokens) == 0 {
		return "Consulta"
	}
	if len(tokens) > titleTokenLimit {
		tokens = tokens[:titleTokenLimit]
	}
	return strings.Join(tokens, " ")
}
