package ingest

import (
	"fmt"
	"regexp"
	"strings"
)

// agentRequestPattern detects an explicit ask for a human agent.
var agentRequestPattern = regexp.MustCompile(`(poner(me)? en contacto con un agente|contactar con un agente|hablar con un agente|necesito hablar con un agente)`)

// RequestsAgent reports whether the body textually asks for a live agent.
func RequestsAgent(body string) bool {
	return agentRequestPattern.MatchString(strings.ToLower(body))
}

// DecideReply selects at most one automatic reply per pipeline run.
// Precedence: an escalation that explicitly asked for a human beats the
// new-ticket acknowledgment; anything else sends nothing.
func DecideReply(escalated, requestsAgent, newTicket bool, ticketCode string) (string, bool) {
	switch {
	case escalated && requestsAgent:
		return fmt.Sprintf("Hola! Tu consulta ha sido escalada a nuestro equipo. Ticket: *%s*. Te responderemos pronto.", ticketCode), true
	case newTicket:
		return fmt.Sprintf("Hola! Hemos recibido tu mensaje. Ticket: *%s*. Un agente lo revisará pronto.", ticketCode), true
	}
	return "", false
}
