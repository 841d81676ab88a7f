package ingest

import "strings"

// Fallbacks used when the greeting template is absent and the channel did
// not supply a display name.
const (
	UnknownOrganization = "Empresa desconocida"
	UnknownContact      = "Sin nombre"
)

// Normalized is the structured form of an inbound text.
type Normalized struct {
	Organization string
	Contact      string
	Body         string
}

// Normalize parses the raw inbound text. The upstream channel's greeting
// template puts the company on line 1, the contact on line 2 and the issue
// on the remaining lines; texts with fewer than three non-empty lines are
// treated as plain issue bodies.
func Normalize(text, senderName string) Normalized {
	lines := make([]string, 0, 4)
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	if len(lines) >= 3 {
		return Normalized{
			Organization: lines[0],
			Contact:      lines[1],
			Body:         strings.Join(lines[2:], "\n"),
		}
	}

	organization := senderName
	if organization == "" {
		organization = UnknownOrganization
	}
	contact := senderName
	if contact == "" {
		contact = UnknownContact
	}
	return Normalized{
		Organization: organization,
		Contact:      contact,
		Body:         strings.TrimSpace(text),
	}
}
