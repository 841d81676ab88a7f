package domain

import "time"

// Customer anchors identity on the external contact address. The name
// holds the company parsed from the most recent inbound greeting.
type Customer struct {
	ID        string
	Phone     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
