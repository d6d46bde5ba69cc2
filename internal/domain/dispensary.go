package domain

import "time"

// Dispensary is the point of sale. Its state code anchors the jurisdiction
// whose compliance rule applies to every order placed against it.
type Dispensary struct {
	ID        string
	Name      string
	StateCode string
	CreatedAt time.Time
}
