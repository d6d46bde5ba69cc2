package domain

import "time"

// ComplianceRule is one jurisdiction's regulatory policy. At most one active
// rule exists per state code; the absence of a rule is a valid, permissive
// state, not an error.
//
// MaxDailyTHCMg == 0 means the jurisdiction imposes no daily cap (checks are
// skipped), mirroring how an absent rule behaves.
type ComplianceRule struct {
	StateCode     string
	MinAge        int
	MaxDailyTHCMg float64
	MustVerifyAge bool
	UpdatedAt     time.Time
}
