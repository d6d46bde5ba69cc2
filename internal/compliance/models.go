// Package compliance validates a proposed order against the jurisdiction's
// cannabis regulations before checkout is allowed to proceed.
//
// The engine composes three parts: rule lookup (the dispensary's state code
// resolves to at most one ComplianceRule), subject validation (verification
// status and computed age against the state minimum), and dosage aggregation
// (requested THC plus the user's same-day purchases against the daily cap).
// Findings accumulate into a single Result; business violations are data,
// never errors.
package compliance

// ViolationCode identifies one failed business check. The set is closed: the
// mobile client maps these identifiers to user-facing copy, so values are
// wire-stable.
type ViolationCode string

const (
	ViolationUserNotFound     ViolationCode = "USER_NOT_FOUND"
	ViolationStoreUnknown     ViolationCode = "STORE_STATE_UNKNOWN"
	ViolationAgeNotVerified   ViolationCode = "AGE_NOT_VERIFIED"
	ViolationUnderage         ViolationCode = "UNDERAGE"
	ViolationDOBMissing       ViolationCode = "DATE_OF_BIRTH_MISSING"
	ViolationDailyTHCExceeded ViolationCode = "DAILY_THC_LIMIT_EXCEEDED"
)

// Violation is one failed check with a human-readable explanation.
type Violation struct {
	Code    ViolationCode `json:"code"`
	Message string        `json:"message"`
}

// RequestedItem is one proposed order line.
type RequestedItem struct {
	ProductID string
	Quantity  int
}

// CheckRequest is the order intent under evaluation.
type CheckRequest struct {
	UserID       string
	DispensaryID string
	Items        []RequestedItem
}

// Result is the aggregate outcome of one compliance check. It is ephemeral:
// evaluated fresh on every checkout attempt and never persisted.
type Result struct {
	Valid      bool        `json:"isValid"`
	Violations []Violation `json:"errors"`
}

// resultOf assembles a Result; Valid is derived, never set directly.
func resultOf(violations []Violation) Result {
	if violations == nil {
		violations = []Violation{}
	}
	return Result{Valid: len(violations) == 0, Violations: violations}
}

// Contains reports whether the result carries the given violation code.
func (r Result) Contains(code ViolationCode) bool {
	for _, v := range r.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}
