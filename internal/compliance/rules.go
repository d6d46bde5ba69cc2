package compliance

import (
	"fmt"
	"time"

	"greenlane/internal/domain"
)

// This file is pure domain logic - no I/O, no side effects. The functions
// receive all data they need as arguments; the service layer gathers it.

// validateSubject applies the subject checks in their fixed order:
//
//  1. Unknown user: USER_NOT_FOUND, and nothing else is meaningful.
//  2. Verification: AGE_NOT_VERIFIED when the rule demands explicit
//     verification and the user lacks it.
//  3. Age: DATE_OF_BIRTH_MISSING when the rule carries a minimum age but the
//     user has no recorded date of birth, otherwise UNDERAGE when the
//     computed age falls below the minimum.
//
// A nil rule is the permissive default: no age checks at all.
func validateSubject(user *domain.User, rule *domain.ComplianceRule, now time.Time) []Violation {
	if user == nil {
		return []Violation{{
			Code:    ViolationUserNotFound,
			Message: "user account could not be found",
		}}
	}
	if rule == nil {
		return nil
	}

	var violations []Violation
	if rule.MustVerifyAge && !user.AgeVerified {
		violations = append(violations, Violation{
			Code:    ViolationAgeNotVerified,
			Message: "age verification is required before ordering in this state",
		})
	}
	if rule.MinAge > 0 {
		age, known := user.AgeAt(now)
		switch {
		case !known:
			violations = append(violations, Violation{
				Code:    ViolationDOBMissing,
				Message: "a date of birth is required to confirm the minimum age",
			})
		case age < rule.MinAge:
			violations = append(violations, Violation{
				Code:    ViolationUnderage,
				Message: fmt.Sprintf("you must be at least %d years old to order in this state", rule.MinAge),
			})
		}
	}
	return violations
}

// requestedTHCMg sums the THC content of the proposed lines. A product that
// cannot be resolved contributes zero: catalog integrity is not this
// validator's problem, and failing the whole check on it would block orders
// for a data bug.
func requestedTHCMg(items []RequestedItem, products map[string]domain.Product) float64 {
	var total float64
	for _, item := range items {
		if product, ok := products[item.ProductID]; ok {
			total += product.THCMgPerUnit * float64(item.Quantity)
		}
	}
	return total
}

// dosageViolations compares the day's total against the jurisdiction cap.
// Strictly greater-than: an order landing exactly on the limit passes.
func dosageViolations(requested, consumed float64, rule *domain.ComplianceRule) []Violation {
	if rule == nil || rule.MaxDailyTHCMg <= 0 {
		return nil
	}
	total := requested + consumed
	if total > rule.MaxDailyTHCMg {
		return []Violation{{
			Code: ViolationDailyTHCExceeded,
			Message: fmt.Sprintf(
				"requested %.1f mg THC plus %.1f mg already purchased today exceeds the %.1f mg daily limit",
				requested, consumed, rule.MaxDailyTHCMg),
		}}
	}
	return nil
}

// dayWindowUTC returns the UTC calendar day [from, to) containing the
// evaluation instant. The daily window is pinned to UTC so a purchaser's cap
// does not shift when their phone changes timezones.
func dayWindowUTC(now time.Time) (time.Time, time.Time) {
	utc := now.UTC()
	from := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.Add(24 * time.Hour)
}
