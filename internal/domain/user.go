// Package domain holds the entities shared across modules. Records coming
// out of storage are fully typed; the compliance arithmetic never operates on
// loose maps.
package domain

import "time"

// User is the purchaser. Owned by the identity subsystem; read-only here.
//
// DateOfBirth is nullable on purpose: a missing DOB is its own compliance
// violation, distinct from being underage.
type User struct {
	ID          string
	Email       string
	DateOfBirth *time.Time
	AgeVerified bool
	CreatedAt   time.Time
}

// AgeAt returns the user's age in whole civil-calendar years at the given
// instant, and false when the date of birth is unknown.
func (u User) AgeAt(now time.Time) (int, bool) {
	if u.DateOfBirth == nil {
		return 0, false
	}
	dob := u.DateOfBirth.UTC()
	now = now.UTC()
	age := now.Year() - dob.Year()
	// Not yet had this year's birthday.
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age, true
}
