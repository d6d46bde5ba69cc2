package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeAt(t *testing.T) {
	dob := time.Date(2004, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"day before 21st birthday", time.Date(2025, 6, 14, 23, 59, 0, 0, time.UTC), 20},
		{"on 21st birthday", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), 21},
		{"day after 21st birthday", time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), 21},
		{"earlier month same year", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := User{DateOfBirth: &dob}
			age, ok := u.AgeAt(tt.now)
			require.True(t, ok)
			assert.Equal(t, tt.want, age)
		})
	}
}

func TestAgeAtWithoutDateOfBirth(t *testing.T) {
	_, ok := User{}.AgeAt(time.Now())
	assert.False(t, ok)
}

func TestParseOrderStatus(t *testing.T) {
	status, ok := ParseOrderStatus("pending")
	require.True(t, ok)
	assert.Equal(t, OrderStatusPending, status)

	_, ok = ParseOrderStatus("shipped")
	assert.False(t, ok)
}

func TestCountsTowardDailyLimit(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusReady, OrderStatusCompleted} {
		assert.True(t, status.CountsTowardDailyLimit(), string(status))
	}
	assert.False(t, OrderStatusCancelled.CountsTowardDailyLimit())
}

func TestOrderItemTHCMg(t *testing.T) {
	item := OrderItem{Quantity: 3, THCMgPerUnit: 12.5}
	assert.Equal(t, 37.5, item.THCMg())
}
