package store

import (
	"testing"
	"time"
)

func TestExtendExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	active := now.AddDate(0, 0, 10)
	expired := now.AddDate(0, 0, -5)

	tests := []struct {
		name    string
		current *time.Time
		delta   int
		want    time.Time
	}{
		{name: "first grant starts from now", current: nil, delta: 30, want: now.AddDate(0, 0, 30)},
		{name: "active grant extends from expiry", current: &active, delta: 7, want: active.AddDate(0, 0, 7)},
		{name: "expired grant restarts from now", current: &expired, delta: 7, want: now.AddDate(0, 0, 7)},
		{name: "negative delta shortens active grant", current: &active, delta: -3, want: active.AddDate(0, 0, -3)},
		{name: "negative delta floors at now", current: &active, delta: -9999, want: now},
		{name: "negative delta on fresh user floors at now", current: nil, delta: -9999, want: now},
		{name: "zero delta on expired user lands on now", current: &expired, delta: 0, want: now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extendExpiry(tt.current, tt.delta, now)
			if !got.Equal(tt.want) {
				t.Fatalf("extendExpiry = %v, want %v", got, tt.want)
			}
			if got.Before(now) {
				t.Fatalf("expiry %v is before now %v", got, now)
			}
		})
	}
}
