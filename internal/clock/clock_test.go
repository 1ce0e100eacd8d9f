package clock

import (
	"testing"
	"time"
)

func TestInQuietHours(t *testing.T) {
	tests := []struct {
		name       string
		hour       int
		start, end int
		want       bool
	}{
		{"wrapping window late evening", 23, 22, 7, true},
		{"wrapping window at start", 22, 22, 7, true},
		{"wrapping window early morning", 3, 22, 7, true},
		{"wrapping window at end", 7, 22, 7, false},
		{"wrapping window midday", 12, 22, 7, false},
		{"plain window inside", 14, 13, 15, true},
		{"plain window at end", 15, 13, 15, false},
		{"plain window before", 12, 13, 15, false},
		{"empty window", 5, 5, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InQuietHours(tt.hour, tt.start, tt.end); got != tt.want {
				t.Errorf("InQuietHours(%d, %d, %d) = %v, want %v", tt.hour, tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestFixed(t *testing.T) {
	at := time.Date(2026, 4, 2, 23, 30, 0, 0, time.UTC)
	c := Fixed(at)

	if !c.Now().Equal(at) {
		t.Errorf("Now() = %v, want %v", c.Now(), at)
	}
	if c.CurrentHour() != 23 {
		t.Errorf("CurrentHour() = %d, want 23", c.CurrentHour())
	}
	if c.Today() != "2026-04-02" {
		t.Errorf("Today() = %q, want 2026-04-02", c.Today())
	}
	if !c.IsQuietHours(22, 7) {
		t.Error("expected 23:30 to be inside 22..7 quiet hours")
	}
}

func TestSystemIn(t *testing.T) {
	c, err := SystemIn("UTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Location() != time.UTC {
		t.Errorf("expected UTC location, got %v", c.Location())
	}
	if c.Now().Location() != time.UTC {
		t.Errorf("expected Now() in UTC, got %v", c.Now().Location())
	}

	if _, err := SystemIn("Nowhere/Special"); err == nil {
		t.Error("expected error for invalid timezone")
	}
}

func TestSystemDefaultsToLocal(t *testing.T) {
	if System(nil).Location() != time.Local {
		t.Error("expected nil location to default to time.Local")
	}
}
