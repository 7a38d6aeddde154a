package model

import (
	"errors"
	"testing"
	"time"
)

func mustInstant(t *testing.T, date, clock string, offset time.Duration) Instant {
	t.Helper()
	in, err := NewInstant(date, clock, Location{Name: "test", Latitude: 10, Longitude: 20}, offset)
	if err != nil {
		t.Fatalf("NewInstant(%s %s): %v", date, clock, err)
	}
	return in
}

func TestNewInstant(t *testing.T) {
	in := mustInstant(t, "1990-01-01", "13:30", 5*time.Hour+30*time.Minute)

	if !in.Resolved {
		t.Error("expected instant to be resolved")
	}
	utc := in.UTC()
	if utc.Hour() != 8 || utc.Minute() != 0 {
		t.Errorf("expected 08:00 UTC, got %02d:%02d", utc.Hour(), utc.Minute())
	}
}

func TestNewInstantInvalid(t *testing.T) {
	loc := Location{Latitude: 10, Longitude: 20}

	if _, err := NewInstant("not-a-date", "13:30", loc, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for bad date, got %v", err)
	}
	if _, err := NewInstant("1990-01-01", "25:00", loc, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for bad clock, got %v", err)
	}
	if _, err := NewInstant("1990-01-01", "13:30", Location{Latitude: 91}, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for bad latitude, got %v", err)
	}
	if _, err := NewInstant("1990-01-01", "13:30", Location{Longitude: -200}, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for bad longitude, got %v", err)
	}
}

func TestWindowOrdering(t *testing.T) {
	early := mustInstant(t, "1990-01-01", "12:00", 0)
	late := mustInstant(t, "1990-01-01", "14:00", 0)

	if _, err := NewWindow(late, early); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for reversed bounds, got %v", err)
	}

	w, err := NewWindow(early, late)
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	if w.Length() != 2*time.Hour {
		t.Errorf("expected 2h length, got %v", w.Length())
	}

	mid := w.Midpoint()
	if mid.Civil.Hour() != 13 || mid.Civil.Minute() != 0 {
		t.Errorf("expected 13:00 midpoint, got %v", mid.Civil)
	}
}

func TestWindowHalves(t *testing.T) {
	early := mustInstant(t, "1990-01-01", "12:00", 0)
	late := mustInstant(t, "1990-01-01", "14:00", 0)
	w := Window{Earliest: early, Latest: late}

	a, b := w.Halves()
	if a.Length() != time.Hour || b.Length() != time.Hour {
		t.Errorf("expected 1h halves, got %v and %v", a.Length(), b.Length())
	}
	if !a.Latest.Equal(b.Earliest) {
		t.Error("halves must meet at the midpoint")
	}
	if !a.Earliest.Equal(w.Earliest) || !b.Latest.Equal(w.Latest) {
		t.Error("halves must cover the full window")
	}
}

func TestWindowIntersect(t *testing.T) {
	at := func(clock string) Instant { return mustInstant(t, "1990-01-01", clock, 0) }

	w := Window{Earliest: at("12:00"), Latest: at("14:00")}

	overlap, ok := w.Intersect(Window{Earliest: at("13:00"), Latest: at("15:00")})
	if !ok {
		t.Fatal("expected non-empty intersection")
	}
	if !overlap.Earliest.Equal(at("13:00")) || !overlap.Latest.Equal(at("14:00")) {
		t.Errorf("unexpected intersection %v .. %v", overlap.Earliest, overlap.Latest)
	}

	if _, ok := w.Intersect(Window{Earliest: at("15:00"), Latest: at("16:00")}); ok {
		t.Error("expected empty intersection for disjoint windows")
	}

	// Intersection can only shrink
	if overlap.Length() > w.Length() {
		t.Error("intersection must never exceed the original window")
	}
}

func TestInstantAddSub(t *testing.T) {
	in := mustInstant(t, "1990-01-01", "12:00", 0)
	shifted := in.Add(90 * time.Minute)

	if shifted.Sub(in) != 90*time.Minute {
		t.Errorf("expected 90m difference, got %v", shifted.Sub(in))
	}
	if !in.Before(shifted) {
		t.Error("expected original to precede shifted")
	}
	if shifted.Location != in.Location {
		t.Error("Add must preserve location")
	}
}
