package clock

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := &RealClock{}

	before := time.Now()
	actual := clock.Now()
	after := time.Now()

	if actual.Before(before) || actual.After(after) {
		t.Errorf("RealClock.Now() = %v, want between %v and %v", actual, before, after)
	}
	if actual.Location() != time.UTC {
		t.Errorf("RealClock.Now() location = %v, want UTC", actual.Location())
	}
}

func TestFakeClock(t *testing.T) {
	fixed := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	t.Run("frozen", func(t *testing.T) {
		clock := NewFakeClock(fixed)
		if !clock.Now().Equal(fixed) || !clock.Now().Equal(fixed) {
			t.Errorf("FakeClock should keep returning %v", fixed)
		}
	})

	t.Run("set and advance", func(t *testing.T) {
		clock := NewFakeClock(fixed)
		later := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		clock.Set(later)
		clock.Advance(90 * time.Minute)

		want := later.Add(90 * time.Minute)
		if got := clock.Now(); !got.Equal(want) {
			t.Errorf("Now() = %v, want %v", got, want)
		}
	})

	t.Run("stepping", func(t *testing.T) {
		clock := NewSteppingClock(fixed, time.Second)
		first := clock.Now()
		second := clock.Now()

		if !first.Equal(fixed) {
			t.Errorf("first Now() = %v, want %v", first, fixed)
		}
		if got := second.Sub(first); got != time.Second {
			t.Errorf("step = %v, want 1s", got)
		}
	})
}
