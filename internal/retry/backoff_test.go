package retry

import (
	"testing"
	"time"
)

func TestImmediateIsZero(t *testing.T) {
	if d := Delay(Immediate, 1, 100*time.Millisecond, 0); d != 0 {
		t.Errorf("expected 0 delay, got %v", d)
	}
}

func TestFixedIsConstant(t *testing.T) {
	base := 250 * time.Millisecond
	for attempt := 1; attempt <= 4; attempt++ {
		if d := Delay(Fixed, attempt, base, 0); d != base {
			t.Errorf("attempt %d: expected constant %v, got %v", attempt, base, d)
		}
	}
}

func TestExponentialStrictlyIncreasing(t *testing.T) {
	base := 50 * time.Millisecond
	var prev time.Duration
	for attempt := 1; attempt <= 4; attempt++ {
		d := Delay(Exponential, attempt, base, 0)
		if attempt > 1 && d <= prev {
			t.Errorf("attempt %d: expected strictly increasing delay, got %v after %v", attempt, d, prev)
		}
		prev = d
	}
}

func TestExponentialDoublesEachAttempt(t *testing.T) {
	base := 100 * time.Millisecond
	d1 := Delay(Exponential, 1, base, 0)
	d2 := Delay(Exponential, 2, base, 0)
	d3 := Delay(Exponential, 3, base, 0)

	if d1 != base {
		t.Errorf("attempt 1: expected %v, got %v", base, d1)
	}
	if d2 != 2*base {
		t.Errorf("attempt 2: expected %v, got %v", 2*base, d2)
	}
	if d3 != 4*base {
		t.Errorf("attempt 3: expected %v, got %v", 4*base, d3)
	}
}

func TestExponentialRespectsMaxDelay(t *testing.T) {
	base := 100 * time.Millisecond
	max := 300 * time.Millisecond
	d := Delay(Exponential, 5, base, max)
	if d > max {
		t.Errorf("expected delay capped at %v, got %v", max, d)
	}
}

func TestDefaultBaseWhenUnset(t *testing.T) {
	d := Delay(Fixed, 1, 0, 0)
	if d != 100*time.Millisecond {
		t.Errorf("expected default base 100ms, got %v", d)
	}
}
