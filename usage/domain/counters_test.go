package domain

import (
	"errors"
	"math"
	"testing"
)

func TestCounters_ZeroValueStartsAtZero(t *testing.T) {
	var c Counters
	if c.ToCelsius != 0 || c.ToFahrenheit != 0 {
		t.Fatalf("expected zero counters, got %+v", c)
	}
}

func TestCounters_ApplyIncrementsOnlyMatchingField(t *testing.T) {
	var c Counters
	if err := c.Apply(OpToCelsius); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Apply(OpToCelsius); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Apply(OpToFahrenheit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ToCelsius != 2 || c.ToFahrenheit != 1 {
		t.Fatalf("expected 2/1, got %+v", c)
	}
	if c.Total() != 3 {
		t.Fatalf("expected total 3, got %d", c.Total())
	}
}

func TestCounters_ApplyUnknownOperation(t *testing.T) {
	var c Counters
	err := c.Apply(Operation("to_kelvin"))
	if !errors.Is(err, ErrUnknownOperation) {
		t.Fatalf("expected ErrUnknownOperation, got %v", err)
	}
	if c.Total() != 0 {
		t.Fatalf("expected counters untouched, got %+v", c)
	}
}

func TestCounters_WrapsAtMaxUint64(t *testing.T) {
	// comportamento de fronteira documentado: dá a volta, não satura
	c := Counters{ToCelsius: math.MaxUint64}
	c.IncrementToCelsius()
	if c.ToCelsius != 0 {
		t.Fatalf("expected wrap to 0, got %d", c.ToCelsius)
	}
}
