package infra

import (
	"testing"
)

func TestChanPool_RejectsWhenFullWithoutBlocking(t *testing.T) {
	p := NewChanPool(2)

	r1, ok := p.TryAcquire()
	if !ok {
		t.Fatalf("expected first acquire ok")
	}
	r2, ok := p.TryAcquire()
	if !ok {
		t.Fatalf("expected second acquire ok")
	}
	if _, ok := p.TryAcquire(); ok {
		t.Fatalf("expected third acquire to fail (max=2)")
	}
	if got := p.InFlight(); got != 2 {
		t.Fatalf("expected 2 in flight, got %d", got)
	}

	r1()
	if _, ok := p.TryAcquire(); !ok {
		t.Fatalf("expected acquire ok after release")
	}
	r2()
}

func TestChanPool_ReleaseIsIdempotent(t *testing.T) {
	p := NewChanPool(1)

	release, ok := p.TryAcquire()
	if !ok {
		t.Fatalf("expected acquire ok")
	}
	release()
	// segunda chamada não pode liberar uma vaga de outro dono (nem travar)
	release()

	if got := p.InFlight(); got != 0 {
		t.Fatalf("expected 0 in flight, got %d", got)
	}
}

func TestChanPool_NonPositiveMaxIsUnbounded(t *testing.T) {
	p := NewChanPool(0)
	for i := 0; i < 10000; i++ {
		if _, ok := p.TryAcquire(); !ok {
			t.Fatalf("expected unbounded pool to always acquire (i=%d)", i)
		}
	}
}
