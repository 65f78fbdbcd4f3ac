package infra

import (
	"context"
	"fmt"
	"sync"

	"contact-converter/usage/domain"
)

// MemoryStatsStore guarda os contadores de uso do processo.
//
// Um único mutex protege o registro; a seção crítica é só o incremento em
// memória, nunca I/O. Um panic dentro dela "envenena" o store: a partir daí
// toda operação retorna domain.ErrLockFailure em vez de dados suspeitos.
// A mutação é feita numa cópia e só é publicada se terminar, então os valores
// guardados continuam sendo os últimos válidos.
type MemoryStatsStore struct {
	mu       sync.Mutex
	counters domain.Counters
	poisoned bool
}

func NewMemoryStatsStore() *MemoryStatsStore {
	return &MemoryStatsStore{}
}

// Record implementa domain.StatsStore.
func (s *MemoryStatsStore) Record(_ context.Context, op domain.Operation) error {
	return s.Update(func(c *domain.Counters) error {
		return c.Apply(op)
	})
}

func (s *MemoryStatsStore) RecordToCelsius(ctx context.Context) error {
	return s.Record(ctx, domain.OpToCelsius)
}

func (s *MemoryStatsStore) RecordToFahrenheit(ctx context.Context) error {
	return s.Record(ctx, domain.OpToFahrenheit)
}

// Snapshot devolve uma cópia dos contadores.
func (s *MemoryStatsStore) Snapshot() (domain.Counters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.poisoned {
		return domain.Counters{}, fmt.Errorf("snapshot: %w: store poisoned by an earlier panic", domain.ErrLockFailure)
	}
	return s.counters, nil
}

// Poisoned informa se um panic anterior corrompeu o store.
func (s *MemoryStatsStore) Poisoned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.poisoned
}

// Update aplica fn aos contadores sob o lock. Se fn retornar erro nada é
// gravado; se fn der panic o store fica envenenado (ErrLockFailure).
func (s *MemoryStatsStore) Update(fn func(*domain.Counters) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.poisoned {
		return fmt.Errorf("record: %w: store poisoned by an earlier panic", domain.ErrLockFailure)
	}

	// roda antes do Unlock (defer é LIFO)
	defer func() {
		if r := recover(); r != nil {
			s.poisoned = true
			err = fmt.Errorf("record: %w: panic in critical section: %v", domain.ErrLockFailure, r)
		}
	}()

	next := s.counters
	if err := fn(&next); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	s.counters = next
	return nil
}
