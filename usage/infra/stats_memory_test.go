package infra

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"contact-converter/usage/domain"
)

func TestMemoryStatsStore_StartsAtZero(t *testing.T) {
	s := NewMemoryStatsStore()

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, domain.Counters{}, snap)
}

func TestMemoryStatsStore_RecordIncrementsMatchingCounter(t *testing.T) {
	s := NewMemoryStatsStore()
	ctx := context.Background()

	require.NoError(t, s.RecordToCelsius(ctx))
	require.NoError(t, s.RecordToCelsius(ctx))
	require.NoError(t, s.RecordToFahrenheit(ctx))

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), snap.ToCelsius)
	assert.Equal(t, uint64(1), snap.ToFahrenheit)
}

func TestMemoryStatsStore_RejectsUnknownOperation(t *testing.T) {
	s := NewMemoryStatsStore()

	err := s.Record(context.Background(), domain.Operation("bogus"))
	require.ErrorIs(t, err, domain.ErrUnknownOperation)
	assert.False(t, s.Poisoned())
}

func TestMemoryStatsStore_UpdateErrorDiscardsPartialMutation(t *testing.T) {
	s := NewMemoryStatsStore()

	err := s.Update(func(c *domain.Counters) error {
		c.IncrementToCelsius()
		return c.Apply(domain.Operation("to_kelvin"))
	})
	require.ErrorIs(t, err, domain.ErrUnknownOperation)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, domain.Counters{}, snap)
	assert.False(t, s.Poisoned())
}

func TestMemoryStatsStore_ConcurrentRecordsAreNotLost(t *testing.T) {
	const (
		callers   = 50
		perCaller = 20 // 1000 no total
	)
	s := NewMemoryStatsStore()

	var g errgroup.Group
	for i := 0; i < callers; i++ {
		op := domain.OpToCelsius
		if i%2 == 1 {
			op = domain.OpToFahrenheit
		}
		g.Go(func() error {
			for j := 0; j < perCaller; j++ {
				if err := s.Record(context.Background(), op); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(callers*perCaller), snap.Total())
	assert.Equal(t, uint64(callers/2*perCaller), snap.ToCelsius)
	assert.Equal(t, uint64(callers/2*perCaller), snap.ToFahrenheit)
}

func TestMemoryStatsStore_PanicPoisonsStore(t *testing.T) {
	s := NewMemoryStatsStore()
	ctx := context.Background()
	require.NoError(t, s.RecordToCelsius(ctx))

	err := s.Update(func(c *domain.Counters) error {
		c.IncrementToCelsius()
		panic("boom")
	})
	require.ErrorIs(t, err, domain.ErrLockFailure)
	assert.True(t, s.Poisoned())

	// o lock foi liberado: as próximas chamadas retornam erro em vez de travar
	err = s.RecordToFahrenheit(ctx)
	require.True(t, errors.Is(err, domain.ErrLockFailure), "got %v", err)

	_, err = s.Snapshot()
	require.ErrorIs(t, err, domain.ErrLockFailure)
}

func TestMemoryStatsStore_PanicKeepsLastKnownGoodValues(t *testing.T) {
	s := NewMemoryStatsStore()
	require.NoError(t, s.RecordToCelsius(context.Background()))

	_ = s.Update(func(c *domain.Counters) error {
		c.ToCelsius = 999
		panic("boom")
	})

	// acesso direto: Snapshot recusa depois do envenenamento
	s.mu.Lock()
	got := s.counters
	s.mu.Unlock()
	assert.Equal(t, uint64(1), got.ToCelsius)
}
