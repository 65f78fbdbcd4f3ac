package main

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contact-converter/usage/application"
	"contact-converter/usage/domain"
	"contact-converter/usage/infra"
)

func TestShutdown_DrainsUsageAndClosesDispatcher(t *testing.T) {
	logs := &bytes.Buffer{}
	logger := zerolog.New(zerolog.SyncWriter(logs))

	store := infra.NewMemoryStatsStore()
	usage := application.NewDispatcher(store, application.WithLogger(logger))
	for i := 0; i < 10; i++ {
		usage.Dispatch(domain.UsageEvent{Op: domain.OpToFahrenheit})
	}

	// servidor nunca iniciado: Shutdown retorna na hora
	srv := &http.Server{}
	require.NoError(t, shutdown(srv, usage, store, time.Second, logger))

	snap, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), snap.ToFahrenheit)

	usage.Dispatch(domain.UsageEvent{Op: domain.OpToFahrenheit})
	assert.Equal(t, uint64(1), usage.Dropped())

	out := logs.String()
	assert.NotContains(t, out, "pending usage increments lost")
	assert.Contains(t, out, `"stats_poisoned":false`)
	assert.Contains(t, out, `"to_fahrenheit":10`)
}

func TestShutdown_ReportsPoisonedStore(t *testing.T) {
	logs := &bytes.Buffer{}
	logger := zerolog.New(zerolog.SyncWriter(logs))

	store := infra.NewMemoryStatsStore()
	_ = store.Update(func(*domain.Counters) error { panic("boom") })
	usage := application.NewDispatcher(store, application.WithLogger(logger))

	require.NoError(t, shutdown(&http.Server{}, usage, store, time.Second, logger))
	assert.Contains(t, logs.String(), `"stats_poisoned":true`)
}
