package application

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"contact-converter/usage/domain"
)

// Dispatcher concentra a regra "registrar uso sem nunca bloquear quem chama".
//
// Cada Dispatch tenta pegar uma vaga no pool sem esperar. Com vaga, o incremento
// roda numa goroutine própria; sem vaga, é descartado e contado em Dropped.
// A vaga é devolvida assim que o incremento em memória termina: a exportação
// para o sink usa um pool próprio, e a saturação dele só descarta a exportação.
// Não há ordem entre a resposta de uma requisição e a visibilidade do seu
// incremento, nem retentativa.
type Dispatcher struct {
	store    domain.StatsStore
	sink     domain.UsageSink
	pool     domain.SlotPool
	sinkPool domain.SlotPool
	log      zerolog.Logger

	sinkTimeout time.Duration

	// no máximo um aviso por segundo, para não inundar o log sob carga
	dropLog     rate.Sometimes
	failLog     rate.Sometimes
	sinkDropLog rate.Sometimes

	// mu protege closed e ordena wg.Add antes do wg.Wait do Shutdown
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	// espelha o contador do wg, legível sem esperar
	pending atomic.Int64

	dropped     atomic.Uint64
	failed      atomic.Uint64
	sinkDropped atomic.Uint64
}

type Option func(*Dispatcher)

func WithPool(p domain.SlotPool) Option {
	return func(d *Dispatcher) { d.pool = p }
}

// WithSinkPool limita quantas exportações podem estar em voo.
func WithSinkPool(p domain.SlotPool) Option {
	return func(d *Dispatcher) { d.sinkPool = p }
}

func WithSink(s domain.UsageSink) Option {
	return func(d *Dispatcher) { d.sink = s }
}

func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

func WithSinkTimeout(t time.Duration) Option {
	return func(d *Dispatcher) { d.sinkTimeout = t }
}

func NewDispatcher(store domain.StatsStore, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:       store,
		pool:        unbounded{},
		sinkPool:    unbounded{},
		log:         zerolog.Nop(),
		sinkTimeout: 2 * time.Second,
		dropLog:     rate.Sometimes{Interval: time.Second},
		failLog:     rate.Sometimes{Interval: time.Second},
		sinkDropLog: rate.Sometimes{Interval: time.Second},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch agenda o incremento de ev.Op e retorna imediatamente.
// Depois de Shutdown, o incremento é descartado.
func (d *Dispatcher) Dispatch(ev domain.UsageEvent) {
	if d.store == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		d.drop(ev, "usage dispatcher closed, dropping increment")
		return
	}
	release, ok := d.pool.TryAcquire()
	if !ok {
		d.mu.RUnlock()
		d.drop(ev, "usage dispatcher saturated, dropping increment")
		return
	}
	d.wg.Add(1)
	d.pending.Add(1)
	d.mu.RUnlock()

	go func() {
		defer d.wg.Done()
		defer d.pending.Add(-1)
		recorded := d.record(ev)
		release()
		if recorded {
			d.publish(ev)
		}
	}()
}

func (d *Dispatcher) drop(ev domain.UsageEvent, msg string) {
	n := d.dropped.Add(1)
	d.dropLog.Do(func() {
		d.log.Warn().
			Str("op", string(ev.Op)).
			Uint64("dropped_total", n).
			Int("in_flight", d.pool.InFlight()).
			Msg(msg)
	})
}

// o contexto da requisição já pode ter sido cancelado aqui
func (d *Dispatcher) record(ev domain.UsageEvent) bool {
	if err := d.store.Record(context.Background(), ev.Op); err != nil {
		n := d.failed.Add(1)
		d.failLog.Do(func() {
			d.log.Error().Err(err).
				Str("op", string(ev.Op)).
				Uint64("failed_total", n).
				Msg("usage increment dropped")
		})
		return false
	}
	return true
}

func (d *Dispatcher) publish(ev domain.UsageEvent) {
	if d.sink == nil {
		return
	}
	release, ok := d.sinkPool.TryAcquire()
	if !ok {
		n := d.sinkDropped.Add(1)
		d.sinkDropLog.Do(func() {
			d.log.Warn().
				Str("op", string(ev.Op)).
				Uint64("sink_dropped_total", n).
				Msg("usage sink saturated, skipping export")
		})
		return
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), d.sinkTimeout)
	defer cancel()
	if err := d.sink.Publish(ctx, ev); err != nil {
		d.log.Warn().Err(err).Str("op", string(ev.Op)).Msg("usage sink publish failed")
	}
}

// Wait espera os incrementos (e exportações) em voo terminarem ou o ctx encerrar.
// Não impede novos Dispatch; no shutdown use Shutdown.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		// ctx já vencido não deve mascarar um dreno que terminou
		if d.pending.Load() == 0 {
			return nil
		}
		return ctx.Err()
	}
}

// Shutdown fecha o Dispatcher para novos incrementos e espera os em voo.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return d.Wait(ctx)
}

// Dropped é o total de incrementos descartados (pool cheio ou Dispatcher fechado).
func (d *Dispatcher) Dropped() uint64 { return d.dropped.Load() }

// Failed é o total de incrementos que o store recusou (ex.: ErrLockFailure).
func (d *Dispatcher) Failed() uint64 { return d.failed.Load() }

// SinkDropped é o total de exportações puladas por saturação do sink.
// Não afeta os contadores em memória.
func (d *Dispatcher) SinkDropped() uint64 { return d.sinkDropped.Load() }

func (d *Dispatcher) InFlight() int { return d.pool.InFlight() }

type unbounded struct{}

func (unbounded) TryAcquire() (func(), bool) { return func() {}, true }
func (unbounded) InFlight() int { return 0 }
