package infra

import (
	"sync"

	"contact-converter/usage/domain"
)

type chanPool struct {
	sem chan struct{}
}

// NewChanPool cria um pool simples baseado em channel com capacidade `max`.
// Com max <= 0 o pool não tem limite.
func NewChanPool(max int) domain.SlotPool {
	if max <= 0 {
		return unboundedPool{}
	}
	return &chanPool{sem: make(chan struct{}, max)}
}

func (p *chanPool) TryAcquire() (func(), bool) {
	select {
	case p.sem <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-p.sem }) }, true
	default:
		return nil, false
	}
}

func (p *chanPool) InFlight() int { return len(p.sem) }

type unboundedPool struct{}

func (unboundedPool) TryAcquire() (func(), bool) { return func() {}, true }
func (unboundedPool) InFlight() int { return 0 }
