package domain

import (
	"context"
	"time"
)

// StatsStore é a estratégia de armazenamento dos contadores de uso.
//
// O chamador no caminho da requisição deve tratar erro como best-effort
// (logar e descartar), nunca derrubar a resposta.
type StatsStore interface {
	Record(ctx context.Context, op Operation) error
}

// Snapshotter expõe uma cópia consistente dos contadores.
type Snapshotter interface {
	Snapshot() (Counters, error)
}

// UsageEvent é o que é exportado para fora do processo depois de um incremento.
//
// Method/Path são strings genéricas, sem amarrar a net/http. Path é o
// template da rota, não o path da requisição, para manter a cardinalidade
// limitada no sink.
type UsageEvent struct {
	Op     Operation
	Method string
	Path   string
	At     time.Time
}

// UsageSink recebe eventos de uso já contabilizados em memória
// (ex.: séries por minuto no Redis). É exportação, não persistência:
// os contadores nunca são relidos de um sink.
type UsageSink interface {
	Publish(ctx context.Context, ev UsageEvent) error
}
