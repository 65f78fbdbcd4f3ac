// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - MemoryStatsStore: contadores em memória atrás de um sync.Mutex
//   - ChanPool: semáforo não bloqueante para limitar incrementos em voo
//   - RedisUsageSink: exporta eventos de uso em séries por minuto (go-redis)
//   - Collector: expõe os contadores no formato Prometheus
package infra
