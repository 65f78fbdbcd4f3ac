// Package domain define contratos e tipos de domínio para a contagem de uso das conversões.
//
// Este pacote não depende de net/http nem de implementações concretas.
// A intenção é permitir testes de unidade puros e desacoplar a contabilidade
// de detalhes de infraestrutura (mutex, Redis, Prometheus).
package domain
