package domain

// SlotPool representa um recurso com capacidade finita (ex: incrementos em voo).
//
// A semântica é: TryAcquire nunca bloqueia. Se houver vaga, retorna uma função
// de release que deve ser chamada exatamente uma vez; senão, ok=false.
type SlotPool interface {
	TryAcquire() (release func(), ok bool)
	InFlight() int
}
