package domain

import "fmt"

// Operation identifica qual conversão foi contabilizada.
type Operation string

const (
	OpToCelsius    Operation = "to_celsius"
	OpToFahrenheit Operation = "to_fahrenheit"
)

// Operations lista as operações conhecidas, em ordem estável.
var Operations = []Operation{OpToCelsius, OpToFahrenheit}

func (op Operation) Valid() bool {
	return op == OpToCelsius || op == OpToFahrenheit
}

// Counters é o registro mutável de quantas vezes cada conversão foi feita.
//
// Não é seguro para uso concorrente: toda mutação passa pelo StatsStore.
// Os campos são uint64 e dão a volta em 2^64 (aritmética sem sinal do Go);
// isso não é tratado, em volumes reais nunca acontece.
type Counters struct {
	ToCelsius    uint64 `json:"to_celsius_count"`
	ToFahrenheit uint64 `json:"to_fahrenheit_count"`
}

func (c *Counters) IncrementToCelsius() { c.ToCelsius++ }
func (c *Counters) IncrementToFahrenheit() { c.ToFahrenheit++ }

// Apply incrementa o contador correspondente a op.
func (c *Counters) Apply(op Operation) error {
	switch op {
	case OpToCelsius:
		c.IncrementToCelsius()
	case OpToFahrenheit:
		c.IncrementToFahrenheit()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOperation, string(op))
	}
	return nil
}

// Get devolve o valor do contador de op (0 para operação desconhecida).
func (c Counters) Get(op Operation) uint64 {
	switch op {
	case OpToCelsius:
		return c.ToCelsius
	case OpToFahrenheit:
		return c.ToFahrenheit
	}
	return 0
}

// Total soma todos os contadores.
func (c Counters) Total() uint64 { return c.ToCelsius + c.ToFahrenheit }
