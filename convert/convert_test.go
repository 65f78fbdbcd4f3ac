package convert

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedPoints(t *testing.T) {
	assert.Equal(t, 0.0, FahrenheitToCelsius(32))
	assert.Equal(t, 100.0, FahrenheitToCelsius(212))
	assert.Equal(t, 32.0, CelsiusToFahrenheit(0))
	assert.Equal(t, 212.0, CelsiusToFahrenheit(100))
	// -40 é o ponto em que as duas escalas coincidem
	assert.Equal(t, -40.0, FahrenheitToCelsius(-40))
	assert.Equal(t, -40.0, CelsiusToFahrenheit(-40))
}

func TestRoundTrip(t *testing.T) {
	values := []float64{-459.67, -273.15, -1, 0, 0.5, 1, 36.6, 98.6, 1e6, -1e6, 123456.789}
	for _, v := range values {
		assert.InDelta(t, v, FahrenheitToCelsius(CelsiusToFahrenheit(v)), 1e-9*math.Max(1, math.Abs(v)), "c->f->c %v", v)
		assert.InDelta(t, v, CelsiusToFahrenheit(FahrenheitToCelsius(v)), 1e-9*math.Max(1, math.Abs(v)), "f->c->f %v", v)
	}
}

func TestNonFinitePropagates(t *testing.T) {
	assert.True(t, math.IsNaN(FahrenheitToCelsius(math.NaN())))
	assert.True(t, math.IsNaN(CelsiusToFahrenheit(math.NaN())))
	assert.True(t, math.IsInf(FahrenheitToCelsius(math.Inf(1)), 1))
	assert.True(t, math.IsInf(CelsiusToFahrenheit(math.Inf(-1)), -1))
}
