// Package convert faz a conversão de temperatura entre Fahrenheit e Celsius.
//
// Funções puras, sem estado. NaN e ±Inf se propagam pela aritmética de ponto
// flutuante normal, sem tratamento especial.
package convert

func FahrenheitToCelsius(f float64) float64 {
	return (f - 32.0) * 5.0 / 9.0
}

func CelsiusToFahrenheit(c float64) float64 {
	return (c * 9.0 / 5.0) + 32.0
}
