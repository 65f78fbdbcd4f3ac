package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"contact-converter/convert"
	"contact-converter/usage/domain"
)

func (h *handlers) toCelsius(w http.ResponseWriter, r *http.Request) {
	h.conversion(w, r, "fahrenheit", convert.FahrenheitToCelsius, domain.OpToCelsius)
}

func (h *handlers) toFahrenheit(w http.ResponseWriter, r *http.Request) {
	h.conversion(w, r, "celsius", convert.CelsiusToFahrenheit, domain.OpToFahrenheit)
}

// conversion: parse -> converte -> agenda incremento (sem esperar) -> responde.
// Entrada inválida responde 400 e não conta.
func (h *handlers) conversion(w http.ResponseWriter, r *http.Request, param string, fn func(float64) float64, op domain.Operation) {
	raw := chi.URLParam(r, param)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeText(w, http.StatusBadRequest, "invalid "+param+" value: "+strconv.Quote(raw))
		return
	}

	out := fn(v)
	h.recordUsage(r, op)
	writeFloat(w, http.StatusOK, out)
}
