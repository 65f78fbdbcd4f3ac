package web

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
)

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeText(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeFloat escreve v como número JSON. NaN/±Inf não existem em JSON e
// saem como null.
func writeFloat(w http.ResponseWriter, status int, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, "null")
		return
	}
	writeJSON(w, status, v)
}
