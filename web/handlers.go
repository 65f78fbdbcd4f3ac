package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"contact-converter/usage/domain"
)

const thankYou = "Thank you for subscribing!"

// limite para corpos de formulário/JSON
const maxBodyBytes = 1 << 20

// Subscriber nunca é persistido; é só logado e ecoado.
type Subscriber struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "OK")
}

func (h *handlers) index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexHTML)
}

func (h *handlers) subscribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeText(w, http.StatusBadRequest, "invalid form body")
		return
	}

	sub, err := subscriberFromForm(r)
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logSubscriber(r, sub)
	writeText(w, http.StatusOK, thankYou)
}

func (h *handlers) submit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&payload); err != nil {
		writeText(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if payload.Name == nil {
		writeText(w, http.StatusBadRequest, "missing field `name`")
		return
	}
	if payload.Email == nil {
		writeText(w, http.StatusBadRequest, "missing field `email`")
		return
	}

	sub := Subscriber{Name: *payload.Name, Email: *payload.Email}
	h.logSubscriber(r, sub)
	writeJSON(w, http.StatusOK, sub)
}

func (h *handlers) logSubscriber(r *http.Request, sub Subscriber) {
	h.log.Info().
		Str("request_id", requestIDFrom(r.Context())).
		Str("name", sub.Name).
		Str("email", sub.Email).
		Msg("received subscriber")
}

func subscriberFromForm(r *http.Request) (Subscriber, error) {
	var sub Subscriber
	name, ok := r.PostForm["name"]
	if !ok || len(name) == 0 {
		return sub, errors.New("missing field `name`")
	}
	email, ok := r.PostForm["email"]
	if !ok || len(email) == 0 {
		return sub, errors.New("missing field `email`")
	}
	sub.Name, sub.Email = name[0], email[0]
	return sub, nil
}

type statsResponse struct {
	domain.Counters
	Dropped uint64 `json:"dropped"`
	Failed  uint64 `json:"failed"`
}

func (h *handlers) usageStats(w http.ResponseWriter, _ *http.Request) {
	if h.stats == nil {
		writeText(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
		return
	}
	snap, err := h.stats.Snapshot()
	if err != nil {
		h.log.Error().Err(err).Msg("usage stats unavailable")
		writeText(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	resp := statsResponse{Counters: snap}
	if h.usage != nil {
		resp.Dropped = h.usage.Dropped()
		resp.Failed = h.usage.Failed()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) recordUsage(r *http.Request, op domain.Operation) {
	if h.usage == nil {
		return
	}
	h.usage.Dispatch(domain.UsageEvent{
		Op:     op,
		Method: r.Method,
		Path:   routePattern(r),
		At:     time.Now(),
	})
}

// routePattern devolve o template da rota (ex.: /to-celcius/{fahrenheit}),
// nunca o path cru: o valor convertido não pode virar chave no sink.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	return rctx.RoutePattern()
}
