package web

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"contact-converter/usage/domain"
)

//go:embed index.html
var indexHTML []byte

// Recorder é o lado "escrita" da contagem de uso (application.Dispatcher).
type Recorder interface {
	Dispatch(ev domain.UsageEvent)
	Dropped() uint64
	Failed() uint64
}

type Options struct {
	Usage  Recorder
	Stats  domain.Snapshotter
	Logger zerolog.Logger

	// Metrics, se não nil, é servido em /metrics.
	Metrics http.Handler
}

type handlers struct {
	usage Recorder
	stats domain.Snapshotter
	log   zerolog.Logger
}

// NewHandler monta o roteador com todas as rotas e middlewares.
func NewHandler(opts Options) http.Handler {
	h := &handlers{
		usage: opts.Usage,
		stats: opts.Stats,
		log:   opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(recoverer(opts.Logger))
	r.Use(requestLogger(opts.Logger))

	r.Get("/healthz", h.health)
	r.Get("/", h.index)
	r.Post("/subscribe", h.subscribe)
	r.With(middleware.AllowContentType("application/json")).Post("/submit", h.submit)

	r.Get("/to-celcius/{fahrenheit}", h.toCelsius)
	r.Get("/to-fahrenheit/{celsius}", h.toFahrenheit)

	r.Get("/stats", h.usageStats)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	return r
}
