package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"contact-converter/usage/domain"
)

const namespace = "contact_converter_"

var (
	conversionsDesc = prometheus.NewDesc(
		namespace+"conversions_total",
		"Number of temperature conversions recorded, by direction.",
		[]string{"direction"},
		nil,
	)
	droppedDesc = prometheus.NewDesc(
		namespace+"usage_dropped_total",
		"Number of usage increments dropped because the dispatcher was saturated.",
		nil,
		nil,
	)
)

// DropCounter é quem sabe quantos incrementos foram descartados.
type DropCounter interface {
	Dropped() uint64
}

// Collector lê o snapshot dos contadores a cada scrape.
// Não guarda estado próprio.
type Collector struct {
	store   domain.Snapshotter
	dropped DropCounter
	log     zerolog.Logger
}

func NewCollector(store domain.Snapshotter, dropped DropCounter, log zerolog.Logger) *Collector {
	return &Collector{store: store, dropped: dropped, log: log}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- conversionsDesc
	ch <- droppedDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap, err := c.store.Snapshot()
	if err != nil {
		c.log.Warn().Err(err).Msg("skipping conversion metrics")
	} else {
		for _, op := range domain.Operations {
			ch <- prometheus.MustNewConstMetric(conversionsDesc, prometheus.CounterValue, float64(snap.Get(op)), string(op))
		}
	}

	if c.dropped != nil {
		ch <- prometheus.MustNewConstMetric(droppedDesc, prometheus.CounterValue, float64(c.dropped.Dropped()))
	}
}
