// Package metrics holds the prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	MappingsCreated   prometheus.Counter
	RedirectsServed   prometheus.Counter
	RedirectsNotFound prometheus.Counter
}

// New registers the service counters with reg. Pass a fresh registry in
// tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MappingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "tinytrail_mappings_created_total",
			Help: "Number of short link mappings created.",
		}),
		RedirectsServed: factory.NewCounter(prometheus.CounterOpts{
			Name: "tinytrail_redirects_served_total",
			Help: "Number of redirects resolved and recorded.",
		}),
		RedirectsNotFound: factory.NewCounter(prometheus.CounterOpts{
			Name: "tinytrail_redirects_not_found_total",
			Help: "Number of redirect requests for unknown short codes.",
		}),
	}
}

func (m *Metrics) MappingCreated() { m.MappingsCreated.Inc() }

func (m *Metrics) RedirectServed() { m.RedirectsServed.Inc() }

func (m *Metrics) RedirectNotFound() { m.RedirectsNotFound.Inc() }
