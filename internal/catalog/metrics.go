package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the catalog collectors. A nil *Metrics records nothing.
type Metrics struct {
	fetches   *prometheus.CounterVec
	refreshes *prometheus.CounterVec
	items     *prometheus.GaugeVec
}

// NewMetrics registers the catalog collectors with reg. A nil reg builds
// unregistered collectors, which is what tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "fetch_total",
			Help:      "Catalog fetches by result (fresh, cached, stale, failed).",
		}, []string{"result"}),
		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "refresh_total",
			Help:      "Snapshot loads by outcome (remote, static-fallback, kept).",
		}, []string{"outcome"}),
		items: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "catalog",
			Name:      "snapshot_items",
			Help:      "Items in the published snapshot, labelled by source.",
		}, []string{"source"}),
	}
}

func (m *Metrics) observeFetch(result string) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(result).Inc()
}

func (m *Metrics) observeRefresh(outcome string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeSnapshot(s *Snapshot) {
	if m == nil || s == nil {
		return
	}
	for _, src := range []Source{SourceRemote, SourceStaticFallback} {
		n := 0.0
		if src == s.Source {
			n = float64(len(s.Items))
		}
		m.items.WithLabelValues(string(src)).Set(n)
	}
}
