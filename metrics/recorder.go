package metrics

import (
	"fmt"

	"github.com/npillmayer/propmap"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts the work of property maps. It implements propmap.Observer.
// Counters are safe for concurrent use, so one recorder may serve several maps.
type Recorder struct {
	registry     prometheus.Registerer
	namespace    string
	inserts      prometheus.Counter
	extended     prometheus.Counter
	queries      prometheus.Counter
	lookups      *prometheus.CounterVec
	materialized *prometheus.CounterVec
	scanned      *prometheus.CounterVec
	failures     *prometheus.CounterVec
}

var _ propmap.Observer = (*Recorder)(nil)

// NewRecorder creates a recorder and registers its counters with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewRecorder(reg prometheus.Registerer, namespace string) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{registry: reg, namespace: namespace}
	r.inserts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "propmap",
		Name:      "inserts_total",
		Help:      "Number of elements inserted.",
	})
	r.extended = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "propmap",
		Name:      "partitions_extended_total",
		Help:      "Number of partitions extended by inserts, roots included.",
	})
	r.queries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "propmap",
		Name:      "queries_total",
		Help:      "Number of successful queries.",
	})
	r.lookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "propmap",
		Name:      "partition_lookups_total",
		Help:      "Partition lookups of queries, by result (hit or miss).",
	}, []string{"result"})
	r.materialized = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "propmap",
		Name:      "partitions_materialized_total",
		Help:      "Number of partitions created, by predicate.",
	}, []string{"predicate"})
	r.scanned = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "propmap",
		Name:      "elements_scanned_total",
		Help:      "Elements tested while creating partitions, by predicate.",
	}, []string{"predicate"})
	r.failures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "propmap",
		Name:      "predicate_failures_total",
		Help:      "Number of failed predicate tests, by predicate.",
	}, []string{"predicate"})
	collectors := []prometheus.Collector{
		r.inserts, r.extended, r.queries, r.lookups, r.materialized, r.scanned, r.failures,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: cannot register property map counters: %w", err)
		}
	}
	return r, nil
}

// Inserted is part of interface propmap.Observer.
func (r *Recorder) Inserted(id int, extended int) {
	r.inserts.Inc()
	r.extended.Add(float64(extended))
}

// Queried is part of interface propmap.Observer.
func (r *Recorder) Queried(hits, misses int) {
	r.queries.Inc()
	r.lookups.WithLabelValues("hit").Add(float64(hits))
	r.lookups.WithLabelValues("miss").Add(float64(misses))
}

// Materialized is part of interface propmap.Observer.
func (r *Recorder) Materialized(predicate string, scanned, matched int) {
	r.materialized.WithLabelValues(predicate).Inc()
	r.scanned.WithLabelValues(predicate).Add(float64(scanned))
}

// Failed is part of interface propmap.Observer.
func (r *Recorder) Failed(predicate string, err error) {
	tracer().Infof("predicate %s failed: %v", predicate, err)
	r.failures.WithLabelValues(predicate).Inc()
}

// Track exports the cache size of a map as gauges, labeled with name.
// stats is called whenever metrics are collected.
func (r *Recorder) Track(name string, stats func() propmap.Stats) error {
	if stats == nil {
		return fmt.Errorf("metrics: no stats function for map %q", name)
	}
	gauges := []struct {
		name, help string
		value      func(propmap.Stats) int
	}{
		{"elements", "Number of elements in the map.",
			func(s propmap.Stats) int { return s.Elements }},
		{"partitions", "Number of cached partitions, the root included.",
			func(s propmap.Stats) int { return s.Partitions }},
		{"cached_ids", "Number of element identifiers held by all partitions.",
			func(s propmap.Stats) int { return s.CachedIDs }},
		{"max_depth", "Depth of the partition tree.",
			func(s propmap.Stats) int { return s.MaxDepth }},
	}
	for _, g := range gauges {
		value := g.value
		gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   r.namespace,
			Subsystem:   "propmap",
			Name:        g.name,
			Help:        g.help,
			ConstLabels: prometheus.Labels{"map": name},
		}, func() float64 {
			return float64(value(stats()))
		})
		if err := r.registry.Register(gauge); err != nil {
			return fmt.Errorf("metrics: cannot track map %q: %w", name, err)
		}
	}
	tracer().Debugf("tracking cache size of property map %q", name)
	return nil
}
