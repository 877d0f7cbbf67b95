/*
Package metrics exports the caching behaviour of property maps as Prometheus
metrics.

A Recorder is a propmap.Observer. Plug it into a map's configuration to count
inserts, queries, cache hits and misses, and predicate failures:

	rec, err := metrics.NewRecorder(prometheus.DefaultRegisterer, "myapp")
	m, err := propmap.NewWithConfig(propmap.Config[Item]{
	    Predicates: preds,
	    Observer:   rec,
	})
	err = rec.Track("items", m.Stats)

Track additionally exports the size of a map's cache as gauges. Gauges are
read when metrics are scraped, i.e. on a different goroutine. Clients using a
map concurrently must pass a function guarding Stats with their lock.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the LICENSE file for details.
*/
package metrics

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to the global core-tracer.
func tracer() tracing.Trace {
	return gtrace.CoreTracer
}
