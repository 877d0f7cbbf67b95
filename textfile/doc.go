/*
Package textfile provides API helpers to load the lines of UTF-8 text files
into property maps.

Every line of a file becomes an element of type Line. Predicates() offers
a set of line predicates based on Unicode text segmentation (UAX #14) and
display width (UAX #11), so that maps of lines can be queried for words,
prefixes or lines fitting a given width.

Loading uses a bounded asynchronous prefetch pipeline internally, while
inserting into the map on the caller's goroutine. Clients may subscribe to
progress messages of a Loader.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the LICENSE file for details.
*/
package textfile

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to the global core-tracer.
func tracer() tracing.Trace {
	return gtrace.CoreTracer
}
