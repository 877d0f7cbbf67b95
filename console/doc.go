/*
Package console prints the partition tree of property maps to terminals.

Output is meant for humans debugging the caching behaviour of a map. Every
cached partition is printed on a line of its own, indented by depth, with the
number of elements it holds and a preview of the elements, cut to the line
width of the terminal:

	* (3)  [0 1 2 3 4] [4 3 99 1 0] [0 1 99 3 4 5 6 7 8]
	   length_less_than=6 (2)  [0 1 2 3 4] [4 3 99 1 0]
	      elm_isequal=[2 99] (1)  [4 3 99 1 0]

Widths are measured in fixed-width positions according to Unicode UAX #11,
so that East Asian wide characters are accounted for.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

All rights reserved.

Please refer to the LICENSE file for details.
*/
package console

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}
