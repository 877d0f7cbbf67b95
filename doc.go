/*
Package propmap offers an in-memory index for conjunctive predicate queries
over a growing collection of elements.

# Property Maps

A property map is created with an ordered list of named predicates. A predicate
is a function of an element and a query value, answering whether the element
has a certain property:

	m, err := propmap.New(
	    propmap.Typed("length_less_than", func(e []int, v int) bool { return len(e) < v }),
	    propmap.Typed("elm_isequal", func(e []int, v [2]int) bool {
	        return len(e) > v[0] && e[v[0]] == v[1]
	    }),
	)
	m.InsertAll([][]int{{0, 1, 2, 3, 4}, {4, 3, 99, 1, 0}, {0, 1, 99, 3, 4, 5, 6, 7, 8}})
	short, err := m.Query(propmap.Constraints{
	    "length_less_than": 6,
	    "elm_isequal":      [2]int{2, 99},
	})  // => [[4 3 99 1 0]]

Queries return elements in insertion order. Equal elements inserted twice
are returned twice, as identity is by insertion, not by value.

# Partitions

Every (predicate, value) pair ever requested is cached as a partition of the
elements. Partitions form a tree: the root holds all elements, and every edge
restricts its parent's elements to the ones passing a predicate test for a
value. A query walks down the tree, creating missing partitions by scanning
the parent partition once. Inserting an element extends every existing
partition the element qualifies for, but never creates new ones.

Constraints of a query are put into the declaration order of the predicates
before walking the tree. A partition reached through predicate p only branches
on predicates declared after p. Therefore every set of constraints maps to
exactly one path, regardless of the order a caller lists them in, and
logically equal queries share their cache.

Property maps trade memory for speed. Memory grows with the number of distinct
predicate/value combinations ever queried, and nothing is evicted.

Property maps are not safe for concurrent use. Queries modify the partition
tree as well as inserts do, so clients must serialize all access to a map.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
this list of conditions and the following disclaimer in the documentation
and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
contributors may be used to endorse or promote products derived from
this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

*/
package propmap

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
