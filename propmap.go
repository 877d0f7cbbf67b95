package propmap

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"iter"
)

// Map is a collection of elements with cached predicate queries.
//
// A map is created with New or NewWithConfig; the zero value is not usable.
// Elements are never removed. Every element gets an identifier when it is
// inserted, which is its position in insertion order.
//
//	Operation          |  Cost
//	-------------------+--------------------------------------------------
//	Insert             |  O(partitions the element qualifies for)
//	Query, cached      |  O(constraints + result size)
//	Query, uncached    |  O(size of the parent partition) per missing edge
//
// Maps are not safe for concurrent use, not even for queries only.
type Map[E any] struct {
	reg      registry[E]
	elements []E
	tree     tree
	observer Observer
}

// New creates a property map for a list of predicates. The order of the
// predicates is the canonical order for query constraints.
func New[E any](preds ...Predicate[E]) (*Map[E], error) {
	return NewWithConfig(Config[E]{Predicates: preds})
}

// NewWithConfig creates a property map from a validated configuration.
func NewWithConfig[E any](cfg Config[E]) (*Map[E], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()
	m := &Map[E]{
		reg:      newRegistry(cfg.Predicates),
		tree:     newTree(),
		observer: cfg.Observer,
	}
	T().Debugf("created property map with predicates %v", m.reg.names)
	return m, nil
}

// Predicates returns the predicate names in declaration order.
func (m *Map[E]) Predicates() []string {
	names := make([]string, len(m.reg.names))
	copy(names, m.reg.names)
	return names
}

// Insert adds an element to the map and returns its identifier.
//
// The element is added to every cached partition it qualifies for. If a
// predicate fails during this, Insert returns an error wrapping
// ErrPredicateFailed. The element stays inserted nevertheless, and partitions
// extended before the failure keep it.
func (m *Map[E]) Insert(element E) (int, error) {
	id := len(m.elements)
	m.elements = append(m.elements, element)
	extended, err := m.propagate(id)
	if err != nil {
		return id, err
	}
	m.observer.Inserted(id, extended)
	return id, nil
}

// InsertAll inserts elements in order. It stops at the first error; elements
// inserted before stay in the map.
func (m *Map[E]) InsertAll(elements []E) error {
	for _, e := range elements {
		if _, err := m.Insert(e); err != nil {
			return err
		}
	}
	return nil
}

// InsertSeq inserts all elements of a sequence, in order. It stops at the
// first error.
func (m *Map[E]) InsertSeq(seq iter.Seq[E]) error {
	for e := range seq {
		if _, err := m.Insert(e); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of elements inserted.
func (m *Map[E]) Len() int {
	return len(m.elements)
}

// At returns the element with identifier id.
func (m *Map[E]) At(id int) (E, bool) {
	if id < 0 || id >= len(m.elements) {
		var zero E
		return zero, false
	}
	return m.elements[id], true
}

// All iterates over identifiers and elements in insertion order.
func (m *Map[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		for id, e := range m.elements {
			if !yield(id, e) {
				return
			}
		}
	}
}
