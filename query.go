package propmap

import (
	"fmt"
	"reflect"
	"slices"
)

// Constraints maps predicate names to query values. A query selects the
// elements passing every predicate test with its value.
type Constraints map[string]any

// Constraint is a single (predicate, value) pair of a query.
type Constraint struct {
	Predicate string
	Value     any
}

type step struct {
	pred  int
	value any
}

// Canonical returns the constraints of c in declaration order of the
// predicates. Two queries with the same constraints always result in the same
// canonical list, no matter how they have been built.
func (m *Map[E]) Canonical(c Constraints) ([]Constraint, error) {
	steps, err := m.canonicalize(c)
	if err != nil {
		return nil, err
	}
	cs := make([]Constraint, len(steps))
	for i, s := range steps {
		cs[i] = Constraint{Predicate: m.reg.names[s.pred], Value: s.value}
	}
	return cs, nil
}

func (m *Map[E]) canonicalize(c Constraints) ([]step, error) {
	var unknown []string
	for name := range c {
		if _, ok := m.reg.lookup(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, fmt.Errorf("%w %q, the map has only defined the following: %v",
			ErrUnknownPredicate, unknown, m.reg.names)
	}
	steps := make([]step, 0, len(c))
	for pos, name := range m.reg.names {
		value, ok := c[name]
		if !ok {
			continue
		}
		if !usableAsKey(value) {
			return nil, predErrf(ErrInvalidValue, name, nil,
				"value of type %T cannot be cached", value)
		}
		if err := m.reg.vet(pos, value); err != nil {
			return nil, err
		}
		steps = append(steps, step{pred: pos, value: value})
	}
	return steps, nil
}

// usableAsKey reports whether a value may be used as a map key without
// panicking.
func usableAsKey(value any) bool {
	if value == nil {
		return true
	}
	return reflect.ValueOf(value).Comparable()
}

// locate walks the partition tree along the canonical constraints of c,
// materializing missing partitions.
func (m *Map[E]) locate(c Constraints) (*partition, error) {
	steps, err := m.canonicalize(c)
	if err != nil {
		return nil, err
	}
	n, hits, misses := 0, 0, 0
	for _, s := range steps {
		if child, ok := m.tree.child(n, s.pred, s.value); ok {
			n = child
			hits++
			continue
		}
		if n, err = m.materialize(n, s.pred, s.value); err != nil {
			return nil, err
		}
		misses++
	}
	m.observer.Queried(hits, misses)
	return m.tree.node(n), nil
}

// Query returns all elements passing every constraint of c, in insertion
// order. Query without constraints returns all elements.
//
// Query fails with ErrUnknownPredicate if c names a predicate the map has
// not been created with, and with ErrPredicateFailed if a predicate fails
// while a new partition is created.
//
// The returned slice is owned by the caller; later inserts do not change it.
func (m *Map[E]) Query(c Constraints) ([]E, error) {
	p, err := m.locate(c)
	if err != nil {
		return nil, err
	}
	result := make([]E, len(p.ids))
	for i, id := range p.ids {
		result[i] = m.elements[id]
	}
	return result, nil
}

// QueryIDs is like Query, but returns element identifiers.
func (m *Map[E]) QueryIDs(c Constraints) ([]int, error) {
	p, err := m.locate(c)
	if err != nil {
		return nil, err
	}
	return slices.Clone(p.ids), nil
}

// Count returns the number of elements passing every constraint of c.
func (m *Map[E]) Count(c Constraints) (int, error) {
	p, err := m.locate(c)
	if err != nil {
		return 0, err
	}
	return len(p.ids), nil
}
