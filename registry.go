package propmap

import "fmt"

// Test is a predicate function. It reports whether element has the property
// described by value. Tests must be pure; they are called any number of times,
// for every element, with every value ever queried for the predicate.
type Test[E any] func(element E, value any) (bool, error)

// Predicate is a named Test.
//
// Accepts, if set, vets query values before a query touches the partition
// tree. A value it rejects fails the query with ErrInvalidValue, and no
// partition is created for it.
type Predicate[E any] struct {
	Name    string
	Test    Test[E]
	Accepts func(value any) error
}

// P creates a predicate from a test which cannot fail.
func P[E any](name string, fn func(element E, value any) bool) Predicate[E] {
	var test Test[E]
	if fn != nil {
		test = func(element E, value any) (bool, error) {
			return fn(element, value), nil
		}
	}
	return Predicate[E]{Name: name, Test: test}
}

// Typed creates a predicate accepting query values of type V only. Querying
// it with a value of any other type fails with ErrInvalidValue. The check
// happens when the query is made, so a mistyped query never leaves a
// partition behind which later inserts would fail on.
func Typed[E, V any](name string, fn func(element E, value V) bool) Predicate[E] {
	var test Test[E]
	if fn != nil {
		test = func(element E, value any) (bool, error) {
			v, ok := value.(V)
			if !ok {
				return false, fmt.Errorf("%w: %w", ErrInvalidValue, wrongType[V](value))
			}
			return fn(element, v), nil
		}
	}
	accepts := func(value any) error {
		if _, ok := value.(V); !ok {
			return wrongType[V](value)
		}
		return nil
	}
	return Predicate[E]{Name: name, Test: test, Accepts: accepts}
}

func wrongType[V any](value any) error {
	var zero V
	return fmt.Errorf("value %v is of type %T, expected %T", value, value, zero)
}

// predSet is a set of predicate positions.
type predSet map[int]struct{}

func (s predSet) contains(pos int) bool {
	_, ok := s[pos]
	return ok
}

// registry holds the predicates in declaration order, together with the
// successor set of every predicate.
type registry[E any] struct {
	names      []string
	tests      []Test[E]
	accepts    []func(any) error // nil entries accept every value
	pos        map[string]int
	successors []predSet // successors[i] = predicates declared after i
}

func newRegistry[E any](preds []Predicate[E]) registry[E] {
	reg := registry[E]{
		names:      make([]string, len(preds)),
		tests:      make([]Test[E], len(preds)),
		accepts:    make([]func(any) error, len(preds)),
		pos:        make(map[string]int, len(preds)),
		successors: make([]predSet, len(preds)),
	}
	for i, p := range preds {
		reg.names[i] = p.Name
		reg.tests[i] = p.Test
		reg.accepts[i] = p.Accepts
		reg.pos[p.Name] = i
	}
	seen := make([]int, 0, len(preds))
	for i := len(preds) - 1; i >= 0; i-- {
		succ := make(predSet, len(seen))
		for _, j := range seen {
			succ[j] = struct{}{}
		}
		reg.successors[i] = succ
		seen = append(seen, i)
	}
	return reg
}

func (reg registry[E]) size() int {
	return len(reg.names)
}

func (reg registry[E]) lookup(name string) (int, bool) {
	i, ok := reg.pos[name]
	return i, ok
}

// mayBranch reports whether a partition reached through predicate via may have
// an edge for predicate pos. via == rootVia stands for the root partition.
func (reg registry[E]) mayBranch(via, pos int) bool {
	if via == rootVia {
		return pos >= 0 && pos < reg.size()
	}
	return reg.successors[via].contains(pos)
}

// successorNames returns the names of the predicates declared after the
// predicate at position pos, in declaration order.
func (reg registry[E]) successorNames(pos int) []string {
	names := make([]string, 0, len(reg.successors[pos]))
	for j := pos + 1; j < reg.size(); j++ {
		if reg.successors[pos].contains(j) {
			names = append(names, reg.names[j])
		}
	}
	return names
}

// vet checks a query value for predicate pos.
func (reg registry[E]) vet(pos int, value any) error {
	if reg.accepts[pos] == nil {
		return nil
	}
	if err := reg.accepts[pos](value); err != nil {
		return predErrf(ErrInvalidValue, reg.names[pos], err, "")
	}
	return nil
}

// evaluate calls the test of predicate pos, converting errors and panics to
// *Error values naming the predicate.
func (reg registry[E]) evaluate(pos int, element E, value any) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, reg.failure(pos, recoveredError(r))
		}
	}()
	ok, err = reg.tests[pos](element, value)
	if err != nil {
		return false, reg.failure(pos, err)
	}
	return ok, nil
}

func (reg registry[E]) failure(pos int, cause error) error {
	T().Errorf("predicate %s failed: %v", reg.names[pos], cause)
	return predErrf(ErrPredicateFailed, reg.names[pos], cause, predicateNote)
}
