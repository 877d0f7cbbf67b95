package propmap

import (
	"errors"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func lengthLessThan() Predicate[[]int] {
	return Typed("length_less_than", func(e []int, v int) bool { return len(e) < v })
}

func elmIsEqual() Predicate[[]int] {
	return Typed("elm_isequal", func(e []int, v [2]int) bool {
		return len(e) > v[0] && e[v[0]] == v[1]
	})
}

func exampleMap(t *testing.T) (*Map[[]int], [][]int) {
	t.Helper()
	m, err := New(lengthLessThan(), elmIsEqual())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elements := [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 99, 1, 0},
		{0, 1, 99, 3, 4, 5, 6, 7, 8},
	}
	if err := m.InsertAll(elements); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m, elements
}

func TestQueryExample(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	m, el := exampleMap(t)
	tests := []struct {
		c        Constraints
		expected [][]int
	}{
		{Constraints{"length_less_than": 3}, [][]int{}},
		{Constraints{"length_less_than": 6}, [][]int{el[0], el[1]}},
		{Constraints{"elm_isequal": [2]int{2, 99}}, [][]int{el[1], el[2]}},
		{Constraints{"length_less_than": 6, "elm_isequal": [2]int{2, 99}}, [][]int{el[1]}},
	}
	for i, test := range tests {
		result, err := m.Query(test.c)
		if err != nil {
			t.Fatalf("[%d] unexpected error: %v", i, err)
		}
		if !reflect.DeepEqual(result, test.expected) {
			t.Errorf("[%d] query %v = %v, expected %v", i, test.c, result, test.expected)
		}
	}
	if err := m.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestQueryWithoutConstraintsKeepsDuplicates(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	m, err := New[string]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	input := []string{"b", "a", "b", "c", "a"}
	for i, s := range input {
		id, err := m.Insert(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != i {
			t.Errorf("expected id %d for %q, got %d", i, s, id)
		}
	}
	all, err := m.Query(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(all, input) {
		t.Errorf("expected %v, got %v", input, all)
	}
	if m.Len() != len(input) {
		t.Errorf("expected Len() = %d, got %d", len(input), m.Len())
	}
}

func TestSinglePredicateFilters(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	divisible := Typed("divisible_by", func(e int, v int) bool { return e%v == 0 })
	m, err := New(divisible)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for e := 1; e <= 30; e++ {
		m.Insert(e % 13)
	}
	for _, v := range []int{1, 2, 3, 7} {
		result, err := m.Query(Constraints{"divisible_by": v})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var expected []int
		for _, e := range m.All() {
			if e%v == 0 {
				expected = append(expected, e)
			}
		}
		if !reflect.DeepEqual(result, expected) {
			t.Errorf("divisible_by=%d: expected %v, got %v", v, expected, result)
		}
	}
}

func TestQueryIsCommutative(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	m, _ := exampleMap(t)
	c1 := Constraints{"elm_isequal": [2]int{0, 0}}
	c1["length_less_than"] = 9
	r1, err := m.Query(c1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := m.Stats().Partitions
	c2 := Constraints{"length_less_than": 9}
	c2["elm_isequal"] = [2]int{0, 0}
	r2, err := m.Query(c2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(r1, r2) {
		t.Errorf("expected equal results, got %v and %v", r1, r2)
	}
	if after := m.Stats().Partitions; after != before {
		t.Errorf("expected permuted query to be served from cache, partitions %d -> %d", before, after)
	}
	canon, err := m.Canonical(c2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(canon) != 2 || canon[0].Predicate != "length_less_than" || canon[1].Predicate != "elm_isequal" {
		t.Errorf("constraints not in declaration order: %v", canon)
	}
}

func TestQueryFreshness(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	m, el := exampleMap(t)
	c := Constraints{"elm_isequal": [2]int{2, 99}}
	first, err := m.Query(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e4 := []int{7, 7, 99}
	if _, err := m.Insert(e4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Insert([]int{1, 2, 3}) // does not match
	second, err := m.Query(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, [][]int{el[1], el[2]}) {
		t.Errorf("first result has been modified: %v", first)
	}
	if !reflect.DeepEqual(second, [][]int{el[1], el[2], e4}) {
		t.Errorf("expected new element at the end of second result, got %v", second)
	}
	if err := m.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestUnknownPredicate(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	m, _ := exampleMap(t)
	_, err := m.Query(Constraints{"length_less_than": 3, "colour": "red"})
	if !errors.Is(err, ErrUnknownPredicate) {
		t.Fatalf("expected ErrUnknownPredicate, got %v", err)
	}
	for _, name := range []string{"colour", "length_less_than", "elm_isequal"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("expected error message to contain %q: %s", name, err.Error())
		}
	}
	if m.Stats().Partitions != 1 {
		t.Errorf("expected failed query not to touch the tree")
	}
}

func TestInvalidValue(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	m, _ := exampleMap(t)
	_, err := m.Query(Constraints{"length_less_than": []int{3}})
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue for slice value, got %v", err)
	}
	_, err = m.Query(Constraints{"length_less_than": "three"})
	if !errors.Is(err, ErrInvalidValue) || errors.Is(err, ErrPredicateFailed) {
		t.Errorf("expected typed predicate to reject value up front, got %v", err)
	}
	var perr *Error
	if !errors.As(err, &perr) || perr.Predicate != "length_less_than" {
		t.Errorf("expected *Error naming the predicate, got %#v", err)
	}
	if m.Stats().Partitions != 1 {
		t.Errorf("expected no partition to be created by failing queries")
	}
}

func TestMistypedQueryOnEmptyMapKeepsInsertsWorking(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	m, err := New(lengthLessThan(), elmIsEqual())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.Query(Constraints{"elm_isequal": 99}); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if _, err := m.Insert([]int{1, 2, 3}); err != nil {
		t.Errorf("expected insert to succeed after rejected query, got %v", err)
	}
	if err := m.Check(); err != nil {
		t.Fatal(err)
	}
}

var errBoom = errors.New("boom")

func fragileMap(t *testing.T) *Map[int] {
	t.Helper()
	fragile := Predicate[int]{
		Name: "fragile",
		Test: func(e int, v any) (bool, error) {
			if e < 0 {
				return false, errBoom
			}
			return e > v.(int), nil
		},
	}
	m, err := New(fragile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m
}

func TestPredicateErrorOnQuery(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	m := fragileMap(t)
	m.InsertAll([]int{1, -1, 2})
	_, err := m.Query(Constraints{"fragile": 0})
	if !errors.Is(err, ErrPredicateFailed) {
		t.Fatalf("expected ErrPredicateFailed, got %v", err)
	}
	if !errors.Is(err, errBoom) {
		t.Errorf("expected underlying cause to be preserved, got %v", err)
	}
	var perr *Error
	if !errors.As(err, &perr) || perr.Predicate != "fragile" {
		t.Fatalf("expected *Error for predicate 'fragile', got %#v", err)
	}
	if !strings.Contains(err.Error(), "fragile") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestPredicateErrorOnInsert(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	m := fragileMap(t)
	m.InsertAll([]int{1, 2, 3})
	if n, err := m.Count(Constraints{"fragile": 1}); err != nil || n != 2 {
		t.Fatalf("expected 2 elements > 1, got %d (%v)", n, err)
	}
	id, err := m.Insert(-5)
	if !errors.Is(err, errBoom) || !errors.Is(err, ErrPredicateFailed) {
		t.Fatalf("expected wrapped boom error, got %v", err)
	}
	if id != 3 || m.Len() != 4 {
		t.Errorf("expected failed element to stay inserted with id 3, got id=%d len=%d", id, m.Len())
	}
	if e, ok := m.At(id); !ok || e != -5 {
		t.Errorf("expected At(%d) = -5, got %d", id, e)
	}
}

func TestPanickingPredicate(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	nth := Typed("nth_is", func(e []int, v [2]int) bool { return e[v[0]] == v[1] })
	m, err := New(nth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.InsertAll([][]int{{1, 2, 3}, {1}})
	_, err = m.Query(Constraints{"nth_is": [2]int{2, 3}})
	if !errors.Is(err, ErrPredicateFailed) {
		t.Fatalf("expected ErrPredicateFailed, got %v", err)
	}
	var rterr runtime.Error
	if !errors.As(err, &rterr) {
		t.Errorf("expected runtime error as cause, got %v", err)
	}
}

func TestNewRejectsInvalidPredicates(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	always := P("always", func(int, any) bool { return true })
	_, err := New(always, always)
	if !errors.Is(err, ErrDuplicatePredicate) {
		t.Errorf("expected ErrDuplicatePredicate, got %v", err)
	}
	_, err = New(P[int]("", func(int, any) bool { return true }))
	if !errors.Is(err, ErrIllegalArguments) {
		t.Errorf("expected ErrIllegalArguments for empty name, got %v", err)
	}
	_, err = New(P[int]("nil", nil))
	if !errors.Is(err, ErrIllegalArguments) {
		t.Errorf("expected ErrIllegalArguments for nil test, got %v", err)
	}
}

type countingObserver struct {
	inserts, hits, misses, materialized, failed int
}

func (o *countingObserver) Inserted(int, int)             { o.inserts++ }
func (o *countingObserver) Materialized(string, int, int) { o.materialized++ }
func (o *countingObserver) Failed(string, error)          { o.failed++ }

func (o *countingObserver) Queried(hits, misses int) {
	o.hits += hits
	o.misses += misses
}

func TestObserver(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	obs := &countingObserver{}
	m, err := NewWithConfig(Config[[]int]{
		Predicates: []Predicate[[]int]{lengthLessThan(), elmIsEqual()},
		Observer:   obs,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Insert([]int{1, 2})
	m.Query(Constraints{"length_less_than": 3, "elm_isequal": [2]int{0, 1}})
	m.Query(Constraints{"length_less_than": 3})
	if obs.inserts != 1 || obs.misses != 2 || obs.hits != 1 || obs.materialized != 2 {
		t.Errorf("unexpected observer counts: %+v", *obs)
	}
}
