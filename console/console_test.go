package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/propmap"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/uax/uax11"
)

func exampleMap(t *testing.T) *propmap.Map[[]int] {
	t.Helper()
	m, err := propmap.New(
		propmap.Typed("length_less_than", func(e []int, v int) bool { return len(e) < v }),
		propmap.Typed("elm_isequal", func(e []int, v [2]int) bool {
			return len(e) > v[0] && e[v[0]] == v[1]
		}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.InsertAll([][]int{{0, 1, 2, 3, 4}, {4, 3, 99, 1, 0}, {0, 1, 99, 3, 4, 5, 6, 7, 8}})
	if _, err := m.Query(propmap.Constraints{"length_less_than": 6, "elm_isequal": [2]int{2, 99}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m
}

func TestFprint(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelInfo)
	//
	m := exampleMap(t)
	var bf bytes.Buffer
	config := &Config{LineWidth: 80, Context: uax11.LatinContext}
	if err := Fprint(&bf, m, config); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Logf("\n%s", bf.String())
	expected := []string{
		"* (3)  [0 1 2 3 4] [4 3 99 1 0] [0 1 99 3 4 5 6 7 8]",
		"   length_less_than=6 (2)  [0 1 2 3 4] [4 3 99 1 0]",
		"      elm_isequal=[2 99] (1)  [4 3 99 1 0]",
	}
	lines := strings.Split(strings.TrimSuffix(bf.String(), "\n"), "\n")
	if len(lines) != len(expected) {
		t.Fatalf("expected %d lines, got %d", len(expected), len(lines))
	}
	for i := range expected {
		if lines[i] != expected[i] {
			t.Errorf("line %d: expected %q, got %q", i, expected[i], lines[i])
		}
	}
}

func TestFprintTruncates(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	m := exampleMap(t)
	var bf bytes.Buffer
	if err := Fprint(&bf, m, &Config{LineWidth: 20}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Logf("\n%s", bf.String())
	first, _, _ := strings.Cut(bf.String(), "\n")
	if first != "* (3)  [0 1 2 3 4] …" {
		t.Errorf("unexpected first line %q", first)
	}
}

func TestTruncateWideCharacters(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	config := &Config{Context: uax11.LatinContext}
	if s := truncate("abc", 3, config); s != "abc" {
		t.Errorf("expected no truncation, got %q", s)
	}
	if s := truncate("abcdef", 4, config); s != "abc…" {
		t.Errorf("expected 'abc…', got %q", s)
	}
}

func TestFprintEmptyMap(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	m, err := propmap.New[int]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var bf bytes.Buffer
	if err := Fprint(&bf, m, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bf.String() != "* (0)\n" {
		t.Errorf("expected a single root line, got %q", bf.String())
	}
}

func TestWidthOfEmptyAndInvalidText(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	config := &Config{Context: uax11.LatinContext}
	if w := width("", config); w != 0 {
		t.Errorf("expected width 0 for empty string, got %d", w)
	}
	if w, r := width("a\xffb", config), width("a\uFFFDb", config); w != r {
		t.Errorf("expected invalid byte to measure as replacement character, %d != %d", w, r)
	}
	if s := truncate("ab\xffcdef", 4, config); !strings.HasSuffix(s, "…") {
		t.Errorf("expected truncation of invalid text, got %q", s)
	}
}
