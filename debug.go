package propmap

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// PartitionInfo describes a materialized partition of a map, for debugging
// and rendering. IDs must not be modified.
type PartitionInfo struct {
	Node      int    // arena index, 0 for the root
	Parent    int    // arena index of the parent, -1 for the root
	Predicate string // predicate of the incoming edge, empty for the root
	Value     any    // value of the incoming edge
	IDs       []int  // identifiers of the elements in the partition
}

// IsRoot reports whether p describes the root partition.
func (p PartitionInfo) IsRoot() bool {
	return p.Parent < 0
}

// Label returns "predicate=value", or "*" for the root.
func (p PartitionInfo) Label() string {
	if p.IsRoot() {
		return "*"
	}
	return fmt.Sprintf("%s=%v", p.Predicate, p.Value)
}

// Each walks the materialized partitions in pre-order, children in order of
// materialization. Iteration stops at the first error returned by fn, which
// is then returned.
func (m *Map[E]) Each(fn func(part PartitionInfo, depth int) error) error {
	if fn == nil {
		return ErrIllegalArguments
	}
	return m.each(0, fn)
}

func (m *Map[E]) each(n int, fn func(PartitionInfo, int) error) error {
	p := m.tree.node(n)
	info := PartitionInfo{Node: n, Parent: p.parent, Value: p.value, IDs: p.ids}
	if p.via != rootVia {
		info.Predicate = m.reg.names[p.via]
	}
	if err := fn(info, p.depth); err != nil {
		return err
	}
	for _, c := range p.edges {
		if err := m.each(c, fn); err != nil {
			return err
		}
	}
	return nil
}

// Stats summarizes the memory a map spends on caching.
type Stats struct {
	Elements   int // number of elements inserted
	Partitions int // materialized partitions, the root included
	Edges      int // Partitions - 1
	CachedIDs  int // total number of identifiers held by all partitions
	MaxDepth   int // longest path from the root
}

// Stats returns current statistics of m.
func (m *Map[E]) Stats() Stats {
	s := Stats{
		Elements:   len(m.elements),
		Partitions: m.tree.size(),
		Edges:      m.tree.size() - 1,
	}
	for i := range m.tree.nodes {
		p := &m.tree.nodes[i]
		s.CachedIDs += len(p.ids)
		s.MaxDepth = max(s.MaxDepth, p.depth)
	}
	return s
}

func (m *Map[E]) String() string {
	var bf bytes.Buffer
	bf.WriteString("PropertyMap(")
	fmt.Fprintf(&bf, "%v", m.elements)
	bf.WriteString(")")
	return bf.String()
}

// Dump writes a detailed description of m to w: elements, predicates,
// successor sets and the tree of cached partitions (for debugging purposes).
func (m *Map[E]) Dump(w io.Writer) error {
	var bf bytes.Buffer
	bf.WriteString("PropertyMap(\n")
	fmt.Fprintf(&bf, "   Elements(%d):\n", len(m.elements))
	for id, e := range m.elements {
		fmt.Fprintf(&bf, "      [%d] %v\n", id, e)
	}
	fmt.Fprintf(&bf, "   Predicates(%d):\n", m.reg.size())
	for pos, name := range m.reg.names {
		fmt.Fprintf(&bf, "      %s -> %v\n", name, m.reg.successorNames(pos))
	}
	bf.WriteString("   Partitions:\n")
	err := m.Each(func(part PartitionInfo, depth int) error {
		indent := strings.Repeat("   ", depth+2)
		fmt.Fprintf(&bf, "%s(%s): %v\n", indent, part.Label(), part.IDs)
		return nil
	})
	if err != nil {
		return err
	}
	bf.WriteString(")\n")
	_, err = w.Write(bf.Bytes())
	return err
}
