package propmap

import (
	"errors"
	"fmt"
)

// ErrCorrupted is returned by Check for a partition tree violating an invariant.
var ErrCorrupted = errors.New("propmap: partition tree corrupted")

// Check validates structural invariants of the partition tree.
//
// Check re-evaluates every edge's predicate for every element of the parent
// partition, which makes it expensive. It is meant for tests.
func (m *Map[E]) Check() error {
	if m == nil {
		return fmt.Errorf("%w: nil map", ErrIllegalArguments)
	}
	root := m.tree.root()
	if root.via != rootVia || root.parent != -1 {
		return fmt.Errorf("%w: root has an incoming edge", ErrCorrupted)
	}
	if len(root.ids) != len(m.elements) {
		return fmt.Errorf("%w: root holds %d of %d elements", ErrCorrupted, len(root.ids), len(m.elements))
	}
	for i, id := range root.ids {
		if id != i {
			return fmt.Errorf("%w: root holds id %d at position %d", ErrCorrupted, id, i)
		}
	}
	referenced := make([]int, m.tree.size())
	for n := range m.tree.nodes {
		if err := m.checkPartition(n, referenced); err != nil {
			return err
		}
	}
	for n := 1; n < m.tree.size(); n++ {
		if referenced[n] != 1 {
			return fmt.Errorf("%w: partition #%d referenced by %d edges", ErrCorrupted, n, referenced[n])
		}
	}
	return nil
}

func (m *Map[E]) checkPartition(n int, referenced []int) error {
	p := m.tree.node(n)
	if len(p.edges) != len(p.children) {
		return fmt.Errorf("%w: partition #%d has %d edges but %d children",
			ErrCorrupted, n, len(p.edges), len(p.children))
	}
	for key, c := range p.children {
		if c <= n || c >= m.tree.size() {
			return fmt.Errorf("%w: partition #%d has edge to #%d", ErrCorrupted, n, c)
		}
		referenced[c]++
		child := m.tree.node(c)
		if child.parent != n || child.via != key.pred || child.depth != p.depth+1 {
			return fmt.Errorf("%w: partition #%d does not match its edge from #%d", ErrCorrupted, c, n)
		}
		if !m.reg.mayBranch(p.via, key.pred) {
			return fmt.Errorf("%w: partition #%d branches on %s out of declaration order",
				ErrCorrupted, n, m.reg.names[key.pred])
		}
		if err := m.checkSubsequence(p, child); err != nil {
			return fmt.Errorf("partition #%d: %w", c, err)
		}
	}
	return nil
}

// checkSubsequence verifies that child holds exactly those identifiers of
// parent which pass the child's edge test, in the same order.
func (m *Map[E]) checkSubsequence(parent, child *partition) error {
	j := 0
	for _, id := range parent.ids {
		ok, err := m.reg.evaluate(child.via, m.elements[id], child.value)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if j >= len(child.ids) || child.ids[j] != id {
			return fmt.Errorf("%w: missing element #%d", ErrCorrupted, id)
		}
		j++
	}
	if j != len(child.ids) {
		return fmt.Errorf("%w: %d surplus elements", ErrCorrupted, len(child.ids)-j)
	}
	return nil
}
