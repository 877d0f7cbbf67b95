package propmap

// rootVia marks the root partition, which has not been reached through any
// predicate.
const rootVia = -1

// edgeKey labels an edge of the partition tree.
type edgeKey struct {
	pred  int // position of the predicate in the registry
	value any
}

// partition is a node of the partition tree. It holds the identifiers of all
// elements passing every test on the path from the root, in ascending order.
type partition struct {
	ids      []int
	via      int   // predicate of the incoming edge, rootVia for the root
	value    any   // value of the incoming edge
	parent   int   // -1 for the root
	depth    int   // number of edges from the root
	edges    []int // children in order of materialization
	children map[edgeKey]int
}

// tree is an arena of partitions. A partition is referenced by its index, and
// every partition except the root is referenced by exactly one edge of its
// parent. Index 0 is the root.
type tree struct {
	nodes []partition
}

func newTree() tree {
	return tree{nodes: []partition{{via: rootVia, parent: -1}}}
}

func (t *tree) root() *partition {
	return &t.nodes[0]
}

func (t *tree) node(n int) *partition {
	return &t.nodes[n]
}

// child returns the partition reached from n via edge (pred, value), if it
// has been materialized.
func (t *tree) child(n, pred int, value any) (int, bool) {
	c, ok := t.nodes[n].children[edgeKey{pred, value}]
	return c, ok
}

// attach adds an empty partition below n. It does not check for an existing
// edge; callers have done that.
func (t *tree) attach(n, pred int, value any) int {
	c := len(t.nodes)
	t.nodes = append(t.nodes, partition{
		via:    pred,
		value:  value,
		parent: n,
		depth:  t.nodes[n].depth + 1,
	})
	// take the address after append, which may have moved the arena
	p := &t.nodes[n]
	if p.children == nil {
		p.children = make(map[edgeKey]int)
	}
	p.children[edgeKey{pred, value}] = c
	p.edges = append(p.edges, c)
	return c
}

func (t *tree) size() int {
	return len(t.nodes)
}

// materialize creates the partition for edge (pred, value) below n by scanning
// n's identifiers. On a predicate failure no partition is created.
func (m *Map[E]) materialize(n, pred int, value any) (int, error) {
	assert(m.reg.mayBranch(m.tree.node(n).via, pred), "materialize: edge violates canonical order")
	parent := m.tree.node(n)
	ids := make([]int, 0, len(parent.ids)/2+1)
	for _, id := range parent.ids {
		ok, err := m.reg.evaluate(pred, m.elements[id], value)
		if err != nil {
			m.observer.Failed(m.reg.names[pred], err)
			return 0, err
		}
		if ok {
			ids = append(ids, id)
		}
	}
	scanned := len(parent.ids)
	c := m.tree.attach(n, pred, value)
	m.tree.node(c).ids = ids
	T().Debugf("materialized partition #%d %s=%v below #%d: %d of %d elements",
		c, m.reg.names[pred], value, n, len(ids), scanned)
	m.observer.Materialized(m.reg.names[pred], scanned, len(ids))
	return c, nil
}

// propagate appends element id to the root and to every materialized
// partition it qualifies for. It returns the number of partitions extended.
// Partitions are visited depth-first, children in order of materialization.
// Partitions extended before a failing test keep the identifier.
func (m *Map[E]) propagate(id int) (int, error) {
	element := m.elements[id]
	extended := 0
	stack := []int{0}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		p := m.tree.node(n)
		p.ids = append(p.ids, id)
		extended++
		matches := make([]int, 0, len(p.edges))
		for _, c := range p.edges {
			child := m.tree.node(c)
			ok, err := m.reg.evaluate(child.via, element, child.value)
			if err != nil {
				m.observer.Failed(m.reg.names[child.via], err)
				return extended, err
			}
			if ok {
				matches = append(matches, c)
			}
		}
		for i := len(matches) - 1; i >= 0; i-- {
			stack = append(stack, matches[i])
		}
	}
	T().Debugf("propagated element #%d into %d partitions", id, extended)
	return extended, nil
}
