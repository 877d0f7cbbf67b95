package propmap

import (
	"fmt"
	"io"
	"strings"
)

// Map2Dot outputs the partition tree of a property map in Graphviz DOT format
// (for debugging purposes).
//
// Partitions are labeled with their incoming edge and the number of elements
// they hold; empty partitions are drawn as grey boxes.
func Map2Dot[E any](m *Map[E], w io.Writer) error {
	var nodelist, edgelist strings.Builder
	err := m.Each(func(part PartitionInfo, depth int) error {
		label := fmt.Sprintf("%s\\n%d", dotEscape(part.Label()), len(part.IDs))
		fmt.Fprintf(&nodelist, "\"%d\" [label=\"%s\"%s];\n", part.Node, label,
			nodeDotStyles(part.IsRoot(), len(part.IDs) == 0))
		if !part.IsRoot() {
			fmt.Fprintf(&edgelist, "\"%d\" -> \"%d\";\n", part.Parent, part.Node)
		}
		return nil
	})
	if err != nil {
		T().Errorf("map DOT: %s", err.Error())
		return err
	}
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12];\n")
	io.WriteString(w, nodelist.String())
	io.WriteString(w, edgelist.String())
	_, err = io.WriteString(w, "}\n")
	return err
}

func dotEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func nodeDotStyles(isroot bool, isempty bool) string {
	s := ",style=filled"
	if isroot {
		s += ",color=black,fillcolor=\"#a3d7e4\""
		s += ",shape=circle"
	} else if isempty {
		s += ",fillcolor=\"#dddddd\""
		s += ",shape=box"
	} else {
		s += ",fillcolor=\"#CCDDFF\""
		s += ",shape=box"
	}
	return s
}
