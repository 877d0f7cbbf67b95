/*
Package html renders the partition tree of property maps as HTML, and
extracts text from HTML fragments for use as elements of property maps.

Partitions are rendered as nested unordered lists:

	<ul class="propmap">
	  <li><span class="constraint">*</span><span class="count">3</span>
	    <ul>
	      <li><span class="constraint">length_less_than=6</span><span class="count">2</span></li>
	    </ul>
	  </li>
	</ul>

Clients may style the output with CSS classes "propmap", "constraint",
"count" and "elements".
*/
package html

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/npillmayer/propmap"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// Options control HTML rendering.
type Options struct {
	// Elements lists the elements of every partition, not just their number.
	Elements bool
}

// Render writes the partition tree of m as an HTML fragment to w.
func Render[E any](w io.Writer, m *propmap.Map[E], opts *Options) error {
	n, err := Tree(m, opts)
	if err != nil {
		return err
	}
	return html.Render(w, n)
}

// Tree creates a node tree for the partitions of m, rooted at a <ul> element.
func Tree[E any](m *propmap.Map[E], opts *Options) (*html.Node, error) {
	if m == nil {
		return nil, propmap.ErrIllegalArguments
	}
	if opts == nil {
		opts = &Options{}
	}
	top := element(atom.Ul, "propmap")
	items := map[int]*html.Node{} // partition -> its <li>
	lists := map[int]*html.Node{} // partition -> <ul> of its children
	err := m.Each(func(part propmap.PartitionInfo, depth int) error {
		li := element(atom.Li, "")
		li.AppendChild(textElement(atom.Span, "constraint", part.Label()))
		li.AppendChild(textElement(atom.Span, "count", strconv.Itoa(len(part.IDs))))
		if opts.Elements && len(part.IDs) > 0 {
			ol := element(atom.Ol, "elements")
			for _, id := range part.IDs {
				e, _ := m.At(id)
				ol.AppendChild(textElement(atom.Li, "", fmt.Sprintf("%v", e)))
			}
			li.AppendChild(ol)
		}
		items[part.Node] = li
		if part.IsRoot() {
			top.AppendChild(li)
			return nil
		}
		ul, ok := lists[part.Parent]
		if !ok {
			ul = element(atom.Ul, "")
			items[part.Parent].AppendChild(ul)
			lists[part.Parent] = ul
		}
		ul.AppendChild(li)
		T().Debugf("html: rendered partition %s at depth %d", part.Label(), depth)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return top, nil
}

func element(a atom.Atom, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return n
}

func textElement(a atom.Atom, class string, text string) *html.Node {
	n := element(a, class)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

// --- Text extraction -------------------------------------------------------

// InnerText collects the text runs of an HTML element and all its descendents.
// Runs are trimmed; runs consisting of white space only are dropped.
func InnerText(n *html.Node) ([]string, error) {
	if n == nil {
		return nil, propmap.ErrIllegalArguments
	}
	var runs []string
	collectText(n, &runs)
	return runs, nil
}

func collectText(n *html.Node, runs *[]string) {
	if n.Type == html.ElementNode {
		T().Debugf("html: collect text of <%s>", n.Data)
	} else if n.Type == html.TextNode {
		if s := strings.TrimSpace(n.Data); s != "" {
			*runs = append(*runs, s)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, runs)
	}
}

// TextFromHTML extracts the text runs of an HTML fragment, suitable for
// inserting them into a property map.
// It does not interpret layout and styling, but extracts the pure text.
func TextFromHTML(input io.Reader) ([]string, error) {
	nodes, err := html.ParseFragment(input, nil)
	if err != nil {
		return nil, err
	}
	var runs []string
	for _, n := range nodes {
		collectText(n, &runs)
	}
	return runs, nil
}
