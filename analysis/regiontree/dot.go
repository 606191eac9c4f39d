package regiontree

import (
	"fmt"
	"strconv"

	"github.com/cs-au-dk/symheap/utils/dot"
)

// Dot draws the tree. Every top-level entry is a cluster together with the
// entries it shadows, and edges lead from an entry to its children.
func (t RegionTree[V, R]) Dot(title string) *dot.DotGraph {
	g := &dot.DotGraph{
		Title:   title,
		Options: map[string]string{"rankdir": "TB", "minlen": "1", "nodesep": "0.3"},
	}
	root := &dot.DotNode{ID: "root", Attrs: dot.DotAttrs{"shape": "point"}}
	g.Nodes = append(g.Nodes, root)

	next := 0
	var add func(e *Entry[V, R], c *dot.DotCluster) *dot.DotNode
	add = func(e *Entry[V, R], c *dot.DotCluster) *dot.DotNode {
		n := &dot.DotNode{
			ID: "e" + strconv.Itoa(next),
			Attrs: dot.DotAttrs{
				"label": fmt.Sprintf("%v ↦ %v", e.Region, e.Value),
				"shape": "box",
			},
		}
		next++
		c.Nodes = append(c.Nodes, n)
		for idx, child := range e.Children.Entries() {
			g.Edges = append(g.Edges, &dot.DotEdge{From: n, To: add(child, c), Attrs: dot.DotAttrs{"label": strconv.Itoa(idx)}})
		}
		return n
	}

	for idx, e := range t.Entries() {
		c := dot.NewDotCluster(strconv.Itoa(idx))
		c.Attrs["label"] = "entry " + strconv.Itoa(idx)
		g.Clusters = append(g.Clusters, c)
		g.Edges = append(g.Edges, &dot.DotEdge{From: root, To: add(e, c), Attrs: dot.DotAttrs{"label": strconv.Itoa(idx)}})
	}
	return g
}
