package dot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDot(t *testing.T) {
	a := &DotNode{ID: "a", Attrs: DotAttrs{"shape": "box", "label": "A"}}
	b := &DotNode{ID: "b"}
	c := NewDotCluster("x")
	c.Nodes = append(c.Nodes, b)

	g := &DotGraph{
		Title:    "g",
		Nodes:    []*DotNode{a},
		Clusters: []*DotCluster{c},
		Edges:    []*DotEdge{{From: a, To: b, Attrs: DotAttrs{}}},
	}
	assert.Equal(t, 2, g.NodeCount())

	var buf bytes.Buffer
	require.NoError(t, g.WriteDot(&buf))
	assert.Contains(t, buf.String(), `"a" [ label="A"; shape="box"; ]`)
	assert.Contains(t, buf.String(), `subgraph "cluster_x" {`)
	assert.Contains(t, buf.String(), `"a" -> "b"`)

	var svg bytes.Buffer
	require.NoError(t, Render(&svg, "svg", buf.Bytes()))
	assert.Contains(t, svg.String(), "<svg")
}
