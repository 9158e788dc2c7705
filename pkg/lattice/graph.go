package lattice

import (
	"fmt"
	"io"
	"text/template"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

// siteID formats the vertex identifier of the cell (m, n).
func siteID(m, n int) string {
	return fmt.Sprintf("%d,%d", m, n)
}

// Graph builds the undirected hopping graph of the given shells: cells as
// vertices, hopping paths as weighted edges. The edge weight is the
// neighbour shell, so closer neighbours carry lower weight.
func (c *Cell) Graph(shells Shells) (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash)

	if err := g.AddVertex(siteID(0, 0), graph.VertexAttribute("origin", "true")); err != nil {
		return nil, errors.Wrap(err, "unable to add origin vertex")
	}

	for _, grp := range shells.Groups {
		for _, path := range grp.Paths {
			prev := siteID(0, 0)
			for _, hop := range path.Hops {
				next := siteID(hop.M0+hop.DM, hop.N0+hop.DN)
				if err := g.AddVertex(next); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
					return nil, errors.Wrapf(err, "unable to add vertex %s", next)
				}
				err := g.AddEdge(prev, next, graph.EdgeWeight(hop.Shell))
				if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
					return nil, errors.Wrapf(err, "unable to add edge from %s to %s", prev, next)
				}
				prev = next
			}
		}
	}

	return g, nil
}

const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           interface{}
	Target           interface{}
	SourceWeight     int
	SourceAttributes map[string]string
	EdgeWeight       int
	EdgeAttributes   map[string]string
}

// WriteDOT renders the hopping graph in DOT format so the lattice
// connectivity can be inspected with graphviz.
func WriteDOT[K comparable, T any](g graph.Graph[K, T], w io.Writer) error {
	desc, err := generateDOT(g)
	if err != nil {
		return errors.Wrap(err, "unable to generate DOT description")
	}

	return renderDOT(w, desc)
}

func generateDOT[K comparable, T any](g graph.Graph[K, T]) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   map[string]string{"layout": "neato"},
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	if g.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := g.AdjacencyMap()
	if err != nil {
		return desc, err
	}

	for vertex, adjacencies := range adjacencyMap {
		_, sourceProperties, err := g.VertexWithProperties(vertex)
		if err != nil {
			return desc, err
		}

		stmt := statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceProperties.Attributes,
		}
		desc.Statements = append(desc.Statements, stmt)

		for adjacency, edge := range adjacencies {
			stmt := statement{
				Source:         vertex,
				Target:         adjacency,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			}
			desc.Statements = append(desc.Statements, stmt)
		}
	}

	return desc, nil
}

func renderDOT(w io.Writer, d description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "unable to parse template")
	}

	return tpl.Execute(w, d)
}
