package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/conceptmap/pkg/concept"
	"github.com/matzehuels/conceptmap/pkg/concept/gate"
)

func testGraph() (concept.Graph, concept.Layout) {
	g := concept.Graph{
		Concepts: []concept.Concept{
			{ID: "basics", Name: "Basics", Proficiency: 0.9, DepthTier: 1},
			{ID: "loops", Proficiency: 0.5, DepthTier: 2},
			{ID: "recursion", Proficiency: 0.1, DepthTier: 3},
		},
		Edges: []concept.Edge{
			{From: "basics", To: "loops"},
			{From: "loops", To: "recursion"},
			{From: "loops", To: "ghost"},
		},
	}
	l := concept.Layout{Positions: map[string]concept.Position{
		"basics":    {X: 10, Y: 20},
		"loops":     {X: -35.5, Y: 5},
		"recursion": {X: 100, Y: -50.25},
	}}
	return g, l
}

func TestToDOT(t *testing.T) {
	g, l := testGraph()
	dot := ToDOT(g, l, Options{})

	wants := []string{
		"digraph G {",
		"layout=neato;",
		`"basics" [label="Basics", fillcolor="#b7e4c7", pos="10.00,-20.00!"]`,
		`"loops" [label="loops", fillcolor="#ffe8a3", pos="-35.50,-5.00!"]`,
		`"recursion" [label="recursion", fillcolor="#e0e0e0", pos="100.00,50.25!", fontcolor="#666666"]`,
		`"basics" -> "loops";`,
		`"loops" -> "recursion";`,
	}
	for _, want := range wants {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "ghost") {
		t.Error("dangling edge should be omitted")
	}
}

func TestToDOTThreshold(t *testing.T) {
	g, l := testGraph()
	lenient := gate.New(0.5)
	dot := ToDOT(g, l, Options{Gate: &lenient})

	if !strings.Contains(dot, `"loops" [label="loops", fillcolor="#b7e4c7"`) {
		t.Errorf("loops should be mastered at threshold 0.5\n%s", dot)
	}
	if !strings.Contains(dot, `"recursion" [label="recursion", fillcolor="#ffe8a3"`) {
		t.Errorf("recursion should be available at threshold 0.5\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	g, l := testGraph()
	dot := ToDOT(g, l, Options{Detailed: true})
	if !strings.Contains(dot, `label="Basics\nproficiency: 90%\ntier: 1"`) {
		t.Errorf("detailed label missing\n%s", dot)
	}
}

func TestToDOTUnpinned(t *testing.T) {
	g, _ := testGraph()
	dot := ToDOT(g, concept.Layout{}, Options{})
	if strings.Contains(dot, "pos=") {
		t.Errorf("nodes without positions should not be pinned\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="200pt" height="100pt" viewBox="0.00 0.00 200.00 100.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 200.00 100.00" width="200" height="100"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("svg without viewBox should be unchanged, got %s", got)
	}
}
