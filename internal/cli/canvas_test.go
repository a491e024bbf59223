package cli

import (
	"strings"
	"testing"

	"github.com/pagegrid/pagegrid/pkg/drop"
	"github.com/pagegrid/pagegrid/pkg/scene"
)

func buildCanvasTree(t *testing.T) *scene.Tree {
	t.Helper()
	tree := scene.New()
	nodes := []scene.Node{
		{ID: "hero", Type: "section", Container: true, Label: "Hero"},
		{ID: "headline", Type: "text"},
		{ID: "cta", Type: "button"},
	}
	for _, n := range nodes {
		if err := tree.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, a := range []struct{ id, parent string }{
		{"hero", scene.RootID}, {"headline", "hero"}, {"cta", "hero"},
	} {
		if err := tree.Attach(a.id, a.parent, -1); err != nil {
			t.Fatal(err)
		}
	}
	return tree
}

func contains(outer, inner drop.Rect) bool {
	return inner.Left >= outer.Left && inner.Top >= outer.Top &&
		inner.Right() <= outer.Right() && inner.Bottom() <= outer.Bottom()
}

func TestLayoutNesting(t *testing.T) {
	tree := buildCanvasTree(t)
	cv := newCanvas(tree)
	cv.resize(drop.Rect{Left: 0, Top: 1, Width: 60, Height: 30})

	root, ok := cv.RectOf(scene.RootID)
	if !ok {
		t.Fatal("root not laid out")
	}
	hero, ok := cv.RectOf("hero")
	if !ok {
		t.Fatal("hero not laid out")
	}
	headline, _ := cv.RectOf("headline")
	cta, _ := cv.RectOf("cta")

	if !contains(root, hero) {
		t.Errorf("hero %+v escapes root %+v", hero, root)
	}
	if !contains(hero, headline) || !contains(hero, cta) {
		t.Errorf("children escape hero %+v: %+v %+v", hero, headline, cta)
	}
	if cta.Top <= headline.Top {
		t.Errorf("siblings not stacked: headline %v, cta %v", headline.Top, cta.Top)
	}
}

func TestLayoutOrderParentsFirst(t *testing.T) {
	tree := buildCanvasTree(t)
	cv := newCanvas(tree)
	cv.resize(drop.Rect{Left: 0, Top: 1, Width: 60, Height: 30})

	index := make(map[string]int, len(cv.order))
	for i, id := range cv.order {
		index[id] = i
	}
	if !(index[scene.RootID] < index["hero"] && index["hero"] < index["headline"]) {
		t.Errorf("order = %v", cv.order)
	}
}

func TestSurfacesDeepestFirst(t *testing.T) {
	tree := buildCanvasTree(t)
	cv := newCanvas(tree)
	cv.resize(drop.Rect{Left: 0, Top: 1, Width: 60, Height: 30})

	r, _ := cv.RectOf("headline")
	p := drop.Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}

	got := cv.SurfacesAt(p)
	want := []string{"headline", "hero", scene.RootID}
	if len(got) != len(want) {
		t.Fatalf("surfaces = %v, want %v", got, want)
	}
	for i, s := range got {
		if s.NodeID != want[i] {
			t.Errorf("surfaces[%d] = %s, want %s", i, s.NodeID, want[i])
		}
	}
}

func TestNodeAtMiss(t *testing.T) {
	tree := buildCanvasTree(t)
	cv := newCanvas(tree)
	cv.resize(drop.Rect{Left: 0, Top: 1, Width: 60, Height: 30})

	if id := cv.nodeAt(drop.Point{X: 200, Y: 200}); id != "" {
		t.Errorf("nodeAt off-canvas = %q, want empty", id)
	}
}

func TestLiteralPlacementClamped(t *testing.T) {
	tree := buildCanvasTree(t)
	free := scene.Node{
		ID: "free", Type: "image",
		Placement: &scene.Placement{X: 500, Y: 500},
		Meta:      scene.Metadata{"width": 10.0, "height": 4.0},
	}
	if err := tree.AddNode(free); err != nil {
		t.Fatal(err)
	}
	if err := tree.Attach("free", scene.RootID, -1); err != nil {
		t.Fatal(err)
	}

	cv := newCanvas(tree)
	area := drop.Rect{Left: 0, Top: 1, Width: 60, Height: 30}
	cv.resize(area)

	r, ok := cv.RectOf("free")
	if !ok {
		t.Fatal("free node not laid out")
	}
	if !contains(area, r) {
		t.Errorf("literal placement %+v escapes area %+v", r, area)
	}
}

func TestRenderShowsLabelsAndOverlay(t *testing.T) {
	tree := buildCanvasTree(t)
	cv := newCanvas(tree)
	cv.resize(drop.Rect{Left: 0, Top: 1, Width: 60, Height: 30})

	hero, _ := cv.RectOf("hero")
	overlay := &drop.Overlay{Kind: drop.OverlayLine, Rect: drop.Rect{
		Left: hero.Left, Top: hero.Top, Width: hero.Width,
	}}
	out := cv.render("", "", "", overlay)

	for _, want := range []string{"Page", "Hero", "═"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
}
