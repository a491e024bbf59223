package drop

import (
	"sort"
	"testing"

	"github.com/pagegrid/pagegrid/pkg/scene"
)

// fakeHost serves synthetic geometry for tests. The surface stack at a
// point is derived from the registered rectangles: overlay rects first,
// then scene nodes containing the point ordered deepest-first, matching how
// a real render host stacks children above their ancestors.
type fakeHost struct {
	tree     *scene.Tree
	rects    map[string]Rect
	overlays []Rect
	stale    []Surface // surfaces still on screen for nodes already gone
}

func (h *fakeHost) SurfacesAt(p Point) []Surface {
	var out []Surface
	for _, r := range h.overlays {
		if r.Contains(p) {
			out = append(out, Surface{Overlay: true})
		}
	}
	out = append(out, h.stale...)

	type candidate struct {
		id    string
		depth int
	}
	var hits []candidate
	h.tree.Walk(func(n *scene.Node, depth int) bool {
		if r, ok := h.rects[n.ID]; ok && r.Contains(p) {
			hits = append(hits, candidate{n.ID, depth})
		}
		return true
	})
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].depth > hits[j].depth })

	for _, c := range hits {
		out = append(out, Surface{NodeID: c.id})
	}
	return out
}

func (h *fakeHost) RectOf(id string) (Rect, bool) {
	r, ok := h.rects[id]
	return r, ok
}

// testScene builds the fixture used across the drop tests:
//
//	root (0,0,400,300)
//	├── A  container (0,0,200,100)
//	│   ├── B leaf (0,0,200,40)
//	│   └── D leaf (0,60,200,40)
//	├── P  container (0,120,200,80)
//	│   └── L leaf (0,120,200,40)
//	├── Y  empty container (210,0,100,100)
//	└── X  leaf (0,220,200,40)
func testScene(t *testing.T) (*scene.Tree, *fakeHost) {
	t.Helper()
	tree := scene.New()

	nodes := []scene.Node{
		{ID: "A", Type: "section", Container: true},
		{ID: "B", Type: "text"},
		{ID: "D", Type: "text"},
		{ID: "P", Type: "section", Container: true},
		{ID: "L", Type: "text"},
		{ID: "Y", Type: "section", Container: true},
		{ID: "X", Type: "text"},
	}
	for _, n := range nodes {
		if err := tree.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	attach := []struct{ id, parent string }{
		{"A", scene.RootID},
		{"B", "A"},
		{"D", "A"},
		{"P", scene.RootID},
		{"L", "P"},
		{"Y", scene.RootID},
		{"X", scene.RootID},
	}
	for _, a := range attach {
		if err := tree.Attach(a.id, a.parent, -1); err != nil {
			t.Fatalf("Attach(%s, %s): %v", a.id, a.parent, err)
		}
	}

	host := &fakeHost{
		tree: tree,
		rects: map[string]Rect{
			scene.RootID: {Left: 0, Top: 0, Width: 400, Height: 300},
			"A":          {Left: 0, Top: 0, Width: 200, Height: 100},
			"B":          {Left: 0, Top: 0, Width: 200, Height: 40},
			"D":          {Left: 0, Top: 60, Width: 200, Height: 40},
			"P":          {Left: 0, Top: 120, Width: 200, Height: 80},
			"L":          {Left: 0, Top: 120, Width: 200, Height: 40},
			"Y":          {Left: 210, Top: 0, Width: 100, Height: 100},
			"X":          {Left: 0, Top: 220, Width: 200, Height: 40},
		},
	}
	return tree, host
}
