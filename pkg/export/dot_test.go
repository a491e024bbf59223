package export

import (
	"strings"
	"testing"

	"github.com/pagegrid/pagegrid/pkg/scene"
)

func buildTree(t *testing.T) *scene.Tree {
	t.Helper()
	tree := scene.New()
	nodes := []scene.Node{
		{ID: "hero", Type: "section", Container: true, Label: "Hero"},
		{ID: "headline", Type: "text", Meta: scene.Metadata{"width": 24.0, "height": 3.0}},
	}
	for _, n := range nodes {
		if err := tree.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := tree.Attach("hero", scene.RootID, -1); err != nil {
		t.Fatal(err)
	}
	if err := tree.Attach("headline", "hero", -1); err != nil {
		t.Fatal(err)
	}
	return tree
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(buildTree(t), Options{})

	for _, want := range []string{
		"digraph page {",
		`"root"`,
		`"hero" [label="Hero", fillcolor=lightblue];`,
		`"root" -> "hero";`,
		`"hero" -> "headline";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(buildTree(t), Options{Detailed: true})

	if !strings.Contains(dot, "type: text") {
		t.Errorf("detailed DOT missing type line:\n%s", dot)
	}
	if !strings.Contains(dot, "size: 24x3") {
		t.Errorf("detailed DOT missing size line:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00">body</svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("dimensions not rewritten: %s", out)
	}
	if !strings.Contains(out, "body</svg>") {
		t.Errorf("body dropped: %s", out)
	}
}
