package drop

import (
	"errors"
	"slices"
	"testing"

	"github.com/pagegrid/pagegrid/pkg/scene"
)

func TestCanAccept(t *testing.T) {
	tests := []struct {
		name string
		desc Descriptor
		want bool
	}{
		{name: "InsideContainer", desc: Descriptor{Position: Inside, TargetID: "A"}, want: true},
		{name: "InsideLeaf", desc: Descriptor{Position: Inside, TargetID: "X"}, want: false},
		{name: "BetweenContainer", desc: Descriptor{Position: Between, TargetID: "A", ReferenceID: "D"}, want: true},
		{name: "BetweenLeaf", desc: Descriptor{Position: Between, TargetID: "L"}, want: false},
		{name: "BeforeWithContainerParent", desc: Descriptor{Position: Before, TargetID: "L"}, want: true},
		{name: "AfterWithContainerParent", desc: Descriptor{Position: After, TargetID: "B"}, want: true},
		{name: "BeforeUnknownAnchor", desc: Descriptor{Position: Before, TargetID: "ghost"}, want: false},
		{name: "InsideUnknownAnchor", desc: Descriptor{Position: Inside, TargetID: "ghost"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, _ := testScene(t)
			if got := CanAccept(tree, tt.desc); got != tt.want {
				t.Errorf("CanAccept(%+v) = %v, want %v", tt.desc, got, tt.want)
			}
		})
	}
}

func TestCanAcceptOrphanAnchorAssumesRoot(t *testing.T) {
	tree, _ := testScene(t)
	if err := tree.Detach("X"); err != nil {
		t.Fatal(err)
	}

	// X has no parent: the root is assumed and always accepts.
	if !CanAccept(tree, Descriptor{Position: Before, TargetID: "X"}) {
		t.Error("CanAccept = false, want true for orphan anchor")
	}
}

func TestApplyInside(t *testing.T) {
	// Dragging X into empty container Y: X leaves the root's children and
	// becomes Y's sole child.
	tree, _ := testScene(t)

	err := Apply(tree, "X", Descriptor{Position: Inside, TargetID: "Y"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if got := tree.Parent("X"); got != "Y" {
		t.Errorf("parent = %q, want Y", got)
	}
	if got := tree.Children("Y"); len(got) != 1 || got[0] != "X" {
		t.Errorf("Y children = %v, want [X]", got)
	}
	if slices.Contains(tree.Children(scene.RootID), "X") {
		t.Error("previous parent still lists X")
	}
	if err := tree.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestApplyInsideStartBias(t *testing.T) {
	tree, _ := testScene(t)

	err := Apply(tree, "X", Descriptor{Position: Inside, TargetID: "A", EmptyContainerHint: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := tree.Children("A"); len(got) != 3 || got[0] != "X" {
		t.Errorf("A children = %v, want X first", got)
	}
}

func TestApplyBetween(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		want      []string
	}{
		{name: "BeforeReference", reference: "D", want: []string{"B", "X", "D"}},
		{name: "Append", reference: "", want: []string{"B", "D", "X"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, _ := testScene(t)
			err := Apply(tree, "X", Descriptor{Position: Between, TargetID: "A", ReferenceID: tt.reference})
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			got := tree.Children("A")
			if !slices.Equal(got, tt.want) {
				t.Errorf("A children = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyBeforeAfter(t *testing.T) {
	tests := []struct {
		name string
		desc Descriptor
		want []string // root children after the move
	}{
		{name: "BeforeFirst", desc: Descriptor{Position: Before, TargetID: "A"}, want: []string{"X", "A", "P", "Y"}},
		{name: "AfterFirst", desc: Descriptor{Position: After, TargetID: "A"}, want: []string{"A", "X", "P", "Y"}},
		{name: "BeforeLast", desc: Descriptor{Position: Before, TargetID: "Y"}, want: []string{"A", "P", "X", "Y"}},
		{name: "AfterLast", desc: Descriptor{Position: After, TargetID: "Y"}, want: []string{"A", "P", "Y", "X"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, _ := testScene(t)
			if err := Apply(tree, "X", tt.desc); err != nil {
				t.Fatalf("Apply: %v", err)
			}
			got := tree.Children(scene.RootID)
			if !slices.Equal(got, tt.want) {
				t.Errorf("root children = %v, want %v", got, tt.want)
			}
			if err := tree.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestApplyReorderWithinParent(t *testing.T) {
	// Moving B after D inside the same container: the index must account
	// for B leaving its old slot first.
	tree, _ := testScene(t)

	if err := Apply(tree, "B", Descriptor{Position: After, TargetID: "D"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got := tree.Children("A")
	if !slices.Equal(got, []string{"D", "B"}) {
		t.Errorf("A children = %v, want [D B]", got)
	}
}

func TestApplyPaletteDropBeforeLeaf(t *testing.T) {
	// Spec scenario: a palette component dropped on leaf L's top band
	// lands in P's children immediately before L.
	tree, _ := testScene(t)
	if err := tree.AddNode(scene.Node{ID: "new", Type: "button"}); err != nil {
		t.Fatal(err)
	}

	if err := Apply(tree, "new", Descriptor{Position: Before, TargetID: "L"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got := tree.Children("P")
	if !slices.Equal(got, []string{"new", "L"}) {
		t.Errorf("P children = %v, want [new L]", got)
	}
	if got := tree.Parent("new"); got != "P" {
		t.Errorf("parent = %q, want P", got)
	}
}

func TestApplyRejectsCycles(t *testing.T) {
	tests := []struct {
		name string
		id   string
		desc Descriptor
	}{
		{name: "IntoItself", id: "A", desc: Descriptor{Position: Inside, TargetID: "A"}},
		{name: "IntoDescendantSibling", id: "A", desc: Descriptor{Position: Before, TargetID: "B"}},
		{name: "BetweenOwnChildren", id: "A", desc: Descriptor{Position: Between, TargetID: "A", ReferenceID: "D"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, _ := testScene(t)
			wantChildren := slices.Clone(tree.Children(scene.RootID))

			err := Apply(tree, tt.id, tt.desc)
			if !errors.Is(err, scene.ErrWouldCycle) {
				t.Fatalf("Apply = %v, want ErrWouldCycle", err)
			}

			// Idempotent no-op: the tree is unchanged.
			if got := tree.Children(scene.RootID); !slices.Equal(got, wantChildren) {
				t.Errorf("root children = %v, want %v", got, wantChildren)
			}
			if got := tree.Parent(tt.id); got != scene.RootID {
				t.Errorf("parent = %q, want root", got)
			}
			if err := tree.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestApplyRejectsInvalidTarget(t *testing.T) {
	tree, _ := testScene(t)

	err := Apply(tree, "X", Descriptor{Position: Inside, TargetID: "L"})
	if !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("Apply = %v, want ErrInvalidTarget", err)
	}
	if got := tree.Parent("X"); got != scene.RootID {
		t.Errorf("parent = %q, want root (unchanged)", got)
	}
}

func TestApplyStaleDescriptor(t *testing.T) {
	tree, _ := testScene(t)

	tests := []struct {
		name string
		desc Descriptor
	}{
		{name: "VanishedTarget", desc: Descriptor{Position: Inside, TargetID: "ghost"}},
		{name: "VanishedReference", desc: Descriptor{Position: Between, TargetID: "A", ReferenceID: "ghost"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Apply(tree, "X", tt.desc)
			if !errors.Is(err, ErrStaleDescriptor) {
				t.Errorf("Apply = %v, want ErrStaleDescriptor", err)
			}
		})
	}
}

func TestFallback(t *testing.T) {
	tree, _ := testScene(t)
	if err := tree.AddNode(scene.Node{ID: "new", Type: "button"}); err != nil {
		t.Fatal(err)
	}

	if err := Fallback(tree, "new", Point{X: 42, Y: 17}); err != nil {
		t.Fatalf("Fallback: %v", err)
	}
	if got := tree.Parent("new"); got != scene.RootID {
		t.Errorf("parent = %q, want root", got)
	}
	n, _ := tree.Get("new")
	if n.Placement == nil || n.Placement.X != 42 || n.Placement.Y != 17 {
		t.Errorf("placement = %+v, want {42 17}", n.Placement)
	}
}
