package scene

import (
	"errors"
	"testing"
)

// buildTree creates root -> {section (container), text} with the section
// holding one paragraph leaf.
func buildTree(t *testing.T) *Tree {
	t.Helper()
	tree := New()
	nodes := []Node{
		{ID: "section", Type: "section", Container: true},
		{ID: "text", Type: "text"},
		{ID: "para", Type: "text"},
	}
	for _, n := range nodes {
		if err := tree.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	attach := []struct {
		id, parent string
	}{
		{"section", RootID},
		{"text", RootID},
		{"para", "section"},
	}
	for _, a := range attach {
		if err := tree.Attach(a.id, a.parent, -1); err != nil {
			t.Fatalf("Attach(%s, %s): %v", a.id, a.parent, err)
		}
	}
	return tree
}

func TestNewTreeHasRoot(t *testing.T) {
	tree := New()

	root, ok := tree.Get(RootID)
	if !ok {
		t.Fatal("root not found")
	}
	if !root.Container {
		t.Error("root is not a container")
	}
	if root.ParentID != "" {
		t.Errorf("root parent = %q, want empty", root.ParentID)
	}
	if err := tree.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestAddNode(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		wantErr error
	}{
		{name: "Valid", node: Node{ID: "a"}},
		{name: "EmptyID", node: Node{}, wantErr: ErrInvalidNodeID},
		{name: "DuplicateRoot", node: Node{ID: RootID}, wantErr: ErrDuplicateNodeID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := New()
			err := tree.AddNode(tt.node)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddNode = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAttach(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		parent  string
		index   int
		wantErr error
	}{
		{name: "AppendUnderRoot", id: "new", parent: RootID, index: -1},
		{name: "PrependUnderSection", id: "new", parent: "section", index: 0},
		{name: "IndexPastEndAppends", id: "new", parent: RootID, index: 99},
		{name: "UnknownParent", id: "new", parent: "ghost", wantErr: ErrUnknownNode},
		{name: "LeafParent", id: "new", parent: "text", wantErr: ErrNotContainer},
		{name: "AlreadyAttached", id: "para", parent: RootID, wantErr: ErrAlreadyAttached},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := buildTree(t)
			if tt.id == "new" {
				if err := tree.AddNode(Node{ID: "new"}); err != nil {
					t.Fatal(err)
				}
			}

			err := tree.Attach(tt.id, tt.parent, tt.index)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Attach = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}

			if got := tree.Parent(tt.id); got != tt.parent {
				t.Errorf("parent = %q, want %q", got, tt.parent)
			}
			if err := tree.Validate(); err != nil {
				t.Errorf("Validate after attach: %v", err)
			}
		})
	}
}

func TestAttachCycle(t *testing.T) {
	tree := buildTree(t)
	if err := tree.AddNode(Node{ID: "inner", Container: true}); err != nil {
		t.Fatal(err)
	}
	if err := tree.Attach("inner", "section", -1); err != nil {
		t.Fatal(err)
	}
	if err := tree.Detach("section"); err != nil {
		t.Fatal(err)
	}

	if err := tree.Attach("section", "section", -1); !errors.Is(err, ErrWouldCycle) {
		t.Errorf("self attach = %v, want ErrWouldCycle", err)
	}
	// inner is a descendant of section even while section is detached.
	if err := tree.Attach("section", "inner", -1); !errors.Is(err, ErrWouldCycle) {
		t.Errorf("descendant attach = %v, want ErrWouldCycle", err)
	}
}

func TestDetach(t *testing.T) {
	tree := buildTree(t)

	if err := tree.Detach("para"); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if got := tree.Parent("para"); got != "" {
		t.Errorf("parent = %q, want empty", got)
	}
	if got := len(tree.Children("section")); got != 0 {
		t.Errorf("section children = %d, want 0", got)
	}
	// Detaching twice is a no-op.
	if err := tree.Detach("para"); err != nil {
		t.Errorf("second Detach: %v", err)
	}
	if err := tree.Detach(RootID); !errors.Is(err, ErrRootImmobile) {
		t.Errorf("Detach(root) = %v, want ErrRootImmobile", err)
	}
}

func TestRemoveSubtree(t *testing.T) {
	tree := buildTree(t)

	if err := tree.Remove("section"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if tree.Has("section") || tree.Has("para") {
		t.Error("removed subtree still indexed")
	}
	if got := len(tree.Children(RootID)); got != 1 {
		t.Errorf("root children = %d, want 1", got)
	}
	if err := tree.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestIsDescendant(t *testing.T) {
	tree := buildTree(t)

	tests := []struct {
		id, ancestor string
		want         bool
	}{
		{"para", "section", true},
		{"para", RootID, true},
		{"section", "para", false},
		{"section", "section", false}, // a node is not its own descendant
		{"ghost", RootID, false},
	}

	for _, tt := range tests {
		if got := tree.IsDescendant(tt.id, tt.ancestor); got != tt.want {
			t.Errorf("IsDescendant(%s, %s) = %v, want %v", tt.id, tt.ancestor, got, tt.want)
		}
	}
}

func TestIndex(t *testing.T) {
	tree := buildTree(t)

	if got := tree.Index("text"); got != 1 {
		t.Errorf("Index(text) = %d, want 1", got)
	}
	if got := tree.Index(RootID); got != -1 {
		t.Errorf("Index(root) = %d, want -1", got)
	}
}

func TestWalkOrder(t *testing.T) {
	tree := buildTree(t)

	var order []string
	tree.Walk(func(n *Node, depth int) bool {
		order = append(order, n.ID)
		return true
	})

	want := []string{RootID, "section", "para", "text"}
	if len(order) != len(want) {
		t.Fatalf("visited %d nodes, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(tree *Tree)
		wantErr error
	}{
		{
			name: "OneWayLink",
			corrupt: func(tree *Tree) {
				n, _ := tree.Get("para")
				n.ParentID = RootID // section still lists para
			},
			wantErr: ErrBrokenLink,
		},
		{
			name: "LeafWithChildren",
			corrupt: func(tree *Tree) {
				n, _ := tree.Get("text")
				n.Children = []string{"para"}
			},
			wantErr: ErrLeafWithChildren,
		},
		{
			name: "DuplicateChildEntry",
			corrupt: func(tree *Tree) {
				n, _ := tree.Get("section")
				n.Children = []string{"para", "para"}
			},
			wantErr: ErrBrokenLink,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := buildTree(t)
			tt.corrupt(tree)
			if err := tree.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
