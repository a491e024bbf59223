// Package scene models the hierarchical node tree of a page document.
//
// A Tree is a single-rooted, acyclic hierarchy of nodes indexed by ID.
// Child order is semantically significant: it is the render/document order.
// Reads (Get, Children, Parent, IsContainer) are O(1) by ID because
// hit-testing and zone classification perform many lookups per pointer move.
//
// The tree only exposes low-level structural primitives (AddNode, Attach,
// Detach, Remove). Gesture-level edits - moves, palette drops, sibling
// reordering - are performed through the insertion resolver in pkg/drop,
// which validates capability rules before touching the tree.
package scene

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Tree.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Tree.AddNode] when a node with the
	// same ID already exists. Node IDs are unique and never reused.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned when an operation references a node ID
	// that is not present in the tree.
	ErrUnknownNode = errors.New("unknown node")

	// ErrRootImmobile is returned by [Tree.Detach] and [Tree.Remove] when
	// the target is the root. The root always exists and is never moved.
	ErrRootImmobile = errors.New("root node cannot be detached or removed")

	// ErrNotContainer is returned by [Tree.Attach] when the destination
	// parent is not capable of holding children.
	ErrNotContainer = errors.New("parent node is not a container")

	// ErrAlreadyAttached is returned by [Tree.Attach] when the node still
	// has a parent. Callers must Detach first; the resolver does both as a
	// single logical operation.
	ErrAlreadyAttached = errors.New("node is already attached to a parent")

	// ErrWouldCycle is returned by [Tree.Attach] when the destination is
	// the node itself or one of its own descendants.
	ErrWouldCycle = errors.New("attach would create a cycle")

	// ErrBrokenLink is returned by [Tree.Validate] when a parent/child
	// reference is not bidirectional. This indicates tree corruption.
	ErrBrokenLink = errors.New("parent/child link is not bidirectional")

	// ErrLeafWithChildren is returned by [Tree.Validate] when a node whose
	// Container flag is false lists children.
	ErrLeafWithChildren = errors.New("non-container node has children")

	// ErrNoRoot is returned by [Tree.Validate] when the reserved root node
	// is missing.
	ErrNoRoot = errors.New("tree has no root node")
)

// Tree is the scene model: an id-indexed, single-rooted node hierarchy.
//
// The zero value is not usable - use New to create a tree with its root.
// Tree is not safe for concurrent use; the interaction core mutates it only
// from the single UI event thread.
type Tree struct {
	nodes map[string]*Node
}

// New creates a tree containing only the root node. The root is a container
// of type "page" and is the fallback drop target for every gesture.
func New() *Tree {
	t := &Tree{nodes: make(map[string]*Node)}
	t.nodes[RootID] = &Node{
		ID:        RootID,
		Type:      "page",
		Container: true,
		Label:     "Page",
		Meta:      Metadata{},
	}
	return t
}

// Get returns the node with the given ID and true, or nil and false if not
// found. The returned pointer refers to the actual node: payload fields
// (Label, Meta, Placement) may be edited in place, but linkage fields
// (ParentID, Children) must only change through Attach/Detach/Remove.
func (t *Tree) Get(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Has reports whether a node with the given ID exists.
func (t *Tree) Has(id string) bool {
	_, ok := t.nodes[id]
	return ok
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.nodes[RootID] }

// Len returns the number of nodes in the tree, including the root.
func (t *Tree) Len() int { return len(t.nodes) }

// Children returns the ordered child IDs of the node, or nil if the node
// does not exist or has no children. The returned slice is a read-only view.
func (t *Tree) Children(id string) []string {
	if n, ok := t.nodes[id]; ok {
		return n.Children
	}
	return nil
}

// Parent returns the parent ID of the node, or "" for the root and for
// unknown nodes.
func (t *Tree) Parent(id string) string {
	if n, ok := t.nodes[id]; ok {
		return n.ParentID
	}
	return ""
}

// IsContainer reports whether the node may legally hold children.
// Unknown nodes are not containers.
func (t *Tree) IsContainer(id string) bool {
	if n, ok := t.nodes[id]; ok {
		return n.Container
	}
	return false
}

// IsDescendant reports whether id is a strict descendant of ancestorID.
// A node is not its own descendant.
func (t *Tree) IsDescendant(id, ancestorID string) bool {
	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	for n.ParentID != "" {
		if n.ParentID == ancestorID {
			return true
		}
		n, ok = t.nodes[n.ParentID]
		if !ok {
			return false
		}
	}
	return false
}

// AddNode indexes a detached node in the tree. The node's ParentID and
// Children must be empty: linkage is established with Attach (or, for
// document loading, via the document package which rebuilds links and then
// validates). Returns ErrInvalidNodeID for an empty ID or ErrDuplicateNodeID
// if the ID is already in use. The node's Meta field is automatically
// initialized to an empty map if nil.
func (t *Tree) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := t.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	t.nodes[node.ID] = node
	return nil
}

// Attach links a detached node under parentID at the given child index.
// Index -1 (or any index past the end) appends; index 0 prepends. Returns
// ErrUnknownNode if either node is missing, ErrNotContainer if the parent
// cannot hold children, ErrAlreadyAttached if the node still has a parent,
// or ErrWouldCycle if parentID is the node itself or one of its descendants.
func (t *Tree) Attach(id, parentID string, index int) error {
	n, ok := t.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	p, ok := t.nodes[parentID]
	if !ok {
		return ErrUnknownNode
	}
	if !p.Container {
		return ErrNotContainer
	}
	if n.ParentID != "" {
		return ErrAlreadyAttached
	}
	if id == parentID || t.IsDescendant(parentID, id) {
		return ErrWouldCycle
	}
	if index < 0 || index > len(p.Children) {
		index = len(p.Children)
	}
	p.Children = slices.Insert(p.Children, index, id)
	n.ParentID = parentID
	return nil
}

// Detach unlinks the node from its parent's children, leaving it indexed in
// the tree but unattached. Detaching an already detached node is a no-op.
// Returns ErrUnknownNode for missing nodes and ErrRootImmobile for the root.
func (t *Tree) Detach(id string) error {
	n, ok := t.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	if n.IsRoot() {
		return ErrRootImmobile
	}
	if n.ParentID == "" {
		return nil
	}
	if p, ok := t.nodes[n.ParentID]; ok {
		p.Children = slices.DeleteFunc(p.Children, func(s string) bool { return s == id })
	}
	n.ParentID = ""
	return nil
}

// Index returns the position of the node within its parent's children, or
// -1 if the node is missing, detached, or the root.
func (t *Tree) Index(id string) int {
	n, ok := t.nodes[id]
	if !ok || n.ParentID == "" {
		return -1
	}
	p, ok := t.nodes[n.ParentID]
	if !ok {
		return -1
	}
	return slices.Index(p.Children, id)
}

// Remove detaches the node and deletes it and its entire subtree from the
// index. Removed IDs are never reused. Returns ErrUnknownNode for missing
// nodes and ErrRootImmobile for the root.
func (t *Tree) Remove(id string) error {
	n, ok := t.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	if n.IsRoot() {
		return ErrRootImmobile
	}
	if err := t.Detach(id); err != nil {
		return err
	}
	var drop func(string)
	drop = func(id string) {
		n, ok := t.nodes[id]
		if !ok {
			return
		}
		for _, c := range n.Children {
			drop(c)
		}
		delete(t.nodes, id)
	}
	drop(id)
	return nil
}

// Walk visits the attached tree depth-first in document order, starting at
// the root. fn receives each node with its depth (root = 0) and returns
// false to skip the node's subtree.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	var visit func(id string, depth int)
	visit = func(id string, depth int) {
		n, ok := t.nodes[id]
		if !ok {
			return
		}
		if !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	visit(RootID, 0)
}

// Nodes returns all indexed nodes, including any that are detached.
// The order is not guaranteed.
func (t *Tree) Nodes() []*Node {
	nodes := make([]*Node, 0, len(t.nodes))
	for _, n := range t.nodes {
		nodes = append(nodes, n)
	}
	return nodes
}

// Validate checks tree integrity and returns nil if valid. It verifies:
//
//  1. The reserved root node exists and has no parent.
//  2. Every parent/child reference is bidirectional and appears exactly once.
//  3. Only containers list children.
//  4. The hierarchy is acyclic (every node reaches the root).
//
// Use this after loading a document or in tests; the structural primitives
// maintain these invariants during normal editing.
func (t *Tree) Validate() error {
	root, ok := t.nodes[RootID]
	if !ok {
		return ErrNoRoot
	}
	if root.ParentID != "" {
		return ErrBrokenLink
	}

	for _, n := range t.nodes {
		if len(n.Children) > 0 && !n.Container {
			return ErrLeafWithChildren
		}
		seen := make(map[string]bool, len(n.Children))
		for _, c := range n.Children {
			child, ok := t.nodes[c]
			if !ok || child.ParentID != n.ID || seen[c] {
				return ErrBrokenLink
			}
			seen[c] = true
		}
		if n.ParentID != "" {
			p, ok := t.nodes[n.ParentID]
			if !ok || !slices.Contains(p.Children, n.ID) {
				return ErrBrokenLink
			}
		}
	}

	return t.detectCycles()
}

func (t *Tree) detectCycles() error {
	// Every attached node must reach the root without revisiting itself.
	for id, n := range t.nodes {
		visited := map[string]bool{id: true}
		for n.ParentID != "" {
			if visited[n.ParentID] {
				return ErrWouldCycle
			}
			visited[n.ParentID] = true
			next, ok := t.nodes[n.ParentID]
			if !ok {
				return ErrBrokenLink
			}
			n = next
		}
	}
	return nil
}
