package drop

import (
	"errors"
	"slices"

	"github.com/pagegrid/pagegrid/pkg/scene"
)

var (
	// ErrInvalidTarget is returned by [Apply] when the descriptor's anchor
	// cannot structurally accept the insertion. This is a normal outcome
	// of user gestures, not an error surfaced to the user.
	ErrInvalidTarget = errors.New("target cannot accept the insertion")

	// ErrStaleDescriptor is returned by [Apply] when the descriptor
	// references a node that has left the tree since classification.
	ErrStaleDescriptor = errors.New("descriptor references a missing node")
)

// CanAccept reports whether the descriptor is a structurally legal
// insertion point. Inside and Between descriptors require the anchor itself
// to be a container; Before and After require the anchor's parent to be one,
// since the inserted node becomes the anchor's sibling. An anchor without a
// parent resolves to the root, which is always a container and always
// accepts.
func CanAccept(tree *scene.Tree, d Descriptor) bool {
	switch d.Position {
	case Inside, Between:
		return tree.IsContainer(d.TargetID)
	case Before, After:
		if !tree.Has(d.TargetID) {
			return false
		}
		parentID := tree.Parent(d.TargetID)
		if parentID == "" {
			return true // root assumed
		}
		return tree.IsContainer(parentID)
	}
	return false
}

// Apply commits the descriptor: it resolves the destination parent and
// child index, validates capability and cycle rules, and performs the edit.
// A node that already lives elsewhere in the tree is detached and
// re-inserted as a single logical operation, so observers never see it
// twice or not at all.
//
// Moving a node into itself or one of its own descendants returns
// scene.ErrWouldCycle and leaves the tree unchanged. All failures are
// no-ops on the tree.
func Apply(tree *scene.Tree, id string, d Descriptor) error {
	if !tree.Has(id) {
		return scene.ErrUnknownNode
	}
	if !CanAccept(tree, d) {
		if !tree.Has(d.TargetID) {
			return ErrStaleDescriptor
		}
		return ErrInvalidTarget
	}

	parentID, err := destinationParent(tree, d)
	if err != nil {
		return err
	}
	if id == parentID || tree.IsDescendant(parentID, id) {
		return scene.ErrWouldCycle
	}
	if id == d.TargetID {
		return scene.ErrWouldCycle
	}
	if d.Position == Between && d.ReferenceID != "" &&
		!slices.Contains(tree.Children(parentID), d.ReferenceID) {
		return ErrStaleDescriptor
	}

	// Validation is complete: detach first so the index computed below
	// already accounts for the node leaving its old slot.
	prevParent := tree.Parent(id)
	prevIndex := tree.Index(id)
	if prevParent != "" {
		if err := tree.Detach(id); err != nil {
			return err
		}
	}

	index := destinationIndex(tree, d, parentID)
	if err := tree.Attach(id, parentID, index); err != nil {
		// Should be unreachable after validation; restore the old slot so
		// a failed commit never strands the node outside the tree.
		if prevParent != "" {
			_ = tree.Attach(id, prevParent, prevIndex)
		}
		return err
	}
	return nil
}

// Fallback appends a freshly created node under the root. It is used for
// palette drops that resolved no descriptor: the node keeps a literal
// placement at the drop point instead of a flow position.
func Fallback(tree *scene.Tree, id string, at Point) error {
	if n, ok := tree.Get(id); ok {
		n.Placement = &scene.Placement{X: at.X, Y: at.Y}
	}
	return tree.Attach(id, scene.RootID, -1)
}

// destinationParent resolves which container receives the node.
func destinationParent(tree *scene.Tree, d Descriptor) (string, error) {
	switch d.Position {
	case Inside, Between:
		return d.TargetID, nil
	case Before, After:
		if parentID := tree.Parent(d.TargetID); parentID != "" {
			return parentID, nil
		}
		return scene.RootID, nil
	}
	return "", ErrInvalidTarget
}

// destinationIndex resolves the child index within the destination parent.
// It runs after the moved node has been detached, so sibling indices are
// already final.
func destinationIndex(tree *scene.Tree, d Descriptor, parentID string) int {
	children := tree.Children(parentID)
	switch d.Position {
	case Inside:
		if d.EmptyContainerHint {
			return 0
		}
		return -1
	case Between:
		if d.ReferenceID == "" {
			return -1
		}
		if i := slices.Index(children, d.ReferenceID); i >= 0 {
			return i
		}
		return -1
	case Before:
		if i := slices.Index(children, d.TargetID); i >= 0 {
			return i
		}
		return -1
	case After:
		if i := slices.Index(children, d.TargetID); i >= 0 {
			return i + 1
		}
		return -1
	}
	return -1
}
