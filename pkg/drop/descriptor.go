// Package drop implements the spatial hit-testing, zone-classification and
// tree-reordering engine behind direct-manipulation page editing: it
// classifies where a dragged or newly created node would land relative to
// existing nodes, validates the landing spot against structural capability
// rules, and performs the hierarchy edit.
//
// The engine is driven by an imperative pointer-event stream (see [Session])
// and queries live geometry through the narrow [Host] interface. All
// operations are synchronous and run on the single UI event thread.
package drop

import "fmt"

// Position classifies where a pending insertion lands relative to the
// descriptor's target node.
type Position int

const (
	// Before inserts as a sibling immediately preceding the target.
	Before Position = iota
	// After inserts as a sibling immediately following the target.
	After
	// Inside appends (or, with the empty-container hint, prepends) as a
	// child of the target container.
	Inside
	// Between inserts into the target container immediately before the
	// reference sibling, or appends when no reference is set.
	Between
)

// String returns the lowercase position name.
func (p Position) String() string {
	switch p {
	case Before:
		return "before"
	case After:
		return "after"
	case Inside:
		return "inside"
	case Between:
		return "between"
	}
	return fmt.Sprintf("Position(%d)", int(p))
}

// Descriptor describes where a pending element would land. It is a pure
// value: producing one has no side effects, and it only becomes a tree edit
// when passed to [Apply].
type Descriptor struct {
	// Position is the insertion classification.
	Position Position

	// TargetID anchors the descriptor: a sibling for Before/After, the
	// container for Inside and Between.
	TargetID string

	// ReferenceID is the sibling immediately following the insertion
	// point for Between descriptors. Empty means append.
	ReferenceID string

	// Bounds is a rectangle in viewport coordinates for feedback rendering
	// only; it carries no structural meaning.
	Bounds Rect

	// EmptyContainerHint is true when the target container currently has
	// no children and the pointer favored its upper half, biasing
	// "insert at start" over "append".
	EmptyContainerHint bool
}

// Context identifies which interaction invoked the classifier. Each context
// enables a different eligibility filter upstream; the classifier itself
// only distinguishes genuine drags from point-and-click insertion.
type Context int

const (
	// ContextReorder is an active drag of an existing node.
	ContextReorder Context = iota
	// ContextPalette is an active drag of a component from the palette.
	ContextPalette
	// ContextClickInsert is point-and-click insertion with a creation tool
	// selected; the sibling-gap sub-algorithm is disabled for it.
	ContextClickInsert
)

// IsDrag reports whether the context is a genuine drag gesture.
func (c Context) IsDrag() bool { return c != ContextClickInsert }
