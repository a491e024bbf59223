package drop

import "github.com/pagegrid/pagegrid/pkg/scene"

// Classification constants. These are fixed viewport units, deliberately
// independent of zoom level and node size: the host normalizes coordinates
// by its zoom factor before they reach the classifier.
const (
	// bandTop and bandBottom split a node's rectangle into the three
	// vertical bands used for before/after/inside classification.
	bandTop    = 0.25
	bandBottom = 0.75

	// DragThreshold is the pointer movement distance, measured from the
	// initiating pointer-down, that turns a pending press into an active
	// drag. It keeps ordinary clicks from being misread as drags.
	DragThreshold = 8.0

	// gapPadding extends each sibling-gap detection window past the child
	// edges that bound it.
	gapPadding = 4.0

	// appendSpacing sizes the window below a container's last child that
	// classifies as "append after last".
	appendSpacing = 12.0
)

// Classify produces an insertion descriptor for a point over the hovered
// node, or nil when no legal indicator applies. hoveredID normally comes
// from [DeepestDroppableAt]; draggedID is the node being moved during a
// reorder drag and is excluded from sibling candidacy (empty otherwise).
//
// Lookup misses - the hovered node vanished from the tree, or the host has
// no geometry for it - yield the root fallback or nil rather than an error:
// classification is re-run on every pointer move, so a clean result one
// frame later heals the gap.
func Classify(tree *scene.Tree, host Host, hoveredID string, p Point, ctx Context, draggedID string) *Descriptor {
	if hoveredID == scene.RootID || !tree.Has(hoveredID) {
		return rootFallback(host)
	}
	rect, ok := host.RectOf(hoveredID)
	if !ok || rect.Height <= 0 {
		return nil
	}

	relY := (p.Y - rect.Top) / rect.Height

	if !tree.IsContainer(hoveredID) {
		switch {
		case relY < bandTop:
			return &Descriptor{Position: Before, TargetID: hoveredID, Bounds: rect}
		case relY > bandBottom:
			return &Descriptor{Position: After, TargetID: hoveredID, Bounds: rect}
		}
		// Non-containers never accept "inside".
		return nil
	}

	children := visibleChildren(tree, hoveredID, draggedID)
	if len(children) > 0 && ctx.IsDrag() {
		if d := classifyGaps(tree, host, hoveredID, rect, children, p); d != nil {
			return d
		}
	}

	switch {
	case relY < bandTop:
		return &Descriptor{Position: Before, TargetID: hoveredID, Bounds: rect}
	case relY > bandBottom:
		return &Descriptor{Position: After, TargetID: hoveredID, Bounds: rect}
	}
	d := &Descriptor{Position: Inside, TargetID: hoveredID, Bounds: rect}
	if len(tree.Children(hoveredID)) == 0 {
		d.EmptyContainerHint = relY < 0.5
	}
	return d
}

// rootFallback is the "drop onto page background" descriptor: inside the
// root, covering its full rectangle.
func rootFallback(host Host) *Descriptor {
	rect, _ := host.RectOf(scene.RootID)
	return &Descriptor{Position: Inside, TargetID: scene.RootID, Bounds: rect}
}

// visibleChildren returns the container's children minus the node being
// dragged, which must not serve as a sibling reference for its own drop.
func visibleChildren(tree *scene.Tree, containerID, draggedID string) []string {
	children := tree.Children(containerID)
	if draggedID == "" {
		return children
	}
	out := make([]string, 0, len(children))
	for _, c := range children {
		if c != draggedID {
			out = append(out, c)
		}
	}
	return out
}

// classifyGaps runs the sibling-gap sub-algorithm against a container with
// at least one visible child. Each gap between adjacent children gets a
// detection window from gapPadding above the upper child's bottom edge to
// gapPadding below the lower child's top edge; the strip above the first
// child and the appendSpacing strip below the last child get symmetric
// windows. A hit returns a Between descriptor whose reference is the
// sibling that would follow the new position (empty for append-after-last),
// with Bounds set to a thin indicator line across the container.
//
// Children without live geometry are skipped for the frame.
func classifyGaps(tree *scene.Tree, host Host, containerID string, containerRect Rect, children []string, p Point) *Descriptor {
	rects := make([]Rect, 0, len(children))
	ids := make([]string, 0, len(children))
	for _, c := range children {
		r, ok := host.RectOf(c)
		if !ok {
			continue
		}
		rects = append(rects, r)
		ids = append(ids, c)
	}
	if len(ids) == 0 {
		return nil
	}

	between := func(referenceID string, lineY float64) *Descriptor {
		return &Descriptor{
			Position:    Between,
			TargetID:    containerID,
			ReferenceID: referenceID,
			Bounds: Rect{
				Left:  containerRect.Left,
				Top:   lineY,
				Width: containerRect.Width,
			},
		}
	}

	// Insert before the first child.
	first := rects[0]
	if p.Y >= first.Top-gapPadding && p.Y <= first.Top+gapPadding {
		return between(ids[0], first.Top)
	}

	// Gaps between adjacent children.
	for i := 0; i < len(ids)-1; i++ {
		lo := rects[i].Bottom() - gapPadding
		hi := rects[i+1].Top + gapPadding
		if p.Y >= lo && p.Y <= hi {
			return between(ids[i+1], (rects[i].Bottom()+rects[i+1].Top)/2)
		}
	}

	// Append after the last child.
	last := rects[len(rects)-1]
	if p.Y >= last.Bottom()-gapPadding && p.Y <= last.Bottom()+appendSpacing {
		return between("", last.Bottom())
	}

	return nil
}
