package drop

// OverlayKind distinguishes the renderable shapes of insertion feedback.
type OverlayKind int

const (
	// OverlayLine is a thin horizontal insertion line.
	OverlayLine OverlayKind = iota
	// OverlayBox is a highlight box covering a container's rectangle.
	OverlayBox
)

// Overlay is the renderable geometry for the current descriptor. It is
// purely derived state: the host draws it as a transient surface (tagged
// Overlay so hit-testing skips it) and discards it when the descriptor
// changes or the session ends.
type Overlay struct {
	Kind OverlayKind
	Rect Rect // lines have Height 0 at the insertion y
}

// Project maps a descriptor to its overlay geometry.
//
// Before and After project a line along the anchor's top or bottom edge,
// Between projects the classifier's gap line, and Inside projects a box
// over the container (its upper half when the empty-container hint biases
// insertion at the start).
func Project(d Descriptor) Overlay {
	switch d.Position {
	case Before:
		return Overlay{Kind: OverlayLine, Rect: Rect{
			Left:  d.Bounds.Left,
			Top:   d.Bounds.Top,
			Width: d.Bounds.Width,
		}}
	case After:
		return Overlay{Kind: OverlayLine, Rect: Rect{
			Left:  d.Bounds.Left,
			Top:   d.Bounds.Bottom(),
			Width: d.Bounds.Width,
		}}
	case Between:
		return Overlay{Kind: OverlayLine, Rect: Rect{
			Left:  d.Bounds.Left,
			Top:   d.Bounds.Top,
			Width: d.Bounds.Width,
		}}
	}

	box := d.Bounds
	if d.EmptyContainerHint {
		box.Height /= 2
	}
	return Overlay{Kind: OverlayBox, Rect: box}
}
