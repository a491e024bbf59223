package drop

// Surface is one rendered layer under a viewport point, as reported by the
// render host. Non-overlay surfaces carry the ID of the scene node they
// render; overlay surfaces are transient feedback chrome (ghost previews,
// indicator lines, selection outlines) and are never drop targets.
type Surface struct {
	NodeID  string // scene node ID, empty for chrome that renders no node
	Overlay bool   // transient feedback layer, skipped by hit-testing
}

// Host is the narrow interface the interaction core needs from the render
// host. Both queries are synchronous and must reflect the live render state,
// already normalized for the canvas zoom factor. Isolating the host behind
// this interface lets the classifier and resolver be unit-tested against
// synthetic rectangles with no real render surface.
type Host interface {
	// SurfacesAt returns the ordered stack of rendered surfaces under the
	// point, front-to-back.
	SurfacesAt(p Point) []Surface

	// RectOf returns the current on-screen rectangle of the node, in the
	// same coordinate space as input points. ok is false when the host has
	// no geometry for the node, e.g. mid re-render.
	RectOf(nodeID string) (r Rect, ok bool)
}
