package drop

import "github.com/pagegrid/pagegrid/pkg/scene"

// DeepestDroppableAt maps a viewport point to the most specific legitimate
// node under it. It walks the host's surface stack front-to-back, skipping
// transient overlays, surfaces that render no scene node, self-hits on the
// node currently being dragged, and stale surfaces whose node has already
// left the tree. The root is returned when nothing else qualifies, so every
// point always resolves to a valid target.
//
// draggedID is empty when no drag is in progress.
func DeepestDroppableAt(host Host, tree *scene.Tree, p Point, draggedID string) string {
	for _, s := range host.SurfacesAt(p) {
		if s.Overlay || s.NodeID == "" {
			continue
		}
		if draggedID != "" && s.NodeID == draggedID {
			continue
		}
		if !tree.Has(s.NodeID) {
			continue
		}
		return s.NodeID
	}
	return scene.RootID
}
