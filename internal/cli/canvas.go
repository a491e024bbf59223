package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pagegrid/pagegrid/pkg/drop"
	"github.com/pagegrid/pagegrid/pkg/scene"
)

// Layout constants, in terminal cells.
const (
	canvasPad     = 1 // inset between a container border and its children
	canvasGap     = 1 // vertical gap between siblings
	leafMinHeight = 3
	leafMaxHeight = 8
	literalWidth  = 20 // default box size for literally placed nodes
	literalHeight = 3
)

// canvas lays a scene tree out in screen cells and doubles as the host the
// interaction engine queries for live geometry. Rectangles are kept in
// absolute screen coordinates so mouse events map onto them directly.
type canvas struct {
	tree  *scene.Tree
	area  drop.Rect
	rects map[string]drop.Rect
	order []string // document order, parents before children
}

func newCanvas(tree *scene.Tree) *canvas {
	return &canvas{tree: tree, rects: make(map[string]drop.Rect)}
}

// resize sets the viewport and lays the tree out again.
func (v *canvas) resize(area drop.Rect) {
	v.area = area
	v.layout()
}

// layout recomputes every node rectangle from the current tree. Nodes with a
// literal placement sit at their recorded coordinates; everything else flows
// top to bottom inside its parent.
func (v *canvas) layout() {
	v.rects = make(map[string]drop.Rect, v.tree.Len())
	v.order = v.order[:0]
	if v.area.Width <= 0 || v.area.Height <= 0 {
		return
	}

	v.rects[scene.RootID] = v.area
	v.order = append(v.order, scene.RootID)

	x := v.area.Left + 1 + canvasPad
	width := v.area.Width - 2 - 2*canvasPad
	y := v.area.Top + 1 + canvasPad
	for _, id := range v.tree.Children(scene.RootID) {
		if n, ok := v.tree.Get(id); ok && n.Placement != nil {
			v.placeLiteral(n)
			continue
		}
		h := v.place(id, x, y, width)
		y += h + canvasGap
	}
}

// place positions one node and its subtree, returning the node's height.
func (v *canvas) place(id string, x, y, width float64) float64 {
	n, ok := v.tree.Get(id)
	if !ok {
		return 0
	}
	v.order = append(v.order, id)

	var height float64
	if n.Container {
		inner := width - 2 - 2*canvasPad
		childY := y + 1 + canvasPad
		var used float64
		for _, cid := range n.Children {
			ch := v.place(cid, x+1+canvasPad, childY+used, inner)
			used += ch + canvasGap
		}
		if len(n.Children) > 0 {
			used -= canvasGap
		}
		height = used + 2 + 2*canvasPad
		if height < 4 {
			height = 4 // empty containers keep a droppable interior
		}
	} else {
		height = leafHeight(n)
	}

	v.rects[id] = drop.Rect{Left: x, Top: y, Width: width, Height: height}
	return height
}

// placeLiteral positions a fallback-dropped node at its recorded coordinates,
// clamped into the viewport.
func (v *canvas) placeLiteral(n *scene.Node) {
	v.order = append(v.order, n.ID)

	w := metaFloat(n.Meta["width"], literalWidth)
	h := metaFloat(n.Meta["height"], literalHeight)
	if h < leafMinHeight {
		h = leafMinHeight
	}
	x := n.Placement.X
	y := n.Placement.Y
	if x+w > v.area.Right() {
		x = v.area.Right() - w
	}
	if y+h > v.area.Bottom() {
		y = v.area.Bottom() - h
	}
	if x < v.area.Left {
		x = v.area.Left
	}
	if y < v.area.Top {
		y = v.area.Top
	}
	v.rects[n.ID] = drop.Rect{Left: x, Top: y, Width: w, Height: h}
}

func leafHeight(n *scene.Node) float64 {
	h := metaFloat(n.Meta["height"], leafMinHeight)
	if h < leafMinHeight {
		h = leafMinHeight
	}
	if h > leafMaxHeight {
		h = leafMaxHeight
	}
	return h
}

// metaFloat reads a numeric size hint; TOML gives int64, JSON float64.
func metaFloat(val any, fallback float64) float64 {
	switch x := val.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	case int:
		return float64(x)
	}
	return fallback
}

// =============================================================================
// Host
// =============================================================================

// SurfacesAt returns the droppable surfaces under p, deepest first. Reverse
// document order puts descendants before their ancestors, and literally
// placed siblings drawn later win over earlier ones.
func (v *canvas) SurfacesAt(p drop.Point) []drop.Surface {
	var out []drop.Surface
	for i := len(v.order) - 1; i >= 0; i-- {
		id := v.order[i]
		if r, ok := v.rects[id]; ok && r.Contains(p) {
			out = append(out, drop.Surface{NodeID: id})
		}
	}
	return out
}

// RectOf returns the rectangle of a laid-out node.
func (v *canvas) RectOf(nodeID string) (drop.Rect, bool) {
	r, ok := v.rects[nodeID]
	return r, ok
}

// nodeAt returns the deepest node under p, or "" when p misses the canvas.
func (v *canvas) nodeAt(p drop.Point) string {
	if s := v.SurfacesAt(p); len(s) > 0 {
		return s[0].NodeID
	}
	return ""
}

var _ drop.Host = (*canvas)(nil)

// =============================================================================
// Rendering
// =============================================================================

// Cell style classes for the character grid.
const (
	cellPlain byte = iota
	cellBorder
	cellSelected
	cellHover
	cellOverlay
	cellLabel
	cellDim
)

// render draws the laid-out tree as styled text. The dragged node is dimmed,
// the hovered node gets a highlight border, and the overlay (when present)
// is drawn last so the insertion indicator is never obscured.
func (v *canvas) render(selected, hovered, dragged string, overlay *drop.Overlay) string {
	w := int(v.area.Width)
	h := int(v.area.Height)
	if w <= 0 || h <= 0 {
		return ""
	}

	runes := make([][]rune, h)
	styles := make([][]byte, h)
	for i := range runes {
		runes[i] = []rune(strings.Repeat(" ", w))
		styles[i] = make([]byte, w)
	}

	for _, id := range v.order {
		n, ok := v.tree.Get(id)
		if !ok {
			continue
		}
		r := v.rects[id]

		style := cellBorder
		switch {
		case id == dragged:
			style = cellDim
		case id == hovered && hovered != scene.RootID:
			style = cellHover
		case id == selected:
			style = cellSelected
		}
		v.drawBox(runes, styles, r, nodeTitle(n), style)
	}

	if overlay != nil {
		if overlay.Kind == drop.OverlayLine {
			v.drawLine(runes, styles, overlay.Rect)
		} else {
			v.drawBox(runes, styles, overlay.Rect, "", cellOverlay)
		}
	}

	var b strings.Builder
	for row := 0; row < h; row++ {
		b.WriteString(renderRow(runes[row], styles[row]))
		if row < h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// drawBox draws a bordered box with the title embedded in the top edge.
func (v *canvas) drawBox(runes [][]rune, styles [][]byte, r drop.Rect, title string, style byte) {
	left := int(r.Left - v.area.Left)
	top := int(r.Top - v.area.Top)
	right := left + int(r.Width) - 1
	bottom := top + int(r.Height) - 1

	for x := left; x <= right; x++ {
		v.set(runes, styles, x, top, '─', style)
		v.set(runes, styles, x, bottom, '─', style)
	}
	for y := top; y <= bottom; y++ {
		v.set(runes, styles, left, y, '│', style)
		v.set(runes, styles, right, y, '│', style)
	}
	v.set(runes, styles, left, top, '┌', style)
	v.set(runes, styles, right, top, '┐', style)
	v.set(runes, styles, left, bottom, '└', style)
	v.set(runes, styles, right, bottom, '┘', style)

	labelStyle := cellLabel
	if style == cellDim {
		labelStyle = cellDim
	}
	max := right - left - 3
	if max > 0 && title != "" {
		t := []rune(" " + title + " ")
		if len(t) > max {
			t = t[:max]
		}
		for i, ch := range t {
			v.set(runes, styles, left+2+i, top, ch, labelStyle)
		}
	}
}

// drawLine draws a horizontal insertion indicator.
func (v *canvas) drawLine(runes [][]rune, styles [][]byte, r drop.Rect) {
	left := int(r.Left - v.area.Left)
	y := int(r.Top - v.area.Top)
	for x := left; x < left+int(r.Width); x++ {
		v.set(runes, styles, x, y, '═', cellOverlay)
	}
	v.set(runes, styles, left, y, '╞', cellOverlay)
	v.set(runes, styles, left+int(r.Width)-1, y, '╡', cellOverlay)
}

func (v *canvas) set(runes [][]rune, styles [][]byte, x, y int, ch rune, style byte) {
	if y < 0 || y >= len(runes) || x < 0 || x >= len(runes[y]) {
		return
	}
	runes[y][x] = ch
	styles[y][x] = style
}

// renderRow converts one grid row to a styled string, batching runs of the
// same style class into single lipgloss renders.
func renderRow(runes []rune, styles []byte) string {
	var b strings.Builder
	start := 0
	for i := 1; i <= len(runes); i++ {
		if i < len(runes) && styles[i] == styles[start] {
			continue
		}
		seg := string(runes[start:i])
		b.WriteString(cellStyle(styles[start]).Render(seg))
		start = i
	}
	return b.String()
}

func cellStyle(class byte) lipgloss.Style {
	switch class {
	case cellBorder:
		return styleNodeBorder
	case cellSelected:
		return styleSelectedBorder
	case cellHover:
		return styleHoverBorder
	case cellOverlay:
		return styleOverlay
	case cellLabel:
		return styleNodeLabel
	case cellDim:
		return StyleDim
	}
	return lipgloss.NewStyle()
}

// nodeTitle picks the text shown on a node's top border.
func nodeTitle(n *scene.Node) string {
	if n.IsRoot() {
		return "Page"
	}
	if n.Label != "" {
		return n.Label
	}
	return n.Type
}
