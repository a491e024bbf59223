package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/pagegrid/pagegrid/pkg/drop"
	"github.com/pagegrid/pagegrid/pkg/palette"
	"github.com/pagegrid/pagegrid/pkg/scene"
)

const sidebarWidth = 24

// editorModel is the bubbletea model for the interactive page editor. All
// pointer events are translated into drag-session calls; the session owns
// gesture state while the model owns selection, the insert tool and saving.
type editorModel struct {
	tree    *scene.Tree
	pal     palette.Palette
	src     docSource
	title   string
	logger  *log.Logger
	canvas  *canvas
	session *drop.Session

	selected   string
	insertType string // click-insert tool; empty when off
	status     string
	dirty      bool
	width      int
	height     int
	quitting   bool
}

func newEditorModel(tree *scene.Tree, pal palette.Palette, src docSource, title string, logger *log.Logger) editorModel {
	cv := newCanvas(tree)
	return editorModel{
		tree:    tree,
		pal:     pal,
		src:     src,
		title:   title,
		logger:  logger,
		canvas:  cv,
		session: drop.NewSession(tree, cv),
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.canvas.resize(m.canvasArea())
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

// canvasArea is the screen region left of the sidebar, below the header row
// and above the status row.
func (m editorModel) canvasArea() drop.Rect {
	w := m.width - sidebarWidth
	if w < 10 {
		w = 10
	}
	h := m.height - 2
	if h < 4 {
		h = 4
	}
	return drop.Rect{Left: 0, Top: 1, Width: float64(w), Height: float64(h)}
}

func (m editorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "s", "ctrl+s":
		dest, err := m.src.save(context.Background(), m.tree, m.title)
		if err != nil {
			m.status = "save failed: " + err.Error()
			m.logger.Error("save failed", "err", err)
			return m, nil
		}
		m.dirty = false
		m.status = "saved to " + dest
		return m, nil

	case "esc":
		if restore := m.session.Cancel(); restore != "" {
			m.selected = restore
			m.status = "drag cancelled"
			return m, nil
		}
		if m.insertType != "" {
			m.insertType = ""
			m.status = "insert tool off"
			return m, nil
		}
		m.selected = ""
		return m, nil

	case "down", "j":
		m.selected = m.neighbor(m.selected, +1)
		return m, nil
	case "up", "k":
		m.selected = m.neighbor(m.selected, -1)
		return m, nil

	case "x", "delete":
		if m.selected == "" || m.selected == scene.RootID {
			return m, nil
		}
		if err := m.tree.Remove(m.selected); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = "deleted"
		m.selected = ""
		m.dirty = true
		m.canvas.layout()
		return m, nil
	}

	// Digits select the click-insert tool from the palette.
	if len(msg.String()) == 1 && msg.String() >= "1" && msg.String() <= "9" {
		i := int(msg.String()[0] - '1')
		if i < len(m.pal.Components) {
			m.insertType = m.pal.Components[i].Type
			m.status = "insert tool: " + m.insertType + " (click to place, esc to clear)"
		}
		return m, nil
	}
	return m, nil
}

func (m editorModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionMotion {
		return m, nil
	}
	p := drop.Point{X: float64(msg.X), Y: float64(msg.Y)}

	switch msg.Action {
	case tea.MouseActionPress:
		if i := m.sidebarIndexAt(msg.X, msg.Y); i >= 0 {
			m.session.ArmPalette(m.pal.Components[i].Ref())
			m.session.PointerDown(p)
			return m, nil
		}
		if m.insertType != "" {
			return m.clickInsert(p), nil
		}
		if id := m.canvas.nodeAt(p); id != "" && id != scene.RootID {
			m.selected = id
			m.session.ArmReorder(id)
			m.session.PointerDown(p)
		}
	case tea.MouseActionMotion:
		m.session.PointerMove(p)
	case tea.MouseActionRelease:
		if commit, ok := m.session.PointerUp(p); ok {
			return m.applyCommit(commit), nil
		}
	}
	return m, nil
}

// clickInsert places a new component with the point-and-click tool. The gap
// sub-algorithm is disabled for this context, so the classification is the
// plain band split of whatever the click landed on.
func (m editorModel) clickInsert(p drop.Point) editorModel {
	hovered := drop.DeepestDroppableAt(m.canvas, m.tree, p, "")
	desc := drop.Classify(m.tree, m.canvas, hovered, p, drop.ContextClickInsert, "")

	node, err := m.pal.Instantiate(m.insertType)
	if err != nil {
		m.status = err.Error()
		return m
	}
	if err := m.tree.AddNode(node); err != nil {
		m.status = err.Error()
		return m
	}
	if desc == nil {
		_ = drop.Fallback(m.tree, node.ID, p)
	} else if err := drop.Apply(m.tree, node.ID, *desc); err != nil {
		_ = drop.Fallback(m.tree, node.ID, p)
	}
	m.selected = node.ID
	m.dirty = true
	m.status = "inserted " + m.insertType
	m.canvas.layout()
	return m
}

// applyCommit resolves a released drag. Reorders with no descriptor land
// nowhere and the tree stays untouched; palette drops always produce a node,
// falling back to a literal placement under the root when the descriptor is
// missing or rejected.
func (m editorModel) applyCommit(c drop.Commit) editorModel {
	switch c.Context {
	case drop.ContextReorder:
		if c.Descriptor == nil {
			m.status = "no drop target"
			return m
		}
		if err := drop.Apply(m.tree, c.NodeID, *c.Descriptor); err != nil {
			m.status = dropErrorMessage(err)
			m.logger.Debug("drop rejected", "node", c.NodeID, "err", err)
			return m
		}
		m.selected = c.NodeID
		m.status = "moved " + m.nodeName(c.NodeID)

	case drop.ContextPalette:
		typeName, err := palette.ParseRef(c.Payload)
		if err != nil {
			// Not a component reference: abort locally, nothing to clean up.
			m.status = "unrecognized drag payload"
			return m
		}
		node, err := m.pal.Instantiate(typeName)
		if err != nil {
			m.status = err.Error()
			return m
		}
		if err := m.tree.AddNode(node); err != nil {
			m.status = err.Error()
			return m
		}
		if c.Descriptor == nil {
			_ = drop.Fallback(m.tree, node.ID, c.At)
			m.status = "placed " + typeName + " at drop point"
		} else if err := drop.Apply(m.tree, node.ID, *c.Descriptor); err != nil {
			_ = drop.Fallback(m.tree, node.ID, c.At)
			m.status = "placed " + typeName + " at drop point"
		} else {
			m.status = "inserted " + typeName
		}
		m.selected = node.ID
	}

	m.dirty = true
	m.canvas.layout()
	return m
}

// dropErrorMessage maps resolver errors to short status text.
func dropErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, scene.ErrWouldCycle):
		return "cannot drop a container into itself"
	case errors.Is(err, drop.ErrInvalidTarget):
		return "target cannot hold components"
	case errors.Is(err, drop.ErrStaleDescriptor):
		return "drop target no longer exists"
	default:
		return err.Error()
	}
}

// neighbor moves the selection through document order, skipping the root.
func (m editorModel) neighbor(id string, delta int) string {
	order := m.canvas.order
	if len(order) <= 1 {
		return id
	}
	idx := -1
	for i, o := range order {
		if o == id {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 1 {
		idx = 1
	}
	if idx >= len(order) {
		idx = len(order) - 1
	}
	return order[idx]
}

func (m editorModel) nodeName(id string) string {
	if n, ok := m.tree.Get(id); ok {
		return nodeTitle(n)
	}
	return id
}

// =============================================================================
// View
// =============================================================================

func (m editorModel) View() string {
	if m.quitting || m.width == 0 {
		return ""
	}

	var overlay *drop.Overlay
	if d := m.session.Descriptor(); d != nil {
		o := drop.Project(*d)
		overlay = &o
	}

	body := m.canvas.render(m.selected, m.session.HoveredID(), m.session.DraggedID(), overlay)
	sidebar := m.renderSidebar(int(m.canvasArea().Height))

	return m.renderHeader() + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, body, sidebar) + "\n" +
		m.renderStatus()
}

func (m editorModel) renderHeader() string {
	title := m.title
	if title == "" {
		title = "untitled"
	}
	if m.dirty {
		title += " *"
	}
	return StyleTitle.Render(" "+appName) + StyleDim.Render(" · ") + StyleValue.Render(title)
}

func (m editorModel) renderSidebar(height int) string {
	var b strings.Builder
	b.WriteString(" " + StyleTitle.Render("Components") + "\n")
	for i, c := range m.pal.Components {
		line := fmt.Sprintf(" %d. %s", i+1, c.Label)
		if c.Container {
			line += " ▣"
		}
		if c.Type == m.insertType {
			b.WriteString(styleSidebarCursor.Render(line + " ◂"))
		} else {
			b.WriteString(styleSidebarEntry.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + StyleDim.Render(" drag onto the page,") + "\n")
	b.WriteString(StyleDim.Render(" or press 1-9 + click") + "\n")

	// Tree outline below the palette, truncated to the remaining rows.
	b.WriteString("\n " + StyleTitle.Render("Outline") + "\n")
	rows := height - len(m.pal.Components) - 6
	m.tree.Walk(func(n *scene.Node, depth int) bool {
		if rows <= 0 {
			return false
		}
		rows--
		line := " " + strings.Repeat("  ", depth) + nodeTitle(n)
		if n.ID == m.selected {
			b.WriteString(styleSidebarCursor.Render(line + " ◂"))
		} else {
			b.WriteString(styleSidebarEntry.Render(line))
		}
		b.WriteString("\n")
		return true
	})

	return lipgloss.NewStyle().Width(sidebarWidth).Height(height).Render(b.String())
}

func (m editorModel) renderStatus() string {
	state := m.session.State()
	left := m.status
	if state == drop.StateActive {
		left = "dragging " + m.nodeName(m.session.DraggedID())
		if d := m.session.Descriptor(); d != nil {
			left += " · " + d.Position.String() + " " + m.nodeName(d.TargetID)
		}
	}
	help := "s save · x delete · esc cancel · q quit"
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(help) - 2
	if gap < 1 {
		gap = 1
	}
	return styleStatusBar.Render(" "+left) + strings.Repeat(" ", gap) + StyleDim.Render(help+" ")
}

// sidebarIndexAt maps a screen cell to a palette entry index, or -1.
func (m editorModel) sidebarIndexAt(x, y int) int {
	if x < m.width-sidebarWidth {
		return -1
	}
	// Header row, then the sidebar title, then one row per entry.
	i := y - 2
	if i < 0 || i >= len(m.pal.Components) {
		return -1
	}
	return i
}
