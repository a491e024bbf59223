package drop

import (
	"fmt"
	"math"

	"github.com/pagegrid/pagegrid/pkg/scene"
)

// State is the lifecycle phase of a drag session.
type State int

const (
	// StateIdle means no gesture is in progress.
	StateIdle State = iota
	// StateArmed means a potential drag source has been engaged (a node or
	// its handle, or a palette entry); selection has already happened.
	StateArmed
	// StateThresholdPending means the pointer is down but has not yet
	// moved past the drag threshold.
	StateThresholdPending
	// StateActive means the drag is live: every pointer move re-runs
	// hit-testing and classification.
	StateActive
	// StateResolving means the pointer was released and the commit is
	// being validated and applied.
	StateResolving
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateThresholdPending:
		return "threshold-pending"
	case StateActive:
		return "active"
	case StateResolving:
		return "resolving"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Commit is the outcome of a released drag, handed to the surrounding UI to
// apply via [Apply] (and then re-select the node). For palette drags the
// node does not exist yet: Payload carries the opaque component reference
// the UI instantiates before committing.
type Commit struct {
	Context    Context
	NodeID     string      // node being moved; empty for palette drags
	Payload    string      // palette component reference; empty for reorders
	Descriptor *Descriptor // nil when the drop resolved nowhere
	At         Point       // release point, for fallback placement only
}

// Session is the mutable state of one drag gesture. It owns the current
// descriptor exclusively: each pointer move replaces it (last-write-wins,
// no queueing), and every gesture end - release, cancel, error - resets the
// session unconditionally, so no descriptor survives its gesture.
//
// Session never mutates the tree; it reads it to classify and leaves the
// edit to the resolver. It is not safe for concurrent use and is meant to
// live on the UI event thread.
type Session struct {
	tree *scene.Tree
	host Host

	state     State
	ctx       Context
	draggedID string
	payload   string
	start     Point
	hoveredID string
	desc      *Descriptor
}

// NewSession creates an idle session bound to the tree and render host.
func NewSession(tree *scene.Tree, host Host) *Session {
	return &Session{tree: tree, host: host}
}

// State returns the current lifecycle phase.
func (s *Session) State() State { return s.state }

// DraggedID returns the node being reordered, or "" for palette drags and
// idle sessions.
func (s *Session) DraggedID() string {
	if s.state == StateIdle {
		return ""
	}
	return s.draggedID
}

// HoveredID returns the node currently under the pointer during an active
// drag, for highlight rendering.
func (s *Session) HoveredID() string { return s.hoveredID }

// Descriptor returns the descriptor computed by the most recent pointer
// move, or nil when the current frame resolved no legal indicator.
func (s *Session) Descriptor() *Descriptor { return s.desc }

// ArmReorder engages nodeID as a reorder drag source. The caller selects
// the node immediately; dragging starts only after the pointer travels past
// the threshold. Arming the root or an unknown node is ignored.
func (s *Session) ArmReorder(nodeID string) {
	if nodeID == scene.RootID || !s.tree.Has(nodeID) {
		return
	}
	s.reset()
	s.state = StateArmed
	s.ctx = ContextReorder
	s.draggedID = nodeID
}

// ArmPalette engages a component drag carrying an opaque palette payload.
func (s *Session) ArmPalette(payload string) {
	s.reset()
	s.state = StateArmed
	s.ctx = ContextPalette
	s.payload = payload
}

// PointerDown records the gesture start point. Only meaningful while armed.
func (s *Session) PointerDown(p Point) {
	if s.state != StateArmed {
		return
	}
	s.state = StateThresholdPending
	s.start = p
}

// PointerMove advances the gesture. While threshold-pending it checks the
// travel distance: crossing the threshold fires exactly once per gesture
// and synthesizes a drag start at the original pointer-down point, so the
// first classification is anchored where the gesture began rather than
// where the threshold happened to be crossed. While active it re-runs
// hit-testing and classification, replacing the previous descriptor.
func (s *Session) PointerMove(p Point) {
	switch s.state {
	case StateThresholdPending:
		if distance(s.start, p) < DragThreshold {
			return
		}
		s.state = StateActive
		s.classifyAt(s.start)
		s.classifyAt(p)
	case StateActive:
		s.classifyAt(p)
	}
}

// PointerUp ends the gesture. An active drag yields a Commit for the UI to
// resolve; a press that never crossed the threshold yields none. The
// session resets to idle either way, regardless of commit success.
func (s *Session) PointerUp(p Point) (Commit, bool) {
	if s.state != StateActive {
		s.reset()
		return Commit{}, false
	}
	s.state = StateResolving
	c := Commit{
		Context:    s.ctx,
		NodeID:     s.draggedID,
		Payload:    s.payload,
		Descriptor: s.desc,
		At:         p,
	}
	s.reset()
	return c, true
}

// Cancel discards the gesture without mutating anything and returns the ID
// of the node that was being moved so the caller can restore focus and
// selection to it. Cancellation is synchronous: feedback state is gone as
// soon as this returns.
func (s *Session) Cancel() (restoreID string) {
	restoreID = s.draggedID
	s.reset()
	return restoreID
}

func (s *Session) reset() {
	s.state = StateIdle
	s.ctx = ContextReorder
	s.draggedID = ""
	s.payload = ""
	s.start = Point{}
	s.hoveredID = ""
	s.desc = nil
}

func (s *Session) classifyAt(p Point) {
	s.hoveredID = DeepestDroppableAt(s.host, s.tree, p, s.draggedID)
	s.desc = Classify(s.tree, s.host, s.hoveredID, p, s.ctx, s.draggedID)
}

func distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
