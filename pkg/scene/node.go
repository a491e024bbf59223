package scene

// RootID is the reserved identifier of the document root. The root node
// always exists, is always a container, and is never moved or removed.
const RootID = "root"

// Metadata stores arbitrary key-value pairs attached to a node. It carries
// the type-specific payload (text content, image source, link target) that
// the interaction core never interprets. Metadata maps are never nil - they
// are automatically initialized to empty maps when needed.
type Metadata map[string]any

// Placement stores literal viewport coordinates for free-floating nodes.
// Nodes in normal document flow have a nil Placement: their on-screen
// rectangle is derived by the render host, not stored on the node.
type Placement struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one visual element in the page tree.
//
// A node is a tagged variant: Type names the concrete kind ("section",
// "text", "image", ...) and Meta carries its payload. Structural logic never
// consults Type - only the Container capability flag, which is derived from
// the type at creation and immutable for the node's lifetime.
//
// The zero value is not usable - ID must be set before adding to a Tree.
type Node struct {
	ID        string     // Unique stable identifier, never reused
	ParentID  string     // Parent node ID, empty only for the root
	Children  []string   // Ordered child IDs (render/document order)
	Type      string     // Concrete node kind, display/rendering only
	Container bool       // Whether this node may legally hold children
	Label     string     // Human-readable name shown in outlines
	Placement *Placement // Literal coordinates, free-floating nodes only
	Meta      Metadata   // Type-specific payload (never nil after AddNode)
}

// IsRoot reports whether the node is the document root.
func (n *Node) IsRoot() bool { return n.ID == RootID }
