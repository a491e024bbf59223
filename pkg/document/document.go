// Package document defines the canonical serialization format for page
// documents and converts between it and the live scene tree.
//
// The format is human-readable JSON designed for round-trip fidelity:
// load → edit → save → re-load produces an identical tree. Nodes are written
// in document order (depth-first from the root), so diffs of saved files
// follow the visual order of the page.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	apperrors "github.com/pagegrid/pagegrid/pkg/errors"
	"github.com/pagegrid/pagegrid/pkg/scene"
)

// Node is the serialized form of one scene node. Linkage is carried by the
// ordered Children list only; parent references are rebuilt on load.
type Node struct {
	ID        string           `json:"id" bson:"id"`
	Type      string           `json:"type" bson:"type"`
	Label     string           `json:"label,omitempty" bson:"label,omitempty"`
	Container bool             `json:"container,omitempty" bson:"container,omitempty"`
	Children  []string         `json:"children,omitempty" bson:"children,omitempty"`
	Placement *scene.Placement `json:"placement,omitempty" bson:"placement,omitempty"`
	Meta      map[string]any   `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Document is the serialization format for a whole page.
type Document struct {
	Title string `json:"title,omitempty" bson:"title,omitempty"`
	Nodes []Node `json:"nodes" bson:"nodes"`
}

// FromTree converts a scene tree to its serialization format, with nodes in
// document order starting at the root. Detached nodes are not serialized.
func FromTree(t *scene.Tree, title string) Document {
	doc := Document{Title: title}
	t.Walk(func(n *scene.Node, depth int) bool {
		out := Node{
			ID:        n.ID,
			Type:      n.Type,
			Label:     n.Label,
			Container: n.Container,
			Children:  append([]string(nil), n.Children...),
			Placement: n.Placement,
		}
		if len(n.Meta) > 0 {
			out.Meta = n.Meta
		}
		doc.Nodes = append(doc.Nodes, out)
		return true
	})
	return doc
}

// ToTree builds a validated scene tree from a document. The document must
// contain the reserved root node; every parent/child link is rebuilt from
// the Children lists and checked with scene.Tree.Validate, so a corrupted
// file can never produce a tree that violates the scene invariants.
func ToTree(doc Document) (*scene.Tree, error) {
	tree := scene.New()

	var hasRoot bool
	for _, n := range doc.Nodes {
		if err := apperrors.ValidateNodeID(n.ID); err != nil {
			return nil, err
		}
		if n.ID == scene.RootID {
			hasRoot = true
			root := tree.Root()
			root.Type = n.Type
			root.Label = n.Label
			root.Meta = n.Meta
			if root.Meta == nil {
				root.Meta = scene.Metadata{}
			}
			continue
		}
		err := tree.AddNode(scene.Node{
			ID:        n.ID,
			Type:      n.Type,
			Label:     n.Label,
			Container: n.Container,
			Placement: n.Placement,
			Meta:      n.Meta,
		})
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	if !hasRoot {
		return nil, fmt.Errorf("document has no %q node", scene.RootID)
	}

	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if err := tree.Attach(c, n.ID, -1); err != nil {
				return nil, fmt.Errorf("attach %s under %s: %w", c, n.ID, err)
			}
		}
	}

	if err := tree.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return tree, nil
}

// Marshal converts a tree to JSON bytes in document order.
func Marshal(t *scene.Tree, title string) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(t, title, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a tree as JSON to an io.Writer.
func Write(t *scene.Tree, title string, w io.Writer) error {
	return writeTo(t, title, w)
}

// WriteFile writes a tree to a JSON file created with 0644 permissions.
func WriteFile(t *scene.Tree, title, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(t, title, f)
}

// Read decodes a JSON document from an io.Reader into a validated tree.
func Read(r io.Reader) (*scene.Tree, Document, error) {
	return readFrom(r)
}

// ReadFile reads a JSON file and returns the decoded tree and document.
func ReadFile(path string) (*scene.Tree, Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f)
}

func writeTo(t *scene.Tree, title string, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromTree(t, title)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readFrom(r io.Reader) (*scene.Tree, Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, Document{}, fmt.Errorf("decode: %w", err)
	}
	tree, err := ToTree(doc)
	if err != nil {
		return nil, Document{}, err
	}
	return tree, doc, nil
}
