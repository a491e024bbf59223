// Package palette defines the component templates a user can drag or click
// into a page. Palettes are declared in TOML; a built-in default palette is
// embedded so the editor works without any configuration.
//
// The interaction core treats a dragged component as an opaque payload (a
// reference string) until the drop resolves; only then is the template
// instantiated into a scene node, with a freshly minted ID and placement
// fields cleared so the landing spot is determined entirely by the resolved
// insertion descriptor.
package palette

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	apperrors "github.com/pagegrid/pagegrid/pkg/errors"
	"github.com/pagegrid/pagegrid/pkg/scene"
)

//go:embed default.toml
var defaultTOML []byte

// refPrefix tags drag payloads that carry a component reference.
const refPrefix = "component:"

var (
	// ErrInvalidRef is returned by [ParseRef] when a drag payload cannot
	// be interpreted as a component reference.
	ErrInvalidRef = errors.New("payload is not a component reference")

	// ErrUnknownComponent is returned by [Palette.Find] callers via
	// [Palette.Instantiate] when no template matches the requested type.
	ErrUnknownComponent = errors.New("unknown component type")
)

// Template describes one insertable component: the node type it creates,
// its container capability, and a default size hint for the render host.
type Template struct {
	Type      string         `toml:"type"`
	Label     string         `toml:"label"`
	Container bool           `toml:"container"`
	Width     float64        `toml:"width"`
	Height    float64        `toml:"height"`
	Meta      map[string]any `toml:"meta"`
}

// Palette is an ordered set of component templates.
type Palette struct {
	Components []Template `toml:"component"`
}

// Default returns the embedded built-in palette.
func Default() Palette {
	p, err := Parse(defaultTOML)
	if err != nil {
		// The embedded palette is validated by tests; failing to parse it
		// is a build defect, not a runtime condition.
		panic(fmt.Sprintf("palette: embedded default is invalid: %v", err))
	}
	return p
}

// Parse decodes and validates a TOML palette.
func Parse(data []byte) (Palette, error) {
	var p Palette
	if err := toml.Unmarshal(data, &p); err != nil {
		return Palette{}, fmt.Errorf("parse palette: %w", err)
	}
	if len(p.Components) == 0 {
		return Palette{}, errors.New("palette declares no components")
	}
	seen := make(map[string]bool, len(p.Components))
	for i, c := range p.Components {
		if err := apperrors.ValidateComponentType(c.Type); err != nil {
			return Palette{}, fmt.Errorf("component %d: %w", i, err)
		}
		if seen[c.Type] {
			return Palette{}, fmt.Errorf("duplicate component type %q", c.Type)
		}
		seen[c.Type] = true
	}
	return p, nil
}

// Load reads and validates a TOML palette file.
func Load(path string) (Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Palette{}, fmt.Errorf("read palette %s: %w", path, err)
	}
	return Parse(data)
}

// Find returns the template for a component type.
func (p Palette) Find(typeName string) (Template, bool) {
	for _, c := range p.Components {
		if c.Type == typeName {
			return c, true
		}
	}
	return Template{}, false
}

// Ref returns the drag payload reference for a template.
func (t Template) Ref() string { return refPrefix + t.Type }

// ParseRef extracts the component type from a drag payload. Payloads that
// do not carry a component reference return ErrInvalidRef; callers abort
// the drop locally and clear feedback state, never crash.
func ParseRef(payload string) (string, error) {
	typeName, ok := strings.CutPrefix(payload, refPrefix)
	if !ok || typeName == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, payload)
	}
	return typeName, nil
}

// Instantiate creates a detached scene node from the template named by
// typeName. The node gets a fresh unique ID (never reused) and no literal
// placement: position is decided by the insertion descriptor at commit
// time. The caller indexes the node with scene.Tree.AddNode and attaches it
// through the insertion resolver.
func (p Palette) Instantiate(typeName string) (scene.Node, error) {
	tpl, ok := p.Find(typeName)
	if !ok {
		return scene.Node{}, fmt.Errorf("%w: %q", ErrUnknownComponent, typeName)
	}

	meta := scene.Metadata{
		"width":  tpl.Width,
		"height": tpl.Height,
	}
	for k, v := range tpl.Meta {
		meta[k] = v
	}

	return scene.Node{
		ID:        uuid.NewString(),
		Type:      tpl.Type,
		Container: tpl.Container,
		Label:     tpl.Label,
		Meta:      meta,
	}, nil
}
