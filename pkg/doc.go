// Package pkg provides the core libraries for pagegrid page editing.
//
// # Overview
//
// Pagegrid edits pages as trees of sections and components, rearranged by
// direct manipulation: drag a node and the engine classifies where it would
// land, previews the insertion point, and performs the hierarchy edit on
// release. The pkg directory is organized into four main areas:
//
//  1. [scene] - The page tree: nodes, linkage invariants, and validation
//  2. [drop] - The interaction engine (hit-testing, classification, sessions,
//     insertion resolution, feedback projection)
//  3. [document] / [store] - Serialization format and storage backends
//  4. [palette] / [export] - Component templates and diagram rendering
//
// # Architecture
//
// The typical event flow through an edit:
//
//	Pointer events (press / move / release)
//	         ↓
//	    [drop.Session] (threshold, gesture state)
//	         ↓
//	    [drop.DeepestDroppableAt] + [drop.Classify] (where would it land?)
//	         ↓
//	    [drop.Project] (insertion line / container highlight)
//	         ↓ release
//	    [drop.Apply] (validate capability + cycles, edit the [scene.Tree])
//
// # Quick Start
//
// Classify and commit a drop programmatically:
//
//	import (
//	    "github.com/pagegrid/pagegrid/pkg/drop"
//	    "github.com/pagegrid/pagegrid/pkg/scene"
//	)
//
//	// 1. Find the drop target under the pointer
//	hovered := drop.DeepestDroppableAt(host, tree, p, draggedID)
//
//	// 2. Classify the landing zone
//	desc := drop.Classify(tree, host, hovered, p, drop.ContextReorder, draggedID)
//
//	// 3. Commit the move
//	if desc != nil {
//	    err := drop.Apply(tree, draggedID, *desc)
//	}
//
// # Main Packages
//
// ## Core Domain Logic
//
// [scene] - The page tree. Every structural edit goes through Attach and
// Detach, which enforce the invariants (single root, containers only,
// no cycles, bidirectional links).
//
// [drop] - The interaction engine. Pure classification (descriptors carry
// no side effects), an imperative drag session driven by pointer events,
// and the resolver that turns a descriptor into an atomic tree edit.
//
// ## Persistence
//
// [document] - The JSON serialization format, with nodes in document order
// for diff-friendly saved files.
//
// [store] - Named document storage. FileStore for the CLI (filesystem),
// RedisStore and MongoStore for shared setups, MemoryStore for testing.
//
// ## Supporting Packages
//
// [palette] - TOML-declared component templates instantiated into detached
// scene nodes on drop.
//
// [export] - Graphviz DOT and SVG rendering of the page hierarchy.
//
// [errors] - Structured errors with machine-readable codes.
//
// [buildinfo] - Build-time version information injected via ldflags.
package pkg
