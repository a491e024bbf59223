// Package store persists named page documents.
//
// This package defines the Store interface for document storage backends,
// with implementations for different deployment shapes:
//   - memory: In-memory storage for development/testing
//   - file: File-based storage for the CLI (the default)
//   - redis: Redis-backed storage for shared editing setups
//   - mongo: MongoDB-backed storage for larger installations
//
// # Architecture
//
// A stored document is an envelope around the serialization format from
// pkg/document, plus bookkeeping: a monotonically increasing revision and
// the last update time. Saving an existing name bumps its revision; loading
// reconstructs a validated scene tree, so a corrupted record can never
// produce a tree that violates the scene invariants.
//
// # Usage
//
// Open a store from a DSN:
//
//	// CLI default: ~/.config/pagegrid/documents/
//	st, err := store.Open(ctx, "")
//
//	// Shared backends
//	st, err := store.Open(ctx, "redis://localhost:6379/0")
//	st, err := store.Open(ctx, "mongodb://localhost:27017")
//
// Save and load:
//
//	rec, err := st.Save(ctx, "landing", "Landing Page", tree)
//	tree, rec, err := st.Load(ctx, "landing")
package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/pagegrid/pagegrid/pkg/document"
	apperrors "github.com/pagegrid/pagegrid/pkg/errors"
	"github.com/pagegrid/pagegrid/pkg/scene"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when no document exists under a name.
	ErrNotFound = errors.New("document not found")
)

// Record carries the bookkeeping for one stored document.
type Record struct {
	Name      string    `json:"name" bson:"_id"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
	Revision  int64     `json:"revision" bson:"revision"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	NodeCount int       `json:"node_count" bson:"node_count"`
}

// envelope is the persisted form: record metadata plus the document body.
type envelope struct {
	Record   `bson:",inline"`
	Document document.Document `json:"document" bson:"document"`
}

// Store is the interface for document storage backends.
type Store interface {
	// Save stores a tree under a name, creating or replacing the document.
	// Replacing bumps the revision. Returns the updated record.
	Save(ctx context.Context, name, title string, tree *scene.Tree) (Record, error)

	// Load retrieves a document by name and rebuilds its validated tree.
	// Returns ErrNotFound if no document exists under the name.
	Load(ctx context.Context, name string) (*scene.Tree, Record, error)

	// List returns the records of all stored documents, sorted by name.
	List(ctx context.Context) ([]Record, error)

	// Delete removes a document. Deleting an unknown name is not an error.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close() error
}

// Open creates a store from a DSN. Supported forms:
//
//	""                    file store in the default config directory
//	"memory:"             in-memory store
//	"file:/some/dir"      file store rooted at the given directory
//	"redis://host:port"   Redis store
//	"mongodb://host"      MongoDB store (also mongodb+srv://)
func Open(ctx context.Context, dsn string) (Store, error) {
	switch {
	case dsn == "":
		return NewFileStore("")
	case dsn == "memory:":
		return NewMemoryStore(), nil
	case strings.HasPrefix(dsn, "file:"):
		return NewFileStore(strings.TrimPrefix(dsn, "file:"))
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		return NewRedisStore(ctx, dsn)
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		return NewMongoStore(ctx, dsn)
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidStoreDSN, "unsupported store DSN: %q", dsn)
	}
}

// seal builds the envelope for a save, bumping the revision of prev when the
// name already exists.
func seal(name, title string, tree *scene.Tree, prev *Record) envelope {
	doc := document.FromTree(tree, title)
	rec := Record{
		Name:      name,
		Title:     title,
		Revision:  1,
		UpdatedAt: time.Now().UTC(),
		NodeCount: len(doc.Nodes),
	}
	if prev != nil {
		rec.Revision = prev.Revision + 1
	}
	return envelope{Record: rec, Document: doc}
}

// sortRecords orders listings by name for stable output.
func sortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
}

// unseal rebuilds the validated tree from a stored envelope.
func unseal(env envelope) (*scene.Tree, Record, error) {
	tree, err := document.ToTree(env.Document)
	if err != nil {
		return nil, Record{}, apperrors.Wrap(apperrors.ErrCodeStore, err, "stored document %q is corrupt", env.Name)
	}
	return tree, env.Record, nil
}
