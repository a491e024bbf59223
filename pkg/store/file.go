package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "github.com/pagegrid/pagegrid/pkg/errors"
	"github.com/pagegrid/pagegrid/pkg/scene"
)

// FileStore is a file-based document store for the CLI.
// Documents are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based document store.
// If baseDir is empty, defaults to ~/.config/pagegrid/documents/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "pagegrid", "documents")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) documentPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

func (s *FileStore) Save(ctx context.Context, name, title string, tree *scene.Tree) (Record, error) {
	if err := apperrors.ValidateDocumentName(name); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var prev *Record
	if existing, err := s.readEnvelope(name); err == nil {
		prev = &existing.Record
	}

	env := seal(name, title, tree, prev)
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return Record{}, fmt.Errorf("marshal document: %w", err)
	}
	if err := os.WriteFile(s.documentPath(name), data, 0600); err != nil {
		return Record{}, fmt.Errorf("write document file: %w", err)
	}
	return env.Record, nil
}

func (s *FileStore) Load(ctx context.Context, name string) (*scene.Tree, Record, error) {
	if err := apperrors.ValidateDocumentName(name); err != nil {
		return nil, Record{}, err
	}

	s.mu.RLock()
	env, err := s.readEnvelope(name)
	s.mu.RUnlock()

	if err != nil {
		return nil, Record{}, err
	}
	return unseal(env)
}

func (s *FileStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read document dir: %w", err)
	}

	var records []Record
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		env, err := s.readEnvelope(name)
		if err != nil {
			// Unreadable entries are skipped rather than failing the listing.
			continue
		}
		records = append(records, env.Record)
	}
	sortRecords(records)
	return records, nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := apperrors.ValidateDocumentName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.documentPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove document file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for document files.
func (s *FileStore) Path() string {
	return s.baseDir
}

func (s *FileStore) readEnvelope(name string) (envelope, error) {
	data, err := os.ReadFile(s.documentPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return envelope{}, ErrNotFound
		}
		return envelope{}, fmt.Errorf("read document file: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return envelope{}, fmt.Errorf("parse document %s: %w", name, err)
	}
	return env, nil
}

var _ Store = (*FileStore)(nil)
