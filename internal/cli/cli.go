// Package cli implements the pagegrid command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pagegrid/pagegrid/pkg/buildinfo"
	"github.com/pagegrid/pagegrid/pkg/document"
	"github.com/pagegrid/pagegrid/pkg/scene"
	"github.com/pagegrid/pagegrid/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "pagegrid"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Pagegrid is a drag-and-drop page layout editor",
		Long:         `Pagegrid is a terminal page layout editor: pages are trees of sections and components that you rearrange by dragging, with structural rules keeping every edit valid.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.docsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Document Sources
// =============================================================================

// docSource resolves where a page document is loaded from and saved to:
// either a plain JSON file or a named document in a store.
type docSource struct {
	file string // JSON file path; used when name is empty
	name string // store document name
	dsn  string // store DSN; empty selects the default file store
}

// isStore reports whether the source addresses a store document.
func (s docSource) isStore() bool { return s.name != "" }

// load reads the tree and title. A file source whose file does not exist
// yet yields a fresh empty page, so "pagegrid edit new.json" just works.
func (s docSource) load(ctx context.Context) (*scene.Tree, string, error) {
	if s.isStore() {
		st, err := store.Open(ctx, s.dsn)
		if err != nil {
			return nil, "", err
		}
		defer st.Close()
		tree, rec, err := st.Load(ctx, s.name)
		if err != nil {
			return nil, "", err
		}
		return tree, rec.Title, nil
	}

	if s.file == "" {
		return scene.New(), "", nil
	}
	if _, err := os.Stat(s.file); os.IsNotExist(err) {
		return scene.New(), "", nil
	}
	tree, doc, err := document.ReadFile(s.file)
	if err != nil {
		return nil, "", err
	}
	return tree, doc.Title, nil
}

// save writes the tree back to the source and returns a human-readable
// destination for status output.
func (s docSource) save(ctx context.Context, tree *scene.Tree, title string) (string, error) {
	if s.isStore() {
		st, err := store.Open(ctx, s.dsn)
		if err != nil {
			return "", err
		}
		defer st.Close()
		rec, err := st.Save(ctx, s.name, title, tree)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s (rev %s)", s.name, strconv.FormatInt(rec.Revision, 10)), nil
	}

	path := s.file
	if path == "" {
		path = "page.json"
	}
	if err := document.WriteFile(tree, title, path); err != nil {
		return "", err
	}
	return path, nil
}
