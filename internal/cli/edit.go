package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pagegrid/pagegrid/pkg/palette"
)

// editCommand creates the edit command that opens the interactive editor.
func (c *CLI) editCommand() *cobra.Command {
	var (
		name        string
		dsn         string
		palettePath string
		title       string
	)

	cmd := &cobra.Command{
		Use:   "edit [file.json]",
		Short: "Open a page document in the interactive editor",
		Long: `Open a page document in the interactive terminal editor.

The editor shows the page as nested boxes. Drag a box to move it: an
insertion line or container highlight previews where it will land, and
releasing commits the move. Drag a component in from the sidebar to add
it, or press its number and click to place it directly.

Without arguments the editor starts with an empty page and saves to
page.json. Use --name to edit a document stored with 'pagegrid docs'.

Keys:
  s        save
  x        delete the selected node
  esc      cancel the current drag or clear the insert tool
  1-9      arm the click-insert tool with a palette component
  q        quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := docSource{name: name, dsn: dsn}
			if len(args) > 0 {
				if name != "" {
					return fmt.Errorf("pass either a file or --name, not both")
				}
				src.file = args[0]
			}

			tree, docTitle, err := src.load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load document: %w", err)
			}
			if title != "" {
				docTitle = title
			}

			pal := palette.Default()
			if palettePath != "" {
				pal, err = palette.Load(palettePath)
				if err != nil {
					return fmt.Errorf("load palette: %w", err)
				}
			}

			model := newEditorModel(tree, pal, src, docTitle, c.Logger)
			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithMouseAllMotion(),
				tea.WithContext(cmd.Context()),
			)
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("editor: %w", err)
			}

			if m, ok := final.(editorModel); ok && m.dirty {
				printWarning("unsaved changes were discarded")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "edit a named document from the store")
	cmd.Flags().StringVar(&dsn, "store", "", "store DSN (memory:, file:DIR, redis://, mongodb://)")
	cmd.Flags().StringVar(&palettePath, "palette", "", "TOML palette file (default: built-in palette)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "set the document title")

	return cmd
}
