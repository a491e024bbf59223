package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagegrid/pagegrid/pkg/document"
	"github.com/pagegrid/pagegrid/pkg/scene"
	"github.com/pagegrid/pagegrid/pkg/store"
)

// docsCommand creates the docs command group for managing stored documents.
func (c *CLI) docsCommand() *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage documents in the configured store",
		Long: `Manage page documents in the configured store.

The default store keeps JSON files under ~/.config/pagegrid/documents/.
Use --store to address a shared Redis or MongoDB store instead.`,
	}

	cmd.PersistentFlags().StringVar(&dsn, "store", "", "store DSN (memory:, file:DIR, redis://, mongodb://)")

	cmd.AddCommand(c.docsListCommand(&dsn))
	cmd.AddCommand(c.docsShowCommand(&dsn))
	cmd.AddCommand(c.docsPushCommand(&dsn))
	cmd.AddCommand(c.docsPullCommand(&dsn))
	cmd.AddCommand(c.docsDeleteCommand(&dsn))

	return cmd
}

func (c *CLI) docsListCommand(dsn *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cmd.Context(), *dsn)
			if err != nil {
				return err
			}
			defer st.Close()

			records, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("no documents stored")
				printNextStep("store one", "pagegrid docs push page.json")
				return nil
			}
			for _, r := range records {
				title := r.Title
				if title == "" {
					title = "untitled"
				}
				printKeyValue(r.Name, fmt.Sprintf("%s · rev %d · %d nodes · %s",
					title, r.Revision, r.NodeCount, r.UpdatedAt.Local().Format("2006-01-02 15:04")))
			}
			return nil
		},
	}
}

func (c *CLI) docsShowCommand(dsn *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a stored document's hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cmd.Context(), *dsn)
			if err != nil {
				return err
			}
			defer st.Close()

			tree, rec, err := st.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printKeyValue("title", rec.Title)
			printKeyValue("revision", fmt.Sprintf("%d", rec.Revision))
			printKeyValue("updated", rec.UpdatedAt.Local().Format("2006-01-02 15:04"))
			fmt.Println()
			tree.Walk(func(n *scene.Node, depth int) bool {
				label := n.Label
				if label == "" {
					label = n.ID
				}
				fmt.Printf("%s%s %s\n", strings.Repeat("  ", depth),
					StyleHighlight.Render(label), StyleDim.Render(n.Type))
				return true
			})
			return nil
		},
	}
}

func (c *CLI) docsPushCommand(dsn *string) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "push <file.json>",
		Short: "Store a document file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, doc, err := document.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load document: %w", err)
			}
			if name == "" {
				name = baseName(args[0])
			}

			st, err := store.Open(cmd.Context(), *dsn)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Save(cmd.Context(), name, doc.Title, tree)
			if err != nil {
				return err
			}
			printSuccess("stored %s (rev %d, %d nodes)", rec.Name, rec.Revision, rec.NodeCount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "document name (default: file basename)")
	return cmd
}

func (c *CLI) docsPullCommand(dsn *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pull <name>",
		Short: "Write a stored document to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cmd.Context(), *dsn)
			if err != nil {
				return err
			}
			defer st.Close()

			tree, rec, err := st.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = rec.Name + ".json"
			}
			if err := document.WriteFile(tree, rec.Title, output); err != nil {
				return err
			}
			printSuccess("pulled %s (rev %d)", rec.Name, rec.Revision)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.json)")
	return cmd
}

func (c *CLI) docsDeleteCommand(dsn *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cmd.Context(), *dsn)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("deleted %s", args[0])
			return nil
		},
	}
}

// baseName strips the directory and .json suffix from a path.
func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".json")
}
