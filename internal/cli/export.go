package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagegrid/pagegrid/pkg/export"
)

// exportCommand creates the export command for hierarchy diagrams.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		name     string
		dsn      string
		output   string
		format   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "export [file.json]",
		Short: "Render the page hierarchy as a DOT or SVG diagram",
		Long: `Render the page hierarchy as a Graphviz diagram.

The DOT format prints to stdout by default and is useful for piping into
other Graphviz tooling. SVG rendering requires no external binaries.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := docSource{name: name, dsn: dsn}
			if len(args) > 0 {
				src.file = args[0]
			}
			if src.file == "" && src.name == "" {
				return fmt.Errorf("pass a document file or --name")
			}

			tree, _, err := src.load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load document: %w", err)
			}

			dot := export.ToDOT(tree, export.Options{Detailed: detailed})

			switch strings.ToLower(format) {
			case "dot":
				if output == "" {
					fmt.Print(dot)
					return nil
				}
				if err := os.WriteFile(output, []byte(dot), 0644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}

			case "svg":
				if output == "" {
					output = "page.svg"
				}
				spinner := newSpinner(cmd.Context(), "Rendering diagram...")
				spinner.Start()
				prog := newProgress(c.Logger)
				svg, err := export.RenderSVG(dot)
				if err != nil {
					spinner.StopWithError("Rendering failed")
					return err
				}
				spinner.Stop()
				if err := os.WriteFile(output, svg, 0644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				prog.done(fmt.Sprintf("Rendered %d nodes", tree.Len()))

			default:
				return fmt.Errorf("unknown format %q (want dot or svg)", format)
			}

			printSuccess("exported %s", format)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "export a named document from the store")
	cmd.Flags().StringVar(&dsn, "store", "", "store DSN (memory:, file:DIR, redis://, mongodb://)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout for dot, page.svg for svg)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include node types and size hints in labels")

	return cmd
}
