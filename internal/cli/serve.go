package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/pagegrid/pagegrid/pkg/document"
	"github.com/pagegrid/pagegrid/pkg/export"
	"github.com/pagegrid/pagegrid/pkg/scene"
)

// serveCommand creates the serve command for the read-only HTTP preview.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr string
		name string
		dsn  string
	)

	cmd := &cobra.Command{
		Use:   "serve [file.json]",
		Short: "Serve a read-only preview of a document over HTTP",
		Long: `Serve a read-only preview of a page document over HTTP.

Routes:
  GET /              HTML outline of the page
  GET /diagram.svg   hierarchy diagram rendered with Graphviz
  GET /api/document  the document as JSON
  GET /api/nodes/{id} one node as JSON
  GET /healthz       liveness probe`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := docSource{name: name, dsn: dsn}
			if len(args) > 0 {
				src.file = args[0]
			}
			if src.file == "" && src.name == "" {
				return fmt.Errorf("pass a document file or --name")
			}

			tree, title, err := src.load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load document: %w", err)
			}

			printInfo("serving %s on http://%s", displayName(src, title), addr)
			printDetail("outline at /, diagram at /diagram.svg, JSON at /api/document")
			return c.serve(cmd.Context(), addr, tree, title)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "localhost:8080", "listen address")
	cmd.Flags().StringVarP(&name, "name", "n", "", "serve a named document from the store")
	cmd.Flags().StringVar(&dsn, "store", "", "store DSN (memory:, file:DIR, redis://, mongodb://)")

	return cmd
}

func displayName(src docSource, title string) string {
	if title != "" {
		return title
	}
	if src.name != "" {
		return src.name
	}
	return src.file
}

// serve runs the preview server until the context is cancelled.
func (c *CLI) serve(ctx context.Context, addr string, tree *scene.Tree, title string) error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(withLogger(req.Context(), c.Logger)))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/", handleOutline(tree, title))
	r.Get("/diagram.svg", handleDiagram(tree))
	r.Get("/api/document", handleDocument(tree, title))
	r.Get("/api/nodes/{id}", handleNode(tree))

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func handleDocument(tree *scene.Tree, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		doc := document.FromTree(tree, title)
		if err := json.NewEncoder(w).Encode(doc); err != nil {
			loggerFromContext(req.Context()).Error("encode document", "err", err)
		}
	}
}

func handleNode(tree *scene.Tree) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		n, ok := tree.Get(id)
		if !ok {
			http.Error(w, "node not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(n); err != nil {
			loggerFromContext(req.Context()).Error("encode node", "id", id, "err", err)
		}
	}
}

func handleDiagram(tree *scene.Tree) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		svg, err := export.RenderSVG(export.ToDOT(tree, export.Options{}))
		if err != nil {
			loggerFromContext(req.Context()).Error("render diagram", "err", err)
			http.Error(w, "diagram rendering failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(svg)
	}
}

func handleOutline(tree *scene.Tree, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var b strings.Builder
		b.WriteString("<!doctype html><html><head><meta charset=\"utf-8\">")
		b.WriteString("<title>" + html.EscapeString(pageTitle(title)) + "</title>")
		b.WriteString("<style>body{font-family:sans-serif;margin:2rem}div{margin:.2rem 0}</style>")
		b.WriteString("</head><body>")
		b.WriteString("<h1>" + html.EscapeString(pageTitle(title)) + "</h1>")
		b.WriteString("<p><a href=\"/diagram.svg\">diagram</a> · <a href=\"/api/document\">json</a></p>")

		tree.Walk(func(n *scene.Node, depth int) bool {
			fmt.Fprintf(&b, "<div style=\"margin-left:%drem\"><strong>%s</strong> <small>%s</small></div>",
				depth, html.EscapeString(nodeTitle(n)), html.EscapeString(n.Type))
			return true
		})
		b.WriteString("</body></html>")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(b.String()))
	}
}

func pageTitle(title string) string {
	if title == "" {
		return "untitled page"
	}
	return title
}
