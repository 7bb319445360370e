package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	interrors "github.com/loom-dev/loom/internal/errors"
	"github.com/loom-dev/loom/pkg/live"
	"github.com/loom-dev/loom/pkg/loom"
)

func serveCmd() *cobra.Command {
	var (
		addr       string
		valuesPath string
	)

	cmd := &cobra.Command{
		Use:   "serve <template-file>...",
		Short: "Serve template files for live preview",
		Long: `Serve one or more template files over HTTP.

Each file is registered as a page under its base name; files are
re-read on every request, so edits show up on reload.

Examples:
  loom serve page.html
  loom serve pages/*.html --addr :9000
  loom serve page.html --values data.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(args, addr, valuesPath)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8990", "Listen address")
	cmd.Flags().StringVarP(&valuesPath, "values", "v", "", "JSON document providing slot values")

	return cmd
}

func runServe(paths []string, addr, valuesPath string) error {
	values := map[string]any{}
	if valuesPath != "" {
		raw, err := os.ReadFile(valuesPath)
		if err != nil {
			return interrors.Newf(interrors.CategoryCLI, "read values: %v", err)
		}
		if err := json.Unmarshal(raw, &values); err != nil {
			return interrors.Newf(interrors.CategoryCLI, "parse values: %v", err)
		}
	}

	srv := live.New(&live.Config{Address: addr})
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		srv.Handle(name, filePage(path, values))
		info("page /pages/%s <- %s", name, path)
	}

	printBanner()
	info("preview server on %s", addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Start(ctx)
}

// filePage re-reads the template file per request so edits show up on
// reload.
func filePage(path string, values map[string]any) live.PageFunc {
	return func(_ *http.Request) *loom.Template {
		markup, err := os.ReadFile(path)
		if err != nil {
			return loom.Tpl([]string{"<pre>" + err.Error() + "</pre>"})
		}
		tpl, err := fileTemplate(string(markup), values)
		if err != nil {
			return loom.Tpl([]string{"<pre>" + err.Error() + "</pre>"})
		}
		return tpl
	}
}
