package main

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	interrors "github.com/loom-dev/loom/internal/errors"
	"github.com/loom-dev/loom/pkg/loom"
)

func renderCmd() *cobra.Command {
	var (
		valuesPath string
		sets       []string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "render <template-file>",
		Short: "Render a template file to HTML",
		Long: `Render a template file against a JSON values document.

Template files use named slots: #{name} anywhere in markup or
attribute values. Each name is resolved from the values document.

Examples:
  loom render page.html
  loom render page.html --values data.json
  loom render page.html --set title=Hello --set count=3
  loom render page.html --values data.json --out page.out.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(args[0], valuesPath, sets, outPath)
		},
	}

	cmd.Flags().StringVarP(&valuesPath, "values", "v", "", "JSON document providing slot values")
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "Set a slot value (name=value), overrides --values")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write output to a file instead of stdout")

	return cmd
}

func runRender(templatePath, valuesPath string, sets []string, outPath string) error {
	markup, err := os.ReadFile(templatePath)
	if err != nil {
		return interrors.Newf(interrors.CategoryCLI, "read template: %v", err)
	}

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

	if err := applySets(values, sets); err != nil {
		return err
	}

	tpl, err := fileTemplate(string(markup), values)
	if err != nil {
		return err
	}

	c, err := loom.Render(tpl, loom.WithMode(loom.Eager))
	if err != nil {
		return interrors.Newf(interrors.CategoryCLI, "render: %v", err)
	}
	defer c.Dispose()

	html := c.HTML()
	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(html), 0o644); err != nil {
			return interrors.Newf(interrors.CategoryCLI, "write output: %v", err)
		}
		info("wrote %s", outPath)
		return nil
	}
	fmt.Println(html)
	return nil
}

// applySets overlays name=value pairs from --set onto the values document.
func applySets(values map[string]any, sets []string) error {
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		if !ok || name == "" {
			return interrors.Newf(interrors.CategoryCLI, "bad --set %q, want name=value", s)
		}
		values[name] = value
	}
	return nil
}

// namedSlotRe matches authored #{name} slots in template files.
var namedSlotRe = regexp.MustCompile(`#\{\s*([a-zA-Z_][a-zA-Z0-9_-]*)\s*\}`)

// fileTemplate splits authored markup on named slots and wires each slot
// to its entry in values.
func fileTemplate(markup string, values map[string]any) (*loom.Template, error) {
	locs := namedSlotRe.FindAllStringSubmatchIndex(markup, -1)

	fragments := make([]string, 0, len(locs)+1)
	vals := make([]any, 0, len(locs))
	prev := 0
	for _, loc := range locs {
		name := markup[loc[2]:loc[3]]
		v, ok := values[name]
		if !ok {
			return nil, interrors.Newf(interrors.CategoryCLI, "no value for slot %q", name)
		}
		fragments = append(fragments, markup[prev:loc[0]])
		vals = append(vals, v)
		prev = loc[1]
	}
	fragments = append(fragments, markup[prev:])

	return loom.Tpl(fragments, vals...), nil
}
