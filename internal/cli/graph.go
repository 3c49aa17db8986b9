package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/figtree/pkg/errors"
	"github.com/matzehuels/figtree/pkg/flow"
	"github.com/matzehuels/figtree/pkg/graph"
	"github.com/matzehuels/figtree/pkg/pipeline"
	"github.com/matzehuels/figtree/pkg/render/dot"
)

// Graph kinds and formats accepted by the graph command.
const (
	graphTemplates = "templates"
	graphFlow      = "flow"

	formatDOT  = "dot"
	formatSVG  = "svg"
	formatJSON = "json"
)

// graphFlags are the flags of the graph command.
type graphFlags struct {
	settings string
	kind     string
	format   string
	output   string
	detailed bool
}

func (f graphFlags) validate() error {
	if f.kind != graphTemplates && f.kind != graphFlow {
		return errors.New(errors.ErrCodeInvalidInput, "invalid graph kind %q (must be one of: templates, flow)", f.kind)
	}
	if f.format != formatDOT && f.format != formatSVG && f.format != formatJSON {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of: dot, svg, json)", f.format)
	}
	if f.format == formatJSON && f.kind != graphTemplates {
		return errors.New(errors.ErrCodeInvalidFormat, "json output is only available for the templates graph")
	}
	return nil
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	f := graphFlags{kind: graphTemplates, format: formatDOT}

	cmd := &cobra.Command{
		Use:   "graph [document.json]",
		Short: "Render the component graph or prototype flow",
		Long: `Render the component dependency graph or the prototype flow of a document.

The templates graph shows which screens and components contain instances of
which components; definitions missing from the document are dashed. The flow
graph shows screens grouped by section, their transitions and the flow
starting points. Output is Graphviz DOT or SVG; the templates graph can also
be written as node-link JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.validate(); err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.settings, "settings", "s", "", "settings file (.toml, .yaml)")
	cmd.Flags().StringVarP(&f.kind, "kind", "k", f.kind, "graph kind: templates (default), flow")
	cmd.Flags().StringVarP(&f.format, "format", "f", f.format, "output format: dot (default), svg, json")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "include ids and metadata in labels")

	return cmd
}

// runGraph builds the document without cache or store and renders the
// requested graph.
func (c *CLI) runGraph(ctx context.Context, input string, f graphFlags) error {
	settings, err := loadSettings(f.settings)
	if err != nil {
		return err
	}
	if f.kind == graphFlow {
		settings.BuildPrototypeFlow = true
	}

	runner := pipeline.NewRunner(nil, nil, nil, c.Logger)
	result, err := runner.Execute(ctx, pipeline.Options{Source: input, Settings: settings, Logger: c.Logger})
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	if f.format == formatJSON {
		data, err := graph.MarshalGraph(result.Build.Graph)
		if err != nil {
			return err
		}
		return c.writeGraph(data, f.output)
	}

	opts := dot.Options{Detailed: f.detailed}
	var src string
	switch f.kind {
	case graphFlow:
		fg := result.Build.Flow
		if fg == nil {
			fg = &flow.Graph{}
		}
		src = dot.Flow(fg, opts)
	default:
		src = dot.Templates(result.Build.Graph, opts)
	}

	data := []byte(src)
	if f.format == formatSVG {
		if data, err = dot.RenderSVG(ctx, src); err != nil {
			return err
		}
	}

	return c.writeGraph(data, f.output)
}

// writeGraph writes data to output, or to the CLI output when empty.
func (c *CLI) writeGraph(data []byte, output string) error {
	if output == "" {
		_, err := c.Out.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	c.file(output)
	return nil
}
