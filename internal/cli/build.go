package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/frame"
	"github.com/matzehuels/conceptmap/pkg/pipeline"
	"github.com/matzehuels/conceptmap/pkg/render"
)

// buildOpts holds the options for the build command.
type buildOpts struct {
	output  string
	formats string
	text    string
	panX    float64
	panY    float64
	refresh bool
}

// buildCommand creates the build command for one-shot rendering.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build [file|-]",
		Short: "Build a concept map from text and write it in one or more formats",
		Long: `Build a concept map from a text file, stdin ("-") or --text and render it.

With several formats, --output is used as the base name and each format adds
its extension. With a single format and --output "-", the artifact is written
to stdout.`,
		Example: `  conceptmap build essay.txt -f svg,png -o essay
  echo "el perro y el gato" | conceptmap build - -f dot -o -
  conceptmap build --text "el perro corre" --layout grid -f json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd.InOrStdin(), args, opts.text)
			if err != nil {
				return err
			}
			return c.runBuild(cmd, input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or base name (default \"conceptmap\")")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "svg", "output formats: png, svg, dot, json, pdf (comma-separated)")
	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "text to build instead of a file")
	cmd.Flags().Float64Var(&opts.panX, "pan-x", 0, "horizontal pan offset in logical units")
	cmd.Flags().Float64Var(&opts.panY, "pan-y", 0, "vertical pan offset in logical units")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached graphs")

	return cmd
}

// readInput returns the text to build: --text, a file, or stdin for "-".
func readInput(stdin io.Reader, args []string, text string) (string, error) {
	switch {
	case text != "" && len(args) > 0:
		return "", cerrors.New(cerrors.ErrCodeInvalidInput, "use either --text or a file argument, not both")
	case text != "":
		return text, nil
	case len(args) == 0:
		return "", cerrors.New(cerrors.ErrCodeInvalidInput, "no input: pass a file, \"-\" for stdin, or --text")
	}
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(io.LimitReader(stdin, cerrors.MaxTextBytes+1))
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "read input")
	}
	return string(data), nil
}

func (c *CLI) runBuild(cmd *cobra.Command, input string, opts buildOpts) error {
	formats, err := render.ParseFormats(opts.formats)
	if err != nil {
		return err
	}
	toStdout := opts.output == "-"
	if toStdout && len(formats) > 1 {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "stdout output takes exactly one format")
	}

	ctx, cfg, eng, err := c.setup(cmd)
	if err != nil {
		return err
	}
	defer eng.Close()

	popts := cfg.PipelineOptions()
	popts.Refresh = opts.refresh

	spinner := newSpinnerWithContext(ctx, "Building concept map...")
	spinner.Start()
	res, err := eng.runner.Build(ctx, input, popts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.Stop()

	sess := frame.NewSession(cfg.CanvasSize(), cfg.DisplaySize(), cfg.ClampPad())
	sess.Update(res.Graph)
	sess.Apply(frame.Pan{DX: opts.panX, DY: opts.panY})

	s := pipeline.Scene(res, sess.Viewport, cfg.Style)
	if toStdout {
		return (&render.WriterRenderer{W: cmd.OutOrStdout(), Format: formats[0]}).Render(ctx, s)
	}

	paths := outputPaths(opts.output, formats)
	sinks := make(render.Multi, len(paths))
	for i, path := range paths {
		sinks[i] = &render.FileRenderer{Path: path, Format: formats[i]}
	}
	if err := sinks.Render(ctx, s); err != nil {
		return err
	}

	printSuccess("Concept map built")
	printStats(res)
	for _, path := range paths {
		printFile(path)
	}
	return nil
}

// outputPaths maps formats to file names. A single format with an explicit
// file name keeps that name; otherwise each format gets base.<ext>.
func outputPaths(output string, formats []render.Format) []string {
	base := output
	if base == "" {
		base = appName
	}
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		return []string{output}
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	paths := make([]string, len(formats))
	for i, f := range formats {
		paths[i] = base + "." + string(f)
	}
	return paths
}
