package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/conceptmap/pkg/frame"
	"github.com/matzehuels/conceptmap/pkg/pipeline"
	"github.com/matzehuels/conceptmap/pkg/render"
	"github.com/matzehuels/conceptmap/pkg/scene"
)

// runOpts holds the options for the run command.
type runOpts struct {
	output    string
	format    string
	fps       float64
	maxFrames int
	quiet     bool
}

// runCommand creates the run command for the interactive frame loop.
func (c *CLI) runCommand() *cobra.Command {
	opts := runOpts{output: "conceptmap.png"}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Read text line by line and redraw the concept graph each frame",
		Long: `Run the interactive frame loop.

Each line read from stdin is tokenized, linked against the lexicon and laid
out, and the resulting frame replaces the file given by --output. The loop
ends at end of input or on Ctrl+C.

Lines starting with ":" steer the view and redraw the last text:

  :pan DX DY     pan by DX, DY logical units
  :reset         reset the pan
  :resize W H    change the output size
  :quit          stop`,
		Example: `  conceptmap run -o map.svg
  echo "el perro y el gato" | conceptmap run --layout grid -o map.png
  printf 'perro chucho gato\n:pan 40 0\n' | conceptmap run --layout grid -o map.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLoop(cmd, cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "frame output file (format from extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "frame format: png, svg, dot, json or pdf (overrides extension)")
	cmd.Flags().Float64Var(&opts.fps, "fps", -1, "frame rate cap (default from config, 0 = uncapped)")
	cmd.Flags().IntVar(&opts.maxFrames, "max-frames", 0, "stop after this many frames (0 = unbounded)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print per-frame statistics")

	return cmd
}

// runLoop wires stdin, the frame file and the engine into a frame.Loop.
func (c *CLI) runLoop(cmd *cobra.Command, in io.Reader, out io.Writer, opts runOpts) error {
	ctx, cfg, eng, err := c.setup(cmd)
	if err != nil {
		return err
	}
	defer eng.Close()

	renderer, err := newFrameRenderer(opts.output, opts.format)
	if err != nil {
		return err
	}

	console := frame.NewConsoleSource(in, out)
	console.Prompt = cfg.Frame.Prompt
	queue := &frame.Queue{}
	src := &frame.CommandSource{Source: console, Queue: queue, Logger: loggerFromContext(ctx)}

	fps := cfg.Frame.FPS
	if opts.fps >= 0 {
		fps = opts.fps
	}

	loop := &frame.Loop{
		Source:    src,
		Events:    frame.Multi{queue, frame.QuitOnExhausted(console)},
		Renderer:  renderer,
		Runner:    eng.runner,
		Options:   cfg.PipelineOptions(),
		Style:     cfg.Style,
		Session:   frame.NewSession(cfg.CanvasSize(), cfg.DisplaySize(), cfg.ClampPad()),
		FPS:       fps,
		MaxFrames: opts.maxFrames,
		Logger:    loggerFromContext(ctx),
		OnFrame: func(_ *scene.Scene, res *pipeline.Result) {
			if !opts.quiet {
				printStats(res)
			}
		},
	}

	prog := newProgress(loggerFromContext(ctx))
	frames, err := loop.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	prog.done("Frame loop finished", "frames", frames)
	if frames > 0 {
		printFile(renderer.Path)
	}
	return nil
}

// newFrameRenderer creates the renderer for the frame file. An explicit
// format wins over the file extension.
func newFrameRenderer(path, format string) (*render.FileRenderer, error) {
	if format == "" {
		return render.NewFileRenderer(path, "")
	}
	f, err := render.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return render.NewFileRenderer(path, f)
}
