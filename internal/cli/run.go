package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/scopeplot/pkg/plot"
	"github.com/matzehuels/scopeplot/pkg/render/scope"
	"github.com/matzehuels/scopeplot/pkg/signal"
)

var knownFormats = []string{formatSVG, formatPNG, formatJSON}

type runOpts struct {
	session  sessionFlags
	duration time.Duration
	formats  string
	output   string
	title    string
	width    float64
	height   float64
	quiet    bool
}

func (c *CLI) runCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Capture the signal producer and write a snapshot",
		Long: `Run the sine producer through a scope session for a fixed time and write
the final frame as SVG, PNG and/or JSON.`,
		Example: `  scopeplot run --duration 5s --mode cursor -f svg,png -o sweep
  scopeplot run -m buffer --channels 2 -f json -o -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCapture(cmd.Context(), opts)
		},
	}

	opts.session.register(cmd)
	cmd.Flags().DurationVarP(&opts.duration, "duration", "d", 3*time.Second, "capture time")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", formatSVG, "output formats: svg, png, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "scope", "output file base name; - writes a single format to stdout")
	cmd.Flags().StringVar(&opts.title, "title", "", "plot title")
	cmd.Flags().Float64Var(&opts.width, "width", 800, "image width in pixels")
	cmd.Flags().Float64Var(&opts.height, "height", 400, "image height in pixels")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "hide the progress spinner")

	return cmd
}

func (c *CLI) runCapture(ctx context.Context, opts runOpts) error {
	if opts.duration <= 0 {
		return fmt.Errorf("duration must be positive, got %s", opts.duration)
	}
	formats := parseFormats(opts.formats)
	for _, f := range formats {
		if f != formatSVG && f != formatPNG && f != formatJSON {
			return fmt.Errorf("unknown format %q (want %s)", f, strings.Join(knownFormats, ", "))
		}
	}
	if opts.output == "-" && len(formats) != 1 {
		return fmt.Errorf("stdout output takes exactly one format, got %d", len(formats))
	}

	cfg, err := c.loadConfig(&opts.session)
	if err != nil {
		return err
	}
	sess, gen, err := c.newSession(cfg)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	var spin *Spinner
	if !opts.quiet && opts.output != "-" {
		spin = newSpinner(ctx, os.Stderr, func() string {
			f := sess.Snapshot()
			return fmt.Sprintf("capturing %s: %d points", f.Mode, f.Points())
		})
		spin.Start()
		defer spin.Stop()
	}

	err = capture(ctx, sess, gen, opts.duration)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}
	frame := sess.Snapshot()
	prog.done("Capture finished", "mode", frame.Mode, "points", frame.Points())

	for _, format := range formats {
		data, err := renderFrame(frame, format, opts)
		if err != nil {
			return err
		}
		if opts.output == "-" {
			_, err := os.Stdout.Write(data)
			return err
		}
		path := opts.output + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// capture feeds the producer into sess for d. Running out the clock is the
// normal way to finish; an interrupt from the parent context is not.
func capture(ctx context.Context, sess *plot.Session, gen *signal.Generator, d time.Duration) error {
	runCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	batches := make(chan [][]float64)
	g, gCtx := errgroup.WithContext(runCtx)
	g.Go(func() error { return gen.Run(gCtx, batches) })
	g.Go(func() error { return sess.Feed(gCtx, batches) })

	err := g.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func renderFrame(f plot.Frame, format string, opts runOpts) ([]byte, error) {
	switch format {
	case formatSVG:
		return scope.RenderSVG(f, scope.WithSize(opts.width, opts.height), scope.WithTitle(opts.title)), nil
	case formatPNG:
		return scope.RenderPNG(f, opts.width, opts.height, opts.title)
	case formatJSON:
		return json.MarshalIndent(f, "", "  ")
	default:
		return nil, fmt.Errorf("unknown format %q (want %s)", format, strings.Join(knownFormats, ", "))
	}
}
