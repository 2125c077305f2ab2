package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/rs/zerolog"

	"github.com/ironsheep/gcode-tools-mcp/internal/config"
	"github.com/ironsheep/gcode-tools-mcp/internal/imaging"
	"github.com/ironsheep/gcode-tools-mcp/internal/pipeline"
	"github.com/ironsheep/gcode-tools-mcp/internal/preview"
	"github.com/ironsheep/gcode-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("gcode-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage(os.Stdout)
			return
		}
	}

	cfg, err := config.Resolve(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}
	logger := newLogger(cfg)

	if len(os.Args) > 1 && os.Args[1] == "convert" {
		if err := runConvert(cfg, logger, os.Args[2:]); err != nil {
			logger.Error().Err(err).Msg("conversion failed")
			os.Exit(1)
		}
		return
	}

	logger.Debug().
		Str("version", Version).
		Str("built", BuildTime).
		Str("commit", GitCommit).
		Msg("starting G-code MCP server")

	srv := server.NewWithConfig(cfg, logger)
	if err := srv.Run(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "gcode-tools-mcp - MCP server that converts images to G-code")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  gcode-tools-mcp                 Serve MCP over stdin/stdout")
	fmt.Fprintln(w, "  gcode-tools-mcp convert [flags] Convert one image to a G-code file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  GCODE_MCP_CONFIG=path.json     Load defaults from a JSON file")
	fmt.Fprintln(w, "  GCODE_MCP_LOG_LEVEL=debug      Set log level")
	fmt.Fprintln(w, "  GCODE_MCP_THRESHOLD=128        Default luminance threshold")
	fmt.Fprintln(w, "  GCODE_MCP_FEED=1000            Default feed rate (mm/min)")
	fmt.Fprintln(w, "  GCODE_MCP_SCALE=1              Default scale")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The server communicates via MCP protocol over stdin/stdout.")
	fmt.Fprintln(w, "Configure it in your MCP client (e.g., Claude Desktop).")
}

// newLogger writes to stderr; stdout is reserved for the MCP protocol.
func newLogger(cfg config.Config) zerolog.Logger {
	level, _ := cfg.Level()
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func runConvert(cfg config.Config, logger zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	input := fs.String("input", "", "path to the source image")
	output := fs.String("output", cfg.OutputPath, "path for the generated G-code")
	previewPath := fs.String("preview", "", "optional path for a PNG preview of the paths")
	threshold := fs.Int("threshold", cfg.Threshold, "luminance threshold (0-255)")
	feed := fs.Int("feed", cfg.Feed, "feed rate in mm/min")
	scale := fs.Float64("scale", cfg.Scale, "scale factor (mm = offset * scale / 10)")
	invert := fs.Bool("invert", cfg.Invert, "invert the image before thresholding")
	blurRadius := fs.Float64("blur", cfg.BlurRadius, "gaussian blur radius before thresholding")
	maxDim := fs.Int("max-dimension", cfg.MaxDimension, "downsample so neither side exceeds this")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		fs.Usage()
		return fmt.Errorf("-input is required")
	}

	img, err := imaging.NewImageCacheWithLimit(cfg.MaxPixels).Load(*input)
	if err != nil {
		return err
	}

	res, err := pipeline.GenerateImage(img, pipeline.Options{
		Threshold: *threshold,
		Feed:      *feed,
		Scale:     *scale,
		MaxPixels: cfg.MaxPixels,
		Prepare: imaging.PrepareOptions{
			MaxDimension: *maxDim,
			Invert:       *invert,
			BlurRadius:   *blurRadius,
		},
	})
	if err != nil {
		return err
	}

	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if _, err := res.Program.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if *previewPath != "" {
		popts := preview.DefaultOptions()
		popts.Width, popts.Height = cfg.PreviewWidth, cfg.PreviewHeight
		canvas, err := preview.Render(res.Contours, popts)
		if err != nil {
			return err
		}
		if err := imgio.Save(*previewPath, canvas, imgio.PNGEncoder()); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}
	}

	ev := logger.Info().
		Str("input", *input).
		Str("output", *output).
		Int("paths", res.Program.Paths).
		Int("linear_moves", res.Program.LinearMoves).
		Int("discarded", res.Stats.Discarded)
	if res.Program.Empty() {
		ev.Msg(preview.EmptyMessage)
		return nil
	}
	ev.Msg("wrote program")
	return nil
}
