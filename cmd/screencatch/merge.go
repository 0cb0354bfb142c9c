package main

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"screencatch/internal/compose"
	"screencatch/internal/frame"
)

func mergeCommand() *cli.Command {
	return &cli.Command{
		Name:      "merge",
		Usage:     "merge image files into one composite",
		ArgsUsage: "<image> [<image> ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "method",
				Aliases: []string{"m"},
				Value:   "auto",
				Usage:   "merge method: vertical, horizontal, grid, or auto",
			},
			&cli.IntFlag{
				Name:    "spacing",
				Aliases: []string{"s"},
				Value:   10,
				Usage:   "spacing between images in pixels",
			},
			&cli.StringFlag{
				Name:    "background",
				Aliases: []string{"b"},
				Value:   "#ffffff",
				Usage:   "background color as #rrggbb",
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "description rendered as a header above the result",
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Required: true,
				Usage:    "output image path",
			},
			&cli.IntFlag{
				Name:  "cols",
				Usage: "grid columns (grid method only; 0 picks a square-ish grid)",
			},
		},
		Action: runMerge,
	}
}

func runMerge(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("no input images given")
	}

	method, err := compose.ParseMethod(c.String("method"))
	if err != nil {
		return err
	}
	bg, err := parseHexColor(c.String("background"))
	if err != nil {
		return err
	}

	slog.Info("loading images", "count", len(paths))
	frames := make([]*frame.Frame, 0, len(paths))
	for i, path := range paths {
		f, err := frame.Load(path, i)
		if err != nil {
			return err
		}
		frames = append(frames, f)
	}

	spec := compose.Spec{
		Method:     method,
		Cols:       c.Int("cols"),
		Spacing:    c.Int("spacing"),
		Background: bg,
	}
	canvas, layout, err := compose.Compose(frames, spec)
	if err != nil {
		return err
	}

	if desc := c.String("description"); desc != "" {
		canvas = compose.Annotate(canvas, desc, compose.DefaultHeaderPadding)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return fmt.Errorf("encode output image: %w", err)
	}
	outPath := c.String("output")
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output image: %w", err)
	}

	slog.Info("merged", "count", len(frames), "layout", layout.String(), "path", outPath)
	return nil
}

// parseHexColor parses a #rrggbb (or rrggbb) color string.
func parseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}
