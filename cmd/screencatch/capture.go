package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"screencatch/internal/capture"
	"screencatch/internal/compose"
	"screencatch/internal/stitch"
	"screencatch/pkg/geometry"
)

func captureCommand() *cli.Command {
	return &cli.Command{
		Name:  "capture",
		Usage: "capture screen regions and save the merged result with metadata",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "region",
				Aliases: []string{"r"},
				Usage:   "region to capture as x,y,width,height (repeatable; whole virtual screen when omitted)",
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Value:   ".",
				Usage:   "directory to save captures",
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "description saved with the capture and rendered as a header",
			},
			&cli.StringFlag{
				Name:  "merge-method",
				Value: "auto",
				Usage: "how to merge multiple captures: vertical, horizontal, grid, or auto",
			},
			&cli.IntFlag{
				Name:  "spacing",
				Value: 10,
				Usage: "spacing between merged images in pixels",
			},
			&cli.BoolFlag{
				Name:  "overlap",
				Usage: "stack vertically with duplicated rows between adjacent captures trimmed",
			},
			&cli.IntFlag{
				Name:  "max-overlap",
				Usage: "cap on detected overlap in pixels (0 = default)",
			},
			&cli.BoolFlag{
				Name:  "dedupe",
				Usage: "skip captures whose content is unchanged from the previous one",
			},
			&cli.IntFlag{
				Name:  "recapture-iteration",
				Usage: "recapture attempt number recorded in metadata",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the result record as JSON to stdout",
			},
		},
		Action: runCapture,
	}
}

func runCapture(c *cli.Context) error {
	method, err := compose.ParseMethod(c.String("merge-method"))
	if err != nil {
		return err
	}

	src := capture.NewScreenSource()

	var regions []geometry.Rect
	for _, spec := range c.StringSlice("region") {
		region, err := parseRegion(spec)
		if err != nil {
			return err
		}
		regions = append(regions, region)
	}
	if len(regions) == 0 {
		regions = []geometry.Rect{src.VirtualBounds()}
	}

	outputDir := c.String("output-dir")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	slog.Info("capturing", "regions", len(regions))
	grab := capture.CaptureAll
	if c.Bool("dedupe") {
		grab = capture.CaptureDeduped
	}
	frames, err := grab(src, regions)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no regions captured")
	}

	opts := stitch.DefaultOptions()
	opts.Method = method
	opts.Spacing = c.Int("spacing")
	opts.Description = c.String("description")
	opts.OverlapAware = c.Bool("overlap")
	opts.MaxOverlap = c.Int("max-overlap")

	path, meta, err := stitch.MergeAndSave(frames, opts, outputDir, c.Int("recapture-iteration"))
	if err != nil {
		return err
	}

	if c.Bool("json") {
		record := map[string]any{
			"success":              true,
			"filepath":             path,
			"description":          meta.Description,
			"capture_count":        meta.Captures,
			"merged":               meta.Merged,
			"recapture_iterations": meta.RecaptureIteration,
			"metadata_file":        stitch.SidecarPath(path),
		}
		out, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(path)
	return nil
}

func displaysCommand() *cli.Command {
	return &cli.Command{
		Name:  "displays",
		Usage: "print the virtual-screen bounds and per-display geometry",
		Action: func(c *cli.Context) error {
			src := capture.NewScreenSource()
			vb := src.VirtualBounds()
			fmt.Printf("virtual screen: %d,%d %dx%d\n", vb.X, vb.Y, vb.Width, vb.Height)
			for i, d := range src.Displays() {
				fmt.Printf("display %d: %d,%d %dx%d\n", i, d.X, d.Y, d.Width, d.Height)
			}
			return nil
		},
	}
}

// parseRegion parses an "x,y,width,height" region spec.
func parseRegion(s string) (geometry.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geometry.Rect{}, fmt.Errorf("invalid region %q: want x,y,width,height", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return geometry.Rect{}, fmt.Errorf("invalid region %q: %w", s, err)
		}
		vals[i] = v
	}
	region := geometry.NewRect(vals[0], vals[1], vals[2], vals[3])
	if region.Empty() {
		return geometry.Rect{}, fmt.Errorf("invalid region %q: width and height must be positive", s)
	}
	return region, nil
}
