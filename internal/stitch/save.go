package stitch

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"screencatch/internal/compose"
	"screencatch/internal/frame"
	"screencatch/pkg/geometry"
)

// MergeAndSave composes the frames per the requested method, renders the
// description header if one is set, and writes the PNG plus its metadata
// sidecar into outputDir. The image file is only written after composition
// fully succeeds. Returns the output image path and the persisted record.
func MergeAndSave(frames []*frame.Frame, opts Options, outputDir string, recaptureIteration int) (string, *Metadata, error) {
	if len(frames) == 0 {
		return "", nil, frame.ErrEmptyInput
	}

	now := time.Now()
	filename := fmt.Sprintf("capture_%s.png", now.Format("2006-01-02_150405"))
	outPath := filepath.Join(outputDir, filename)

	var canvas *image.RGBA
	layout := opts.Method
	if len(frames) == 1 {
		canvas = frames[0].Image
	} else if opts.OverlapAware {
		canvas = stackWithOverlap(frames, opts.MaxOverlap)
		layout = compose.MethodVertical
	} else {
		var err error
		canvas, layout, err = compose.Compose(frames, opts.composeSpec())
		if err != nil {
			return "", nil, err
		}
	}

	if opts.Description != "" {
		canvas = compose.Annotate(canvas, opts.Description, compose.DefaultHeaderPadding)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return "", nil, fmt.Errorf("encode output image: %w", err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return "", nil, fmt.Errorf("write output image: %w", err)
	}

	regions := make([]geometry.Rect, len(frames))
	for i, f := range frames {
		regions[i] = f.Region
	}
	meta := &Metadata{
		Description:        opts.Description,
		Timestamp:          now.Format(time.RFC3339),
		Captures:           len(frames),
		Merged:             len(frames) > 1,
		Filepath:           outPath,
		Regions:            regions,
		RecaptureIteration: recaptureIteration,
		MergeMethod:        opts.Method.String(),
	}
	if err := meta.Save(SidecarPath(outPath)); err != nil {
		return "", nil, fmt.Errorf("write metadata sidecar: %w", err)
	}

	slog.Info("saved capture", "path", outPath, "captures", len(frames), "layout", layout.String())
	return outPath, meta, nil
}
