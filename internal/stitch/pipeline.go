// Package stitch orchestrates frame composition, annotation, and output.
package stitch

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"screencatch/internal/compose"
	"screencatch/internal/frame"
	"screencatch/internal/overlap"
)

// Options configures one stitch call.
type Options struct {
	Method      compose.Method
	Cols        int
	Spacing     int
	Background  color.RGBA
	Description string

	// OverlapAware consults the overlap detector per adjacent pair and trims
	// duplicated rows before stacking. When false (the default), multi-frame
	// stitching is a flush vertical stack and the detector is never invoked.
	OverlapAware bool

	// MaxOverlap caps the detector's candidate band height; 0 uses the default.
	MaxOverlap int
}

// DefaultOptions returns the default stitch settings.
func DefaultOptions() Options {
	return Options{
		Method:     compose.MethodAuto,
		Spacing:    10,
		Background: color.RGBA{255, 255, 255, 255},
	}
}

func (o Options) composeSpec() compose.Spec {
	return compose.Spec{
		Method:      o.Method,
		Cols:        o.Cols,
		Spacing:     o.Spacing,
		Background:  o.Background,
		Description: o.Description,
	}
}

// Result is the outcome of one composition. The caller owns the canvas;
// the pipeline retains no reference.
type Result struct {
	Canvas     *image.RGBA
	LayoutUsed compose.Method
	FrameCount int
}

// Stitch combines the ordered frame sequence into one canvas. A single frame
// is returned verbatim. Multiple frames are stacked vertically: flush by
// default, or with duplicated rows trimmed when Options.OverlapAware is set.
// Stitch never renders the description header; use StitchAnnotated for the
// compose-then-annotate path.
func Stitch(frames []*frame.Frame, opts Options) (Result, error) {
	if len(frames) == 0 {
		return Result{}, frame.ErrEmptyInput
	}
	if len(frames) == 1 {
		return Result{Canvas: frames[0].Image, LayoutUsed: opts.Method, FrameCount: 1}, nil
	}

	var canvas *image.RGBA
	if opts.OverlapAware {
		canvas = stackWithOverlap(frames, opts.MaxOverlap)
	} else {
		canvas = flushStack(frames)
	}
	return Result{Canvas: canvas, LayoutUsed: compose.MethodVertical, FrameCount: len(frames)}, nil
}

// StitchAnnotated runs Stitch and, when a description is set, renders it as a
// header band above the canvas. This applies to single frames too.
func StitchAnnotated(frames []*frame.Frame, opts Options) (Result, error) {
	r, err := Stitch(frames, opts)
	if err != nil {
		return r, err
	}
	if opts.Description != "" {
		r.Canvas = compose.Annotate(r.Canvas, opts.Description, compose.DefaultHeaderPadding)
	}
	return r, nil
}

// flushStack stacks frames top-to-bottom with no spacing, left-aligned,
// white fill behind narrower frames. The user is responsible for capturing
// without duplication.
func flushStack(frames []*frame.Frame) *image.RGBA {
	maxW, totalH := 0, 0
	for _, f := range frames {
		maxW = max(maxW, f.Width())
		totalH += f.Height()
	}

	canvas := image.NewRGBA(image.Rect(0, 0, maxW, totalH))
	draw.Draw(canvas, canvas.Bounds(),
		&image.Uniform{color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	y := 0
	for i, f := range frames {
		slog.Debug("placing frame", "index", i, "y", y)
		draw.Draw(canvas, image.Rect(0, y, f.Width(), y+f.Height()),
			f.Image, image.Point{}, draw.Src)
		y += f.Height()
	}
	return canvas
}

// stackWithOverlap stacks frames vertically, trimming the top rows of each
// frame that the detector judges to duplicate the tail of its predecessor.
// A rejected pair joins flush.
func stackWithOverlap(frames []*frame.Frame, maxOverlap int) *image.RGBA {
	detector := overlap.NewDetector(overlap.DefaultParams().WithMaxOverlap(maxOverlap))

	trims := make([]int, len(frames))
	maxW, totalH := frames[0].Width(), frames[0].Height()
	for i := 1; i < len(frames); i++ {
		m := detector.Detect(frames[i-1], frames[i])
		if !m.Accepted {
			slog.Debug("pair joins flush", "pair", i, "reason", m.Reason.String())
		}
		trims[i] = m.OverlapPx
		maxW = max(maxW, frames[i].Width())
		totalH += frames[i].Height() - trims[i]
	}

	canvas := image.NewRGBA(image.Rect(0, 0, maxW, totalH))
	draw.Draw(canvas, canvas.Bounds(),
		&image.Uniform{color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	y := 0
	for i, f := range frames {
		h := f.Height() - trims[i]
		draw.Draw(canvas, image.Rect(0, y, f.Width(), y+h),
			f.Image, image.Point{Y: trims[i]}, draw.Src)
		y += h
	}
	return canvas
}
