// Package compose arranges captured frames onto a single canvas.
package compose

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"screencatch/internal/frame"
)

// Method selects the geometric arrangement strategy.
type Method int

const (
	MethodVertical Method = iota
	MethodHorizontal
	MethodGrid
	MethodAuto
)

func (m Method) String() string {
	switch m {
	case MethodVertical:
		return "vertical"
	case MethodHorizontal:
		return "horizontal"
	case MethodGrid:
		return "grid"
	case MethodAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// ParseMethod parses a layout method name.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "vertical":
		return MethodVertical, nil
	case "horizontal":
		return MethodHorizontal, nil
	case "grid":
		return MethodGrid, nil
	case "auto", "":
		return MethodAuto, nil
	default:
		return MethodAuto, fmt.Errorf("unknown merge method %q", s)
	}
}

// Spec is the caller-supplied configuration for one composition.
type Spec struct {
	Method      Method
	Cols        int // grid columns; 0 picks ceil(sqrt(n))
	Spacing     int
	Background  color.RGBA
	Description string
}

// DefaultSpec returns the default composition settings: auto layout,
// 10px spacing, white background.
func DefaultSpec() Spec {
	return Spec{
		Method:     MethodAuto,
		Spacing:    10,
		Background: color.RGBA{255, 255, 255, 255},
	}
}

// Compose lays the frames onto one canvas in capture order and returns the
// canvas plus the concrete layout used. A single frame is returned unchanged
// for every method. An empty sequence fails with frame.ErrEmptyInput.
func Compose(frames []*frame.Frame, spec Spec) (*image.RGBA, Method, error) {
	if len(frames) == 0 {
		return nil, spec.Method, frame.ErrEmptyInput
	}
	if len(frames) == 1 {
		return frames[0].Image, spec.Method, nil
	}

	method := spec.Method
	cols := spec.Cols
	if method == MethodAuto {
		method, cols = autoLayout(frames)
	}

	switch method {
	case MethodHorizontal:
		return composeHorizontal(frames, spec), MethodHorizontal, nil
	case MethodGrid:
		return composeGrid(frames, spec, cols), MethodGrid, nil
	default:
		return composeVertical(frames, spec), MethodVertical, nil
	}
}

// autoLayout picks a concrete method from frame count and shape.
// Two frames split on mean aspect ratio; three or four get a 2-column grid;
// five or more get a square-ish grid.
func autoLayout(frames []*frame.Frame) (Method, int) {
	switch n := len(frames); {
	case n == 2:
		meanAspect := (frames[0].Aspect() + frames[1].Aspect()) / 2
		if meanAspect > 1.5 {
			return MethodVertical, 0
		}
		return MethodHorizontal, 0
	case n <= 4:
		return MethodGrid, 2
	default:
		return MethodGrid, 0
	}
}

func composeVertical(frames []*frame.Frame, spec Spec) *image.RGBA {
	maxW := 0
	totalH := spec.Spacing * (len(frames) - 1)
	for _, f := range frames {
		maxW = max(maxW, f.Width())
		totalH += f.Height()
	}

	canvas := newCanvas(maxW, totalH, spec.Background)
	y := 0
	for _, f := range frames {
		paste(canvas, f, (maxW-f.Width())/2, y)
		y += f.Height() + spec.Spacing
	}
	return canvas
}

func composeHorizontal(frames []*frame.Frame, spec Spec) *image.RGBA {
	maxH := 0
	totalW := spec.Spacing * (len(frames) - 1)
	for _, f := range frames {
		maxH = max(maxH, f.Height())
		totalW += f.Width()
	}

	canvas := newCanvas(totalW, maxH, spec.Background)
	x := 0
	for _, f := range frames {
		paste(canvas, f, x, (maxH-f.Height())/2)
		x += f.Width() + spec.Spacing
	}
	return canvas
}

func composeGrid(frames []*frame.Frame, spec Spec, cols int) *image.RGBA {
	n := len(frames)
	if cols <= 0 {
		cols = int(math.Ceil(math.Sqrt(float64(n))))
	}
	rows := (n + cols - 1) / cols

	cellW, cellH := 0, 0
	for _, f := range frames {
		cellW = max(cellW, f.Width())
		cellH = max(cellH, f.Height())
	}

	totalW := cellW*cols + spec.Spacing*(cols-1)
	totalH := cellH*rows + spec.Spacing*(rows-1)
	canvas := newCanvas(totalW, totalH, spec.Background)

	for idx, f := range frames {
		row := idx / cols
		col := idx % cols
		x := col*(cellW+spec.Spacing) + (cellW-f.Width())/2
		y := row*(cellH+spec.Spacing) + (cellH-f.Height())/2
		paste(canvas, f, x, y)
	}
	return canvas
}

func newCanvas(w, h int, bg color.RGBA) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)
	return canvas
}

func paste(dst *image.RGBA, f *frame.Frame, x, y int) {
	r := image.Rect(x, y, x+f.Width(), y+f.Height())
	draw.Draw(dst, r, f.Image, image.Point{}, draw.Src)
}
