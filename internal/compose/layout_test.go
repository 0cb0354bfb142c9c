package compose

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"screencatch/internal/frame"
	"screencatch/pkg/geometry"
)

func testFrame(w, h int, c color.RGBA) *frame.Frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return frame.New(img, geometry.NewRect(0, 0, w, h), 0)
}

func squares(n, size int) []*frame.Frame {
	frames := make([]*frame.Frame, n)
	for i := range frames {
		frames[i] = testFrame(size, size, color.RGBA{uint8(40 * i), 80, 120, 255})
		frames[i].Index = i
	}
	return frames
}

func TestComposeEmptyInput(t *testing.T) {
	_, _, err := Compose(nil, DefaultSpec())
	if !errors.Is(err, frame.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestComposeSingleFrameIdentity(t *testing.T) {
	f := testFrame(123, 45, color.RGBA{1, 2, 3, 255})
	for _, method := range []Method{MethodVertical, MethodHorizontal, MethodGrid, MethodAuto} {
		spec := DefaultSpec()
		spec.Method = method
		canvas, _, err := Compose([]*frame.Frame{f}, spec)
		if err != nil {
			t.Fatalf("%v: %v", method, err)
		}
		if canvas != f.Image {
			t.Errorf("%v: single frame should be returned unchanged", method)
		}
	}
}

func TestComposeVerticalSizeLaw(t *testing.T) {
	spec := DefaultSpec()
	spec.Method = MethodVertical

	canvas, layout, err := Compose(squares(3, 100), spec)
	if err != nil {
		t.Fatal(err)
	}
	if layout != MethodVertical {
		t.Errorf("layout = %v, want vertical", layout)
	}
	if w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy(); w != 100 || h != 320 {
		t.Errorf("canvas = %dx%d, want 100x320", w, h)
	}
}

func TestComposeHorizontalSizeLaw(t *testing.T) {
	spec := DefaultSpec()
	spec.Method = MethodHorizontal

	canvas, _, err := Compose(squares(3, 100), spec)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy(); w != 320 || h != 100 {
		t.Errorf("canvas = %dx%d, want 320x100", w, h)
	}
}

func TestComposeGridSizeLaw(t *testing.T) {
	spec := DefaultSpec()
	spec.Method = MethodGrid
	spec.Cols = 2

	canvas, _, err := Compose(squares(4, 100), spec)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy(); w != 210 || h != 210 {
		t.Errorf("canvas = %dx%d, want 210x210", w, h)
	}
}

func TestComposeGridDefaultCols(t *testing.T) {
	spec := DefaultSpec()
	spec.Method = MethodGrid

	// Five frames: cols = ceil(sqrt(5)) = 3, rows = 2.
	canvas, _, err := Compose(squares(5, 100), spec)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy(); w != 320 || h != 210 {
		t.Errorf("canvas = %dx%d, want 320x210", w, h)
	}
}

func TestComposeAutoTwoSquares(t *testing.T) {
	// Aspect 1.0 is not wide, so two squares go side by side.
	canvas, layout, err := Compose(squares(2, 100), DefaultSpec())
	if err != nil {
		t.Fatal(err)
	}
	if layout != MethodHorizontal {
		t.Errorf("layout = %v, want horizontal", layout)
	}
	if w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy(); w != 210 || h != 100 {
		t.Errorf("canvas = %dx%d, want 210x100", w, h)
	}
}

func TestComposeAutoTwoWideFrames(t *testing.T) {
	frames := []*frame.Frame{
		testFrame(300, 100, color.RGBA{10, 20, 30, 255}),
		testFrame(300, 100, color.RGBA{40, 50, 60, 255}),
	}
	_, layout, err := Compose(frames, DefaultSpec())
	if err != nil {
		t.Fatal(err)
	}
	if layout != MethodVertical {
		t.Errorf("layout = %v, want vertical for wide frames", layout)
	}
}

func TestComposeAutoGridCounts(t *testing.T) {
	for _, tc := range []struct {
		n     int
		wantW int
		wantH int
	}{
		{3, 210, 210}, // 2 cols, 2 rows
		{4, 210, 210}, // 2 cols, 2 rows
		{5, 320, 210}, // 3 cols, 2 rows
	} {
		canvas, layout, err := Compose(squares(tc.n, 100), DefaultSpec())
		if err != nil {
			t.Fatalf("n=%d: %v", tc.n, err)
		}
		if layout != MethodGrid {
			t.Errorf("n=%d: layout = %v, want grid", tc.n, layout)
		}
		if w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy(); w != tc.wantW || h != tc.wantH {
			t.Errorf("n=%d: canvas = %dx%d, want %dx%d", tc.n, w, h, tc.wantW, tc.wantH)
		}
	}
}

func TestComposeCentersNarrowFrames(t *testing.T) {
	spec := DefaultSpec()
	spec.Method = MethodVertical
	spec.Spacing = 0
	spec.Background = color.RGBA{255, 0, 0, 255}

	frames := []*frame.Frame{
		testFrame(100, 10, color.RGBA{0, 0, 255, 255}),
		testFrame(50, 10, color.RGBA{0, 255, 0, 255}),
	}
	canvas, _, err := Compose(frames, spec)
	if err != nil {
		t.Fatal(err)
	}

	// The 50px frame sits centered at x=25 on the 100px canvas.
	if got := canvas.RGBAAt(10, 15); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("left margin should be background, got %v", got)
	}
	if got := canvas.RGBAAt(50, 15); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("center should be the narrow frame, got %v", got)
	}
}

func TestComposeSpacingFilledWithBackground(t *testing.T) {
	spec := DefaultSpec()
	spec.Method = MethodVertical
	spec.Spacing = 10
	spec.Background = color.RGBA{9, 9, 9, 255}

	canvas, _, err := Compose(squares(2, 100), spec)
	if err != nil {
		t.Fatal(err)
	}
	if got := canvas.RGBAAt(50, 105); got != (color.RGBA{9, 9, 9, 255}) {
		t.Errorf("spacing band should be background, got %v", got)
	}
}

func TestComposeIdempotent(t *testing.T) {
	frames := squares(3, 64)
	spec := DefaultSpec()

	first, _, err := Compose(frames, spec)
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := Compose(frames, spec)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Error("composing the same sequence twice should be byte-identical")
	}
}

func TestParseMethod(t *testing.T) {
	for name, want := range map[string]Method{
		"vertical":   MethodVertical,
		"horizontal": MethodHorizontal,
		"grid":       MethodGrid,
		"auto":       MethodAuto,
	} {
		got, err := ParseMethod(name)
		if err != nil || got != want {
			t.Errorf("ParseMethod(%q) = %v, %v", name, got, err)
		}
		if got.String() != name {
			t.Errorf("String() round-trip: %q != %q", got.String(), name)
		}
	}
	if _, err := ParseMethod("diagonal"); err == nil {
		t.Error("expected error for unknown method")
	}
}
