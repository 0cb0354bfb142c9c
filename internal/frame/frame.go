// Package frame provides the captured pixel frame type and image loading.
package frame

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"screencatch/pkg/geometry"

	_ "golang.org/x/image/tiff"
)

// ErrEmptyInput is returned when a composition is requested over zero frames.
var ErrEmptyInput = errors.New("no frames to compose")

// UnreadableFrameError reports an input image that could not be opened or decoded.
type UnreadableFrameError struct {
	Path string
	Err  error
}

func (e *UnreadableFrameError) Error() string {
	return fmt.Sprintf("unreadable frame %q: %v", e.Path, e.Err)
}

func (e *UnreadableFrameError) Unwrap() error {
	return e.Err
}

// Frame is one captured screen region: an owned RGBA pixel buffer plus the
// originating region in virtual-screen coordinates and the zero-based capture
// index recording sequence order. Frames are not mutated after construction.
type Frame struct {
	Image  *image.RGBA
	Region geometry.Rect
	Index  int
}

// New creates a Frame from any image, copying it into an owned RGBA buffer.
func New(img image.Image, region geometry.Rect, index int) *Frame {
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Bounds().Min != (image.Point{}) {
		b := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return &Frame{Image: rgba, Region: region, Index: index}
}

// Load reads and decodes an image file into a Frame. The frame's region is
// synthesized from the image dimensions since file inputs carry no screen origin.
func Load(path string, index int) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &UnreadableFrameError{Path: path, Err: err}
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, &UnreadableFrameError{Path: path, Err: err}
	}

	b := img.Bounds()
	return New(img, geometry.NewRect(0, 0, b.Dx(), b.Dy()), index), nil
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int {
	if f.Image == nil {
		return 0
	}
	return f.Image.Bounds().Dx()
}

// Height returns the frame height in pixels.
func (f *Frame) Height() int {
	if f.Image == nil {
		return 0
	}
	return f.Image.Bounds().Dy()
}

// Size returns the frame dimensions.
func (f *Frame) Size() geometry.Size {
	return geometry.Size{Width: f.Width(), Height: f.Height()}
}

// Aspect returns the width/height ratio of the frame.
func (f *Frame) Aspect() float64 {
	h := f.Height()
	if h == 0 {
		return 0
	}
	return float64(f.Width()) / float64(h)
}

// SupportedFormats returns the list of accepted image file extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tif", ".tiff"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
