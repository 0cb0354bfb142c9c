// Package capture is the seam between the OS screen and the composition core.
package capture

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/kbinani/screenshot"

	"screencatch/internal/frame"
	"screencatch/pkg/geometry"
)

// Source is the capability the composition core consumes: a virtual-screen
// geometry query plus region grabs. GUI overlays, hotkey front ends, and
// headless sources all sit behind this one interface.
type Source interface {
	// VirtualBounds returns the bounding rectangle of all displays.
	VirtualBounds() geometry.Rect

	// Capture grabs the pixels of one screen region.
	Capture(region geometry.Rect) (image.Image, error)
}

// ScreenSource captures from the physical displays.
type ScreenSource struct{}

// NewScreenSource creates a display-backed capture source.
func NewScreenSource() *ScreenSource {
	return &ScreenSource{}
}

// VirtualBounds returns the union of all active display bounds.
func (s *ScreenSource) VirtualBounds() geometry.Rect {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return geometry.Rect{}
	}
	bounds := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		bounds = bounds.Union(screenshot.GetDisplayBounds(i))
	}
	return fromImageRect(bounds)
}

// Displays returns the bounds of each active display in virtual-screen coordinates.
func (s *ScreenSource) Displays() []geometry.Rect {
	n := screenshot.NumActiveDisplays()
	displays := make([]geometry.Rect, n)
	for i := 0; i < n; i++ {
		displays[i] = fromImageRect(screenshot.GetDisplayBounds(i))
	}
	return displays
}

// Capture grabs the pixels of one screen region.
func (s *ScreenSource) Capture(region geometry.Rect) (image.Image, error) {
	if region.Empty() {
		return nil, fmt.Errorf("empty capture region %+v", region)
	}
	img, err := screenshot.CaptureRect(toImageRect(region))
	if err != nil {
		return nil, fmt.Errorf("capture region %+v: %w", region, err)
	}
	return img, nil
}

// CaptureAll grabs each region in order and returns the frame sequence with
// capture indices assigned. Order is the only sequencing signal the
// composition core receives.
func CaptureAll(src Source, regions []geometry.Rect) ([]*frame.Frame, error) {
	frames := make([]*frame.Frame, 0, len(regions))
	for i, region := range regions {
		img, err := src.Capture(region)
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame.New(img, region, i))
	}
	return frames, nil
}

// CaptureDeduped grabs each region in order like CaptureAll, but drops
// captures whose content has not changed since the previous grab. Capture
// indices stay contiguous over the kept frames.
func CaptureDeduped(src Source, regions []geometry.Rect) ([]*frame.Frame, error) {
	detector := NewChangeDetector()
	frames := make([]*frame.Frame, 0, len(regions))
	for _, region := range regions {
		img, err := src.Capture(region)
		if err != nil {
			return nil, err
		}
		if !detector.Changed(img) {
			slog.Debug("skipping unchanged capture", "region", region)
			continue
		}
		frames = append(frames, frame.New(img, region, len(frames)))
	}
	return frames, nil
}

func toImageRect(r geometry.Rect) image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func fromImageRect(r image.Rectangle) geometry.Rect {
	return geometry.NewRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}
