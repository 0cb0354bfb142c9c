package overlap

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand"
	"testing"

	"screencatch/internal/frame"
	"screencatch/pkg/geometry"
)

func solidFrame(w, h int, c color.RGBA) *frame.Frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return frame.New(img, geometry.NewRect(0, 0, w, h), 0)
}

func noiseImage(rnd *rand.Rand, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = byte(rnd.Intn(256))
	}
	return img
}

// overlapPair builds a top/bottom pair where the bottom's first k rows are an
// exact copy of the top's last k rows and everything else is independent noise.
func overlapPair(w, h, k int) (*frame.Frame, *frame.Frame) {
	rnd := rand.New(rand.NewSource(1))
	top := noiseImage(rnd, w, h)
	bottom := noiseImage(rnd, w, h)
	for row := 0; row < k; row++ {
		copy(bottom.Pix[row*bottom.Stride:row*bottom.Stride+w*4],
			top.Pix[(h-k+row)*top.Stride:(h-k+row)*top.Stride+w*4])
	}
	region := geometry.NewRect(0, 0, w, h)
	return frame.New(top, region, 0), frame.New(bottom, region, 1)
}

func TestDetectRejectsDissimilarSolids(t *testing.T) {
	top := solidFrame(100, 100, color.RGBA{255, 255, 255, 255})
	bottom := solidFrame(100, 100, color.RGBA{0, 0, 0, 255})

	m := NewDetector(DefaultParams()).Detect(top, bottom)
	if m.Accepted {
		t.Fatalf("expected rejection, got %dpx (score %.0f)", m.OverlapPx, m.Score)
	}
	if m.OverlapPx != 0 {
		t.Errorf("rejected measurement should report 0px, got %d", m.OverlapPx)
	}
	if m.Reason != ReasonScoreTooHigh {
		t.Errorf("expected score rejection, got %v", m.Reason)
	}
}

func TestDetectFindsSharedBand(t *testing.T) {
	const k = 30
	top, bottom := overlapPair(64, 80, k)

	m := NewDetector(DefaultParams()).Detect(top, bottom)
	if !m.Accepted {
		t.Fatalf("expected acceptance, got %v (score %.0f)", m.Reason, m.Score)
	}
	if m.OverlapPx != k {
		t.Errorf("expected %dpx overlap, got %d", k, m.OverlapPx)
	}
	if m.Score != 0 {
		t.Errorf("expected zero score for identical band, got %.2f", m.Score)
	}
}

func TestDetectOverlapConvenience(t *testing.T) {
	const k = 25
	top, bottom := overlapPair(64, 80, k)
	if got := DetectOverlap(top, bottom, 0); got != k {
		t.Errorf("DetectOverlap = %d, want %d", got, k)
	}
}

// bandedImage fills rows [0,split) with one gray level and [split,h) with another.
func bandedImage(w, h, split int, upper, lower uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		v := upper
		if y >= split {
			v = lower
		}
		for x := 0; x < w; x++ {
			o := y*img.Stride + x*4
			img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = v, v, v, 255
		}
	}
	return img
}

func TestDetectRejectsNearSolidBands(t *testing.T) {
	// The facing bands are close but not equal gray levels, so the best
	// candidate scores a moderate MSE with zero variance on both sides.
	h, w, band := 24, 64, 10
	top := bandedImage(w, h, h-band, 0, 100)
	bottom := bandedImage(w, h, band, 112, 255)

	region := geometry.NewRect(0, 0, w, h)
	m := NewDetector(DefaultParams()).Detect(
		frame.New(top, region, 0), frame.New(bottom, region, 1))
	if m.Accepted {
		t.Fatalf("expected flat-region rejection, got %dpx (score %.0f)", m.OverlapPx, m.Score)
	}
	if m.Reason != ReasonFlatRegion {
		t.Errorf("expected flat-region reason, got %v", m.Reason)
	}
}

func TestDetectTooSmallFrames(t *testing.T) {
	top := solidFrame(20, 8, color.RGBA{10, 10, 10, 255})
	bottom := solidFrame(20, 8, color.RGBA{10, 10, 10, 255})

	m := NewDetector(DefaultParams()).Detect(top, bottom)
	if m.Accepted || m.Reason != ReasonTooSmall {
		t.Errorf("expected too-small rejection, got %+v", m)
	}
}

func TestDetectHonorsMaxOverlapCap(t *testing.T) {
	const k = 50
	top, bottom := overlapPair(64, 100, k)

	// Capping below the real band keeps the detector from seeing it.
	m := NewDetector(DefaultParams().WithMaxOverlap(30)).Detect(top, bottom)
	if m.OverlapPx >= k {
		t.Errorf("cap ignored: got %dpx with max 30", m.OverlapPx)
	}
}
