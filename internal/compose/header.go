package compose

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultHeaderPadding is the vertical padding around the description band.
const DefaultHeaderPadding = 20

var (
	headerBandColor = color.RGBA{240, 240, 240, 255}
	headerTextColor = color.RGBA{0, 0, 0, 255}

	faceOnce   sync.Once
	headerFont font.Face
)

// headerFace returns the font face used for description headers.
// Falls back to the fixed 7x13 face if the bundled font fails to parse;
// a missing font must never abort composition.
func headerFace() font.Face {
	faceOnce.Do(func() {
		ft, err := opentype.Parse(goregular.TTF)
		if err != nil {
			slog.Warn("header font unavailable, using fallback face", "error", err)
			headerFont = basicfont.Face7x13
			return
		}
		face, err := opentype.NewFace(ft, &opentype.FaceOptions{
			Size:    16,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			slog.Warn("header font unavailable, using fallback face", "error", err)
			headerFont = basicfont.Face7x13
			return
		}
		headerFont = face
	})
	return headerFont
}

// Annotate renders a description banner above the image. The result is taller
// than the input by the text height plus twice the padding; the text is
// horizontally centered and the original image sits below unchanged.
func Annotate(img image.Image, description string, padding int) *image.RGBA {
	face := headerFace()
	metrics := face.Metrics()
	textHeight := (metrics.Ascent + metrics.Descent).Ceil()
	textWidth := font.MeasureString(face, description).Ceil()

	b := img.Bounds()
	headerHeight := textHeight + 2*padding
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()+headerHeight))

	draw.Draw(out, image.Rect(0, 0, b.Dx(), headerHeight),
		&image.Uniform{headerBandColor}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(headerTextColor),
		Face: face,
		Dot:  fixed.P((b.Dx()-textWidth)/2, padding+metrics.Ascent.Ceil()),
	}
	d.DrawString(description)

	draw.Draw(out, image.Rect(0, headerHeight, b.Dx(), headerHeight+b.Dy()),
		img, b.Min, draw.Src)
	return out
}
