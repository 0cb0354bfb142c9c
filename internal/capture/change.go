package capture

import (
	"image"

	"github.com/corona10/goimagehash"
)

// MaxUnchangedDistance is the perceptual-hash Hamming distance at or below
// which two captures are considered the same content.
const MaxUnchangedDistance = 5

// ChangeDetector tracks whether successive captures differ. Recapture loops
// use it to skip sessions where the screen content has not moved on.
type ChangeDetector struct {
	lastHash    *goimagehash.ImageHash
	maxDistance int
}

// NewChangeDetector creates a change detector with the default threshold.
func NewChangeDetector() *ChangeDetector {
	return &ChangeDetector{maxDistance: MaxUnchangedDistance}
}

// Changed reports whether the image differs from the previously seen capture.
// The first capture always counts as changed. Hash failures report changed
// rather than silently dropping a capture.
func (c *ChangeDetector) Changed(img image.Image) bool {
	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return true
	}

	if c.lastHash == nil {
		c.lastHash = hash
		return true
	}

	dist, err := c.lastHash.Distance(hash)
	if err != nil {
		c.lastHash = hash
		return true
	}
	if dist <= c.maxDistance {
		return false
	}
	c.lastHash = hash
	return true
}
