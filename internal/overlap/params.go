package overlap

// Params holds the overlap detector thresholds.
type Params struct {
	// MinOverlap is the smallest candidate band height considered, in pixels.
	// Matches below this are overwhelmingly accidental (a few rows of blank
	// background line up between unrelated captures).
	MinOverlap int

	// MaxOverlapFrac caps the candidate band at this fraction of the shorter
	// frame's height when no explicit MaxOverlap is given.
	MaxOverlapFrac float64

	// MaxOverlap, when > 0, is an absolute cap on the candidate band height.
	MaxOverlap int

	// GoodScore is the MSE below which a candidate counts as a match.
	// Scale reference: 100 = very similar, 1000 = somewhat similar,
	// 10000+ = different content.
	GoodScore float64

	// ExcellentScore is the MSE below which a match is accepted outright,
	// skipping the flat-region guard.
	ExcellentScore float64

	// ModerateScore bounds the range in which the flat-region variance guard
	// applies.
	ModerateScore float64

	// MedianRatio rejects a best score that exceeds this fraction of the
	// median candidate score, unless the match is excellent. When every band
	// height scores about the same there is no distinctive overlap shape.
	MedianRatio float64

	// FlatVariance rejects matched bands whose pixel variance falls below
	// this on both sides (near-solid color).
	FlatVariance float64
}

// DefaultParams returns the detector thresholds tuned for screen captures.
func DefaultParams() Params {
	return Params{
		MinOverlap:     10,
		MaxOverlapFrac: 0.95,
		GoodScore:      2000,
		ExcellentScore: 50,
		ModerateScore:  500,
		MedianRatio:    0.5,
		FlatVariance:   10,
	}
}

// WithMaxOverlap returns a copy of params with an absolute band-height cap.
func (p Params) WithMaxOverlap(px int) Params {
	p.MaxOverlap = px
	return p
}
