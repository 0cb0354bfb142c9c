// Package overlap estimates duplicated pixel bands between vertically adjacent captures.
package overlap

import (
	"image"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"screencatch/internal/frame"
)

// Reason explains a detector decision.
type Reason int

const (
	ReasonAccepted Reason = iota
	ReasonTooSmall
	ReasonScoreTooHigh
	ReasonNearMedian
	ReasonFlatRegion
)

func (r Reason) String() string {
	switch r {
	case ReasonAccepted:
		return "accepted"
	case ReasonTooSmall:
		return "frames too small to compare"
	case ReasonScoreTooHigh:
		return "no band scored as a match"
	case ReasonNearMedian:
		return "no distinctive overlap shape"
	case ReasonFlatRegion:
		return "matched band is near-solid color"
	default:
		return "unknown"
	}
}

// Measurement is the outcome of probing one adjacent frame pair.
// A rejection is a defined outcome, not an error: OverlapPx is 0 and the
// pair should be stacked flush.
type Measurement struct {
	OverlapPx int
	Score     float64
	Accepted  bool
	Reason    Reason
}

// Detector scores candidate overlap bands between adjacent frames.
type Detector struct {
	params Params
}

// NewDetector creates a detector with the given thresholds.
func NewDetector(params Params) *Detector {
	return &Detector{params: params}
}

// DetectOverlap reports how many rows of the bottom frame duplicate the tail
// of the top frame, using default thresholds. maxOverlap caps the candidate
// band height; pass 0 for the default (95% of the shorter frame).
func DetectOverlap(top, bottom *frame.Frame, maxOverlap int) int {
	m := NewDetector(DefaultParams().WithMaxOverlap(maxOverlap)).Detect(top, bottom)
	return m.OverlapPx
}

// Detect measures the overlap between the bottom of top and the top of bottom.
//
// Every candidate band height k gets a mean-squared-error score, then the
// largest k with a good score wins. Preferring the largest plausible band over
// the statistically tightest one matters because small accidental matches
// (a few rows of uniform background) are common false positives at small k.
// The policy trades false negatives for false positives: a missed overlap only
// makes the panorama slightly longer, a false overlap silently loses content.
func (d *Detector) Detect(top, bottom *frame.Frame) Measurement {
	p := d.params

	h1, h2 := top.Height(), bottom.Height()
	minW := min(top.Width(), bottom.Width())

	maxOverlap := p.MaxOverlap
	if maxOverlap <= 0 {
		maxOverlap = int(float64(min(h1, h2)) * p.MaxOverlapFrac)
	}
	limit := min(maxOverlap, h1, h2)
	if minW == 0 || limit <= p.MinOverlap {
		return Measurement{Reason: ReasonTooSmall}
	}

	ks := make([]int, 0, limit-p.MinOverlap)
	scores := make([]float64, 0, limit-p.MinOverlap)
	for k := p.MinOverlap; k < limit; k++ {
		ks = append(ks, k)
		scores = append(scores, bandMSE(top.Image, bottom.Image, k, minW))
	}

	// Largest band with a good score wins over a tighter score at small k.
	bestK := 0
	bestScore := math.Inf(1)
	for i := len(scores) - 1; i >= 0; i-- {
		if scores[i] < p.GoodScore {
			bestK = ks[i]
			bestScore = scores[i]
			break
		}
	}
	if bestK == 0 {
		for i := range scores {
			if scores[i] < bestScore {
				bestScore = scores[i]
				bestK = ks[i]
			}
		}
	}

	if bestScore > p.GoodScore {
		slog.Debug("no overlap detected, stacking flush", "score", bestScore)
		return Measurement{Score: bestScore, Reason: ReasonScoreTooHigh}
	}

	if len(scores) > 5 {
		sorted := append([]float64(nil), scores...)
		sort.Float64s(sorted)
		median := stat.Quantile(0.5, stat.Empirical, sorted, nil)

		// All band heights scoring about the same means there is no
		// distinctive overlap, unless the match is excellent outright.
		if bestScore > median*p.MedianRatio && bestScore > p.ExcellentScore {
			slog.Debug("no significant overlap, stacking flush",
				"best", bestScore, "median", median)
			return Measurement{Score: bestScore, Reason: ReasonNearMedian}
		}
	}

	if bestScore < p.ExcellentScore {
		slog.Debug("overlap detected", "px", bestK, "score", bestScore)
		return Measurement{OverlapPx: bestK, Score: bestScore, Accepted: true, Reason: ReasonAccepted}
	}

	if bestScore < p.ModerateScore {
		topVar := bandVariance(top.Image, h1-bestK, bestK, minW)
		botVar := bandVariance(bottom.Image, 0, bestK, minW)
		if topVar < p.FlatVariance && botVar < p.FlatVariance {
			slog.Debug("blank band matched, stacking flush", "variance", topVar)
			return Measurement{Score: bestScore, Reason: ReasonFlatRegion}
		}
	}

	slog.Debug("overlap detected", "px", bestK, "score", bestScore)
	return Measurement{OverlapPx: bestK, Score: bestScore, Accepted: true, Reason: ReasonAccepted}
}

// bandMSE computes the mean squared error between the bottom k rows of top
// and the top k rows of bottom, over the shared minW columns, RGB channels.
func bandMSE(top, bottom *image.RGBA, k, minW int) float64 {
	topStart := top.Bounds().Dy() - k

	var sum float64
	for row := 0; row < k; row++ {
		topOff := (topStart + row) * top.Stride
		botOff := row * bottom.Stride
		for x := 0; x < minW; x++ {
			to := topOff + x*4
			bo := botOff + x*4
			for c := 0; c < 3; c++ {
				d := float64(top.Pix[to+c]) - float64(bottom.Pix[bo+c])
				sum += d * d
			}
		}
	}
	return sum / float64(k*minW*3)
}

// bandVariance computes the pixel variance of a k-row band starting at yStart,
// across the shared minW columns and RGB channels.
func bandVariance(img *image.RGBA, yStart, k, minW int) float64 {
	var sum, sum2 float64
	n := 0
	for row := 0; row < k; row++ {
		off := (yStart + row) * img.Stride
		for x := 0; x < minW; x++ {
			o := off + x*4
			for c := 0; c < 3; c++ {
				v := float64(img.Pix[o+c])
				sum += v
				sum2 += v * v
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	nf := float64(n)
	v := sum2/nf - (sum/nf)*(sum/nf)
	if v < 0 {
		v = 0
	}
	return v
}
