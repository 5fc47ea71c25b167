package software

import (
	"math"
	"sort"

	"github.com/gogpu/imreg"
)

const (
	// coarseSearchRadius is the offset range scanned at the coarsest
	// pyramid level.
	coarseSearchRadius = 8
	// refineSearchRadius is scanned around each candidate on finer
	// levels; it must absorb the rounding error that doubling a coarse
	// offset introduces.
	refineSearchRadius = 2
	// maxSearchTracks is how many coarse candidates are carried down the
	// pyramid independently.
	maxSearchTracks = 5
)

// registerTranslation estimates the integer translation (dr, dc) that
// minimizes the mean squared difference between fixed(p) and
// moving(p + (dr, dc)).
//
// A single coarse-to-fine track is not trustworthy: true offsets are
// fractional at coarse levels and periodic texture aliases into spurious
// coarse minima. The best separated coarse offsets are therefore refined
// independently through the pyramid and the winner is decided by the
// full-resolution score.
func registerTranslation(fixed, moving []float64, h, w int) (float64, float64) {
	fp := buildPyramid(fixed, h, w)
	mp := buildPyramid(moving, h, w)

	top := len(fp) - 1
	cands := coarseOffsets(fp[top], mp[top], coarseSearchRadius, maxSearchTracks)
	log := imreg.Logger()
	for l := top - 1; l >= 0; l-- {
		for i := range cands {
			cands[i].dr, cands[i].dc = searchOffset(fp[l], mp[l], cands[i].dr*2, cands[i].dc*2, refineSearchRadius)
		}
		log.Debug("translation pyramid level", "level", l, "tracks", cands)
	}

	bestR, bestC := 0, 0
	bestScore := math.Inf(1)
	for _, c := range cands {
		score, n := offsetScore(fp[0], mp[0], c.dr, c.dc)
		if n*4 < h*w {
			continue
		}
		if score < bestScore {
			bestScore = score
			bestR, bestC = c.dr, c.dc
		}
	}
	return float64(bestR), float64(bestC)
}

// offsetCand is one tracked offset with the score it was selected on.
type offsetCand struct {
	dr, dc int
	score  float64
}

// coarseOffsets scans integer offsets within radius of (0, 0) and returns
// up to k candidates ordered by score. Accepted candidates are kept
// mutually separated by more than refineSearchRadius so a single basin
// cannot occupy every track. Offsets leaving less than a quarter of the
// image overlapping are rejected.
func coarseOffsets(f, m level, radius, k int) []offsetCand {
	scored := make([]offsetCand, 0, (2*radius+1)*(2*radius+1))
	for dr := -radius; dr <= radius; dr++ {
		for dc := -radius; dc <= radius; dc++ {
			score, n := offsetScore(f, m, dr, dc)
			if n*4 < f.h*f.w {
				continue
			}
			scored = append(scored, offsetCand{dr: dr, dc: dc, score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score < scored[j].score })

	out := make([]offsetCand, 0, k)
	for _, c := range scored {
		if len(out) == k {
			break
		}
		near := false
		for _, o := range out {
			if iabs(c.dr-o.dr) <= refineSearchRadius && iabs(c.dc-o.dc) <= refineSearchRadius {
				near = true
				break
			}
		}
		if !near {
			out = append(out, c)
		}
	}
	return out
}

// searchOffset scans integer offsets within radius of (cr, cc) and
// returns the one with the lowest mean squared difference over the
// overlap region. Offsets leaving less than a quarter of the image
// overlapping are rejected.
func searchOffset(f, m level, cr, cc, radius int) (int, int) {
	bestR, bestC := cr, cc
	bestScore := math.Inf(1)
	for dr := cr - radius; dr <= cr+radius; dr++ {
		for dc := cc - radius; dc <= cc+radius; dc++ {
			score, n := offsetScore(f, m, dr, dc)
			if n*4 < f.h*f.w {
				continue
			}
			if score < bestScore {
				bestScore = score
				bestR, bestC = dr, dc
			}
		}
	}
	return bestR, bestC
}

// offsetScore returns the mean squared difference between f(p) and
// m(p + (dr, dc)) over the overlap region, and the overlap pixel count.
func offsetScore(f, m level, dr, dc int) (float64, int) {
	r0, r1 := max(0, -dr), min(f.h, m.h-dr)
	c0, c1 := max(0, -dc), min(f.w, m.w-dc)
	if r0 >= r1 || c0 >= c1 {
		return math.Inf(1), 0
	}
	var sum float64
	for r := r0; r < r1; r++ {
		fi := r * f.w
		mi := (r + dr) * m.w
		for c := c0; c < c1; c++ {
			d := m.pix[mi+c+dc] - f.pix[fi+c]
			sum += d * d
		}
	}
	n := (r1 - r0) * (c1 - c0)
	return sum / float64(n), n
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
