package software

// level is one resolution of an image pyramid, full resolution first.
type level struct {
	pix []float64
	h   int
	w   int
}

const (
	// minPyramidSize is the smallest edge allowed at the coarsest level.
	minPyramidSize = 16
	// maxPyramidLevels caps pyramid depth for very large images.
	maxPyramidLevels = 8
)

// buildPyramid halves the image until an edge would drop below
// minPyramidSize. Level 0 is the full-resolution image.
func buildPyramid(pix []float64, h, w int) []level {
	levels := []level{{pix: pix, h: h, w: w}}
	for len(levels) < maxPyramidLevels {
		last := levels[len(levels)-1]
		if last.h/2 < minPyramidSize || last.w/2 < minPyramidSize {
			break
		}
		levels = append(levels, downsample(last))
	}
	return levels
}

// downsample halves a level by 2x2 box averaging.
func downsample(l level) level {
	h2, w2 := l.h/2, l.w/2
	out := make([]float64, h2*w2)
	for r := 0; r < h2; r++ {
		for c := 0; c < w2; c++ {
			i := 2*r*l.w + 2*c
			out[r*w2+c] = (l.pix[i] + l.pix[i+1] + l.pix[i+l.w] + l.pix[i+l.w+1]) / 4
		}
	}
	return level{pix: out, h: h2, w: w2}
}
