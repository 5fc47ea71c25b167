package software

import (
	"fmt"
	"math"

	"github.com/gogpu/imreg"
)

const (
	// maxGNIterations bounds Gauss-Newton iterations per pyramid level.
	maxGNIterations = 60
	// gnConvergence stops iterating once the largest parameter update
	// falls below this magnitude.
	gnConvergence = 1e-9
)

// registerAffine estimates the six affine parameters minimizing the
// squared difference between fixed(p) and moving(W(p)). A pyramid
// translation search seeds a Gauss-Newton refinement that runs coarse to
// fine; every level anchors the linear block at its own grid center, so
// only the translation rescales between levels.
func registerAffine(fixed, moving []float64, h, w int) ([6]float64, error) {
	identity := [6]float64{1, 0, 0, 1, 0, 0}
	if h < 2 || w < 2 {
		return identity, fmt.Errorf("software: %dx%d image is too small for affine registration", h, w)
	}
	fp := buildPyramid(fixed, h, w)
	mp := buildPyramid(moving, h, w)
	top := len(fp) - 1

	dr, dc := searchOffset(fp[top], mp[top], 0, 0, coarseSearchRadius)
	params := [6]float64{1, 0, 0, 1, float64(dr), float64(dc)}

	log := imreg.Logger()
	for l := top; l >= 0; l-- {
		var err error
		params, err = gaussNewton(fp[l], mp[l], params)
		if err != nil {
			return params, fmt.Errorf("pyramid level %d: %w", l, err)
		}
		log.Debug("affine pyramid level", "level", l, "parameters", params)
		if l > 0 {
			params[4] *= 2
			params[5] *= 2
		}
	}
	return params, nil
}

// gaussNewton refines the parameters on one pyramid level by iterating
// normal-equation steps over the sum-of-squared-differences objective,
// with analytic gradients of the bilinear interpolant.
func gaussNewton(f, m level, params [6]float64) ([6]float64, error) {
	o0 := float64(f.h-1) / 2
	o1 := float64(f.w-1) / 2
	best := params
	bestErr := math.Inf(1)

	for iter := 0; iter < maxGNIterations; iter++ {
		var (
			jtj [6][6]float64
			jtr [6]float64
			sse float64
			n   int
		)
		for r := 0; r < f.h; r++ {
			dr := float64(r) - o0
			for c := 0; c < f.w; c++ {
				dc := float64(c) - o1
				sr := params[0]*dr + params[1]*dc + params[4] + o0
				sc := params[2]*dr + params[3]*dc + params[5] + o1
				if sr < 0 || sr > float64(m.h-1) || sc < 0 || sc > float64(m.w-1) {
					continue
				}
				v, gr, gc := bilinearWithGrad(m.pix, m.h, m.w, sr, sc)
				res := v - f.pix[r*f.w+c]
				j := [6]float64{gr * dr, gr * dc, gc * dr, gc * dc, gr, gc}
				for a := 0; a < 6; a++ {
					jtr[a] += j[a] * res
					for b := a; b < 6; b++ {
						jtj[a][b] += j[a] * j[b]
					}
				}
				sse += res * res
				n++
			}
		}
		if n < 36 {
			return best, fmt.Errorf("software: images do not overlap under the current estimate")
		}
		for a := 1; a < 6; a++ {
			for b := 0; b < a; b++ {
				jtj[a][b] = jtj[b][a]
			}
		}

		mse := sse / float64(n)
		if mse < bestErr {
			bestErr = mse
			best = params
		} else if mse > bestErr*1.01 {
			// Diverging; keep the best estimate seen on this level.
			return best, nil
		}

		// Tiny Levenberg damping keeps flat image regions from producing
		// a singular system.
		for a := 0; a < 6; a++ {
			jtj[a][a] += 1e-12 * (1 + jtj[a][a])
		}
		delta, err := solve6(jtj, jtr)
		if err != nil {
			return best, nil
		}
		maxStep := 0.0
		for a := 0; a < 6; a++ {
			params[a] -= delta[a]
			if s := math.Abs(delta[a]); s > maxStep {
				maxStep = s
			}
		}
		if maxStep < gnConvergence {
			break
		}
	}
	return params, nil
}

// bilinearWithGrad samples the bilinear interpolant of pix at (y, x) and
// returns the value together with its analytic gradient. The caller
// guarantees (y, x) lies inside the image.
func bilinearWithGrad(pix []float64, h, w int, y, x float64) (v, gy, gx float64) {
	iy := int(math.Floor(y))
	ix := int(math.Floor(x))
	if iy > h-2 {
		iy = h - 2
	}
	if ix > w-2 {
		ix = w - 2
	}
	fy := y - float64(iy)
	fx := x - float64(ix)

	v00 := pix[iy*w+ix]
	v01 := pix[iy*w+ix+1]
	v10 := pix[(iy+1)*w+ix]
	v11 := pix[(iy+1)*w+ix+1]

	top := v00 + (v01-v00)*fx
	bot := v10 + (v11-v10)*fx
	v = top + (bot-top)*fy
	gy = bot - top
	gx = (v01-v00)*(1-fy) + (v11-v10)*fy
	return v, gy, gx
}
