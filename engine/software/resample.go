package software

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/gogpu/imreg"
)

// resampleSlice warps a row-major pixel buffer in place. For every output
// pixel p the source location is
//
//	W(p) = M*(p - origin) + t + origin
//
// with M and t taken from the parameter layout [m00 m01 m10 m11 t0 t1]
// and axis 0 running along rows. Source locations outside the image
// produce zero fill.
func resampleSlice[T imreg.Pixel](pix []T, h, w int, params [6]float64, origin [2]float64, bspline bool) error {
	if len(pix) != h*w {
		return fmt.Errorf("software: buffer has %d elements, expected %dx%d", len(pix), h, w)
	}

	out := make([]T, len(pix))
	if bspline {
		src := toFloats(pix)
		warp(h, w, params, origin, func(i int, sr, sc float64) {
			out[i] = clampRound[T](sampleCubic(src, h, w, sr, sc))
		})
	} else {
		// Nearest neighbor copies source values verbatim; no float
		// round trip, so wide integer types stay exact.
		warp(h, w, params, origin, func(i int, sr, sc float64) {
			ir := int(math.Round(sr))
			ic := int(math.Round(sc))
			if ir >= 0 && ir < h && ic >= 0 && ic < w {
				out[i] = pix[ir*w+ic]
			}
		})
	}
	copy(pix, out)
	return nil
}

// warp calls fn with the source location of every output pixel.
func warp(h, w int, params [6]float64, origin [2]float64, fn func(i int, sr, sc float64)) {
	for r := 0; r < h; r++ {
		dr := float64(r) - origin[0]
		for c := 0; c < w; c++ {
			dc := float64(c) - origin[1]
			sr := params[0]*dr + params[1]*dc + params[4] + origin[0]
			sc := params[2]*dr + params[3]*dc + params[5] + origin[1]
			fn(r*w+c, sr, sc)
		}
	}
}

// sampleCubic evaluates a Catmull-Rom cubic kernel at (y, x), clamping
// taps at the image edge. Locations outside the image return zero fill.
func sampleCubic(pix []float64, h, w int, y, x float64) float64 {
	if y < 0 || y > float64(h-1) || x < 0 || x > float64(w-1) {
		return 0
	}
	iy := int(math.Floor(y))
	ix := int(math.Floor(x))
	fy := y - float64(iy)
	fx := x - float64(ix)

	var wy, wx [4]float64
	cubicWeights(fy, &wy)
	cubicWeights(fx, &wx)

	var sum float64
	for j := 0; j < 4; j++ {
		ry := clampIndex(iy+j-1, h)
		rowSum := 0.0
		for i := 0; i < 4; i++ {
			rx := clampIndex(ix+i-1, w)
			rowSum += wx[i] * pix[ry*w+rx]
		}
		sum += wy[j] * rowSum
	}
	return sum
}

// cubicWeights fills the four Catmull-Rom tap weights for fraction t.
func cubicWeights(t float64, w *[4]float64) {
	t2 := t * t
	t3 := t2 * t
	w[0] = -0.5*t3 + t2 - 0.5*t
	w[1] = 1.5*t3 - 2.5*t2 + 1
	w[2] = -1.5*t3 + 2*t2 + 0.5*t
	w[3] = 0.5*t3 - 0.5*t2
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Largest float64 values still representable by the 64-bit integer types.
var (
	maxUint64F = math.Nextafter(math.Ldexp(1, 64), 0)
	maxInt64F  = math.Nextafter(math.Ldexp(1, 63), 0)
	minInt64F  = -math.Ldexp(1, 63)
)

// clampRound converts an interpolated value back to the pixel type,
// rounding and saturating integer types.
func clampRound[T imreg.Pixel](v float64) T {
	var zero T
	switch any(zero).(type) {
	case float32, float64:
		return T(v)
	}
	v = math.Round(v)
	var lo, hi float64
	switch any(zero).(type) {
	case uint8:
		lo, hi = 0, math.MaxUint8
	case int8:
		lo, hi = math.MinInt8, math.MaxInt8
	case uint16:
		lo, hi = 0, math.MaxUint16
	case int16:
		lo, hi = math.MinInt16, math.MaxInt16
	case uint32:
		lo, hi = 0, math.MaxUint32
	case int32:
		lo, hi = math.MinInt32, math.MaxInt32
	case uint64:
		lo, hi = 0, maxUint64F
	case int64:
		lo, hi = minInt64F, maxInt64F
	case uint:
		lo, hi = 0, maxUint64F
		if bits.UintSize == 32 {
			hi = math.MaxUint32
		}
	case int:
		lo, hi = minInt64F, maxInt64F
		if bits.UintSize == 32 {
			lo, hi = math.MinInt32, math.MaxInt32
		}
	}
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return T(v)
}
