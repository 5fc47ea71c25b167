package software

import (
	"math"
	"testing"
)

// blobPlane is a smooth image that decays toward zero at the borders.
func blobPlane(h, w int) []float64 {
	type blob struct{ cy, cx, amp, sigma float64 }
	blobs := []blob{
		{0.25, 0.3, 200, 0.11},
		{0.45, 0.65, 150, 0.1},
		{0.65, 0.3, 180, 0.12},
		{0.75, 0.7, 120, 0.09},
		{0.55, 0.48, 160, 0.1},
	}
	pix := make([]float64, h*w)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			var v float64
			for _, b := range blobs {
				dy := float64(r) - b.cy*float64(h)
				dx := float64(c) - b.cx*float64(w)
				s := b.sigma * float64(h)
				v += b.amp * math.Exp(-(dy*dy+dx*dx)/(2*s*s))
			}
			pix[r*w+c] = v
		}
	}
	return pix
}

func TestBilinearWithGrad(t *testing.T) {
	// On the plane v = 2r + 3c + 1 the interpolant and both gradients
	// are exact.
	const h, w = 8, 8
	pix := make([]float64, h*w)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			pix[r*w+c] = 2*float64(r) + 3*float64(c) + 1
		}
	}

	tests := []struct{ y, x float64 }{
		{0, 0},
		{2.5, 3.25},
		{6.9, 0.1},
		{7, 7},
	}
	for _, tt := range tests {
		v, gy, gx := bilinearWithGrad(pix, h, w, tt.y, tt.x)
		if math.Abs(v-(2*tt.y+3*tt.x+1)) > 1e-12 {
			t.Errorf("value at (%g,%g) = %g, want %g", tt.y, tt.x, v, 2*tt.y+3*tt.x+1)
		}
		if math.Abs(gy-2) > 1e-12 || math.Abs(gx-3) > 1e-12 {
			t.Errorf("gradient at (%g,%g) = (%g,%g), want (2,3)", tt.y, tt.x, gy, gx)
		}
	}
}

func TestGaussNewtonIdentity(t *testing.T) {
	const h, w = 32, 32
	img := level{pix: blobPlane(h, w), h: h, w: w}

	params, err := gaussNewton(img, img, [6]float64{1, 0, 0, 1, 0, 0})
	if err != nil {
		t.Fatalf("gaussNewton failed: %v", err)
	}
	want := [6]float64{1, 0, 0, 1, 0, 0}
	for i := range want {
		if math.Abs(params[i]-want[i]) > 1e-6 {
			t.Fatalf("params = %v, want identity", params)
		}
	}
}

func TestRegisterAffineRecovery(t *testing.T) {
	const h, w = 64, 64
	fixed := blobPlane(h, w)

	// Build the moving image by warping the fixed one; registration must
	// then recover the inverse of the warp.
	warpParams := [6]float64{1.1, 0, 0, 1.05, 2, -1}
	origin := centerOrigin(h, w)
	moving := make([]float64, len(fixed))
	copy(moving, fixed)
	if err := resampleSlice(moving, h, w, warpParams, origin, true); err != nil {
		t.Fatalf("resampleSlice failed: %v", err)
	}

	got, err := registerAffine(fixed, moving, h, w)
	if err != nil {
		t.Fatalf("registerAffine failed: %v", err)
	}

	// Composing the estimate with the warp about the shared origin must
	// give the identity map: check M_est*M_warp and the combined
	// translation t_est + M_est*t_warp.
	m := [4]float64{
		got[0]*warpParams[0] + got[1]*warpParams[2],
		got[0]*warpParams[1] + got[1]*warpParams[3],
		got[2]*warpParams[0] + got[3]*warpParams[2],
		got[2]*warpParams[1] + got[3]*warpParams[3],
	}
	tr := got[4] + got[0]*warpParams[4] + got[1]*warpParams[5]
	tc := got[5] + got[2]*warpParams[4] + got[3]*warpParams[5]

	wantLinear := [4]float64{1, 0, 0, 1}
	for i := range wantLinear {
		if math.Abs(m[i]-wantLinear[i]) > 0.02 {
			t.Fatalf("composed linear block = %v, want identity (estimate %v)", m, got)
		}
	}
	if math.Abs(tr) > 0.1 || math.Abs(tc) > 0.1 {
		t.Fatalf("composed translation = (%g, %g), want (0, 0) (estimate %v)", tr, tc, got)
	}
}

func TestRegisterAffineTooSmall(t *testing.T) {
	if _, err := registerAffine(make([]float64, 3), make([]float64, 3), 1, 3); err == nil {
		t.Error("registerAffine accepted a 1-pixel-tall image")
	}
}

func TestRegisterAffineDisjoint(t *testing.T) {
	const h, w = 32, 32
	fixed := blobPlane(h, w)
	moving := make([]float64, h*w)

	// A flat moving image leaves Gauss-Newton nothing to work with; the
	// estimate must still come back finite.
	params, err := registerAffine(fixed, moving, h, w)
	if err != nil {
		return
	}
	for i, p := range params {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			t.Fatalf("params[%d] = %g", i, p)
		}
	}
}
