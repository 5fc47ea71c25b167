// Package software provides the pure Go registration engine.
//
// The engine implements translation registration by a coarse-to-fine
// pyramid search and affine registration by Gauss-Newton refinement over
// a sum-of-squared-differences objective. Resampling supports nearest
// neighbor and a Catmull-Rom cubic kernel on the smooth path.
//
// It registers itself on import:
//
//	import _ "github.com/gogpu/imreg/engine/software"
//
// The engine keeps no global state, so its resampling path is reentrant.
package software

import (
	"fmt"

	"github.com/gogpu/imreg"
)

// Engine is the pure Go registration engine.
type Engine struct{}

// init registers the engine on package import.
func init() {
	_ = imreg.RegisterEngine(Engine{})
}

// New creates a software engine instance.
func New() Engine { return Engine{} }

// Name returns the engine identifier.
func (Engine) Name() string { return imreg.EngineSoftware }

// Reentrant reports that resampling may run concurrently.
func (Engine) Reentrant() bool { return true }

// Register estimates the transform mapping the fixed grid into the
// moving image by minimizing the squared intensity difference.
func (Engine) Register(req *imreg.RegisterRequest) ([6]float64, error) {
	h, w := int(req.Height), int(req.Width)
	fixed, err := floatPlane(req.Fixed, h*w)
	if err != nil {
		return [6]float64{}, err
	}
	moving, err := floatPlane(req.Moving, h*w)
	if err != nil {
		return [6]float64{}, err
	}
	if req.Affine {
		return registerAffine(fixed, moving, h, w)
	}
	dr, dc := registerTranslation(fixed, moving, h, w)
	return [6]float64{1, 0, 0, 1, dr, dc}, nil
}

// Resample warps the request buffer in place.
func (Engine) Resample(req *imreg.ResampleRequest) error {
	h, w := int(req.Height), int(req.Width)
	switch pix := req.Pix.(type) {
	case []uint8:
		return resampleSlice(pix, h, w, req.Parameters, req.Origin, req.BSpline)
	case []int8:
		return resampleSlice(pix, h, w, req.Parameters, req.Origin, req.BSpline)
	case []uint16:
		return resampleSlice(pix, h, w, req.Parameters, req.Origin, req.BSpline)
	case []int16:
		return resampleSlice(pix, h, w, req.Parameters, req.Origin, req.BSpline)
	case []uint32:
		return resampleSlice(pix, h, w, req.Parameters, req.Origin, req.BSpline)
	case []int32:
		return resampleSlice(pix, h, w, req.Parameters, req.Origin, req.BSpline)
	case []uint64:
		return resampleSlice(pix, h, w, req.Parameters, req.Origin, req.BSpline)
	case []int64:
		return resampleSlice(pix, h, w, req.Parameters, req.Origin, req.BSpline)
	case []uint:
		return resampleSlice(pix, h, w, req.Parameters, req.Origin, req.BSpline)
	case []int:
		return resampleSlice(pix, h, w, req.Parameters, req.Origin, req.BSpline)
	case []float32:
		return resampleSlice(pix, h, w, req.Parameters, req.Origin, req.BSpline)
	case []float64:
		return resampleSlice(pix, h, w, req.Parameters, req.Origin, req.BSpline)
	default:
		return fmt.Errorf("software: unsupported pixel buffer %T", req.Pix)
	}
}

// floatPlane converts a type-erased pixel slice to float64 working data.
func floatPlane(data any, n int) ([]float64, error) {
	var out []float64
	switch pix := data.(type) {
	case []uint8:
		out = toFloats(pix)
	case []int8:
		out = toFloats(pix)
	case []uint16:
		out = toFloats(pix)
	case []int16:
		out = toFloats(pix)
	case []uint32:
		out = toFloats(pix)
	case []int32:
		out = toFloats(pix)
	case []uint64:
		out = toFloats(pix)
	case []int64:
		out = toFloats(pix)
	case []uint:
		out = toFloats(pix)
	case []int:
		out = toFloats(pix)
	case []float32:
		out = toFloats(pix)
	case []float64:
		out = toFloats(pix)
	default:
		return nil, fmt.Errorf("software: unsupported pixel buffer %T", data)
	}
	if len(out) != n {
		return nil, fmt.Errorf("software: buffer has %d elements, expected %d", len(out), n)
	}
	return out, nil
}

func toFloats[T imreg.Pixel](pix []T) []float64 {
	out := make([]float64, len(pix))
	for i, v := range pix {
		out[i] = float64(v)
	}
	return out
}
