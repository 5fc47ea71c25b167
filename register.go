package imreg

import (
	"errors"
	"fmt"
)

// RegisterAffine finds the affine transform which maps moving onto fixed:
// resampling the moving image under the returned transform aligns it with
// the fixed image. Both rasters must have identical, non-empty shapes.
//
// Registration runs on the default engine and may take substantial
// wall-clock time; calls are serialized process-wide. The returned
// transform has zero uncertainty.
func RegisterAffine[T Pixel](fixed, moving *Raster[T]) (*Transform, error) {
	return registerRasters(fixed, moving, true)
}

// RegisterTranslation finds the pure translation which maps moving onto
// fixed. The linear block of the result is the identity. See
// RegisterAffine for the engine contract.
func RegisterTranslation[T Pixel](fixed, moving *Raster[T]) (*Transform, error) {
	return registerRasters(fixed, moving, false)
}

// TransformImageBSpline resamples an image under the transform using
// smooth (B-spline) interpolation. The source raster is never modified;
// the result is a new raster of identical shape and element type.
func TransformImageBSpline[T Pixel](t *Transform, image *Raster[T]) (*Raster[T], error) {
	return resampleRaster(t, image, true)
}

// TransformImageNearestNeighbor resamples an image under the transform
// using nearest-neighbor interpolation. The source raster is never
// modified; the result is a new raster of identical shape and element
// type.
func TransformImageNearestNeighbor[T Pixel](t *Transform, image *Raster[T]) (*Raster[T], error) {
	return resampleRaster(t, image, false)
}

func registerRasters[T Pixel](fixed, moving *Raster[T], affine bool) (*Transform, error) {
	if fixed.Shape() != moving.Shape() {
		return nil, fmt.Errorf("%w: fixed is %dx%d, moving is %dx%d",
			ErrShapeMismatch, fixed.height, fixed.width, moving.height, moving.width)
	}
	if fixed.height == 0 || fixed.width == 0 {
		return nil, fmt.Errorf("%w: empty raster", ErrShapeMismatch)
	}
	engine, err := DefaultEngine()
	if err != nil {
		return nil, err
	}

	// The engine requires contiguous storage and may mutate its inputs;
	// hand it private copies.
	req := &RegisterRequest{
		Code:   CodeOf[T](),
		Width:  uint32(fixed.width),
		Height: uint32(fixed.height),
		Fixed:  clonePix(fixed.pix),
		Moving: clonePix(moving.pix),
		Affine: affine,
	}

	callMu.Lock()
	parameters, err := engine.Register(req)
	callMu.Unlock()
	if err != nil {
		return nil, engineError(engine, "register", err)
	}

	return New(
		parameters,
		[2]float64{float64(fixed.height-1) / 2, float64(fixed.width-1) / 2},
		fixed.Shape(),
	), nil
}

func resampleRaster[T Pixel](t *Transform, image *Raster[T], bspline bool) (*Raster[T], error) {
	if image.height == 0 || image.width == 0 {
		return nil, fmt.Errorf("%w: empty raster", ErrShapeMismatch)
	}
	engine, err := DefaultEngine()
	if err != nil {
		return nil, err
	}

	// The engine resamples in place; the copy both feeds it contiguous
	// storage and keeps the caller's raster untouched.
	pix := clonePix(image.pix)
	req := &ResampleRequest{
		Code:       CodeOf[T](),
		Width:      uint32(image.width),
		Height:     uint32(image.height),
		Parameters: t.Parameters,
		Origin:     t.Origin,
		Pix:        pix,
		BSpline:    bspline,
	}

	if resampleSerialized(engine) {
		callMu.Lock()
		err = engine.Resample(req)
		callMu.Unlock()
	} else {
		err = engine.Resample(req)
	}
	if err != nil {
		return nil, engineError(engine, "resample", err)
	}

	out, ok := req.Pix.([]T)
	if !ok || len(out) != image.height*image.width {
		return nil, fmt.Errorf("%w: %s returned a malformed buffer", ErrEngine, engine.Name())
	}
	return &Raster[T]{height: image.height, width: image.width, pix: out}, nil
}

func clonePix[T Pixel](pix []T) []T {
	out := make([]T, len(pix))
	copy(out, pix)
	return out
}

// engineError wraps an engine failure with ErrEngine unless the engine
// already reported a typed package error (e.g. ErrShapeMismatch).
func engineError(e Engine, op string, err error) error {
	if errors.Is(err, ErrEngine) || errors.Is(err, ErrShapeMismatch) {
		return err
	}
	return fmt.Errorf("%w: %s %s: %v", ErrEngine, e.Name(), op, err)
}
