package imreg

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// AlignMode selects the transform kind fitted by AlignStack.
type AlignMode int

const (
	// AlignTranslation fits a pure translation per frame.
	AlignTranslation AlignMode = iota
	// AlignAffine fits a full affine transform per frame.
	AlignAffine
)

// AlignOptions configures AlignStack.
type AlignOptions struct {
	Mode AlignMode

	// NearestNeighbor resamples aligned frames with nearest-neighbor
	// interpolation instead of the default smooth (B-spline) kernel.
	// Use it for label or mask stacks where values must not blend.
	NearestNeighbor bool
}

// AlignStack registers every frame of a sequence against the first frame
// and resamples it into the reference grid. It returns the aligned frames
// and the per-frame transforms; frame 0 is returned as an untouched copy
// with the unity transform.
//
// Registration is inherently serial (the engine is an exclusive
// resource), but resampling of already-registered frames runs
// concurrently when the engine allows it. The context only gates work
// that has not started; an engine call in flight always runs to
// completion.
func AlignStack[T Pixel](ctx context.Context, frames []*Raster[T], opts AlignOptions) ([]*Raster[T], []*Transform, error) {
	if len(frames) == 0 {
		return nil, nil, nil
	}
	reference := frames[0]
	for i, frame := range frames[1:] {
		if frame.Shape() != reference.Shape() {
			return nil, nil, fmt.Errorf("%w: frame %d is %dx%d, reference is %dx%d",
				ErrShapeMismatch, i+1, frame.height, frame.width, reference.height, reference.width)
		}
	}

	transforms := make([]*Transform, len(frames))
	transforms[0] = FromTranslation(0, 0)
	transforms[0].Shape = reference.Shape()
	transforms[0].Origin = [2]float64{
		float64(reference.height-1) / 2,
		float64(reference.width-1) / 2,
	}

	log := Logger()
	for i := 1; i < len(frames); i++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		var (
			t   *Transform
			err error
		)
		if opts.Mode == AlignAffine {
			t, err = RegisterAffine(reference, frames[i])
		} else {
			t, err = RegisterTranslation(reference, frames[i])
		}
		if err != nil {
			return nil, nil, fmt.Errorf("registering frame %d: %w", i, err)
		}
		log.Debug("frame registered", "frame", i, "transform", t.String())
		transforms[i] = t
	}

	aligned := make([]*Raster[T], len(frames))
	aligned[0] = reference.Clone()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 1; i < len(frames); i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var (
				out *Raster[T]
				err error
			)
			if opts.NearestNeighbor {
				out, err = TransformImageNearestNeighbor(transforms[i], frames[i])
			} else {
				out, err = TransformImageBSpline(transforms[i], frames[i])
			}
			if err != nil {
				return fmt.Errorf("resampling frame %d: %w", i, err)
			}
			aligned[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return aligned, transforms, nil
}
