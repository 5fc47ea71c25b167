package imreg

import "fmt"

// Raster is a dense 2D pixel buffer with a single numeric element type,
// stored row-major. It is the unit of data exchanged with registration
// engines: registration reads two rasters of identical shape, resampling
// consumes one raster and produces a new one of the same shape.
type Raster[T Pixel] struct {
	height int
	width  int
	pix    []T
}

// NewRaster creates a zero-filled raster with the given dimensions.
// Negative dimensions are treated as zero.
func NewRaster[T Pixel](height, width int) *Raster[T] {
	if height < 0 {
		height = 0
	}
	if width < 0 {
		width = 0
	}
	return &Raster[T]{
		height: height,
		width:  width,
		pix:    make([]T, height*width),
	}
}

// RasterFromPix wraps an existing row-major pixel slice without copying.
// The slice length must be exactly height*width.
func RasterFromPix[T Pixel](height, width int, pix []T) (*Raster[T], error) {
	if height < 0 || width < 0 || len(pix) != height*width {
		return nil, fmt.Errorf("%w: %d pixels for %dx%d raster", ErrShapeMismatch, len(pix), height, width)
	}
	return &Raster[T]{height: height, width: width, pix: pix}, nil
}

// Height returns the number of rows.
func (r *Raster[T]) Height() int { return r.height }

// Width returns the number of columns.
func (r *Raster[T]) Width() int { return r.width }

// Shape returns the dimensions as [height, width].
func (r *Raster[T]) Shape() [2]int { return [2]int{r.height, r.width} }

// Pix returns the raw row-major pixel data. The slice aliases the
// raster's storage; mutating it mutates the raster.
func (r *Raster[T]) Pix() []T { return r.pix }

// At returns the pixel at row y, column x.
// Out-of-bounds coordinates return the zero value.
func (r *Raster[T]) At(y, x int) T {
	if y < 0 || y >= r.height || x < 0 || x >= r.width {
		var zero T
		return zero
	}
	return r.pix[y*r.width+x]
}

// Set sets the pixel at row y, column x.
// Out-of-bounds coordinates are ignored.
func (r *Raster[T]) Set(y, x int, v T) {
	if y < 0 || y >= r.height || x < 0 || x >= r.width {
		return
	}
	r.pix[y*r.width+x] = v
}

// Clone returns a deep copy of the raster.
func (r *Raster[T]) Clone() *Raster[T] {
	pix := make([]T, len(r.pix))
	copy(pix, r.pix)
	return &Raster[T]{height: r.height, width: r.width, pix: pix}
}

// Equal reports whether two rasters have the same shape and identical
// pixel values.
func (r *Raster[T]) Equal(other *Raster[T]) bool {
	if r.height != other.height || r.width != other.width {
		return false
	}
	for i, v := range r.pix {
		if v != other.pix[i] {
			return false
		}
	}
	return true
}
