package imreg

import "fmt"

// Transform is a parameterized 2D affine map with an associated
// per-parameter uncertainty estimate.
//
// Parameters holds the flattened 2x2 linear block followed by the
// translation: [m00, m01, m10, m11, tx, ty], reconstructible as the
// homogeneous matrix returned by Matrix. DParameters holds the standard
// error of each parameter in the same layout; it is all zero when the
// uncertainty is unknown (hand-built transforms, registration results).
//
// Origin is the per-axis center of rotation the linear block is anchored
// to, and Shape the [height, width] pixel grid the transform was computed
// against; both are zero for transforms not tied to a concrete raster.
//
// A Transform is a plain value: composition and inversion return new
// instances, Adapt is the only sanctioned in-place mutation, and two
// transforms are equal iff all four fields are bitwise equal (compare
// with ==).
type Transform struct {
	Parameters  [6]float64 `json:"parameters"`
	DParameters [6]float64 `json:"dparameters"`
	Origin      [2]float64 `json:"origin"`
	Shape       [2]int     `json:"shape"`
}

// unityParameters is the parameter vector of the identity transform.
var unityParameters = [6]float64{1, 0, 0, 1, 0, 0}

// New creates a transform from six parameters, an origin and a shape.
// The uncertainty is initialized to zero.
func New(parameters [6]float64, origin [2]float64, shape [2]int) *Transform {
	return &Transform{
		Parameters: parameters,
		Origin:     origin,
		Shape:      shape,
	}
}

// FromTranslation creates a pure translation transform. The linear block
// is the identity, origin and shape are zero.
func FromTranslation(tx, ty float64) *Transform {
	return &Transform{
		Parameters: [6]float64{1, 0, 0, 1, tx, ty},
	}
}

// IsUnity reports whether the transform does nothing, i.e. its parameters
// are exactly [1 0 0 1 0 0]. The comparison is bitwise; callers needing a
// numerical tolerance must compare matrix entries themselves.
func (t *Transform) IsUnity() bool {
	return t.Parameters == unityParameters
}

// Matrix returns the homogeneous 3x3 matrix defining the transform.
func (t *Transform) Matrix() Matrix {
	p := &t.Parameters
	return Matrix{
		{p[0], p[1], p[4]},
		{p[2], p[3], p[5]},
		{0, 0, 1},
	}
}

// DMatrix returns the matrix of per-entry parameter uncertainties, in the
// same layout as Matrix. It is not a covariance matrix: every entry is
// treated independently by the propagation rule in Mul.
func (t *Transform) DMatrix() Matrix {
	d := &t.DParameters
	return Matrix{
		{d[0], d[1], d[4]},
		{d[2], d[3], d[5]},
		{0, 0, 1},
	}
}

// Mul composes two transforms: the result applies other first, then t,
// matching the matrix product t.Matrix() * other.Matrix().
//
// Uncertainty is propagated entrywise by the product rule
// d(AB) = dA*B + A*dB, with DMatrix standing in for the elementwise
// derivative. Origin and shape are taken from the left operand (t); the
// asymmetry is deliberate and callers composing transforms computed on
// different grids must account for it.
func (t *Transform) Mul(other *Transform) *Transform {
	m := t.Matrix().Mul(other.Matrix())
	// The homogeneous bottom row is constant, so its derivative is zero;
	// the 1 at [2][2] of DMatrix must not enter the product rule or the
	// operands' translations leak into the result's uncertainty.
	da := t.DMatrix()
	db := other.DMatrix()
	da[2][2] = 0
	db[2][2] = 0
	dm := da.Mul(other.Matrix()).Add(t.Matrix().Mul(db))
	return &Transform{
		Parameters:  [6]float64{m[0][0], m[0][1], m[1][0], m[1][1], m[0][2], m[1][2]},
		DParameters: [6]float64{dm[0][0], dm[0][1], dm[1][0], dm[1][1], dm[0][2], dm[1][2]},
		Origin:      t.Origin,
		Shape:       t.Shape,
	}
}

// Inverse returns the algebraic inverse of the transform.
// It fails with ErrNonInvertible iff the determinant of the 2x2 linear
// block is exactly zero. Uncertainty is not propagated through inversion:
// the result has zero DParameters. Origin and shape carry over unchanged.
func (t *Transform) Inverse() (*Transform, error) {
	p := &t.Parameters
	d := p[0]*p[3] - p[1]*p[2]
	if d == 0 {
		return nil, ErrNonInvertible
	}
	return &Transform{
		Parameters: [6]float64{
			p[3] / d,
			-p[1] / d,
			-p[2] / d,
			p[0] / d,
			(p[1]*p[5] - p[3]*p[4]) / d,
			(p[2]*p[4] - p[0]*p[5]) / d,
		},
		Origin: t.Origin,
		Shape:  t.Shape,
	}, nil
}

// TransformPoint maps a single point through the transform's matrix.
func (t *Transform) TransformPoint(p Point) Point {
	return t.Matrix().Apply(p)
}

// TransformCoordinates maps an Nx2 coordinate array through the
// transform's matrix. Each row is lifted to the homogeneous vector
// (x, y, 1), left-multiplied by Matrix, and the first two components of
// the product form the output row. Any row without exactly two columns
// fails with ErrShapeMismatch; N may be zero.
func (t *Transform) TransformCoordinates(coordinates [][]float64) ([][]float64, error) {
	m := t.Matrix()
	out := make([][]float64, len(coordinates))
	for i, row := range coordinates {
		if len(row) != 2 {
			return nil, fmt.Errorf("%w: coordinates must have two columns, row %d has %d", ErrShapeMismatch, i, len(row))
		}
		p := m.Apply(Point{X: row[0], Y: row[1]})
		out[i] = []float64{p.X, p.Y}
	}
	return out, nil
}

// Adapt re-centers the transform, in place, to describe a sub-region of
// the grid it was computed on. The new origin is shifted by half the
// shape difference per axis:
//
//	newOrigin = origin + (oldShape - newShape) / 2
//
// and the shape is replaced. The parameters are not recomputed, so the
// region must share the coordinate system of the original grid.
func (t *Transform) Adapt(origin [2]float64, shape [2]int) {
	t.Origin = [2]float64{
		origin[0] + float64(t.Shape[0]-shape[0])/2,
		origin[1] + float64(t.Shape[1]-shape[1])/2,
	}
	t.Shape = shape
}

// String returns a compact human-readable description of the transform.
func (t *Transform) String() string {
	p := &t.Parameters
	return fmt.Sprintf("Transform[%g %g; %g %g]+(%g, %g)@(%g, %g)/%dx%d",
		p[0], p[1], p[2], p[3], p[4], p[5],
		t.Origin[0], t.Origin[1], t.Shape[0], t.Shape[1])
}
