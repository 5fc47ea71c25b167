package imreg

// Matrix is a 3x3 homogeneous 2D transform matrix in row-major order.
// An affine transform always has the bottom row [0 0 1]:
//
//	| m00  m01  tx |
//	| m10  m11  ty |
//	|  0    0    1 |
//
// The first two coordinates follow the raster axes: index 0 is the row
// (height) axis, index 1 the column (width) axis.
type Matrix [3][3]float64

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Mul returns the matrix product m * other.
func (m Matrix) Mul(other Matrix) Matrix {
	var out Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*other[0][j] + m[i][1]*other[1][j] + m[i][2]*other[2][j]
		}
	}
	return out
}

// Add returns the entrywise sum m + other.
func (m Matrix) Add(other Matrix) Matrix {
	var out Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j] + other[i][j]
		}
	}
	return out
}

// Apply transforms a point through the homogeneous matrix, forming the
// vector (x, y, 1) and dropping the homogeneous component of the result.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m[0][0]*p.X + m[0][1]*p.Y + m[0][2],
		Y: m[1][0]*p.X + m[1][1]*p.Y + m[1][2],
	}
}

// IsIdentity returns true if the matrix is exactly the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}
