package imreg

import "errors"

// Package errors. All failures surface as one of these sentinels
// (possibly wrapped with detail); match with errors.Is.
var (
	// ErrShapeMismatch is returned when two rasters that must share
	// dimensions do not, or a coordinate array does not have exactly
	// two columns.
	ErrShapeMismatch = errors.New("imreg: shape mismatch")

	// ErrNonInvertible is returned by Inverse when the determinant of
	// the 2x2 linear block is exactly zero. Near-zero determinants are
	// not errors; callers needing a tolerance must check themselves.
	ErrNonInvertible = errors.New("imreg: transform is not invertible")

	// ErrEngine is returned when the registration engine reports a
	// failure or produces output that cannot be reinterpreted.
	ErrEngine = errors.New("imreg: engine failure")

	// ErrNoEngine is returned when no registration engine has been
	// registered. Import an engine package for its side effects:
	//
	//	import _ "github.com/gogpu/imreg/engine/software"
	ErrNoEngine = errors.New("imreg: no engine registered")

	// ErrSerialization is returned for a malformed or truncated
	// transform record, or an I/O failure while reading or writing one.
	ErrSerialization = errors.New("imreg: invalid transform record")
)
