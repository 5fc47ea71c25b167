package imreg

import "math/bits"

// Pixel is the closed set of raster element types supported by the
// registration engines. It intentionally has no tilde terms: the engine
// boundary identifies buffers by their exact element type, so named types
// must be converted by the caller.
type Pixel interface {
	uint8 | int8 | uint16 | int16 | uint32 | int32 |
		uint64 | int64 | uint | int | float32 | float64
}

// Code identifies a pixel element type across the engine boundary.
// The values are a stable wire/ABI selector and must never be renumbered;
// extending support means adding a new code, not reusing one.
type Code uint8

// Pixel type codes.
const (
	CodeUint8   Code = 1
	CodeInt8    Code = 2
	CodeUint16  Code = 3
	CodeInt16   Code = 4
	CodeUint32  Code = 5
	CodeInt32   Code = 6
	CodeUint64  Code = 7
	CodeInt64   Code = 8
	CodeFloat32 Code = 9
	CodeFloat64 Code = 10
)

// CodeOf returns the engine code for the element type T.
// Platform-width uint and int map to the code of their actual width,
// so they share engine entry points with the fixed-width types.
func CodeOf[T Pixel]() Code {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return CodeUint8
	case int8:
		return CodeInt8
	case uint16:
		return CodeUint16
	case int16:
		return CodeInt16
	case uint32:
		return CodeUint32
	case int32:
		return CodeInt32
	case uint64:
		return CodeUint64
	case int64:
		return CodeInt64
	case uint:
		if bits.UintSize == 64 {
			return CodeUint64
		}
		return CodeUint32
	case int:
		if bits.UintSize == 64 {
			return CodeInt64
		}
		return CodeInt32
	case float32:
		return CodeFloat32
	case float64:
		return CodeFloat64
	}
	// Unreachable: Pixel is a closed type set.
	panic("imreg: unsupported pixel type")
}

// String returns the conventional name of the pixel type, e.g. "uint16".
func (c Code) String() string {
	switch c {
	case CodeUint8:
		return "uint8"
	case CodeInt8:
		return "int8"
	case CodeUint16:
		return "uint16"
	case CodeInt16:
		return "int16"
	case CodeUint32:
		return "uint32"
	case CodeInt32:
		return "int32"
	case CodeUint64:
		return "uint64"
	case CodeInt64:
		return "int64"
	case CodeFloat32:
		return "float32"
	case CodeFloat64:
		return "float64"
	}
	return "invalid"
}
