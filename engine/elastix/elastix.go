//go:build elastix

package elastix

/*
#cgo LDFLAGS: -lsitkadapter -lstdc++
#include <stdint.h>
#include <stdbool.h>
#include <stdlib.h>
#include <string.h>

void register_u8(unsigned int width, unsigned int height, uint8_t* fixed_arr, uint8_t* moving_arr, bool t_or_a, double** transform);
void register_i8(unsigned int width, unsigned int height, int8_t* fixed_arr, int8_t* moving_arr, bool t_or_a, double** transform);
void register_u16(unsigned int width, unsigned int height, uint16_t* fixed_arr, uint16_t* moving_arr, bool t_or_a, double** transform);
void register_i16(unsigned int width, unsigned int height, int16_t* fixed_arr, int16_t* moving_arr, bool t_or_a, double** transform);
void register_u32(unsigned int width, unsigned int height, uint32_t* fixed_arr, uint32_t* moving_arr, bool t_or_a, double** transform);
void register_i32(unsigned int width, unsigned int height, int32_t* fixed_arr, int32_t* moving_arr, bool t_or_a, double** transform);
void register_u64(unsigned int width, unsigned int height, uint64_t* fixed_arr, uint64_t* moving_arr, bool t_or_a, double** transform);
void register_i64(unsigned int width, unsigned int height, int64_t* fixed_arr, int64_t* moving_arr, bool t_or_a, double** transform);
void register_f32(unsigned int width, unsigned int height, float* fixed_arr, float* moving_arr, bool t_or_a, double** transform);
void register_f64(unsigned int width, unsigned int height, double* fixed_arr, double* moving_arr, bool t_or_a, double** transform);

void interp_u8(unsigned int width, unsigned int height, double* transform, double* origin, uint8_t** image, bool bspline_or_nn);
void interp_i8(unsigned int width, unsigned int height, double* transform, double* origin, int8_t** image, bool bspline_or_nn);
void interp_u16(unsigned int width, unsigned int height, double* transform, double* origin, uint16_t** image, bool bspline_or_nn);
void interp_i16(unsigned int width, unsigned int height, double* transform, double* origin, int16_t** image, bool bspline_or_nn);
void interp_u32(unsigned int width, unsigned int height, double* transform, double* origin, uint32_t** image, bool bspline_or_nn);
void interp_i32(unsigned int width, unsigned int height, double* transform, double* origin, int32_t** image, bool bspline_or_nn);
void interp_u64(unsigned int width, unsigned int height, double* transform, double* origin, uint64_t** image, bool bspline_or_nn);
void interp_i64(unsigned int width, unsigned int height, double* transform, double* origin, int64_t** image, bool bspline_or_nn);
void interp_f32(unsigned int width, unsigned int height, double* transform, double* origin, float** image, bool bspline_or_nn);
void interp_f64(unsigned int width, unsigned int height, double* transform, double* origin, double** image, bool bspline_or_nn);
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/imreg"
)

// Available reports whether the Elastix binding was compiled in.
func Available() bool { return true }

// Engine is the SimpleITK/Elastix registration engine.
type Engine struct{}

// init registers the engine on package import; it takes priority over
// the software engine when both are present.
func init() {
	_ = imreg.RegisterEngine(Engine{})
}

// New creates an Elastix engine instance.
func New() Engine { return Engine{} }

// Name returns the engine identifier.
func (Engine) Name() string { return imreg.EngineElastix }

// Register runs an Elastix parameter fit for the request's pixel type.
func (Engine) Register(req *imreg.RegisterRequest) ([6]float64, error) {
	var out [6]float64
	n := int(req.Width) * int(req.Height)
	fixed, err := pixPtr(req.Fixed, n)
	if err != nil {
		return out, err
	}
	moving, err := pixPtr(req.Moving, n)
	if err != nil {
		return out, err
	}

	w, h := C.uint(req.Width), C.uint(req.Height)
	affine := C.bool(req.Affine)

	// The adapter writes the six coefficients through a double**; give
	// it C-owned memory so no Go pointer is retained across the call.
	buf := C.malloc(6 * C.size_t(unsafe.Sizeof(C.double(0))))
	if buf == nil {
		return out, fmt.Errorf("elastix: allocating transform buffer")
	}
	defer C.free(buf)
	C.memset(buf, 0, 6*C.size_t(unsafe.Sizeof(C.double(0))))
	tp := (*C.double)(buf)

	switch req.Code {
	case imreg.CodeUint8:
		C.register_u8(w, h, (*C.uint8_t)(fixed), (*C.uint8_t)(moving), affine, &tp)
	case imreg.CodeInt8:
		C.register_i8(w, h, (*C.int8_t)(fixed), (*C.int8_t)(moving), affine, &tp)
	case imreg.CodeUint16:
		C.register_u16(w, h, (*C.uint16_t)(fixed), (*C.uint16_t)(moving), affine, &tp)
	case imreg.CodeInt16:
		C.register_i16(w, h, (*C.int16_t)(fixed), (*C.int16_t)(moving), affine, &tp)
	case imreg.CodeUint32:
		C.register_u32(w, h, (*C.uint32_t)(fixed), (*C.uint32_t)(moving), affine, &tp)
	case imreg.CodeInt32:
		C.register_i32(w, h, (*C.int32_t)(fixed), (*C.int32_t)(moving), affine, &tp)
	case imreg.CodeUint64:
		C.register_u64(w, h, (*C.uint64_t)(fixed), (*C.uint64_t)(moving), affine, &tp)
	case imreg.CodeInt64:
		C.register_i64(w, h, (*C.int64_t)(fixed), (*C.int64_t)(moving), affine, &tp)
	case imreg.CodeFloat32:
		C.register_f32(w, h, (*C.float)(fixed), (*C.float)(moving), affine, &tp)
	case imreg.CodeFloat64:
		C.register_f64(w, h, (*C.double)(fixed), (*C.double)(moving), affine, &tp)
	default:
		return out, fmt.Errorf("elastix: unsupported pixel code %d", req.Code)
	}

	copy(out[:], unsafe.Slice((*float64)(buf), 6))
	return out, nil
}

// Resample warps the request buffer in place through the Elastix
// resampler for the request's pixel type.
func (Engine) Resample(req *imreg.ResampleRequest) error {
	n := int(req.Width) * int(req.Height)
	size, err := elemSize(req.Code)
	if err != nil {
		return err
	}
	src, err := pixPtr(req.Pix, n)
	if err != nil {
		return err
	}

	// The resampler mutates *image in place; stage the pixels in
	// C-owned memory to satisfy the cgo pointer rules, then copy the
	// result back into the caller's buffer.
	nbytes := C.size_t(n * size)
	buf := C.malloc(nbytes)
	if buf == nil {
		return fmt.Errorf("elastix: allocating image buffer")
	}
	defer C.free(buf)
	C.memcpy(buf, src, nbytes)

	w, h := C.uint(req.Width), C.uint(req.Height)
	params := (*C.double)(unsafe.Pointer(&req.Parameters[0]))
	origin := (*C.double)(unsafe.Pointer(&req.Origin[0]))
	// Inherited quirk of the C adapter: the flag is inverted, false
	// selects the B-spline kernel and true nearest neighbor.
	nn := C.bool(!req.BSpline)

	switch req.Code {
	case imreg.CodeUint8:
		p := (*C.uint8_t)(buf)
		C.interp_u8(w, h, params, origin, &p, nn)
	case imreg.CodeInt8:
		p := (*C.int8_t)(buf)
		C.interp_i8(w, h, params, origin, &p, nn)
	case imreg.CodeUint16:
		p := (*C.uint16_t)(buf)
		C.interp_u16(w, h, params, origin, &p, nn)
	case imreg.CodeInt16:
		p := (*C.int16_t)(buf)
		C.interp_i16(w, h, params, origin, &p, nn)
	case imreg.CodeUint32:
		p := (*C.uint32_t)(buf)
		C.interp_u32(w, h, params, origin, &p, nn)
	case imreg.CodeInt32:
		p := (*C.int32_t)(buf)
		C.interp_i32(w, h, params, origin, &p, nn)
	case imreg.CodeUint64:
		p := (*C.uint64_t)(buf)
		C.interp_u64(w, h, params, origin, &p, nn)
	case imreg.CodeInt64:
		p := (*C.int64_t)(buf)
		C.interp_i64(w, h, params, origin, &p, nn)
	case imreg.CodeFloat32:
		p := (*C.float)(buf)
		C.interp_f32(w, h, params, origin, &p, nn)
	case imreg.CodeFloat64:
		p := (*C.double)(buf)
		C.interp_f64(w, h, params, origin, &p, nn)
	default:
		return fmt.Errorf("elastix: unsupported pixel code %d", req.Code)
	}

	C.memcpy(src, buf, nbytes)
	return nil
}

// pixPtr returns the base address of a type-erased pixel slice after
// validating its length.
func pixPtr(data any, n int) (unsafe.Pointer, error) {
	switch pix := data.(type) {
	case []uint8:
		return basePtr(pix, n)
	case []int8:
		return basePtr(pix, n)
	case []uint16:
		return basePtr(pix, n)
	case []int16:
		return basePtr(pix, n)
	case []uint32:
		return basePtr(pix, n)
	case []int32:
		return basePtr(pix, n)
	case []uint64:
		return basePtr(pix, n)
	case []int64:
		return basePtr(pix, n)
	case []uint:
		return basePtr(pix, n)
	case []int:
		return basePtr(pix, n)
	case []float32:
		return basePtr(pix, n)
	case []float64:
		return basePtr(pix, n)
	default:
		return nil, fmt.Errorf("elastix: unsupported pixel buffer %T", data)
	}
}

func basePtr[T imreg.Pixel](pix []T, n int) (unsafe.Pointer, error) {
	if len(pix) != n {
		return nil, fmt.Errorf("elastix: buffer has %d elements, expected %d", len(pix), n)
	}
	return unsafe.Pointer(unsafe.SliceData(pix)), nil
}

func elemSize(code imreg.Code) (int, error) {
	switch code {
	case imreg.CodeUint8, imreg.CodeInt8:
		return 1, nil
	case imreg.CodeUint16, imreg.CodeInt16:
		return 2, nil
	case imreg.CodeUint32, imreg.CodeInt32, imreg.CodeFloat32:
		return 4, nil
	case imreg.CodeUint64, imreg.CodeInt64, imreg.CodeFloat64:
		return 8, nil
	default:
		return 0, fmt.Errorf("elastix: unsupported pixel code %d", code)
	}
}
