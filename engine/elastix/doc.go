// Package elastix binds the SimpleITK/Elastix registration engine.
//
// The engine dispatches to one C entry point per pixel type
// (register_u8 ... register_f64, interp_u8 ... interp_f64) exported by
// the sitk adapter shared library. Buffers cross the boundary as
// contiguous row-major memory with 32-bit width/height counts; the
// resampling entry points mutate their buffer in place.
//
// The binding is compiled only with the "elastix" build tag, so the
// blank import is always safe:
//
//	import _ "github.com/gogpu/imreg/engine/elastix"
//
// Without the tag the package registers nothing and Available reports
// false. Building with the tag requires the sitkadapter library and its
// SimpleITK/Elastix dependencies on the linker path.
//
// Elastix keeps internal global state and is not reentrant; the library
// core serializes all calls into this engine.
package elastix
