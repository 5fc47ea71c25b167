// Package imreg provides 2D affine image registration and resampling.
//
// # Overview
//
// imreg registers one raster image against another and resamples images
// or coordinates under the resulting transform. The central type is
// [Transform]: six affine parameters, a per-parameter uncertainty
// estimate, a rotation origin and the grid shape the transform was
// computed for. Transforms compose, invert, map coordinates, resample
// images and round-trip through a small JSON record.
//
// The numerical work is delegated to pluggable engines. The library ships
// a pure Go engine and a cgo binding to SimpleITK/Elastix; either is
// enabled with a blank import:
//
//	import _ "github.com/gogpu/imreg/engine/software"
//
// # Quick Start
//
//	fixed, _ := imreg.ReadTIFF("reference.tif")
//	moving, _ := imreg.ReadTIFF("frame.tif")
//
//	t, err := imreg.RegisterAffine(fixed, moving)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	aligned, _ := imreg.TransformImageBSpline(t, moving)
//	_ = imreg.WriteTIFF("aligned.tif", aligned)
//	_ = t.SaveFile("frame.transform.json")
//
// # Pixel Types
//
// Rasters are generic over the closed [Pixel] type set (all fixed-width
// integers, platform-width integers and both float widths). Each element
// type carries a stable small-integer [Code] used to select the engine
// entry point; no reflection is involved.
//
// # Engines and Concurrency
//
// Engines keep internal global state and are not reentrant. The library
// serializes every registration process-wide and, unless an engine
// declares its resampling path thread-safe, resampling too. Raster
// arguments are copied before they cross the engine boundary, so callers
// never observe mutation of their buffers.
//
// # Logging
//
// imreg is silent by default. Call [SetLogger] with a log/slog logger to
// see engine diagnostics.
package imreg
