package imreg

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"golang.org/x/image/tiff"
)

// Raster file I/O. Registration corpora are almost always grayscale TIFF
// stacks, so the helpers here cover the 8- and 16-bit gray cases; other
// element types go through RasterFromPix.

// FromImage converts any image to an 8-bit grayscale raster using the
// standard luma conversion. *image.Gray input is copied directly.
func FromImage(img image.Image) *Raster[uint8] {
	bounds := img.Bounds()
	r := NewRaster[uint8](bounds.Dy(), bounds.Dx())
	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < r.height; y++ {
			off := g.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(r.pix[y*r.width:(y+1)*r.width], g.Pix[off:off+r.width])
		}
		return r
	}
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			c := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			r.pix[y*r.width+x] = c.Y
		}
	}
	return r
}

// FromImage16 converts any image to a 16-bit grayscale raster.
func FromImage16(img image.Image) *Raster[uint16] {
	bounds := img.Bounds()
	r := NewRaster[uint16](bounds.Dy(), bounds.Dx())
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			c := color.Gray16Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16)
			r.pix[y*r.width+x] = c.Y
		}
	}
	return r
}

// GrayImage converts an 8-bit raster to an *image.Gray.
func GrayImage(r *Raster[uint8]) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.width, r.height))
	for y := 0; y < r.height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+r.width], r.pix[y*r.width:(y+1)*r.width])
	}
	return img
}

// Gray16Image converts a 16-bit raster to an *image.Gray16.
func Gray16Image(r *Raster[uint16]) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, r.width, r.height))
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			img.SetGray16(x, y, color.Gray16{Y: r.pix[y*r.width+x]})
		}
	}
	return img
}

// DecodeTIFF reads a TIFF image from r as an 8-bit grayscale raster.
func DecodeTIFF(r io.Reader) (*Raster[uint8], error) {
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imreg: decoding tiff: %w", err)
	}
	return FromImage(img), nil
}

// DecodeTIFF16 reads a TIFF image from r as a 16-bit grayscale raster.
func DecodeTIFF16(r io.Reader) (*Raster[uint16], error) {
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imreg: decoding tiff: %w", err)
	}
	return FromImage16(img), nil
}

// EncodeTIFF writes an 8-bit raster to w as a deflate-compressed TIFF.
func EncodeTIFF(w io.Writer, r *Raster[uint8]) error {
	return tiff.Encode(w, GrayImage(r), &tiff.Options{Compression: tiff.Deflate})
}

// EncodeTIFF16 writes a 16-bit raster to w as a deflate-compressed TIFF.
func EncodeTIFF16(w io.Writer, r *Raster[uint16]) error {
	return tiff.Encode(w, Gray16Image(r), &tiff.Options{Compression: tiff.Deflate})
}

// ReadTIFF loads an 8-bit grayscale raster from a TIFF file.
func ReadTIFF(path string) (*Raster[uint8], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return DecodeTIFF(f)
}

// WriteTIFF saves an 8-bit raster to a TIFF file.
func WriteTIFF(path string, r *Raster[uint8]) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeTIFF(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
