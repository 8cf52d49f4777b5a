// Package logo decodes uploaded logo files into images for the compositor.
// Raster formats go through imaging (EXIF orientation applied); SVG is
// rasterized with oksvg.
package logo

import (
	"bytes"
	"image"
	"io"

	// Extra raster decoders registered with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// DefaultMaxBytes caps an upload at 5 MiB.
const DefaultMaxBytes = 5 << 20

// SVGRasterSize is the long side, in pixels, SVG logos are rendered at.
const SVGRasterSize = 512

// MaxPixels caps the declared canvas of a raster logo before it is decoded.
const MaxPixels = 4096 * 4096

// MaxSide is the long side decoded logos are shrunk to. The compositor
// never draws a logo larger than a few hundred pixels.
const MaxSide = 1024

var (
	ErrDecode      = errors.New("logo could not be decoded")
	ErrUnsupported = errors.New("unsupported logo format")
	ErrTooLarge    = errors.New("logo file too large")
	ErrEmpty       = errors.New("empty logo file")
)

var rasterTypes = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/webp",
	"image/bmp",
	"image/tiff",
}

// Read reads at most maxBytes from r and decodes the result.
func Read(r io.Reader, maxBytes int64) (image.Image, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read logo")
	}
	return Decode(data, maxBytes)
}

// Decode sniffs data and decodes it as a raster image or SVG.
func Decode(data []byte, maxBytes int64) (image.Image, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	switch {
	case len(data) == 0:
		return nil, ErrEmpty
	case int64(len(data)) > maxBytes:
		return nil, errors.Wrapf(ErrTooLarge, "%d bytes, limit %d", len(data), maxBytes)
	}

	mt := mimetype.Detect(data)
	switch {
	case mt.Is("image/svg+xml"):
		return decodeSVG(data)
	case mimetype.EqualsAny(mt.String(), rasterTypes...):
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrapf(ErrDecode, "%s: %v", mt.String(), err)
		}
		if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
			return nil, errors.Wrapf(ErrTooLarge, "%dx%d pixels, limit %d", cfg.Width, cfg.Height, MaxPixels)
		}
		img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err != nil {
			return nil, errors.Wrapf(ErrDecode, "%s: %v", mt.String(), err)
		}
		if img.Bounds().Empty() {
			return nil, errors.Wrap(ErrDecode, "image has no pixels")
		}
		return shrink(img), nil
	}
	return nil, errors.Wrapf(ErrUnsupported, "detected %s", mt.String())
}

func shrink(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= MaxSide && b.Dy() <= MaxSide {
		return img
	}
	return imaging.Fit(img, MaxSide, MaxSide, imaging.Lanczos)
}

func decodeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "svg: %v", err)
	}

	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		w, h = SVGRasterSize, SVGRasterSize
	}
	scale := SVGRasterSize / max(w, h)
	outW, outH := int(w*scale+0.5), int(h*scale+0.5)
	if outW < 1 || outH < 1 {
		return nil, errors.Wrap(ErrDecode, "svg has no drawable area")
	}

	icon.SetTarget(0, 0, float64(outW), float64(outH))
	img := image.NewRGBA(image.Rect(0, 0, outW, outH))
	scanner := rasterx.NewScannerGV(outW, outH, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(outW, outH, scanner), 1.0)
	return img, nil
}

// Result is what Async delivers.
type Result struct {
	Image image.Image
	Err   error
}

// Async decodes data on its own goroutine and delivers exactly one Result
// on the returned channel.
func Async(data []byte, maxBytes int64) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		img, err := Decode(data, maxBytes)
		ch <- Result{Image: img, Err: err}
	}()
	return ch
}
