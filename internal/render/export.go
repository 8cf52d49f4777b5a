package render

import (
	"bytes"
	"image"
	"image/png"
	"io"

	"github.com/pkg/errors"
)

// ErrEmptyImage is returned when asked to export an image with no pixels.
var ErrEmptyImage = errors.New("render: image has zero dimensions")

var pngEncoder = png.Encoder{CompressionLevel: png.BestCompression}

// Export encodes img as PNG.
func Export(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG streams img to w as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return ErrEmptyImage
	}
	if err := pngEncoder.Encode(w, img); err != nil {
		return errors.Wrap(err, "failed to encode PNG")
	}
	return nil
}
