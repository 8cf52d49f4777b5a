// Package scan reads a QR symbol back out of a raster image. It is used to
// check that a composed image still scans.
package scan

import (
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/pkg/errors"
)

// Image decodes the QR payload in img.
func Image(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", errors.Wrap(err, "creating bitmap")
	}
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return "", errors.Wrap(err, "no QR code found in image")
	}
	return result.GetText(), nil
}

// File opens an image file and decodes the QR payload in it.
func File(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", errors.Wrap(err, "opening image file")
	}
	img, err := imaging.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "decoding image")
	}
	return Image(img)
}
