package encoder

import (
	"github.com/boombuler/barcode/qr"
	"github.com/pkg/errors"
)

type boombulerBackend struct{}

func (boombulerBackend) name() string        { return "boombuler" }
func (boombulerBackend) forcesVersion() bool { return false }

func (boombulerBackend) encode(payload []byte, level Level, _ int) (*Bitmap, error) {
	code, err := qr.Encode(string(payload), boombulerLevel(level), qr.Auto)
	if err != nil {
		return nil, err
	}

	b := code.Bounds()
	n := b.Dx()
	if n != b.Dy() {
		return nil, errors.Errorf("non-square symbol %dx%d", b.Dx(), b.Dy())
	}
	v := versionForSize(n)
	if v == 0 {
		return nil, errors.Errorf("unexpected symbol size %d", n)
	}

	rows := make([][]bool, n)
	for y := 0; y < n; y++ {
		rows[y] = make([]bool, n)
		for x := 0; x < n; x++ {
			r, _, _, _ := code.At(b.Min.X+x, b.Min.Y+y).RGBA()
			rows[y][x] = r < 0x8000
		}
	}
	return NewBitmap(rows, v, level)
}

func boombulerLevel(l Level) qr.ErrorCorrectionLevel {
	switch l {
	case Low:
		return qr.L
	case Quartile:
		return qr.Q
	case High:
		return qr.H
	default:
		return qr.M
	}
}
