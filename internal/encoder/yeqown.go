package encoder

import (
	"github.com/pkg/errors"
	"github.com/yeqown/go-qrcode/v2"
)

type yeqownBackend struct{}

func (yeqownBackend) name() string        { return "yeqown" }
func (yeqownBackend) forcesVersion() bool { return false }

func (yeqownBackend) encode(payload []byte, level Level, _ int) (*Bitmap, error) {
	qrc, err := qrcode.NewWith(string(payload),
		qrcode.WithEncodingMode(qrcode.EncModeByte),
		yeqownLevel(level),
	)
	if err != nil {
		return nil, err
	}

	// The matrix is only handed out through a Writer.
	w := &matrixWriter{}
	if err := qrc.Save(w); err != nil {
		return nil, err
	}
	if w.rows == nil {
		return nil, errors.New("qrcode writer received no matrix")
	}

	v := versionForSize(len(w.rows))
	if v == 0 {
		return nil, errors.Errorf("unexpected matrix size %d", len(w.rows))
	}
	return NewBitmap(w.rows, v, level)
}

func yeqownLevel(l Level) qrcode.EncodeOption {
	switch l {
	case Low:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow)
	case Quartile:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart)
	case High:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest)
	default:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium)
	}
}

// matrixWriter implements qrcode.Writer by copying the module matrix instead
// of drawing it.
type matrixWriter struct {
	rows [][]bool
}

func (w *matrixWriter) Write(mat qrcode.Matrix) error {
	rows := make([][]bool, mat.Height())
	for i := range rows {
		rows[i] = make([]bool, mat.Width())
	}
	mat.Iterate(qrcode.IterDirection_ROW, func(x, y int, v qrcode.QRValue) {
		rows[y][x] = v.IsSet()
	})
	w.rows = rows
	return nil
}

func (w *matrixWriter) Close() error { return nil }
