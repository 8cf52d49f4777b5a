package encoder

import (
	qrcode "github.com/skip2/go-qrcode"
)

type skip2Backend struct{}

func (skip2Backend) name() string        { return "skip2" }
func (skip2Backend) forcesVersion() bool { return true }

func (skip2Backend) encode(payload []byte, level Level, version int) (*Bitmap, error) {
	var (
		q   *qrcode.QRCode
		err error
	)
	if version == 0 {
		q, err = qrcode.New(string(payload), skip2Level(level))
	} else {
		q, err = qrcode.NewWithForcedVersion(string(payload), version, skip2Level(level))
	}
	if err != nil {
		return nil, err
	}
	// Bitmap() includes a 4 module quiet zone unless told otherwise; the
	// rasterizer owns the border.
	q.DisableBorder = true
	return NewBitmap(q.Bitmap(), q.VersionNumber, level)
}

// skip2 names the quartile level "High" and the high level "Highest".
func skip2Level(l Level) qrcode.RecoveryLevel {
	switch l {
	case Low:
		return qrcode.Low
	case Quartile:
		return qrcode.High
	case High:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}
