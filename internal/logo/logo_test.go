package logo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 10), uint8(y * 10), 200, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	img, err := Decode(pngBytes(t, 12, 7), 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 7 {
		t.Fatalf("bounds = %v", b)
	}
}

func TestDecodeJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 16, 16)), nil); err != nil {
		t.Fatal(err)
	}
	img, err := Decode(buf.Bytes(), 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
}

func TestDecodeSVG(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20 10" width="20" height="10">` +
		`<rect x="0" y="0" width="20" height="10" fill="#ff0000"/></svg>`
	img, err := Decode([]byte(svg), 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != SVGRasterSize || b.Dy() != SVGRasterSize/2 {
		t.Fatalf("bounds = %v, want %dx%d", b, SVGRasterSize, SVGRasterSize/2)
	}
	r, g, _, a := img.At(b.Dx()/2, b.Dy()/2).RGBA()
	if a < 0xe000 || r < 0xe000 || g > 0x2000 {
		t.Fatalf("centre pixel = %v, want opaque red", img.At(b.Dx()/2, b.Dy()/2))
	}
}

func TestDecodeFailures(t *testing.T) {
	valid := pngBytes(t, 30, 30)
	cases := []struct {
		name string
		data []byte
		max  int64
		want error
	}{
		{"empty", nil, 0, ErrEmpty},
		{"text", []byte("definitely not an image"), 0, ErrUnsupported},
		{"truncated png", valid[:40], 0, ErrDecode},
		{"too large", valid, 10, ErrTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			img, err := Decode(tc.data, tc.max)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if img != nil {
				t.Fatal("failed decode returned an image")
			}
		})
	}
}

// hugeCanvasPNG returns a small PNG whose header declares a w x h canvas.
func hugeCanvasPNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := pngBytes(t, 1, 1)
	// Signature (8), IHDR length (4), "IHDR" (4), then width and height.
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestDecodeRejectsHugeCanvas(t *testing.T) {
	data := hugeCanvasPNG(t, 12000, 12000)
	if len(data) > 1024 {
		t.Fatalf("fixture is %d bytes", len(data))
	}
	img, err := Decode(data, 0)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
	if img != nil {
		t.Fatal("rejected logo returned an image")
	}
}

func TestDecodeShrinksLargeLogo(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2048, 512))); err != nil {
		t.Fatal(err)
	}
	img, err := Decode(buf.Bytes(), 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != MaxSide || b.Dy() != MaxSide/4 {
		t.Fatalf("bounds = %v, want %dx%d", b, MaxSide, MaxSide/4)
	}
}

func TestRead(t *testing.T) {
	if _, err := Read(bytes.NewReader(pngBytes(t, 4, 4)), 0); err != nil {
		t.Fatalf("read: %v", err)
	}
	big := strings.Repeat("x", 100)
	if _, err := Read(strings.NewReader(big), 50); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestAsyncDeliversOnce(t *testing.T) {
	res := <-Async(pngBytes(t, 5, 5), 0)
	if res.Err != nil || res.Image == nil {
		t.Fatalf("result = %+v", res)
	}
	res = <-Async([]byte("nope"), 0)
	if res.Err == nil {
		t.Fatal("expected error")
	}
}
