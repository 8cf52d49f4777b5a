package render

import (
	"errors"
	"image"
	"testing"

	"github.com/cristianadrielbraun/qrlogo/internal/encoder"
)

// countingEncoder wraps a real encoder and records how often it runs.
type countingEncoder struct {
	inner encoder.Encoder
	calls int
}

func (c *countingEncoder) Encode(req encoder.Request) (encoder.Grid, error) {
	c.calls++
	return c.inner.Encode(req)
}

func TestSurfaceStartsEmpty(t *testing.T) {
	s := NewSurface(DefaultScale, DefaultBorder)
	if s.State() != Empty {
		t.Fatalf("state = %s, want empty", s.State())
	}
	if s.Final() != nil || s.Grid() != nil || s.base != nil {
		t.Fatal("empty surface should hold no images")
	}
	if s.Params().SizeFraction != DefaultFraction || s.Params().Logo != nil {
		t.Fatalf("default params = %+v", s.Params())
	}
}

func TestSurfaceParamsPersistBeforeFirstEncode(t *testing.T) {
	s := NewSurface(DefaultScale, DefaultBorder)
	logo := solidLogo(8, 8, red)
	s.SetLogo(logo)
	s.SetSizeFraction(0.3)

	if s.State() != Empty || s.Final() != nil {
		t.Fatal("params change must not produce an image while empty")
	}

	enc := &countingEncoder{inner: encoder.Skip2()}
	if err := s.Encode(enc, encoder.DefaultRequest([]byte("HELLO"))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if s.State() != Rendered {
		t.Fatalf("state = %s, want rendered", s.State())
	}
	if countRed(s.Final()) == 0 {
		t.Fatal("logo chosen before the first encode was not applied")
	}
}

func TestSurfaceEncodeFailureKeepsPreviousRender(t *testing.T) {
	s := NewSurface(DefaultScale, DefaultBorder)
	enc := &countingEncoder{inner: encoder.Skip2()}

	if err := s.Encode(enc, encoder.DefaultRequest([]byte("HELLO"))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	grid, final := s.Grid(), s.Final()

	req := encoder.DefaultRequest([]byte("HELLO WORLD, THIS DOES NOT FIT"))
	req.MaxVersion = 1
	req.Level = encoder.High
	err := s.Encode(enc, req)

	var encErr *EncodeError
	if !errors.As(err, &encErr) {
		t.Fatalf("err = %v, want *EncodeError", err)
	}
	if !errors.Is(err, encoder.ErrInfeasible) {
		t.Fatalf("err = %v, want to wrap ErrInfeasible", err)
	}
	if s.Grid() != grid || s.Final() != final || s.State() != Rendered {
		t.Fatal("failed encode changed the surface")
	}
}

func TestSurfaceFailureWhileEmptyStaysEmpty(t *testing.T) {
	s := NewSurface(DefaultScale, DefaultBorder)
	err := s.Encode(encoder.Skip2(), encoder.Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	if s.State() != Empty || s.Final() != nil {
		t.Fatal("failed encode moved the surface out of empty")
	}
}

func TestSurfaceLogoScenarios(t *testing.T) {
	s := NewSurface(DefaultScale, DefaultBorder)
	enc := &countingEncoder{inner: encoder.Skip2()}
	if err := s.Encode(enc, encoder.DefaultRequest([]byte("HELLO"))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	plain := s.Final()
	grid := s.Grid()
	if grid.Version() != 1 {
		t.Fatalf("version = %d, want 1", grid.Version())
	}

	// Logo at 20%: only the centre circle differs from the plain render.
	s.SetParams(Params{SizeFraction: 0.2, Logo: solidLogo(12, 12, red)})
	withLogo := s.Final()
	side := plain.Bounds().Dx()
	d := 58
	o := (side - d) / 2
	changed := 0
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			px, py := x-o, y-o
			inside := px >= 0 && py >= 0 && px < d && py < d && inCircle(px, py, d)
			same := rgbaAt(plain, x, y) == rgbaAt(withLogo, x, y)
			if !inside && !same {
				t.Fatalf("pixel (%d,%d) outside the logo circle changed", x, y)
			}
			if inside && !same {
				changed++
			}
		}
	}
	if changed == 0 {
		t.Fatal("logo did not change the centre")
	}

	// 20% -> 30% recomposes without re-encoding.
	s.SetSizeFraction(0.3)
	if enc.calls != 1 {
		t.Fatalf("encoder ran %d times, want 1", enc.calls)
	}
	if s.Grid() != grid || s.Grid().Version() != 1 {
		t.Fatal("grid changed on a size change")
	}
	if countRed(s.Final()) <= countRed(withLogo) {
		t.Fatal("final image did not grow the logo")
	}

	// The snapshot handed out earlier is untouched.
	if countRed(withLogo) == 0 || countRed(plain) != 0 {
		t.Fatal("earlier snapshots were modified")
	}

	s.SetLogo(nil)
	if s.Final() != image.Image(s.base) {
		t.Fatal("removing the logo should show the base raster")
	}
}

func TestSurfaceNewEncodeKeepsParams(t *testing.T) {
	s := NewSurface(4, 2)
	s.SetParams(Params{SizeFraction: 0.4, Logo: solidLogo(3, 3, red)})
	if err := s.Encode(encoder.Skip2(), encoder.DefaultRequest([]byte("HELLO"))); err != nil {
		t.Fatal(err)
	}
	first := countRed(s.Final())
	if err := s.Encode(encoder.Skip2(), encoder.DefaultRequest([]byte("https://example.com/a/much/longer/payload"))); err != nil {
		t.Fatal(err)
	}
	if s.Params().SizeFraction != 0.4 || s.Params().Logo == nil {
		t.Fatal("params lost across encodes")
	}
	if s.Final().Bounds().Dx() != (s.Grid().Size()+4)*4 {
		t.Fatalf("final side %d does not match new grid", s.Final().Bounds().Dx())
	}
	if countRed(s.Final()) <= first {
		t.Fatal("bigger symbol should carry a bigger logo")
	}
}

func TestSurfaceSetParamsRejectsUnclamped(t *testing.T) {
	s := NewSurface(DefaultScale, DefaultBorder)
	for _, f := range []float64{0.05, 0.41, -1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("SetSizeFraction(%v) should panic", f)
				}
			}()
			s.SetSizeFraction(f)
		}()
	}
}

func TestSurfaceExport(t *testing.T) {
	s := NewSurface(DefaultScale, DefaultBorder)
	if err := s.Encode(encoder.Skip2(), encoder.DefaultRequest([]byte("HELLO"))); err != nil {
		t.Fatal(err)
	}
	data, err := Export(s.Final())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Fatal("export did not produce a PNG")
	}
}
