package render

import (
	"fmt"
	"image"

	"github.com/cristianadrielbraun/qrlogo/internal/encoder"
)

// State of a Surface.
type State int

const (
	// Empty means no encode has succeeded yet.
	Empty State = iota
	// Rendered means a grid, its raster and a final image are held.
	Rendered
)

func (s State) String() string {
	if s == Rendered {
		return "rendered"
	}
	return "empty"
}

// EncodeError is returned by Surface when an encode request fails. The
// surface keeps whatever it was showing before.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return "Failed to generate QR code: " + e.Err.Error() }
func (e *EncodeError) Unwrap() error { return e.Err }

// Surface owns the current grid, its raster, the composition parameters and
// the final image derived from them. It has two update paths: a new grid
// (EncodeSucceeded) re-rasterizes and recomposes, a parameter change
// (SetParams and friends) only recomposes.
//
// Surface is not safe for concurrent use. Final returns a snapshot that is
// never modified afterwards, so readers may hold it across later updates.
type Surface struct {
	scale  int
	border int
	comp   Compositor

	grid   encoder.Grid
	base   *image.RGBA
	params Params
	final  image.Image
}

// Option configures a Surface.
type Option func(*Surface)

// WithCompositor replaces the default Lanczos compositor.
func WithCompositor(c Compositor) Option {
	return func(s *Surface) { s.comp = c }
}

// NewSurface returns an Empty surface that rasterizes at scale pixels per
// module with a border modules wide quiet zone.
func NewSurface(scale, border int, opts ...Option) *Surface {
	if scale < 1 || border < 0 {
		panic(fmt.Sprintf("render: invalid surface geometry scale=%d border=%d", scale, border))
	}
	s := &Surface{scale: scale, border: border, params: DefaultParams()}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Surface) State() State {
	if s.base == nil {
		return Empty
	}
	return Rendered
}

// Grid is the last successfully encoded grid, nil while Empty.
func (s *Surface) Grid() encoder.Grid { return s.grid }

func (s *Surface) Params() Params { return s.params }

// Final is the current composed image, nil while Empty. Without a logo it
// is the stored raster itself; callers must treat it as read-only.
func (s *Surface) Final() image.Image { return s.final }

// EncodeSucceeded rasterizes g, recomposes with the current parameters and
// moves the surface to Rendered.
func (s *Surface) EncodeSucceeded(g encoder.Grid) image.Image {
	base := Rasterize(g, s.scale, s.border)
	final := s.comp.Composite(base, s.params)
	s.grid, s.base, s.final = g, base, final
	return final
}

// EncodeFailed leaves the surface untouched and wraps err for the caller.
func (s *Surface) EncodeFailed(err error) error {
	return &EncodeError{Err: err}
}

// Encode runs enc and applies the outcome.
func (s *Surface) Encode(enc encoder.Encoder, req encoder.Request) error {
	g, err := enc.Encode(req)
	if err != nil {
		return s.EncodeFailed(err)
	}
	s.EncodeSucceeded(g)
	return nil
}

// SetParams replaces the composition parameters. When Rendered the final
// image is recomposed from the stored raster; when Empty the parameters are
// kept for the first successful encode. SizeFraction must already be
// clamped to [MinFraction, MaxFraction].
func (s *Surface) SetParams(p Params) {
	if !(p.SizeFraction >= MinFraction && p.SizeFraction <= MaxFraction) {
		panic(fmt.Sprintf("render: size fraction %v outside [%v, %v]", p.SizeFraction, MinFraction, MaxFraction))
	}
	s.params = p
	if s.base != nil {
		s.final = s.comp.Composite(s.base, p)
	}
}

// SetLogo replaces the logo, nil removes it.
func (s *Surface) SetLogo(logo image.Image) {
	p := s.params
	p.Logo = logo
	s.SetParams(p)
}

// SetSizeFraction changes the logo size, keeping the logo.
func (s *Surface) SetSizeFraction(f float64) {
	p := s.params
	p.SizeFraction = f
	s.SetParams(p)
}
