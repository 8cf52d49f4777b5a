package render

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

const (
	MinFraction     = 0.10
	MaxFraction     = 0.40
	DefaultFraction = 0.20
)

// Params are the composition inputs that change independently of the symbol.
type Params struct {
	// SizeFraction is the logo diameter as a fraction of the image side.
	SizeFraction float64
	// Logo is nil when no logo is set.
	Logo image.Image
}

// DefaultParams is no logo at the default 20% size.
func DefaultParams() Params { return Params{SizeFraction: DefaultFraction} }

// ClampFraction limits f to [MinFraction, MaxFraction]. NaN maps to the default.
func ClampFraction(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return DefaultFraction
	case f < MinFraction:
		return MinFraction
	case f > MaxFraction:
		return MaxFraction
	}
	return f
}

// PercentToFraction converts a slider percentage to a clamped fraction.
func PercentToFraction(percent int) float64 {
	return ClampFraction(float64(percent) / 100)
}

// Compositor draws the logo. The zero value resamples with Lanczos.
type Compositor struct {
	filter imaging.ResampleFilter
	custom bool
}

// NewCompositor returns a Compositor that resamples logos with f.
func NewCompositor(f imaging.ResampleFilter) Compositor {
	return Compositor{filter: f, custom: true}
}

func (c Compositor) resample() imaging.ResampleFilter {
	if !c.custom {
		return imaging.Lanczos
	}
	return c.filter
}

// Composite overlays the logo with the package default filter.
func Composite(base *image.RGBA, p Params) image.Image {
	return Compositor{}.Composite(base, p)
}

// Composite returns base with p.Logo stretched over a centred square of side
// round(min(w, h) * SizeFraction) and clipped to the inscribed circle. A
// pixel belongs to the circle when its centre lies at distance <= d/2 from
// the square's centre. Logo transparency is honoured.
//
// Without a logo, or when the diameter rounds to zero, base itself is
// returned. base is never written to. Callers clamp SizeFraction; values
// outside [0, 1] panic.
func (c Compositor) Composite(base *image.RGBA, p Params) image.Image {
	if p.Logo == nil {
		return base
	}
	if math.IsNaN(p.SizeFraction) || p.SizeFraction < 0 || p.SizeFraction > 1 {
		panic(fmt.Sprintf("render: size fraction %v outside [0, 1]", p.SizeFraction))
	}

	b := base.Bounds()
	w, h := b.Dx(), b.Dy()
	d := int(math.Round(float64(min(w, h)) * p.SizeFraction))
	if d <= 0 || p.Logo.Bounds().Empty() {
		return base
	}

	target := image.Rect(0, 0, d, d).Add(b.Min.Add(image.Pt((w-d)/2, (h-d)/2)))
	scaled := imaging.Resize(p.Logo, d, d, c.resample())

	out := image.NewRGBA(b)
	draw.Draw(out, b, base, b.Min, draw.Src)
	draw.DrawMask(out, target, scaled, image.Point{}, circleMask(d), image.Point{}, draw.Over)
	return out
}

// inCircle reports whether pixel (px, py) of a d x d square is inside its
// inscribed circle. Coordinates are doubled to keep the test in integers.
func inCircle(px, py, d int) bool {
	dx := 2*px + 1 - d
	dy := 2*py + 1 - d
	return dx*dx+dy*dy <= d*d
}

func circleMask(d int) *image.Alpha {
	m := image.NewAlpha(image.Rect(0, 0, d, d))
	for y := 0; y < d; y++ {
		for x := 0; x < d; x++ {
			if inCircle(x, y, d) {
				m.Pix[y*m.Stride+x] = 0xff
			}
		}
	}
	return m
}

// ParseFilter maps a filter name to an imaging resample filter.
func ParseFilter(name string) (imaging.ResampleFilter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "lanczos":
		return imaging.Lanczos, nil
	case "catmullrom":
		return imaging.CatmullRom, nil
	case "linear":
		return imaging.Linear, nil
	case "box":
		return imaging.Box, nil
	case "nearest":
		return imaging.NearestNeighbor, nil
	}
	return imaging.Lanczos, errors.Errorf("unknown resample filter %q", name)
}
