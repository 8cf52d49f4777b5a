// Package encoder is the boundary to the QR symbol encoders. It turns a
// payload into a module Grid and nothing else: rendering lives in
// internal/render.
//
// Three backends are available (skip2, yeqown, boombuler). They all run
// behind the same request envelope, so version range checks and ECC boosting
// behave identically whichever library produced the matrix.
package encoder

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	MinVersion = 1
	MaxVersion = 40

	// AutoMask lets the backend score and pick the mask pattern.
	AutoMask = -1
)

var (
	// ErrInfeasible means the payload cannot be represented within the
	// requested version range at the requested error correction level.
	ErrInfeasible = errors.New("payload does not fit the requested QR version range")

	// ErrInvalidParameter means the request itself is malformed.
	ErrInvalidParameter = errors.New("invalid encode request")
)

// Request describes one encode call.
type Request struct {
	Payload    []byte
	MinVersion int
	MaxVersion int
	Level      Level
	Mask       int
	// BoostECC raises Level as far as possible without growing the version.
	BoostECC bool
}

// DefaultRequest is what the application always asks for: versions 1-40,
// medium error correction, automatic mask and ECC boosting.
func DefaultRequest(payload []byte) Request {
	return Request{
		Payload:    payload,
		MinVersion: MinVersion,
		MaxVersion: MaxVersion,
		Level:      Medium,
		Mask:       AutoMask,
		BoostECC:   true,
	}
}

// Encoder produces a Grid for a Request.
type Encoder interface {
	Encode(req Request) (Grid, error)
}

// backend is what each QR library has to provide. version 0 asks the library
// to choose the smallest version that fits.
type backend interface {
	name() string
	encode(payload []byte, level Level, version int) (*Bitmap, error)
	// forcesVersion reports whether encode honours a non-zero version.
	forcesVersion() bool
}

var backends = map[string]func() backend{
	"skip2":     func() backend { return skip2Backend{} },
	"yeqown":    func() backend { return yeqownBackend{} },
	"boombuler": func() backend { return boombulerBackend{} },
}

// Names lists the registered backend names.
func Names() []string {
	out := make([]string, 0, len(backends))
	for n := range backends {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// New returns the encoder registered under name.
func New(name string) (Encoder, error) {
	mk, ok := backends[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.Errorf("unknown encoder %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return &envelope{b: mk()}, nil
}

// Skip2 returns the github.com/skip2/go-qrcode backed encoder.
func Skip2() Encoder { return &envelope{b: skip2Backend{}} }

// Yeqown returns the github.com/yeqown/go-qrcode backed encoder.
func Yeqown() Encoder { return &envelope{b: yeqownBackend{}} }

// Boombuler returns the github.com/boombuler/barcode backed encoder.
func Boombuler() Encoder { return &envelope{b: boombulerBackend{}} }

type envelope struct {
	b backend
}

func (e *envelope) Encode(req Request) (Grid, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	g, err := e.b.encode(req.Payload, req.Level, 0)
	if err != nil {
		return nil, errors.Wrapf(ErrInfeasible, "%s: %v", e.b.name(), err)
	}

	if g.Version() < req.MinVersion {
		if !e.b.forcesVersion() {
			return nil, errors.Wrapf(ErrInfeasible, "%s: cannot raise version %d to minimum %d", e.b.name(), g.Version(), req.MinVersion)
		}
		g, err = e.b.encode(req.Payload, req.Level, req.MinVersion)
		if err != nil {
			return nil, errors.Wrapf(ErrInfeasible, "%s: %v", e.b.name(), err)
		}
	}
	if g.Version() > req.MaxVersion {
		return nil, errors.Wrapf(ErrInfeasible, "%s: needs version %d, maximum is %d", e.b.name(), g.Version(), req.MaxVersion)
	}

	if req.BoostECC {
		g = e.boost(req.Payload, g)
	}
	return g, nil
}

// boost returns the grid at the highest level that still fits in g's version.
func (e *envelope) boost(payload []byte, g *Bitmap) *Bitmap {
	for lvl := High; lvl > g.Level(); lvl-- {
		version := 0
		if e.b.forcesVersion() {
			version = g.Version()
		}
		cand, err := e.b.encode(payload, lvl, version)
		if err != nil || cand.Version() != g.Version() {
			continue
		}
		return cand
	}
	return g
}

func validate(req Request) error {
	switch {
	case len(req.Payload) == 0:
		return errors.Wrap(ErrInvalidParameter, "empty payload")
	case req.MinVersion < MinVersion || req.MaxVersion > MaxVersion || req.MinVersion > req.MaxVersion:
		return errors.Wrapf(ErrInvalidParameter, "version range [%d, %d] outside [%d, %d]", req.MinVersion, req.MaxVersion, MinVersion, MaxVersion)
	case !req.Level.Valid():
		return errors.Wrapf(ErrInvalidParameter, "unknown level %d", int(req.Level))
	case req.Mask < AutoMask || req.Mask > 7:
		return errors.Wrapf(ErrInvalidParameter, "mask %d outside [-1, 7]", req.Mask)
	case req.Mask != AutoMask:
		// None of the wrapped libraries expose a mask override.
		return errors.Wrapf(ErrInvalidParameter, "mask override %d not supported", req.Mask)
	}
	return nil
}
