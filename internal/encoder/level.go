package encoder

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Level is a QR error correction level.
type Level int

const (
	Low      Level = iota // ~7% recovery
	Medium                // ~15% recovery
	Quartile              // ~25% recovery
	High                  // ~30% recovery
)

func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case Quartile:
		return "quartile"
	case High:
		return "high"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Valid reports whether l is one of the four standard levels.
func (l Level) Valid() bool { return l >= Low && l <= High }

// ParseLevel accepts the level names ("low", "medium", "quartile", "high")
// and the single-letter forms L, M, Q and H.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return Low, nil
	case "m", "medium", "":
		return Medium, nil
	case "q", "quartile", "quart":
		return Quartile, nil
	case "h", "high", "highest":
		return High, nil
	}
	return Medium, errors.Errorf("unknown error correction level %q", s)
}
