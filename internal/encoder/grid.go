package encoder

import "github.com/pkg/errors"

// Grid is the square module matrix produced by an encoder. Module reports
// false (light) for every coordinate outside [0, Size), which is what makes
// the quiet zone around the symbol.
type Grid interface {
	Size() int
	Module(x, y int) bool
	Version() int
	Level() Level
}

// Bitmap is an immutable Grid backed by a flat slice of cells.
type Bitmap struct {
	size    int
	version int
	level   Level
	cells   []bool
}

// NewBitmap copies rows into a Bitmap. rows must be square and non-empty.
func NewBitmap(rows [][]bool, version int, level Level) (*Bitmap, error) {
	n := len(rows)
	if n == 0 {
		return nil, errors.New("empty module matrix")
	}
	cells := make([]bool, n*n)
	for y, row := range rows {
		if len(row) != n {
			return nil, errors.Errorf("module matrix is not square: row %d has %d cells, want %d", y, len(row), n)
		}
		copy(cells[y*n:], row)
	}
	return &Bitmap{size: n, version: version, level: level, cells: cells}, nil
}

func (b *Bitmap) Size() int    { return b.size }
func (b *Bitmap) Version() int { return b.version }
func (b *Bitmap) Level() Level { return b.level }

func (b *Bitmap) Module(x, y int) bool {
	if x < 0 || y < 0 || x >= b.size || y >= b.size {
		return false
	}
	return b.cells[y*b.size+x]
}

// versionForSize maps a symbol side length back to its QR version, or 0 when
// the side length is not 17+4v for some v in 1..40.
func versionForSize(size int) int {
	if size < 21 || (size-17)%4 != 0 {
		return 0
	}
	v := (size - 17) / 4
	if v > MaxVersion {
		return 0
	}
	return v
}
