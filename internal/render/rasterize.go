// Package render turns a QR module grid into pixels and lays a circular logo
// over it.
//
// The pipeline is Rasterize -> Composite -> Export. Surface holds the state
// between those steps so a logo or size change recomposes without touching
// the encoder or the rasterizer.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

const (
	// DefaultScale is pixels per module.
	DefaultScale = 10
	// DefaultBorder is the quiet zone width in modules.
	DefaultBorder = 4
)

var (
	dark  = image.NewUniform(color.RGBA{0, 0, 0, 255})
	light = image.NewUniform(color.RGBA{255, 255, 255, 255})
)

// ModuleGrid is the part of an encoded symbol the rasterizer reads. Module
// must report false outside [0, Size).
type ModuleGrid interface {
	Size() int
	Module(x, y int) bool
}

// Rasterize paints every module, quiet zone included, as a solid scale x scale
// block of opaque black or white. The result is (Size+2*border)*scale pixels
// on each side. Invalid arguments panic.
func Rasterize(g ModuleGrid, scale, border int) *image.RGBA {
	if scale < 1 {
		panic(fmt.Sprintf("render: scale %d < 1", scale))
	}
	if border < 0 {
		panic(fmt.Sprintf("render: border %d < 0", border))
	}
	n := g.Size()
	if n < 1 {
		panic(fmt.Sprintf("render: grid size %d < 1", n))
	}

	side := (n + 2*border) * scale
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	for y := -border; y < n+border; y++ {
		for x := -border; x < n+border; x++ {
			src := light
			if g.Module(x, y) {
				src = dark
			}
			px, py := (x+border)*scale, (y+border)*scale
			draw.Draw(img, image.Rect(px, py, px+scale, py+scale), src, image.Point{}, draw.Src)
		}
	}
	return img
}
