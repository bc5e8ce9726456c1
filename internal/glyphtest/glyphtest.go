// Package glyphtest builds synthetic sheets and sprites for tests.
package glyphtest

import (
	"image"
	"image/color"
	"os"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/PhantomInTheWire/glyphsheet/pkg/layout"
)

// CellColor is the fill of cell (row, col); distinct and opaque for every cell.
func CellColor(row, col int) color.NRGBA {
	return color.NRGBA{uint8(row * 16), uint8(col * 16), uint8(255 - row*col), 255}
}

// Sheet returns a (16*cell)x(16*cell) image with every cell filled by CellColor.
func Sheet(cell int) *image.NRGBA {
	size := cell * layout.GridSize
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, CellColor(y/cell, x/cell))
		}
	}
	return img
}

// Solid returns a w x h image filled with c.
func Solid(w, h int, c color.NRGBA) *image.NRGBA {
	return imaging.New(w, h, c)
}

// Save writes img to path, failing the test on error.
func Save(t *testing.T, img image.Image, path string) {
	t.Helper()
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("saving %s: %v", path, err)
	}
}

// Open decodes the image at path, failing the test on error.
func Open(t *testing.T, path string) image.Image {
	t.Helper()
	img, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	return img
}

// Mkdir creates the sprite directory for code under root.
func Mkdir(t *testing.T, root string, code int) string {
	t.Helper()
	dir := layout.DirPath(root, code)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	return dir
}

// AssertSameNRGBA compares two pixels in 8-bit non-premultiplied space.
func AssertSameNRGBA(t *testing.T, what string, got color.Color, want color.NRGBA) {
	t.Helper()
	g := color.NRGBAModel.Convert(got).(color.NRGBA)
	if g != want {
		t.Errorf("%s: got %v; want %v", what, g, want)
	}
}

// Entries lists the names in dir; a missing dir yields nil.
func Entries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
