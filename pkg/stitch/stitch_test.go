package stitch

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"testing"

	"github.com/pkg/errors"

	"github.com/PhantomInTheWire/glyphsheet/internal/glyphtest"
	"github.com/PhantomInTheWire/glyphsheet/pkg/layout"
	"github.com/PhantomInTheWire/glyphsheet/pkg/split"
)

func TestRoundTrip(t *testing.T) {
	for _, cell := range []int{1, 2, 5} {
		root := t.TempDir()
		want := glyphtest.Sheet(cell)
		glyphtest.Save(t, want, layout.SheetPath(root, 0x20))

		if _, err := split.All(split.Options{Root: root, Diag: &bytes.Buffer{}}); err != nil {
			t.Fatalf("cell %d: split: %v", cell, err)
		}
		if err := os.Remove(layout.SheetPath(root, 0x20)); err != nil {
			t.Fatal(err)
		}
		report, err := All(Options{Root: root}, nil)
		if err != nil {
			t.Fatalf("cell %d: join: %v", cell, err)
		}
		if len(report.Joined) != 1 || report.Joined[0] != 0x20 {
			t.Errorf("cell %d: Joined = %v; want [32]", cell, report.Joined)
		}

		got := glyphtest.Open(t, layout.SheetPath(root, 0x20))
		if got.Bounds() != want.Bounds() {
			t.Fatalf("cell %d: bounds %v; want %v", cell, got.Bounds(), want.Bounds())
		}
		for y := 0; y < want.Bounds().Dy(); y++ {
			for x := 0; x < want.Bounds().Dx(); x++ {
				if g := color.NRGBAModel.Convert(got.At(x, y)); g != want.NRGBAAt(x, y) {
					t.Fatalf("cell %d: pixel (%d,%d) = %v; want %v", cell, x, y, g, want.NRGBAAt(x, y))
				}
			}
		}
	}
}

func TestSparseJoin(t *testing.T) {
	root := t.TempDir()
	glyphtest.Mkdir(t, root, 3)
	red := color.NRGBA{255, 0, 0, 255}
	blue := color.NRGBA{0, 0, 255, 128}
	glyphtest.Save(t, glyphtest.Solid(4, 4, red), layout.SpritePath(root, 3, 0, 0))
	glyphtest.Save(t, glyphtest.Solid(4, 4, blue), layout.SpritePath(root, 3, 15, 15))

	sheet, err := Glyph(Options{Root: root}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if sheet.Bounds() != image.Rect(0, 0, 64, 64) {
		t.Fatalf("bounds %v; want 64x64", sheet.Bounds())
	}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			c := sheet.NRGBAAt(x, y)
			switch {
			case x < 4 && y < 4:
				if c != red {
					t.Fatalf("(%d,%d) = %v; want %v", x, y, c, red)
				}
			case x >= 60 && y >= 60:
				if c != blue {
					t.Fatalf("(%d,%d) = %v; want %v", x, y, c, blue)
				}
			case c.A != 0:
				t.Fatalf("(%d,%d) = %v; want transparent", x, y, c)
			}
		}
	}
	glyphtest.AssertSameNRGBA(t, "saved sheet", glyphtest.Open(t, layout.SheetPath(root, 3)).At(62, 62), blue)
}

func TestMissingAndEmptySkipped(t *testing.T) {
	root := t.TempDir()
	glyphtest.Mkdir(t, root, 9)

	report, err := All(Options{Root: root}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Joined) != 0 || len(report.Skipped) != layout.CodeCount {
		t.Errorf("report = %+v; want every code skipped", report)
	}
	if names := glyphtest.Entries(t, root); len(names) != 1 || names[0] != "glyph_09" {
		t.Errorf("root changed: %v", names)
	}
}

func TestMismatchedSprite(t *testing.T) {
	root := t.TempDir()
	glyphtest.Mkdir(t, root, 4)
	glyphtest.Save(t, glyphtest.Solid(2, 2, color.NRGBA{1, 1, 1, 255}), layout.SpritePath(root, 4, 0, 0))
	glyphtest.Save(t, glyphtest.Solid(3, 3, color.NRGBA{2, 2, 2, 255}), layout.SpritePath(root, 4, 1, 1))

	sheet, err := Glyph(Options{Root: root}, 4)
	if err != nil {
		t.Fatal(err)
	}
	// Pasted at (2,2) with its own 3x3 size, spilling into the next cells.
	if c := sheet.NRGBAAt(4, 4); c != (color.NRGBA{2, 2, 2, 255}) {
		t.Errorf("(4,4) = %v; want the oversized sprite", c)
	}

	if _, err := Glyph(Options{Root: root, Strict: true}, 4); errors.Cause(err) != ErrCellMismatch {
		t.Errorf("strict: got %v; want ErrCellMismatch", err)
	}
}

func TestVisitSeesJoinedSheets(t *testing.T) {
	root := t.TempDir()
	glyphtest.Mkdir(t, root, 0xFE)
	glyphtest.Save(t, glyphtest.Solid(1, 1, color.NRGBA{5, 5, 5, 255}), layout.SpritePath(root, 0xFE, 2, 2))

	var visited []int
	if _, err := All(Options{Root: root}, func(code int, sheet image.Image) {
		visited = append(visited, code)
	}); err != nil {
		t.Fatal(err)
	}
	if len(visited) != 1 || visited[0] != 0xFE {
		t.Errorf("visited %v; want [254]", visited)
	}
}

func TestPasteOverwritesWithoutBlending(t *testing.T) {
	root := t.TempDir()
	glyphtest.Mkdir(t, root, 6)
	red := color.NRGBA{255, 0, 0, 255}
	blue := color.NRGBA{0, 0, 255, 100}
	// glyph_0600.png sets the cell size to 2. Columns are pasted in order,
	// so the 4x4 red sprite at col 1 is later overlapped by col 2, row 1.
	glyphtest.Save(t, glyphtest.Solid(2, 2, blue), layout.SpritePath(root, 6, 0, 0))
	glyphtest.Save(t, glyphtest.Solid(4, 4, red), layout.SpritePath(root, 6, 0, 1))
	glyphtest.Save(t, glyphtest.Solid(2, 2, blue), layout.SpritePath(root, 6, 1, 2))

	sheet, err := Glyph(Options{Root: root}, 6)
	if err != nil {
		t.Fatal(err)
	}
	if c := sheet.NRGBAAt(4, 2); c != blue {
		t.Errorf("(4,2) = %v; want %v", c, blue)
	}
	if c := sheet.NRGBAAt(3, 3); c != red {
		t.Errorf("(3,3) = %v; want %v", c, red)
	}
}

func TestLowAlphaPreserved(t *testing.T) {
	root := t.TempDir()
	glyphtest.Mkdir(t, root, 8)
	faint := color.NRGBA{1, 77, 130, 2}
	glyphtest.Save(t, glyphtest.Solid(3, 3, faint), layout.SpritePath(root, 8, 5, 6))

	if _, err := Glyph(Options{Root: root}, 8); err != nil {
		t.Fatal(err)
	}
	got := glyphtest.Open(t, layout.SheetPath(root, 8))
	glyphtest.AssertSameNRGBA(t, "pixel (19,16)", got.At(19, 16), faint)
}
