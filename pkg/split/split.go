// Package split cuts glyph sheets into one sprite file per grid cell.
package split

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/PhantomInTheWire/glyphsheet/pkg/layout"
)

var (
	// ErrNotSquare is returned for sheets whose width differs from their height.
	ErrNotSquare = errors.New("aspect ratio should be 1:1")
	// ErrNotDivisible is returned in strict mode for sheets whose width is not a
	// multiple of the grid size.
	ErrNotDivisible = errors.New("width should be a multiple of 16")
	// ErrTooSmall is returned for sheets narrower than the grid, which would
	// yield empty cells.
	ErrTooSmall = errors.New("width should be at least 16")
)

// Options configures a split pass.
type Options struct {
	// Root is the directory holding the sheets and sprite directories.
	Root string
	// Strict rejects sheets whose cells would not tile the whole image
	// instead of dropping the remainder.
	Strict bool
	// Diag receives one line per rejected sheet. Defaults to os.Stdout.
	Diag io.Writer
}

// Report summarizes a pass over the code range.
type Report struct {
	Split    []int
	Skipped  []int
	Rejected []int
}

// Glyph splits the sheet for code into its sprite directory and returns the
// sprite file names written. A missing sheet, or anything at its path that
// is not a regular file, is not an error: nothing is written and ok is false.
func Glyph(opts Options, code int) (sprites []string, ok bool, err error) {
	sheetPath := layout.SheetPath(opts.Root, code)
	fi, err := os.Stat(sheetPath)
	if os.IsNotExist(err) || (err == nil && !fi.Mode().IsRegular()) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "stat %s", sheetPath)
	}

	outDir := layout.DirPath(opts.Root, code)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, false, errors.Wrapf(err, "creating %s", outDir)
	}

	src, err := imaging.Open(sheetPath)
	if err != nil {
		return nil, false, errors.Wrapf(err, "opening %s", sheetPath)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w != h {
		return nil, false, ErrNotSquare
	}
	if w < layout.GridSize {
		return nil, false, ErrTooSmall
	}
	if opts.Strict && w%layout.GridSize != 0 {
		return nil, false, ErrNotDivisible
	}
	cell := w / layout.GridSize
	glog.V(2).Infof("split %s: %dx%d, cell %d", sheetPath, w, h, cell)

	sprites = make([]string, 0, layout.GridSize*layout.GridSize)
	for row := 0; row < layout.GridSize; row++ {
		for col := 0; col < layout.GridSize; col++ {
			x0, y0 := bounds.Min.X+col*cell, bounds.Min.Y+row*cell
			sprite := imaging.Crop(src, image.Rect(x0, y0, x0+cell, y0+cell))
			fn := layout.SpritePath(opts.Root, code, row, col)
			if err := imaging.Save(sprite, fn); err != nil {
				return sprites, true, errors.Wrapf(err, "saving %s", fn)
			}
			sprites = append(sprites, layout.SpriteName(code, row, col))
		}
	}
	return sprites, true, nil
}

// All splits every sheet in the code range in ascending order.
func All(opts Options) (*Report, error) {
	return Codes(opts, layout.Codes()...)
}

// Codes splits the sheets for codes in the order given. Shape violations are
// reported on opts.Diag and the pass continues; any other error stops it.
func Codes(opts Options, codes ...int) (*Report, error) {
	diag := opts.Diag
	if diag == nil {
		diag = os.Stdout
	}

	report := &Report{}
	for _, code := range codes {
		if !layout.ValidCode(code) {
			return report, errors.Errorf("glyph code %d out of range", code)
		}
		_, ok, err := Glyph(opts, code)
		switch cause := errors.Cause(err); {
		case cause == ErrNotSquare || cause == ErrNotDivisible || cause == ErrTooSmall:
			fmt.Fprintf(diag, "%s %s\n", layout.SheetName(code), cause)
			glog.Warningf("skipping %s: %v", layout.SheetPath(opts.Root, code), cause)
			report.Rejected = append(report.Rejected, code)
		case err != nil:
			return report, err
		case !ok:
			report.Skipped = append(report.Skipped, code)
		default:
			glog.V(1).Infof("split %s", layout.SheetName(code))
			report.Split = append(report.Split, code)
		}
	}
	return report, nil
}
