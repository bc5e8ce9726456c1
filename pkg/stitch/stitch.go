// Package stitch assembles sprite directories back into glyph sheets.
package stitch

import (
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/PhantomInTheWire/glyphsheet/pkg/layout"
)

// ErrCellMismatch is returned in strict mode when a sprite's size differs from
// the cell size sampled for its directory.
var ErrCellMismatch = errors.New("sprite size differs from cell size")

// Options configures a join pass.
type Options struct {
	// Root is the directory holding the sprite directories and sheets.
	Root string
	// Strict rejects sprites that are not cell x cell instead of pasting
	// them with their own dimensions.
	Strict bool
}

// Report summarizes a pass over the code range.
type Report struct {
	Joined  []int
	Skipped []int
}

// Glyph joins the sprite directory for code into its sheet and returns the
// assembled image. Missing or empty directories are not errors: nothing is
// written and the returned image is nil.
func Glyph(opts Options, code int) (*image.NRGBA, error) {
	dir := layout.DirPath(opts.Root, code)
	fi, err := os.Stat(dir)
	if os.IsNotExist(err) || (err == nil && !fi.IsDir()) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", dir)
	}

	sample, err := firstFile(dir)
	if err != nil {
		return nil, err
	}
	if sample == "" {
		return nil, nil
	}
	cell, err := spriteWidth(sample)
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("join %s: cell %d sampled from %s", dir, cell, filepath.Base(sample))

	sheet := imaging.New(cell*layout.GridSize, cell*layout.GridSize, color.NRGBA{0, 0, 0, 0})
	for col := 0; col < layout.GridSize; col++ {
		for row := 0; row < layout.GridSize; row++ {
			fn := layout.SpritePath(opts.Root, code, row, col)
			if fi, err := os.Stat(fn); err != nil || !fi.Mode().IsRegular() {
				continue
			}
			sprite, err := imaging.Open(fn)
			if err != nil {
				return nil, errors.Wrapf(err, "opening %s", fn)
			}
			if size := sprite.Bounds().Size(); opts.Strict && (size.X != cell || size.Y != cell) {
				return nil, errors.Wrapf(ErrCellMismatch, "%s is %dx%d, want %dx%d", fn, size.X, size.Y, cell, cell)
			}
			paste(sheet, sprite, image.Pt(col*cell, row*cell))
		}
	}

	out := layout.SheetPath(opts.Root, code)
	if err := imaging.Save(sheet, out); err != nil {
		return nil, errors.Wrapf(err, "saving %s", out)
	}
	return sheet, nil
}

// All joins every sprite directory in the code range in ascending order,
// calling visit (if not nil) with each sheet written.
func All(opts Options, visit func(code int, sheet image.Image)) (*Report, error) {
	return Codes(opts, visit, layout.Codes()...)
}

// Codes joins the sprite directories for codes in the order given.
func Codes(opts Options, visit func(code int, sheet image.Image), codes ...int) (*Report, error) {
	report := &Report{}
	for _, code := range codes {
		if !layout.ValidCode(code) {
			return report, errors.Errorf("glyph code %d out of range", code)
		}
		sheet, err := Glyph(opts, code)
		if err != nil {
			return report, err
		}
		if sheet == nil {
			report.Skipped = append(report.Skipped, code)
			continue
		}
		glog.V(1).Infof("joined %s", layout.SheetName(code))
		report.Joined = append(report.Joined, code)
		if visit != nil {
			visit(code, sheet)
		}
	}
	return report, nil
}

// paste overwrites the area of sheet under sprite placed at pt, alpha
// included. Rows are copied as NRGBA bytes: draw.Src onto an *image.NRGBA
// goes through premultiplied color and does not preserve low-alpha pixels.
func paste(sheet *image.NRGBA, sprite image.Image, pt image.Point) {
	src := imaging.Clone(sprite)
	r := image.Rectangle{Min: pt, Max: pt.Add(src.Bounds().Size())}.Intersect(sheet.Bounds())
	if r.Empty() {
		return
	}
	n := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := sheet.PixOffset(r.Min.X, y)
		j := src.PixOffset(r.Min.X-pt.X, y-pt.Y)
		copy(sheet.Pix[i:i+n], src.Pix[j:j+n])
	}
}

// firstFile returns the path of the first non-directory entry in dir, or ""
// if it has none.
func firstFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Wrapf(err, "listing %s", dir)
	}
	for _, e := range entries {
		if !e.IsDir() {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", nil
}

// spriteWidth reads only the image header.
func spriteWidth(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, errors.Wrapf(err, "decoding %s", path)
	}
	return cfg.Width, nil
}
