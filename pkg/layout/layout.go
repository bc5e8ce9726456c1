// Package layout names the files that make up a glyph atlas on disk.
//
// A sheet glyph_NN.png holds a 16x16 grid of cells for glyph code NN. Splitting
// it produces a directory glyph_NN/ with one glyph_NNRC.png per cell, where R
// and C are the row and column as single hex digits.
package layout

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// GridSize is the number of cells along each side of a sheet.
	GridSize = 16
	// CodeCount bounds the glyph codes processed: [0, CodeCount).
	CodeCount = 255

	prefix = "glyph_"
	ext    = ".png"
)

// ValidCode reports whether code is one of the processed glyph codes.
func ValidCode(code int) bool {
	return code >= 0 && code < CodeCount
}

// Codes returns every processed glyph code in ascending order.
func Codes() []int {
	codes := make([]int, CodeCount)
	for i := range codes {
		codes[i] = i
	}
	return codes
}

// ValidCell reports whether row and col address a cell of the grid.
func ValidCell(row, col int) bool {
	return row >= 0 && row < GridSize && col >= 0 && col < GridSize
}

// DirName returns the sprite directory name for code, e.g. "glyph_4E".
func DirName(code int) string {
	return fmt.Sprintf("%s%02X", prefix, code)
}

// SheetName returns the sheet file name for code, e.g. "glyph_4E.png".
func SheetName(code int) string {
	return DirName(code) + ext
}

// SpriteName returns the file name of the sprite at (row, col) of code's sheet.
func SpriteName(code, row, col int) string {
	return fmt.Sprintf("%s%02X%01X%01X%s", prefix, code, row, col, ext)
}

// DirPath returns the sprite directory for code under root.
func DirPath(root string, code int) string {
	return filepath.Join(root, DirName(code))
}

// SheetPath returns the sheet file for code under root.
func SheetPath(root string, code int) string {
	return filepath.Join(root, SheetName(code))
}

// SpritePath returns the sprite file for (row, col) of code under root.
func SpritePath(root string, code, row, col int) string {
	return filepath.Join(DirPath(root, code), SpriteName(code, row, col))
}

// ParseSheetName is the inverse of SheetName.
func ParseSheetName(name string) (int, error) {
	hex, ok := trim(name)
	if !ok || len(hex) != 2 {
		return 0, errors.Errorf("layout: %q is not a sheet name", name)
	}
	code, err := parseHex(hex)
	if err != nil || !ValidCode(code) {
		return 0, errors.Errorf("layout: %q does not carry a valid glyph code", name)
	}
	return code, nil
}

// ParseSpriteName is the inverse of SpriteName.
func ParseSpriteName(name string) (code, row, col int, err error) {
	hex, ok := trim(name)
	if !ok || len(hex) != 4 {
		return 0, 0, 0, errors.Errorf("layout: %q is not a sprite name", name)
	}
	if code, err = parseHex(hex[:2]); err != nil || !ValidCode(code) {
		return 0, 0, 0, errors.Errorf("layout: %q does not carry a valid glyph code", name)
	}
	if row, err = parseHex(hex[2:3]); err != nil {
		return 0, 0, 0, errors.Wrapf(err, "layout: row of %q", name)
	}
	if col, err = parseHex(hex[3:4]); err != nil {
		return 0, 0, 0, errors.Wrapf(err, "layout: col of %q", name)
	}
	return code, row, col, nil
}

func trim(name string) (string, bool) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
		return "", false
	}
	return name[len(prefix) : len(name)-len(ext)], true
}

// parseHex accepts only the uppercase digits the encoders emit.
func parseHex(s string) (int, error) {
	if strings.ToUpper(s) != s {
		return 0, errors.Errorf("%q is not uppercase hex", s)
	}
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
