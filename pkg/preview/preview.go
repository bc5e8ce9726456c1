// Package preview draws glyph sheets on a terminal.
//
// Terminals speaking the Kitty or iTerm2 image protocols, or sixel, get the
// real pixels; everything else gets two characters per pixel.
package preview

import (
	"fmt"
	"image"
	ic "image/color"
	"io"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
	"github.com/gookit/color"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

type Mode int

const (
	// Auto uses Graphics when the terminal supports it and TrueColor otherwise.
	Auto Mode = iota
	Graphics
	TrueColor
	Color256
	NoColor
)

// ParseMode maps a flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "auto":
		return Auto, nil
	case "graphics":
		return Graphics, nil
	case "truecolor", "24bit":
		return TrueColor, nil
	case "256", "col256":
		return Color256, nil
	case "none", "nocolor":
		return NoColor, nil
	}
	return Auto, errors.Errorf("unknown preview mode %q", s)
}

type Options struct {
	Mode Mode
	// MinWidth upscales smaller sheets before sending them as graphics.
	MinWidth int
	// MaxWidth downscales wider sheets before drawing them as text.
	MaxWidth int
	// Blanks draws colored blanks instead of ascii shading.
	Blanks bool
}

// Print draws img on w.
func Print(w io.Writer, img image.Image, opts Options) error {
	mode := opts.Mode
	if mode == Auto {
		mode = TrueColor
		if graphicsCapable() {
			mode = Graphics
		}
	}

	if mode == Graphics {
		return printGraphics(w, scaleTo(img, opts.MinWidth, true))
	}
	printText(w, scaleTo(img, opts.MaxWidth, false), mode, opts.Blanks)
	return nil
}

func graphicsCapable() bool {
	if rasterm.IsTermKitty() || rasterm.IsTermItermWez() {
		return true
	}
	capable, err := rasterm.IsSixelCapable()
	return capable && err == nil
}

// scaleTo resizes img to width (nearest neighbour, so cells stay crisp) when
// it is narrower (up) or wider (!up) than width. A zero width disables it.
func scaleTo(img image.Image, width int, up bool) image.Image {
	w := img.Bounds().Dx()
	if width <= 0 || w == 0 || (up && w >= width) || (!up && w <= width) {
		return img
	}
	return resize.Resize(uint(width), 0, img, resize.NearestNeighbor)
}

func printGraphics(w io.Writer, img image.Image) error {
	var err error
	switch {
	case rasterm.IsTermKitty():
		err = rasterm.Settings{}.KittyWriteImage(w, img)
	case rasterm.IsTermItermWez():
		err = rasterm.Settings{}.ItermWriteImage(w, img)
	default:
		palettedImage := image.NewPaletted(img.Bounds(), nil)
		quantizer := gogif.MedianCutQuantizer{NumColor: 64}
		quantizer.Quantize(palettedImage, img.Bounds(), img, image.Point{})
		err = rasterm.Settings{}.SixelWriteImage(w, palettedImage)
	}
	if err != nil {
		return errors.Wrap(err, "writing terminal image")
	}
	fmt.Fprintln(w)
	return nil
}

func printText(w io.Writer, img image.Image, mode Mode, blanks bool) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			fmt.Fprint(w, shade(img.At(x, y), mode, blanks))
		}
		if mode == TrueColor {
			fmt.Fprint(w, "\x1b[0m")
		}
		fmt.Fprintln(w)
	}
}

func shade(col ic.Color, mode Mode, blanks bool) string {
	c := ic.NRGBAModel.Convert(col).(ic.NRGBA)
	if c.A == 0 {
		return "  "
	}
	s := "  "
	if !blanks || mode == NoColor {
		s = ramp(c)
	}
	switch mode {
	case TrueColor:
		return fmt.Sprintf("\x1b[48;2;%d;%d;%dm%s\x1b[0m", c.R, c.G, c.B, s)
	case Color256:
		return color.RGB(c.R, c.G, c.B, true).Sprint(s)
	}
	return s
}

func ramp(c ic.NRGBA) string {
	switch a := (int(c.R) + int(c.G) + int(c.B)) / 3; {
	case a < 32:
		return ".."
	case a < 64:
		return "--"
	case a < 128:
		return "=="
	default:
		return "##"
	}
}
