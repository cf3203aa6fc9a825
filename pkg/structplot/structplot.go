// 14 March 2024

// Package structplot draws the text picture of a structure into a PNG,
// in a monospaced font so the pairs line up.
package structplot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/andrew-torda/thal/pkg/thal"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

var ErrNothingToDraw = errors.New("no structure to draw")

// Options for the picture. Size is in points.
type Options struct {
	Size   float64
	DPI    float64
	Margin int // pixels
	Title  bool
	Fg, Bg color.Color
}

// DefaultOptions gives black 14 point text on white.
func DefaultOptions() *Options {
	return &Options{Size: 14, DPI: 72, Margin: 10, Title: true, Fg: color.Black, Bg: color.White}
}

var (
	monoOnce sync.Once
	mono     *truetype.Font
	monoErr  error
)

func monoFont() (*truetype.Font, error) {
	monoOnce.Do(func() { mono, monoErr = truetype.Parse(gomono.TTF) })
	return mono, monoErr
}

const tabWidth = 4

func expandTabs(s string) string { return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth)) }

// size works out the picture in pixels for lines of text.
func size(face font.Face, lines []string, margin int) (w, h int, lineH fixed.Int26_6) {
	adv, _ := face.GlyphAdvance('M')
	m := face.Metrics()
	lineH = m.Height
	nmax := 0
	for _, l := range lines {
		nmax = max(nmax, len(l))
	}
	w = (adv*fixed.Int26_6(nmax)).Ceil() + 2*margin
	h = (lineH*fixed.Int26_6(len(lines))).Ceil() + 2*margin
	return w, h, lineH
}

// Lines draws lines of ascii text and writes them as a PNG.
func Lines(w io.Writer, lines []string, o *Options) error {
	if o == nil {
		o = DefaultOptions()
	}
	if len(lines) == 0 {
		return ErrNothingToDraw
	}
	f, err := monoFont()
	if err != nil {
		return fmt.Errorf("font: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: o.Size, DPI: o.DPI})
	defer face.Close()
	exp := make([]string, len(lines))
	for i, l := range lines {
		exp[i] = expandTabs(l)
	}
	lines = exp
	wd, ht, lineH := size(face, lines, o.Margin)
	img := image.NewRGBA(image.Rect(0, 0, wd, ht))
	draw.Draw(img, img.Bounds(), image.NewUniform(o.Bg), image.Point{}, draw.Src)

	c := freetype.NewContext()
	c.SetDPI(o.DPI)
	c.SetFont(f)
	c.SetFontSize(o.Size)
	c.SetClip(img.Bounds())
	c.SetDst(img)
	c.SetSrc(image.NewUniform(o.Fg))
	c.SetHinting(font.HintingFull)

	pt := freetype.Pt(o.Margin, o.Margin)
	pt.Y += face.Metrics().Ascent
	for _, l := range lines {
		if _, err := c.DrawString(l, pt); err != nil {
			return fmt.Errorf("drawing %q: %w", l, err)
		}
		pt.Y += lineH
	}
	return png.Encode(w, img)
}

// Render draws a result. It has to have been calculated with
// thal.Args.Structure set.
func Render(w io.Writer, r *thal.Result, o *Options) error {
	if o == nil {
		o = DefaultOptions()
	}
	lines := r.AsciiStructureLines()
	if r.NoStructure || len(lines) == 0 {
		return ErrNothingToDraw
	}
	if o.Title {
		lines = append([]string{r.String(), ""}, lines...)
	}
	return Lines(w, lines, o)
}

// WriteFile is Render to a file. Nothing is written if there is
// nothing to draw.
func WriteFile(name string, r *thal.Result, o *Options) error {
	var b bytes.Buffer
	if err := Render(&b, r, o); err != nil {
		return err
	}
	return os.WriteFile(name, b.Bytes(), 0o644)
}
