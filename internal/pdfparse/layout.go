package pdfparse

import (
	"math"
	"sort"
	"strings"
)

const (
	defaultFontSize = 10.0
	// Fraction of the font size treated as a space between words.
	wordGapRatio = 0.2
	// Fraction of the font size within which glyphs share a baseline.
	baselineRatio = 0.3
)

// Glyph is a positioned run of text on a page. PDF coordinates grow upward,
// so a larger Y is higher on the page.
type Glyph struct {
	X, Y     float64
	W        float64
	FontSize float64
	S        string
}

func (g Glyph) size() float64 {
	if g.FontSize <= 0 {
		return defaultFontSize
	}
	return g.FontSize
}

func (g Glyph) width() float64 {
	if g.W > 0 {
		return g.W
	}
	// Fonts without width tables report zero; assume half an em per rune.
	return 0.5 * g.size() * float64(len([]rune(g.S)))
}

// Line is a visual row of glyphs ordered left to right.
type Line []Glyph

// Page is the text layout of a single page, top to bottom.
type Page struct {
	Number int
	Lines  []Line
}

// Cell is a horizontally contiguous group of glyphs.
type Cell struct {
	Text   string
	X0, X1 float64
}

func (c Cell) center() float64 { return (c.X0 + c.X1) / 2 }

// GroupLines sorts glyphs top to bottom and merges those sharing a baseline.
func GroupLines(glyphs []Glyph) []Line {
	sorted := make([]Glyph, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S != "" {
			sorted = append(sorted, g)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []Line
	for _, g := range sorted {
		if n := len(lines); n > 0 && math.Abs(lines[n-1][0].Y-g.Y) <= baselineRatio*g.size() {
			lines[n-1] = append(lines[n-1], g)
			continue
		}
		lines = append(lines, Line{g})
	}
	for _, l := range lines {
		sort.SliceStable(l, func(i, j int) bool { return l[i].X < l[j].X })
	}
	return lines
}

// Cells splits a line wherever the horizontal gap between glyphs exceeds
// cellGap font sizes. Smaller gaps become single spaces.
func (l Line) Cells(cellGap float64) []Cell {
	var cells []Cell
	var cur strings.Builder
	var c Cell
	open := false

	flush := func() {
		if !open {
			return
		}
		if text := strings.Join(strings.Fields(cur.String()), " "); text != "" {
			c.Text = text
			cells = append(cells, c)
		}
		cur.Reset()
		open = false
	}

	for _, g := range l {
		if open {
			gap := g.X - c.X1
			switch {
			case gap > cellGap*g.size():
				flush()
			case gap > wordGapRatio*g.size() && !strings.HasSuffix(cur.String(), " "):
				cur.WriteByte(' ')
			}
		}
		if !open {
			c = Cell{X0: g.X, X1: g.X}
			open = true
		}
		cur.WriteString(g.S)
		if end := g.X + g.width(); end > c.X1 {
			c.X1 = end
		}
	}
	flush()
	return cells
}

// Text renders the line with cells separated by single spaces.
func (l Line) Text(cellGap float64) string {
	cells := l.Cells(cellGap)
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = c.Text
	}
	return strings.Join(parts, " ")
}
