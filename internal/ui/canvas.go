package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/mouse"
)

// paint indexes into the canvas style table.
type paint int

const (
	paintBase paint = iota
	paintLabel
	paintLabelFocus
	paintFrame
	paintFrameAlt
	paintDisabled
	paintSelected
	paintFocus
	paintEdge
	paintResize
	paintSource
	paintDrop
	paintMarquee
	paintCompiled
	paintPending
	paintFailed
	paintCount
)

// canvas is a fixed-size grid of runes with one paint per cell. Rendering
// groups runs of equal paint so each run costs a single Render call.
type canvas struct {
	w, h   int
	runes  [][]rune
	paints [][]paint
}

// wideFill marks the second column of a double-width rune.
const wideFill rune = 0

func newCanvas(w, h int) *canvas {
	c := &canvas{w: max(w, 0), h: max(h, 0)}
	c.runes = make([][]rune, c.h)
	c.paints = make([][]paint, c.h)
	for y := range c.runes {
		c.runes[y] = []rune(strings.Repeat(" ", c.w))
		c.paints[y] = make([]paint, c.w)
	}
	return c
}

func (c *canvas) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.w && y < c.h
}

// fill paints r and sets every cell to ch.
func (c *canvas) fill(r mouse.Rect, ch rune, p paint) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			if c.inside(x, y) {
				c.runes[y][x] = ch
				c.paints[y][x] = p
			}
		}
	}
}

// repaint changes the paint of r and keeps its runes.
func (c *canvas) repaint(r mouse.Rect, p paint) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			if c.inside(x, y) {
				c.paints[y][x] = p
			}
		}
	}
}

// text writes s at (x, y), truncated to maxW columns.
func (c *canvas) text(x, y, maxW int, s string, p paint) {
	if maxW <= 0 || y < 0 || y >= c.h {
		return
	}
	s = ansi.Truncate(s, maxW, "…")
	col := x
	for _, r := range s {
		w := ansi.StringWidth(string(r))
		if w <= 0 {
			continue
		}
		if col+w > x+maxW {
			break
		}
		if c.inside(col, y) {
			c.runes[y][col] = r
			c.paints[y][col] = p
		}
		if w == 2 && c.inside(col+1, y) {
			c.runes[y][col+1] = wideFill
			c.paints[y][col+1] = p
		}
		col += w
	}
}

// render returns the canvas as styled rows joined by newlines.
func (c *canvas) render(styles [paintCount]lipgloss.Style) string {
	var b strings.Builder
	var run strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		x := 0
		for x < c.w {
			p := c.paints[y][x]
			run.Reset()
			for x < c.w && c.paints[y][x] == p {
				if r := c.runes[y][x]; r != wideFill {
					run.WriteRune(r)
				}
				x++
			}
			b.WriteString(styles[p].Render(run.String()))
		}
	}
	return b.String()
}

// plain returns the canvas text without styling, for tests.
func (c *canvas) plain() string {
	lines := make([]string, c.h)
	for y := range c.runes {
		var b strings.Builder
		for _, r := range c.runes[y] {
			if r != wideFill {
				b.WriteRune(r)
			}
		}
		lines[y] = strings.TrimRight(b.String(), " ")
	}
	return strings.Join(lines, "\n")
}

// paintStyles builds the style table for a theme.
func paintStyles(t Theme) [paintCount]lipgloss.Style {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	block := func(bg, text string) lipgloss.Style {
		return lipgloss.NewStyle().Background(lipgloss.Color(bg)).Foreground(lipgloss.Color(text))
	}
	var s [paintCount]lipgloss.Style
	s[paintBase] = lipgloss.NewStyle()
	s[paintLabel] = fg(t.Muted)
	s[paintLabelFocus] = fg(t.Accent).Bold(true)
	s[paintFrame] = block(t.Surface, t.Text)
	s[paintFrameAlt] = block(t.SurfaceAlt, t.Text)
	s[paintDisabled] = block(t.SurfaceAlt, t.Muted).Strikethrough(true)
	s[paintSelected] = block(t.SelectionBg, t.SelectionText)
	s[paintFocus] = block(t.BorderFocus, t.Background).Bold(true)
	s[paintEdge] = fg(t.Border)
	s[paintResize] = block(t.Warning, t.Background)
	s[paintSource] = block(t.FocusBg, t.Muted)
	s[paintDrop] = block(t.Accent, t.Background).Bold(true)
	s[paintMarquee] = block(t.Info, t.Background)
	s[paintCompiled] = block(t.Surface, t.CompileColor(grid.Compiled))
	s[paintPending] = block(t.Surface, t.CompileColor(grid.CompilePending))
	s[paintFailed] = block(t.CompileColor(grid.CompileFailed), t.Background).Bold(true)
	return s
}
