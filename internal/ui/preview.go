package ui

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"github.com/DaanHessen/cometcondo/internal/engine"
)

// previewKey identifies a rendered preview without hashing the payload.
type previewKey struct {
	size       int
	head, tail string
	w, h       int
	theme      string
}

func keyFor(ref engine.ImageRef, w, h int, theme string) previewKey {
	n := len(ref.Data)
	head, tail := ref.Data, ref.Data
	if n > 64 {
		head, tail = ref.Data[:64], ref.Data[n-64:]
	}
	return previewKey{size: n, head: string(head), tail: string(tail), w: w, h: h, theme: theme}
}

// preview renders ref into at most w columns by h rows. Remote images cannot
// be fetched from the terminal, so they show a framed link instead.
func (m *model) preview(ref engine.ImageRef, w, h int) string {
	if w < 4 || h < 2 {
		return ""
	}
	if !ref.Inline() {
		frame := lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(m.theme.Border).
			Width(w - 2).
			Align(lipgloss.Center)
		return frame.Render(m.styles.muted.Render("image: ") + m.styles.text.Render(truncate(ref.URL, w-10)))
	}
	k := keyFor(ref, w, h, m.themeName)
	if out, ok := m.previews[k]; ok {
		return out
	}
	out, err := halfBlocks(ref.Data, w, h)
	if err != nil {
		out = m.styles.danger.Render(fmt.Sprintf("cannot display %s: %v", ref.MIMEType, err))
	}
	if m.previews != nil {
		m.previews[k] = out
	}
	return out
}

// halfBlocks samples the image onto a grid of cells, two pixels per cell:
// the upper half is the foreground of "▀", the lower half its background.
func halfBlocks(data []byte, maxW, maxH int) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", errors.Wrap(err, "decode image")
	}
	bounds := img.Bounds()
	iw, ih := bounds.Dx(), bounds.Dy()
	if iw == 0 || ih == 0 {
		return "", errors.New("empty image")
	}
	// terminal cells are roughly twice as tall as wide; one cell holds two
	// vertical pixels, so aspect is preserved with w cols × (2h) pixels.
	cols := maxW
	rows := ih * cols / iw / 2
	if rows > maxH {
		rows = maxH
		cols = iw * rows * 2 / ih
	}
	if cols < 1 || rows < 1 {
		return "", errors.New("image too small to display")
	}
	var b strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			sx := bounds.Min.X + x*iw/cols
			top := bounds.Min.Y + (2*y)*ih/(2*rows)
			bottom := bounds.Min.Y + (2*y+1)*ih/(2*rows)
			cell := lipgloss.NewStyle().
				Foreground(hexColor(img.At(sx, top))).
				Background(hexColor(img.At(sx, bottom)))
			b.WriteString(cell.Render("▀"))
		}
		if y < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func hexColor(c interface{ RGBA() (r, g, b, a uint32) }) lipgloss.Color {
	r, g, bl, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, bl>>8))
}
