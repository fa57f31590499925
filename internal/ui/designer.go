package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DaanHessen/cometcondo/internal/engine"
)

func currentDir() (string, error) {
	if dir, err := os.Getwd(); err == nil {
		return dir, nil
	}
	return os.UserHomeDir()
}

func (m *model) renderDesigner() string {
	d := m.designer
	if d == nil {
		return ""
	}
	w := m.viewWidth()
	paneW := clamp(w/2-4, 30, 80)

	header := lipgloss.JoinVertical(lipgloss.Left,
		m.center(m.styles.title.Render("DESIGN YOUR BESPOKE MEAT SUIT")),
		m.center(m.styles.subtitle.Render("Upload your photo, then modify your vessel for its new existence.")),
		"",
	)

	left := m.renderPhotoPane(d, paneW)
	right := m.renderSelectors(d, paneW)
	var body string
	if w >= 2*paneW+8 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, left, right)
	}

	finalize := "Finalize Design"
	if d.Finalizing() {
		finalize = m.spinner.View() + " Registering Design..."
	}
	var button string
	if d.CanFinalize() {
		button = m.styles.button.Render(finalize)
	} else {
		button = m.styles.disabled.Render(finalize)
	}

	help := m.keys.designerHelp()
	if m.picking {
		help = m.keys.pickerHelp()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.center(body),
		"",
		m.center(button),
		"\n"+m.help.ShortHelpView(help),
	)
}

func (m *model) renderPhotoPane(d *engine.Designer, w int) string {
	h := 14
	var content string
	switch {
	case m.picking:
		content = m.styles.glow.Render("Select a photo") + "\n" +
			m.styles.muted.Render(truncate(m.picker.CurrentDirectory, w-4)) + "\n\n" +
			m.picker.View()
	case d.Finalizing():
		content = m.spinner.View() + " " + m.styles.glow.Render("Fabricating new vessel...") + "\n" +
			m.styles.muted.Render("This may take a few moments.")
	case d.Phase() == engine.PhaseGenerating:
		content = m.spinner.View() + " " + m.styles.glow.Render("Generating...")
	case d.Phase() == engine.PhaseNoPhoto:
		content = m.styles.button.Render("Upload Your Photo") + "\n\n" +
			m.styles.muted.Render("press u to browse for a PNG, JPEG, GIF or WebP image")
	default:
		caption := "Uploaded photo"
		if d.Generated() != nil {
			caption = "Generated Avatar"
		}
		content = m.preview(*d.Preview(), w-4, h-2) + "\n" + m.styles.muted.Render(caption)
	}
	if m.uploadErr != "" {
		content += "\n" + m.styles.danger.Render(truncate(m.uploadErr, w-4))
	}
	return m.styles.card.Width(w).Height(h).Render(content)
}

func (m *model) renderSelectors(d *engine.Designer, w int) string {
	design := d.Design()
	blocks := make([]string, 0, len(engine.ListAxes())+2)
	for i, a := range engine.ListAxes() {
		title := m.styles.muted.Render(a.Title())
		if i == m.axisCursor && !m.picking {
			title = m.styles.glow.Render("▸ " + a.Title())
		}
		opts := make([]string, 0, 4)
		for _, o := range engine.OptionsFor(a) {
			style := m.styles.option
			if o == design.Get(a) {
				style = m.styles.chosen
			}
			opts = append(opts, style.Render(engine.ShortLabel(o)))
		}
		blocks = append(blocks, title, wrapJoin(opts, w))
	}

	gen := "Generate Avatar"
	if d.Phase() == engine.PhaseGenerating {
		gen = m.spinner.View() + " Generating..."
	}
	if d.CanGenerate() {
		blocks = append(blocks, "", m.styles.button.Render(gen))
	} else {
		blocks = append(blocks, "", m.styles.disabled.Render(gen))
	}
	if msg := d.Error(); msg != "" {
		blocks = append(blocks, m.styles.danger.Width(w).Render(msg))
	}
	return lipgloss.NewStyle().Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, blocks...))
}

// wrapJoin lays out boxes left to right, starting a new row when the next
// box would overflow width.
func wrapJoin(boxes []string, width int) string {
	var rows []string
	var row []string
	used := 0
	for _, b := range boxes {
		bw := lipgloss.Width(b)
		if used > 0 && used+bw > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, used = nil, 0
		}
		row = append(row, b)
		used += bw
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}
