package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"github.com/DaanHessen/cometcondo/internal/engine"
)

const (
	headline    = "Luxury Living on Comet 3I/ATLAS"
	tagline     = "Your consciousness lives on forever through space in glorious luxury!"
	confirmText = `## Transaction Confirmed!

Your reservation and bespoke meat suit design have been registered. Fabrication will commence on Comet 3I/ATLAS, ready for your arrival.

Further instructions regarding the consciousness transfer will be sent to your neuro-link shortly. Welcome to your new existence.`
)

func (m *model) viewWidth() int {
	if m.width <= 0 {
		return 100
	}
	return m.width
}

func (m *model) center(s string) string {
	return lipgloss.PlaceHorizontal(m.viewWidth(), lipgloss.Center, s)
}

func (m *model) renderCatalog() string {
	parts := []string{
		m.renderHeader(),
		m.renderCountdown(),
		m.center(m.styles.glow.Render("Choose your space below now!")),
		m.renderCards(),
		m.renderTeleporterFooter(),
	}
	switch m.flow.Panel() {
	case engine.PanelPayment:
		parts = append(parts, m.center(m.renderPayment()))
	case engine.PanelConfirmation:
		parts = append(parts, m.center(m.renderConfirmation()))
	}
	parts = append(parts, m.renderHelpBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *model) renderHeader() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.center(m.styles.title.Render(strings.ToUpper(headline))),
		m.center(m.styles.subtitle.Render(tagline)),
		"",
	)
}

func (m *model) renderCountdown() string {
	b := m.remaining
	units := []struct {
		value string
		label string
	}{
		{fmt.Sprintf("%03d", b.Days), "DAYS"},
		{fmt.Sprintf("%02d", b.Hours), "HOURS"},
		{fmt.Sprintf("%02d", b.Minutes), "MINUTES"},
		{fmt.Sprintf("%02d", b.Seconds), "SECONDS"},
	}
	cells := make([]string, 0, len(units)*2)
	for i, u := range units {
		if i > 0 {
			cells = append(cells, m.styles.glow.Render(" : "))
		}
		cell := lipgloss.JoinVertical(lipgloss.Center, m.styles.glow.Render(u.value), m.styles.muted.Render(u.label))
		cells = append(cells, cell)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.center(m.styles.muted.Render("CONSCIOUSNESS TRANSFER IN:")),
		m.center(lipgloss.JoinHorizontal(lipgloss.Top, cells...)),
		"",
	)
}

func (m *model) renderCards() string {
	props := m.flow.Catalog().Properties()
	candidate, hasCandidate := m.flow.PurchaseCandidate()
	w := m.viewWidth()/len(props) - 4
	if w < 18 {
		w = 18
	}
	cards := make([]string, 0, len(props))
	for i, p := range props {
		var b strings.Builder
		b.WriteString(m.styles.title.Render(truncate(p.Name, w)) + "\n")
		b.WriteString(m.tierStyle(p.Tier).Render(fmt.Sprintf("%s Class", p.Tier)) + "\n")
		b.WriteString(m.styles.muted.Render(engine.FormatBTC(p.Tier.Price())))
		switch {
		case m.flow.Generating(p.ID):
			b.WriteString("\n" + m.spinner.View() + m.styles.muted.Render(" rendering"))
		case p.Generated:
			b.WriteString("\n" + m.styles.success.Render("render received"))
		default:
			b.WriteString("\n ")
		}
		style := m.styles.card
		if hasCandidate && candidate.ID == p.ID {
			style = m.styles.selected
		}
		label := fmt.Sprintf("[%d]", i+1)
		if i == m.cursor {
			label = "▸" + label
		}
		card := lipgloss.JoinVertical(lipgloss.Center, m.styles.muted.Render(label), style.Width(w).Render(b.String()))
		cards = append(cards, card)
	}
	return m.center(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
}

func (m *model) renderTeleporterFooter() string {
	lines := []string{""}
	if c, ok := m.flow.City(); ok {
		lines = append(lines,
			m.center(m.styles.muted.Render("Chosen Teleporter Location:")),
			m.center(m.styles.glow.Render(c.Name)),
			m.center(m.styles.muted.Render("Select a different location or proceed: press t")),
		)
	} else {
		lines = append(lines, m.center(m.styles.muted.Render("Press t to find the location of the nearest StarCast Teleporter.")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, append(lines, "")...)
}

func (m *model) renderPayment() string {
	pf := m.payment
	if pf == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Finalize Consciousness Transfer") + "\n\n")
	b.WriteString(m.styles.muted.Render("ORDER SUMMARY") + "\n")
	if pf.Property != nil {
		b.WriteString(fmt.Sprintf("Condo Reservation: %s %s\n", m.styles.text.Render(pf.Property.Name), m.tierStyle(pf.Property.Tier).Render("("+string(pf.Property.Tier)+" Class)")))
	}
	if pf.Design != nil {
		b.WriteString("Bespoke Meat Suit: " + m.styles.text.Render("Included") + "\n")
		for _, a := range engine.ListAxes() {
			b.WriteString(m.styles.muted.Render(fmt.Sprintf("  • %s: %s", axisLabel(a), pf.Design.Get(a))) + "\n")
		}
	}
	if pf.City != nil {
		b.WriteString("Teleporter Origin: " + m.styles.text.Render(pf.City.Name) + "\n")
	}
	b.WriteString("\nTotal Deposit  " + m.styles.glow.Render(engine.FormatBTC(pf.Price())) + "\n\n")
	b.WriteString(m.styles.muted.Render("Your Bitcoin Wallet Address") + "\n")
	b.WriteString(m.wallet.View() + "\n\n")

	caption := "Submit Deposit"
	if pf.Submitting() {
		caption = m.spinner.View() + " Transmitting Deposit..."
	}
	if pf.CanSubmit() {
		b.WriteString(m.styles.button.Render(caption))
	} else {
		b.WriteString(m.styles.disabled.Render(caption))
	}
	if m.paymentErr != "" {
		b.WriteString("\n" + m.styles.danger.Render(m.paymentErr))
	}
	return m.styles.panel.Render(b.String())
}

func axisLabel(a engine.Axis) string {
	switch a {
	case engine.AxisBuild:
		return "Base"
	case engine.AxisSkin:
		return "Skin"
	case engine.AxisEyes:
		return "Eyes"
	case engine.AxisHair:
		return "Hair"
	}
	return string(a)
}

func (m *model) renderConfirmation() string {
	body := m.renderMarkdown(confirmText, min(m.viewWidth()-8, 80))
	if m.exportStatus != "" {
		body += "\n" + m.styles.muted.Render("receipt: "+m.exportStatus)
	}
	return m.styles.modal.Render(body)
}

// renderMarkdown caches by width; glamour falls back to the raw text when it
// cannot build a renderer.
func (m *model) renderMarkdown(md string, width int) string {
	if width < 20 {
		width = 20
	}
	k := fmt.Sprintf("%d:%s", width, md)
	if out, ok := m.markdown[k]; ok {
		return out
	}
	out := md
	if r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(width)); err == nil {
		if rendered, err := r.Render(md); err == nil {
			out = strings.TrimSpace(rendered)
		}
	}
	if m.markdown != nil {
		m.markdown[k] = out
	}
	return out
}

func (m *model) renderDetail() string {
	p, _ := m.flow.Viewing()
	w := min(m.viewWidth()-6, 96)
	var b strings.Builder

	imgW := w - 6
	if m.flow.Generating(p.ID) && !p.Generated {
		b.WriteString(m.spinner.View() + " " + m.styles.glow.Render("downloading image through StarCast Teleporter connection...") + "\n")
		b.WriteString(m.styles.muted.Render("This may take a moment.") + "\n\n")
	} else {
		b.WriteString(m.preview(p.Image, imgW, 12) + "\n")
	}

	b.WriteString(m.styles.title.Render(p.Name) + "  " + m.tierStyle(p.Tier).Render(string(p.Tier)+" Class") + "\n")
	caption := "Architectural Concept"
	if p.Generated {
		caption = "AI Generated 3D Render"
	}
	b.WriteString(m.styles.muted.Render(caption) + "\n\n")
	b.WriteString(m.renderMarkdown(p.Description, imgW) + "\n\n")

	var button string
	switch {
	case p.Generated:
		button = m.styles.disabled.Render("Image Received")
	case m.flow.Generating(p.ID):
		button = m.styles.disabled.Render("Requesting...")
	default:
		button = m.styles.button.Render("Request Image from Comet")
	}
	b.WriteString(button)
	if err := m.flow.GenerationError(p.ID); err != nil {
		b.WriteString("\n" + m.styles.danger.Render(generationFailure(err)))
	}
	b.WriteString("\n\n" + m.help.ShortHelpView(m.keys.detailHelp()))

	modal := m.styles.modal.Width(w).Render(b.String())
	if m.height > 0 {
		return lipgloss.Place(m.viewWidth(), m.height, lipgloss.Center, lipgloss.Center, modal)
	}
	return m.center(modal)
}

func generationFailure(err error) string {
	if errors.Is(err, engine.ErrNoImage) {
		return "The comet did not send an image back. Try again."
	}
	return "Transmission failed: " + err.Error()
}

func (m *model) renderHelpBar() string {
	var bindings = m.keys.catalogHelp()
	switch m.flow.Panel() {
	case engine.PanelPayment:
		if m.formFocused {
			bindings = m.keys.paymentHelp()
		} else {
			bindings = append(bindings, m.keys.Focus)
		}
	case engine.PanelConfirmation:
		bindings = m.keys.confirmationHelp()
	}
	return "\n" + m.help.ShortHelpView(bindings)
}

func (m *model) renderFatal() string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.danger.Bold(true).Render("System Malfunction"),
		"",
		m.styles.text.Render("A critical error occurred while running the application."),
		m.styles.muted.Render("Details were written to the log file. Press q to exit."),
	)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	return body
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
