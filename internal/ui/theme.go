package ui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/DaanHessen/cometcondo/internal/engine"
)

type palette struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	AccentAlt  lipgloss.Color
	Border     lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Danger     lipgloss.Color
	Tiers      map[engine.PriceTier]lipgloss.Color
}

var palettes = map[string]palette{
	"catppuccin": {
		Background: lipgloss.Color("#1e1e2e"),
		Surface:    lipgloss.Color("#313244"),
		Text:       lipgloss.Color("#cdd6f4"),
		Muted:      lipgloss.Color("#a6adc8"),
		Accent:     lipgloss.Color("#89dceb"),
		AccentAlt:  lipgloss.Color("#cba6f7"),
		Border:     lipgloss.Color("#585b70"),
		Success:    lipgloss.Color("#94e2d5"),
		Warning:    lipgloss.Color("#f9e2af"),
		Danger:     lipgloss.Color("#f38ba8"),
		Tiers: map[engine.PriceTier]lipgloss.Color{
			engine.TierModest:  lipgloss.Color("#a6e3a1"),
			engine.TierComfort: lipgloss.Color("#89b4fa"),
			engine.TierLuxury:  lipgloss.Color("#cba6f7"),
			engine.TierGalaxy:  lipgloss.Color("#fab387"),
		},
	},
	"dracula": {
		Background: lipgloss.Color("#282a36"),
		Surface:    lipgloss.Color("#343746"),
		Text:       lipgloss.Color("#f8f8f2"),
		Muted:      lipgloss.Color("#6272a4"),
		Accent:     lipgloss.Color("#8be9fd"),
		AccentAlt:  lipgloss.Color("#bd93f9"),
		Border:     lipgloss.Color("#44475a"),
		Success:    lipgloss.Color("#50fa7b"),
		Warning:    lipgloss.Color("#f1fa8c"),
		Danger:     lipgloss.Color("#ff5555"),
		Tiers: map[engine.PriceTier]lipgloss.Color{
			engine.TierModest:  lipgloss.Color("#50fa7b"),
			engine.TierComfort: lipgloss.Color("#8be9fd"),
			engine.TierLuxury:  lipgloss.Color("#ff79c6"),
			engine.TierGalaxy:  lipgloss.Color("#ffb86c"),
		},
	},
	"gruvbox": {
		Background: lipgloss.Color("#282828"),
		Surface:    lipgloss.Color("#3c3836"),
		Text:       lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#a89984"),
		Accent:     lipgloss.Color("#83a598"),
		AccentAlt:  lipgloss.Color("#d3869b"),
		Border:     lipgloss.Color("#665c54"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Danger:     lipgloss.Color("#fb4934"),
		Tiers: map[engine.PriceTier]lipgloss.Color{
			engine.TierModest:  lipgloss.Color("#b8bb26"),
			engine.TierComfort: lipgloss.Color("#83a598"),
			engine.TierLuxury:  lipgloss.Color("#d3869b"),
			engine.TierGalaxy:  lipgloss.Color("#fe8019"),
		},
	},
	"solarized_dark": {
		Background: lipgloss.Color("#002b36"),
		Surface:    lipgloss.Color("#073642"),
		Text:       lipgloss.Color("#fdf6e3"),
		Muted:      lipgloss.Color("#93a1a1"),
		Accent:     lipgloss.Color("#2aa198"),
		AccentAlt:  lipgloss.Color("#6c71c4"),
		Border:     lipgloss.Color("#586e75"),
		Success:    lipgloss.Color("#859900"),
		Warning:    lipgloss.Color("#b58900"),
		Danger:     lipgloss.Color("#dc322f"),
		Tiers: map[engine.PriceTier]lipgloss.Color{
			engine.TierModest:  lipgloss.Color("#859900"),
			engine.TierComfort: lipgloss.Color("#268bd2"),
			engine.TierLuxury:  lipgloss.Color("#d33682"),
			engine.TierGalaxy:  lipgloss.Color("#cb4b16"),
		},
	},
}

func paletteFor(name string) palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes["catppuccin"]
}

func themeNames() []string {
	names := make([]string, 0, len(palettes))
	for k := range palettes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func nextThemeName(current string, step int) string {
	names := themeNames()
	if len(names) == 0 {
		return current
	}
	idx := 0
	for i, name := range names {
		if name == current {
			idx = i
			break
		}
	}
	idx = (idx + step) % len(names)
	if idx < 0 {
		idx += len(names)
	}
	return names[idx]
}

// styles are rebuilt whenever the palette changes.
type styles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	glow     lipgloss.Style
	muted    lipgloss.Style
	text     lipgloss.Style
	danger   lipgloss.Style
	success  lipgloss.Style
	card     lipgloss.Style
	selected lipgloss.Style
	panel    lipgloss.Style
	modal    lipgloss.Style
	button   lipgloss.Style
	disabled lipgloss.Style
	option   lipgloss.Style
	chosen   lipgloss.Style
}

func newStyles(p palette) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		subtitle: lipgloss.NewStyle().Foreground(p.Muted),
		glow:     lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		muted:    lipgloss.NewStyle().Foreground(p.Muted),
		text:     lipgloss.NewStyle().Foreground(p.Text),
		danger:   lipgloss.NewStyle().Foreground(p.Danger),
		success:  lipgloss.NewStyle().Foreground(p.Success),
		card:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(0, 1),
		selected: lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(p.Accent).Padding(0, 1),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.AccentAlt).Padding(1, 2),
		modal:    lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(p.Accent).Padding(1, 2),
		button:   lipgloss.NewStyle().Bold(true).Foreground(p.Background).Background(p.Accent).Padding(0, 2),
		disabled: lipgloss.NewStyle().Foreground(p.Muted).Background(p.Surface).Padding(0, 2),
		option:   lipgloss.NewStyle().Foreground(p.Muted).Border(lipgloss.NormalBorder()).BorderForeground(p.Border).Padding(0, 1),
		chosen:   lipgloss.NewStyle().Foreground(p.Accent).Border(lipgloss.NormalBorder()).BorderForeground(p.Accent).Padding(0, 1),
	}
}

func (m *model) tierStyle(t engine.PriceTier) lipgloss.Style {
	c, ok := m.theme.Tiers[t]
	if !ok {
		c = m.theme.Warning
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}
