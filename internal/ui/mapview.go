package ui

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DaanHessen/cometcondo/internal/engine"
)

// teleporterMap is the city picker. A fresh instance, with a fresh random
// subset, is built every time the map screen mounts; unmounting drops it.
type teleporterMap struct {
	cities []engine.City
	hover  int
}

func newTeleporterMap(stream *engine.Stream, all []engine.City, n int) *teleporterMap {
	picked := engine.PickCities(stream, all, n)
	sort.SliceStable(picked, func(i, j int) bool { return picked[i].Lng < picked[j].Lng })
	return &teleporterMap{cities: picked}
}

func (t *teleporterMap) hovered() (engine.City, bool) {
	if len(t.cities) == 0 {
		return engine.City{}, false
	}
	return t.cities[t.hover], true
}

// step moves west (-1) or east (+1), wrapping around the globe.
func (t *teleporterMap) step(dir int) {
	n := len(t.cities)
	if n == 0 {
		return
	}
	t.hover = ((t.hover+dir)%n + n) % n
}

// nearest jumps to the closest marker north (-1) or south (+1) of the
// hovered one. It stays put when nothing lies in that direction.
func (t *teleporterMap) nearest(dir int) {
	cur, ok := t.hovered()
	if !ok {
		return
	}
	best, bestDist := -1, math.Inf(1)
	for i, c := range t.cities {
		if i == t.hover {
			continue
		}
		north := c.Lat > cur.Lat
		if (dir < 0) != north || c.Lat == cur.Lat {
			continue
		}
		dLat, dLng := c.Lat-cur.Lat, c.Lng-cur.Lng
		if d := dLat*dLat + dLng*dLng; d < bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 {
		t.hover = best
	}
}

// project maps lat/lng onto an equirectangular grid of w×h cells. Both
// dimensions are treated as at least one cell.
func project(lat, lng float64, w, h int) (x, y int) {
	w, h = max(w, 1), max(h, 1)
	x = int((lng + 180) / 360 * float64(w-1))
	y = int((90 - lat) / 180 * float64(h-1))
	return clamp(x, 0, w-1), clamp(y, 0, h-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (m *model) renderMap() string {
	t := m.tmap
	w := clamp(m.viewWidth()-4, 40, 160)
	h := w / 4
	if m.height > 0 {
		h = clamp(h, 1, max(m.height-10, 1))
	}

	grid := make([][]string, h)
	for y := range grid {
		grid[y] = make([]string, w)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}
	line := lipgloss.NewStyle().Foreground(m.theme.Border)
	for lat := -60.0; lat <= 60; lat += 30 {
		for x := 0; x < w; x += 2 {
			_, y := project(lat, 0, w, h)
			grid[y][x] = line.Render("·")
		}
	}
	for lng := -180.0; lng <= 180; lng += 30 {
		for y := 0; y < h; y++ {
			x, _ := project(0, lng, w, h)
			grid[y][x] = line.Render("┊")
		}
	}

	var label string
	if t != nil {
		pin := lipgloss.NewStyle().Foreground(m.theme.AccentAlt)
		active := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Accent)
		for i, c := range t.cities {
			x, y := project(c.Lat, c.Lng, w, h)
			if i == t.hover {
				grid[y][x] = active.Render("◉")
				label = c.Name
				continue
			}
			grid[y][x] = pin.Render("◆")
		}
	}

	rows := make([]string, h)
	for y := range grid {
		rows[y] = strings.Join(grid[y], "")
	}
	frame := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(m.theme.Accent)
	hover := m.styles.muted.Render("no teleporters online")
	if label != "" {
		hover = m.styles.glow.Render("▸ " + label)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.center(m.styles.title.Render("STARCAST TELEPORTER NETWORK")),
		m.center(m.styles.subtitle.Render("Move to identify, press enter to select a teleporter location.")),
		"",
		m.center(frame.Render(strings.Join(rows, "\n"))),
		m.center(hover),
		"",
		m.center(m.styles.button.Render("esc  Back to Condos")),
		"\n"+m.help.ShortHelpView(m.keys.mapHelp()),
	)
}
