package engine

import (
	"strings"

	"github.com/pkg/errors"
)

// String backed enums so catalog.yaml values map directly onto them.

type PriceTier string
type Axis string

const (
	TierModest  PriceTier = "Modest"
	TierComfort PriceTier = "Comfort"
	TierLuxury  PriceTier = "Luxury"
	TierGalaxy  PriceTier = "Galaxy"
)

// AllPriceTiers is ordered cheapest first; Rank relies on it.
var AllPriceTiers = []PriceTier{TierModest, TierComfort, TierLuxury, TierGalaxy}

var tierPrices = map[PriceTier]int{
	TierModest:  10,
	TierComfort: 25,
	TierLuxury:  50,
	TierGalaxy:  100,
}

// Price is the deposit in whole BTC for the tier. Unknown tiers cost 0.
func (t PriceTier) Price() int { return tierPrices[t] }

// Rank orders tiers Modest < Comfort < Luxury < Galaxy. Unknown tiers rank -1.
func (t PriceTier) Rank() int {
	for i, x := range AllPriceTiers {
		if x == t {
			return i
		}
	}
	return -1
}

const (
	AxisBuild Axis = "build"
	AxisSkin  Axis = "skin"
	AxisEyes  Axis = "eyes"
	AxisHair  Axis = "hair"
)

var AllAxes = []Axis{AxisBuild, AxisSkin, AxisEyes, AxisHair}

var axisOptions = map[Axis][]string{
	AxisBuild: {"a sleek, futuristic build", "a muscular, powerful build", "an androgynous, slender build", "an enhanced, cybernetic build"},
	AxisSkin:  {"natural terran fleshtone skin", "bioluminescent blue skin", "metallic silver skin", "matte carbon black skin"},
	AxisEyes:  {"normal human blue eyes", "glowing starlight gold eyes", "cybernetic red eyes", "deep galactic purple eyes"},
	AxisHair:  {"long, flowing hair as if in zero-g", "a chrome dome (bald)", "a bright neon mohawk", "a classic, simple haircut"},
}

var axisTitles = map[Axis]string{
	AxisBuild: "Base Model",
	AxisSkin:  "Integument (Skin)",
	AxisEyes:  "Ocular System",
	AxisHair:  "Cranial Foliage",
}

// ErrUnknownOption is returned when a design value is outside its axis enumeration.
var ErrUnknownOption = errors.New("unknown avatar option")

// Generic helpers
func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func (t PriceTier) Validate() bool { return contains(AllPriceTiers, t) }
func (a Axis) Validate() bool      { return contains(AllAxes, a) }

// Title is the heading shown above the axis selector.
func (a Axis) Title() string { return axisTitles[a] }

// List helpers
func ListPriceTiers() []PriceTier { return append([]PriceTier{}, AllPriceTiers...) }
func ListAxes() []Axis            { return append([]Axis{}, AllAxes...) }

// OptionsFor returns a copy of the fixed option list for an axis.
func OptionsFor(a Axis) []string { return append([]string{}, axisOptions[a]...) }

// ShortLabel keeps the first two words of an option for compact selectors.
func ShortLabel(option string) string {
	words := strings.Fields(option)
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " ")
}
