package physics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/gravbox/internal/dynamo"
)

// Tag classifies a body for collision reporting and serialization.
// The numeric values are part of the record format.
type Tag int

const (
	TagEmpty             Tag = -1
	TagBlackHole         Tag = 0
	TagStar              Tag = 1
	TagGasPlanet         Tag = 2
	TagTerrestrialPlanet Tag = 3
	TagDwarfPlanet       Tag = 4
	TagComet             Tag = 5
)

func (t Tag) String() string {
	switch t {
	case TagEmpty:
		return "empty"
	case TagBlackHole:
		return "black_hole"
	case TagStar:
		return "star"
	case TagGasPlanet:
		return "gas_planet"
	case TagTerrestrialPlanet:
		return "terrestrial_planet"
	case TagDwarfPlanet:
		return "dwarf_planet"
	case TagComet:
		return "comet"
	default:
		return fmt.Sprintf("tag(%d)", int(t))
	}
}

// Style is how a kind is painted: fill plus outline.
type Style struct {
	Fill   dynamo.Color
	Stroke dynamo.Color
}

// Kind carries everything that differs between body variants. All kinds
// share the same update and impact rules.
type Kind struct {
	Name   string
	Tag    Tag
	Mass   float64
	Radius float64
	Style  Style
}

var (
	Star = Kind{
		Name: "star", Tag: TagStar, Mass: 10000, Radius: 40,
		Style: Style{Fill: dynamo.White, Stroke: dynamo.White},
	}
	Planet = Kind{
		Name: "planet", Tag: TagTerrestrialPlanet, Mass: 4, Radius: 4,
		Style: Style{Fill: dynamo.Orange, Stroke: dynamo.Orange},
	}
	// BlackHole carries the infinite-mass sentinel. Any impact involving
	// one collapses both participants into a fresh black hole.
	BlackHole = Kind{
		Name: "black_hole", Tag: TagBlackHole, Mass: math.Inf(1), Radius: 10,
		Style: Style{Fill: dynamo.Black, Stroke: dynamo.White},
	}
	GasPlanet = Kind{
		Name: "gas_planet", Tag: TagGasPlanet, Mass: 40, Radius: 12,
		Style: Style{Fill: "#d2b48c", Stroke: "#c08040"},
	}
	DwarfPlanet = Kind{
		Name: "dwarf_planet", Tag: TagDwarfPlanet, Mass: 1, Radius: 2,
		Style: Style{Fill: "#a0a0a0", Stroke: "#a0a0a0"},
	}
	Comet = Kind{
		Name: "comet", Tag: TagComet, Mass: 0.5, Radius: 1.5,
		Style: Style{Fill: "#00ffff", Stroke: "#ffffff"},
	}
)

var kinds = []Kind{BlackHole, Star, GasPlanet, Planet, DwarfPlanet, Comet}

// KindForTag maps a classification tag back to its variant.
func KindForTag(tag Tag) (Kind, bool) {
	for _, k := range kinds {
		if k.Tag == tag {
			return k, true
		}
	}
	return Kind{}, false
}

// KindByName resolves a kind from its name; "terrestrial_planet" is an
// alias for planet.
func KindByName(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "terrestrial_planet" {
		return Planet, true
	}
	for _, k := range kinds {
		if k.Name == name {
			return k, true
		}
	}
	return Kind{}, false
}

func KindNames() []string {
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.Name)
	}
	sort.Strings(names)
	return names
}
