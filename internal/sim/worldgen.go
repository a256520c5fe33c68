package sim

import (
	"math"

	"EvoScope/internal/geometry"
	"EvoScope/internal/protocol"
)

// GenOptions controls the hardcoded world layout.
type GenOptions struct {
	Organisms int
	Plants    int
}

func DefaultGenOptions() GenOptions {
	return GenOptions{Organisms: 12, Plants: 40}
}

var organismNames = []string{
	"amara", "bjornar", "cassius", "delia", "edda", "fenn", "gunvor",
	"halvar", "ilka", "jorun", "kelda", "lumi", "marit", "njord",
	"ottar", "petra", "quill", "runa", "sigrun", "tove", "ulf",
	"vesla", "wren", "ylva", "zev",
}

// Populate fills an empty world with the hardcoded layout: a terrain rim,
// a lake in the upper-left quadrant, plant clusters, and named organisms.
func Populate(w *World, opts GenOptions) {
	// Terrain rim along all four edges.
	rim := 20.0
	addStatic(w, protocol.KindTerrain, geometry.Rect(w.Width, rim), geometry.Point{X: w.Width / 2, Y: rim / 2})
	addStatic(w, protocol.KindTerrain, geometry.Rect(w.Width, rim), geometry.Point{X: w.Width / 2, Y: w.Height - rim/2})
	addStatic(w, protocol.KindTerrain, geometry.Rect(rim, w.Height), geometry.Point{X: rim / 2, Y: w.Height / 2})
	addStatic(w, protocol.KindTerrain, geometry.Rect(rim, w.Height), geometry.Point{X: w.Width - rim/2, Y: w.Height / 2})

	// One lake.
	addStatic(w, protocol.KindWater, geometry.RegularPolygon(8, w.Width*0.12),
		geometry.Point{X: w.Width * 0.28, Y: w.Height * 0.3})

	names := w.shuffledNames()
	for i := 0; i < opts.Organisms; i++ {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		w.Add(protocol.ObjectState{
			Kind:     protocol.KindOrganism,
			Shape:    geometry.RegularPolygon(3, OrganismRadius),
			Location: w.randomSpot(OrganismRadius),
			Rotation: w.rng.Float64() * 2 * math.Pi,
			Name:     name,
			Energy:   OrganismEnergy,
		}, Wander{})
	}

	for i := 0; i < opts.Plants; i++ {
		w.Add(protocol.ObjectState{
			Kind:     protocol.KindPlant,
			Shape:    geometry.RegularPolygon(6, PlantSize/2),
			Location: w.randomSpot(PlantSize),
			Rotation: w.rng.Float64() * 2 * math.Pi,
		}, Spread{})
	}
}

func addStatic(w *World, kind protocol.Kind, shape geometry.Polygon, loc geometry.Point) {
	w.Add(protocol.ObjectState{Kind: kind, Shape: shape, Location: loc}, nil)
}

func (w *World) randomSpot(margin float64) geometry.Point {
	return geometry.Point{
		X: margin + w.rng.Float64()*(w.Width-2*margin),
		Y: margin + w.rng.Float64()*(w.Height-2*margin),
	}
}

// shuffledNames returns the organism name pool in a seed-dependent order, so
// the same seed always names the same organisms.
func (w *World) shuffledNames() []string {
	names := append([]string(nil), organismNames...)
	w.rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	return names
}
