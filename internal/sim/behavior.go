package sim

import (
	"math"

	"EvoScope/internal/geometry"
	"EvoScope/internal/protocol"
)

// Wander moves an organism at constant speed while its heading drifts
// randomly, bouncing off the world edges. Energy decays every tick; an
// organism that runs out is removed from the world.
type Wander struct{}

func (Wander) Step(w *World, id protocol.ObjectID, state protocol.ObjectState) protocol.ObjectState {
	state.Energy -= EnergyDecayPerS * Dt
	if state.Energy <= 0 {
		w.QueueRemove(id)
		return state
	}

	state.Rotation += (w.rng.Float64()*2 - 1) * OrganismTurnRate * Dt
	state.Rotation = normalizeAngle(state.Rotation)

	step := geometry.Point{X: OrganismSpeed * Dt}.Rotate(state.Rotation)
	next := state.Location.Add(step)

	if next.X < OrganismRadius || next.X > w.Width-OrganismRadius {
		state.Rotation = normalizeAngle(math.Pi - state.Rotation)
		next.X = geometry.Clamp(next.X, OrganismRadius, w.Width-OrganismRadius)
	}
	if next.Y < OrganismRadius || next.Y > w.Height-OrganismRadius {
		state.Rotation = normalizeAngle(-state.Rotation)
		next.Y = geometry.Clamp(next.Y, OrganismRadius, w.Height-OrganismRadius)
	}
	state.Location = next
	return state
}

// Spread is the plant behavior: each tick the plant sprouts a copy of itself
// nearby with a small probability, as long as the patch is not already
// crowded and the world's object budget is not exhausted.
type Spread struct{}

func (Spread) Step(w *World, id protocol.ObjectID, state protocol.ObjectState) protocol.ObjectState {
	if w.rng.Float64() >= PlantSpreadChance {
		return state
	}
	if len(w.objects)+len(w.spawns) >= MaxObjects {
		return state
	}

	angle := w.rng.Float64() * 2 * math.Pi
	reach := PlantMinSpacing + w.rng.Float64()*(PlantSpreadReach-PlantMinSpacing)
	loc := state.Location.Add(geometry.Point{X: reach}.Rotate(angle))
	loc.X = geometry.Clamp(loc.X, PlantSize, w.Width-PlantSize)
	loc.Y = geometry.Clamp(loc.Y, PlantSize, w.Height-PlantSize)

	if w.neighborWithin(protocol.KindPlant, loc, PlantMinSpacing, id) {
		return state
	}

	w.QueueSpawn(protocol.ObjectState{
		Kind:     protocol.KindPlant,
		Shape:    state.Shape,
		Location: loc,
		Rotation: w.rng.Float64() * 2 * math.Pi,
	}, Spread{})
	return state
}

func normalizeAngle(rad float64) float64 {
	rad = math.Mod(rad, 2*math.Pi)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	return rad
}
