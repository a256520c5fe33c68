package sim

import "time"

const (
	SimHz  = 60 // server tick rate
	Dt     = 1.0 / SimHz
	WorldW = 1000.0 // map units
	WorldH = 1000.0

	OrganismSpeed    = 40.0 // units/s
	OrganismTurnRate = 2.5  // max radians/s of random heading drift
	OrganismRadius   = 12.0
	OrganismEnergy   = 100.0
	EnergyDecayPerS  = 0.8

	PlantSize         = 14.0
	PlantSpreadChance = 0.002 // per plant per tick
	PlantSpreadReach  = 40.0  // max offset of a sprouted copy
	PlantMinSpacing   = 18.0  // sprouting is suppressed closer than this
	MaxObjects        = 600   // hard cap on the object table; spreading stops at it
)

// TickInterval is the wall-clock duration of one simulation tick. Observers
// derive their redraw period from it.
const TickInterval = time.Second / SimHz
