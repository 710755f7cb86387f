package element

import "polar-sand/internal/geometry"

// Lava turns to stone below LavaSolidifyHeat. The core has no heat transport,
// so lava only loses LavaCoolingPerTick each tick it is processed.
const (
	LavaSolidifyHeat   = 1000
	LavaCoolingPerTick = 0.5
)

// Neighborhood is the part of the grid a rule may inspect. Get reports false
// for cells that are not currently reachable; rules treat those as walls.
type Neighborhood interface {
	Get(geometry.IJK) (Cell, bool)
	Below(geometry.IJK) (geometry.IJK, bool)
	Left(geometry.IJK) geometry.IJK
	Right(geometry.IJK) geometry.IJK
}

// Action is what the stepper should do with a processed cell.
type Action uint8

const (
	// Keep leaves the (possibly updated) cell in place.
	Keep Action = iota
	// Move swaps the cell with the one at Outcome.Target.
	Move
	// Become replaces the cell's kind with Outcome.Into.
	Become
)

// Outcome is the result of Step.
type Outcome struct {
	Action Action
	Target geometry.IJK
	Into   Kind
}

// Step applies the rule of c's kind at pos. It may update c's heat in place;
// the caller writes c back according to the outcome. coin breaks left/right
// ties.
func Step(n Neighborhood, pos geometry.IJK, c *Cell, coin bool) Outcome {
	switch c.Kind {
	case Sand:
		return fall(n, pos, c.Kind, coin, true)
	case Water, SolarPlasma:
		return fall(n, pos, c.Kind, coin, false)
	case Lava:
		c.Heat -= LavaCoolingPerTick
		if c.Heat < LavaSolidifyHeat {
			return Outcome{Action: Become, Into: Stone}
		}
		return fall(n, pos, c.Kind, coin, false)
	case DownFlier:
		if below, ok := n.Below(pos); ok {
			return flyInto(n, below)
		}
		return Outcome{}
	case LeftFlier:
		return flyInto(n, n.Left(pos))
	case RightFlier:
		return flyInto(n, n.Right(pos))
	default:
		return Outcome{}
	}
}

// displaces reports whether kind k may swap into the cell at p.
func displaces(n Neighborhood, k Kind, p geometry.IJK) bool {
	other, ok := n.Get(p)
	return ok && other.Kind.State() < k.State()
}

// fall moves a cell one ring down if it can. Otherwise granular kinds try one
// of the two cells diagonally below and fluids one of the two cells beside
// them, picked by coin; when only one side is reachable that side is used.
func fall(n Neighborhood, pos geometry.IJK, k Kind, coin, granular bool) Outcome {
	below, ok := n.Below(pos)
	if !ok {
		return Outcome{}
	}
	if _, ok := n.Get(below); !ok {
		return Outcome{}
	}
	if displaces(n, k, below) {
		return Outcome{Action: Move, Target: below}
	}

	origin := pos
	if granular {
		origin = below
	}
	left, right := n.Left(origin), n.Right(origin)
	_, leftOK := n.Get(left)
	_, rightOK := n.Get(right)

	var target geometry.IJK
	switch {
	case leftOK && rightOK && coin:
		target = right
	case leftOK:
		target = left
	case rightOK:
		target = right
	default:
		return Outcome{}
	}
	if displaces(n, k, target) {
		return Outcome{Action: Move, Target: target}
	}
	return Outcome{}
}

func flyInto(n Neighborhood, target geometry.IJK) Outcome {
	if other, ok := n.Get(target); ok && other.Kind == Vacuum {
		return Outcome{Action: Move, Target: target}
	}
	return Outcome{}
}
