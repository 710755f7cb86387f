// Package element defines the cell kinds of the falling-sand medium and the
// per-kind movement rules.
package element

import (
	"fmt"
	"strings"
)

// Kind enumerates the element types a cell can hold.
type Kind uint8

const (
	Vacuum Kind = iota
	Sand
	Stone
	Water
	Lava
	SolarPlasma
	DownFlier
	LeftFlier
	RightFlier

	// NumKinds is the number of defined kinds.
	NumKinds = int(RightFlier) + 1
)

var kindNames = [NumKinds]string{
	Vacuum:      "vacuum",
	Sand:        "sand",
	Stone:       "stone",
	Water:       "water",
	Lava:        "lava",
	SolarPlasma: "solar_plasma",
	DownFlier:   "down_flier",
	LeftFlier:   "left_flier",
	RightFlier:  "right_flier",
}

func (k Kind) String() string {
	if int(k) < NumKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is a defined kind.
func (k Kind) Valid() bool { return int(k) < NumKinds }

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, NumKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind resolves a kind by name, ignoring case.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return Vacuum, fmt.Errorf("unknown element %q", name)
}

// State is the state of matter. Heavier states displace lighter ones.
type State uint8

const (
	Empty State = iota
	Gas
	Liquid
	Solid
)

// State returns the state of matter of k.
func (k Kind) State() State {
	switch k {
	case Vacuum:
		return Empty
	case SolarPlasma:
		return Gas
	case Water, Lava:
		return Liquid
	default:
		return Solid
	}
}

// Density is the mass per unit cell area.
func (k Kind) Density() float64 {
	switch k {
	case Vacuum:
		return 0
	case Sand:
		return 1.6
	case Stone:
		return 2.6
	case Water:
		return 1
	case Lava:
		return 3.1
	case SolarPlasma:
		return 0.2
	default:
		return 1
	}
}

// DefaultHeat is the temperature in kelvin a freshly placed cell starts at.
func (k Kind) DefaultHeat() float32 {
	switch k {
	case Vacuum:
		return 0
	case Lava:
		return 1500
	case SolarPlasma:
		return 5800
	default:
		return RoomTemperature
	}
}

// RoomTemperature in kelvin.
const RoomTemperature = 293.15

// Cell is one simulation unit. LastProcessed holds the tick the cell last
// moved or updated in so it is not processed twice in one tick.
type Cell struct {
	Kind          Kind
	Heat          float32
	LastProcessed uint64
}

// New returns a cell of kind k at its default temperature.
func New(k Kind) Cell {
	return Cell{Kind: k, Heat: k.DefaultHeat()}
}
