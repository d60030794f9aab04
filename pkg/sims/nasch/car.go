package nasch

import (
	"fmt"

	"torus-ca/pkg/core"
)

// Direction is the heading of a car. The numeric values are the ones written
// to grid files.
type Direction uint8

const (
	None Direction = iota
	East
	South
	West
	North
)

// Directions lists the four headings in file order.
var Directions = [...]Direction{East, South, West, North}

func (d Direction) String() string {
	switch d {
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	case North:
		return "north"
	default:
		return "none"
	}
}

// Delta returns the unit offset for one cell of travel.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	case North:
		return 0, -1
	}
	return 0, 0
}

// Horizontal reports whether the car travels along a row.
func (d Direction) Horizontal() bool { return d == East || d == West }

// Car is the content of a cell. The zero value is Empty.
type Car struct {
	Speed uint8
	Dir   Direction
}

// Empty marks a cell without a car.
var Empty = Car{}

func (c Car) String() string {
	if c == Empty {
		return "empty"
	}
	return fmt.Sprintf("%s@%d", c.Dir, c.Speed)
}

// MaxVmax is the largest speed that still fits the one-digit file encoding.
const MaxVmax = 9

// StateSet declares Empty followed by every (direction, speed) pair, grouped
// by direction in file order and by ascending speed within a direction.
func StateSet(vmax int) *core.StateSet[Car] {
	vals := make([]Car, 0, 1+len(Directions)*(vmax+1))
	vals = append(vals, Empty)
	for _, d := range Directions {
		for v := 0; v <= vmax; v++ {
			vals = append(vals, Car{Speed: uint8(v), Dir: d})
		}
	}
	return core.NewStateSet(vals...)
}

// Codec encodes a car as two digits: speed then direction. Empty is "00".
type Codec struct{}

// CellWidth implements persist.Codec.
func (Codec) CellWidth() int { return 2 }

// Encode implements persist.Codec.
func (Codec) Encode(c Car) string {
	return string([]byte{'0' + c.Speed%10, '0' + byte(c.Dir)%10})
}

// Decode implements persist.Codec.
func (Codec) Decode(s string) (Car, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return Empty, false
	}
	c := Car{Speed: s[0] - '0', Dir: Direction(s[1] - '0')}
	if c.Dir == None {
		return Empty, c.Speed == 0
	}
	if c.Dir > North {
		return Empty, false
	}
	return c, true
}
