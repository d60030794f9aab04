package core

import (
	"errors"
	"testing"
)

func TestGetWrapsCoordinates(t *testing.T) {
	g := NewGrid(4, 3, Digits(3))
	if err := g.Set(3, 2, 2); err != nil {
		t.Fatalf("Set: %v", err)
	}
	cases := [][2]int{{3, 2}, {-1, -1}, {7, 5}, {-5, 2}}
	for _, c := range cases {
		if got := g.Get(c[0], c[1]); got != 2 {
			t.Fatalf("Get(%d,%d) = %d, want 2", c[0], c[1], got)
		}
	}
}

func TestSetRejectsUndeclaredValue(t *testing.T) {
	g := NewGrid(2, 2, Digits(2))
	err := g.Set(1, 1, 5)
	if !errors.Is(err, ErrInvalidCellValue) {
		t.Fatalf("Set error = %v, want ErrInvalidCellValue", err)
	}
	var cerr *CellValueError
	if !errors.As(err, &cerr) || cerr.X != 1 || cerr.Y != 1 {
		t.Fatalf("error = %#v, want position (1,1)", err)
	}
	if g.Occupied() != 0 {
		t.Fatal("rejected Set must leave the grid untouched")
	}
}

func TestNeighbors8WrapsAtCorner(t *testing.T) {
	g := NewGrid(3, 3, Digits(10))
	for i := range g.Cells() {
		g.Cells()[i] = uint8(i)
	}
	// Around (0,0) on a 3x3 torus every other cell is a neighbour.
	got := g.Neighbors8(0, 0)
	want := [8]uint8{8, 6, 7, 2, 1, 5, 3, 4}
	if got != want {
		t.Fatalf("Neighbors8(0,0) = %v, want %v", got, want)
	}
}

func TestFillAndClear(t *testing.T) {
	g := NewGrid(3, 2, Digits(3))
	if err := g.Fill(2); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if g.Count(2) != 6 {
		t.Fatalf("Count(2) = %d, want 6", g.Count(2))
	}
	if err := g.Fill(9); !errors.Is(err, ErrInvalidCellValue) {
		t.Fatalf("Fill(9) error = %v", err)
	}
	g.Clear()
	if g.Occupied() != 0 {
		t.Fatalf("Occupied after Clear = %d", g.Occupied())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := NewGrid(2, 2, Digits(2))
	c := g.Clone()
	c.Set(0, 0, 1)
	if g.Get(0, 0) != 0 || g.Equal(c) {
		t.Fatal("Clone must not share storage")
	}
}

func TestNewGridClampsDimensions(t *testing.T) {
	g := NewGrid(0, -3, Digits(2))
	if g.Size() != (Size{W: 1, H: 1}) {
		t.Fatalf("size = %+v, want 1x1", g.Size())
	}
}
