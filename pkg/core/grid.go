package core

// Grid stores a toroidal 2D grid of cell values in row-major order. Every value
// written through Set or Fill is checked against the grid's StateSet.
type Grid[C comparable] struct {
	W, H   int
	data   []C
	states *StateSet[C]
}

// NewGrid allocates a grid with the given dimensions filled with the null state.
func NewGrid[C comparable](w, h int, states *StateSet[C]) *Grid[C] {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	g := &Grid[C]{W: w, H: h, data: make([]C, w*h), states: states}
	g.Clear()
	return g
}

// Cells exposes the backing slice so rules can read/write values directly.
func (g *Grid[C]) Cells() []C { return g.data }

// States returns the set of values this grid accepts.
func (g *Grid[C]) States() *StateSet[C] { return g.states }

// Size reports the grid dimensions.
func (g *Grid[C]) Size() Size { return Size{W: g.W, H: g.H} }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid[C]) Index(x, y int) int { return y*g.W + x }

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *Grid[C]) Wrap(x, y int) (int, int) {
	x = (x%g.W + g.W) % g.W
	y = (y%g.H + g.H) % g.H
	return x, y
}

// InBounds reports whether (x, y) addresses a cell without wrapping.
func (g *Grid[C]) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// Get returns the cell at (x, y) after wrapping.
func (g *Grid[C]) Get(x, y int) C {
	x, y = g.Wrap(x, y)
	return g.data[y*g.W+x]
}

// Set stores v at (x, y) after wrapping. Values outside the declared state set
// are rejected with ErrInvalidCellValue and leave the grid untouched.
func (g *Grid[C]) Set(x, y int, v C) error {
	if !g.states.Contains(v) {
		return &CellValueError{X: x, Y: y, Value: v}
	}
	x, y = g.Wrap(x, y)
	g.data[y*g.W+x] = v
	return nil
}

// Neighbors8 returns the Moore neighbourhood of (x, y), row by row, skipping the
// centre cell.
func (g *Grid[C]) Neighbors8(x, y int) [8]C {
	var out [8]C
	n := 0
	for dy := -1; dy <= 1; dy++ {
		ny := ((y+dy)%g.H + g.H) % g.H
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx := ((x+dx)%g.W + g.W) % g.W
			out[n] = g.data[ny*g.W+nx]
			n++
		}
	}
	return out
}

// Fill replaces every cell with v.
func (g *Grid[C]) Fill(v C) error {
	if !g.states.Contains(v) {
		return &CellValueError{X: -1, Y: -1, Value: v}
	}
	for i := range g.data {
		g.data[i] = v
	}
	return nil
}

// Clear fills the grid with the null state.
func (g *Grid[C]) Clear() {
	null := g.states.Null()
	for i := range g.data {
		g.data[i] = null
	}
}

// Blank returns a grid with the same shape and states, filled with the null state.
func (g *Grid[C]) Blank() *Grid[C] {
	return NewGrid(g.W, g.H, g.states)
}

// Clone returns a deep copy of the grid.
func (g *Grid[C]) Clone() *Grid[C] {
	out := &Grid[C]{W: g.W, H: g.H, data: make([]C, len(g.data)), states: g.states}
	copy(out.data, g.data)
	return out
}

// Count returns how many cells hold v.
func (g *Grid[C]) Count(v C) int {
	n := 0
	for _, c := range g.data {
		if c == v {
			n++
		}
	}
	return n
}

// Occupied returns how many cells hold something other than the null state.
func (g *Grid[C]) Occupied() int {
	return len(g.data) - g.Count(g.states.Null())
}

// Equal reports whether both grids have the same shape and cells.
func (g *Grid[C]) Equal(o *Grid[C]) bool {
	if o == nil || g.W != o.W || g.H != o.H {
		return false
	}
	for i, c := range g.data {
		if o.data[i] != c {
			return false
		}
	}
	return true
}
