package persist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"torus-ca/pkg/core"
)

// Parse builds a grid from text lines. The first line fixes the width; every
// line must have the same length, consist of digits only and decode to values
// in states. Trailing empty lines are ignored.
func Parse[C comparable](lines []string, codec Codec[C], states *core.StateSet[C]) (*core.Grid[C], error) {
	rows := trimTrailingEmpty(lines)
	if len(rows) == 0 {
		return nil, &core.MalformedError{Line: 1, Reason: "no rows"}
	}
	cw := codec.CellWidth()
	width := len(rows[0])
	if width == 0 || width%cw != 0 {
		return nil, &core.MalformedError{Line: 1, Reason: fmt.Sprintf("length %d is not a multiple of %d", width, cw)}
	}

	g := core.NewGrid(width/cw, len(rows), states)
	cells := g.Cells()
	for y, row := range rows {
		line := y + 1
		if len(row) != width {
			return nil, &core.MalformedError{Line: line, Reason: fmt.Sprintf("length %d, want %d", len(row), width)}
		}
		if !isDigits(row) {
			return nil, &core.MalformedError{Line: line, Reason: "non-digit character"}
		}
		for x := 0; x < g.W; x++ {
			field := row[x*cw : (x+1)*cw]
			c, ok := codec.Decode(field)
			if !ok || !states.Contains(c) {
				return nil, &core.MalformedError{Line: line, Reason: fmt.Sprintf("cell %d: out-of-range value %q", x, field)}
			}
			cells[g.Index(x, y)] = c
		}
	}
	return g, nil
}

// Lines renders the grid, one string per row. It is the inverse of Parse.
func Lines[C comparable](g *core.Grid[C], codec Codec[C]) []string {
	out := make([]string, g.H)
	cells := g.Cells()
	var b strings.Builder
	for y := 0; y < g.H; y++ {
		b.Reset()
		b.Grow(g.W * codec.CellWidth())
		for x := 0; x < g.W; x++ {
			b.WriteString(codec.Encode(cells[g.Index(x, y)]))
		}
		out[y] = b.String()
	}
	return out
}

// Read parses a grid from r.
func Read[C comparable](r io.Reader, codec Codec[C], states *core.StateSet[C]) (*core.Grid[C], error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read grid: %w", err)
	}
	return Parse(lines, codec, states)
}

// Load parses the grid file at path.
func Load[C comparable](path string, codec Codec[C], states *core.StateSet[C]) (*core.Grid[C], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := Read(f, codec, states)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Write renders the grid to w with a newline after every row.
func Write[C comparable](w io.Writer, g *core.Grid[C], codec Codec[C]) error {
	bw := bufio.NewWriter(w)
	for _, line := range Lines(g, codec) {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes the grid to path, replacing any existing file.
func Save[C comparable](path string, g *core.Grid[C], codec Codec[C]) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, g, codec); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func trimTrailingEmpty(lines []string) []string {
	end := len(lines)
	for end > 0 && lines[end-1] == "" {
		end--
	}
	return lines[:end]
}
