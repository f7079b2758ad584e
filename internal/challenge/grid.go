package challenge

import (
	"fmt"
	"math/rand"
)

// Cell is one square of the selection grid. Shape and Color are empty
// unless HasShape is set.
type Cell struct {
	ID       int    `json:"id"`
	HasShape bool   `json:"hasShape"`
	Shape    Shape  `json:"shape,omitempty"`
	Color    Color  `json:"color,omitempty"`
	Selected bool   `json:"selected"`
	Label    string `json:"label"`
}

// Grid is a row-major sequence of cells.
type Grid struct {
	Rows, Cols int
	Cells      []Cell
}

// BuildGrid fills rows*cols cells. Presence, shape and color are drawn
// independently per cell, so nothing guarantees a match exists.
func BuildGrid(rng *rand.Rand, rows, cols int, chance float64, withColor bool) *Grid {
	g := &Grid{Rows: rows, Cols: cols, Cells: make([]Cell, rows*cols)}
	for i := range g.Cells {
		c := Cell{ID: i, Label: cellLabel(i, cols)}
		if rng.Float64() < chance {
			c.HasShape = true
			c.Shape = PickShape(rng)
			if withColor {
				c.Color = PickColor(rng)
			} else {
				c.Color = DefaultColor(c.Shape)
			}
		}
		g.Cells[i] = c
	}
	return g
}

// cellLabel names a cell the spreadsheet way: column letter, 1-based row.
func cellLabel(id, cols int) string {
	return fmt.Sprintf("%c%d", 'A'+id%cols, id/cols+1)
}

func (g *Grid) cell(id int) (*Cell, error) {
	if id < 0 || id >= len(g.Cells) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCell, id)
	}
	return &g.Cells[id], nil
}

// Toggle flips the selection of exactly one cell.
func (g *Grid) Toggle(id int) error {
	c, err := g.cell(id)
	if err != nil {
		return err
	}
	c.Selected = !c.Selected
	return nil
}

// SetSelection selects exactly the given cells. Nothing changes if any
// id is out of range.
func (g *Grid) SetSelection(ids []int) error {
	for _, id := range ids {
		if _, err := g.cell(id); err != nil {
			return err
		}
	}
	for i := range g.Cells {
		g.Cells[i].Selected = false
	}
	for _, id := range ids {
		g.Cells[id].Selected = true
	}
	return nil
}

// Labels lists every cell label in grid order.
func (g *Grid) Labels() []string {
	out := make([]string, len(g.Cells))
	for i, c := range g.Cells {
		out[i] = c.Label
	}
	return out
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	cp := &Grid{Rows: g.Rows, Cols: g.Cols, Cells: make([]Cell, len(g.Cells))}
	copy(cp.Cells, g.Cells)
	return cp
}
