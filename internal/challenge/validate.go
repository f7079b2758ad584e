package challenge

import "github.com/zyedidia/generic/mapset"

// Target is what the user has to find. An empty Color matches any color.
type Target struct {
	Shape Shape `json:"shape"`
	Color Color `json:"color,omitempty"`
}

// Matches reports whether c carries the target glyph.
func (t Target) Matches(c Cell) bool {
	if !c.HasShape || c.Shape != t.Shape {
		return false
	}
	return t.Color == "" || c.Color == t.Color
}

// Validate reports whether the selected cells are exactly the matching
// cells. It stops at the first cell where the two disagree.
func Validate(g *Grid, t Target) bool {
	for _, c := range g.Cells {
		if c.Selected != t.Matches(c) {
			return false
		}
	}
	return true
}

// MatchingIDs returns the ids of every cell that matches t.
func MatchingIDs(g *Grid, t Target) mapset.Set[int] {
	ids := mapset.New[int]()
	for _, c := range g.Cells {
		if t.Matches(c) {
			ids.Put(c.ID)
		}
	}
	return ids
}
