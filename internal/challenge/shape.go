package challenge

import "math/rand"

// Shape is the glyph drawn in a grid cell.
type Shape string

const (
	Triangle Shape = "triangle"
	Square   Shape = "square"
	Circle   Shape = "circle"
)

// Color is the fill of a glyph.
type Color string

const (
	Red   Color = "red"
	Green Color = "green"
	Blue  Color = "blue"
)

var (
	shapes = []Shape{Triangle, Square, Circle}
	colors = []Color{Red, Green, Blue}
)

// PickShape returns a uniformly random shape.
func PickShape(rng *rand.Rand) Shape {
	return shapes[rng.Intn(len(shapes))]
}

// PickColor returns a uniformly random color.
func PickColor(rng *rand.Rand) Color {
	return colors[rng.Intn(len(colors))]
}

// DefaultColor is the fixed fill used when colors are not part of the
// challenge.
func DefaultColor(s Shape) Color {
	switch s {
	case Triangle:
		return Red
	case Square:
		return Blue
	case Circle:
		return Green
	}
	return ""
}
