package geom

// Direction is one of the four screen directions.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// ParseDirection maps "up", "right", "down" and "left" to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return Up, true
	case "right":
		return Right, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	}
	return Up, false
}

// Opposite returns the opposite direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Right:
		return Left
	case Down:
		return Up
	case Left:
		return Right
	default:
		return d
	}
}

// Unit returns the unit vector pointing in d. Up is negative Y.
func (d Direction) Unit() Vector {
	switch d {
	case Up:
		return Vector{DY: -1}
	case Right:
		return Vector{DX: 1}
	case Down:
		return Vector{DY: 1}
	case Left:
		return Vector{DX: -1}
	default:
		return Vector{}
	}
}

// Horizontal reports whether d is Left or Right.
func (d Direction) Horizontal() bool { return d == Left || d == Right }
