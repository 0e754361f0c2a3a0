package board

// Direction is the direction the blank square moves in; equivalently, the
// adjacent tile slides the opposite way.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// AllDirections is the canonical move ordering. The solver expands children
// in this order, which keeps solutions deterministic for a given board.
var AllDirections = [4]Direction{Up, Down, Left, Right}

// Opposite returns the direction that undoes d.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	}
	return Left
}

// Opposes returns true if o undoes d.
func (d Direction) Opposes(o Direction) bool {
	return d.Opposite() == o
}

// delta is the offset d adds to the blank's linear position.
func (d Direction) delta() int {
	switch d {
	case Up:
		return -Dim
	case Down:
		return Dim
	case Left:
		return -1
	}
	return 1
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	}
	return "Unknown"
}
