package grid

type Pos struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

func (a Pos) Add(b Pos) Pos { return Pos{a.X + b.X, a.Y + b.Y} }
func (a Pos) Sub(b Pos) Pos { return Pos{a.X - b.X, a.Y - b.Y} }

func (a Pos) Manhattan(b Pos) int { return abs(a.X-b.X) + abs(a.Y-b.Y) }

func (a Pos) Step(d Direction) Pos { return a.Add(d.Delta()) }

// Aligned reports whether a and b share a row or a column.
func (a Pos) Aligned(b Pos) bool { return a.X == b.X || a.Y == b.Y }

type Direction int

const (
	None Direction = iota
	Up
	Down
	Left
	Right
)

// Directions lists the four movement directions in a fixed order.
var Directions = [4]Direction{Up, Down, Left, Right}

func (d Direction) Delta() Pos {
	switch d {
	case Up:
		return Pos{0, -1}
	case Down:
		return Pos{0, 1}
	case Left:
		return Pos{-1, 0}
	case Right:
		return Pos{1, 0}
	}
	return Pos{}
}

func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return None
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
