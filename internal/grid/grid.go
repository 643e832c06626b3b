package grid

const (
	DefaultWidth  = 15
	DefaultHeight = 13
)

// Grid is a flat tile array indexed by y*Width+x.
type Grid struct {
	Width  int
	Height int
	Cells  []Tile
}

func New(width, height int) *Grid {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Grid{Width: width, Height: height, Cells: make([]Tile, width*height)}
}

// FromCells wraps an existing tile slice without copying it.
func FromCells(width, height int, cells []Tile) *Grid {
	return &Grid{Width: width, Height: height, Cells: cells}
}

func (g *Grid) Index(p Pos) int { return p.Y*g.Width + p.X }

func (g *Grid) PosOf(i int) Pos { return Pos{X: i % g.Width, Y: i / g.Width} }

func (g *Grid) InBounds(p Pos) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// At returns HardWall for out-of-bounds positions.
func (g *Grid) At(p Pos) Tile {
	if !g.InBounds(p) {
		return HardWall
	}
	return g.Cells[g.Index(p)]
}

func (g *Grid) Set(p Pos, t Tile) {
	if g.InBounds(p) {
		g.Cells[g.Index(p)] = t
	}
}

func (g *Grid) IsBorder(p Pos) bool {
	return p.X == 0 || p.Y == 0 || p.X == g.Width-1 || p.Y == g.Height-1
}

// IsPillar reports whether p is an interior cell at even (x, y).
func (g *Grid) IsPillar(p Pos) bool {
	return !g.IsBorder(p) && p.X%2 == 0 && p.Y%2 == 0
}

func (g *Grid) Center() Pos { return Pos{X: g.Width / 2, Y: g.Height / 2} }

func (g *Grid) Walkable(p Pos) bool { return g.InBounds(p) && g.At(p).Walkable() }

func (g *Grid) Clone() *Grid {
	cells := make([]Tile, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{Width: g.Width, Height: g.Height, Cells: cells}
}

// SpawnCorners returns the four player spawn cells.
func (g *Grid) SpawnCorners() [4]Pos {
	return [4]Pos{
		{X: 1, Y: 1},
		{X: g.Width - 2, Y: 1},
		{X: 1, Y: g.Height - 2},
		{X: g.Width - 2, Y: g.Height - 2},
	}
}
