package entity

import "crawl_core/internal/grid"

// Bomb is an in-flight bomb as seen by the core: position and blast range.
type Bomb struct {
	ID        string   `json:"id"`
	OwnerID   string   `json:"owner_id"`
	Pos       grid.Pos `json:"pos"`
	Range     int      `json:"range"`
	PlacedAt  float64  `json:"placed_at"`
	ExplodeAt float64  `json:"explode_at"`
}

type Bombs []Bomb

func (bs Bombs) At(pos grid.Pos) bool {
	for i := range bs {
		if bs[i].Pos == pos {
			return true
		}
	}
	return false
}

// BlastCells walks the cross-shaped blast of b over g. Propagation stops at
// hard walls and includes, then stops at, the first soft block.
func BlastCells(g *grid.Grid, b Bomb, fn func(grid.Pos)) {
	fn(b.Pos)
	for _, d := range grid.Directions {
		p := b.Pos
		for i := 0; i < b.Range; i++ {
			p = p.Step(d)
			t := g.At(p)
			if t.Base() == grid.HardWall {
				break
			}
			fn(p)
			if t.Base() == grid.SoftBlock {
				break
			}
		}
	}
}
