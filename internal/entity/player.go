package entity

import "crawl_core/internal/grid"

type CurseKind string

// NoCurse is the zero value: the player carries no curse.
const NoCurse CurseKind = ""

// CurseState is embedded in player data. At most one curse is active.
type CurseState struct {
	Kind       CurseKind `json:"kind,omitempty"`
	ExpiresAt  float64   `json:"expires_at,omitempty"`
	SavedSpeed float64   `json:"saved_speed,omitempty"`
}

func (c CurseState) Active() bool { return c.Kind != NoCurse }

// Player is the slice of the match shell's player record this core reads and
// mutates.
type Player struct {
	ID        string     `json:"id"`
	Pos       grid.Pos   `json:"pos"`
	Alive     bool       `json:"alive"`
	Speed     float64    `json:"speed"`
	MaxBombs  int        `json:"max_bombs"`
	BombRange int        `json:"bomb_range"`
	Bombs     int        `json:"bombs"`
	Curse     CurseState `json:"curse"`
}

func NewPlayer(id string, pos grid.Pos) *Player {
	return &Player{ID: id, Pos: pos, Alive: true, Speed: 1.0, MaxBombs: 1, BombRange: 2}
}

// Players is the match's player registry.
type Players []*Player

func (ps Players) ByID(id string) *Player {
	for _, p := range ps {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Living calls fn for every living player.
func (ps Players) Living(fn func(*Player)) {
	for _, p := range ps {
		if p.Alive {
			fn(p)
		}
	}
}

func (ps Players) LivingCount() int {
	n := 0
	for _, p := range ps {
		if p.Alive {
			n++
		}
	}
	return n
}

// At returns the first living player standing on pos.
func (ps Players) At(pos grid.Pos) *Player {
	for _, p := range ps {
		if p.Alive && p.Pos == pos {
			return p
		}
	}
	return nil
}
