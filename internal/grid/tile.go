package grid

// Tile is a cell occupancy code. A soft block may carry a power-up in bits
// 4..7; it stays hidden until the block is destroyed.
type Tile int

const (
	Empty Tile = iota
	HardWall
	SoftBlock
	PowerBomb
	PowerFire
	PowerSpeed
	PowerKick
	Skull
)

const (
	baseMask     Tile = 0x0f
	powerUpShift      = 4
)

// PowerUps lists every power-up tile, skull included.
var PowerUps = []Tile{PowerBomb, PowerFire, PowerSpeed, PowerKick, Skull}

// PackSoftBlock returns a soft block concealing p. Non power-up values yield a
// plain soft block.
func PackSoftBlock(p Tile) Tile {
	if !p.IsPowerUp() {
		return SoftBlock
	}
	return SoftBlock | p<<powerUpShift
}

// Base strips any concealed power-up.
func (t Tile) Base() Tile { return t & baseMask }

// Hidden returns the power-up concealed by a soft block, or Empty.
func (t Tile) Hidden() Tile {
	if t.Base() != SoftBlock {
		return Empty
	}
	return (t >> powerUpShift) & baseMask
}

// Reveal is the tile left behind when t is destroyed by a blast.
func (t Tile) Reveal() Tile {
	if t.Base() != SoftBlock {
		return t
	}
	return t.Hidden()
}

func (t Tile) IsPowerUp() bool {
	return t >= PowerBomb && t <= Skull
}

// Walkable reports whether a player or enemy may stand on the tile.
func (t Tile) Walkable() bool {
	return t == Empty || t.IsPowerUp()
}

// Solid reports whether the tile stops movement (hard wall or soft block).
func (t Tile) Solid() bool {
	b := t.Base()
	return b == HardWall || b == SoftBlock
}

func (t Tile) String() string {
	switch t.Base() {
	case Empty:
		return "empty"
	case HardWall:
		return "hard_wall"
	case SoftBlock:
		if t.Hidden() != Empty {
			return "soft_block+" + t.Hidden().String()
		}
		return "soft_block"
	case PowerBomb:
		return "power_bomb"
	case PowerFire:
		return "power_fire"
	case PowerSpeed:
		return "power_speed"
	case PowerKick:
		return "power_kick"
	case Skull:
		return "skull"
	}
	return "unknown"
}
