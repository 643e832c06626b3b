package dungeon

import (
	"fmt"
	"math"

	"github.com/zyedidia/generic/mapset"

	"crawl_core/internal/config"
	"crawl_core/internal/grid"
	"crawl_core/internal/util"
)

// DefaultEnemyType is used when a floor has no usable weight table.
const DefaultEnemyType = "grunt"

type Spawn struct {
	Type   string   `json:"type"`
	Pos    grid.Pos `json:"pos"`
	BossID string   `json:"boss_id,omitempty"`
}

func (s Spawn) IsBoss() bool { return s.BossID != "" }

type RosterInput struct {
	Kind      RoomKind
	Floor     int
	RoomIndex int
	Players   int
	Seed      int64
	BossID    string
	// Tiles, when set, excludes non-walkable cells from the candidates.
	Tiles *grid.Grid
}

func rosterSeed(seed int64, floor, room int) int64 {
	return util.DeriveSeed(seed, floor, room) + 31337
}

// EnemyCount is floor(base*difficulty*roomMul) + floor(0.5*players), capped at
// the floor maximum. Combat rooms never drop below one enemy; rest rooms hold
// none.
func EnemyCount(kind RoomKind, fd *config.FloorDef, players int, tables *config.Tables) int {
	if kind == Rest {
		return 0
	}
	mul := tables.RoomMultiplier(string(kind))
	count := int(math.Floor(float64(fd.BaseEnemies)*fd.Difficulty*mul)) + int(math.Floor(0.5*float64(players)))
	if count > fd.MaxEnemies {
		count = fd.MaxEnemies
	}
	if count < 1 {
		count = 1
	}
	return count
}

// GenerateRoster returns the enemies entering a room. Boss rooms hold exactly
// one boss at the arena centre.
func GenerateRoster(in RosterInput, tables *config.Tables) ([]Spawn, error) {
	fd := tables.Floor(in.Floor)
	width, height := tables.Match.Width, tables.Match.Height
	if in.Tiles != nil {
		width, height = in.Tiles.Width, in.Tiles.Height
	}
	center := grid.Pos{X: width / 2, Y: height / 2}

	if in.Kind == Boss {
		id := in.BossID
		if id == "" && len(fd.Bosses) > 0 {
			id = fd.Bosses[0]
		}
		if _, err := tables.Boss(id); err != nil {
			return nil, fmt.Errorf("floor %d room %d: %w", in.Floor, in.RoomIndex, err)
		}
		return []Spawn{{Type: "boss", Pos: center, BossID: id}}, nil
	}

	count := EnemyCount(in.Kind, fd, in.Players, tables)
	if count == 0 {
		return nil, nil
	}
	rng := util.NewLCG(rosterSeed(in.Seed, in.Floor, in.RoomIndex))
	candidates := spawnCandidates(width, height, center, tables.Floors.SpawnSafeRadius, in.Tiles)
	util.Shuffle(rng, candidates)
	if count > len(candidates) {
		count = len(candidates)
	}
	out := make([]Spawn, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, Spawn{Type: drawEnemyType(rng, fd), Pos: candidates[i]})
	}
	return out, nil
}

func spawnCandidates(width, height int, center grid.Pos, safeRadius int, tiles *grid.Grid) []grid.Pos {
	probe := grid.New(width, height)
	excluded := mapset.New[grid.Pos]()
	for _, corner := range probe.SpawnCorners() {
		for y := 1; y < height-1; y++ {
			for x := 1; x < width-1; x++ {
				p := grid.Pos{X: x, Y: y}
				if p.Manhattan(corner) <= safeRadius {
					excluded.Put(p)
				}
			}
		}
	}
	excluded.Put(center)

	var out []grid.Pos
	for y := 1; y < height-1; y += 2 {
		for x := 1; x < width-1; x += 2 {
			p := grid.Pos{X: x, Y: y}
			if excluded.Has(p) || probe.IsPillar(p) {
				continue
			}
			if tiles != nil && !tiles.At(p).Walkable() {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

func drawEnemyType(rng *util.LCG, fd *config.FloorDef) string {
	total := 0
	for _, w := range fd.Enemies {
		if w.Weight > 0 {
			total += w.Weight
		}
	}
	if total == 0 {
		if len(fd.Enemies) > 0 {
			return fd.Enemies[0].Type
		}
		return DefaultEnemyType
	}
	pick := rng.NextInt(1, total)
	acc := 0
	for _, w := range fd.Enemies {
		if w.Weight <= 0 {
			continue
		}
		acc += w.Weight
		if pick <= acc {
			return w.Type
		}
	}
	return fd.Enemies[len(fd.Enemies)-1].Type
}
