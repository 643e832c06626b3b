package dungeon

import (
	"crawl_core/internal/config"
	"crawl_core/internal/grid"
	"crawl_core/internal/util"
)

// Room is one entry of a floor's room table. Tiles and spawns are generated
// on first use and cached.
type Room struct {
	Index   int      `json:"index"`
	Kind    RoomKind `json:"kind"`
	Cleared bool     `json:"cleared"`
	BossID  string   `json:"boss_id,omitempty"`

	floor  int
	seed   int64
	tables *config.Tables
	tiles  *grid.Grid
	spawns []Spawn
	rolled bool
}

// Grid returns a fresh copy of the room layout; callers own and mutate it.
func (r *Room) Grid() *grid.Grid {
	if r.tiles == nil {
		r.tiles = GenerateRoomGrid(r.Kind, r.floor, util.DeriveSeed(r.seed, r.floor, r.Index), r.tables)
	}
	return r.tiles.Clone()
}

// Spawns returns the room roster. The player count of the first call fixes
// the roster for the lifetime of the room.
func (r *Room) Spawns(players int) ([]Spawn, error) {
	if r.rolled {
		return r.spawns, nil
	}
	if r.tiles == nil {
		r.Grid()
	}
	spawns, err := GenerateRoster(RosterInput{
		Kind:      r.Kind,
		Floor:     r.floor,
		RoomIndex: r.Index,
		Players:   players,
		Seed:      r.seed,
		BossID:    r.BossID,
		Tiles:     r.tiles,
	}, r.tables)
	if err != nil {
		return nil, err
	}
	r.spawns = spawns
	r.rolled = true
	return spawns, nil
}

type Floor struct {
	Seed   int64   `json:"seed"`
	Number int     `json:"number"`
	Rooms  []*Room `json:"rooms"`
}

// NewFloor lays out the room table: a normal room first, the boss room last
// and, from floor 2 on, a rest room right before the boss.
func NewFloor(seed int64, number int, tables *config.Tables) *Floor {
	if number <= 0 {
		number = 1
	}
	fd := tables.Floor(number)
	n := fd.Rooms
	if n < 2 {
		n = 2
	}
	rng := util.NewLCG(util.DeriveSeed(seed, number, 0) + 7)
	fc := &tables.Floors

	f := &Floor{Seed: seed, Number: number, Rooms: make([]*Room, n)}
	for i := 0; i < n; i++ {
		kind := Normal
		switch {
		case i == 0:
		case i == n-1:
			kind = Boss
		case i == n-2 && number >= 2 && n >= 3:
			kind = Rest
		default:
			r := rng.Next()
			if r < fc.EliteChance {
				kind = Elite
			} else if r < fc.EliteChance+fc.TreasureChance {
				kind = Treasure
			}
		}
		f.Rooms[i] = &Room{Index: i, Kind: kind, floor: number, seed: seed, tables: tables}
	}
	if len(fd.Bosses) > 0 {
		f.Rooms[n-1].BossID = fd.Bosses[rng.NextInt(0, len(fd.Bosses)-1)]
	}
	return f
}

func (f *Floor) Room(i int) *Room {
	if i < 0 || i >= len(f.Rooms) {
		return nil
	}
	return f.Rooms[i]
}

func (f *Floor) BossRoom() *Room { return f.Rooms[len(f.Rooms)-1] }
