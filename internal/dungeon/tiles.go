package dungeon

import (
	"math"

	"crawl_core/internal/config"
	"crawl_core/internal/grid"
	"crawl_core/internal/util"
)

var powerUpByKind = map[string]grid.Tile{
	"bomb":  grid.PowerBomb,
	"fire":  grid.PowerFire,
	"speed": grid.PowerSpeed,
	"kick":  grid.PowerKick,
	"skull": grid.Skull,
}

// restPowerUps excludes the skull: rest rooms never hand out curses.
var restPowerUps = []grid.Tile{grid.PowerBomb, grid.PowerFire, grid.PowerSpeed, grid.PowerKick}

// GenerateRoomTiles returns the flat tile array for one room. Identical inputs
// always yield identical arrays.
func GenerateRoomTiles(kind RoomKind, floor int, seed int64, tables *config.Tables) []grid.Tile {
	return GenerateRoomGrid(kind, floor, seed, tables).Cells
}

func GenerateRoomGrid(kind RoomKind, floor int, seed int64, tables *config.Tables) *grid.Grid {
	g := grid.New(tables.Match.Width, tables.Match.Height)
	rng := util.NewLCG(seed)
	stampWalls(g)
	switch kind {
	case Boss:
		fillBoss(g, rng, tables)
	case Rest:
		fillRest(g, rng, tables)
	default:
		fillCombat(g, rng, kind, tables.Floor(floor), tables)
	}
	clearSafeRegions(g)
	return g
}

func stampWalls(g *grid.Grid) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := grid.Pos{X: x, Y: y}
			if g.IsBorder(p) || g.IsPillar(p) {
				g.Set(p, grid.HardWall)
			}
		}
	}
}

func fillCombat(g *grid.Grid, rng *util.LCG, kind RoomKind, fd *config.FloorDef, tables *config.Tables) {
	fc := &tables.Floors
	pBlock := math.Min(fc.BlockChance*fd.Difficulty, fc.MaxBlockChance)
	pPowerUp := math.Min(fc.PowerUpChance*tables.PowerUpMultiplier(string(kind))*fd.Difficulty, fc.MaxPowerUpChance)
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			p := grid.Pos{X: x, Y: y}
			if g.At(p) != grid.Empty {
				continue
			}
			if !rng.Chance(pBlock) {
				continue
			}
			if rng.Chance(pPowerUp) {
				g.Set(p, grid.PackSoftBlock(drawPowerUp(rng, fc.PowerUpWeights)))
				continue
			}
			g.Set(p, grid.SoftBlock)
		}
	}
}

func drawPowerUp(rng *util.LCG, weights []config.PowerUpWeight) grid.Tile {
	total := 0
	for _, w := range weights {
		if _, ok := powerUpByKind[w.Kind]; ok && w.Weight > 0 {
			total += w.Weight
		}
	}
	if total == 0 {
		return grid.PowerBomb
	}
	pick := rng.NextInt(1, total)
	acc := 0
	for _, w := range weights {
		tile, ok := powerUpByKind[w.Kind]
		if !ok || w.Weight <= 0 {
			continue
		}
		acc += w.Weight
		if pick <= acc {
			return tile
		}
	}
	return grid.PowerBomb
}

func fillBoss(g *grid.Grid, rng *util.LCG, tables *config.Tables) {
	center := g.Center()
	radius := tables.Floors.BossOpenRadius
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			p := grid.Pos{X: x, Y: y}
			if g.IsPillar(p) && p.Manhattan(center) <= radius {
				g.Set(p, grid.Empty)
			}
		}
	}
	want := tables.Floors.BossObstacles
	for placed, attempts := 0, 0; placed < want && attempts < want*50; attempts++ {
		p := grid.Pos{X: rng.NextInt(1, g.Width-2), Y: rng.NextInt(1, g.Height-2)}
		if g.At(p) != grid.Empty || p.Manhattan(center) <= 1 || inSafeRegion(g, p) {
			continue
		}
		g.Set(p, grid.SoftBlock)
		placed++
	}
}

func fillRest(g *grid.Grid, rng *util.LCG, tables *config.Tables) {
	for _, c := range tables.Floors.RestPowerUps {
		p := grid.Pos{X: c.X, Y: c.Y}
		if !g.InBounds(p) || g.At(p) == grid.HardWall {
			continue
		}
		g.Set(p, restPowerUps[rng.NextInt(0, len(restPowerUps)-1)])
	}
}

// safeCells returns the 2x2 spawn corner regions and the exit cross.
func safeCells(g *grid.Grid) []grid.Pos {
	cells := make([]grid.Pos, 0, 21)
	for _, c := range g.SpawnCorners() {
		dx, dy := 1, 1
		if c.X > g.Width/2 {
			dx = -1
		}
		if c.Y > g.Height/2 {
			dy = -1
		}
		cells = append(cells, c, grid.Pos{X: c.X + dx, Y: c.Y}, grid.Pos{X: c.X, Y: c.Y + dy}, grid.Pos{X: c.X + dx, Y: c.Y + dy})
	}
	center := g.Center()
	cells = append(cells, center)
	for _, d := range grid.Directions {
		cells = append(cells, center.Step(d))
	}
	return cells
}

func inSafeRegion(g *grid.Grid, p grid.Pos) bool {
	for _, c := range safeCells(g) {
		if c == p {
			return true
		}
	}
	return false
}

func clearSafeRegions(g *grid.Grid) {
	for _, p := range safeCells(g) {
		if g.InBounds(p) && g.At(p) != grid.HardWall {
			g.Set(p, grid.Empty)
		}
	}
}
