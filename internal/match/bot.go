package match

import (
	"github.com/zyedidia/generic/mapset"

	"crawl_core/internal/combat"
	"crawl_core/internal/curse"
	"crawl_core/internal/entity"
	"crawl_core/internal/event"
	"crawl_core/internal/grid"
)

// Policy produces player input for a tick.
type Policy interface {
	Act(m *Match)
}

// Seconds per cell at speed 1.
const playerStepTime = 0.25

const escapeDepth = 6

// Bot is a simple policy for headless runs: flee live blasts, bomb enemies
// in line and blocks in the way, otherwise close in.
type Bot struct {
	lastMove map[string]float64
}

func NewBot() *Bot {
	return &Bot{lastMove: map[string]float64{}}
}

func (b *Bot) Act(m *Match) {
	env := m.Env
	danger := env.Danger()
	for _, p := range m.Players {
		if !p.Alive {
			continue
		}
		now := m.Now
		if curse.MustAutoBomb(p, now) {
			b.tryBomb(m, p)
		}
		if p.Speed <= 0 || now-b.lastMove[p.ID] < playerStepTime/p.Speed {
			continue
		}
		var d grid.Direction
		if danger.Has(p.Pos) {
			d, _ = escapeRoute(env, p.Pos, danger.Has)
		} else {
			d = b.hunt(m, p, danger.Has)
		}
		if d == grid.None {
			continue
		}
		if curse.ControlsReversed(p, now) {
			d = d.Opposite()
		}
		next := p.Pos.Step(d)
		if !combat.CanEnter(env, next) {
			continue
		}
		p.Pos = next
		b.lastMove[p.ID] = now
		m.emit(event.Event{Type: event.PlayerMoved, Target: p.ID, Pos: next, Detail: d.String()})
	}
}

func (b *Bot) hunt(m *Match, p *entity.Player, unsafe func(grid.Pos) bool) grid.Direction {
	env := m.Env
	target := nearestEnemy(m, p.Pos)
	if target == nil {
		return grid.None
	}
	if inBlast(m, p, target.Pos) && b.tryBomb(m, p) {
		return grid.None
	}
	if p.Pos.Manhattan(target.Pos) <= 1 {
		return grid.None
	}
	d := combat.BestDirection(env, p.Pos, target.Pos)
	if d != grid.None && !unsafe(p.Pos.Step(d)) && m.Roster.At(p.Pos.Step(d)) == nil {
		return d
	}
	if blockedBySoftBlock(m, p.Pos, target.Pos) && b.tryBomb(m, p) {
		return grid.None
	}
	moves := combat.ValidMoves(env, p.Pos)
	safe := moves[:0]
	for _, mv := range moves {
		if n := p.Pos.Step(mv); !unsafe(n) && m.Roster.At(n) == nil {
			safe = append(safe, mv)
		}
	}
	if len(safe) == 0 {
		return grid.None
	}
	return safe[m.Rng.Intn(len(safe))]
}

func (b *Bot) tryBomb(m *Match, p *entity.Player) bool {
	now := m.Now
	if !curse.CanPlaceBomb(p, now) || p.Bombs >= p.MaxBombs || m.Bombs.At(p.Pos) {
		return false
	}
	bomb := entity.Bomb{Pos: p.Pos, Range: p.BombRange}
	if !curse.MustAutoBomb(p, now) {
		blast := mapset.New[grid.Pos]()
		entity.BlastCells(m.Grid, bomb, blast.Put)
		danger := m.Env.Danger()
		unsafe := func(c grid.Pos) bool { return blast.Has(c) || danger.Has(c) }
		// Standing on the new bomb, so the first step may leave its cell.
		if _, ok := escapeRoute(m.Env, p.Pos, unsafe); !ok {
			return false
		}
	}
	p.Bombs++
	m.emit(event.Event{Type: event.BombPlaced, Actor: p.ID, Pos: p.Pos, Value: p.BombRange, Duration: m.Curses.FuseDuration(p, now)})
	return true
}

func nearestEnemy(m *Match, from grid.Pos) *combat.EnemyState {
	var best *combat.EnemyState
	bestDist := 0
	for _, e := range m.Roster.Enemies {
		if !e.Alive {
			continue
		}
		if d := from.Manhattan(e.Pos); best == nil || d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}

func inBlast(m *Match, p *entity.Player, target grid.Pos) bool {
	hit := false
	entity.BlastCells(m.Grid, entity.Bomb{Pos: p.Pos, Range: p.BombRange}, func(c grid.Pos) {
		if c == target {
			hit = true
		}
	})
	return hit
}

func blockedBySoftBlock(m *Match, from, to grid.Pos) bool {
	for _, d := range grid.Directions {
		n := from.Step(d)
		if m.Grid.At(n).Base() == grid.SoftBlock && n.Manhattan(to) < from.Manhattan(to) {
			return true
		}
	}
	return false
}

// escapeRoute finds the first step of a shortest path to a cell that is not
// unsafe. ok is false when no such cell is reachable within escapeDepth.
// A safe start yields None, true.
func escapeRoute(env *combat.Env, from grid.Pos, unsafe func(grid.Pos) bool) (grid.Direction, bool) {
	if !unsafe(from) {
		return grid.None, true
	}
	type node struct {
		pos   grid.Pos
		first grid.Direction
		depth int
	}
	seen := mapset.New[grid.Pos]()
	seen.Put(from)
	queue := []node{{pos: from}}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.depth >= escapeDepth {
			continue
		}
		for _, d := range grid.Directions {
			next := n.pos.Step(d)
			if seen.Has(next) || !combat.CanEnter(env, next) || env.Roster.At(next) != nil {
				continue
			}
			seen.Put(next)
			first := n.first
			if first == grid.None {
				first = d
			}
			if !unsafe(next) {
				return first, true
			}
			queue = append(queue, node{pos: next, first: first, depth: n.depth + 1})
		}
	}
	return grid.None, false
}
