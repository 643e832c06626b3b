package combat

import (
	"slices"

	"crawl_core/internal/event"
	"crawl_core/internal/grid"
)

// Default lifetime of a trail cell when the attack library has no
// fire_trail entry.
const defaultTrailLifetime = 2.5

// chase closes in on the nearest target between attacks. Adjacent is close
// enough.
func (bc *BossController) chase(env *Env) {
	s := bc.State
	target := NearestTarget(env, s.Pos)
	if target == nil {
		s.TargetID = ""
		return
	}
	s.TargetID = target.ID
	if s.Pos.Manhattan(target.Pos) <= 1 || s.Speed <= 0 {
		return
	}
	if env.Time-s.LastMove < 1/s.Speed {
		return
	}
	if d := BestDirection(env, s.Pos, target.Pos); d != grid.None {
		bc.move(env, d, "chase")
	}
}

// move steps the boss and, when the trail is active, leaves the vacated
// cell burning.
func (bc *BossController) move(env *Env, d grid.Direction, detail string) {
	s := bc.State
	from := s.Pos
	step(env, s.EnemyState, d, detail)
	if !bc.FireTrailActive() {
		return
	}
	life := defaultTrailLifetime
	if def, ok := bc.tables.Attack(AttackFireTrail); ok && def.HazardLifetime > 0 {
		life = def.HazardLifetime
	}
	s.Trail = append(s.Trail, HazardCell{Pos: from, ExpiresAt: env.Time + life, Kind: AttackFireTrail})
	env.emit(event.Event{Type: event.FireTrail, Actor: s.ID, Pos: from, Duration: life})
}

func pruneCells(cells []HazardCell, now float64) []HazardCell {
	out := cells[:0]
	for _, c := range cells {
		if now < c.ExpiresAt {
			out = append(out, c)
		}
	}
	clear(cells[len(out):])
	return out
}

func (bc *BossController) pruneHazards(now float64) {
	bc.State.Hazards = pruneCells(bc.State.Hazards, now)
	bc.State.Trail = pruneCells(bc.State.Trail, now)
}

// hitPlayers reports each living player standing on a hazard or trail cell,
// once per cell.
func (bc *BossController) hitPlayers(env *Env) {
	s := bc.State
	for _, cells := range [2][]HazardCell{s.Hazards, s.Trail} {
		for i := range cells {
			c := &cells[i]
			for _, p := range env.Players {
				if !p.Alive || p.Pos != c.Pos || slices.Contains(c.hit, p.ID) {
					continue
				}
				c.hit = append(c.hit, p.ID)
				env.emit(event.Event{Type: event.PlayerHit, Actor: s.ID, Target: p.ID, Pos: c.Pos, Detail: c.Kind})
			}
		}
	}
}
