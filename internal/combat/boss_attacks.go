package combat

import (
	"github.com/zyedidia/generic/mapset"

	"crawl_core/internal/config"
	"crawl_core/internal/event"
	"crawl_core/internal/grid"
)

type attackRunner func(bc *BossController, env *Env, a *activeAttack, progress float64)

var attackRunners = map[string]attackRunner{
	AttackBombBarrage:    runBombBarrage,
	AttackCrossExplosion: runCrossExplosion,
	AttackSummonMinions:  runSummonMinions,
	AttackCharge:         runCharge,
	AttackArenaHazard:    runArenaHazard,
	AttackMegaBomb:       runMegaBomb,
	AttackEnrage:         runEnrage,
}

var barrageOffsets = [...]grid.Pos{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: -2, Y: 0}, {X: 0, Y: 2}, {X: 0, Y: -2}}

var crossCheckpoints = [...]float64{0.25, 0.5, 0.75}

// Minion type by phase index; later phases reuse the last entry.
var minionTypes = [...]string{"grunt", "chaser", "berserker"}

const (
	barrageBase     = 3
	barrageMax      = 5
	chargeRushStart = 0.3
	chargeRushEnd   = 0.8
	hazardAt        = 0.4
	megaBombAt      = 0.3
	halfway         = 0.5
)

func attackRange(bc *BossController, def *config.AttackDef) int {
	if def.BombRange > 0 {
		return def.BombRange
	}
	if bc.State.FireRange > 0 {
		return bc.State.FireRange
	}
	return 2
}

// bossBomb places a boss-owned bomb if the cell can hold one.
func bossBomb(bc *BossController, env *Env, pos grid.Pos, rng int) bool {
	if !env.Grid.Walkable(pos) || env.Bombs.At(pos) {
		return false
	}
	placeBomb(env, bc.State.EnemyState, pos, rng)
	return true
}

func runBombBarrage(bc *BossController, env *Env, a *activeAttack, progress float64) {
	count := barrageBase + bc.State.Phase
	if count > barrageMax {
		count = barrageMax
	}
	rng := attackRange(bc, a.Def)
	for a.fired < count && progress >= float64(a.fired)/float64(count) {
		off := barrageOffsets[a.fired%len(barrageOffsets)]
		bossBomb(bc, env, bc.State.Pos.Add(off), rng)
		a.fired++
	}
}

func runCrossExplosion(bc *BossController, env *Env, a *activeAttack, progress float64) {
	rng := attackRange(bc, a.Def)
	for a.fired < len(crossCheckpoints) && progress >= crossCheckpoints[a.fired] {
		ring := (a.fired + 1) * 2
		for _, d := range grid.Directions {
			delta := d.Delta()
			bossBomb(bc, env, bc.State.Pos.Add(grid.Pos{X: delta.X * ring, Y: delta.Y * ring}), rng)
		}
		a.fired++
	}
}

func runSummonMinions(bc *BossController, env *Env, a *activeAttack, progress float64) {
	if a.fired > 0 || progress < halfway {
		return
	}
	a.fired = 1
	if env.Roster == nil || bc.LivingMinions(env) > 0 {
		return
	}
	lo, hi := a.Def.MinCells, a.Def.MaxCells
	if lo <= 0 {
		lo = 2
	}
	if hi < lo {
		hi = lo
	}
	n := lo + env.Rng.Intn(hi-lo+1)
	typ := minionTypes[min(bc.State.Phase, len(minionTypes)-1)]
	s := bc.State
	for _, pos := range summonCells(env, s.Pos, n) {
		m, ok := env.Roster.Spawn(typ, pos, env.Time)
		if !ok {
			continue
		}
		m.OwnerID = s.ID
		s.Minions = append(s.Minions, m.ID)
		env.emit(event.Event{Type: event.MinionSpawned, Actor: s.ID, Target: m.ID, Pos: pos, Detail: typ})
	}
}

// summonCells lists up to n free cells around center, nearest ring first.
func summonCells(env *Env, center grid.Pos, n int) []grid.Pos {
	out := make([]grid.Pos, 0, n)
	for r := 1; r <= 3 && len(out) < n; r++ {
		for dy := -r; dy <= r && len(out) < n; dy++ {
			for dx := -r; dx <= r && len(out) < n; dx++ {
				if abs(dx)+abs(dy) != r {
					continue
				}
				p := center.Add(grid.Pos{X: dx, Y: dy})
				if !CanEnter(env, p) || env.Roster.At(p) != nil || env.Players.At(p) != nil {
					continue
				}
				out = append(out, p)
			}
		}
	}
	return out
}

func runCharge(bc *BossController, env *Env, a *activeAttack, progress float64) {
	if progress < chargeRushStart || progress >= chargeRushEnd {
		return
	}
	s := bc.State
	if s.Pos == a.target {
		return
	}
	if d := BestDirection(env, s.Pos, a.target); d != grid.None {
		bc.move(env, d, "charge")
	}
}

func runArenaHazard(bc *BossController, env *Env, a *activeAttack, progress float64) {
	if a.fired > 0 || progress < hazardAt {
		return
	}
	a.fired = 1
	lo, hi := a.Def.MinCells, a.Def.MaxCells
	if lo <= 0 {
		lo = 4
	}
	if hi < lo {
		hi = lo
	}
	n := lo + env.Rng.Intn(hi-lo+1)
	g := env.Grid
	seen := mapset.New[grid.Pos]()
	for tries := 0; seen.Size() < n && tries < n*20; tries++ {
		p := grid.Pos{X: 1 + env.Rng.Intn(g.Width-2), Y: 1 + env.Rng.Intn(g.Height-2)}
		if seen.Has(p) || g.At(p).Solid() {
			continue
		}
		seen.Put(p)
		bc.State.Hazards = append(bc.State.Hazards, HazardCell{Pos: p, ExpiresAt: env.Time + a.Def.HazardLifetime, Kind: AttackArenaHazard})
		env.emit(event.Event{Type: event.HazardSpawned, Actor: bc.State.ID, Pos: p, Duration: a.Def.HazardLifetime})
	}
}

func runMegaBomb(bc *BossController, env *Env, a *activeAttack, progress float64) {
	if a.fired > 0 || progress < megaBombAt {
		return
	}
	a.fired = 1
	bossBomb(bc, env, bc.State.Pos, attackRange(bc, a.Def))
}

func runEnrage(bc *BossController, env *Env, a *activeAttack, progress float64) {
	if a.fired > 0 || progress < halfway {
		return
	}
	a.fired = 1
	s := bc.State
	s.TempEnrageUntil = env.Time + a.Def.EffectDuration
	s.Speed = bc.effectiveSpeed(env.Time)
	env.emit(event.Event{Type: event.BossEnraged, Actor: s.ID, Pos: s.Pos, Detail: "temporary", Duration: a.Def.EffectDuration})
}
