package combat

import (
	"crawl_core/internal/entity"
	"crawl_core/internal/event"
	"crawl_core/internal/grid"
)

// Per-behavior bombing probabilities, scaled by the enemy's and the floor's
// aggression.
const (
	wanderBombChance     = 0.05
	chaseBombChance      = 0.35
	aggressiveBombChance = 0.6
	strategicBombChance  = 0.5

	aggressiveMoveScale = 0.7
	aggressiveBombScale = 0.6
)

type behaviorFunc func(env *Env, e *EnemyState)

var behaviors = map[Behavior]behaviorFunc{
	Wander:     updateWander,
	Chase:      updateChase,
	Ambush:     updateAmbush,
	Strategic:  updateStrategic,
	Aggressive: updateAggressive,
	BossDriven: updateBoss,
}

// UpdateEnemy runs one tick of e's behavior.
func UpdateEnemy(env *Env, e *EnemyState) {
	if !e.Alive {
		return
	}
	if fn := behaviors[e.Behavior]; fn != nil {
		fn(env, e)
	}
}

// NearestTarget returns the closest living player by Manhattan distance.
func NearestTarget(env *Env, from grid.Pos) *entity.Player {
	var best *entity.Player
	bestDist := 0
	for _, p := range env.Players {
		if !p.Alive {
			continue
		}
		d := from.Manhattan(p.Pos)
		if best == nil || d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

// CanEnter reports whether a unit may step onto p: no wall, block or bomb.
func CanEnter(env *Env, p grid.Pos) bool {
	return env.Grid.Walkable(p) && !env.Bombs.At(p)
}

// ValidMoves returns the enterable directions from pos.
func ValidMoves(env *Env, pos grid.Pos) []grid.Direction {
	out := make([]grid.Direction, 0, 4)
	for _, d := range grid.Directions {
		if CanEnter(env, pos.Step(d)) {
			out = append(out, d)
		}
	}
	return out
}

// BestDirection steps greedily toward to: the axis with the larger remaining
// distance first, then the other axis, else None.
func BestDirection(env *Env, from, to grid.Pos) grid.Direction {
	dx, dy := to.X-from.X, to.Y-from.Y
	horiz, vert := grid.None, grid.None
	if dx > 0 {
		horiz = grid.Right
	} else if dx < 0 {
		horiz = grid.Left
	}
	if dy > 0 {
		vert = grid.Down
	} else if dy < 0 {
		vert = grid.Up
	}
	first, second := horiz, vert
	if abs(dy) > abs(dx) {
		first, second = vert, horiz
	}
	for _, d := range [2]grid.Direction{first, second} {
		if d != grid.None && CanEnter(env, from.Step(d)) {
			return d
		}
	}
	return grid.None
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func moveInterval(env *Env, e *EnemyState, scale float64) float64 {
	speed := e.Speed * e.Aggression * env.aggression()
	if speed <= 0 {
		return 1e9
	}
	return scale / speed
}

func canMove(env *Env, e *EnemyState, scale float64) bool {
	return env.Time-e.LastMove >= moveInterval(env, e, scale)
}

func canBomb(env *Env, e *EnemyState, scale float64) bool {
	if e.Bombs >= e.MaxBombs {
		return false
	}
	if env.Time-e.LastBomb < e.BombCooldown*scale {
		return false
	}
	return !env.Bombs.At(e.Pos)
}

func roll(env *Env, e *EnemyState, chance float64) bool {
	return env.Rng.Float64() < chance*e.Aggression*env.aggression()
}

func step(env *Env, e *EnemyState, d grid.Direction, detail string) {
	e.Pos = e.Pos.Step(d)
	e.Facing = d
	e.LastMove = env.Time
	env.emit(event.Event{Type: event.EnemyMoved, Actor: e.ID, Pos: e.Pos, Detail: detail})
}

func placeBomb(env *Env, e *EnemyState, pos grid.Pos, rng int) {
	e.Bombs++
	e.LastBomb = env.Time
	env.emit(event.Event{Type: event.BombPlaced, Actor: e.ID, Pos: pos, Value: rng, Duration: env.fuse()})
}

// escape steps out of a live blast when a safe neighbour exists.
func escape(env *Env, e *EnemyState, scale float64) bool {
	danger := env.Danger()
	if !danger.Has(e.Pos) || !canMove(env, e, scale) {
		return false
	}
	for _, d := range ValidMoves(env, e.Pos) {
		if !danger.Has(e.Pos.Step(d)) {
			step(env, e, d, "escape")
			return true
		}
	}
	return false
}

func updateWander(env *Env, e *EnemyState) {
	if escape(env, e, 1) {
		return
	}
	if canBomb(env, e, 1) && roll(env, e, wanderBombChance) {
		placeBomb(env, e, e.Pos, e.FireRange)
	}
	if !canMove(env, e, 1) {
		return
	}
	moves := ValidMoves(env, e.Pos)
	if len(moves) == 0 {
		return
	}
	danger := env.Danger()
	safe := moves[:0:0]
	for _, d := range moves {
		if !danger.Has(e.Pos.Step(d)) {
			safe = append(safe, d)
		}
	}
	if len(safe) > 0 {
		moves = safe
	}
	step(env, e, moves[env.Rng.Intn(len(moves))], "wander")
}

func chaseTick(env *Env, e *EnemyState, moveScale, bombScale, bombChance float64) {
	target := NearestTarget(env, e.Pos)
	if target == nil {
		e.TargetID = ""
		return
	}
	e.TargetID = target.ID
	if escape(env, e, moveScale) {
		return
	}
	if e.Pos.Manhattan(target.Pos) <= e.FireRange+1 && canBomb(env, e, bombScale) && roll(env, e, bombChance) {
		placeBomb(env, e, e.Pos, e.FireRange)
	}
	if !canMove(env, e, moveScale) {
		return
	}
	if d := BestDirection(env, e.Pos, target.Pos); d != grid.None {
		step(env, e, d, "chase")
	}
}

func updateChase(env *Env, e *EnemyState) {
	chaseTick(env, e, 1, 1, chaseBombChance)
}

func updateAggressive(env *Env, e *EnemyState) {
	chaseTick(env, e, aggressiveMoveScale, aggressiveBombScale, aggressiveBombChance)
}

// updateAmbush idles until a target comes within fire range + 2, then lines
// up on its row or column and bombs once aligned.
func updateAmbush(env *Env, e *EnemyState) {
	target := NearestTarget(env, e.Pos)
	if target == nil {
		e.TargetID = ""
		return
	}
	dist := e.Pos.Manhattan(target.Pos)
	if dist > e.FireRange+2 {
		e.TargetID = ""
		return
	}
	e.TargetID = target.ID
	if escape(env, e, 1) {
		return
	}
	if e.Pos.Aligned(target.Pos) && dist <= e.FireRange {
		if canBomb(env, e, 1) {
			placeBomb(env, e, e.Pos, e.FireRange)
		}
		return
	}
	if !canMove(env, e, 1) {
		return
	}
	if d := alignDirection(env, e.Pos, target.Pos); d != grid.None {
		step(env, e, d, "ambush")
	}
}

// alignDirection closes the smaller axis gap first so the mover ends up on
// the target's row or column.
func alignDirection(env *Env, from, to grid.Pos) grid.Direction {
	dx, dy := to.X-from.X, to.Y-from.Y
	var d grid.Direction
	switch {
	case dx != 0 && (dy == 0 || abs(dx) <= abs(dy)):
		d = grid.Left
		if dx > 0 {
			d = grid.Right
		}
		if dy == 0 {
			return BestDirection(env, from, to)
		}
	case dy != 0:
		d = grid.Up
		if dy > 0 {
			d = grid.Down
		}
	default:
		return grid.None
	}
	if CanEnter(env, from.Step(d)) {
		return d
	}
	return BestDirection(env, from, to)
}

// PredictEscape guesses where target will flee: unchanged when it stands
// outside every blast, else its first safe enterable neighbour.
func PredictEscape(env *Env, target *entity.Player) grid.Pos {
	danger := env.Danger()
	if !danger.Has(target.Pos) {
		return target.Pos
	}
	fallback := target.Pos
	for _, d := range grid.Directions {
		p := target.Pos.Step(d)
		if !CanEnter(env, p) {
			continue
		}
		if !danger.Has(p) {
			return p
		}
		if fallback == target.Pos {
			fallback = p
		}
	}
	return fallback
}

func updateStrategic(env *Env, e *EnemyState) {
	target := NearestTarget(env, e.Pos)
	if target == nil {
		e.TargetID = ""
		return
	}
	e.TargetID = target.ID
	if escape(env, e, 1) {
		return
	}
	intercept := PredictEscape(env, target)
	if e.Pos.Manhattan(target.Pos) <= e.FireRange+2 && canBomb(env, e, 1) && roll(env, e, strategicBombChance) {
		placeBomb(env, e, e.Pos, e.FireRange)
	}
	if !canMove(env, e, 1) || e.Pos == intercept {
		return
	}
	if d := BestDirection(env, e.Pos, intercept); d != grid.None {
		step(env, e, d, "intercept")
	}
}

// updateBoss serves direct UpdateEnemy callers; the roster drives bosses
// through UpdateBosses instead.
func updateBoss(env *Env, e *EnemyState) {
	if e.boss != nil {
		e.boss.Update(env)
	}
}
