package combat

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"crawl_core/internal/entity"
	"crawl_core/internal/event"
	"crawl_core/internal/grid"
)

type Behavior string

const (
	Wander     Behavior = "wander"
	Chase      Behavior = "chase"
	Ambush     Behavior = "ambush"
	Strategic  Behavior = "strategic"
	Aggressive Behavior = "aggressive"
	BossDriven Behavior = "boss"
)

// Env is the per-match view the AI reads each tick. Grid, Players and Bombs
// belong to the match shell; Roster belongs to this core.
type Env struct {
	Time       float64
	Delta      float64
	Rng        *rand.Rand
	Grid       *grid.Grid
	Players    entity.Players
	Bombs      entity.Bombs
	Roster     *Roster
	Aggression float64
	Fuse       float64
	Emit       func(event.Event)

	danger      mapset.Set[grid.Pos]
	dangerBuilt bool
}

// BeginTick stamps the tick time and invalidates per-tick caches.
func (env *Env) BeginTick(now float64) {
	env.Time = now
	env.dangerBuilt = false
}

func (env *Env) emit(ev event.Event) {
	ev.T = env.Time
	if env.Emit != nil {
		env.Emit(ev)
	}
}

// Danger returns every cell inside the blast of an in-flight bomb. Built at
// most once per tick.
func (env *Env) Danger() mapset.Set[grid.Pos] {
	if env.dangerBuilt {
		return env.danger
	}
	env.danger = mapset.New[grid.Pos]()
	for i := range env.Bombs {
		entity.BlastCells(env.Grid, env.Bombs[i], env.danger.Put)
	}
	env.dangerBuilt = true
	return env.danger
}

func (env *Env) aggression() float64 {
	if env.Aggression <= 0 {
		return 1
	}
	return env.Aggression
}

func (env *Env) fuse() float64 {
	if env.Fuse <= 0 {
		return 3
	}
	return env.Fuse
}

// EnemyState is one enemy's mutable state, owned by the match's roster.
type EnemyState struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Behavior     Behavior       `json:"behavior"`
	Pos          grid.Pos       `json:"pos"`
	Health       int            `json:"health"`
	MaxHealth    int            `json:"max_health"`
	Alive        bool           `json:"alive"`
	Facing       grid.Direction `json:"facing"`
	Bombs        int            `json:"bombs"`
	MaxBombs     int            `json:"max_bombs"`
	FireRange    int            `json:"fire_range"`
	Speed        float64        `json:"speed"`
	BombCooldown float64        `json:"bomb_cooldown"`
	Aggression   float64        `json:"aggression"`
	TargetID     string         `json:"target_id,omitempty"`
	LastMove     float64        `json:"last_move"`
	LastBomb     float64        `json:"last_bomb"`
	OwnerID      string         `json:"owner_id,omitempty"`

	boss *BossController
}

func (e *EnemyState) IsBoss() bool { return e.boss != nil }

// Boss returns the controller driving a boss, or nil.
func (e *EnemyState) Boss() *BossController { return e.boss }

// BombDetonated is reported by the shell when one of this enemy's bombs goes
// off.
func (e *EnemyState) BombDetonated() {
	if e.Bombs > 0 {
		e.Bombs--
	}
}
