package combat

import (
	"crawl_core/internal/config"
	"crawl_core/internal/grid"
)

// EnemyTemplate is the immutable per-type definition an EnemyState is built
// from.
type EnemyTemplate struct {
	Type         string
	Behavior     Behavior
	Health       int
	Speed        float64
	BombCooldown float64
	MaxBombs     int
	FireRange    int
	Aggression   float64
}

type EnemyBook struct {
	byType map[string]EnemyTemplate
}

func NewEnemyBook(cfg *config.EnemiesConfig) *EnemyBook {
	eb := &EnemyBook{byType: map[string]EnemyTemplate{}}
	if cfg == nil {
		return eb
	}
	for _, e := range cfg.Enemies {
		eb.byType[e.Type] = EnemyTemplate{
			Type:         e.Type,
			Behavior:     Behavior(e.Behavior),
			Health:       e.Health,
			Speed:        e.Speed,
			BombCooldown: e.BombCooldown,
			MaxBombs:     e.MaxBombs,
			FireRange:    e.FireRange,
			Aggression:   e.Aggression,
		}
	}
	return eb
}

func (eb *EnemyBook) Template(typ string) (EnemyTemplate, bool) {
	tpl, ok := eb.byType[typ]
	return tpl, ok
}

// Instantiate builds a fresh enemy. Unknown types report false; callers skip
// them.
func (eb *EnemyBook) Instantiate(id, typ string, pos grid.Pos, now float64) (*EnemyState, bool) {
	tpl, ok := eb.byType[typ]
	if !ok {
		return nil, false
	}
	return &EnemyState{
		ID:           id,
		Type:         tpl.Type,
		Behavior:     tpl.Behavior,
		Pos:          pos,
		Health:       tpl.Health,
		MaxHealth:    tpl.Health,
		Alive:        true,
		Facing:       grid.Down,
		MaxBombs:     tpl.MaxBombs,
		FireRange:    tpl.FireRange,
		Speed:        tpl.Speed,
		BombCooldown: tpl.BombCooldown,
		Aggression:   tpl.Aggression,
		LastMove:     now,
		LastBomb:     now,
	}, true
}
