package combat

import (
	"crawl_core/internal/config"
	"crawl_core/internal/event"
)

// BossPhaser derives the boss's phase from its health every tick.
type BossPhaser struct {
	Def   *config.BossDef
	Boss  *EnemyState
	Emit  func(event.Event)
	phase int
}

func NewBossPhaser(def *config.BossDef, boss *EnemyState, emit func(event.Event)) *BossPhaser {
	return &BossPhaser{Def: def, Boss: boss, Emit: emit}
}

func (bp *BossPhaser) CurrentPhase() int { return bp.phase }

func (bp *BossPhaser) PhaseDef() *config.Phase {
	if bp.phase < 0 || bp.phase >= len(bp.Def.Phases) {
		return nil
	}
	return &bp.Def.Phases[bp.phase]
}

// HealthPercent is current health as a percentage of max health.
func (bp *BossPhaser) HealthPercent() float64 {
	if bp.Boss.MaxHealth <= 0 {
		return 0
	}
	return float64(bp.Boss.Health) * 100 / float64(bp.Boss.MaxHealth)
}

// PhaseFor returns the highest-indexed phase whose threshold is at or above
// pct. Thresholds are validated to be strictly descending.
func PhaseFor(def *config.BossDef, pct float64) int {
	idx := 0
	for i, ph := range def.Phases {
		if ph.Threshold >= pct {
			idx = i
		}
	}
	return idx
}

// Recompute re-derives the phase and reports whether it changed.
func (bp *BossPhaser) Recompute(now float64) bool {
	next := PhaseFor(bp.Def, bp.HealthPercent())
	if next == bp.phase {
		return false
	}
	bp.phase = next
	ph := bp.Def.Phases[next]
	bp.Emit(event.Event{
		T:      now,
		Type:   event.PhaseChanged,
		Actor:  bp.Boss.ID,
		Pos:    bp.Boss.Pos,
		Value:  next,
		Detail: ph.Announce,
	})
	return true
}
