package combat

import (
	"math"

	"crawl_core/internal/config"
	"crawl_core/internal/event"
	"crawl_core/internal/grid"
)

// Attack ids understood by the engine.
const (
	AttackBombBarrage    = "bomb_barrage"
	AttackCrossExplosion = "cross_explosion"
	AttackSummonMinions  = "summon_minions"
	AttackCharge         = "charge_attack"
	AttackArenaHazard    = "arena_hazard"
	AttackMegaBomb       = "mega_bomb"
	AttackFireTrail      = "fire_trail"
	AttackEnrage         = "enrage"
)

const (
	chargeFarWeight   = 3.0
	summonEmptyWeight = 2.0
)

// HazardCell is a timed damaging cell left by arena_hazard or the fire
// trail.
type HazardCell struct {
	Pos       grid.Pos `json:"pos"`
	ExpiresAt float64  `json:"expires_at"`
	Kind      string   `json:"kind"`

	hit []string
}

type activeAttack struct {
	Def       *config.AttackDef
	StartedAt float64
	fired     int
	target    grid.Pos
}

// BossState extends EnemyState with the phase engine's bookkeeping.
type BossState struct {
	*EnemyState
	Def             *config.BossDef `json:"-"`
	Phase           int             `json:"phase"`
	Attack          *activeAttack   `json:"-"`
	NextAttackAt    float64         `json:"next_attack_at"`
	Entering        bool            `json:"entering"`
	EntranceEndsAt  float64         `json:"entrance_ends_at"`
	CombatStartedAt float64         `json:"combat_started_at"`
	Enraged         bool            `json:"enraged"`
	EnragedAt       float64         `json:"enraged_at,omitempty"`
	TempEnrageUntil float64         `json:"temp_enrage_until,omitempty"`
	Minions         []string        `json:"minions,omitempty"`
	Hazards         []HazardCell    `json:"hazards,omitempty"`
	Trail           []HazardCell    `json:"trail,omitempty"`
	Defeated        bool            `json:"defeated"`
}

// AttackID is the id of the running attack, or "".
func (s *BossState) AttackID() string {
	if s.Attack == nil {
		return ""
	}
	return s.Attack.Def.ID
}

type weightedAttack struct {
	ref    *config.AttackDef
	weight float64
}

type BossController struct {
	State  *BossState
	phaser *BossPhaser
	tables *config.Tables
	emit   func(event.Event)

	weights []weightedAttack
	scratch []weightedAttack
}

// NewBoss builds a boss in its entrance state. An unknown boss id is a
// configuration error.
func NewBoss(tables *config.Tables, bossID, enemyID string, pos grid.Pos, now float64, emit func(event.Event)) (*BossController, error) {
	def, err := tables.Boss(bossID)
	if err != nil {
		return nil, err
	}
	if emit == nil {
		emit = func(event.Event) {}
	}
	es := &EnemyState{
		ID:         enemyID,
		Type:       def.ID,
		Behavior:   BossDriven,
		Pos:        pos,
		Health:     def.MaxHealth,
		MaxHealth:  def.MaxHealth,
		Alive:      true,
		MaxBombs:   math.MaxInt32,
		FireRange:  def.FireRange,
		Speed:      def.Speed,
		Aggression: 1,
		LastMove:   now,
		LastBomb:   now,
	}
	st := &BossState{
		EnemyState:     es,
		Def:            def,
		Entering:       true,
		EntranceEndsAt: now + def.EntranceDelay,
	}
	bc := &BossController{
		State:  st,
		phaser: NewBossPhaser(def, es, emit),
		tables: tables,
		emit:   emit,
	}
	es.boss = bc
	bc.resetPhaseState()
	return bc, nil
}

func (bc *BossController) Phaser() *BossPhaser { return bc.phaser }

func (bc *BossController) resetPhaseState() {
	bc.weights = bc.weights[:0]
	ph := bc.phaser.PhaseDef()
	if ph == nil {
		return
	}
	for _, id := range ph.Attacks {
		if id == AttackFireTrail {
			continue
		}
		if def, ok := bc.tables.Attack(id); ok {
			bc.weights = append(bc.weights, weightedAttack{ref: def, weight: 1})
		}
	}
}

func (bc *BossController) phaseSpeedMul() float64 {
	if ph := bc.phaser.PhaseDef(); ph != nil && ph.SpeedMul > 0 {
		return ph.SpeedMul
	}
	return 1
}

func (bc *BossController) phaseAggressionMul() float64 {
	if ph := bc.phaser.PhaseDef(); ph != nil && ph.AggressionMul > 0 {
		return ph.AggressionMul
	}
	return 1
}

// TempEnraged reports whether the enrage attack's boost is running.
func (bc *BossController) TempEnraged(now float64) bool {
	return now < bc.State.TempEnrageUntil
}

// FireTrailActive reports whether movement leaves burning cells.
func (bc *BossController) FireTrailActive() bool {
	return bc.State.Def.FireTrail && bc.State.Phase >= 1
}

// Update runs one boss tick.
func (bc *BossController) Update(env *Env) {
	s := bc.State
	if s.Defeated || !s.Alive {
		return
	}
	now := env.Time
	bc.pruneHazards(now)
	if s.Entering {
		if now < s.EntranceEndsAt {
			return
		}
		s.Entering = false
		s.CombatStartedAt = now
		s.NextAttackAt = now + bc.cooldown()
		s.LastMove = now
		env.emit(event.Event{Type: event.BossEntranceEnd, Actor: s.ID, Pos: s.Pos, Detail: s.Def.ID})
	}
	if bc.phaser.Recompute(now) {
		s.Phase = bc.phaser.CurrentPhase()
		bc.resetPhaseState()
	}
	if !s.Enraged && s.Def.EnrageAfter > 0 && now-s.CombatStartedAt >= s.Def.EnrageAfter {
		s.Enraged = true
		s.EnragedAt = now
		env.emit(event.Event{Type: event.BossEnraged, Actor: s.ID, Pos: s.Pos, Detail: "permanent"})
	}
	s.Speed = bc.effectiveSpeed(now)
	s.Aggression = bc.phaseAggressionMul()

	bc.hitPlayers(env)

	if s.Attack == nil && now >= s.NextAttackAt {
		bc.startAttack(env)
	}
	if s.Attack != nil {
		bc.runAttack(env)
	}
	if s.Attack == nil {
		bc.chase(env)
	}
}

func (bc *BossController) effectiveSpeed(now float64) float64 {
	s := bc.State
	speed := s.Def.Speed * bc.phaseSpeedMul()
	if s.Enraged {
		speed *= s.Def.EnrageSpeedMul
	}
	if bc.TempEnraged(now) {
		speed *= s.Def.EnrageSpeedMul
	}
	return speed
}

func (bc *BossController) cooldown() float64 {
	return bc.State.Def.AttackCooldown / bc.phaseAggressionMul()
}

// LivingMinions counts summoned minions still alive.
func (bc *BossController) LivingMinions(env *Env) int {
	if env.Roster == nil {
		return len(bc.State.Minions)
	}
	n := 0
	for _, id := range bc.State.Minions {
		if e := env.Roster.ByID(id); e != nil && e.Alive {
			n++
		}
	}
	return n
}

// chooseAttack applies the selection heuristics on top of the phase's base
// weights and draws one attack.
func (bc *BossController) chooseAttack(env *Env) *config.AttackDef {
	s := bc.State
	target := NearestTarget(env, s.Pos)
	minions := -1
	bc.scratch = bc.scratch[:0]
	total := 0.0
	for _, w := range bc.weights {
		weight := w.weight
		switch w.ref.ID {
		case AttackCharge:
			if target != nil && s.Pos.Manhattan(target.Pos) > s.Def.ChargeRange {
				weight = chargeFarWeight
			}
		case AttackSummonMinions:
			if minions < 0 {
				minions = bc.LivingMinions(env)
			}
			if minions > 0 {
				weight = 0
			} else {
				weight = summonEmptyWeight
			}
		}
		if weight <= 0 {
			continue
		}
		bc.scratch = append(bc.scratch, weightedAttack{ref: w.ref, weight: weight})
		total += weight
	}
	if total <= 0 {
		return nil
	}
	pick := env.Rng.Float64() * total
	acc := 0.0
	for _, w := range bc.scratch {
		acc += w.weight
		if pick < acc {
			return w.ref
		}
	}
	return bc.scratch[len(bc.scratch)-1].ref
}

func (bc *BossController) startAttack(env *Env) {
	def := bc.chooseAttack(env)
	if def == nil {
		return
	}
	s := bc.State
	a := &activeAttack{Def: def, StartedAt: env.Time, target: s.Pos}
	if t := NearestTarget(env, s.Pos); t != nil {
		a.target = t.Pos
	}
	s.Attack = a
	env.emit(event.Event{
		Type:     event.BossAttackStart,
		Actor:    s.ID,
		Pos:      s.Pos,
		Value:    s.Phase,
		Detail:   def.ID,
		Duration: def.Duration,
	})
}

func (bc *BossController) runAttack(env *Env) {
	s := bc.State
	a := s.Attack
	progress := 1.0
	if a.Def.Duration > 0 {
		progress = (env.Time - a.StartedAt) / a.Def.Duration
	}
	if progress > 1 {
		progress = 1
	}
	if run := attackRunners[a.Def.ID]; run != nil {
		run(bc, env, a, progress)
	}
	if progress < 1 {
		return
	}
	s.Attack = nil
	s.NextAttackAt = env.Time + bc.cooldown()
	env.emit(event.Event{Type: event.BossAttackEnd, Actor: s.ID, Pos: s.Pos, Detail: a.Def.ID})
}

// Damage reduces health, floored at zero. Reaching zero defeats the boss.
func (bc *BossController) Damage(amount int, now float64) {
	s := bc.State
	if s.Defeated || amount <= 0 {
		return
	}
	s.Health -= amount
	if s.Health > 0 {
		return
	}
	s.Health = 0
	s.Alive = false
	s.Defeated = true
	s.Attack = nil
	bc.emit(event.Event{T: now, Type: event.BossDefeated, Actor: s.ID, Pos: s.Pos, Detail: s.Def.ID})
}

// OnMinionDestroyed unlinks a minion reported destroyed by the shell.
func (bc *BossController) OnMinionDestroyed(id string) {
	m := bc.State.Minions
	for i, mid := range m {
		if mid == id {
			bc.State.Minions = append(m[:i], m[i+1:]...)
			return
		}
	}
}
