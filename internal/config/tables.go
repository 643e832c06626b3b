package config

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownBoss     = errors.New("unknown boss")
	ErrUnknownEnemy    = errors.New("unknown enemy type")
	ErrUnknownBehavior = errors.New("unknown behavior")
	ErrUnknownAttack   = errors.New("unknown attack")
	ErrUnknownCurse    = errors.New("unknown curse")
	ErrInvalidPhases   = errors.New("invalid phases")
	ErrNoFloors        = errors.New("no floors configured")
)

// KnownBehaviors lists the behavior tags an enemy type may use.
var KnownBehaviors = []string{"wander", "chase", "ambush", "strategic", "aggressive", "boss"}

// Tables bundles every static table. Built once, then shared read-only.
type Tables struct {
	Floors  FloorsConfig
	Enemies EnemiesConfig
	Bosses  BossesConfig
	Curses  CursesConfig
	Match   MatchConfig

	enemyByType  map[string]*EnemyDef
	bossByID     map[string]*BossDef
	attackByID   map[string]*AttackDef
	curseByKind  map[string]*CurseDef
	floorByIndex map[int]*FloorDef
}

func orFloat(v *float64, def float64) {
	if *v <= 0 {
		*v = def
	}
}

func orInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func (t *Tables) fillDefaults() {
	m := &t.Match
	orInt(&m.Width, 15)
	orInt(&m.Height, 13)
	orInt(&m.TickRate, 60)
	orFloat(&m.Duration, 180)
	orFloat(&m.RoomAdvanceDelay, 2)
	orFloat(&m.CountdownEvery, 1)
	orFloat(&m.PlayerSpeed, 1)
	orFloat(&m.SuddenDeath.Threshold, 60)
	orFloat(&m.SuddenDeath.Interval, 0.5)
	orFloat(&m.SuddenDeath.DisplayWindow, 1)

	f := &t.Floors
	orFloat(&f.BlockChance, 0.4)
	orFloat(&f.MaxBlockChance, 0.8)
	orFloat(&f.PowerUpChance, 0.25)
	orFloat(&f.MaxPowerUpChance, 0.9)
	orInt(&f.BossOpenRadius, 8)
	orInt(&f.BossObstacles, 4)
	orInt(&f.SpawnSafeRadius, 3)
	if f.RoomMultipliers == nil {
		f.RoomMultipliers = map[string]float64{"normal": 1, "elite": 1.5, "treasure": 0.5, "rest": 0}
	}
	if f.PowerUpMultipliers == nil {
		f.PowerUpMultipliers = map[string]float64{"normal": 1, "elite": 1.5, "treasure": 2}
	}
	for i := range f.Floors {
		fd := &f.Floors[i]
		if fd.Floor <= 0 {
			fd.Floor = i + 1
		}
		orFloat(&fd.Difficulty, 1)
		orFloat(&fd.Aggression, 1)
		orInt(&fd.BaseEnemies, 3)
		orInt(&fd.MaxEnemies, 8)
		orInt(&fd.Rooms, 5)
	}

	for i := range t.Enemies.Enemies {
		e := &t.Enemies.Enemies[i]
		orInt(&e.Health, 1)
		orFloat(&e.Speed, 1)
		orFloat(&e.BombCooldown, 3)
		orInt(&e.MaxBombs, 1)
		orInt(&e.FireRange, 2)
		orFloat(&e.Aggression, 1)
	}

	for i := range t.Bosses.Bosses {
		b := &t.Bosses.Bosses[i]
		orInt(&b.MaxHealth, 20)
		orFloat(&b.Speed, 1)
		orInt(&b.FireRange, 3)
		orFloat(&b.AttackCooldown, 2)
		orFloat(&b.EnrageSpeedMul, 1.5)
		orInt(&b.ChargeRange, 5)
		if b.Name == "" {
			b.Name = b.ID
		}
		for j := range b.Phases {
			orFloat(&b.Phases[j].SpeedMul, 1)
			orFloat(&b.Phases[j].AggressionMul, 1)
		}
	}
	for i := range t.Bosses.Attacks {
		a := &t.Bosses.Attacks[i]
		orFloat(&a.Duration, 2)
		if a.Name == "" {
			a.Name = a.ID
		}
	}

	c := &t.Curses
	orFloat(&c.TransferGrace, 1)
	orFloat(&c.NormalFuse, 3)
	for i := range c.Curses {
		if c.Curses[i].Kind != "swap" {
			orFloat(&c.Curses[i].Duration, 10)
		}
	}
}

func (t *Tables) index() error {
	if len(t.Floors.Floors) == 0 {
		return ErrNoFloors
	}
	t.enemyByType = make(map[string]*EnemyDef, len(t.Enemies.Enemies))
	for i := range t.Enemies.Enemies {
		t.enemyByType[t.Enemies.Enemies[i].Type] = &t.Enemies.Enemies[i]
	}
	t.bossByID = make(map[string]*BossDef, len(t.Bosses.Bosses))
	for i := range t.Bosses.Bosses {
		t.bossByID[t.Bosses.Bosses[i].ID] = &t.Bosses.Bosses[i]
	}
	t.attackByID = make(map[string]*AttackDef, len(t.Bosses.Attacks))
	for i := range t.Bosses.Attacks {
		t.attackByID[t.Bosses.Attacks[i].ID] = &t.Bosses.Attacks[i]
	}
	t.curseByKind = make(map[string]*CurseDef, len(t.Curses.Curses))
	for i := range t.Curses.Curses {
		t.curseByKind[t.Curses.Curses[i].Kind] = &t.Curses.Curses[i]
	}
	t.floorByIndex = make(map[int]*FloorDef, len(t.Floors.Floors))
	for i := range t.Floors.Floors {
		fd := &t.Floors.Floors[i]
		t.floorByIndex[fd.Floor] = fd
	}
	return nil
}

// Validate reports structural configuration faults. These are fatal: a match
// must never start against tables that fail validation.
func (t *Tables) Validate() error {
	behaviors := map[string]bool{}
	for _, b := range KnownBehaviors {
		behaviors[b] = true
	}
	for _, e := range t.Enemies.Enemies {
		if !behaviors[e.Behavior] {
			return fmt.Errorf("enemy %s: %w %q", e.Type, ErrUnknownBehavior, e.Behavior)
		}
	}
	for _, fd := range t.Floors.Floors {
		for _, id := range fd.Bosses {
			if _, ok := t.bossByID[id]; !ok {
				return fmt.Errorf("floor %d: %w %q", fd.Floor, ErrUnknownBoss, id)
			}
		}
		for _, w := range fd.Enemies {
			if _, ok := t.enemyByType[w.Type]; !ok {
				return fmt.Errorf("floor %d: %w %q", fd.Floor, ErrUnknownEnemy, w.Type)
			}
		}
	}
	for _, b := range t.Bosses.Bosses {
		if len(b.Phases) == 0 {
			return fmt.Errorf("boss %s: %w: none defined", b.ID, ErrInvalidPhases)
		}
		for i, ph := range b.Phases {
			if i > 0 && ph.Threshold >= b.Phases[i-1].Threshold {
				return fmt.Errorf("boss %s phase %d: %w: thresholds must descend", b.ID, i, ErrInvalidPhases)
			}
			for _, a := range ph.Attacks {
				if _, ok := t.attackByID[a]; !ok {
					return fmt.Errorf("boss %s phase %d: %w %q", b.ID, i, ErrUnknownAttack, a)
				}
			}
		}
	}
	return nil
}

// Floor returns the table for floor n: the highest configured floor not above
// n. Non-positive floors map to the lowest configured floor.
func (t *Tables) Floor(n int) *FloorDef {
	if fd, ok := t.floorByIndex[n]; ok {
		return fd
	}
	var best *FloorDef
	for i := range t.Floors.Floors {
		fd := &t.Floors.Floors[i]
		if fd.Floor <= n && (best == nil || fd.Floor > best.Floor) {
			best = fd
		}
	}
	if best != nil {
		return best
	}
	lowest := &t.Floors.Floors[0]
	for i := range t.Floors.Floors {
		if t.Floors.Floors[i].Floor < lowest.Floor {
			lowest = &t.Floors.Floors[i]
		}
	}
	return lowest
}

func (t *Tables) Enemy(typ string) (*EnemyDef, bool) {
	e, ok := t.enemyByType[typ]
	return e, ok
}

func (t *Tables) Boss(id string) (*BossDef, error) {
	b, ok := t.bossByID[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownBoss, id)
	}
	return b, nil
}

// MustBoss is for callers holding validated tables; an undefined boss is a
// configuration bug, not a runtime condition.
func (t *Tables) MustBoss(id string) *BossDef {
	b, err := t.Boss(id)
	if err != nil {
		panic(err)
	}
	return b
}

func (t *Tables) Attack(id string) (*AttackDef, bool) {
	a, ok := t.attackByID[id]
	return a, ok
}

func (t *Tables) Curse(kind string) (*CurseDef, bool) {
	c, ok := t.curseByKind[kind]
	return c, ok
}

func (t *Tables) RoomMultiplier(kind string) float64 {
	return t.Floors.RoomMultipliers[kind]
}

func (t *Tables) PowerUpMultiplier(kind string) float64 {
	if v, ok := t.Floors.PowerUpMultipliers[kind]; ok {
		return v
	}
	return 1
}
