package combat

import (
	"fmt"

	"crawl_core/internal/config"
	"crawl_core/internal/event"
	"crawl_core/internal/grid"
)

// Roster is the match's enemy set: regular enemies, minions and bosses.
type Roster struct {
	Enemies []*EnemyState
	Bosses  []*BossController

	book   *EnemyBook
	tables *config.Tables
	nextID int
}

func NewRoster(tables *config.Tables) *Roster {
	return &Roster{book: NewEnemyBook(&tables.Enemies), tables: tables}
}

// Clear drops every enemy and boss. Ids keep counting so they stay unique
// for the whole match.
func (r *Roster) Clear() {
	clear(r.Enemies)
	clear(r.Bosses)
	r.Enemies = r.Enemies[:0]
	r.Bosses = r.Bosses[:0]
}

func (r *Roster) newID(prefix string) string {
	r.nextID++
	return fmt.Sprintf("%s-%d", prefix, r.nextID)
}

// Spawn adds a regular enemy. Unknown types are skipped.
func (r *Roster) Spawn(typ string, pos grid.Pos, now float64) (*EnemyState, bool) {
	e, ok := r.book.Instantiate(r.newID("enemy"), typ, pos, now)
	if !ok {
		return nil, false
	}
	r.Enemies = append(r.Enemies, e)
	return e, true
}

// SpawnBoss adds a boss. An undefined boss id is a configuration error.
func (r *Roster) SpawnBoss(bossID string, pos grid.Pos, now float64, emit func(event.Event)) (*BossController, error) {
	bc, err := NewBoss(r.tables, bossID, r.newID("boss"), pos, now, emit)
	if err != nil {
		return nil, err
	}
	r.Enemies = append(r.Enemies, bc.State.EnemyState)
	r.Bosses = append(r.Bosses, bc)
	return bc, nil
}

func (r *Roster) ByID(id string) *EnemyState {
	for _, e := range r.Enemies {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// At returns the first living enemy on pos.
func (r *Roster) At(pos grid.Pos) *EnemyState {
	for _, e := range r.Enemies {
		if e.Alive && e.Pos == pos {
			return e
		}
	}
	return nil
}

func (r *Roster) AliveCount() int {
	n := 0
	for _, e := range r.Enemies {
		if e.Alive {
			n++
		}
	}
	return n
}

// UpdateEnemies runs one AI tick for every living non-boss enemy.
func (r *Roster) UpdateEnemies(env *Env) {
	for i := 0; i < len(r.Enemies); i++ {
		e := r.Enemies[i]
		if e.IsBoss() {
			continue
		}
		UpdateEnemy(env, e)
	}
}

// UpdateBosses runs one boss-engine tick for every boss.
func (r *Roster) UpdateBosses(env *Env) {
	for _, bc := range r.Bosses {
		bc.Update(env)
	}
}

// Destroy is the shell reporting an enemy destroyed. Bosses take damage
// through their controller instead; minions are unlinked from their owner.
func (r *Roster) Destroy(id string, now float64, cause string, emit func(event.Event)) bool {
	e := r.ByID(id)
	if e == nil || !e.Alive || e.IsBoss() {
		return false
	}
	e.Alive = false
	e.Health = 0
	if e.OwnerID != "" {
		if owner := r.ByID(e.OwnerID); owner != nil && owner.boss != nil {
			owner.boss.OnMinionDestroyed(e.ID)
		}
	}
	emit(event.Event{T: now, Type: event.EnemyKilled, Actor: cause, Target: e.ID, Pos: e.Pos})
	return true
}

// Damage applies amount to the enemy. Regular enemies die at zero health;
// bosses go through their phase engine.
func (r *Roster) Damage(id string, amount int, now float64, cause string, emit func(event.Event)) {
	e := r.ByID(id)
	if e == nil || !e.Alive || amount <= 0 {
		return
	}
	if e.boss != nil {
		e.boss.Damage(amount, now)
		return
	}
	e.Health -= amount
	if e.Health <= 0 {
		r.Destroy(id, now, cause, emit)
	}
}

// Compact drops dead enemies and defeated bosses.
func (r *Roster) Compact() {
	alive := r.Enemies[:0]
	for _, e := range r.Enemies {
		if e.Alive {
			alive = append(alive, e)
		}
	}
	for i := len(alive); i < len(r.Enemies); i++ {
		r.Enemies[i] = nil
	}
	r.Enemies = alive

	bosses := r.Bosses[:0]
	for _, bc := range r.Bosses {
		if !bc.State.Defeated {
			bosses = append(bosses, bc)
		}
	}
	for i := len(bosses); i < len(r.Bosses); i++ {
		r.Bosses[i] = nil
	}
	r.Bosses = bosses
}

// Cleared reports whether nothing hostile remains.
func (r *Roster) Cleared() bool {
	return r.AliveCount() == 0
}
