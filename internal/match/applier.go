package match

import (
	"fmt"

	"crawl_core/internal/entity"
	"crawl_core/internal/event"
	"crawl_core/internal/grid"
)

// Applier turns a tick's events into authoritative state changes. Apply
// sees every event once, including the ones EndTick emits.
type Applier interface {
	Apply(m *Match, ev event.Event)
	EndTick(m *Match)
}

const (
	maxStat     = 8
	speedStep   = 0.25
	maxSpeed    = 2.5
	bossBlastHP = 1
)

// HeadlessApplier is the minimal authoritative step used by simsvc and the
// tests: bomb fuses, cross blasts, block destruction, deaths and pickups.
type HeadlessApplier struct {
	nextBomb int
}

func (a *HeadlessApplier) Apply(m *Match, ev event.Event) {
	switch ev.Type {
	case event.BombPlaced:
		if m.Bombs.At(ev.Pos) || !m.Grid.Walkable(ev.Pos) {
			m.refundBomb(ev.Actor)
			return
		}
		a.nextBomb++
		m.Bombs = append(m.Bombs, entity.Bomb{
			ID:        fmt.Sprintf("bomb-%d", a.nextBomb),
			OwnerID:   ev.Actor,
			Pos:       ev.Pos,
			Range:     ev.Value,
			PlacedAt:  ev.T,
			ExplodeAt: ev.T + ev.Duration,
		})
	case event.PlayerHit:
		m.killPlayer(m.Players.ByID(ev.Target), ev.Actor)
	case event.ObstacleDropped:
		kept := m.Bombs[:0]
		for _, b := range m.Bombs {
			if b.Pos == ev.Pos {
				m.refundBomb(b.OwnerID)
				continue
			}
			kept = append(kept, b)
		}
		m.Bombs = kept
		for _, e := range m.Roster.Enemies {
			if !e.Alive || e.Pos != ev.Pos {
				continue
			}
			if e.IsBoss() {
				m.Roster.Damage(e.ID, e.Health, m.Now, ev.Actor, m.emit)
				continue
			}
			m.Roster.Destroy(e.ID, m.Now, ev.Actor, m.emit)
		}
	}
}

func (a *HeadlessApplier) EndTick(m *Match) {
	a.detonate(m)
	a.contact(m)
	a.pickups(m)
}

// detonate explodes every due bomb, chaining into bombs caught in a blast.
// Blast shapes are taken from the grid before any block breaks.
func (a *HeadlessApplier) detonate(m *Match) {
	var queue []int
	for i, b := range m.Bombs {
		if m.Now >= b.ExplodeAt {
			queue = append(queue, i)
		}
	}
	if len(queue) == 0 {
		return
	}
	exploded := make([]bool, len(m.Bombs))
	for _, i := range queue {
		exploded[i] = true
	}
	type hit struct {
		pos   grid.Pos
		owner string
	}
	var hits []hit
	for q := 0; q < len(queue); q++ {
		b := m.Bombs[queue[q]]
		entity.BlastCells(m.Grid, b, func(p grid.Pos) {
			hits = append(hits, hit{p, b.OwnerID})
			for j, other := range m.Bombs {
				if !exploded[j] && other.Pos == p {
					exploded[j] = true
					queue = append(queue, j)
				}
			}
		})
		m.emit(event.Event{Type: event.BombExploded, Actor: b.OwnerID, Target: b.ID, Pos: b.Pos, Value: b.Range})
	}

	bossHit := map[string]bool{}
	for _, h := range hits {
		if t := m.Grid.At(h.pos); t.Base() == grid.SoftBlock {
			revealed := t.Reveal()
			m.Grid.Set(h.pos, revealed)
			m.emit(event.Event{Type: event.BlockDestroyed, Actor: h.owner, Pos: h.pos, Value: int(revealed), Detail: revealed.String()})
		}
		for _, p := range m.Players {
			if p.Alive && p.Pos == h.pos {
				m.killPlayer(p, h.owner)
			}
		}
		for _, e := range m.Roster.Enemies {
			if !e.Alive || e.Pos != h.pos {
				continue
			}
			if e.IsBoss() {
				if bossHit[e.ID] {
					continue
				}
				bossHit[e.ID] = true
				m.Roster.Damage(e.ID, bossBlastHP, m.Now, h.owner, m.emit)
				continue
			}
			m.Roster.Damage(e.ID, 1, m.Now, h.owner, m.emit)
		}
	}

	kept := m.Bombs[:0]
	for i, b := range m.Bombs {
		if exploded[i] {
			m.refundBomb(b.OwnerID)
			continue
		}
		kept = append(kept, b)
	}
	m.Bombs = kept
}

// contact kills players sharing a cell with a living enemy.
func (a *HeadlessApplier) contact(m *Match) {
	for _, p := range m.Players {
		if !p.Alive {
			continue
		}
		if e := m.Roster.At(p.Pos); e != nil {
			m.killPlayer(p, e.ID)
		}
	}
}

func (a *HeadlessApplier) pickups(m *Match) {
	for _, p := range m.Players {
		if !p.Alive {
			continue
		}
		t := m.Grid.At(p.Pos)
		if !t.IsPowerUp() {
			continue
		}
		m.Grid.Set(p.Pos, grid.Empty)
		switch t {
		case grid.PowerBomb:
			p.MaxBombs = min(p.MaxBombs+1, maxStat)
		case grid.PowerFire:
			p.BombRange = min(p.BombRange+1, maxStat)
		case grid.PowerSpeed:
			if p.Curse.Active() && p.Curse.SavedSpeed > 0 {
				p.Curse.SavedSpeed = min(p.Curse.SavedSpeed+speedStep, maxSpeed)
			} else {
				p.Speed = min(p.Speed+speedStep, maxSpeed)
			}
		case grid.Skull:
			m.Curses.Pickup(p, m.Players, m.Now)
		}
		m.emit(event.Event{Type: event.PowerUpCollected, Target: p.ID, Pos: p.Pos, Value: int(t), Detail: t.String()})
	}
}

func (m *Match) killPlayer(p *entity.Player, killer string) {
	if p == nil || !p.Alive {
		return
	}
	p.Alive = false
	m.emit(event.Event{Type: event.PlayerKilled, Actor: killer, Target: p.ID, Pos: p.Pos})
}

// refundBomb returns a bomb slot to whoever placed it.
func (m *Match) refundBomb(owner string) {
	if p := m.Players.ByID(owner); p != nil {
		if p.Bombs > 0 {
			p.Bombs--
		}
		return
	}
	if e := m.Roster.ByID(owner); e != nil {
		e.BombDetonated()
	}
}
