package suddendeath

import (
	"crawl_core/internal/config"
	"crawl_core/internal/entity"
	"crawl_core/internal/event"
	"crawl_core/internal/grid"
)

// Killer is the attribution for deaths caused by a falling obstacle.
const Killer = "arena"

// FallingBlock is a recently dropped obstacle, kept for display.
type FallingBlock struct {
	Pos       grid.Pos `json:"pos"`
	DroppedAt float64  `json:"dropped_at"`
}

// Manager shrinks the arena once the match countdown crosses the
// threshold.
type Manager struct {
	cfg        config.SuddenDeathConfig
	order      []grid.Pos
	next       int
	active     bool
	nextDropAt float64
	falling    []FallingBlock
}

func NewManager(cfg config.SuddenDeathConfig, width, height int) *Manager {
	return &Manager{cfg: cfg, order: Spiral(width, height)}
}

func (m *Manager) Active() bool { return m.active }

// Exhausted reports whether every spiral cell has been consumed.
func (m *Manager) Exhausted() bool { return m.next >= len(m.order) }

// Falling lists obstacles dropped within the display window.
func (m *Manager) Falling() []FallingBlock { return m.falling }

// Update runs one tick. remaining is the match countdown in seconds.
func (m *Manager) Update(now, remaining float64, g *grid.Grid, players entity.Players, emit func(event.Event)) {
	if !m.active {
		if remaining > m.cfg.Threshold {
			return
		}
		m.active = true
		m.nextDropAt = now
		emit(event.Event{T: now, Type: event.SuddenDeathStarted, Value: len(m.order), Duration: m.cfg.Interval})
	}
	m.prune(now)
	if m.Exhausted() || now < m.nextDropAt {
		return
	}
	m.drop(now, g, players, emit)
	m.nextDropAt = now + m.cfg.Interval
}

// drop converts the next spiral cell that is not already an obstacle.
func (m *Manager) drop(now float64, g *grid.Grid, players entity.Players, emit func(event.Event)) bool {
	for m.next < len(m.order) {
		p := m.order[m.next]
		m.next++
		if !g.InBounds(p) || g.At(p).Base() == grid.HardWall {
			continue
		}
		g.Set(p, grid.HardWall)
		m.falling = append(m.falling, FallingBlock{Pos: p, DroppedAt: now})
		emit(event.Event{T: now, Type: event.ObstacleDropped, Actor: Killer, Pos: p, Value: m.next})
		for _, pl := range players {
			if pl.Alive && pl.Pos == p {
				pl.Alive = false
				emit(event.Event{T: now, Type: event.PlayerKilled, Actor: Killer, Target: pl.ID, Pos: p})
			}
		}
		return true
	}
	return false
}

func (m *Manager) prune(now float64) {
	keep := m.falling[:0]
	for _, f := range m.falling {
		if now-f.DroppedAt < m.cfg.DisplayWindow {
			keep = append(keep, f)
		}
	}
	m.falling = keep
}
