package match

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"crawl_core/internal/combat"
	"crawl_core/internal/config"
	"crawl_core/internal/curse"
	"crawl_core/internal/dungeon"
	"crawl_core/internal/entity"
	"crawl_core/internal/event"
	"crawl_core/internal/grid"
	"crawl_core/internal/observability"
	"crawl_core/internal/suddendeath"
	"crawl_core/internal/util"
)

const maxPlayers = 4

// Outcome is how a match ended.
type Outcome string

const (
	Running Outcome = ""
	Cleared Outcome = "cleared"
	Wiped   Outcome = "wiped"
	Timeout Outcome = "timeout"
	Aborted Outcome = "aborted"
)

type Options struct {
	Tables  *config.Tables
	Seed    int64
	Floor   int
	Players int
	// Policy drives player input each tick; nil leaves players idle.
	Policy Policy
	// Applier mutates authoritative state from each tick's events. Defaults
	// to a HeadlessApplier.
	Applier Applier
	// Sink receives every tick's batch after it was applied.
	Sink func(event.Batch)
	// Record keeps the full event log in the summary.
	Record bool
	// RealTime arms timers on the wall clock; Run must then drive the match.
	RealTime bool
	Logger   observability.Logger
}

// Match is one running dungeon floor. All state is owned by the goroutine
// calling Step (or Run).
type Match struct {
	ID      uuid.UUID
	Seed    int64
	Tables  *config.Tables
	Floor   *dungeon.Floor
	Room    *dungeon.Room
	Grid    *grid.Grid
	Players entity.Players
	Bombs   entity.Bombs
	Roster  *combat.Roster
	Curses  *curse.System
	Sudden  *suddendeath.Manager
	Env     *combat.Env
	Timers  *Timers
	Rng     *rand.Rand

	Tick          uint64
	Now           float64
	RoomIndex     int
	RoomStartedAt float64

	opts    Options
	log     observability.Logger
	buf     *event.Buffer
	applier Applier
	sim     *simScheduler
	inbox   chan func()
	done    chan struct{}
	closed  atomic.Bool
	once    sync.Once
	outcome Outcome
	stats   Summary
}

// New builds a match on the first room of the requested floor. A room that
// names an undefined boss is reported as an error.
func New(opts Options) (*Match, error) {
	if opts.Tables == nil {
		t, err := config.Default()
		if err != nil {
			return nil, err
		}
		opts.Tables = t
	}
	opts.Players = max(1, min(opts.Players, maxPlayers))
	if opts.Applier == nil {
		opts.Applier = &HeadlessApplier{}
	}
	if opts.Logger == (observability.Logger{}) {
		opts.Logger = observability.Nop()
	}
	tb := opts.Tables
	m := &Match{
		ID:      uuid.New(),
		Seed:    opts.Seed,
		Tables:  tb,
		Floor:   dungeon.NewFloor(opts.Seed, opts.Floor, tb),
		Roster:  combat.NewRoster(tb),
		Rng:     util.New(opts.Seed),
		opts:    opts,
		buf:     event.NewBuffer(64),
		applier: opts.Applier,
		inbox:   make(chan func(), 16),
		done:    make(chan struct{}),
	}
	m.log = opts.Logger.With("match_id", m.ID.String())
	if opts.RealTime {
		m.Timers = newTimers(wallScheduler{inbox: m.inbox, done: m.done})
	} else {
		m.sim = &simScheduler{now: func() float64 { return m.Now }}
		m.Timers = newTimers(m.sim)
	}
	m.Curses = curse.New(&tb.Curses, m.Rng, m.emit)
	for i := 0; i < opts.Players; i++ {
		m.Players = append(m.Players, entity.NewPlayer(fmt.Sprintf("player-%d", i+1), grid.Pos{}))
	}
	m.Env = &combat.Env{
		Delta:      1 / float64(tb.Match.TickRate),
		Rng:        m.Rng,
		Players:    m.Players,
		Roster:     m.Roster,
		Aggression: tb.Floor(m.Floor.Number).Aggression,
		Fuse:       tb.Curses.NormalFuse,
		Emit:       m.emit,
	}
	m.stats = Summary{
		MatchID:      m.ID.String(),
		Seed:         opts.Seed,
		Floor:        m.Floor.Number,
		Players:      opts.Players,
		PlayerDeaths: map[string]int{},
		EnemyKills:   map[string]int{},
	}
	if err := m.enterRoom(0); err != nil {
		return nil, err
	}
	m.log.Infof("match started: floor %d, %d rooms, %d players", m.Floor.Number, len(m.Floor.Rooms), opts.Players)
	return m, nil
}

func (m *Match) emit(ev event.Event) {
	if ev.T == 0 {
		ev.T = m.Now
	}
	m.buf.Emit(ev)
}

// Done reports whether the match reached an outcome or was closed.
func (m *Match) Done() bool { return m.outcome != Running || m.closed.Load() }

func (m *Match) Outcome() Outcome { return m.outcome }

// Remaining is the room countdown in seconds.
func (m *Match) Remaining() float64 {
	return m.Tables.Match.Duration - (m.Now - m.RoomStartedAt)
}

// enterRoom loads room i: fresh grid and roster, players back on the spawn
// corners, and a new sudden-death schedule.
func (m *Match) enterRoom(i int) error {
	room := m.Floor.Room(i)
	if room == nil {
		return fmt.Errorf("floor %d has no room %d", m.Floor.Number, i)
	}
	spawns, err := room.Spawns(len(m.Players))
	if err != nil {
		return fmt.Errorf("room %d: %w", i, err)
	}
	m.Room = room
	m.RoomIndex = i
	m.RoomStartedAt = m.Now
	m.Grid = room.Grid()
	m.Bombs = m.Bombs[:0]
	m.Roster.Clear()
	m.Sudden = suddendeath.NewManager(m.Tables.Match.SuddenDeath, m.Grid.Width, m.Grid.Height)

	corners := m.Grid.SpawnCorners()
	for k, p := range m.Players {
		p.Pos = corners[k%len(corners)]
		p.Bombs = 0
	}
	for _, s := range spawns {
		if s.IsBoss() {
			if _, err := m.Roster.SpawnBoss(s.BossID, s.Pos, m.Now, m.emit); err != nil {
				return fmt.Errorf("room %d: %w", i, err)
			}
			continue
		}
		m.Roster.Spawn(s.Type, s.Pos, m.Now)
	}
	m.Env.Grid = m.Grid
	m.emit(event.Event{Type: event.RoomEntered, Value: i, Detail: string(room.Kind)})
	m.log.Infof("room %d (%s) entered with %d enemies", i, room.Kind, m.Roster.AliveCount())

	m.armCountdown(i)
	return nil
}

// guard wraps a timer callback so it only acts while the match is open and
// still in the room it was scheduled for.
func (m *Match) guard(p Purpose, room int, fn func()) func() {
	return func() {
		if m.closed.Load() || m.outcome != Running || m.RoomIndex != room {
			m.log.Debugf("dropped stale %s timer for room %d", p, room)
			return
		}
		fn()
	}
}

func (m *Match) armCountdown(room int) {
	every := m.Tables.Match.CountdownEvery
	m.Timers.After(Countdown, every, m.guard(Countdown, room, func() {
		m.emit(event.Event{Type: event.CountdownTick, Value: int(max(m.Remaining(), 0))})
		m.armCountdown(room)
	}))
}

// Step advances the match by one tick: player input, enemy AI, bosses,
// curses, sudden death, then the apply step.
func (m *Match) Step() {
	if m.Done() {
		return
	}
	m.Tick++
	m.Now = float64(m.Tick) * m.Env.Delta
	if m.sim != nil {
		m.sim.fire(m.Now)
	}
	env := m.Env
	env.BeginTick(m.Now)
	env.Bombs = m.Bombs

	if m.opts.Policy != nil {
		m.opts.Policy.Act(m)
	}
	m.Roster.UpdateEnemies(env)
	m.Roster.UpdateBosses(env)
	m.Curses.Update(m.Now, m.Players)
	wasActive := m.Sudden.Active()
	m.Sudden.Update(m.Now, m.Remaining(), m.Grid, m.Players, m.emit)
	if !wasActive && m.Sudden.Active() {
		m.log.Infof("sudden death in room %d", m.RoomIndex)
	}

	m.flush()
	m.checkProgress()
}

func (m *Match) flush() {
	i := 0
	apply := func() {
		for ; i < m.buf.Len(); i++ {
			m.applier.Apply(m, m.buf.Events()[i])
		}
	}
	apply()
	m.applier.EndTick(m)
	apply()
	m.Roster.Compact()

	evs := m.buf.Events()
	m.stats.observe(evs)
	if m.opts.Record {
		m.stats.Events = append(m.stats.Events, evs...)
	}
	if m.opts.Sink != nil && len(evs) > 0 {
		batch := event.Batch{Match: m.ID.String(), Tick: m.Tick, Events: make([]event.Event, len(evs))}
		copy(batch.Events, evs)
		m.opts.Sink(batch)
	}
	m.buf.Reset()
}

func (m *Match) checkProgress() {
	if m.Players.LivingCount() == 0 {
		m.finish(Wiped)
		return
	}
	if m.Room.Cleared || !m.Roster.Cleared() {
		return
	}
	m.Room.Cleared = true
	m.stats.RoomsCleared++
	m.emit(event.Event{Type: event.RoomCleared, Value: m.RoomIndex, Detail: string(m.Room.Kind)})
	m.log.Infof("room %d cleared at %.2fs", m.RoomIndex, m.Now)
	if m.RoomIndex == len(m.Floor.Rooms)-1 {
		m.flush()
		m.finish(Cleared)
		return
	}
	m.Timers.Cancel(Countdown)
	room := m.RoomIndex
	m.Timers.After(RoomAdvance, m.Tables.Match.RoomAdvanceDelay, m.guard(RoomAdvance, room, func() {
		if err := m.enterRoom(room + 1); err != nil {
			m.log.Errorf("advance from room %d: %v", room, err)
			m.finish(Aborted)
		}
	}))
}

func (m *Match) finish(o Outcome) {
	if m.outcome != Running {
		return
	}
	m.outcome = o
	m.Timers.Close()
	m.log.Infof("match finished: %s after %d ticks", o, m.Tick)
}

// Run drives Step at the configured tick rate until the match ends, ctx is
// cancelled or maxTicks (if positive) elapse.
func (m *Match) Run(ctx context.Context, maxTicks uint64) error {
	defer m.Close()
	rate := m.Tables.Match.TickRate
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-m.inbox:
			fn()
		case <-ticker.C:
			m.Step()
			if maxTicks > 0 && m.Tick >= maxTicks {
				m.finish(Timeout)
			}
			if m.Done() {
				return nil
			}
		}
	}
}

// RunHeadless steps as fast as possible on match time.
func (m *Match) RunHeadless(maxTicks uint64) Summary {
	for !m.Done() {
		m.Step()
		if maxTicks > 0 && m.Tick >= maxTicks {
			m.finish(Timeout)
		}
	}
	return m.Summary()
}

// Close cancels every timer. Safe to call more than once and from other
// goroutines.
func (m *Match) Close() {
	m.once.Do(func() {
		m.closed.Store(true)
		m.Timers.Close()
		close(m.done)
	})
}
