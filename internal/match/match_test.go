package match

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"crawl_core/internal/config"
	"crawl_core/internal/curse"
	"crawl_core/internal/event"
	"crawl_core/internal/grid"
	"crawl_core/internal/suddendeath"
)

func tables(t *testing.T) *config.Tables {
	t.Helper()
	tb, err := config.Default()
	if err != nil {
		t.Fatalf("default tables: %v", err)
	}
	return tb
}

func newMatch(t *testing.T, opts Options) *Match {
	t.Helper()
	if opts.Tables == nil {
		opts.Tables = tables(t)
	}
	if opts.Floor == 0 {
		opts.Floor = 1
	}
	m, err := New(opts)
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

// emptyRoom strips the current room down to border walls with no enemies.
func emptyRoom(m *Match) {
	m.Roster.Clear()
	g := grid.New(m.Grid.Width, m.Grid.Height)
	for i := range g.Cells {
		if g.IsBorder(g.PosOf(i)) {
			g.Cells[i] = grid.HardWall
		}
	}
	m.Grid = g
	m.Env.Grid = g
	m.Sudden = suddendeath.NewManager(m.Tables.Match.SuddenDeath, g.Width, g.Height)
}

func TestNewMatchEntersFirstRoom(t *testing.T) {
	m := newMatch(t, Options{Seed: 42, Players: 6})
	if len(m.Players) != maxPlayers {
		t.Fatalf("player count should clamp to %d, got %d", maxPlayers, len(m.Players))
	}
	corners := m.Grid.SpawnCorners()
	for i, p := range m.Players {
		if p.Pos != corners[i] || !p.Alive {
			t.Fatalf("player %s not on its corner: %v", p.ID, p.Pos)
		}
	}
	if m.RoomIndex != 0 || m.Roster.AliveCount() == 0 {
		t.Fatalf("first room should be a populated combat room")
	}
	if !m.Timers.Pending(Countdown) {
		t.Fatalf("countdown should be armed")
	}
}

func TestSameSeedReplaysIdentically(t *testing.T) {
	run := func() Summary {
		m := newMatch(t, Options{Seed: 7, Players: 2, Policy: NewBot(), Record: true})
		return m.RunHeadless(60 * 60)
	}
	a, b := run(), run()
	if a.MatchID == b.MatchID {
		t.Fatalf("match ids should be unique")
	}
	if a.Ticks != b.Ticks || a.Outcome != b.Outcome || !reflect.DeepEqual(a.Events, b.Events) {
		t.Fatalf("replay diverged: %d/%s vs %d/%s", a.Ticks, a.Outcome, b.Ticks, b.Outcome)
	}
}

func TestCountdownBroadcast(t *testing.T) {
	m := newMatch(t, Options{Seed: 1, Players: 1, Record: true})
	for i := 0; i < 70; i++ {
		m.Step()
	}
	evs := m.Summary().Events
	if n := event.Count(evs, event.CountdownTick); n != 1 {
		t.Fatalf("want one countdown tick after 1s, got %d", n)
	}
	for _, ev := range evs {
		if ev.Type == event.CountdownTick && ev.Value != 178 && ev.Value != 179 {
			t.Fatalf("countdown value %d", ev.Value)
		}
	}
}

func TestRoomClearedAdvancesAfterDelay(t *testing.T) {
	m := newMatch(t, Options{Seed: 3, Players: 1, Record: true})
	for _, e := range m.Roster.Enemies {
		m.Roster.Destroy(e.ID, 0, "player-1", m.emit)
	}
	m.Step()
	if !m.Room.Cleared || !m.Timers.Pending(RoomAdvance) || m.Timers.Pending(Countdown) {
		t.Fatalf("clearing the room should swap the countdown for an advance timer")
	}
	delay := int(m.Tables.Match.RoomAdvanceDelay*float64(m.Tables.Match.TickRate)) + 1
	for i := 0; i < delay; i++ {
		m.Step()
	}
	if m.RoomIndex != 1 {
		t.Fatalf("expected room 1, in room %d", m.RoomIndex)
	}
	entered := 0
	for _, ev := range m.Summary().Events {
		if ev.Type == event.RoomEntered && ev.Value == 1 {
			entered++
		}
	}
	if entered != 1 || m.Summary().RoomsCleared != 1 {
		t.Fatalf("room 1 entered %d times, cleared %d", entered, m.Summary().RoomsCleared)
	}
}

func TestStaleTimerCallbacksAreDropped(t *testing.T) {
	m := newMatch(t, Options{Seed: 3, Players: 1})
	called := false
	m.guard(RoomAdvance, 4, func() { called = true })()
	if called {
		t.Fatalf("callback for another room must be dropped")
	}
	fire := m.guard(RoomAdvance, m.RoomIndex, func() { called = true })
	m.Close()
	fire()
	if called {
		t.Fatalf("callback after close must be dropped")
	}
	if m.Timers.Pending(Countdown) {
		t.Fatalf("close should cancel every timer")
	}
	m.Timers.After(Countdown, 1, func() {})
	if m.Timers.Pending(Countdown) {
		t.Fatalf("timers must not re-arm after close")
	}
}

func TestBombBlastChainsAndRevealsPowerUps(t *testing.T) {
	m := newMatch(t, Options{Seed: 5, Players: 1, Record: true})
	emptyRoom(m)
	p := m.Players[0]
	p.Pos = grid.Pos{X: 1, Y: 11}
	p.Bombs = 2
	enemy, _ := m.Roster.Spawn("grunt", grid.Pos{X: 3, Y: 1}, 0)
	m.Grid.Set(grid.Pos{X: 1, Y: 3}, grid.PackSoftBlock(grid.PowerFire))

	m.emit(event.Event{Type: event.BombPlaced, Actor: p.ID, Pos: grid.Pos{X: 1, Y: 1}, Value: 4})
	m.emit(event.Event{Type: event.BombPlaced, Actor: p.ID, Pos: grid.Pos{X: 5, Y: 1}, Value: 1, Duration: 100})
	m.Step()

	if enemy.Alive {
		t.Fatalf("enemy in the blast should die")
	}
	if got := m.Grid.At(grid.Pos{X: 1, Y: 3}); got != grid.PowerFire {
		t.Fatalf("destroyed block should reveal its power-up, got %v", got)
	}
	if len(m.Bombs) != 0 || p.Bombs != 0 {
		t.Fatalf("chained bomb should explode too: %d bombs left, %d owned", len(m.Bombs), p.Bombs)
	}
	evs := m.Summary().Events
	if event.Count(evs, event.BombExploded) != 2 || event.Count(evs, event.BlockDestroyed) != 1 {
		t.Fatalf("unexpected events %v", evs)
	}
	if !p.Alive || m.Summary().EnemyKills["player"] != 1 {
		t.Fatalf("kill should be attributed to the player")
	}
}

func TestSkullPickupCursesPlayer(t *testing.T) {
	m := newMatch(t, Options{Seed: 11, Players: 2, Record: true})
	emptyRoom(m)
	p := m.Players[0]
	at := p.Pos
	m.Grid.Set(at, grid.Skull)
	m.Step()
	if m.Grid.At(at) == grid.Skull {
		t.Fatalf("skull should be consumed")
	}
	evs := m.Summary().Events
	if event.Count(evs, event.PowerUpCollected) != 1 || event.Count(evs, event.CurseApplied) != 1 {
		t.Fatalf("expected a pickup and a curse, got %v", evs)
	}
	for _, ev := range evs {
		if ev.Type == event.CurseApplied && curse.Kind(ev.Detail) != curse.Swap && !p.Curse.Active() {
			t.Fatalf("%s should be active", ev.Detail)
		}
	}
}

func TestNoBombCurseBlocksBotBombs(t *testing.T) {
	m := newMatch(t, Options{Seed: 2, Players: 1, Record: true})
	emptyRoom(m)
	p := m.Players[0]
	m.Roster.Spawn("grunt", grid.Pos{X: 3, Y: 1}, 0)
	m.Curses.Apply(p, curse.NoBomb, m.Players, 0)
	bot := NewBot()
	if bot.tryBomb(m, p) {
		t.Fatalf("no_bomb should deny placement")
	}
	m.Now = p.Curse.ExpiresAt
	if !bot.tryBomb(m, p) {
		t.Fatalf("placement should be allowed once the curse expires")
	}
}

func TestSuddenDeathKillsWithArenaAttribution(t *testing.T) {
	m := newMatch(t, Options{Seed: 9, Players: 2, Record: true})
	emptyRoom(m)
	m.RoomStartedAt = -(m.Tables.Match.Duration - m.Tables.Match.SuddenDeath.Threshold)
	m.Step()
	if !m.Sudden.Active() {
		t.Fatalf("sudden death should be active")
	}
	victim := m.Players[0]
	if victim.Pos != (grid.Pos{X: 1, Y: 1}) || victim.Alive {
		t.Fatalf("player on the first dropped cell should die")
	}
	s := m.Summary()
	if s.PlayerDeaths[suddendeath.Killer] != 1 || !m.Players[1].Alive {
		t.Fatalf("deaths %v", s.PlayerDeaths)
	}
}

func TestWipeEndsMatch(t *testing.T) {
	m := newMatch(t, Options{Seed: 4, Players: 1})
	m.Players[0].Alive = false
	m.Step()
	if m.Outcome() != Wiped || !m.Done() || m.Timers.Pending(Countdown) {
		t.Fatalf("outcome %q", m.Outcome())
	}
	tick := m.Tick
	m.Step()
	if m.Tick != tick {
		t.Fatalf("finished matches must not tick")
	}
}

func TestSinkBatchesRoundTrip(t *testing.T) {
	var got []event.Batch
	m := newMatch(t, Options{Seed: 8, Players: 2, Policy: NewBot(), Sink: func(b event.Batch) {
		data, err := event.EncodeBatch(b)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		back, err := event.DecodeBatch(data)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		got = append(got, back)
	}})
	for i := 0; i < 120; i++ {
		m.Step()
	}
	if len(got) == 0 {
		t.Fatalf("sink saw no batches")
	}
	for _, b := range got {
		if b.Match != m.ID.String() || len(b.Events) == 0 {
			t.Fatalf("bad batch %+v", b)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	m := newMatch(t, Options{Seed: 1, Players: 1, RealTime: true})
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := m.Run(ctx, 0)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline, got %v", err)
	}
	if !m.Done() || m.Tick == 0 || m.Timers.Pending(Countdown) {
		t.Fatalf("run should tick, then close the match")
	}
}

func TestHeadlessBotRunReachesOutcome(t *testing.T) {
	m := newMatch(t, Options{Seed: 42, Players: 2, Policy: NewBot()})
	limit := uint64(60 * 60 * 20)
	s := m.RunHeadless(limit)
	if s.Outcome == Running || s.Ticks > limit {
		t.Fatalf("outcome %q after %d ticks", s.Outcome, s.Ticks)
	}
	if s.RoomsCleared > s.Rooms || (s.Outcome == Cleared && s.RoomsCleared != s.Rooms) {
		t.Fatalf("rooms %d/%d with outcome %s", s.RoomsCleared, s.Rooms, s.Outcome)
	}
	if s.PlayersAlive != m.Players.LivingCount() || (s.Outcome == Wiped && s.PlayersAlive != 0) {
		t.Fatalf("%d players alive with outcome %s", s.PlayersAlive, s.Outcome)
	}
}

func TestDroppedObstacleDefeatsBoss(t *testing.T) {
	m := newMatch(t, Options{Seed: 6, Players: 2, Record: true})
	emptyRoom(m)
	m.Players[0].Pos = grid.Pos{X: 1, Y: 11}
	cell := grid.Pos{X: 3, Y: 3}
	bc, err := m.Roster.SpawnBoss("bomb_king", cell, m.Now, m.emit)
	if err != nil {
		t.Fatalf("spawn boss: %v", err)
	}
	m.Grid.Set(cell, grid.HardWall)
	m.emit(event.Event{Type: event.ObstacleDropped, Actor: suddendeath.Killer, Pos: cell})
	m.Step()

	if bc.State.Alive || !bc.State.Defeated || bc.State.Health != 0 {
		t.Fatalf("boss alive=%v health=%d", bc.State.Alive, bc.State.Health)
	}
	if n := event.Count(m.Summary().Events, event.BossDefeated); n != 1 {
		t.Fatalf("want one defeat, got %d", n)
	}
}
