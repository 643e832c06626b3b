package suddendeath

import (
	"sync"
	"testing"

	"crawl_core/internal/config"
	"crawl_core/internal/entity"
	"crawl_core/internal/event"
	"crawl_core/internal/grid"
)

var sdConfig = config.SuddenDeathConfig{Threshold: 60, Interval: 0.5, DisplayWindow: 1}

type recorder struct{ events []event.Event }

func (r *recorder) emit(ev event.Event) { r.events = append(r.events, ev) }

func arena() *grid.Grid {
	g := grid.New(grid.DefaultWidth, grid.DefaultHeight)
	for i := range g.Cells {
		if g.IsBorder(g.PosOf(i)) {
			g.Cells[i] = grid.HardWall
		}
	}
	return g
}

func TestSpiralVisitsEveryCellOnce(t *testing.T) {
	sizes := [][2]int{{15, 13}, {1, 1}, {1, 5}, {6, 1}, {4, 4}, {7, 3}}
	for _, sz := range sizes {
		w, h := sz[0], sz[1]
		s := Spiral(w, h)
		if len(s) != w*h {
			t.Fatalf("%dx%d: %d cells", w, h, len(s))
		}
		seen := map[grid.Pos]bool{}
		for i, p := range s {
			if p.X < 0 || p.Y < 0 || p.X >= w || p.Y >= h || seen[p] {
				t.Fatalf("%dx%d: bad or repeated cell %v", w, h, p)
			}
			seen[p] = true
			if i > 0 && p.Manhattan(s[i-1]) != 1 {
				t.Fatalf("%dx%d: jump between %v and %v", w, h, s[i-1], p)
			}
		}
	}
	s := DefaultSpiral()
	if s[0] != (grid.Pos{}) || s[1] != (grid.Pos{X: 1}) || s[14] != (grid.Pos{X: 14}) || s[15] != (grid.Pos{X: 14, Y: 1}) {
		t.Fatalf("spiral should run clockwise from the top-left corner")
	}
}

func TestSpiralIsSharedAcrossConcurrentCallers(t *testing.T) {
	var wg sync.WaitGroup
	got := make([][]grid.Pos, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = Spiral(11, 9)
		}(i)
	}
	wg.Wait()
	for i := range got {
		if &got[i][0] != &got[0][0] {
			t.Fatalf("caller %d got a different spiral instance", i)
		}
	}
}

func TestInactiveAboveThreshold(t *testing.T) {
	m := NewManager(sdConfig, grid.DefaultWidth, grid.DefaultHeight)
	rec := &recorder{}
	m.Update(10, 61, arena(), nil, rec.emit)
	if m.Active() || len(rec.events) != 0 {
		t.Fatalf("manager should wait for the threshold")
	}
}

func TestDropsSkipExistingObstacles(t *testing.T) {
	g := arena()
	g.Set(grid.Pos{X: 2, Y: 1}, grid.HardWall)
	m := NewManager(sdConfig, g.Width, g.Height)
	rec := &recorder{}

	m.Update(100, 60, g, nil, rec.emit)
	if !m.Active() || event.Count(rec.events, event.SuddenDeathStarted) != 1 {
		t.Fatalf("should start at the threshold")
	}
	if n := event.Count(rec.events, event.ObstacleDropped); n != 1 || rec.events[1].Pos != (grid.Pos{X: 1, Y: 1}) {
		t.Fatalf("first drop should skip the border and land on (1,1): %v", rec.events)
	}

	m.Update(100.25, 59, g, nil, rec.emit)
	if event.Count(rec.events, event.ObstacleDropped) != 1 {
		t.Fatalf("dropped before the interval elapsed")
	}
	m.Update(100.5, 59, g, nil, rec.emit)
	last := rec.events[len(rec.events)-1]
	if last.Type != event.ObstacleDropped || last.Pos != (grid.Pos{X: 3, Y: 1}) {
		t.Fatalf("existing wall at (2,1) should be skipped, got %+v", last)
	}
}

func TestNoCellIsDroppedTwice(t *testing.T) {
	g := arena()
	open := 0
	for _, c := range g.Cells {
		if c.Base() != grid.HardWall {
			open++
		}
	}
	m := NewManager(sdConfig, g.Width, g.Height)
	rec := &recorder{}
	now := 0.0
	for i := 0; !m.Exhausted() && i < 10000; i++ {
		m.Update(now, 30, g, nil, rec.emit)
		now += 1.0 / 60
	}
	if !m.Exhausted() {
		t.Fatalf("spiral never finished")
	}
	seen := map[grid.Pos]bool{}
	for _, ev := range rec.events {
		if ev.Type != event.ObstacleDropped {
			continue
		}
		if seen[ev.Pos] {
			t.Fatalf("cell %v dropped twice", ev.Pos)
		}
		seen[ev.Pos] = true
	}
	if len(seen) != open {
		t.Fatalf("dropped %d cells, want %d", len(seen), open)
	}
	for i, c := range g.Cells {
		if c.Base() != grid.HardWall {
			t.Fatalf("cell %v still open", g.PosOf(i))
		}
	}
}

func TestObstacleKillsOccupantWithArenaAttribution(t *testing.T) {
	g := arena()
	victim := entity.NewPlayer("victim", grid.Pos{X: 2, Y: 1})
	bystander := entity.NewPlayer("bystander", grid.Pos{X: 7, Y: 6})
	players := entity.Players{victim, bystander}
	m := NewManager(sdConfig, g.Width, g.Height)
	rec := &recorder{}

	m.Update(0, 60, g, players, rec.emit)
	if !victim.Alive {
		t.Fatalf("victim died before its cell dropped")
	}
	m.Update(0.5, 59.5, g, players, rec.emit)
	if victim.Alive || !bystander.Alive {
		t.Fatalf("only the occupant of the dropped cell dies")
	}
	var killed *event.Event
	for i := range rec.events {
		if rec.events[i].Type == event.PlayerKilled {
			killed = &rec.events[i]
		}
	}
	if killed == nil || killed.Actor != Killer || killed.Target != "victim" {
		t.Fatalf("expected an arena kill, got %+v", killed)
	}
}

func TestFallingBlocksPrunedAfterWindow(t *testing.T) {
	g := arena()
	m := NewManager(sdConfig, g.Width, g.Height)
	rec := &recorder{}
	m.Update(0, 60, g, nil, rec.emit)
	if len(m.Falling()) != 1 {
		t.Fatalf("expected one falling block")
	}
	m.Update(0.5, 60, g, nil, rec.emit)
	m.Update(1.0, 60, g, nil, rec.emit)
	if len(m.Falling()) != 2 || m.Falling()[0].DroppedAt != 0.5 {
		t.Fatalf("block from t=0 should be pruned at t=1, got %+v", m.Falling())
	}
}
