package combat

import (
	"testing"

	"crawl_core/internal/config"
	"crawl_core/internal/entity"
	"crawl_core/internal/event"
	"crawl_core/internal/grid"
	"crawl_core/internal/util"
)

func tables(t *testing.T) *config.Tables {
	t.Helper()
	tb, err := config.Default()
	if err != nil {
		t.Fatalf("default tables: %v", err)
	}
	return tb
}

// openGrid is a 15x13 room with only the border walls.
func openGrid() *grid.Grid {
	g := grid.New(grid.DefaultWidth, grid.DefaultHeight)
	for i := range g.Cells {
		if g.IsBorder(g.PosOf(i)) {
			g.Cells[i] = grid.HardWall
		}
	}
	return g
}

type recorder struct{ events []event.Event }

func (r *recorder) emit(ev event.Event) { r.events = append(r.events, ev) }

func (r *recorder) count(t event.Type) int { return event.Count(r.events, t) }

func newEnv(t *testing.T, players ...*entity.Player) (*Env, *recorder) {
	t.Helper()
	rec := &recorder{}
	env := &Env{
		Delta:   1.0 / 60,
		Rng:     util.New(7),
		Grid:    openGrid(),
		Players: players,
		Roster:  NewRoster(tables(t)),
		Emit:    rec.emit,
	}
	return env, rec
}

func spawn(t *testing.T, env *Env, typ string, pos grid.Pos) *EnemyState {
	t.Helper()
	e, ok := env.Roster.Spawn(typ, pos, 0)
	if !ok {
		t.Fatalf("spawn %s failed", typ)
	}
	return e
}

func TestEveryBehaviorIsDispatched(t *testing.T) {
	for _, b := range config.KnownBehaviors {
		if behaviors[Behavior(b)] == nil {
			t.Fatalf("behavior %q has no update routine", b)
		}
	}
}

func TestNoLivingTargetIsNoop(t *testing.T) {
	p := entity.NewPlayer("p1", grid.Pos{X: 5, Y: 5})
	p.Alive = false
	env, rec := newEnv(t, p)
	for _, typ := range []string{"chaser", "lurker", "tactician", "berserker"} {
		e := spawn(t, env, typ, grid.Pos{X: 1, Y: 1})
		env.BeginTick(10)
		UpdateEnemy(env, e)
		if e.Pos != (grid.Pos{X: 1, Y: 1}) {
			t.Fatalf("%s moved without a target", typ)
		}
	}
	if len(rec.events) != 0 {
		t.Fatalf("expected no events, got %v", rec.events)
	}
}

func TestBestDirection(t *testing.T) {
	env, _ := newEnv(t)
	from := grid.Pos{X: 1, Y: 1}
	if d := BestDirection(env, from, grid.Pos{X: 5, Y: 2}); d != grid.Right {
		t.Fatalf("larger axis first: got %v", d)
	}
	if d := BestDirection(env, from, grid.Pos{X: 2, Y: 6}); d != grid.Down {
		t.Fatalf("vertical larger: got %v", d)
	}
	env.Grid.Set(grid.Pos{X: 2, Y: 1}, grid.SoftBlock)
	if d := BestDirection(env, from, grid.Pos{X: 5, Y: 2}); d != grid.Down {
		t.Fatalf("fallback to other axis: got %v", d)
	}
	env.Grid.Set(grid.Pos{X: 1, Y: 2}, grid.HardWall)
	if d := BestDirection(env, from, grid.Pos{X: 5, Y: 2}); d != grid.None {
		t.Fatalf("both axes blocked should hold: got %v", d)
	}
	env.Bombs = entity.Bombs{{Pos: grid.Pos{X: 3, Y: 3}, Range: 1}}
	if CanEnter(env, grid.Pos{X: 3, Y: 3}) {
		t.Fatalf("bomb cell must not be enterable")
	}
}

func TestChaseMoveCooldown(t *testing.T) {
	p := entity.NewPlayer("p1", grid.Pos{X: 9, Y: 1})
	env, rec := newEnv(t, p)
	e := spawn(t, env, "chaser", grid.Pos{X: 1, Y: 1})
	e.MaxBombs = 0

	// chaser: speed 2, aggression 1 => one step per 0.5s.
	env.BeginTick(0.4)
	UpdateEnemy(env, e)
	if e.Pos.X != 1 {
		t.Fatalf("moved before cooldown elapsed")
	}
	env.BeginTick(0.5)
	UpdateEnemy(env, e)
	if e.Pos != (grid.Pos{X: 2, Y: 1}) || e.Facing != grid.Right {
		t.Fatalf("expected a step right, got %v facing %v", e.Pos, e.Facing)
	}
	env.BeginTick(0.6)
	UpdateEnemy(env, e)
	if e.Pos.X != 2 {
		t.Fatalf("moved twice inside one cooldown")
	}
	if e.TargetID != "p1" || rec.count(event.EnemyMoved) != 1 {
		t.Fatalf("target=%q moves=%d", e.TargetID, rec.count(event.EnemyMoved))
	}
}

func TestBombCapAndCooldown(t *testing.T) {
	p := entity.NewPlayer("p1", grid.Pos{X: 2, Y: 1})
	env, rec := newEnv(t, p)
	e := spawn(t, env, "berserker", grid.Pos{X: 1, Y: 1})
	e.Bombs = e.MaxBombs
	for i := 1; i <= 300; i++ {
		env.BeginTick(float64(i) / 60)
		UpdateEnemy(env, e)
	}
	if n := rec.count(event.BombPlaced); n != 0 {
		t.Fatalf("placed %d bombs while at the cap", n)
	}
	e.BombDetonated()
	if e.Bombs != e.MaxBombs-1 {
		t.Fatalf("detonation should free a slot")
	}
}

func TestWanderEscapesBlast(t *testing.T) {
	env, _ := newEnv(t)
	e := spawn(t, env, "grunt", grid.Pos{X: 3, Y: 3})
	env.Bombs = entity.Bombs{{Pos: grid.Pos{X: 3, Y: 1}, Range: 3}}
	env.BeginTick(5)
	UpdateEnemy(env, e)
	if env.Danger().Has(e.Pos) {
		t.Fatalf("wanderer stayed in the blast at %v", e.Pos)
	}
}

func TestAmbushWaitsThenAligns(t *testing.T) {
	p := entity.NewPlayer("p1", grid.Pos{X: 11, Y: 1})
	env, rec := newEnv(t, p)
	e := spawn(t, env, "lurker", grid.Pos{X: 1, Y: 1})

	env.BeginTick(5)
	UpdateEnemy(env, e)
	if e.Pos != (grid.Pos{X: 1, Y: 1}) || e.TargetID != "" {
		t.Fatalf("ambusher should idle while the target is far")
	}

	p.Pos = grid.Pos{X: 4, Y: 1}
	env.BeginTick(6)
	UpdateEnemy(env, e)
	if rec.count(event.BombPlaced) != 1 {
		t.Fatalf("aligned target in range should be bombed")
	}

	p.Pos = grid.Pos{X: 3, Y: 4}
	e.Bombs = 0
	env.BeginTick(7)
	UpdateEnemy(env, e)
	if e.Pos == (grid.Pos{X: 1, Y: 1}) {
		t.Fatalf("ambusher should move to line up with the target")
	}
}

func TestPredictEscape(t *testing.T) {
	p := entity.NewPlayer("p1", grid.Pos{X: 5, Y: 5})
	env, _ := newEnv(t, p)
	if got := PredictEscape(env, p); got != p.Pos {
		t.Fatalf("a safe target stays put, got %v", got)
	}
	env.Bombs = entity.Bombs{{Pos: grid.Pos{X: 5, Y: 3}, Range: 3}}
	env.BeginTick(1)
	got := PredictEscape(env, p)
	if got.Manhattan(p.Pos) != 1 || env.Danger().Has(got) {
		t.Fatalf("expected an adjacent safe cell, got %v", got)
	}
}

func TestStrategicMovesToIntercept(t *testing.T) {
	p := entity.NewPlayer("p1", grid.Pos{X: 5, Y: 5})
	env, _ := newEnv(t, p)
	env.Bombs = entity.Bombs{{Pos: grid.Pos{X: 5, Y: 3}, Range: 3}}
	e := spawn(t, env, "tactician", grid.Pos{X: 1, Y: 5})
	e.MaxBombs = 0
	env.BeginTick(5)
	intercept := PredictEscape(env, p)
	UpdateEnemy(env, e)
	if e.Pos != (grid.Pos{X: 2, Y: 5}) || e.Pos.Manhattan(intercept) != 2 {
		t.Fatalf("expected one step toward %v, at %v", intercept, e.Pos)
	}
}
