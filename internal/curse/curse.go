package curse

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"crawl_core/internal/config"
	"crawl_core/internal/entity"
	"crawl_core/internal/event"
)

type Kind = entity.CurseKind

const (
	Slow      Kind = "slow"
	Hyper     Kind = "hyper"
	Reverse   Kind = "reverse"
	AutoBomb  Kind = "auto_bomb"
	NoBomb    Kind = "no_bomb"
	ShortFuse Kind = "short_fuse"
	Swap      Kind = "swap"
)

// pair is a directed transfer; a curse handed from -> to may not travel
// to -> from until the grace expires.
type pair struct {
	from, to string
}

// System applies, expires and transfers curses for one match.
type System struct {
	Emit func(event.Event)

	cfg   *config.CursesConfig
	defs  map[Kind]*config.CurseDef
	kinds []Kind
	rng   *rand.Rand
	grace map[pair]float64
}

func New(cfg *config.CursesConfig, rng *rand.Rand, emit func(event.Event)) *System {
	if emit == nil {
		emit = func(event.Event) {}
	}
	s := &System{
		Emit:  emit,
		cfg:   cfg,
		defs:  make(map[Kind]*config.CurseDef, len(cfg.Curses)),
		rng:   rng,
		grace: map[pair]float64{},
	}
	for i := range cfg.Curses {
		d := &cfg.Curses[i]
		s.defs[Kind(d.Kind)] = d
		s.kinds = append(s.kinds, Kind(d.Kind))
	}
	return s
}

// Kinds lists the configured curses in table order.
func (s *System) Kinds() []Kind { return s.kinds }

// Pickup applies a uniformly drawn curse to p. A cursed player is left as
// is and NoCurse is returned.
func (s *System) Pickup(p *entity.Player, players entity.Players, now float64) Kind {
	if p.Curse.Active() || len(s.kinds) == 0 {
		return entity.NoCurse
	}
	kind := s.kinds[s.rng.Intn(len(s.kinds))]
	if !s.Apply(p, kind, players, now) {
		return entity.NoCurse
	}
	return kind
}

// Apply installs kind on p. It is a no-op on a cursed or dead player or an
// unconfigured kind.
func (s *System) Apply(p *entity.Player, kind Kind, players entity.Players, now float64) bool {
	if p.Curse.Active() || !p.Alive {
		return false
	}
	def := s.defs[kind]
	if def == nil {
		return false
	}
	if kind == Swap {
		return s.swap(p, players, now)
	}
	s.install(p, kind, now+def.Duration)
	s.Emit(event.Event{T: now, Type: event.CurseApplied, Target: p.ID, Pos: p.Pos, Detail: string(kind), Duration: def.Duration})
	return true
}

// swap trades places with a random other living player. No curse state is
// installed.
func (s *System) swap(p *entity.Player, players entity.Players, now float64) bool {
	var others []*entity.Player
	for _, o := range players {
		if o != p && o.Alive {
			others = append(others, o)
		}
	}
	if len(others) == 0 {
		return false
	}
	o := others[s.rng.Intn(len(others))]
	p.Pos, o.Pos = o.Pos, p.Pos
	s.Emit(event.Event{T: now, Type: event.CurseApplied, Actor: o.ID, Target: p.ID, Pos: p.Pos, Detail: string(Swap)})
	s.Emit(event.Event{T: now, Type: event.PlayerMoved, Target: p.ID, Pos: p.Pos, Detail: string(Swap)})
	s.Emit(event.Event{T: now, Type: event.PlayerMoved, Target: o.ID, Pos: o.Pos, Detail: string(Swap)})
	return true
}

func (s *System) install(p *entity.Player, kind Kind, expiresAt float64) {
	p.Curse = entity.CurseState{Kind: kind, ExpiresAt: expiresAt, SavedSpeed: p.Speed}
	if def := s.defs[kind]; def != nil && def.Speed > 0 && (kind == Slow || kind == Hyper) {
		p.Speed = def.Speed
	}
}

func (s *System) clear(p *entity.Player) {
	if k := p.Curse.Kind; (k == Slow || k == Hyper) && p.Curse.SavedSpeed > 0 {
		p.Speed = p.Curse.SavedSpeed
	}
	p.Curse = entity.CurseState{}
}

// Remove clears p's curse and reverts its effects.
func (s *System) Remove(p *entity.Player, now float64) {
	if !p.Curse.Active() {
		return
	}
	kind := p.Curse.Kind
	s.clear(p)
	s.Emit(event.Event{T: now, Type: event.CurseRemoved, Target: p.ID, Pos: p.Pos, Detail: string(kind)})
}

// CanTransfer reports whether from's curse may move to to right now.
func (s *System) CanTransfer(from, to *entity.Player, now float64) bool {
	if from == to || !from.Alive || !to.Alive {
		return false
	}
	if !from.Curse.Active() || to.Curse.Active() {
		return false
	}
	return now >= s.grace[pair{from.ID, to.ID}]
}

// Transfer moves from's curse, kind and exact expiry, onto to and clears
// from.
func (s *System) Transfer(from, to *entity.Player, now float64) bool {
	if !s.CanTransfer(from, to, now) {
		return false
	}
	kind, expires := from.Curse.Kind, from.Curse.ExpiresAt
	s.clear(from)
	s.install(to, kind, expires)
	s.grace[pair{to.ID, from.ID}] = now + s.cfg.TransferGrace
	s.Emit(event.Event{T: now, Type: event.CurseTransferred, Actor: from.ID, Target: to.ID, Pos: to.Pos, Detail: string(kind), Duration: expires - now})
	return true
}

// Update expires finished curses, then hands curses over between players
// sharing a cell. A player takes part in at most one handover per tick.
func (s *System) Update(now float64, players entity.Players) {
	for _, p := range players {
		if p.Curse.Active() && now >= p.Curse.ExpiresAt {
			s.Remove(p, now)
		}
	}
	moved := mapset.New[string]()
	for i, a := range players {
		for _, b := range players[i+1:] {
			if a.Pos != b.Pos || moved.Has(a.ID) || moved.Has(b.ID) {
				continue
			}
			if s.Transfer(a, b, now) || s.Transfer(b, a, now) {
				moved.Put(a.ID)
				moved.Put(b.ID)
			}
		}
	}
	for k, until := range s.grace {
		if now >= until {
			delete(s.grace, k)
		}
	}
}
