package curse

import "crawl_core/internal/entity"

func active(p *entity.Player, kind Kind, now float64) bool {
	return p.Curse.Kind == kind && now < p.Curse.ExpiresAt
}

// CanPlaceBomb is false while a no_bomb curse is running.
func CanPlaceBomb(p *entity.Player, now float64) bool {
	return !active(p, NoBomb, now)
}

func ControlsReversed(p *entity.Player, now float64) bool {
	return active(p, Reverse, now)
}

func MustAutoBomb(p *entity.Player, now float64) bool {
	return active(p, AutoBomb, now)
}

// Remaining is the time left on p's curse, or zero.
func Remaining(p *entity.Player, now float64) float64 {
	if !p.Curse.Active() || now >= p.Curse.ExpiresAt {
		return 0
	}
	return p.Curse.ExpiresAt - now
}

// FuseDuration is the fuse for a bomb p places now.
func (s *System) FuseDuration(p *entity.Player, now float64) float64 {
	if active(p, ShortFuse, now) {
		if def := s.defs[ShortFuse]; def != nil && def.Fuse > 0 {
			return def.Fuse
		}
	}
	return s.cfg.NormalFuse
}
