package match

import (
	"encoding/json"
	"strings"

	"crawl_core/internal/event"
)

// Summary is the result record of one match.
type Summary struct {
	MatchID        string         `json:"match_id"`
	Seed           int64          `json:"seed"`
	Floor          int            `json:"floor"`
	Players        int            `json:"players"`
	Outcome        Outcome        `json:"outcome"`
	Ticks          uint64         `json:"ticks"`
	Duration       float64        `json:"duration"`
	RoomsCleared   int            `json:"rooms_cleared"`
	Rooms          int            `json:"rooms"`
	BossesDefeated int            `json:"bosses_defeated"`
	PlayersAlive   int            `json:"players_alive"`
	PlayerDeaths   map[string]int `json:"player_deaths"`
	EnemyKills     map[string]int `json:"enemy_kills"`
	Curses         int            `json:"curses"`
	Obstacles      int            `json:"obstacles"`
	Events         []event.Event  `json:"events,omitempty"`
}

// Cause groups an actor id by kind: "player-2" -> "player", "boss-7" ->
// "boss", "arena" -> "arena".
func Cause(actor string) string {
	if actor == "" {
		return "unknown"
	}
	if i := strings.LastIndexByte(actor, '-'); i > 0 {
		return actor[:i]
	}
	return actor
}

func (s *Summary) observe(evs []event.Event) {
	for _, ev := range evs {
		switch ev.Type {
		case event.PlayerKilled:
			s.PlayerDeaths[Cause(ev.Actor)]++
		case event.EnemyKilled:
			s.EnemyKills[Cause(ev.Actor)]++
		case event.BossDefeated:
			s.BossesDefeated++
		case event.CurseApplied:
			s.Curses++
		case event.ObstacleDropped:
			s.Obstacles++
		}
	}
}

// Summary snapshots the running totals.
func (m *Match) Summary() Summary {
	s := m.stats
	s.Outcome = m.outcome
	s.Ticks = m.Tick
	s.Duration = m.Now
	s.Rooms = len(m.Floor.Rooms)
	s.PlayersAlive = m.Players.LivingCount()
	return s
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
