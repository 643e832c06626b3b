package inspect

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"crawl_core/internal/config"
	"crawl_core/internal/dungeon"
	"crawl_core/internal/grid"
	"crawl_core/internal/observability"
)

const maxPlayers = 4

// Handler serves read-only previews of generated floors.
type Handler struct {
	tables *config.Tables
	log    observability.Logger
}

func NewHandler(tables *config.Tables, log observability.Logger) *Handler {
	if log == (observability.Logger{}) {
		log = observability.Nop()
	}
	return &Handler{tables: tables, log: log}
}

// Routes builds the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(h.requestLog)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/floors/{seed}/{floor}", h.GetFloor)
		r.Get("/floors/{seed}/{floor}/rooms/{index}", h.GetRoom)
	})
	return r
}

func (h *Handler) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.log.Debugf("%s %s in %s", r.Method, r.URL.Path, time.Since(start))
	})
}

type floorResponse struct {
	Seed       int64           `json:"seed"`
	Number     int             `json:"number"`
	Aggression float64         `json:"aggression"`
	Rooms      []*dungeon.Room `json:"rooms"`
}

type roomResponse struct {
	Index   int              `json:"index"`
	Kind    dungeon.RoomKind `json:"kind"`
	BossID  string           `json:"boss_id,omitempty"`
	Players int              `json:"players"`
	Width   int              `json:"width"`
	Height  int              `json:"height"`
	Rows    []string         `json:"rows"`
	Spawns  []dungeon.Spawn  `json:"spawns"`
}

// GetFloor handles GET /api/floors/{seed}/{floor}
func (h *Handler) GetFloor(w http.ResponseWriter, r *http.Request) {
	f, ok := h.floor(w, r)
	if !ok {
		return
	}
	h.respondJSON(w, http.StatusOK, floorResponse{
		Seed:       f.Seed,
		Number:     f.Number,
		Aggression: h.tables.Floor(f.Number).Aggression,
		Rooms:      f.Rooms,
	})
}

// GetRoom handles GET /api/floors/{seed}/{floor}/rooms/{index}?players=N
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	f, ok := h.floor(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid room index")
		return
	}
	room := f.Room(index)
	if room == nil {
		h.respondError(w, http.StatusNotFound, "No such room")
		return
	}
	players := 1
	if v := r.URL.Query().Get("players"); v != "" {
		players, err = strconv.Atoi(v)
		if err != nil || players < 1 || players > maxPlayers {
			h.respondError(w, http.StatusBadRequest, "players must be between 1 and 4")
			return
		}
	}

	g := room.Grid()
	spawns, err := room.Spawns(players)
	if err != nil {
		h.log.Errorf("room %d of floor %d: %v", index, f.Number, err)
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, roomResponse{
		Index:   room.Index,
		Kind:    room.Kind,
		BossID:  room.BossID,
		Players: players,
		Width:   g.Width,
		Height:  g.Height,
		Rows:    Render(g),
		Spawns:  spawns,
	})
}

func (h *Handler) floor(w http.ResponseWriter, r *http.Request) (*dungeon.Floor, bool) {
	seed, err := strconv.ParseInt(chi.URLParam(r, "seed"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid seed")
		return nil, false
	}
	number, err := strconv.Atoi(chi.URLParam(r, "floor"))
	if err != nil || number < 1 {
		h.respondError(w, http.StatusBadRequest, "Invalid floor number")
		return nil, false
	}
	return dungeon.NewFloor(seed, number, h.tables), true
}

// Render draws one string per grid row.
func Render(g *grid.Grid) []string {
	rows := make([]string, g.Height)
	var sb strings.Builder
	for y := 0; y < g.Height; y++ {
		sb.Reset()
		for x := 0; x < g.Width; x++ {
			sb.WriteByte(glyph(g.At(grid.Pos{X: x, Y: y})))
		}
		rows[y] = sb.String()
	}
	return rows
}

func glyph(t grid.Tile) byte {
	switch t.Base() {
	case grid.HardWall:
		return '#'
	case grid.SoftBlock:
		return '+'
	case grid.PowerBomb:
		return 'b'
	case grid.PowerFire:
		return 'f'
	case grid.PowerSpeed:
		return 's'
	case grid.PowerKick:
		return 'k'
	case grid.Skull:
		return 'x'
	}
	return '.'
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Errorf("encode response: %v", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
