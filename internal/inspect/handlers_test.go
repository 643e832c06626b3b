package inspect

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crawl_core/internal/config"
	"crawl_core/internal/observability"
)

func server(t *testing.T) *httptest.Server {
	t.Helper()
	tb, err := config.Default()
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	srv := httptest.NewServer(NewHandler(tb, observability.Nop()).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := server(t)
	var body map[string]string
	if code := get(t, srv, "/api/health", &body); code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("health: %d %v", code, body)
	}
}

func TestFloorTable(t *testing.T) {
	srv := server(t)
	var f floorResponse
	if code := get(t, srv, "/api/floors/42/2", &f); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if f.Seed != 42 || f.Number != 2 || len(f.Rooms) < 2 {
		t.Fatalf("unexpected floor %+v", f)
	}
	if last := f.Rooms[len(f.Rooms)-1]; last.Kind != "boss" || last.BossID == "" {
		t.Fatalf("last room should be a boss room, got %+v", last)
	}
}

func TestRoomPreviewIsDeterministic(t *testing.T) {
	srv := server(t)
	var a, b roomResponse
	get(t, srv, "/api/floors/7/1/rooms/0?players=3", &a)
	get(t, srv, "/api/floors/7/1/rooms/0?players=3", &b)
	if a.Players != 3 || len(a.Rows) != a.Height || len(a.Rows[0]) != a.Width {
		t.Fatalf("bad room shape %+v", a)
	}
	if len(a.Spawns) == 0 || len(a.Spawns) != len(b.Spawns) {
		t.Fatalf("spawns %d vs %d", len(a.Spawns), len(b.Spawns))
	}
	for i := range a.Rows {
		if a.Rows[i] != b.Rows[i] {
			t.Fatalf("row %d differs", i)
		}
	}
	if a.Rows[0][0] != '#' || a.Rows[1][1] != '.' {
		t.Fatalf("corner cells should be wall and open floor: %q %q", a.Rows[0], a.Rows[1])
	}
}

func TestBadRequests(t *testing.T) {
	srv := server(t)
	cases := map[string]int{
		"/api/floors/abc/1":                    http.StatusBadRequest,
		"/api/floors/1/0":                      http.StatusBadRequest,
		"/api/floors/1/1/rooms/x":              http.StatusBadRequest,
		"/api/floors/1/1/rooms/99":             http.StatusNotFound,
		"/api/floors/1/1/rooms/0?players=5":    http.StatusBadRequest,
		"/api/floors/1/1/rooms/0?players=zero": http.StatusBadRequest,
	}
	for path, want := range cases {
		var body map[string]string
		if code := get(t, srv, path, &body); code != want || body["error"] == "" {
			t.Fatalf("%s: got %d %v, want %d", path, code, body, want)
		}
	}
}

func TestEncodeFailureIsLogged(t *testing.T) {
	tb, err := config.Default()
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	var logs bytes.Buffer
	h := NewHandler(tb, observability.NewLoggerTo(&logs, "inspect", slog.LevelDebug))
	h.respondJSON(httptest.NewRecorder(), http.StatusOK, make(chan int))
	if !strings.Contains(logs.String(), "encode response") {
		t.Fatalf("encode error not logged: %q", logs.String())
	}
}
