package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"crawl_core/internal/config"
	"crawl_core/internal/event"
	"crawl_core/internal/inspect"
	"crawl_core/internal/match"
	"crawl_core/internal/observability"
)

const defaultAddr = ":8080"

func main() {
	var cfgDir, out, stream string
	var seed int64
	var floor, players, n int
	var ticks uint64
	var serve bool
	flag.StringVar(&cfgDir, "config", "", "table dir (empty: embedded defaults)")
	flag.StringVar(&out, "out", "out.json", "output file (single) or summary file (batch)")
	flag.StringVar(&stream, "stream", "", "write msgpack event batches of a single run to this file")
	flag.Int64Var(&seed, "seed", 12345, "seed")
	flag.IntVar(&floor, "floor", 1, "floor number")
	flag.IntVar(&players, "players", 2, "players (1-4)")
	flag.IntVar(&n, "n", 1, "number of simulations")
	flag.Uint64Var(&ticks, "ticks", 60*60*30, "tick limit per run")
	flag.BoolVar(&serve, "serve", false, "start the floor inspection server instead")
	flag.Parse()

	log := observability.NewLogger("simsvc")
	tables, err := loadTables(cfgDir)
	if err != nil {
		log.Errorf("load tables: %v", err)
		os.Exit(1)
	}

	if serve {
		addr := defaultAddr
		if v := os.Getenv("SIMSVC_ADDR"); v != "" {
			addr = v
		}
		h := inspect.NewHandler(tables, observability.NewLogger("inspect"))
		log.Infof("inspection server listening on %s", addr)
		if err := http.ListenAndServe(addr, h.Routes()); err != nil {
			log.Errorf("serve: %v", err)
			os.Exit(1)
		}
		return
	}

	if n <= 1 {
		if err := runSingle(tables, seed, floor, players, ticks, out, stream, log); err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
		return
	}

	type stat struct {
		Cleared  int
		Wiped    int
		Timeout  int
		Aborted  int
		SumTicks uint64
		SumRooms int
		Kills    map[string]int
		Deaths   map[string]int
	}
	st := stat{Kills: map[string]int{}, Deaths: map[string]int{}}
	var mu sync.Mutex
	wg := sync.WaitGroup{}
	workers := 8
	jobs := make(chan int, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				m, err := match.New(match.Options{
					Tables:  tables,
					Seed:    seed + int64(i),
					Floor:   floor,
					Players: players,
					Policy:  match.NewBot(),
				})
				if err != nil {
					log.Errorf("run %d: %v", i, err)
					mu.Lock()
					st.Aborted++
					mu.Unlock()
					continue
				}
				res := m.RunHeadless(ticks)
				m.Close()

				mu.Lock()
				switch res.Outcome {
				case match.Cleared:
					st.Cleared++
				case match.Wiped:
					st.Wiped++
				case match.Timeout:
					st.Timeout++
				default:
					st.Aborted++
				}
				st.SumTicks += res.Ticks
				st.SumRooms += res.RoomsCleared
				for k, v := range res.EnemyKills {
					st.Kills[k] += v
				}
				for k, v := range res.PlayerDeaths {
					st.Deaths[k] += v
				}
				mu.Unlock()
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	summary := map[string]any{
		"runs":            n,
		"floor":           floor,
		"players":         players,
		"clear_rate":      float64(st.Cleared) / float64(n),
		"wipe_rate":       float64(st.Wiped) / float64(n),
		"timeouts":        st.Timeout,
		"aborted":         st.Aborted,
		"avg_ticks":       float64(st.SumTicks) / float64(n),
		"avg_rooms":       float64(st.SumRooms) / float64(n),
		"kills_by_cause":  st.Kills,
		"deaths_by_cause": st.Deaths,
	}
	if err := os.WriteFile(out, match.MarshalPretty(summary), 0644); err != nil {
		log.Errorf("write %s: %v", out, err)
		os.Exit(1)
	}
	fmt.Printf("Batch %d done -> %s\n", n, filepath.Base(out))
}

func loadTables(dir string) (*config.Tables, error) {
	if dir == "" {
		return config.Default()
	}
	return config.LoadAll(dir)
}

func runSingle(tables *config.Tables, seed int64, floor, players int, ticks uint64, out, stream string, log observability.Logger) error {
	opts := match.Options{
		Tables:  tables,
		Seed:    seed,
		Floor:   floor,
		Players: players,
		Policy:  match.NewBot(),
		Record:  true,
		Logger:  log,
	}
	var stw *streamWriter
	if stream != "" {
		f, err := os.Create(stream)
		if err != nil {
			return fmt.Errorf("create stream: %w", err)
		}
		defer f.Close()
		stw = newStreamWriter(f)
		opts.Sink = stw.Write
	}

	m, err := match.New(opts)
	if err != nil {
		return fmt.Errorf("new match: %w", err)
	}
	res := m.RunHeadless(ticks)
	m.Close()
	if stw != nil {
		if err := stw.Close(); err != nil {
			return fmt.Errorf("stream: %w", err)
		}
	}
	if err := os.WriteFile(out, match.MarshalPretty(res), 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Printf("Single simsvc finished. Outcome=%s, rooms=%d/%d, T=%.2fs -> %s\n", res.Outcome, res.RoomsCleared, res.Rooms, res.Duration, out)
	return nil
}

// streamWriter appends msgpack batches to w. The first error sticks.
type streamWriter struct {
	bw  *bufio.Writer
	err error
}

func newStreamWriter(w io.Writer) *streamWriter {
	return &streamWriter{bw: bufio.NewWriter(w)}
}

func (s *streamWriter) Write(b event.Batch) {
	if s.err != nil {
		return
	}
	data, err := event.EncodeBatch(b)
	if err == nil {
		_, err = s.bw.Write(data)
	}
	s.err = err
}

// Close flushes buffered batches and reports the first error.
func (s *streamWriter) Close() error {
	if s.err == nil {
		s.err = s.bw.Flush()
	}
	return s.err
}
