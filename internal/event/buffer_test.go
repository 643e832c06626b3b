package event

import (
	"testing"

	"crawl_core/internal/grid"
)

func TestBufferReuseKeepsCapacity(t *testing.T) {
	b := NewBuffer(4)
	b.Emit(Event{Type: EnemyMoved})
	b.Emit(Event{Type: BombPlaced})
	if b.Len() != 2 {
		t.Fatalf("expected 2 events, got %d", b.Len())
	}
	before := cap(b.Events())
	b.Reset()
	if b.Len() != 0 {
		t.Fatalf("reset should empty the buffer")
	}
	if cap(b.Events()) != before {
		t.Fatalf("reset should keep the backing array")
	}
}

func TestBatchCodec(t *testing.T) {
	in := Batch{Match: "m-1", Tick: 12, Events: []Event{
		{T: 0.2, Type: BombPlaced, Actor: "enemy-3", Pos: grid.Pos{X: 3, Y: 5}, Value: 2, Duration: 3},
		{T: 0.2, Type: PlayerKilled, Target: "p1", Detail: "arena"},
	}}
	data, err := EncodeBatch(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeBatch(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Match != in.Match || out.Tick != in.Tick || len(out.Events) != 2 {
		t.Fatalf("batch header mismatch: %+v", out)
	}
	if out.Events[0] != in.Events[0] || out.Events[1] != in.Events[1] {
		t.Fatalf("events mismatch: %+v", out.Events)
	}
	if Count(out.Events, PlayerKilled) != 1 {
		t.Fatalf("expected one kill")
	}
	if _, err := DecodeBatch([]byte{0xc1}); err == nil {
		t.Fatalf("expected error for garbage input")
	}
}
