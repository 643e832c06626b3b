package event

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Buffer collects the events of one tick. It is reused across ticks to keep
// the hot path allocation-free once warmed up.
type Buffer struct {
	events []Event
}

func NewBuffer(capacity int) *Buffer {
	return &Buffer{events: make([]Event, 0, capacity)}
}

func (b *Buffer) Emit(ev Event) { b.events = append(b.events, ev) }

func (b *Buffer) Events() []Event { return b.events }

func (b *Buffer) Len() int { return len(b.events) }

// Reset drops buffered events but keeps the backing array.
func (b *Buffer) Reset() { b.events = b.events[:0] }

// Batch is the wire form handed to the shell once per tick.
type Batch struct {
	Match  string  `msgpack:"m"`
	Tick   uint64  `msgpack:"n"`
	Events []Event `msgpack:"e"`
}

func EncodeBatch(b Batch) ([]byte, error) {
	data, err := msgpack.Marshal(&b)
	if err != nil {
		return nil, fmt.Errorf("encode batch %d: %w", b.Tick, err)
	}
	return data, nil
}

func DecodeBatch(data []byte) (Batch, error) {
	var b Batch
	if err := msgpack.Unmarshal(data, &b); err != nil {
		return Batch{}, fmt.Errorf("decode batch: %w", err)
	}
	return b, nil
}

// Count returns how many events of type t are in evs.
func Count(evs []Event, t Type) int {
	n := 0
	for _, ev := range evs {
		if ev.Type == t {
			n++
		}
	}
	return n
}
