package segment

import (
	"context"
	"errors"
	"testing"
)

func TestLookaheadBufferCapacity(t *testing.T) {
	b := NewLookaheadBuffer(3)
	if b.Cap() != 4 {
		t.Fatalf("expected capacity 4, got %d", b.Cap())
	}
	frames := labelled('a', 'b', 'c', 'd', 'e')
	for i, f := range frames[:4] {
		if !b.Push(f) {
			t.Fatalf("push %d rejected", i)
		}
	}
	if b.Push(frames[4]) {
		t.Error("push into a full buffer must fail")
	}
	if b.Last() != frames[3] {
		t.Error("Last should return the newest frame")
	}
	for i := 0; i < 4; i++ {
		if got := b.Pop(); got != frames[i] {
			t.Errorf("pop %d returned the wrong frame", i)
		}
	}
	if b.Pop() != nil || b.Last() != nil {
		t.Error("empty buffer should return nil")
	}
}

func TestLookaheadRefillClearsFirst(t *testing.T) {
	b := NewLookaheadBuffer(2)
	old := labelled('x', 'y')
	b.Push(old[0])
	b.Push(old[1])

	frames := labelled('a', 'b', 'c', 'd', 'e')
	src := NewSliceSource(frames[1:]...)
	n, err := b.Refill(context.Background(), frames[0], src.Next)
	if err != nil {
		t.Fatalf("Refill failed: %v", err)
	}
	if n != 2 || b.Len() != 3 {
		t.Fatalf("expected 2 pulls and 3 frames, got %d pulls and %d frames", n, b.Len())
	}
	if src.Pulled() != 2 {
		t.Errorf("refill pulled %d frames, expected 2", src.Pulled())
	}

	got := b.Drain()
	for i, want := range frames[:3] {
		if got[i] != want {
			t.Errorf("slot %d holds the wrong frame", i)
		}
	}
	if b.Len() != 0 {
		t.Error("Drain should empty the buffer")
	}
}

func TestLookaheadRefillStopsAtEndOfStream(t *testing.T) {
	b := NewLookaheadBuffer(5)
	frames := labelled('a', 'b', 'c')
	n, err := b.Refill(context.Background(), frames[0], NewSliceSource(frames[1:]...).Next)
	if err != nil {
		t.Fatalf("Refill failed: %v", err)
	}
	if n != 2 || b.Len() != 3 {
		t.Errorf("expected 2 pulls and 3 frames, got %d and %d", n, b.Len())
	}
}

func TestLookaheadRefillPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	src := &failingSource{frames: labelled('a', 'b'), failAt: 1, err: boom}
	b := NewLookaheadBuffer(4)
	n, err := b.Refill(context.Background(), labelled('z')[0], src.Next)
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 successful pull, got %d", n)
	}
}

func TestLookaheadReuseAfterPop(t *testing.T) {
	b := NewLookaheadBuffer(1)
	frames := labelled('a', 'b', 'c')
	b.Push(frames[0])
	b.Push(frames[1])
	b.Pop()
	b.Clear()
	if !b.Push(frames[2]) || !b.Push(frames[0]) {
		t.Error("cleared buffer should accept a full load again")
	}
}
