package session

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestAwaitingSearchTransitions(t *testing.T) {
	s := New(nil)
	if s.IsAwaitingSearch(1) {
		t.Fatal("new chat must be idle")
	}
	s.MarkAwaitingSearch(1)
	s.MarkAwaitingSearch(1)
	if !s.IsAwaitingSearch(1) || s.Pending() != 1 {
		t.Fatal("mark must be idempotent and visible")
	}
	if s.IsAwaitingSearch(2) {
		t.Fatal("chats must be independent")
	}
	s.ClearAwaitingSearch(1)
	if s.IsAwaitingSearch(1) || s.Pending() != 0 {
		t.Fatal("clear must return to idle")
	}
}

func TestConsumeAwaitingSearchOnce(t *testing.T) {
	s := New(nil)
	if s.ConsumeAwaitingSearch(5) {
		t.Fatal("idle chat consumed")
	}
	s.MarkAwaitingSearch(5)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.ConsumeAwaitingSearch(5) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	if wins.Load() != 1 {
		t.Fatalf("wins = %d, want 1", wins.Load())
	}
	if s.IsAwaitingSearch(5) {
		t.Fatal("flag must be cleared after consume")
	}
}
