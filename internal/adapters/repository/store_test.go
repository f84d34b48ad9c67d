package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
)

type storeFactory func(t *testing.T) Store

func stores() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) Store {
			s := NewMemoryStore(context.Background(), WithMetricsUpdateInterval(10*time.Millisecond))
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "events.db"),
				WithMetricsUpdateInterval(10*time.Millisecond))
			if err != nil {
				t.Fatalf("open sqlite store: %v", err)
			}
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func batch(prefix string, n int) []model.Event {
	out := make([]model.Event, n)
	for i := range out {
		out[i] = model.Event{
			"id":         fmt.Sprintf("%s-%d", prefix, i),
			"category":   "TACKLE",
			"players":    []any{"10"},
			"extra_data": map[string]any{"Game_Time": "01:00"},
		}
	}
	return out
}

func TestStore_AppendAndRead(t *testing.T) {
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			added, err := s.Append(ctx, "m1", batch("a", 3))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if added != 3 {
				t.Errorf("expected 3 added, got %d", added)
			}

			// Re-sending overlaps on a-1 and a-2.
			added, err = s.Append(ctx, "m1", append(batch("a", 3)[1:], batch("b", 1)...))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if added != 1 {
				t.Errorf("expected 1 added, got %d", added)
			}

			events, err := s.Events(ctx, "m1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := []string{"a-0", "a-1", "a-2", "b-0"}
			if len(events) != len(want) {
				t.Fatalf("expected %d events, got %d", len(want), len(events))
			}
			for i, id := range want {
				if events[i].ID() != id {
					t.Errorf("event %d: expected %s, got %s", i, id, events[i].ID())
				}
			}
			if players, ok := events[0].Get("players"); !ok || len(players.([]any)) != 1 {
				t.Errorf("expected players to survive storage, got %v", players)
			}

			n, err := s.Count(ctx, "m1")
			if err != nil || n != 4 {
				t.Errorf("expected count 4, got %d (%v)", n, err)
			}
		})
	}
}

func TestStore_Matches(t *testing.T) {
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			matches, err := s.Matches(ctx)
			if err != nil || len(matches) != 0 {
				t.Fatalf("expected no matches, got %v (%v)", matches, err)
			}

			for _, id := range []string{"zeta", "alpha"} {
				if _, err := s.Append(ctx, id, batch(id, 2)); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
			matches, err = s.Matches(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := []MatchInfo{{ID: "alpha", Events: 2}, {ID: "zeta", Events: 2}}
			if len(matches) != 2 || matches[0] != want[0] || matches[1] != want[1] {
				t.Errorf("expected %v, got %v", want, matches)
			}
		})
	}
}

func TestStore_Errors(t *testing.T) {
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			if _, err := s.Events(ctx, "missing"); !errors.Is(err, ErrMatchNotFound) {
				t.Errorf("expected ErrMatchNotFound, got %v", err)
			}
			if _, err := s.Count(ctx, "missing"); !errors.Is(err, ErrMatchNotFound) {
				t.Errorf("expected ErrMatchNotFound, got %v", err)
			}
			if _, err := s.Append(ctx, " ", batch("a", 1)); !errors.Is(err, ErrInvalidMatchID) {
				t.Errorf("expected ErrInvalidMatchID, got %v", err)
			}
			if _, err := s.Append(ctx, "m", []model.Event{{"category": "TACKLE"}}); !errors.Is(err, ErrMissingEventID) {
				t.Errorf("expected ErrMissingEventID, got %v", err)
			}
			if _, err := s.Events(ctx, "m"); !errors.Is(err, ErrMatchNotFound) {
				t.Errorf("rejected batch must not create the match, got %v", err)
			}
		})
	}
}

func TestStore_ConcurrentAppends(t *testing.T) {
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			const workers = 8
			var wg sync.WaitGroup
			var mu sync.Mutex
			total := 0
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					n, err := s.Append(ctx, "m", batch("same", 20))
					if err != nil {
						t.Errorf("unexpected error: %v", err)
						return
					}
					mu.Lock()
					total += n
					mu.Unlock()
				}()
			}
			wg.Wait()

			if total != 20 {
				t.Errorf("expected every event stored once, got %d additions", total)
			}
		})
	}
}

func TestMemoryStore_CopiesEvents(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(ctx)
	defer s.Close()

	ev := model.Event{"id": "x", "category": "TACKLE"}
	if _, err := s.Append(ctx, "m", []model.Event{ev}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ev["category"] = "SCRUM"

	events, _ := s.Events(ctx, "m")
	if events[0]["category"] != "TACKLE" {
		t.Errorf("stored event changed with the caller's copy: %v", events[0])
	}

	if err := s.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if _, err := s.Append(ctx, "m", batch("late", 1)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "events.db")

	s, err := NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.Append(ctx, "m", batch("a", 2)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	added, err := s.Append(ctx, "m", batch("a", 3))
	if err != nil {
		t.Fatalf("append after reopen: %v", err)
	}
	if added != 1 {
		t.Errorf("expected only a-2 to be new, got %d", added)
	}
	events, err := s.Events(ctx, "m")
	if err != nil || len(events) != 3 || events[2].ID() != "a-2" {
		t.Errorf("expected a-0..a-2 in order, got %v (%v)", events, err)
	}
}
