package turn

import (
	"fmt"
	"testing"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
)

func mustCurrent(t *testing.T, s *Sequencer) string {
	t.Helper()
	id, err := s.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	return id
}

func TestAdvanceWraps(t *testing.T) {
	s := New([]string{"a", "b", "c"})
	var got []string
	for i := 0; i < 7; i++ {
		got = append(got, mustCurrent(t, s))
		s.Advance()
	}
	want := "[a b c a b c a]"
	if fmt.Sprint(got) != want {
		t.Fatalf("sequence = %v, want %s", got, want)
	}
}

func TestCurrentEmpty(t *testing.T) {
	s := New(nil)
	if _, err := s.Current(); !apperrors.IsCode(err, apperrors.CodeNoPlayers) {
		t.Fatalf("expected no players, got %v", err)
	}
}

// After the current player shoots and is removed, the next Advance must land
// on whoever followed them, for every removal position and every turn offset.
func TestRemoveNeverSkipsOrRepeats(t *testing.T) {
	players := []string{"a", "b", "c", "d", "e"}
	for offset := 0; offset < 12; offset++ {
		for removePos := range players {
			t.Run(fmt.Sprintf("offset%d_remove%d", offset, removePos), func(t *testing.T) {
				s := New(players)
				for i := 0; i < offset; i++ {
					s.Advance()
				}
				current := mustCurrent(t, s)
				curPos := offset % len(players)
				removed := players[removePos]

				// Who should act after current once removed is gone.
				var expected string
				for step := 1; step <= len(players); step++ {
					candidate := players[(curPos+step)%len(players)]
					if candidate != removed {
						expected = candidate
						break
					}
				}

				if !s.Remove(removed) {
					t.Fatalf("remove %s reported missing", removed)
				}
				if removed != current {
					if got := mustCurrent(t, s); got != current {
						t.Fatalf("current changed from %s to %s after removing %s", current, got, removed)
					}
				}
				s.Advance()
				if got := mustCurrent(t, s); got != expected {
					t.Fatalf("after removing %s with %s current: next = %s, want %s", removed, current, got, expected)
				}
				if got := mustCurrent(t, s); got == removed {
					t.Fatalf("removed player %s got a turn", removed)
				}
			})
		}
	}
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	s := New([]string{"a", "b"})
	s.Advance()
	if s.Remove("zed") {
		t.Fatal("expected unknown removal to report false")
	}
	if got := mustCurrent(t, s); got != "b" {
		t.Fatalf("current = %s, want b", got)
	}
}

func TestRemoveLastPlayerLeavesEmptyOrder(t *testing.T) {
	s := New([]string{"a"})
	s.Remove("a")
	if s.Len() != 0 {
		t.Fatalf("len = %d, want 0", s.Len())
	}
	if _, err := s.Current(); err == nil {
		t.Fatal("expected error on empty order")
	}
}

func TestOrderReturnsCopy(t *testing.T) {
	s := New([]string{"a", "b"})
	order := s.Order()
	order[0] = "z"
	if got := mustCurrent(t, s); got != "a" {
		t.Fatalf("current = %s, want a", got)
	}
}
