// Package turn sequences the live players of a session.
//
// The index only ever grows on Advance and is reduced modulo the order length
// when read, so removing a player mid-cycle never renumbers the others.
package turn

import (
	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
)

// Sequencer tracks whose turn is active.
type Sequencer struct {
	order []string
	index int
}

// New returns a sequencer over order, starting at its first entry.
func New(order []string) *Sequencer {
	return &Sequencer{order: append([]string(nil), order...)}
}

// Current returns the active player.
func (s *Sequencer) Current() (string, error) {
	if len(s.order) == 0 {
		return "", apperrors.New(apperrors.CodeNoPlayers, "turn order is empty")
	}
	return s.order[s.position()], nil
}

// Advance moves the turn to the next player.
func (s *Sequencer) Advance() {
	s.index++
}

// Remove deletes id from the order. When id sat at or before the current
// position the index steps back one, so the following Advance lands on the
// player who would have been next anyway.
func (s *Sequencer) Remove(id string) bool {
	pos := -1
	for i, existing := range s.order {
		if existing == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return false
	}
	current := s.position()
	s.order = append(s.order[:pos], s.order[pos+1:]...)
	if pos <= current {
		s.index = current - 1
	} else {
		s.index = current
	}
	return true
}

// Order returns a copy of the live turn order.
func (s *Sequencer) Order() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of players in the order.
func (s *Sequencer) Len() int {
	return len(s.order)
}

func (s *Sequencer) position() int {
	n := len(s.order)
	if n == 0 {
		return 0
	}
	return ((s.index % n) + n) % n
}
