package chamber

import (
	"math/rand"
	"sync"
)

// Round is one live-or-blank unit consumed by a single shot.
type Round uint8

const (
	// Blank rounds leave the shooter unharmed.
	Blank Round = iota
	// Live rounds deal damage.
	Live
)

// String returns the wire name of the round.
func (r Round) String() string {
	if r == Live {
		return "live"
	}
	return "blank"
}

// Count returns the number of live and blank rounds in rounds.
func Count(rounds []Round) (live, blank int) {
	for _, r := range rounds {
		if r == Live {
			live++
		} else {
			blank++
		}
	}
	return live, blank
}

// Generator produces the rounds for one reload cycle. Callers guarantee
// 1 <= minTotal <= maxTotal.
type Generator interface {
	Generate(minTotal, maxTotal int) []Round
}

// RandomGenerator draws chambers from a seeded math/rand source. It is safe
// for concurrent use.
type RandomGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomGenerator returns a generator drawing from rng.
func NewRandomGenerator(rng *rand.Rand) *RandomGenerator {
	return &RandomGenerator{rng: rng}
}

// Generate picks a total in [minTotal, maxTotal], a live count in [1, total],
// and returns a uniform permutation of that multiset.
func (g *RandomGenerator) Generate(minTotal, maxTotal int) []Round {
	g.mu.Lock()
	defer g.mu.Unlock()

	total := between(g.rng, minTotal, maxTotal)
	live := between(g.rng, 1, total)

	rounds := make([]Round, total)
	for i := 0; i < live; i++ {
		rounds[i] = Live
	}
	g.rng.Shuffle(len(rounds), func(i, j int) {
		rounds[i], rounds[j] = rounds[j], rounds[i]
	})
	return rounds
}

// between returns a uniform integer in [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

// Sequence replays scripted chambers in order and repeats the last one once
// the script is exhausted. Bounds passed to Generate are ignored.
type Sequence struct {
	mu       sync.Mutex
	chambers [][]Round
	next     int
}

// NewSequence returns a generator that yields chambers in order.
func NewSequence(chambers ...[]Round) *Sequence {
	return &Sequence{chambers: chambers}
}

// Generate returns a copy of the next scripted chamber.
func (s *Sequence) Generate(int, int) []Round {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.chambers) == 0 {
		return []Round{Live}
	}
	idx := s.next
	if idx >= len(s.chambers) {
		idx = len(s.chambers) - 1
	} else {
		s.next++
	}
	return append([]Round(nil), s.chambers[idx]...)
}

// Calls reports how many scripted chambers have been handed out, capped at
// the script length.
func (s *Sequence) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
