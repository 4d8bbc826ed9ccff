package app

import (
	"fmt"
	"log"

	"github.com/therili1/buckshot-roulette-bot/internal/random"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/chamber"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/item"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/session"
)

// NewEngine builds an engine whose chambers and item handouts draw from one
// seeded source. A zero seed is replaced by a crypto/rand seed; the seed in
// use is returned so a game can be replayed.
func NewEngine(rules session.Config, seed int64) (*session.Engine, int64, error) {
	resolved, source, err := random.ResolveSeed(seed, random.NewSeed)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve seed: %w", err)
	}
	// Separate sources keep a seed's chambers independent of item dealing.
	chambers := chamber.NewRandomGenerator(random.NewRand(resolved))
	dealer := item.NewRandomDealer(random.NewRand(resolved ^ 0x5bd1e995))
	engine, err := session.NewEngine(rules, chambers, dealer)
	if err != nil {
		return nil, 0, err
	}
	log.Printf("engine seed=%d source=%s", resolved, source)
	return engine, resolved, nil
}
