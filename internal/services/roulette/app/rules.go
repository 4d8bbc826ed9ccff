package app

import (
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/item"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/session"
)

// Rules is the environment form of session.Config, shared by every binary
// that runs an engine.
type Rules struct {
	MaxHealth       int      `env:"BUCKSHOT_MAX_HEALTH" envDefault:"5"`
	MinChamber      int      `env:"BUCKSHOT_MIN_CHAMBER" envDefault:"2"`
	MaxChamber      int      `env:"BUCKSHOT_MAX_CHAMBER" envDefault:"8"`
	Items           []string `env:"BUCKSHOT_ITEMS" envSeparator:","`
	BoostMultiplier int      `env:"BUCKSHOT_BOOST_MULTIPLIER" envDefault:"2"`
	Seed            int64    `env:"BUCKSHOT_SEED"`
}

// SessionConfig converts r into validated engine rules. An empty item list
// selects the default catalog.
func (r Rules) SessionConfig() (session.Config, error) {
	cfg := session.Config{
		MaxHealth:       r.MaxHealth,
		MinChamber:      r.MinChamber,
		MaxChamber:      r.MaxChamber,
		Items:           item.DefaultCatalog(),
		BoostMultiplier: r.BoostMultiplier,
	}
	if len(r.Items) > 0 {
		catalog, err := item.ParseCatalog(r.Items)
		if err != nil {
			return session.Config{}, err
		}
		cfg.Items = catalog
	}
	if err := cfg.Validate(); err != nil {
		return session.Config{}, err
	}
	return cfg, nil
}
