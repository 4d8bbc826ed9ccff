package session

import (
	"fmt"
	"strconv"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/item"
)

const (
	// DefaultMaxHealth is the health every player starts with.
	DefaultMaxHealth = 5
	// DefaultMinChamber is the smallest chamber generated.
	DefaultMinChamber = 2
	// DefaultMaxChamber is the largest chamber generated.
	DefaultMaxChamber = 8
	// DefaultBoostMultiplier doubles the damage of a boosted live round.
	DefaultBoostMultiplier = 2
	// MinPlayers is the smallest table that may start.
	MinPlayers = 2
)

// Config holds the rules a table is played with.
type Config struct {
	MaxHealth       int
	MinChamber      int
	MaxChamber      int
	Items           item.Catalog
	BoostMultiplier int
}

// DefaultConfig returns the standard rules.
func DefaultConfig() Config {
	return Config{
		MaxHealth:       DefaultMaxHealth,
		MinChamber:      DefaultMinChamber,
		MaxChamber:      DefaultMaxChamber,
		Items:           item.DefaultCatalog(),
		BoostMultiplier: DefaultBoostMultiplier,
	}
}

// Validate checks the configuration bounds.
func (c Config) Validate() error {
	switch {
	case c.MaxHealth < 1:
		return invalidConfig("max_health", c.MaxHealth)
	case c.MinChamber < 1:
		return invalidConfig("min_chamber", c.MinChamber)
	case c.MaxChamber < c.MinChamber:
		return invalidConfig("max_chamber", c.MaxChamber)
	case c.BoostMultiplier < 1:
		return invalidConfig("boost_multiplier", c.BoostMultiplier)
	}
	if err := c.Items.Validate(); err != nil {
		return apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			fmt.Sprintf("items: %v", err),
			map[string]string{"Field": "items"})
	}
	return nil
}

func invalidConfig(field string, value int) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidArgument,
		fmt.Sprintf("%s out of range: %d", field, value),
		map[string]string{"Field": field, "Value": strconv.Itoa(value)})
}
