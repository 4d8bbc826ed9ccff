// Package player tracks the participants of one session in join order.
package player

import (
	"fmt"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/item"
)

// Player is one participant at the table.
type Player struct {
	ID        string
	Name      string
	Health    int
	MaxHealth int
	Items     []item.Kind
}

// Alive reports whether the player still has health left.
func (p Player) Alive() bool {
	return p.Health > 0
}

func (p Player) clone() Player {
	p.Items = append([]item.Kind(nil), p.Items...)
	return p
}

// Registry holds a session's players keyed by identity, preserving join
// order. It is not safe for concurrent use; the owning session serializes
// access.
type Registry struct {
	maxHealth int
	order     []string
	players   map[string]*Player
}

// NewRegistry returns an empty registry whose players start at maxHealth.
func NewRegistry(maxHealth int) *Registry {
	return &Registry{
		maxHealth: maxHealth,
		players:   make(map[string]*Player),
	}
}

// Join registers a new player at full health.
func (r *Registry) Join(id, name string) error {
	if _, ok := r.players[id]; ok {
		return apperrors.WithMetadata(apperrors.CodeAlreadyJoined,
			fmt.Sprintf("player %s already joined", id),
			map[string]string{"PlayerID": id})
	}
	r.players[id] = &Player{
		ID:        id,
		Name:      name,
		Health:    r.maxHealth,
		MaxHealth: r.maxHealth,
	}
	r.order = append(r.order, id)
	return nil
}

// Len returns the number of registered players.
func (r *Registry) Len() int {
	return len(r.order)
}

// Contains reports whether id is registered.
func (r *Registry) Contains(id string) bool {
	_, ok := r.players[id]
	return ok
}

// Get returns a copy of the player with id.
func (r *Registry) Get(id string) (Player, bool) {
	p, ok := r.players[id]
	if !ok {
		return Player{}, false
	}
	return p.clone(), true
}

// IDs returns player identities in join order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Players returns copies of all players in join order.
func (r *Registry) Players() []Player {
	out := make([]Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id].clone())
	}
	return out
}

// ApplyDamage subtracts amount from the player's health and returns the new
// value. Health may drop below zero; callers treat <= 0 as eliminated.
func (r *Registry) ApplyDamage(id string, amount int) (int, error) {
	p, err := r.lookup(id)
	if err != nil {
		return 0, err
	}
	p.Health -= amount
	return p.Health, nil
}

// Remove deletes the player. Removing an unknown id is a no-op.
func (r *Registry) Remove(id string) {
	if _, ok := r.players[id]; !ok {
		return
	}
	delete(r.players, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// GrantItem appends kind to the player's inventory.
func (r *Registry) GrantItem(id string, kind item.Kind) error {
	p, err := r.lookup(id)
	if err != nil {
		return err
	}
	if kind == "" {
		return apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			fmt.Sprintf("blank item for player %s", id),
			map[string]string{"Field": "item"})
	}
	p.Items = append(p.Items, kind)
	return nil
}

func (r *Registry) lookup(id string) (*Player, error) {
	p, ok := r.players[id]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeUnknownPlayer,
			fmt.Sprintf("player %s is not registered", id),
			map[string]string{"PlayerID": id})
	}
	return p, nil
}
