package session

import (
	"fmt"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/chamber"
)

// ShotOutcome is the full effect of one trigger pull.
type ShotOutcome struct {
	ShooterID   string
	ShooterName string
	Round       chamber.Round
	Damage      int
	Health      int
	Eliminated  bool
	Reloaded    bool
	Reload      ReloadAnnouncement
}

// Result converts the outcome into its broadcast event.
func (o ShotOutcome) Result() ShotResult {
	return ShotResult{
		ShooterID:   o.ShooterID,
		ShooterName: o.ShooterName,
		Round:       o.Round,
		Live:        o.Round == chamber.Live,
		Damage:      o.Damage,
		Health:      o.Health,
		Eliminated:  o.Eliminated,
	}
}

// resolveShot fires the round under the cursor at shooterID.
//
// A live round deals one damage, multiplied when the shooter holds the boost.
// The boost marker is cleared after every shot whether or not it applied.
// A shooter at or below zero health is removed from the registry and the
// turn order in the same step. When the cursor reaches the end of the
// chamber a new one is generated and every remaining player receives one
// item.
func (e *Engine) resolveShot(s *Session, shooterID string) (ShotOutcome, error) {
	if s.status != StatusPlaying {
		return ShotOutcome{}, invalidState(s.status, "shoot")
	}
	shooter, ok := s.players.Get(shooterID)
	if !ok {
		return ShotOutcome{}, apperrors.WithMetadata(apperrors.CodeUnknownPlayer,
			fmt.Sprintf("player %s is not seated", shooterID),
			map[string]string{"PlayerID": shooterID})
	}
	if s.cursor >= len(s.chamber) {
		return ShotOutcome{}, apperrors.WithMetadata(apperrors.CodeEmptyChamber,
			fmt.Sprintf("chamber exhausted at %d/%d", s.cursor, len(s.chamber)),
			map[string]string{"SessionID": s.id})
	}

	round := s.chamber[s.cursor]
	out := ShotOutcome{
		ShooterID:   shooter.ID,
		ShooterName: shooter.Name,
		Round:       round,
		Health:      shooter.Health,
	}
	if round == chamber.Live {
		damage := 1
		if s.boost == shooterID {
			damage *= e.cfg.BoostMultiplier
		}
		health, err := s.players.ApplyDamage(shooterID, damage)
		if err != nil {
			return ShotOutcome{}, err
		}
		out.Damage = damage
		out.Health = health
	}
	s.cursor++
	s.shots++
	s.boost = ""

	if out.Health <= 0 {
		out.Eliminated = true
		s.removePlayer(shooterID)
	}
	if s.cursor >= len(s.chamber) {
		reload, err := e.reload(s)
		if err != nil {
			return ShotOutcome{}, err
		}
		out.Reloaded = true
		out.Reload = reload
	}
	return out, nil
}

// reload loads a fresh chamber and deals one item to each remaining player.
func (e *Engine) reload(s *Session) (ReloadAnnouncement, error) {
	s.chamber = e.chambers.Generate(e.cfg.MinChamber, e.cfg.MaxChamber)
	s.cursor = 0
	s.boost = ""
	s.reloads++

	live, blank := chamber.Count(s.chamber)
	announcement := ReloadAnnouncement{
		ChamberSize: len(s.chamber),
		Live:        live,
		Blank:       blank,
	}
	for _, id := range s.players.IDs() {
		kind := e.dealer.Deal(e.cfg.Items)
		if err := s.players.GrantItem(id, kind); err != nil {
			return ReloadAnnouncement{}, err
		}
		announcement.Grants = append(announcement.Grants, Grant{PlayerID: id, Item: kind})
	}
	return announcement, nil
}
