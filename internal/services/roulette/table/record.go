package table

import (
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/session"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/storage"
)

// matchRecord summarizes a finished session. Survivors share first place
// (at most one survives); eliminated players follow, last eliminated first.
func matchRecord(id string, v session.View) storage.MatchRecord {
	rec := storage.MatchRecord{
		ID:         id,
		SessionID:  v.ID,
		WinnerID:   v.WinnerID,
		WinnerName: v.WinnerName,
		Shots:      v.Shots,
		Reloads:    v.Reloads,
		StartedAt:  v.StartedAt,
		FinishedAt: v.FinishedAt,
	}
	place := 1
	for _, p := range v.Players {
		rec.Players = append(rec.Players, storage.MatchPlayer{ID: p.ID, Name: p.Name, Health: p.Health, Place: place})
	}
	if len(v.Players) > 0 {
		place++
	}
	for i := len(v.Eliminated) - 1; i >= 0; i-- {
		p := v.Eliminated[i]
		rec.Players = append(rec.Players, storage.MatchPlayer{ID: p.ID, Name: p.Name, Health: p.Health, Place: place})
		place++
	}
	return rec
}
