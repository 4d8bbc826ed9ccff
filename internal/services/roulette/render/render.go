// Package render turns session events into localized chat text.
package render

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/therili1/buckshot-roulette-bot/internal/platform/i18n/catalog"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/item"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/session"
)

// Renderer formats events for a locale. The zero value is not usable; call New.
type Renderer struct {
	bundle *catalog.Bundle
	names  map[string]string
}

// New returns a renderer over the embedded catalogs.
func New() *Renderer {
	return &Renderer{bundle: catalog.Default()}
}

// WithNames returns a copy that prints player names from names, keyed by
// player id, for events that only carry ids.
func (r *Renderer) WithNames(names map[string]string) *Renderer {
	clone := *r
	clone.names = names
	return &clone
}

func (r *Renderer) printer(locale string) *message.Printer {
	return message.NewPrinter(language.MustParse(r.bundle.Resolve(locale)))
}

// Text formats the catalog message key with args.
func (r *Renderer) Text(locale, key string, args ...any) string {
	return r.printer(locale).Sprintf(key, args...)
}

// ItemName returns the localized name of kind, or the kind itself when the
// catalog has no entry.
func (r *Renderer) ItemName(locale string, kind item.Kind) string {
	key := "item." + string(kind)
	if _, ok := r.bundle.Message(r.bundle.Resolve(locale), key); !ok {
		return string(kind)
	}
	return r.printer(locale).Sprintf(key)
}

// Event renders ev. Multi-line events are joined with newlines.
func (r *Renderer) Event(locale string, ev session.Event) string {
	p := r.printer(locale)
	switch e := ev.(type) {
	case session.PlayerJoined:
		return p.Sprintf("event.player_joined", e.PlayerName)
	case session.GameStarted:
		return p.Sprintf("event.game_started")
	case session.TurnPrompt:
		return p.Sprintf("event.turn_prompt", e.PlayerName)
	case session.ShotResult:
		if !e.Live {
			return p.Sprintf("event.shot_blank", e.ShooterName)
		}
		text := p.Sprintf("event.shot_live", e.ShooterName, e.Damage, e.Health)
		if e.Eliminated {
			text += p.Sprintf("event.shot_eliminated")
		}
		return text
	case session.ReloadAnnouncement:
		lines := []string{
			p.Sprintf("event.reload"),
			p.Sprintf("event.reload_rounds", e.Live, e.Blank),
		}
		for _, g := range e.Grants {
			lines = append(lines, p.Sprintf("event.item_granted", r.name(g.PlayerID), r.ItemName(locale, g.Item)))
		}
		return strings.Join(lines, "\n")
	case session.ItemMenu:
		names := make([]string, 0, len(e.Items))
		for _, kind := range e.Items {
			names = append(names, r.ItemName(locale, kind))
		}
		return p.Sprintf("event.item_menu", e.PlayerName, strings.Join(names, ", "))
	case session.GameOver:
		winner := e.WinnerName
		if e.NoWinner() {
			winner = p.Sprintf("event.no_winner")
		}
		return p.Sprintf("event.game_over", winner)
	default:
		return string(ev.Kind())
	}
}

func (r *Renderer) name(id string) string {
	if name, ok := r.names[id]; ok && name != "" {
		return name
	}
	return id
}
