package render

import (
	"testing"

	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/chamber"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/item"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/session"
)

func TestEvent(t *testing.T) {
	r := New().WithNames(map[string]string{"u1": "Ann"})
	tests := []struct {
		name   string
		locale string
		event  session.Event
		want   string
	}{
		{name: "joined", locale: "en-US", event: session.PlayerJoined{PlayerID: "u1", PlayerName: "Ann"}, want: "Ann joined the game!"},
		{name: "joined uk", locale: "uk", event: session.PlayerJoined{PlayerName: "Оля"}, want: "Оля приєднався до гри!"},
		{name: "started", locale: "en-US", event: session.GameStarted{}, want: "The game has started!"},
		{name: "prompt", locale: "en-US", event: session.TurnPrompt{PlayerName: "Ann"}, want: "Your turn, Ann! Choose an action:"},
		{
			name:   "live",
			locale: "en-US",
			event:  session.ShotResult{ShooterName: "Ann", Round: chamber.Live, Live: true, Damage: 2, Health: 3},
			want:   "💥 Ann takes 2 damage! (HP: 3)",
		},
		{
			name:   "eliminated uk",
			locale: "uk-UA",
			event:  session.ShotResult{ShooterName: "Оля", Live: true, Damage: 1, Health: 0, Eliminated: true},
			want:   "💥 Оля отримує 1 шкоди! (HP: 0) ☠️ ВИ ВБИТІ!",
		},
		{name: "blank", locale: "fr-FR", event: session.ShotResult{ShooterName: "Ann"}, want: "💨 Ann survived!"},
		{
			name:   "reload",
			locale: "en-US",
			event: session.ReloadAnnouncement{ChamberSize: 3, Live: 1, Blank: 2, Grants: []session.Grant{
				{PlayerID: "u1", Item: item.Cuffs},
				{PlayerID: "u9", Item: item.Kind("mystery")},
			}},
			want: "🔁 New chamber and item handout!\nRounds loaded: 1 live, 2 blank.\nAnn receives: handcuffs.\nu9 receives: mystery.",
		},
		{
			name:   "item menu",
			locale: "uk-UA",
			event:  session.ItemMenu{PlayerName: "Оля", Items: []item.Kind{item.Medkit}},
			want:   "Оля, оберіть предмет: " + New().ItemName("uk-UA", item.Medkit),
		},
		{name: "winner", locale: "en-US", event: session.GameOver{WinnerID: "u1", WinnerName: "Ann"}, want: "Game over. Winner: Ann"},
		{name: "no winner uk", locale: "uk-UA", event: session.GameOver{}, want: "Гру завершено. Переможець: Ніхто"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Event(tt.locale, tt.event); got != tt.want {
				t.Fatalf("Event() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestItemName(t *testing.T) {
	r := New()
	if got := r.ItemName("en-US", item.Scanner); got != "x-ray" {
		t.Fatalf("ItemName = %q", got)
	}
	if got := r.ItemName("en-US", item.Kind("unknown")); got != "unknown" {
		t.Fatalf("ItemName fallback = %q", got)
	}
}

func TestText(t *testing.T) {
	if got := New().Text("uk-UA", "action.shoot"); got != "🔫 Вистріл" {
		t.Fatalf("Text = %q", got)
	}
}
