package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/player"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/session"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/render"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/table"
)

// DefaultSessionID names the local session.
const DefaultSessionID = "local"

type phase int

const (
	phaseLobby phase = iota
	phasePlaying
	phaseFinished
)

// Options configures a model.
type Options struct {
	Locale    string
	SessionID string
	// Players are seated before the lobby opens.
	Players []string
}

// Model is the bubbletea model of one hot-seat table.
type Model struct {
	table  *table.Table
	render *render.Renderer
	opts   Options
	keys   KeyMap
	help   help.Model
	input  textinput.Model
	log    viewport.Model

	phase  phase
	view   session.View
	seated []string
	lines  []string
	nextID int
	err    string
}

// New opens the session on t and seats opts.Players.
func New(t *table.Table, opts Options) Model {
	if opts.SessionID == "" {
		opts.SessionID = DefaultSessionID
	}
	input := textinput.New()
	input.Placeholder = "name"
	input.Prompt = "> "
	input.CharLimit = 32
	input.Width = 32
	input.Focus()

	m := Model{
		table:  t,
		render: render.New(),
		opts:   opts,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		input:  input,
		log:    viewport.New(60, 12),
	}
	m.reset(opts.Players)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.log.Width = max(msg.Width-4, 20)
		m.log.Height = max(msg.Height-14, 5)
		m.refreshLog()
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		switch m.phase {
		case phaseLobby:
			return m.updateLobby(msg)
		case phasePlaying:
			return m.updatePlaying(msg)
		default:
			if key.Matches(msg, m.keys.NewGame) {
				m.reset(m.seated)
			}
			return m, nil
		}
	}
	return m, nil
}

func (m Model) updateLobby(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Seat):
		name := strings.TrimSpace(m.input.Value())
		if name != "" {
			m.seat(name)
			m.input.Reset()
		}
		return m, nil
	case key.Matches(msg, m.keys.Start):
		events, err := m.table.Start(context.Background(), m.opts.SessionID)
		if err != nil {
			m.fail(err)
			return m, nil
		}
		m.err = ""
		m.phase = phasePlaying
		m.input.Blur()
		m.refreshView()
		m.appendEvents(events)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updatePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Shoot):
		m.act(session.ActionShoot)
	case key.Matches(msg, m.keys.UseItem):
		m.act(session.ActionUseItem)
	case key.Matches(msg, m.keys.Boost):
		if err := m.table.Boost(context.Background(), m.opts.SessionID, m.view.CurrentPlayerID); err != nil {
			m.fail(err)
			return m, nil
		}
		m.err = ""
		m.refreshView()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.log, cmd = m.log.Update(msg)
		return m, cmd
	}
	return m, nil
}

// reset opens a fresh session and seats names in order.
func (m *Model) reset(names []string) {
	m.phase = phaseLobby
	m.view = session.View{}
	m.seated = nil
	m.lines = nil
	m.nextID = 0
	m.err = ""
	m.input.Focus()
	if _, _, err := m.table.CreateOrGet(context.Background(), m.opts.SessionID); err != nil {
		m.fail(err)
		return
	}
	for _, name := range names {
		m.seat(name)
	}
	m.refreshLog()
}

func (m *Model) seat(name string) {
	m.nextID++
	id := fmt.Sprintf("p%d", m.nextID)
	ev, err := m.table.Join(context.Background(), m.opts.SessionID, id, name)
	if err != nil {
		m.fail(err)
		return
	}
	m.err = ""
	m.seated = append(m.seated, name)
	m.refreshView()
	m.appendEvents([]session.Event{ev})
}

func (m *Model) act(action session.Action) {
	// The names are taken first: a finishing shot removes the session.
	names := namesOf(m.view)
	out, err := m.table.Act(context.Background(), m.opts.SessionID, m.view.CurrentPlayerID, action)
	if err != nil {
		m.fail(err)
		return
	}
	m.err = ""
	m.render = m.render.WithNames(names)
	if out.Finished {
		m.phase = phaseFinished
		m.view.CurrentPlayerID = ""
	} else {
		m.refreshView()
	}
	m.appendEvents(out.Events)
}

func (m *Model) refreshView() {
	view, err := m.table.View(context.Background(), m.opts.SessionID)
	if err != nil {
		m.fail(err)
		return
	}
	m.view = view
	m.render = m.render.WithNames(namesOf(view))
}

func (m *Model) appendEvents(events []session.Event) {
	for _, ev := range events {
		text := m.render.Event(m.opts.Locale, ev)
		if ev.Recipient() != "" {
			text = privateStyle.Render(text)
		}
		m.lines = append(m.lines, text)
		if over, ok := ev.(session.GameOver); ok {
			m.view.WinnerID = over.WinnerID
			m.view.WinnerName = over.WinnerName
		}
	}
	m.refreshLog()
}

func (m *Model) refreshLog() {
	m.log.SetContent(lipgloss.NewStyle().Width(m.log.Width).Render(strings.Join(m.lines, "\n")))
	m.log.GotoBottom()
}

func (m *Model) fail(err error) {
	m.err = apperrors.UserMessage(err, m.opts.Locale)
}

func namesOf(v session.View) map[string]string {
	names := make(map[string]string, len(v.Players)+len(v.Eliminated))
	for _, p := range v.Players {
		names[p.ID] = p.Name
	}
	for _, p := range v.Eliminated {
		names[p.ID] = p.Name
	}
	return names
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.text("tui.title")))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(m.playersView()))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(m.log.View()))
	b.WriteString("\n")
	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}
	switch m.phase {
	case phaseLobby:
		b.WriteString(hintStyle.Render(m.text("tui.lobby_hint")))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case phaseFinished:
		b.WriteString(hintStyle.Render(m.text("tui.finished_hint")))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(phaseKeys{keys: m.keys, phase: m.phase}))
	return b.String()
}

func (m Model) playersView() string {
	if m.phase == phaseLobby {
		seated := m.text("tui.nobody")
		if len(m.seated) > 0 {
			seated = strings.Join(m.seated, ", ")
		}
		return m.text("tui.seated", seated)
	}
	if m.phase == phaseFinished {
		return m.render.Event(m.opts.Locale, session.GameOver{WinnerID: m.view.WinnerID, WinnerName: m.view.WinnerName})
	}

	lines := make([]string, 0, len(m.view.Players)+len(m.view.Eliminated)+2)
	if m.view.CurrentPlayerID != "" {
		lines = append(lines, m.text("tui.turn", namesOf(m.view)[m.view.CurrentPlayerID]))
		lines = append(lines, m.text("tui.rounds_left", m.view.RoundsLeft, m.view.ChamberSize))
	}
	for _, p := range m.view.Players {
		lines = append(lines, m.playerLine(p))
	}
	for _, p := range m.view.Eliminated {
		lines = append(lines, eliminatedStyle.Render(p.Name))
	}
	return strings.Join(lines, "\n")
}

func (m Model) playerLine(p player.Player) string {
	items := m.text("tui.no_items")
	if len(p.Items) > 0 {
		names := make([]string, 0, len(p.Items))
		for _, kind := range p.Items {
			names = append(names, m.render.ItemName(m.opts.Locale, kind))
		}
		items = strings.Join(names, ", ")
	}
	line := fmt.Sprintf("%s  %s  [%s]", p.Name, m.text("tui.health", p.Health, p.MaxHealth), items)
	if p.ID == m.view.BoostPlayerID {
		line += " ⚡ " + m.text("tui.boosted")
	}
	if p.ID == m.view.CurrentPlayerID {
		return currentPlayerStyle.Render("▶ " + line)
	}
	return playerStyle.Render("  " + line)
}

func (m Model) text(key string, args ...any) string {
	return m.render.Text(m.opts.Locale, key, args...)
}
