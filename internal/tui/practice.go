// Package tui is the terminal front end for a practice session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/conorfennell/kanjikoto/internal/deck"
	"github.com/conorfennell/kanjikoto/internal/practice"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 4).Align(lipgloss.Center)
	promptStyle  = lipgloss.NewStyle().Bold(true)
	readingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type completedMsg struct {
	stats deck.Stats
	err   error
}

// Model drives one session. Quitting before every card is passed abandons
// the session and records nothing.
type Model struct {
	ctx     context.Context
	svc     *practice.Service
	deck    *deck.Deck
	title   string
	keys    keyMap
	help    help.Model
	flipped bool

	completing bool
	completed  bool
	abandoned  bool
	stats      deck.Stats
	err        error
}

// New returns a model for a session over d.
func New(ctx context.Context, svc *practice.Service, d *deck.Deck, title string) Model {
	return Model{
		ctx:   ctx,
		svc:   svc,
		deck:  d,
		title: title,
		keys:  keys,
		help:  help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case completedMsg:
		m.completing = false
		m.completed = true
		m.stats = msg.stats
		m.err = msg.err

	case tea.KeyMsg:
		if m.completed {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Quit) {
			if !m.completing {
				m.abandoned = true
			}
			return m, tea.Quit
		}
		if m.completing {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Flip):
			m.flipped = !m.flipped
		default:
			ev, ok := m.keys.event(msg)
			if !ok || !m.flipped {
				return m, nil
			}
			m.svc.ApplyEvent(m.deck, ev)
			m.flipped = false
			if m.svc.IsComplete(m.deck) {
				m.completing = true
				return m, m.complete()
			}
		}
	}
	return m, nil
}

func (m Model) complete() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.svc.Complete(m.ctx, m.deck)
		return completedMsg{stats: stats, err: err}
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	if m.completed {
		if m.err != nil {
			b.WriteString(errStyle.Render("Could not save the session: " + m.err.Error()))
		} else {
			b.WriteString(summary(m.stats))
		}
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("press any key to exit"))
		b.WriteString("\n")
		return b.String()
	}

	stats := m.deck.Stats()
	b.WriteString(dimStyle.Render(fmt.Sprintf("passed %d of %d", stats.Passed, m.deck.Len())))
	b.WriteString("\n")

	card := m.deck.Current()
	face := promptStyle.Render(card.Front.Prompt)
	if m.flipped {
		face += "\n\n" + readingStyle.Render(card.Back.Reading) + "\n" + card.Back.Meaning
	}
	b.WriteString(cardStyle.Render(face))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(card.Progress.String()))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func summary(s deck.Stats) string {
	return fmt.Sprintf("Session complete in %d answers.\n\npassed %d  failed %d  repeated %d  learned %d",
		s.Total(), s.Passed, s.Failed, s.Repeated, s.Learned)
}

// Run shows the session full screen until it completes or is abandoned.
func Run(ctx context.Context, svc *practice.Service, d *deck.Deck, title string) (Model, error) {
	final, err := tea.NewProgram(New(ctx, svc, d, title), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return Model{}, err
	}
	return final.(Model), nil
}

// Completed reports whether the session finished and was recorded.
func (m Model) Completed() bool {
	return m.completed && m.err == nil
}

// Abandoned reports whether the learner quit before passing every card.
func (m Model) Abandoned() bool {
	return m.abandoned
}

// Err is the error from recording the session, if any.
func (m Model) Err() error {
	return m.err
}

// Stats returns the counters of a completed session.
func (m Model) Stats() deck.Stats {
	return m.stats
}
