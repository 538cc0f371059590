package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"recipeflow/internal/recipe"
	"recipeflow/internal/recipectx"
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 1)
	styleBase   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
	styleHelp   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	styleOK     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Padding(0, 1)
	styleErr    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Padding(0, 1)
	statusGlyph = map[stepStatus]string{
		statusPending: "·  pending",
		statusRunning: "▶  running",
		statusDone:    "✓  done",
		statusFailed:  "✗  failed",
	}
)

type stepStatus int

const (
	statusPending stepStatus = iota
	statusRunning
	statusDone
	statusFailed
)

type doneMsg struct{ err error }

type progressModel struct {
	table     table.Model
	stepTypes []string
	statuses  []stepStatus
	finished  bool
	finalErr  error
}

func newProgressModel(r *recipe.Recipe) progressModel {
	types := make([]string, len(r.Steps))
	for i, s := range r.Steps {
		types[i] = s.Type
	}

	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "STEP", Width: 24},
		{Title: "STATUS", Width: 12},
	}
	m := progressModel{
		table:     table.New(table.WithColumns(columns), table.WithRows(nil), table.WithHeight(len(types)+1)),
		stepTypes: types,
		statuses:  make([]stepStatus, len(types)),
	}

	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).BorderBottom(true).Bold(true).Foreground(lipgloss.Color("99"))
	s.Selected = s.Selected.Foreground(lipgloss.Color("229"))
	m.table.SetStyles(s)
	m.table.SetRows(m.rows())
	return m
}

func (m progressModel) rows() []table.Row {
	rows := make([]table.Row, len(m.stepTypes))
	for i, t := range m.stepTypes {
		rows[i] = table.Row{fmt.Sprintf("%d", i), t, statusGlyph[m.statuses[i]]}
	}
	return rows
}

func (m progressModel) Init() tea.Cmd { return nil }

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch ev := msg.(type) {
	case recipe.ExecutionEvent:
		if ev.Index >= 0 && ev.Index < len(m.statuses) {
			switch ev.Type {
			case recipe.EventStepStarted:
				m.statuses[ev.Index] = statusRunning
			case recipe.EventStepCompleted:
				m.statuses[ev.Index] = statusDone
			case recipe.EventStepFailed:
				m.statuses[ev.Index] = statusFailed
			}
		}
		m.table.SetRows(m.rows())
		return m, nil
	case doneMsg:
		m.finished = true
		m.finalErr = ev.err
		return m, tea.Quit
	case tea.KeyMsg:
		if ev.String() == "ctrl+c" || ev.String() == "q" {
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m progressModel) View() string {
	title := styleTitle.Render(fmt.Sprintf("recipeflow — %d step(s)", len(m.stepTypes)))
	out := title + "\n" + styleBase.Render(m.table.View()) + "\n"
	switch {
	case m.finished && m.finalErr != nil:
		out += styleErr.Render("failed: "+m.finalErr.Error()) + "\n"
	case m.finished:
		out += styleOK.Render("done") + "\n"
	}
	out += styleHelp.Render("q  quit")
	return out
}

// runWithProgressView drives a recipe's execution while a bubbletea
// program renders live progress from the Executor's event channel.
func runWithProgressView(ctx context.Context, exec *recipe.Executor, r *recipe.Recipe, store *recipectx.Store, logger *zerolog.Logger, events chan recipe.ExecutionEvent) error {
	p := tea.NewProgram(newProgressModel(r))

	var runErr error
	go func() {
		runErr = exec.Execute(ctx, r, store, logger)
		close(events)
	}()

	go func() {
		for ev := range events {
			p.Send(ev)
		}
		p.Send(doneMsg{err: runErr})
	}()

	if _, err := p.Run(); err != nil {
		return err
	}
	return runErr
}
