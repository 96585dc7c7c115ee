// Package tui is the interactive parcel search screen.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/kataster/internal/models"
	"github.com/UnknownOlympus/kataster/internal/render"
	"github.com/UnknownOlympus/kataster/internal/screen"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultCols = 72
	defaultRows = 20
	// Rows taken by the header, input, status line, help and the canvas border.
	chromeRows = 9
	chromeCols = 4
)

// Deps are the collaborators of the search screen. Store must have the canvas
// drawing and camera-fit listeners registered; NewModel adds the clearing one.
type Deps struct {
	Store    *screen.Store
	Lookuper screen.Lookuper
	Canvas   *render.Canvas
	// Refit frames the current outline again after the canvas was resized.
	Refit func(ctx context.Context, polygon models.Polygon)
	Log   *slog.Logger
}

type lookupDoneMsg struct {
	seq    uint64
	result models.LookupResult
}

// Model is the bubbletea model of the search screen.
type Model struct {
	ctx   context.Context
	deps  Deps
	theme Theme

	input   textinput.Model
	spinner spinner.Model
}

// Run shows the search screen until the user quits or ctx is cancelled.
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(safeModel{m: NewModel(ctx, deps)}, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// NewModel creates an idle search screen.
func NewModel(ctx context.Context, deps Deps) Model {
	input := textinput.New()
	input.Placeholder = "parcel identifier, e.g. 141201_1.0001.6509"
	input.Prompt = "> "
	input.Focus()

	deps.Canvas.Resize(defaultCols, defaultRows)
	// The outline of the previous search must not stay on screen while loading or next to an error.
	deps.Store.OnCleared(func(context.Context) { deps.Canvas.Clear() })

	return Model{
		ctx:     ctx,
		deps:    deps,
		theme:   DefaultTheme(),
		input:   input,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-chromeCols-len(m.input.Prompt), 1)
		m.deps.Canvas.Resize(max(msg.Width-chromeCols, 1), max(msg.Height-chromeRows, 1))
		if st := m.deps.Store.State(); !st.Polygon.Empty() && m.deps.Refit != nil {
			m.deps.Refit(m.ctx, st.Polygon)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.search(strings.TrimSpace(m.input.Value()))
		}

	case lookupDoneMsg:
		m.deps.Store.Finish(m.ctx, msg.seq, msg.result)
		return m, nil

	case spinner.TickMsg:
		if !m.deps.Store.State().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// search enters Loading and starts exactly one lookup in the background.
// Identifiers are passed through untouched; the registry decides what exists.
func (m Model) search(identifier string) tea.Cmd {
	seq := m.deps.Store.Begin(m.ctx, identifier)
	lookuper, ctx := m.deps.Lookuper, m.ctx

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return lookupDoneMsg{seq: seq, result: lookuper.Lookup(ctx, identifier)}
	})
}

func (m Model) View() string {
	st := m.deps.Store.State()

	header := m.theme.Title.Render("kataster") + " " +
		m.theme.Subtitle.Render("parcel outlines from the Polish land registry")

	var status string
	switch st.Phase {
	case screen.PhaseIdle:
		status = m.theme.Subtitle.Render("Enter an identifier and press enter.")
	case screen.PhaseLoading:
		status = m.spinner.View() + " Searching " + st.Identifier + "..."
	case screen.PhaseDisplayingPolygon:
		status = m.theme.Success.Render(fmt.Sprintf("Parcel %s: %d points", st.Identifier, len(st.Polygon)))
	case screen.PhaseShowingError:
		status = m.theme.Error.Render(st.Error)
	}

	help := m.theme.Help.Render("enter search • esc quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.input.View(),
		status,
		m.theme.Card.Render(m.deps.Canvas.String()),
		help,
	)
}
