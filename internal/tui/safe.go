package tui

import (
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

const unexpectedError = "Unexpected error (see logs)"

// safeModel keeps the terminal usable when a listener or view panics.
type safeModel struct {
	m     Model
	toast string
}

func (s safeModel) Init() tea.Cmd {
	return s.m.Init()
}

func (s safeModel) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.m.deps.Log.Error("Recovered from panic",
				"where", "tui.update",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			s.toast = unexpectedError
			tm, cmd = s, nil
		}
	}()

	inner, c := s.m.Update(msg)
	if mm, ok := inner.(Model); ok {
		s.m = mm
	}

	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.m.deps.Log.Error("Recovered from panic",
				"where", "tui.view",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			out = unexpectedError
		}
	}()

	if s.toast != "" {
		return s.m.View() + "\n" + s.m.theme.Error.Render(s.toast)
	}
	return s.m.View()
}
