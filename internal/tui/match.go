package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spigell/resudoc/internal/render"
	"github.com/spigell/resudoc/internal/resudoc"
)

func (m Model) updateMatch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.jd.Blur()
		m.view = ViewBrowse
		return m, nil

	case "tab", "shift+tab":
		if m.matchFocus == matchFocusJD {
			return m, m.focusMatch(matchFocusTags)
		}
		return m, m.focusMatch(matchFocusJD)

	case "ctrl+t":
		m.topK = nextTopK(m.topK)
		return m, nil

	case "ctrl+s":
		return m.submitMatch()
	}

	if m.matchFocus == matchFocusTags {
		names := m.tags.Names()
		switch msg.String() {
		case "left", "h":
			if m.tagCursor > 0 {
				m.tagCursor--
			}
		case "right", "l":
			if m.tagCursor < len(names) {
				m.tagCursor++
			}
		case " ", "enter":
			if m.tagCursor == 0 {
				m.tags.CheckAll()
			} else {
				m.tags.Toggle(names[m.tagCursor-1])
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.jd, cmd = m.jd.Update(msg)
	return m, cmd
}

func (m Model) submitMatch() (tea.Model, tea.Cmd) {
	jd := strings.TrimSpace(m.jd.Value())
	if jd == "" {
		m.alert(render.Alert{Level: render.LevelWarning, Text: render.MsgEmptyJobDescription})
		return m, nil
	}

	req := &resudoc.MatchRequest{
		UserID: m.userID,
		JDText: jd,
		K:      m.topK,
		Tags:   m.tags.Selected(),
	}
	return m, m.begin(m.match(req))
}

func (m *Model) focusMatch(focus int) tea.Cmd {
	m.matchFocus = focus
	if focus == matchFocusJD {
		return m.jd.Focus()
	}
	m.jd.Blur()
	return nil
}

// nextTopK cycles through the offered result counts. A value outside the
// list restarts the cycle.
func nextTopK(current int) int {
	i := slices.Index(topKChoices, current)
	return topKChoices[(i+1)%len(topKChoices)]
}

func (m Model) onMatched(msg matchedMsg) (tea.Model, tea.Cmd) {
	m.finish()

	if msg.err != nil {
		m.alert(render.ActionError("matching resumes", msg.err))
		return m, nil
	}

	if msg.results == nil || msg.results.Len() == 0 {
		m.alert(render.Alert{Level: render.LevelInfo, Text: render.MsgNoMatches})
		return m, nil
	}

	m.alerts = nil
	m.results = msg.results
	m.viewport.SetContent(render.MatchResults(m.results))
	m.viewport.GotoTop()
	m.jd.Blur()
	m.view = ViewResults

	return m, nil
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = ViewMatch
		return m, m.focusMatch(matchFocusJD)
	case "b":
		m.view = ViewBrowse
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}
