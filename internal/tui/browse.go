package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/spigell/resudoc/internal/render"
	"github.com/spigell/resudoc/internal/resudoc"
)

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.updateSearch(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "?":
		m.previous = m.view
		m.view = ViewHelp

	case "tab":
		if m.focus == paneSidebar {
			m.focus = paneList
		} else {
			m.focus = paneSidebar
		}

	case "up", "k":
		if m.focus == paneSidebar && m.sidebarCursor > 0 {
			m.sidebarCursor--
		}
		if m.focus == paneList && m.listCursor > 0 {
			m.listCursor--
		}

	case "down", "j":
		if m.focus == paneSidebar && m.sidebarCursor < m.folders.Len() {
			m.sidebarCursor++
		}
		if m.focus == paneList && m.listCursor < m.resumes.Len()-1 {
			m.listCursor++
		}

	case "enter":
		if m.focus == paneSidebar {
			m.tag = m.sidebarTag()
			m.listCursor = 0
			m.focus = paneList
			return m, m.begin(m.loadResumes(m.tag, m.nameFilter))
		}

	case "/":
		m.searching = true
		m.search.SetValue(m.nameFilter)
		return m, m.search.Focus()

	case "esc":
		if m.nameFilter != "" {
			m.nameFilter = ""
			return m, m.begin(m.loadResumes(m.tag, m.nameFilter))
		}

	case "x", "delete":
		if m.focus == paneList && m.resumes.Len() > 0 {
			m.pendingDelete = m.resumes.Items[m.listCursor]
			m.view = ViewConfirmDelete
		}

	case "u":
		m.view = ViewUpload
		return m, m.focusUpload(uploadFocusPath)

	case "m":
		m.view = ViewMatch
		return m, m.focusMatch(matchFocusJD)

	case "v":
		if m.results != nil {
			m.view = ViewResults
		}

	case "r":
		return m, m.reload()
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		m.nameFilter = m.search.Value()
		m.listCursor = 0
		return m, m.begin(m.loadResumes(m.tag, m.nameFilter))

	case "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// sidebarTag maps the sidebar cursor to a tag. Row 0 is "All Resumes".
func (m Model) sidebarTag() string {
	if m.sidebarCursor == 0 || m.sidebarCursor > m.folders.Len() {
		return ""
	}
	return m.folders.Items[m.sidebarCursor-1].Name
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		resume := m.pendingDelete
		m.pendingDelete = nil
		m.view = ViewBrowse
		if resume == nil {
			return m, nil
		}
		return m, m.begin(m.deleteResume(resume))

	case "n", "esc", "q":
		m.pendingDelete = nil
		m.view = ViewBrowse
	}

	return m, nil
}

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "q":
		m.view = m.previous
	}
	return m, nil
}

func (m Model) onSidebarLoaded(msg sidebarLoadedMsg) (tea.Model, tea.Cmd) {
	m.finish()

	if msg.err != nil {
		m.logger.Warn("loading folders failed", zap.Error(msg.err))
		m.alert(render.ActionError("loading folders", msg.err))
		return m, nil
	}

	m.folders = msg.folders
	m.total = msg.total
	m.tags.Reset(m.folders.Names())

	if m.sidebarCursor > m.folders.Len() {
		m.sidebarCursor = m.folders.Len()
	}
	if m.tagCursor > m.folders.Len() {
		m.tagCursor = m.folders.Len()
	}

	return m, nil
}

func (m Model) onResumesLoaded(msg resumesLoadedMsg) (tea.Model, tea.Cmd) {
	m.finish()

	// A newer selection was made while this request was in flight.
	if msg.tag != m.tag || msg.name != m.nameFilter {
		return m, nil
	}

	if msg.err != nil {
		m.alert(render.ActionError("loading resumes", msg.err))
		return m, nil
	}

	m.resumes = msg.resumes
	if m.listCursor >= m.resumes.Len() {
		m.listCursor = max(m.resumes.Len()-1, 0)
	}

	return m, nil
}

func (m Model) onDeleted(msg deletedMsg) (tea.Model, tea.Cmd) {
	m.finish()

	if msg.err != nil {
		var apiErr *resudoc.APIError
		if errors.As(msg.err, &apiErr) {
			m.alert(render.Alert{Level: render.LevelError, Text: render.MsgDeleteFailed})
		} else {
			m.alert(render.ActionError("deleting resume", msg.err))
		}
		return m, nil
	}

	m.alert(render.Alert{Level: render.LevelSuccess, Text: render.MsgDeleted})
	return m, m.reload()
}
