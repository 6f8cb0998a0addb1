package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spigell/resudoc/internal/render"
)

func (m Model) View() string {
	var body string
	switch m.view {
	case ViewBrowse:
		body = m.viewBrowse()
	case ViewUpload:
		body = m.viewUpload()
	case ViewMatch:
		body = m.viewMatch()
	case ViewResults:
		body = m.viewResults()
	case ViewConfirmDelete:
		body = m.viewConfirmDelete()
	case ViewHelp:
		body = m.viewHelp()
	}

	var s strings.Builder
	s.WriteString(render.HeadingStyle.Render("📄 Resudoc"))
	s.WriteString("\n\n")
	s.WriteString(body)
	s.WriteString("\n")

	if m.pending > 0 {
		s.WriteString("\n" + m.spinner.View() + " Loading...")
	}
	for _, alert := range m.alerts {
		s.WriteString("\n" + alert.String())
	}
	s.WriteString("\n\n" + m.footer())

	return s.String()
}

func (m Model) viewBrowse() string {
	sidebarStyle, listStyle := render.FocusedPanelStyle, render.PanelStyle
	sidebarCursor, listCursor := m.sidebarCursor, -1
	if m.focus == paneList {
		sidebarStyle, listStyle = render.PanelStyle, render.FocusedPanelStyle
		sidebarCursor, listCursor = -1, m.listCursor
	}

	list := render.ResumeList(m.resumes, m.tag, listCursor)
	if m.searching {
		list = lipgloss.JoinVertical(lipgloss.Left, m.search.View(), list)
	} else if m.nameFilter != "" {
		list = lipgloss.JoinVertical(lipgloss.Left, render.MutedStyle.Render(fmt.Sprintf("filename contains %q", m.nameFilter)), list)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(render.Sidebar(m.folders, m.total, m.tag, sidebarCursor)),
		listStyle.Render(list),
	)
}

func (m Model) viewUpload() string {
	files := render.FileList(m.files.Paths(), m.cursorFor(uploadFocusFiles, m.fileCursor))
	if files == "" {
		files = render.MutedStyle.Render("No files selected.")
	}

	button := render.MutedStyle.Render("Upload disabled: add at least one file")
	if m.files.Ready() {
		button = render.TitleStyle.Render(fmt.Sprintf("ctrl+s  Upload %d file(s)", m.files.Len()))
	}

	return render.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		render.TitleStyle.Render("📤 Upload Resumes"),
		"",
		m.label("Add a file or folder (paste to drop files)", uploadFocusPath, m.uploadFocus),
		m.pathInput.View(),
		"",
		m.label("Tags (comma-separated)", uploadFocusTags, m.uploadFocus),
		m.tagInput.View(),
		"",
		m.label("Selected files", uploadFocusFiles, m.uploadFocus),
		files,
		"",
		button,
	))
}

func (m Model) viewMatch() string {
	choices := make([]string, 0, len(topKChoices))
	for _, k := range topKChoices {
		if k == m.topK {
			choices = append(choices, render.TitleStyle.Render(fmt.Sprintf("[%d]", k)))
			continue
		}
		choices = append(choices, render.MutedStyle.Render(fmt.Sprint(k)))
	}

	return render.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		render.TitleStyle.Render("🎯 Match Job Description"),
		"",
		m.label("Job description", matchFocusJD, m.matchFocus),
		m.jd.View(),
		"",
		"Top results: "+strings.Join(choices, " "),
		"",
		m.label("Filter by tags", matchFocusTags, m.matchFocus),
		m.tagCheckboxes(),
	))
}

func (m Model) tagCheckboxes() string {
	boxes := make([]string, 0, len(m.tags.Names())+1)
	boxes = append(boxes, m.checkbox("All", m.tags.All(), 0))
	for i, name := range m.tags.Names() {
		boxes = append(boxes, m.checkbox(name, m.tags.Checked(name), i+1))
	}
	return strings.Join(boxes, "  ")
}

func (m Model) checkbox(label string, checked bool, index int) string {
	box := "[ ]"
	if checked {
		box = "[x]"
	}
	text := box + " " + label
	if m.matchFocus == matchFocusTags && m.tagCursor == index {
		return render.HeadingStyle.Render(text)
	}
	return text
}

func (m Model) viewResults() string {
	title := fmt.Sprintf("Top %d of %d candidate(s)", m.results.Len(), m.results.TotalCandidates)
	return lipgloss.JoinVertical(lipgloss.Left,
		render.TitleStyle.Render(title),
		m.viewport.View(),
	)
}

func (m Model) viewConfirmDelete() string {
	name := ""
	if m.pendingDelete != nil {
		name = m.pendingDelete.Filename
	}

	return render.FocusedPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		render.MsgConfirmDelete,
		"📄 "+name,
		"",
		render.KeyHelp("y delete", "n cancel"),
	))
}

func (m Model) viewHelp() string {
	rows := [][2]string{
		{"tab", "switch between folders and resumes"},
		{"enter", "open the selected folder"},
		{"/", "filter resumes by filename"},
		{"x", "delete the selected resume"},
		{"u", "upload resumes"},
		{"m", "match a job description"},
		{"v", "show the last match results"},
		{"r", "reload"},
		{"ctrl+s", "submit upload or match"},
		{"ctrl+t", "cycle the number of results"},
		{"q", "quit"},
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, render.TitleStyle.Render("Keys"))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%-8s %s", row[0], render.MutedStyle.Render(row[1])))
	}
	return render.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) footer() string {
	switch m.view {
	case ViewUpload:
		return render.KeyHelp("tab next", "enter add", "x remove", "ctrl+s upload", "esc back")
	case ViewMatch:
		return render.KeyHelp("tab next", "space toggle", "ctrl+t top-k", "ctrl+s match", "esc back")
	case ViewResults:
		return render.KeyHelp("↑/↓ scroll", "esc edit", "b browse", "q quit")
	case ViewConfirmDelete, ViewHelp:
		return ""
	default:
		return render.KeyHelp("tab pane", "enter open", "/ search", "x delete", "u upload", "m match", "? help", "q quit")
	}
}

func (m Model) label(text string, field, focus int) string {
	if field == focus {
		return render.HeadingStyle.Render("▸ " + text)
	}
	return render.MutedStyle.Render("  " + text)
}

func (m Model) cursorFor(field, cursor int) int {
	if m.uploadFocus == field {
		return cursor
	}
	return -1
}
