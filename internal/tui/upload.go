package tui

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spigell/resudoc/internal/render"
	"github.com/spigell/resudoc/internal/resudoc"
	"github.com/spigell/resudoc/internal/selection"
)

func (m Model) updateUpload(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pathInput.Blur()
		m.tagInput.Blur()
		m.view = ViewBrowse
		return m, nil

	case "tab":
		return m, m.focusUpload((m.uploadFocus + 1) % uploadFocusCount)

	case "shift+tab":
		return m, m.focusUpload((m.uploadFocus + uploadFocusCount - 1) % uploadFocusCount)

	case "ctrl+s":
		if !m.files.Ready() {
			return m, nil
		}
		req := &resudoc.UploadRequest{
			UserID: m.userID,
			Tags:   selection.ParseTags(m.tagInput.Value()),
			Files:  m.files.Paths(),
		}
		return m, m.begin(m.upload(req))
	}

	switch m.uploadFocus {
	case uploadFocusPath:
		// Files dragged onto a terminal arrive as a paste of their paths.
		if msg.Paste {
			skipped := m.files.AddDropped(splitDroppedPaths(string(msg.Runes))...)
			if skipped > 0 {
				m.alert(render.Alert{Level: render.LevelWarning, Text: fmt.Sprintf("⚠️ Skipped %d non-PDF file(s).", skipped)})
			}
			return m, nil
		}
		if msg.String() == "enter" {
			m.addPath(m.pathInput.Value())
			m.pathInput.Reset()
			return m, nil
		}

		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd

	case uploadFocusTags:
		var cmd tea.Cmd
		m.tagInput, cmd = m.tagInput.Update(msg)
		return m, cmd

	case uploadFocusFiles:
		switch msg.String() {
		case "up", "k":
			if m.fileCursor > 0 {
				m.fileCursor--
			}
		case "down", "j":
			if m.fileCursor < m.files.Len()-1 {
				m.fileCursor++
			}
		case "x", "delete", "backspace":
			if m.files.Remove(m.fileCursor) && m.fileCursor >= m.files.Len() {
				m.fileCursor = max(m.files.Len()-1, 0)
			}
		}
	}

	return m, nil
}

// addPath adds a single file as is, or every PDF directly inside a folder.
func (m *Model) addPath(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}

	stat, err := os.Stat(path)
	if err != nil {
		m.alert(render.ActionError("adding files", err))
		return
	}

	if !stat.IsDir() {
		m.files.Add(path)
		return
	}

	pdfs, err := selection.PDFsInDir(path)
	if err != nil {
		m.alert(render.ActionError("adding files", err))
		return
	}
	if len(pdfs) == 0 {
		m.alert(render.Alert{Level: render.LevelWarning, Text: fmt.Sprintf("⚠️ No PDF files in %s.", path)})
		return
	}
	m.files.Add(pdfs...)
}

func (m *Model) focusUpload(focus int) tea.Cmd {
	m.uploadFocus = focus
	m.pathInput.Blur()
	m.tagInput.Blur()

	switch focus {
	case uploadFocusPath:
		return m.pathInput.Focus()
	case uploadFocusTags:
		return m.tagInput.Focus()
	}
	return nil
}

func (m Model) onUploaded(msg uploadedMsg) (tea.Model, tea.Cmd) {
	m.finish()

	if msg.err != nil {
		m.alert(render.ActionError("uploading resumes", msg.err))
		return m, nil
	}

	m.alert(render.UploadOutcome(msg.result)...)
	if msg.result == nil || msg.result.SuccessCount == 0 {
		return m, nil
	}

	m.files.Clear()
	m.fileCursor = 0
	m.pathInput.Reset()
	m.tagInput.Reset()

	return m, m.reload()
}

// splitDroppedPaths splits pasted text into paths. Terminals separate dropped
// files with spaces or newlines and escape spaces inside a path with a
// backslash or quotes.
func splitDroppedPaths(text string) []string {
	var (
		paths   []string
		current strings.Builder
		quote   rune
		escaped bool
	)

	flush := func() {
		if current.Len() > 0 {
			paths = append(paths, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
		case unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return paths
}
