package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/spigell/resudoc/internal/resudoc"
)

const allResumesLabel = "All Resumes"

// Sidebar lists the "All Resumes" entry followed by every folder.
// selected is the active tag, empty for all résumés. cursor indexes the rows
// with 0 being "All Resumes", -1 for none.
func Sidebar(folders *resudoc.Folders, total int, selected string, cursor int) string {
	lines := make([]string, 0, folders.Len()+2)
	lines = append(lines, HeadingStyle.Render("Folders"))
	lines = append(lines, sidebarLine("📋 "+allResumesLabel, total, selected == "", cursor == 0))

	for i, folder := range folders.Items {
		label := fmt.Sprintf("%d. 📁 %s", i+1, folder.Name)
		lines = append(lines, sidebarLine(label, folder.Count, folder.Name == selected, cursor == i+1))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func sidebarLine(label string, count int, active, focused bool) string {
	prefix := "  "
	if focused {
		prefix = "> "
	}

	if active {
		return prefix + selectedStyle.Render(fmt.Sprintf("%s  %d", label, count))
	}
	return prefix + fmt.Sprintf("%s  %s", label, countStyle.Render(fmt.Sprint(count)))
}

func ResumeListTitle(tag string) string {
	if tag == "" {
		return "📋 " + allResumesLabel
	}
	return "📁 " + tag
}

func EmptyResumes(tag string) string {
	if tag == "" {
		return "No resumes found."
	}
	return fmt.Sprintf("No resumes found with tag %q.", tag)
}

// ResumeList renders the numbered list under its title. cursor marks the
// highlighted row, -1 for none.
func ResumeList(resumes *resudoc.Resumes, tag string, cursor int) string {
	title := TitleStyle.Render(ResumeListTitle(tag))
	if resumes == nil || resumes.Len() == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, MutedStyle.Render(EmptyResumes(tag)))
	}

	rows := make([]string, 0, resumes.Len()+1)
	rows = append(rows, title)
	for i, resume := range resumes.Items {
		rows = append(rows, ResumeRow(i+1, resume, i == cursor))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func ResumeRow(n int, resume *resudoc.Resume, active bool) string {
	name := fmt.Sprintf("%d. 📄 %s", n, resume.Filename)
	if active {
		name = selectedStyle.Render(name)
	}

	parts := []string{name}
	if len(resume.Tags) > 0 {
		parts = append(parts, Chips(resume.Tags, chipStyle))
	}
	if created, ok := resume.Created(); ok {
		parts = append(parts, MutedStyle.Render(humanize.Time(created)))
	}

	return strings.Join(parts, " ")
}

// Chips renders values side by side in the given style.
func Chips(values []string, style lipgloss.Style) string {
	chips := make([]string, 0, len(values))
	for _, v := range values {
		chips = append(chips, style.Render(v))
	}
	return strings.Join(chips, " ")
}

// FileList renders the pending uploads with their sizes. Unreadable files are
// listed without a size and left for the server to reject.
func FileList(paths []string, cursor int) string {
	if len(paths) == 0 {
		return ""
	}

	rows := make([]string, 0, len(paths))
	for i, path := range paths {
		row := "📄 " + filepath.Base(path)
		if stat, err := os.Stat(path); err == nil {
			row += " " + MutedStyle.Render(humanize.Bytes(uint64(stat.Size())))
		}
		if i == cursor {
			row = selectedStyle.Render(row)
		}
		rows = append(rows, row)
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
