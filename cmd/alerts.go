package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"github.com/spigell/resudoc/internal/render"
	"github.com/spigell/resudoc/internal/resudoc"
)

// out is where results go. Logs and alerts stay on stderr.
var out io.Writer = os.Stdout

func printAlerts(alerts ...render.Alert) {
	for _, alert := range alerts {
		printer := pterm.Info
		switch alert.Level {
		case render.LevelSuccess:
			printer = pterm.Success
		case render.LevelWarning:
			printer = pterm.Warning
		case render.LevelError:
			printer = pterm.Error
		}
		printer.WithWriter(os.Stderr).Println(alert.Text)
	}
}

// colorScore mirrors the score tiers of the match cards.
func colorScore(score float64) string {
	s := render.Score(score)
	switch render.ScoreTier(score) {
	case render.TierSuccess:
		return pterm.Green(s)
	case render.TierWarning:
		return pterm.Yellow(s)
	default:
		return pterm.Red(s)
	}
}

func renderTable(data pterm.TableData) error {
	return pterm.DefaultTable.WithHasHeader().WithWriter(out).WithData(data).Render()
}

func foldersTable(folders *resudoc.Folders, total int) pterm.TableData {
	data := pterm.TableData{{"#", "Folder", "Resumes"}}
	data = append(data, []string{"", "📋 All Resumes", fmt.Sprint(total)})
	for i, folder := range folders.Items {
		data = append(data, []string{fmt.Sprint(i + 1), "📁 " + folder.Name, fmt.Sprint(folder.Count)})
	}
	return data
}

func resumesTable(resumes *resudoc.Resumes) pterm.TableData {
	data := pterm.TableData{{"#", "ID", "Filename", "Tags", "Uploaded"}}
	for i, resume := range resumes.Items {
		uploaded := ""
		if created, ok := resume.Created(); ok {
			uploaded = humanize.Time(created)
		}
		data = append(data, []string{
			fmt.Sprint(i + 1),
			resume.ID,
			resume.Filename,
			strings.Join(resume.Tags, ", "),
			uploaded,
		})
	}
	return data
}

func matchesTable(results *resudoc.MatchResults) pterm.TableData {
	data := pterm.TableData{{"#", "Score", "Filename", "Key matches", "Gaps"}}
	for i, result := range results.Items {
		data = append(data, []string{
			fmt.Sprint(i + 1),
			colorScore(result.Score),
			result.Filename,
			strings.Join(result.KeyMatches, ", "),
			strings.Join(result.Gaps, ", "),
		})
	}
	return data
}
