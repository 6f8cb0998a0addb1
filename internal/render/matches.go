package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spigell/resudoc/internal/resudoc"
)

type Tier int

const (
	TierDanger Tier = iota
	TierWarning
	TierSuccess
)

const (
	successThreshold = 80
	warningThreshold = 60
)

// ScoreTier buckets a 0-100 score for colouring.
func ScoreTier(score float64) Tier {
	switch {
	case score >= successThreshold:
		return TierSuccess
	case score >= warningThreshold:
		return TierWarning
	default:
		return TierDanger
	}
}

func (t Tier) color() lipgloss.Color {
	switch t {
	case TierSuccess:
		return success
	case TierWarning:
		return warning
	default:
		return danger
	}
}

// Score formats a score as a whole number.
func Score(score float64) string {
	return fmt.Sprintf("%d", int(math.Round(score)))
}

// MatchCard renders one ranked result. Key matches and gaps are shown only
// when present.
func MatchCard(rank int, result *resudoc.MatchResult) string {
	scoreStyle := lipgloss.NewStyle().Foreground(ScoreTier(result.Score).color()).Bold(true)

	header := fmt.Sprintf("%s  %s  %s",
		MutedStyle.Render(fmt.Sprintf("#%d", rank)),
		TitleStyle.Render(result.Filename),
		scoreStyle.Render(Score(result.Score)),
	)

	lines := []string{header}
	if reasoning := strings.TrimSpace(result.Reasoning); reasoning != "" {
		lines = append(lines, reasoning)
	}

	if len(result.KeyMatches) > 0 {
		lines = append(lines, "", "✅ Key Matches", Chips(result.KeyMatches, matchChipStyle))
	}

	if len(result.Gaps) > 0 {
		lines = append(lines, "", "⚠️ Gaps", Chips(result.Gaps, gapChipStyle))
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// MatchResults renders every card in rank order.
func MatchResults(results *resudoc.MatchResults) string {
	if results == nil || results.Len() == 0 {
		return MutedStyle.Render(MsgNoMatches)
	}

	cards := make([]string, 0, results.Len())
	for i, result := range results.Items {
		cards = append(cards, MatchCard(i+1, result))
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}
