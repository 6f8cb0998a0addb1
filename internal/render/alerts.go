package render

import (
	"fmt"

	"github.com/spigell/resudoc/internal/resudoc"
)

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

const (
	MsgEmptyJobDescription = "Please enter a job description"
	MsgConfirmDelete       = "Are you sure you want to delete this resume?"
	MsgDeleted             = "✅ Resume deleted successfully!"
	MsgDeleteFailed        = "❌ Error deleting resume"
	MsgNoMatches           = "No matching resumes found. Upload some resumes first!"
)

// Alert is a one line message shown to the user after an action.
type Alert struct {
	Level Level
	Text  string
}

func (a Alert) String() string {
	return alertStyles[a.Level].Render(a.Text)
}

// UploadOutcome returns the alerts for a finished batch upload. A batch with
// both successes and failures yields two alerts.
func UploadOutcome(b *resudoc.BatchUpload) []Alert {
	alerts := make([]Alert, 0, 2)
	if b == nil {
		return alerts
	}

	if b.SuccessCount > 0 {
		alerts = append(alerts, Alert{
			Level: LevelSuccess,
			Text:  fmt.Sprintf("✅ Successfully uploaded %d resume(s)!", b.SuccessCount),
		})
	}

	if b.FailureCount > 0 {
		alerts = append(alerts, Alert{
			Level: LevelWarning,
			Text:  fmt.Sprintf("⚠️ %d file(s) failed to upload.", b.FailureCount),
		})
	}

	return alerts
}

// ActionError formats a failed action the way every flow reports it.
func ActionError(action string, err error) Alert {
	return Alert{Level: LevelError, Text: fmt.Sprintf("❌ Error %s: %v", action, err)}
}
