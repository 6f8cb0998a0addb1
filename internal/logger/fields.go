package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldAPIURL is the structured log field key for the backend base URL.
	FieldAPIURL = "api_url"
	// FieldUserID is the structured log field key for the résumé owner.
	FieldUserID = "user_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// SessionFields describes which backend and which user a command talks to.
func SessionFields(apiURL, userID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldAPIURL, Value: apiURL},
		StringField{Key: FieldUserID, Value: userID},
	)
}

func WithSessionFields(logger *zap.Logger, apiURL, userID string) *zap.Logger {
	return WithFields(logger, SessionFields(apiURL, userID)...)
}
