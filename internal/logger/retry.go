package logger

import "go.uber.org/zap"

// RetryLogger adapts zap to the leveled logger interface of go-retryablehttp.
// Its per-attempt chatter goes to debug, retries and give-ups stay visible.
type RetryLogger struct {
	sugar *zap.SugaredLogger
}

func NewRetryLogger(logger *zap.Logger) *RetryLogger {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RetryLogger{sugar: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (l *RetryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

func (l *RetryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *RetryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *RetryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}
