package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resudoc/internal/resudoc"
)

type filenameFilter struct {
	toggle
	substr string
}

// NewFilename creates a filter that keeps resumes whose filename contains
// the configured text, ignoring case.
func NewFilename() Filter {
	return &filenameFilter{}
}

func (f *filenameFilter) Name() string { return "filename" }

func (f *filenameFilter) Validate(cfg *Config) error {
	f.substr = strings.ToLower(strings.TrimSpace(cfg.Filename))
	return nil
}

func (f *filenameFilter) Apply(_ context.Context, deps Deps, r *resudoc.Resumes) (*resudoc.Resumes, Step, error) {
	initial := r.Len()
	if f.substr == "" {
		return r, Step{Initial: initial, Left: initial}, nil
	}

	excluded := r.Keep(func(item *resudoc.Resume) bool {
		return strings.Contains(strings.ToLower(item.Filename), f.substr)
	})
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Debug("excluding resumes by filename",
			zap.String("filename", f.substr),
			zap.Strings("excluded_resumes", excluded),
			zap.Int("resumes_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(excluded), Left: r.Len()}, nil
}

func (f *filenameFilter) Status() Status {
	details := map[string]string{}
	if f.substr != "" {
		details["filename"] = f.substr
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
