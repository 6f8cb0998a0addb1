package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resudoc/internal/resudoc"
)

type tagFilter struct {
	toggle
	tag string
}

// NewTag creates a filter that keeps resumes carrying the configured tag.
func NewTag() Filter {
	return &tagFilter{}
}

func (f *tagFilter) Name() string { return "tag" }

func (f *tagFilter) Validate(cfg *Config) error {
	f.tag = strings.TrimSpace(cfg.Tag)
	return nil
}

func (f *tagFilter) Apply(_ context.Context, deps Deps, r *resudoc.Resumes) (*resudoc.Resumes, Step, error) {
	initial := r.Len()
	if f.tag == "" {
		return r, Step{Initial: initial, Left: initial}, nil
	}

	excluded := r.Keep(func(item *resudoc.Resume) bool { return item.HasTag(f.tag) })
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Debug("excluding resumes without tag",
			zap.String("tag", f.tag),
			zap.Strings("excluded_resumes", excluded),
			zap.Int("resumes_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(excluded), Left: r.Len()}, nil
}

func (f *tagFilter) Status() Status {
	details := map[string]string{}
	if f.tag != "" {
		details["tag"] = f.tag
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
