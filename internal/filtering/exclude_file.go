package filtering

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resudoc/internal/resudoc"
)

type excludeFileFilter struct {
	toggle
	path string
}

// NewExcludeFile creates a filter that removes resumes listed in an exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_ids" }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = strings.TrimSpace(cfg.ExcludeFile)
	if f.path == "" {
		return nil
	}

	if _, err := os.Stat(f.path); err != nil {
		return fmt.Errorf("exclude file: %w", err)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, r *resudoc.Resumes) (*resudoc.Resumes, Step, error) {
	initial := r.Len()
	if f.path == "" {
		return r, Step{Initial: initial, Left: initial}, nil
	}

	ids, err := ReadExcludeFile(f.path)
	if err != nil {
		return r, Step{}, fmt.Errorf("getting excluded resumes from file: %w", err)
	}

	removed := r.Keep(func(item *resudoc.Resume) bool { return !slices.Contains(ids, item.ID) })
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Debug("excluding resumes based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_resumes", removed),
			zap.Int("resumes_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(removed), Left: r.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

// ReadExcludeFile returns the resume ids listed one per line. Blank lines and
// lines starting with # are skipped.
func ReadExcludeFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	ids := make([]string, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
