package resudoc

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

const resumesPath = "/resumes"

// The backend serialises timestamps with isoformat or str(), with or without an offset.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05.999999-07:00",
}

type Resumes struct {
	Items []*Resume `json:"resumes"`
	Total int       `json:"total"`
}

type Resume struct {
	ID        string   `json:"resume_id"`
	Filename  string   `json:"filename"`
	CreatedAt string   `json:"created_at,omitempty"`
	Tags      []string `json:"tags"`
}

func (c *Client) Resumes(ctx context.Context, userID string) (*Resumes, error) {
	q := url.Values{}
	q.Set("user_id", userID)

	var resumes Resumes
	if err := c.getJSON(ctx, resumesPath, q, &resumes); err != nil {
		return nil, err
	}

	if resumes.Items == nil {
		resumes.Items = []*Resume{}
	}

	c.logger.Debug("got resumes", zap.Int("count", resumes.Len()), zap.Int("total", resumes.Total))
	return &resumes, nil
}

func (c *Client) DeleteResume(ctx context.Context, resumeID string) error {
	resumeID = strings.TrimSpace(resumeID)
	if resumeID == "" {
		return fmt.Errorf("resume id is required")
	}

	return c.delete(ctx, fmt.Sprintf("%s/%s", resumesPath, url.PathEscape(resumeID)), nil)
}

func (r *Resume) HasTag(tag string) bool {
	return slices.Contains(r.Tags, tag)
}

// Created parses CreatedAt. The second value is false when the backend sent none.
func (r *Resume) Created() (time.Time, bool) {
	raw := strings.TrimSpace(r.CreatedAt)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func (r *Resumes) Len() int {
	return len(r.Items)
}

func (r *Resumes) FindByID(id string) *Resume {
	for _, resume := range r.Items {
		if resume.ID == id {
			return resume
		}
	}

	return nil
}

// FindByFilename returns every résumé uploaded under the given name.
func (r *Resumes) FindByFilename(name string) []*Resume {
	var found []*Resume

	for _, resume := range r.Items {
		if resume.Filename == name {
			found = append(found, resume)
		}
	}

	return found
}

func (r *Resumes) Filenames() []string {
	names := make([]string, 0, len(r.Items))

	for _, resume := range r.Items {
		names = append(names, resume.Filename)
	}

	return names
}

func (r *Resumes) IDs() []string {
	ids := make([]string, 0, len(r.Items))

	for _, resume := range r.Items {
		ids = append(ids, resume.ID)
	}

	return ids
}

// WithTag returns a new list holding only résumés tagged with tag.
// An empty tag selects everything.
func (r *Resumes) WithTag(tag string) *Resumes {
	filtered := &Resumes{Items: make([]*Resume, 0, len(r.Items)), Total: r.Total}
	for _, resume := range r.Items {
		if tag == "" || resume.HasTag(tag) {
			filtered.Items = append(filtered.Items, resume)
		}
	}

	return filtered
}

// Keep removes in place every résumé keep rejects and returns the removed ids.
// Order of the remaining items is preserved.
func (r *Resumes) Keep(keep func(*Resume) bool) []string {
	var dropped []string

	kept := r.Items[:0]
	for _, resume := range r.Items {
		if keep(resume) {
			kept = append(kept, resume)
			continue
		}
		dropped = append(dropped, resume.ID)
	}

	clear(r.Items[len(kept):])
	r.Items = kept

	return dropped
}
