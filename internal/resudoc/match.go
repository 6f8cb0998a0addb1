package resudoc

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resudoc/internal/utils"
)

const (
	matchPath = "/match"

	MinTopK     = 1
	MaxTopK     = 20
	DefaultTopK = 5

	jdLogPreview = 80
)

type MatchRequest struct {
	UserID string   `json:"user_id"`
	JDText string   `json:"jd_text"`
	K      int      `json:"k"`
	Tags   []string `json:"tags,omitempty"`
}

type MatchResults struct {
	Items           []*MatchResult `json:"results"`
	TotalCandidates int            `json:"total_candidates"`
}

type MatchResult struct {
	ResumeID   string   `json:"resume_id"`
	Filename   string   `json:"filename"`
	Score      float64  `json:"score"`
	Reasoning  string   `json:"reasoning"`
	KeyMatches []string `json:"key_matches"`
	Gaps       []string `json:"gaps"`
}

// Normalize trims the job description and drops blank tags. A request without
// tags is sent without the "tags" member, which the backend reads as "all folders".
func (r *MatchRequest) Normalize() {
	r.JDText = strings.TrimSpace(r.JDText)

	tags := make([]string, 0, len(r.Tags))
	for _, tag := range r.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		tags = nil
	}
	r.Tags = tags
}

func (r *MatchRequest) Validate() error {
	if strings.TrimSpace(r.JDText) == "" {
		return ErrEmptyJobDescription
	}

	if r.K < MinTopK || r.K > MaxTopK {
		return ErrInvalidTopK
	}

	return nil
}

func (c *Client) Match(ctx context.Context, r *MatchRequest) (*MatchResults, error) {
	payload := *r
	payload.Tags = append([]string(nil), r.Tags...)
	payload.Normalize()

	if err := payload.Validate(); err != nil {
		return nil, err
	}

	c.logger.Debug("matching job description",
		zap.Int("jd_length", utf8.RuneCountInString(payload.JDText)),
		zap.String("jd_preview", utils.TruncateForLog(payload.JDText, jdLogPreview)),
		zap.Int("k", payload.K),
		zap.Strings("tags", payload.Tags),
	)

	var results MatchResults
	if err := c.postJSON(ctx, matchPath, &payload, &results); err != nil {
		return nil, err
	}

	if results.Items == nil {
		results.Items = []*MatchResult{}
	}

	return &results, nil
}

func (m *MatchResults) Len() int {
	return len(m.Items)
}

func (m *MatchResults) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return "", err
	}
	return file.Name(), nil
}
