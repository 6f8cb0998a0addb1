package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resudoc/internal/filtering"
	"github.com/spigell/resudoc/internal/history"
	"github.com/spigell/resudoc/internal/resudoc"
)

func TestReadJobDescription(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "jd.txt")
	if err := os.WriteFile(path, []byte("Go developer"), 0o600); err != nil {
		t.Fatalf("write jd: %v", err)
	}

	tests := []struct {
		name   string
		inline string
		path   string
		stdin  string
		want   string
	}{
		{name: "inline wins", inline: "inline", path: path, stdin: "piped", want: "inline"},
		{name: "file before stdin", path: path, stdin: "piped", want: "Go developer"},
		{name: "stdin", stdin: "piped", want: "piped"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := readJobDescription(tt.inline, tt.path, strings.NewReader(tt.stdin))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestReadJobDescriptionMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := readJobDescription("", filepath.Join(t.TempDir(), "nope.txt"), strings.NewReader("")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestTotalSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.pdf")
	if err := os.WriteFile(a, make([]byte, 10), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(b, make([]byte, 5), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	total, err := totalSize([]string{a, b, a})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 25 {
		t.Fatalf("expected 25 bytes, got %d", total)
	}

	if _, err := totalSize([]string{dir}); err == nil {
		t.Fatalf("expected an error for a directory")
	}
}

func TestFoldersTable(t *testing.T) {
	t.Parallel()

	data := foldersTable(&resudoc.Folders{Items: []*resudoc.Folder{{Name: "SWE", Count: 3}}}, 7)
	if len(data) != 3 {
		t.Fatalf("expected header, all and one folder rows, got %d rows", len(data))
	}
	if data[1][2] != "7" {
		t.Fatalf("expected total 7 in the all row, got %q", data[1][2])
	}
	if data[2][1] != "📁 SWE" || data[2][2] != "3" {
		t.Fatalf("unexpected folder row %v", data[2])
	}
}

func TestRunsTable(t *testing.T) {
	t.Parallel()

	runs := []*history.Run{
		{ID: 2, CreatedAt: time.Now(), K: 5, JDPreview: "Go", Results: &resudoc.MatchResults{Items: []*resudoc.MatchResult{{}}}},
		{ID: 1, CreatedAt: time.Now(), K: 3, Tags: []string{"SWE", "Data"}, Results: &resudoc.MatchResults{}},
	}

	data := runsTable(runs)
	if data[1][3] != "all" || data[1][4] != "1" {
		t.Fatalf("unexpected first row %v", data[1])
	}
	if data[2][3] != "SWE, Data" || data[2][4] != "0" {
		t.Fatalf("unexpected second row %v", data[2])
	}
}

func TestColorScoreKeepsRoundedValue(t *testing.T) {
	t.Parallel()

	if got := colorScore(84.6); !strings.Contains(got, "85") {
		t.Fatalf("expected the rounded score in %q", got)
	}
}

func TestCheckDeleteArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		args        []string
		all         bool
		tag         string
		excludeFile string
		wantErr     string
	}{
		{name: "ids", args: []string{"r1"}},
		{name: "all narrowed", all: true, tag: "SWE", excludeFile: "keep.txt"},
		{name: "nothing", wantErr: "pass resume ids"},
		{name: "all with ids", args: []string{"r1"}, all: true, wantErr: "does not take"},
		{name: "tag without all", args: []string{"r1"}, tag: "SWE", wantErr: "only narrow --all"},
		{name: "exclude file without all", args: []string{"r1"}, excludeFile: "keep.txt", wantErr: "only narrow --all"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := checkDeleteArgs(tt.args, tt.all, tt.tag, tt.excludeFile)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRecordRunStoresSentRequest(t *testing.T) {
	t.Parallel()

	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	req := newMatchRequest("u1", "\n  Go developer  \n", 3, []string{" ", ""})
	if req.JDText != "Go developer" || req.Tags != nil {
		t.Fatalf("expected a normalized request, got %+v", req)
	}

	recordRun(context.Background(), zap.NewNop(), store, req, &resudoc.MatchResults{})

	runs, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].JDText != "Go developer" || len(runs[0].Tags) != 0 {
		t.Fatalf("unexpected runs %+v", runs)
	}
	if got := runsTable(runs)[1][3]; got != "all" {
		t.Fatalf("expected all tags, got %q", got)
	}
}

func TestUILoggerWritesOnlyToFile(t *testing.T) {
	t.Parallel()

	newUILogger("").Info("dropped")

	path := filepath.Join(t.TempDir(), "ui.log")
	l := newUILogger(path)
	l.Info("loaded folders")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "loaded folders") {
		t.Fatalf("expected the entry in the log file, got %q", data)
	}
}

func TestDeleteTargets(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/resumes" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total": 3,
			"resumes": []map[string]any{
				{"resume_id": "r1", "filename": "alice.pdf", "tags": []string{"SWE"}},
				{"resume_id": "r2", "filename": "bob.pdf", "tags": []string{"Data"}},
				{"resume_id": "r3", "filename": "alice.pdf", "tags": []string{"Data"}},
			},
		})
	}))
	t.Cleanup(srv.Close)

	s := &session{
		ctx:    context.Background(),
		config: &Config{},
		logger: zap.NewNop(),
		userID: "u1",
		client: resudoc.New(zap.NewNop(), resudoc.Options{APIURL: srv.URL, MaxRetries: -1}),
	}

	ids := func(resumes []*resudoc.Resume) string {
		out := make([]string, 0, len(resumes))
		for _, r := range resumes {
			out = append(out, r.ID)
		}
		return strings.Join(out, ",")
	}

	got, err := deleteTargets(s, []string{"x1", "x2"}, false, nil, false)
	if err != nil {
		t.Fatalf("ids: %v", err)
	}
	if ids(got) != "x1,x2" {
		t.Fatalf("expected ids to pass through, got %s", ids(got))
	}

	got, err = deleteTargets(s, []string{"alice.pdf", "nobody.pdf"}, true, nil, false)
	if err != nil {
		t.Fatalf("by filename: %v", err)
	}
	if ids(got) != "r1,r3" {
		t.Fatalf("expected every alice.pdf, got %s", ids(got))
	}

	excludes := filepath.Join(t.TempDir(), "keep.txt")
	if err := os.WriteFile(excludes, []byte("# keep\nr3\n"), 0o600); err != nil {
		t.Fatalf("write excludes: %v", err)
	}

	got, err = deleteTargets(s, nil, false, &filtering.Config{Tag: "Data", ExcludeFile: excludes}, true)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if ids(got) != "r2" {
		t.Fatalf("expected only r2, got %s", ids(got))
	}
}
