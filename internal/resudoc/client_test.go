package resudoc

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

const testUserID = "bb8c3e4a-d9e5-5a19-8a2e-c5a8e3f4e5d6"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(zap.NewNop(), Options{APIURL: server.URL + "/", MaxRetries: -1})
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestNewTrimsBaseURL(t *testing.T) {
	c := New(nil, Options{APIURL: " http://example.com:8000/ "})
	if c.APIURL != "http://example.com:8000" {
		t.Fatalf("unexpected api url %q", c.APIURL)
	}

	if New(nil, Options{}).APIURL != apiURL {
		t.Fatalf("expected default api url")
	}
}

func TestFolders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/folders" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("user_id"); got != testUserID {
			t.Errorf("unexpected user_id %q", got)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"folders": []map[string]any{{"name": "SWE", "count": 3}, {"name": "Data", "count": 1}},
			"total":   2,
		})
	})

	folders, err := c.Folders(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if folders.Len() != 2 {
		t.Fatalf("expected 2 folders, got %d", folders.Len())
	}
	if got := strings.Join(folders.Names(), ","); got != "SWE,Data" {
		t.Fatalf("unexpected names %q", got)
	}
	if folders.Count("SWE") != 3 || folders.Count("missing") != 0 {
		t.Fatalf("unexpected counts")
	}
}

func TestFoldersMissingListDecodesEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{})
	})

	folders, err := c.Folders(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if folders.Items == nil || folders.Len() != 0 {
		t.Fatalf("expected empty, non-nil folder list")
	}
}

func TestResumesGzip(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			t.Errorf("expected gzip to be accepted")
		}

		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_ = json.NewEncoder(gz).Encode(map[string]any{
			"total": 2,
			"resumes": []map[string]any{
				{"resume_id": "r1", "filename": "alice.pdf", "tags": []string{"SWE"}, "created_at": "2024-05-01T10:00:00.123456"},
				{"resume_id": "r2", "filename": "bob.pdf"},
			},
		})
		_ = gz.Close()

		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	})

	resumes, err := c.Resumes(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resumes.Total != 2 || resumes.Len() != 2 {
		t.Fatalf("unexpected totals: %+v", resumes)
	}

	alice := resumes.FindByID("r1")
	if alice == nil || !alice.HasTag("SWE") {
		t.Fatalf("expected r1 tagged SWE, got %+v", alice)
	}
	if created, ok := alice.Created(); !ok || created.Year() != 2024 {
		t.Fatalf("expected created_at to parse, got %v %v", created, ok)
	}

	if _, ok := resumes.FindByID("r2").Created(); ok {
		t.Fatalf("expected missing created_at to report false")
	}
}

func TestResumeCreated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		expect time.Time
		ok     bool
	}{
		{
			name:   "rfc3339 with offset",
			raw:    "2024-05-01T10:00:00.5+02:00",
			expect: time.Date(2024, 5, 1, 8, 0, 0, 500000000, time.UTC),
			ok:     true,
		},
		{
			name:   "isoformat without offset",
			raw:    "2024-05-01T10:00:00.123456",
			expect: time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC),
			ok:     true,
		},
		{
			name:   "str without offset",
			raw:    "2024-05-01 10:00:00",
			expect: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			ok:     true,
		},
		{
			name:   "str with offset",
			raw:    "2024-05-01 10:00:00.000001-03:00",
			expect: time.Date(2024, 5, 1, 13, 0, 0, 1000, time.UTC),
			ok:     true,
		},
		{
			name: "empty",
			raw:  " ",
		},
		{
			name: "garbage",
			raw:  "yesterday",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := (&Resume{CreatedAt: tt.raw}).Created()
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && !got.Equal(tt.expect) {
				t.Fatalf("expected %s, got %s", tt.expect, got)
			}
		})
	}
}

func TestResumesWithTag(t *testing.T) {
	resumes := &Resumes{
		Total: 3,
		Items: []*Resume{
			{ID: "1", Filename: "a.pdf", Tags: []string{"SWE", "Go"}},
			{ID: "2", Filename: "b.pdf", Tags: []string{"Data"}},
			{ID: "3", Filename: "c.pdf"},
		},
	}

	if got := resumes.WithTag("").Len(); got != 3 {
		t.Fatalf("empty tag should keep all, got %d", got)
	}

	swe := resumes.WithTag("SWE")
	if swe.Len() != 1 || swe.Items[0].ID != "1" {
		t.Fatalf("unexpected SWE selection %+v", swe.Items)
	}
	if swe.Total != 3 {
		t.Fatalf("WithTag must keep the server total")
	}
	if resumes.Len() != 3 {
		t.Fatalf("WithTag must not modify the receiver")
	}

	if got := resumes.WithTag("swe").Len(); got != 0 {
		t.Fatalf("tag matching is exact, got %d", got)
	}
}

func TestResumesKeepPreservesOrder(t *testing.T) {
	resumes := &Resumes{Items: []*Resume{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}}}

	dropped := resumes.Keep(func(r *Resume) bool { return r.ID != "2" && r.ID != "4" })

	if strings.Join(dropped, ",") != "2,4" {
		t.Fatalf("unexpected dropped ids %v", dropped)
	}
	if strings.Join(resumes.IDs(), ",") != "1,3" {
		t.Fatalf("unexpected remaining ids %v", resumes.IDs())
	}
}

func TestDeleteResume(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		switch r.URL.Path {
		case "/resumes/r1":
			writeJSON(t, w, http.StatusOK, map[string]string{"status": "success"})
		default:
			writeJSON(t, w, http.StatusNotFound, map[string]string{"detail": "Resume not found"})
		}
	})

	if err := c.DeleteResume(context.Background(), "r1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := c.DeleteResume(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Detail != "Resume not found" {
		t.Fatalf("expected detail from body, got %v", err)
	}

	if err := c.DeleteResume(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty id")
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 requests, got %d", calls.Load())
	}
}

func TestServerErrorIsRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(t, w, http.StatusServiceUnavailable, map[string]string{"detail": "warming up"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"status": "healthy", "version": "1.0.0", "database_connected": true})
	}))
	t.Cleanup(server.Close)

	c := New(zap.NewNop(), Options{APIURL: server.URL, MaxRetries: 2})

	health, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !health.OK() || health.Version != "1.0.0" {
		t.Fatalf("unexpected health %+v", health)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one retry, got %d calls", calls.Load())
	}
}

func TestPostsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		writeJSON(t, w, http.StatusInternalServerError, map[string]string{"detail": "Error matching resumes: llm quota"})
	}))
	t.Cleanup(server.Close)

	c := New(zap.NewNop(), Options{APIURL: server.URL})

	_, err := c.Match(context.Background(), &MatchRequest{UserID: testUserID, JDText: "Go developer", K: 3})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || !strings.Contains(apiErr.Detail, "llm quota") {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single match request, got %d", calls.Load())
	}

	path := filepath.Join(t.TempDir(), "a.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	if _, err := c.UploadBatch(context.Background(), &UploadRequest{UserID: testUserID, Files: []string{path}}); err == nil {
		t.Fatalf("expected an upload error")
	}
	if calls.Load() != 2 {
		t.Fatalf("expected a single upload request, got %d", calls.Load()-1)
	}
}

func TestValidationDetailIsKeptAsJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"body", "k"}, "msg": "too large"}},
		})
	})

	_, err := c.Health(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity || !strings.Contains(apiErr.Detail, "too large") {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("422 must not match ErrNotFound")
	}
}

func TestMatchOmitsTagsWhenAllSelected(t *testing.T) {
	var bodies []map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/match" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		bodies = append(bodies, body)

		writeJSON(t, w, http.StatusOK, map[string]any{
			"results": []map[string]any{{
				"resume_id":   "r1",
				"filename":    "alice.pdf",
				"score":       87.5,
				"reasoning":   "Strong Go background",
				"key_matches": []string{"Go", "Kubernetes"},
				"gaps":        []string{"Rust"},
			}},
			"total_candidates": 1,
		})
	})

	results, err := c.Match(context.Background(), &MatchRequest{
		UserID: testUserID,
		JDText: "  Senior Go engineer  ",
		K:      5,
		Tags:   []string{" ", ""},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if results.Len() != 1 || results.Items[0].Score != 87.5 {
		t.Fatalf("unexpected results %+v", results.Items)
	}
	if _, ok := bodies[0]["tags"]; ok {
		t.Fatalf("tags must be omitted when no tag is selected: %v", bodies[0])
	}
	if bodies[0]["jd_text"] != "Senior Go engineer" {
		t.Fatalf("jd_text must be trimmed, got %q", bodies[0]["jd_text"])
	}
	if bodies[0]["k"] != float64(5) || bodies[0]["user_id"] != testUserID {
		t.Fatalf("unexpected body %v", bodies[0])
	}

	if _, err := c.Match(context.Background(), &MatchRequest{UserID: testUserID, JDText: "x", K: 3, Tags: []string{"SWE"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tags, ok := bodies[1]["tags"].([]any)
	if !ok || len(tags) != 1 || tags[0] != "SWE" {
		t.Fatalf("expected tags [SWE], got %v", bodies[1]["tags"])
	}
}

func TestMatchValidation(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		calls.Add(1)
	})

	tests := []struct {
		name string
		req  MatchRequest
		want error
	}{
		{name: "blank jd", req: MatchRequest{JDText: " \n\t ", K: 5}, want: ErrEmptyJobDescription},
		{name: "k too small", req: MatchRequest{JDText: "jd", K: 0}, want: ErrInvalidTopK},
		{name: "k too large", req: MatchRequest{JDText: "jd", K: MaxTopK + 1}, want: ErrInvalidTopK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if _, err := c.Match(context.Background(), &req); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if calls.Load() != 0 {
		t.Fatalf("invalid requests must not reach the server")
	}
}

func TestMatchDoesNotMutateRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"results": []any{}})
	})

	req := &MatchRequest{UserID: testUserID, JDText: " jd ", K: 5, Tags: []string{" SWE "}}
	results, err := c.Match(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results.Len() != 0 || results.Items == nil {
		t.Fatalf("expected empty, non-nil results")
	}
	if req.JDText != " jd " || req.Tags[0] != " SWE " {
		t.Fatalf("request was mutated: %+v", req)
	}
}

func TestMatchResultsDumpToTmpFile(t *testing.T) {
	results := &MatchResults{Items: []*MatchResult{{Filename: "alice.pdf", Score: 91}}, TotalCandidates: 1}

	name, err := results.DumpToTmpFile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { os.Remove(name) })

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}

	var decoded MatchResults
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if decoded.Len() != 1 || decoded.Items[0].Filename != "alice.pdf" {
		t.Fatalf("unexpected dump contents: %s", data)
	}
}

func TestUploadBatch(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "alice.pdf")
	second := filepath.Join(dir, `bob "the builder".PDF`)
	if err := os.WriteFile(first, []byte("%PDF-1.7 alice"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("%PDF-1.4 bob"), 0o600); err != nil {
		t.Fatal(err)
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/resumes/upload-batch" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
			return
		}

		if got := r.FormValue("user_id"); got != testUserID {
			t.Errorf("unexpected user_id %q", got)
		}
		if got := r.FormValue("tags"); got != "SWE,Go" {
			t.Errorf("unexpected tags %q", got)
		}

		files := r.MultipartForm.File["files"]
		if len(files) != 2 {
			t.Errorf("expected 2 files, got %d", len(files))
			return
		}
		if files[0].Filename != "alice.pdf" || files[1].Filename != `bob "the builder".PDF` {
			t.Errorf("unexpected filenames %q %q", files[0].Filename, files[1].Filename)
		}
		if ct := files[0].Header.Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("unexpected part content type %q", ct)
		}

		f, _ := files[0].Open()
		content, _ := io.ReadAll(f)
		f.Close()
		if string(content) != "%PDF-1.7 alice" {
			t.Errorf("unexpected content %q", content)
		}

		writeJSON(t, w, http.StatusOK, map[string]any{
			"uploaded":      []map[string]any{{"resume_id": "r1", "filename": "alice.pdf", "status": "success"}},
			"failed":        []map[string]any{{"filename": `bob "the builder".PDF`, "error": "could not extract text", "code": 7}},
			"total":         2,
			"success_count": 1,
			"failure_count": 1,
		})
	})

	var progress bytes.Buffer
	result, err := c.UploadBatch(context.Background(), &UploadRequest{
		UserID:   testUserID,
		Tags:     []string{"SWE", "Go"},
		Files:    []string{first, second},
		Progress: &progress,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.SuccessCount != 1 || result.FailureCount != 1 || result.Len() != 2 {
		t.Fatalf("unexpected counts %+v", result)
	}
	if len(result.Uploaded) != 1 || result.Uploaded[0].ID != "r1" {
		t.Fatalf("unexpected uploaded %+v", result.Uploaded)
	}
	if len(result.Failed) != 1 || result.Failed[0].Error != "could not extract text" {
		t.Fatalf("unexpected failures %+v", result.Failed)
	}
	if progress.Len() != len("%PDF-1.7 alice")+len("%PDF-1.4 bob") {
		t.Fatalf("progress writer saw %d bytes", progress.Len())
	}
}

func TestUploadBatchErrors(t *testing.T) {
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Errorf("no request expected")
	})

	if _, err := c.UploadBatch(context.Background(), &UploadRequest{UserID: testUserID}); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}

	_, err := c.UploadBatch(context.Background(), &UploadRequest{
		UserID: testUserID,
		Files:  []string{filepath.Join(t.TempDir(), "missing.pdf")},
	})
	if err == nil || !strings.Contains(err.Error(), "missing.pdf") {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestDetectMIME(t *testing.T) {
	tests := []struct {
		ext      string
		expected string
	}{
		{ext: ".pdf", expected: "application/pdf"},
		{ext: ".PDF", expected: "application/pdf"},
		{ext: ".unknown-ext", expected: "application/octet-stream"},
		{ext: "", expected: "application/octet-stream"},
	}

	for _, tt := range tests {
		tt := tt
		if got := DetectMIME(tt.ext); got != tt.expected {
			t.Errorf("DetectMIME(%q) = %q, want %q", tt.ext, got, tt.expected)
		}
	}
}
