package resudoc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	uploadBatchPath = "/resumes/upload-batch"
	filesField      = "files"
	fallbackMIME    = "application/octet-stream"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

type UploadRequest struct {
	UserID string
	Tags   []string
	// Files are local paths. Each one becomes a "files" part named after its base name.
	Files []string
	// Progress, when set, receives every byte read from Files.
	Progress io.Writer
}

type BatchUpload struct {
	Uploaded     []*UploadedResume `json:"uploaded"`
	RawFailed    []map[string]any  `json:"failed"`
	Failed       []*UploadFailure  `json:"-"`
	Total        int               `json:"total"`
	SuccessCount int               `json:"success_count"`
	FailureCount int               `json:"failure_count"`
}

type UploadedResume struct {
	ID       string `json:"resume_id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
}

type UploadFailure struct {
	Filename string `mapstructure:"filename"`
	Error    string `mapstructure:"error"`
}

func (c *Client) UploadBatch(ctx context.Context, r *UploadRequest) (*BatchUpload, error) {
	if r == nil || len(r.Files) == 0 {
		return nil, ErrNoFiles
	}

	body, formType, err := buildUploadForm(r)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("uploading resumes",
		zap.Int("files", len(r.Files)),
		zap.Strings("tags", r.Tags),
		zap.Int("body_bytes", body.Len()),
	)

	var result BatchUpload
	if err := c.do(ctx, http.MethodPost, uploadBatchPath, nil, body, formType, &result); err != nil {
		return nil, err
	}

	failed, err := decodeFailures(result.RawFailed)
	if err != nil {
		return nil, fmt.Errorf("decode upload failures: %w", err)
	}
	result.Failed = failed

	return &result, nil
}

// Len is the number of files the server accounted for.
func (b *BatchUpload) Len() int {
	return b.SuccessCount + b.FailureCount
}

func buildUploadForm(r *UploadRequest) (*bytes.Buffer, string, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	for _, path := range r.Files {
		if err := writeFilePart(w, path, r.Progress); err != nil {
			return nil, "", err
		}
	}

	fields := [][2]string{
		{"user_id", r.UserID},
		{"tags", strings.Join(r.Tags, ",")},
	}
	for _, field := range fields {
		if err := w.WriteField(field[0], field[1]); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &b, w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, path string, progress io.Writer) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		filesField, quoteEscaper.Replace(filepath.Base(path))))
	h.Set("Content-Type", DetectMIME(filepath.Ext(path)))

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}

	var src io.Reader = file
	if progress != nil {
		src = io.TeeReader(file, progress)
	}

	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

// DetectMIME maps a file extension to the content type sent with its part.
func DetectMIME(ext string) string {
	if strings.EqualFold(ext, ".pdf") {
		return "application/pdf"
	}

	if t := mime.TypeByExtension(strings.ToLower(ext)); t != "" {
		return t
	}

	return fallbackMIME
}

// decodeFailures turns the loosely shaped "failed" entries into typed values.
func decodeFailures(raw []map[string]any) ([]*UploadFailure, error) {
	failures := make([]*UploadFailure, 0, len(raw))
	if len(raw) == 0 {
		return failures, nil
	}

	cfg := &mapstructure.DecoderConfig{
		Result:           &failures,
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}

	return failures, nil
}
