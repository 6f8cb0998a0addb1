package selection

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var pdfMagic = []byte("%PDF-")

// Files is the ordered list of paths waiting to be uploaded.
// Adding the same path twice keeps both entries.
type Files struct {
	paths []string
}

func (f *Files) Add(paths ...string) {
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			f.paths = append(f.paths, p)
		}
	}
}

// AddDropped adds only the paths that look like PDFs and returns how many
// were skipped.
func (f *Files) AddDropped(paths ...string) int {
	skipped := 0
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !IsPDF(p) {
			skipped++
			continue
		}
		f.paths = append(f.paths, p)
	}
	return skipped
}

// Remove drops the entry at index. Out of range indexes are ignored.
func (f *Files) Remove(index int) bool {
	if index < 0 || index >= len(f.paths) {
		return false
	}
	f.paths = slices.Delete(f.paths, index, index+1)
	return true
}

func (f *Files) Clear() {
	f.paths = nil
}

func (f *Files) Len() int {
	return len(f.paths)
}

func (f *Files) Paths() []string {
	return slices.Clone(f.paths)
}

// Ready reports whether there is anything to upload.
func (f *Files) Ready() bool {
	return len(f.paths) > 0
}

// IsPDF checks the extension first and falls back to the file header.
func IsPDF(path string) bool {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return true
	}

	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	header := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(file, header); err != nil {
		return false
	}
	return bytes.Equal(header, pdfMagic)
}

// PDFsInDir lists the PDFs directly inside dir, sorted by name.
func PDFsInDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if IsPDF(path) {
			paths = append(paths, path)
		}
	}
	return paths, nil
}
