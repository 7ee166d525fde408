package report

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/nao1215/markdown"

	"github.com/hkfire/newsurl/internal/config"
	"github.com/hkfire/newsurl/internal/model"
)

// FileResult reports what a FileWriter did to one file.
type FileResult struct {
	// Path is the file that was written.
	Path string

	// Written is the number of link lines the run added or rewrote.
	Written int

	// Skipped is the number of articles already present in an appended file.
	Skipped int
}

// FileWriter writes OutputDocuments to disk.
//
// In overwrite mode the file is replaced atomically with the rendered
// document. In append mode existing lines are kept and only articles whose
// URL is not yet linked in the file are appended, so repeated runs do not
// duplicate lines.
type FileWriter struct {
	mode   string
	layout string
}

// NewFileWriter returns a FileWriter for the given output mode and layout.
func NewFileWriter(mode, layout string) *FileWriter {
	return &FileWriter{mode: mode, layout: layout}
}

// WriteFile writes doc to path, creating parent directories as needed.
func (w *FileWriter) WriteFile(path string, doc *model.OutputDocument) (FileResult, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return FileResult{Path: path}, fmt.Errorf("create output directory: %w", err)
	}

	if w.mode == config.ModeAppend {
		existing, err := os.ReadFile(filepath.Clean(path))
		switch {
		case err == nil:
			return w.appendFile(path, existing, doc)
		case !errors.Is(err, fs.ErrNotExist):
			return FileResult{Path: path}, fmt.Errorf("read output file: %w", err)
		}
	}
	return w.overwriteFile(path, doc)
}

func (w *FileWriter) overwriteFile(path string, doc *model.OutputDocument) (FileResult, error) {
	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf, WithLayout(w.layout)).Write(doc); err != nil {
		return FileResult{Path: path}, fmt.Errorf("render markdown: %w", err)
	}
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return FileResult{Path: path}, err
	}
	return FileResult{Path: path, Written: doc.Len()}, nil
}

func (w *FileWriter) appendFile(path string, existing []byte, doc *model.OutputDocument) (FileResult, error) {
	linked := LinkedURLs(existing)

	var fresh []model.Article
	for _, a := range doc.Entries() {
		if !linked[a.URL] {
			fresh = append(fresh, a)
		}
	}
	result := FileResult{Path: path, Written: len(fresh), Skipped: doc.Len() - len(fresh)}
	if len(fresh) == 0 {
		return result, nil
	}

	var buf bytes.Buffer
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		buf.WriteByte('\n')
	}
	md := markdown.NewMarkdown(&buf)
	md.BulletList(items(fresh)...)
	md.PlainText("")
	if err := md.Build(); err != nil {
		return FileResult{Path: path}, fmt.Errorf("render markdown: %w", err)
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec // output is meant to be readable
	if err != nil {
		return FileResult{Path: path}, fmt.Errorf("open output file: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return FileResult{Path: path}, fmt.Errorf("append output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return FileResult{Path: path}, fmt.Errorf("close output file: %w", err)
	}
	return result, nil
}

// linkLine matches a bullet link line and captures its URL.
var linkLine = regexp.MustCompile(`^\s*[-*]\s+\[.*\]\((\S+)\)\s*$`)

// LinkedURLs returns the URLs of every bullet link line in a markdown file.
func LinkedURLs(content []byte) map[string]bool {
	urls := make(map[string]bool)
	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if m := linkLine.FindStringSubmatch(sc.Text()); m != nil {
			urls[m[1]] = true
		}
	}
	return urls
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temporary file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temporary file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace output file: %w", err)
	}
	return nil
}
