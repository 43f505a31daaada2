package loader

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"docqa/internal/domain"
)

// MaxFileSize is the per-file size cap for uploaded documents.
const MaxFileSize = 50 << 20

// FileLoader extracts page-level text from PDF files, with a plain-text
// path for .txt and .md inputs.
type FileLoader struct {
	maxSize int64
}

// New creates a loader with the default size cap.
func New() *FileLoader {
	return &FileLoader{maxSize: MaxFileSize}
}

// Load reads the file at path and returns its extracted pages.
// Unsupported or corrupt files fail with domain.ErrUnreadableDocument.
func (l *FileLoader) Load(path string) (domain.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: %s: %v", domain.ErrUnreadableDocument, path, err)
	}
	if info.Size() > l.maxSize {
		return domain.Document{}, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrUnreadableDocument, path, l.maxSize)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return l.loadPDF(path)
	case ".txt", ".md":
		return l.loadText(path)
	default:
		return domain.Document{}, fmt.Errorf("%w: unsupported file type %q", domain.ErrUnreadableDocument, ext)
	}
}

func (l *FileLoader) loadPDF(path string) (doc domain.Document, err error) {
	// The pdf library panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			doc = domain.Document{}
			err = fmt.Errorf("%w: %s: %v", domain.ErrUnreadableDocument, path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: %s: %v", domain.ErrUnreadableDocument, path, err)
	}
	defer f.Close()

	doc = domain.Document{ID: hashString(path), Name: filepath.Base(path), Path: path}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			// A single bad page should not drop the whole document.
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		doc.Pages = append(doc.Pages, domain.Page{Number: i, Text: text})
	}
	if len(doc.Pages) == 0 {
		return domain.Document{}, fmt.Errorf("%w: no extractable text in %s", domain.ErrUnreadableDocument, path)
	}
	return doc, nil
}

func (l *FileLoader) loadText(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: %s: %v", domain.ErrUnreadableDocument, path, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return domain.Document{}, fmt.Errorf("%w: %s is empty", domain.ErrUnreadableDocument, path)
	}
	return domain.Document{
		ID:    hashString(path),
		Name:  filepath.Base(path),
		Path:  path,
		Pages: []domain.Page{{Number: 1, Text: text}},
	}, nil
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
