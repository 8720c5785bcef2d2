// Package document loads readable text from files and the clipboard.
package document

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/klauspost/compress/gzip"
	"github.com/mitchellh/go-homedir"
)

var (
	// ErrUnsupportedType is returned for file extensions with no extractor.
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrEmptyDocument is returned when no readable text remains.
	ErrEmptyDocument = errors.New("no readable text found")
)

// Document is plain text ready for tokenizing.
type Document struct {
	Path string
	Name string
	Text string
}

// Load reads the document at path. A trailing .gz is decompressed before
// the inner extension selects the extractor.
func Load(path string) (Document, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to expand path: %w", err)
	}
	file, err := os.Open(expanded)
	if err != nil {
		return Document{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only document.
			_ = cerr
		}
	}()

	var r io.Reader = bufio.NewReader(file)
	name := expanded
	if strings.EqualFold(filepath.Ext(name), ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return Document{}, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer func() {
			_ = gz.Close()
		}()
		r = gz
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", expanded, err)
	}
	doc, err := Parse(name, data)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", expanded, err)
	}
	doc.Path = expanded
	return doc, nil
}

// Read loads a plain-text document from r, e.g. stdin.
func Read(r io.Reader, name string) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return Parse(name, data)
}

// FromClipboard reads plain text from the system clipboard.
func FromClipboard() (Document, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return Document{}, fmt.Errorf("failed to read clipboard: %w", err)
	}
	return Parse("clipboard", []byte(text))
}

// Parse extracts text from data, choosing an extractor by name's extension.
// Names without an extension are treated as plain text.
func Parse(name string, data []byte) (Document, error) {
	var text string
	switch strings.ToLower(filepath.Ext(name)) {
	case "", ".txt", ".text":
		text = string(data)
	case ".md", ".markdown":
		text = Markdown(data)
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Ext(name))
	}
	if strings.TrimSpace(text) == "" {
		return Document{}, ErrEmptyDocument
	}
	return Document{Name: filepath.Base(name), Text: text}, nil
}
