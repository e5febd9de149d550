package chunk

import (
	"fmt"
	"os"
	"path/filepath"

	"code.sajari.com/docconv/v2"
)

// FileReader extracts plain text from a document file.
type FileReader interface {
	// CanRead reports whether the reader handles the file.
	CanRead(path string) bool

	// ReadText extracts the file's text content.
	ReadText(path string) (string, error)
}

// TextReader reads plain .txt and .md files directly.
type TextReader struct{}

func (r *TextReader) CanRead(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".txt" || ext == ".md"
}

func (r *TextReader) ReadText(path string) (string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading text file: %w", err)
	}

	return string(buf), nil
}

// UniversalReader extracts text from richer document formats via docconv.
type UniversalReader struct{}

func (r *UniversalReader) CanRead(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".pdf" || ext == ".docx" || ext == ".odt" || ext == ".rtf" || ext == ".html"
}

func (r *UniversalReader) ReadText(path string) (string, error) {
	res, err := docconv.ConvertPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}

	return res.Body, nil
}

// DefaultReaders returns the standard reader chain, plain text first.
func DefaultReaders() []FileReader {
	return []FileReader{&TextReader{}, &UniversalReader{}}
}
