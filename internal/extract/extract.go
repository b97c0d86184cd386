package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extractor converts raw document bytes into a single flat text stream.
type Extractor interface {
	Extract(path string) (string, error)
}

// Options tunes extraction behavior.
type Options struct {
	// PDFFallbackPdftotext enables shelling out to pdftotext when the Go
	// PDF library fails on a document.
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate extractor for a filename.
func ForFile(filename string, opts Options) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".csv":
		return &CSVExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// File extracts the full text of the document at path. A document that is
// missing, unreadable, or empty after extraction is an error.
func File(path string, opts Options) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("document unavailable: %w", err)
	}
	ex, err := ForFile(path, opts)
	if err != nil {
		return "", err
	}
	text, err := ex.Extract(path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("document %s is empty after extraction", path)
	}
	return text, nil
}
