package doccache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/dgallion1/filingqa/internal/segment"
)

// recordVersion is bumped on incompatible schema changes. A version mismatch
// degrades to a cache miss, never an error.
const recordVersion = 1

// Fingerprint identifies the state of a source document. Equality of
// fingerprints is the sole staleness test.
type Fingerprint struct {
	ModTime int64 `json:"mod_time"`
	Size    int64 `json:"size"`
}

// FingerprintFile computes the fingerprint of the document at path.
func FingerprintFile(path string) (Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("stat document: %w", err)
	}
	return Fingerprint{ModTime: info.ModTime().UnixNano(), Size: info.Size()}, nil
}

// record is the on-disk cache schema.
type record struct {
	Version     int               `json:"version"`
	Fingerprint Fingerprint       `json:"fingerprint"`
	Checksum    string            `json:"checksum"`
	FullText    string            `json:"full_text"`
	Sections    []segment.Section `json:"sections"`
}

// Extractor turns a document path into a flat text stream.
type Extractor func(path string) (string, error)

// Cache persists extracted text and its segmentation keyed by document
// fingerprint. It exclusively owns the cache file.
type Cache struct {
	path string
	seg  *segment.Segmenter
	log  *slog.Logger
}

func New(path string, seg *segment.Segmenter, log *slog.Logger) *Cache {
	return &Cache{path: path, seg: seg, log: log}
}

// LoadOrBuild returns the cached text and sections for docPath when the
// stored fingerprint matches the document's current one, and otherwise
// re-extracts, re-segments and persists. Any unreadable or corrupt cache
// record is treated as a miss. A persistence failure is logged and the fresh
// result is still returned.
func (c *Cache) LoadOrBuild(docPath string, extract Extractor) (string, []segment.Section, error) {
	fp, err := FingerprintFile(docPath)
	if err != nil {
		return "", nil, err
	}

	if rec, ok := c.load(); ok && rec.Fingerprint == fp {
		c.log.Info("loaded document from cache",
			"path", c.path, "sections", len(rec.Sections), "chars", len(rec.FullText))
		return rec.FullText, rec.Sections, nil
	}

	text, err := extract(docPath)
	if err != nil {
		return "", nil, fmt.Errorf("extract %s: %w", docPath, err)
	}

	sections := c.seg.Split(text)

	if err := c.store(record{
		Version:     recordVersion,
		Fingerprint: fp,
		Checksum:    checksum(text),
		FullText:    text,
		Sections:    sections,
	}); err != nil {
		c.log.Warn("cache persist failed, will re-extract next run", "path", c.path, "error", err)
	} else {
		c.log.Info("cached document", "path", c.path, "sections", len(sections), "chars", len(text))
	}

	return text, sections, nil
}

// load reads and validates the cache record. It reports ok=false for any
// missing, unreadable or corrupt record.
func (c *Cache) load() (record, bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.log.Warn("cache unreadable, rebuilding", "path", c.path, "error", err)
		}
		return record{}, false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		c.log.Warn("cache corrupt, rebuilding", "path", c.path, "error", err)
		return record{}, false
	}
	if rec.Version != recordVersion || rec.FullText == "" || rec.Checksum == "" {
		c.log.Warn("cache record incomplete or from another schema version, rebuilding",
			"path", c.path, "version", rec.Version)
		return record{}, false
	}
	if checksum(rec.FullText) != rec.Checksum {
		c.log.Warn("cache checksum mismatch, rebuilding", "path", c.path)
		return record{}, false
	}
	return rec, true
}

// store writes the record atomically: temp file in the same directory, then
// rename. A crash mid-write leaves either the old cache or no cache.
func (c *Cache) store(rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal cache record: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".doccache-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename cache file: %w", err)
	}
	return nil
}

func checksum(text string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(text))
}
