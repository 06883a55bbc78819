// Package engagement tracks per-user activity and renders the leaderboards.
package engagement

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Document is the root JSON structure stored on disk.
type Document struct {
	ActiveTime     map[string]float64 `json:"activeTime"`
	UserWordCounts map[string]int64   `json:"userWordCounts"`
}

// NewDocument returns a document with empty maps.
func NewDocument() Document {
	return Document{
		ActiveTime:     make(map[string]float64),
		UserWordCounts: make(map[string]int64),
	}
}

// Clone returns a deep copy.
func (d Document) Clone() Document {
	out := Document{
		ActiveTime:     make(map[string]float64, len(d.ActiveTime)),
		UserWordCounts: make(map[string]int64, len(d.UserWordCounts)),
	}
	for k, v := range d.ActiveTime {
		out.ActiveTime[k] = v
	}
	for k, v := range d.UserWordCounts {
		out.UserWordCounts[k] = v
	}
	return out
}

// Store persists the engagement document as a single JSON file.
type Store struct {
	path string
	log  *zap.Logger
}

// NewStore creates a store backed by the file at path.
func NewStore(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{path: path, log: log}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the document. Any read or parse failure is logged and yields an
// empty document.
func (s *Store) Load() Document {
	doc, err := s.read()
	if err != nil {
		s.log.Error("engagement: load failed, starting empty", zap.String("path", s.path), zap.Error(err))
		return NewDocument()
	}
	return doc
}

func (s *Store) read() (Document, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDocument(), nil
		}
		return Document{}, fmt.Errorf("read data file: %w", err)
	}

	if len(raw) == 0 {
		return NewDocument(), nil
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("parse data file: %w", err)
	}
	if doc.ActiveTime == nil {
		doc.ActiveTime = make(map[string]float64)
	}
	if doc.UserWordCounts == nil {
		doc.UserWordCounts = make(map[string]int64)
	}
	return doc, nil
}

// Save writes the full document atomically (temp file then rename).
func (s *Store) Save(doc Document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	raw, err := Encode(doc)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Encode renders a document in the on-disk format.
func Encode(doc Document) ([]byte, error) {
	if doc.ActiveTime == nil {
		doc.ActiveTime = map[string]float64{}
	}
	if doc.UserWordCounts == nil {
		doc.UserWordCounts = map[string]int64{}
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal data: %w", err)
	}
	return raw, nil
}
