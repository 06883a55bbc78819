package suggestions

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry stores suggestion records. Transition must be an atomic
// check-and-set from pending.
type Registry interface {
	Create(ctx context.Context, s Suggestion) error
	Get(ctx context.Context, id string) (Suggestion, error)
	AttachMessage(ctx context.Context, id, channelID, messageID string) error
	Transition(ctx context.Context, id string, to Status, actorID string, at time.Time) (Suggestion, error)
	Delete(ctx context.Context, id string) error
	// List returns suggestions newest first. An empty status returns all.
	List(ctx context.Context, status Status) ([]Suggestion, error)
}

// MemoryRegistry is a process-local Registry. When built with
// NewFileRegistry it rewrites its backing JSON file after every change, so
// pending posts stay resolvable across restarts.
type MemoryRegistry struct {
	mu    sync.RWMutex
	items map[string]Suggestion
	path  string
	log   *zap.Logger
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{items: make(map[string]Suggestion), log: zap.NewNop()}
}

// registryFile is the on-disk format of a file-backed registry.
type registryFile struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// NewFileRegistry loads the registry stored at path. A missing or empty file
// gives an empty registry; an unreadable one is logged and also starts empty.
func NewFileRegistry(path string, log *zap.Logger) *MemoryRegistry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &MemoryRegistry{items: make(map[string]Suggestion), path: path, log: log}

	items, err := readRegistryFile(path)
	if err != nil {
		log.Error("suggestions: load failed, starting empty", zap.String("path", path), zap.Error(err))
		return r
	}
	for _, s := range items {
		r.items[s.ID] = s
	}
	return r
}

func readRegistryFile(path string) ([]Suggestion, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read suggestions file: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var doc registryFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse suggestions file: %w", err)
	}
	return doc.Suggestions, nil
}

// persist writes every record to the backing file (temp file then rename).
// Callers hold the write lock.
func (r *MemoryRegistry) persist() error {
	if r.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create suggestions directory: %w", err)
	}

	doc := registryFile{Suggestions: make([]Suggestion, 0, len(r.items))}
	for _, s := range r.items {
		doc.Suggestions = append(doc.Suggestions, s)
	}
	sortNewestFirst(doc.Suggestions)
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode suggestions: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// save persists after a change that has already taken effect in memory.
func (r *MemoryRegistry) save(id string) {
	if err := r.persist(); err != nil {
		r.log.Error("suggestions: save failed", zap.String("path", r.path), zap.String("id", id), zap.Error(err))
	}
}

// Create fails, leaving nothing recorded, when the record cannot be persisted.
func (r *MemoryRegistry) Create(_ context.Context, s Suggestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.ID] = s
	if err := r.persist(); err != nil {
		delete(r.items, s.ID)
		return err
	}
	return nil
}

func (r *MemoryRegistry) Get(_ context.Context, id string) (Suggestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok {
		return Suggestion{}, ErrNotFound
	}
	return s, nil
}

func (r *MemoryRegistry) AttachMessage(_ context.Context, id, channelID, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	s.ChannelID = channelID
	s.MessageID = messageID
	r.items[id] = s
	r.save(id)
	return nil
}

func (r *MemoryRegistry) Transition(_ context.Context, id string, to Status, actorID string, at time.Time) (Suggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return Suggestion{}, ErrNotFound
	}
	if err := s.Resolve(to, actorID, at); err != nil {
		return s, err
	}
	r.items[id] = s
	r.save(id)
	return s, nil
}

func (r *MemoryRegistry) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	r.save(id)
	return nil
}

func (r *MemoryRegistry) List(_ context.Context, status Status) ([]Suggestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Suggestion, 0, len(r.items))
	for _, s := range r.items {
		if status == "" || s.Status == status {
			out = append(out, s)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(list []Suggestion) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
}
