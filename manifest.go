// manifest.go: Persisted enable/disable state as an injected collaborator
//
// The resolver itself holds no process-wide mutable state. Enablement of
// individual descriptors is owned by the host's configuration subsystem and
// injected through the small ManifestStore port. Two implementations are
// provided: an in-memory store for tests and simple hosts, and a file-backed
// store with Argus-based hot reload in JSON or YAML format.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package godescriptors

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/agilira/argus"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// maxManifestFileSize guards against reading a corrupted or hostile file.
const maxManifestFileSize = 10 * 1024 * 1024

// ManifestStore supplies persisted enable/disable state per descriptor id.
//
// Implementations must treat ids without a recorded entry as enabled:
// enablement is an opt-out switch, and a fresh host has no manifest entries.
type ManifestStore interface {
	// Enabled reports whether the descriptor may participate in resolution.
	Enabled(id uuid.UUID) bool

	// SetEnabled records the enablement state for a descriptor.
	SetEnabled(id uuid.UUID, enabled bool) error

	// Snapshot returns a copy of all recorded entries.
	Snapshot() map[uuid.UUID]bool
}

// MemoryManifestStore is a ManifestStore held entirely in memory.
type MemoryManifestStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]bool
}

// NewMemoryManifestStore creates an empty in-memory manifest store.
func NewMemoryManifestStore() *MemoryManifestStore {
	return &MemoryManifestStore{entries: make(map[uuid.UUID]bool)}
}

// Enabled implements ManifestStore.
func (m *MemoryManifestStore) Enabled(id uuid.UUID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	enabled, recorded := m.entries[id]
	return !recorded || enabled
}

// SetEnabled implements ManifestStore.
func (m *MemoryManifestStore) SetEnabled(id uuid.UUID, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = enabled
	return nil
}

// Snapshot implements ManifestStore.
func (m *MemoryManifestStore) Snapshot() map[uuid.UUID]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[uuid.UUID]bool, len(m.entries))
	for id, enabled := range m.entries {
		out[id] = enabled
	}
	return out
}

// manifestDocument is the on-disk shape of the manifest file. Keys are
// descriptor id strings so the file stays hand-editable.
type manifestDocument struct {
	Entries map[string]bool `json:"entries" yaml:"entries"`
}

// FileManifestOptions customizes a FileManifestStore.
type FileManifestOptions struct {
	// Logger for load, persist, and reload diagnostics. Defaults to silent.
	Logger Logger

	// PollInterval for the Argus file watcher used by Watch. Defaults to
	// one second.
	PollInterval time.Duration
}

// FileManifestStore persists enablement state to a JSON or YAML file, detected
// by extension. Writes are synchronous; external edits can be picked up at
// runtime through Watch.
type FileManifestStore struct {
	path    string
	logger  Logger
	options FileManifestOptions

	mu      sync.RWMutex
	entries map[uuid.UUID]bool

	watcherMu sync.Mutex
	watcher   *argus.Watcher
}

// NewFileManifestStore opens (or lazily creates) a manifest file. A missing
// file is not an error: the store starts empty and the file appears on the
// first SetEnabled call.
func NewFileManifestStore(path string, options FileManifestOptions) (*FileManifestStore, error) {
	if path == "" {
		return nil, NewManifestPathError(path, "path cannot be empty")
	}
	if options.Logger == nil {
		options.Logger = DefaultLogger()
	}
	if options.PollInterval <= 0 {
		options.PollInterval = time.Second
	}

	store := &FileManifestStore{
		path:    filepath.Clean(path),
		logger:  options.Logger,
		options: options,
		entries: make(map[uuid.UUID]bool),
	}

	if err := store.load(); err != nil {
		return nil, err
	}
	return store, nil
}

// Enabled implements ManifestStore.
func (s *FileManifestStore) Enabled(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enabled, recorded := s.entries[id]
	return !recorded || enabled
}

// SetEnabled implements ManifestStore. The new state is persisted before the
// call returns.
func (s *FileManifestStore) SetEnabled(id uuid.UUID, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = enabled
	return s.persistLocked()
}

// Snapshot implements ManifestStore.
func (s *FileManifestStore) Snapshot() map[uuid.UUID]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uuid.UUID]bool, len(s.entries))
	for id, enabled := range s.entries {
		out[id] = enabled
	}
	return out
}

// Watch starts monitoring the manifest file and reloads it on external
// changes. Stop must be called to release the watcher.
func (s *FileManifestStore) Watch() error {
	s.watcherMu.Lock()
	defer s.watcherMu.Unlock()

	if s.watcher != nil {
		return nil // already watching
	}

	watcher := argus.New(argus.Config{
		PollInterval:         s.options.PollInterval,
		MaxWatchedFiles:      1,
		OptimizationStrategy: argus.OptimizationSingleEvent,
		ErrorHandler: func(err error, path string) {
			s.logger.Error("Manifest file watching error", "error", err, "file", path)
		},
	})

	if err := watcher.Watch(s.path, s.handleChange); err != nil {
		return NewManifestWatchError(s.path, err)
	}
	if err := watcher.Start(); err != nil {
		return NewManifestWatchError(s.path, err)
	}

	s.watcher = watcher
	s.logger.Info("Manifest watcher started", "manifest_path", s.path)
	return nil
}

// Stop halts the manifest watcher, if running. Safe to call multiple times.
func (s *FileManifestStore) Stop() error {
	s.watcherMu.Lock()
	defer s.watcherMu.Unlock()

	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Stop()
	s.watcher = nil
	if err != nil {
		return NewManifestWatchError(s.path, err)
	}
	return nil
}

// handleChange reloads the manifest when the watched file changes on disk.
func (s *FileManifestStore) handleChange(event argus.ChangeEvent) {
	if event.IsDelete {
		s.logger.Warn("Manifest file deleted, keeping in-memory state", "manifest_path", event.Path)
		return
	}

	if err := s.load(); err != nil {
		s.logger.Error("Failed to reload manifest after change", "error", err, "manifest_path", event.Path)
		return
	}
	s.logger.Info("Manifest reloaded", "manifest_path", event.Path)
}

// load reads and parses the manifest file into the in-memory entry map.
func (s *FileManifestStore) load() error {
	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // fresh store
		}
		return NewManifestPathError(s.path, err.Error())
	}
	if !info.Mode().IsRegular() || info.Size() > maxManifestFileSize {
		return NewManifestPathError(s.path, "manifest file invalid or too large")
	}

	raw, err := os.ReadFile(s.path) // #nosec G304 -- path cleaned in constructor
	if err != nil {
		return NewManifestPathError(s.path, err.Error())
	}
	if len(raw) == 0 {
		return nil
	}

	var doc manifestDocument
	switch argus.DetectFormat(s.path) {
	case argus.FormatYAML:
		err = yaml.Unmarshal(raw, &doc)
	default:
		err = json.Unmarshal(raw, &doc)
	}
	if err != nil {
		return NewManifestParseError(s.path, err)
	}

	entries := make(map[uuid.UUID]bool, len(doc.Entries))
	for key, enabled := range doc.Entries {
		id, err := uuid.Parse(key)
		if err != nil {
			s.logger.Warn("Skipping manifest entry with invalid id", "entry", key)
			continue
		}
		entries[id] = enabled
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// persistLocked writes the entry map to disk. Callers hold s.mu.
func (s *FileManifestStore) persistLocked() error {
	doc := manifestDocument{Entries: make(map[string]bool, len(s.entries))}
	for id, enabled := range s.entries {
		doc.Entries[id.String()] = enabled
	}

	var raw []byte
	var err error
	switch argus.DetectFormat(s.path) {
	case argus.FormatYAML:
		raw, err = yaml.Marshal(doc)
	default:
		raw, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return NewManifestWriteError(s.path, err)
	}

	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return NewManifestWriteError(s.path, err)
	}
	return nil
}
