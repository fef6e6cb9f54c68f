// ABOUTME: JSON file token backend in the hrdesk config directory
// ABOUTME: Keeps one slot per origin in tokens.json with owner-only permissions

package tokenstore

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps tokens in <dir>/tokens.json
type FileStore struct {
	dir    string
	origin string
	mu     sync.Mutex
}

type fileData struct {
	Origins map[string]map[string]string `json:"origins"`
}

// NewFile creates a file backed store for origin
func NewFile(dir, origin string) *FileStore {
	return &FileStore{dir: dir, origin: origin}
}

func (f *FileStore) path() string {
	return filepath.Join(f.dir, "tokens.json")
}

// load reads the whole file; missing or invalid content starts fresh
func (f *FileStore) load() fileData {
	fd := fileData{Origins: map[string]map[string]string{}}
	data, err := os.ReadFile(f.path())
	if os.IsNotExist(err) {
		return fd
	}
	if err != nil {
		slog.Warn("Failed to read token file", "path", f.path(), "error", err)
		return fd
	}
	if err := json.Unmarshal(data, &fd); err != nil {
		slog.Warn("Ignoring corrupt token file", "path", f.path(), "error", err)
		return fileData{Origins: map[string]map[string]string{}}
	}
	if fd.Origins == nil {
		fd.Origins = map[string]map[string]string{}
	}
	return fd
}

func (f *FileStore) save(fd fileData) {
	if err := os.MkdirAll(f.dir, 0700); err != nil {
		slog.Warn("Failed to create token directory", "dir", f.dir, "error", err)
		return
	}
	data, err := json.MarshalIndent(fd, "", "  ")
	if err != nil {
		slog.Warn("Failed to encode token file", "error", err)
		return
	}
	if err := os.WriteFile(f.path(), data, 0600); err != nil {
		slog.Warn("Failed to write token file", "path", f.path(), "error", err)
	}
}

// Get returns the token for this origin
func (f *FileStore) Get() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tok := f.load().Origins[f.origin][Key]
	return tok, tok != ""
}

// Set stores the token for this origin, leaving other origins alone
func (f *FileStore) Set(token string) {
	if token == "" {
		f.Clear()
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	fd := f.load()
	slot := fd.Origins[f.origin]
	if slot == nil {
		slot = map[string]string{}
		fd.Origins[f.origin] = slot
	}
	slot[Key] = token
	f.save(fd)
}

// Clear removes the token for this origin
func (f *FileStore) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	fd := f.load()
	slot, ok := fd.Origins[f.origin]
	if !ok {
		return
	}
	delete(slot, Key)
	if len(slot) == 0 {
		delete(fd.Origins, f.origin)
	}
	f.save(fd)
}
