// ABOUTME: Persists the bearer token across restarts, one slot per API origin
// ABOUTME: Backends never surface storage failures; reads degrade to absent

package tokenstore

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Key is the well-known slot name holding the bearer token
const Key = "auth_token"

// Backend names accepted by Open
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Store holds a single token. Implementations are synchronous and never fail:
// a broken backing store reads as absent and writes become logged no-ops.
type Store interface {
	Get() (string, bool)
	Set(token string)
	Clear()
}

// Config selects and locates a backend
type Config struct {
	Backend string
	Dir     string
	Origin  string
}

// Open returns the backend named in cfg. An empty backend means file.
func Open(cfg Config) (Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("token store directory is not set")
	}
	switch cfg.Backend {
	case "", BackendFile:
		return NewFile(cfg.Dir, cfg.Origin), nil
	case BackendSQLite:
		return OpenSQLite(filepath.Join(cfg.Dir, "tokens.db"), cfg.Origin)
	default:
		return nil, fmt.Errorf("unknown token backend %q (use %s or %s)", cfg.Backend, BackendFile, BackendSQLite)
	}
}

// Origin reduces an API URL to scheme://host[:port], the scope of a token slot
func Origin(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return strings.TrimRight(rawURL, "/")
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}
