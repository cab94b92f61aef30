package registry

import (
	"errors"
	"log/slog"
	"sync"
)

// ErrHostNotFound reports a lookup against an address that is not part of
// the active host set.
var ErrHostNotFound = errors.New("host not found")

// Registry holds the active host set. Reads are concurrent; the set is
// only ever replaced wholesale under the write lock.
type Registry struct {
	path   string
	logger *slog.Logger

	mu    sync.RWMutex
	hosts []Host
	index map[string]Host
}

// New loads the hosts file at path and returns a registry backed by it.
func New(path string, logger *slog.Logger) (*Registry, error) {
	hosts, err := Load(path)
	if err != nil {
		return nil, err
	}

	r := &Registry{path: path, logger: logger}
	r.swap(hosts)

	logger.Info("host registry loaded",
		slog.String("file", path),
		slog.Int("hosts", len(hosts)))

	return r, nil
}

// Current returns a copy of the active host set.
func (r *Registry) Current() []Host {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Host, len(r.hosts))
	copy(out, r.hosts)
	return out
}

// Lookup resolves a host by address, returning ErrHostNotFound for
// addresses outside the active set.
func (r *Registry) Lookup(address string) (Host, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.index[address]
	if !ok {
		return Host{}, ErrHostNotFound
	}
	return h, nil
}

// Len returns the size of the active host set.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hosts)
}

// Reload re-reads the hosts file and swaps the active set only on success.
// A failed reload keeps the previous set in effect and returns the error.
func (r *Registry) Reload() (int, error) {
	hosts, err := Load(r.path)
	if err != nil {
		r.logger.Warn("host registry reload failed, keeping previous set",
			slog.String("file", r.path),
			slog.String("error", err.Error()))
		return 0, err
	}

	r.swap(hosts)

	r.logger.Info("host registry reloaded",
		slog.String("file", r.path),
		slog.Int("hosts", len(hosts)))

	return len(hosts), nil
}

func (r *Registry) swap(hosts []Host) {
	index := make(map[string]Host, len(hosts))
	for _, h := range hosts {
		index[h.Address] = h
	}

	r.mu.Lock()
	r.hosts = hosts
	r.index = index
	r.mu.Unlock()
}
