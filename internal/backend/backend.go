// Package backend abstracts one pDNS query service: URL construction,
// credential injection, HTTP-status interpretation, verb/parameter
// validation, and the optional "info" rate-limit request.
package backend

import (
	"fmt"
	"net/http"
	"sync"

	"pdnsq/internal/query"
)

// Encapsulation identifies the wire framing a backend uses for streamed
// results.
type Encapsulation string

const (
	EncapCOF Encapsulation = "cof"
	EncapSAF Encapsulation = "saf"
)

// Status is the two-valued verdict a backend derives from an HTTP response.
type Status string

const (
	StatusNoError Status = "noerror"
	StatusError   Status = "error"
)

// Backend is implemented by one pDNS service adapter.
type Backend interface {
	// Name identifies this backend in error messages and -u selection.
	Name() string

	// URL composes an absolute request URL from a RESTful path (e.g.
	// "rrset/name/example.com/A") plus query parameters derived from params
	// and fence. Returns an error when the combination is unrecoverable.
	URL(path string, params query.Params, fence query.Fence, isMetaQuery bool) (string, error)

	// Auth installs credentials on the outgoing request.
	Auth(req *http.Request)

	// Status maps an HTTP status code to a two-valued verdict. SAF-encapsulated
	// 404 is "error"; COF 404 means an empty, successful result.
	Status(httpCode int) Status

	// VerbOk rejects verb/parameter combinations this backend cannot serve.
	VerbOk(verb query.Verb, params query.Params) error

	// SetVal receives one configuration key/value pair (apikey, server, ...).
	SetVal(key, value string) error

	// Ready performs a final readiness check once configuration is complete.
	Ready() error

	// Encap reports this backend's wire framing.
	Encap() Encapsulation

	// InfoPath returns the RESTful path for this backend's rate-limit
	// endpoint, or "" if it doesn't support one.
	InfoPath() string

	// MaxRRTypes is the largest rrtype fan-out this backend accepts.
	MaxRRTypes() int
}

// Registry resolves backends by name for -u NAME / config-file selection.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
	def      string
}

// NewRegistry creates an empty backend registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

// Register adds a backend under its own name. The first backend registered
// becomes the default unless SetDefault is called explicitly.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[b.Name()] = b
	if r.def == "" {
		r.def = b.Name()
	}
}

// SetDefault overrides which backend Resolve("") returns.
func (r *Registry) SetDefault(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.def = name
}

// Resolve returns the named backend, or the registry default when name is
// empty.
func (r *Registry) Resolve(name string) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.def
	}
	if name == "" {
		return nil, fmt.Errorf("backend: no backend selected and no default configured")
	}
	b, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("backend: unknown backend %q", name)
	}
	return b, nil
}

// Names lists all registered backend names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.backends))
	for n := range r.backends {
		names = append(names, n)
	}
	return names
}
