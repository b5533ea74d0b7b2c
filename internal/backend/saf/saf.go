// Package saf implements a SAF-capable pDNS backend: it streams results
// wrapped in {"cond","msg","obj"} envelopes and appends a /v2 suffix to the
// request path when that suffix is not already present.
package saf

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"pdnsq/internal/backend"
	"pdnsq/internal/query"
)

// maxRRTypes bounds an rrtype fan-out on this backend.
const maxRRTypes = 32

// Backend is a SAF-capable pDNS service adapter (modeled on Farsight DNSDB's
// API shape: X-Api-Key header auth, a /v2 URL suffix, lookup + summarize).
type Backend struct {
	name    string
	server  string
	apikey  string
	swclient string
	version  string
}

// New creates a SAF backend identified by name, defaulting to the given
// base server URL (overridable via SetVal("server", ...)).
func New(name, defaultServer string) *Backend {
	return &Backend{
		name:     name,
		server:   defaultServer,
		swclient: "pdnsq",
		version:  "1",
	}
}

func (b *Backend) Name() string                { return b.name }
func (b *Backend) Encap() backend.Encapsulation { return backend.EncapSAF }
func (b *Backend) MaxRRTypes() int              { return maxRRTypes }
func (b *Backend) InfoPath() string             { return "rate_limit" }

func (b *Backend) SetVal(key, value string) error {
	switch key {
	case "server":
		b.server = value
	case "apikey":
		b.apikey = value
	case "swclient":
		b.swclient = value
	case "version":
		b.version = value
	default:
		return fmt.Errorf("saf backend: unknown config key %q", key)
	}
	return nil
}

func (b *Backend) Ready() error {
	if b.server == "" {
		return fmt.Errorf("saf backend %q: no server configured", b.name)
	}
	if b.apikey == "" {
		return fmt.Errorf("saf backend %q: no apikey configured", b.name)
	}
	return nil
}

func (b *Backend) Auth(req *http.Request) {
	req.Header.Set("X-Api-Key", b.apikey)
}

// Status maps HTTP code to a two-valued verdict. On a SAF backend a 404 is
// an error: absence of results is instead reported via cond=succeeded with
// no intervening ongoing records.
func (b *Backend) Status(httpCode int) backend.Status {
	if httpCode >= 200 && httpCode < 300 {
		return backend.StatusNoError
	}
	return backend.StatusError
}

func (b *Backend) VerbOk(verb query.Verb, params query.Params) error {
	switch verb {
	case query.VerbLookup, query.VerbSummarize:
		return nil
	default:
		return fmt.Errorf("saf backend %q: unsupported verb %q", b.name, verb)
	}
}

func (b *Backend) URL(path string, params query.Params, fence query.Fence, isMetaQuery bool) (string, error) {
	if b.server == "" {
		return "", fmt.Errorf("saf backend %q: no server configured", b.name)
	}

	full := path
	if !isMetaQuery && !strings.Contains(full, "/v2/") && !strings.HasPrefix(full, "v2/") {
		full = "v2/" + full
	}

	u, err := url.Parse(strings.TrimRight(b.server, "/") + "/" + full)
	if err != nil {
		return "", fmt.Errorf("saf backend %q: %w", b.name, err)
	}

	q := u.Query()
	q.Set("swclient", b.swclient)
	q.Set("version", b.version)

	if !isMetaQuery {
		if params.QueryLimit >= 0 {
			q.Set("limit", strconv.Itoa(params.QueryLimit))
		}
		if params.MaxCount >= 0 {
			q.Set("max_count", strconv.Itoa(params.MaxCount))
		}
		if params.Offset > 0 {
			q.Set("offset", strconv.Itoa(params.Offset))
		}
		if params.Gravel {
			q.Set("aggr", "f")
		}
		if fence.FirstAfter > 0 {
			q.Set("time_first_after", strconv.FormatInt(fence.FirstAfter, 10))
		}
		if fence.FirstBefore > 0 {
			q.Set("time_first_before", strconv.FormatInt(fence.FirstBefore, 10))
		}
		if fence.LastAfter > 0 {
			q.Set("time_last_after", strconv.FormatInt(fence.LastAfter, 10))
		}
		if fence.LastBefore > 0 {
			q.Set("time_last_before", strconv.FormatInt(fence.LastBefore, 10))
		}
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}
