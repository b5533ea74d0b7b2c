// Package cof implements a COF-only pDNS backend: plain newline-delimited
// JSON, no SAF envelope, "lookup" verb only, and no path qualifiers.
package cof

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"pdnsq/internal/backend"
	"pdnsq/internal/query"
)

const maxRRTypes = 1 // this backend cannot fan out across rrtypes at all

// allowedPrefixes are the only three RESTful prefixes this backend accepts,
// each with a bare (unqualified) value.
var allowedPrefixes = map[query.Mode]string{
	query.ModeRRsetByName: "rrset/name",
	query.ModeRdataByName: "rdata/name",
	query.ModeRdataByIP:   "rdata/ip",
}

// Backend is a lookup-only pDNS service adapter that cannot encode rrtype,
// bailiwick, or prefix-length qualifiers.
type Backend struct {
	name     string
	server   string
	apikey   string
	swclient string
	version  string
}

// New creates a COF backend identified by name.
func New(name, defaultServer string) *Backend {
	return &Backend{
		name:     name,
		server:   defaultServer,
		swclient: "pdnsq",
		version:  "1",
	}
}

func (b *Backend) Name() string                { return b.name }
func (b *Backend) Encap() backend.Encapsulation { return backend.EncapCOF }
func (b *Backend) MaxRRTypes() int              { return maxRRTypes }
func (b *Backend) InfoPath() string             { return "" }

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
		return fmt.Errorf("cof backend: unknown config key %q", key)
	}
	return nil
}

func (b *Backend) Ready() error {
	if b.server == "" {
		return fmt.Errorf("cof backend %q: no server configured", b.name)
	}
	return nil
}

func (b *Backend) Auth(req *http.Request) {
	if b.apikey != "" {
		req.SetBasicAuth(b.name, b.apikey)
	}
}

// Status maps HTTP code to a two-valued verdict. On a COF backend a 404
// means an empty, successful result.
func (b *Backend) Status(httpCode int) backend.Status {
	if httpCode == http.StatusNotFound {
		return backend.StatusNoError
	}
	if httpCode >= 200 && httpCode < 300 {
		return backend.StatusNoError
	}
	return backend.StatusError
}

func (b *Backend) VerbOk(verb query.Verb, params query.Params) error {
	if verb != query.VerbLookup {
		return fmt.Errorf("cof backend %q: only the lookup verb is supported", b.name)
	}
	return nil
}

func (b *Backend) URL(path string, params query.Params, fence query.Fence, isMetaQuery bool) (string, error) {
	if b.server == "" {
		return "", fmt.Errorf("cof backend %q: no server configured", b.name)
	}
	if isMetaQuery {
		return "", fmt.Errorf("cof backend %q: no info endpoint", b.name)
	}

	// path is "verb/prefix/value[/qualifier...]"; this backend only serves
	// "lookup" (enforced in VerbOk) and rejects qualifiers.
	path = strings.TrimPrefix(path, string(query.VerbLookup)+"/")

	parts := strings.SplitN(path, "/", 3)
	if len(parts) < 2 {
		return "", fmt.Errorf("cof backend %q: malformed query path %q", b.name, path)
	}
	prefix := parts[0] + "/" + parts[1]

	value := ""
	found := false
	for _, allowed := range allowedPrefixes {
		if allowed == prefix {
			found = true
			break
		}
	}
	if !found {
		return "", fmt.Errorf("cof backend %q: unsupported query prefix %q", b.name, prefix)
	}

	value = strings.TrimPrefix(path, prefix+"/")
	if strings.Contains(value, "/") {
		return "", fmt.Errorf("cof backend %q: qualified value %q not supported", b.name, value)
	}

	u, err := url.Parse(strings.TrimRight(b.server, "/") + "/" + prefix + "/" + value)
	if err != nil {
		return "", fmt.Errorf("cof backend %q: %w", b.name, err)
	}

	q := u.Query()
	q.Set("swclient", b.swclient)
	q.Set("version", b.version)

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

	u.RawQuery = q.Encode()
	return u.String(), nil
}
