// Package engine wires one query descriptor through backend URL
// construction, rrtype fan-out, fence decomposition, concurrent HTTP
// fetches, and the writer/sort/presenter pipeline. It is the glue layer
// spec.md's "query engine" and "HTTP transport" components meet at.
package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"pdnsq/internal/backend"
	"pdnsq/internal/logger"
	"pdnsq/internal/query"
	"pdnsq/internal/transport"
	"pdnsq/internal/writer"
)

// Engine runs queries against one backend over one shared transport.
type Engine struct {
	Backend   backend.Backend
	Transport *transport.Transport
}

// New creates an engine bound to a backend and transport.
func New(b backend.Backend, t *transport.Transport) *Engine {
	return &Engine{Backend: b, Transport: t}
}

// Run builds and executes every Fetch for desc/params, dispatches accepted
// records into w, drains the sort stage (if enabled) and reports the
// query's terminal status. The returned error is non-nil for a
// configuration-level failure (invalid params or rrtype list, backend
// rejects the verb or cannot build a URL), a cancelled context, or a
// sort-stage/presenter failure during Drain or Summarize. Per-fetch
// HTTP/transport/SAF errors are reported via the Query's Status/Message and
// do not prevent Run from returning nil.
func (e *Engine) Run(ctx context.Context, desc query.Descriptor, params query.Params, w *writer.Writer) (*query.Query, error) {
	q, err := e.dispatch(ctx, desc, params, w)
	if err != nil {
		return nil, err
	}

	if err := w.Drain(q); err != nil {
		return nil, fmt.Errorf("engine: drain: %w", err)
	}
	if desc.Verb == query.VerbSummarize {
		if err := w.Summarize(q); err != nil {
			return nil, fmt.Errorf("engine: summarize: %w", err)
		}
	}

	return q, nil
}

// RunShared is Run without the per-query Drain, for batch "multiple" mode
// where several queries share one Writer/sort child: the batch driver
// drains once, after every query has finished writing. Summarize is still
// per-query, since its banner only needs this query's own accepted count.
func (e *Engine) RunShared(ctx context.Context, desc query.Descriptor, params query.Params, w *writer.Writer) (*query.Query, error) {
	q, err := e.dispatch(ctx, desc, params, w)
	if err != nil {
		return nil, err
	}

	if desc.Verb == query.VerbSummarize {
		if err := w.Summarize(q); err != nil {
			return nil, fmt.Errorf("engine: summarize: %w", err)
		}
	}

	return q, nil
}

// Info issues the backend's degenerate "info" request (rate-limit status
// and similar account metadata) and returns the raw response body, per
// §9's "info as a non-demuxed query": the body is consumed as a single
// blob rather than line-demuxed, so it bypasses Transport.Run entirely.
func (e *Engine) Info(ctx context.Context) ([]byte, error) {
	path := e.Backend.InfoPath()
	if path == "" {
		return nil, fmt.Errorf("engine: backend %q has no info endpoint", e.Backend.Name())
	}

	url, err := e.Backend.URL(path, query.Params{}, query.Fence{}, true)
	if err != nil {
		return nil, fmt.Errorf("engine: building info url: %w", err)
	}

	body, status, err := e.Transport.FetchBlob(ctx, e.Backend, url)
	if err != nil {
		return nil, err
	}
	if e.Backend.Status(status) != backend.StatusNoError {
		return nil, fmt.Errorf("engine: info request failed with status %d: %s", status, string(body))
	}
	return body, nil
}

func (e *Engine) dispatch(ctx context.Context, desc query.Descriptor, params query.Params, w *writer.Writer) (*query.Query, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := e.Backend.VerbOk(desc.Verb, params); err != nil {
		return nil, err
	}

	maxTypes := e.Backend.MaxRRTypes()
	if len(desc.RRTypes) > 0 {
		if err := query.ValidateRRTypes(desc.RRTypes, maxTypes); err != nil {
			return nil, err
		}
	}

	q := query.NewQuery(describe(desc), desc, params, w)
	q.MultiType = len(desc.RRTypes) > 1

	fence := query.DecomposeFence(params)

	types := desc.RRTypes
	if len(types) == 0 {
		types = []string{""}
	}

	for _, t := range types {
		fetchPath := restPath(desc, t)

		url, err := e.Backend.URL(fetchPath, params, fence, false)
		if err != nil {
			return nil, fmt.Errorf("engine: building url: %w", err)
		}

		f := query.NewFetch(url, e.Backend.Encap() == backend.EncapSAF)
		q.AddFetch(f)
	}

	lc := logger.NewLogContext(e.Backend.Name()).WithQueryMode(desc.Mode.String())
	ctx = logger.WithContext(ctx, lc)
	logger.InfoCtx(ctx, "query starting", logger.KeyQueryID, q.Descrip)

	if err := e.Transport.Run(ctx, e.Backend, q); err != nil {
		return nil, fmt.Errorf("engine: transport: %w", err)
	}

	q.Finalize()

	logger.InfoCtx(ctx, "query finished", logger.KeyQueryID, q.Descrip, "status", q.Status)
	return q, nil
}

// restPath composes the RESTful path (without query params) a backend's
// URL() expects for one rrtype-qualified fetch, e.g.
// "lookup/rrset/name/example.com/A/bailiwick." — rrtype precedes bailiwick,
// per the rrset/name/NAME[/RRTYPE[/BAILIWICK]] path grammar.
func restPath(desc query.Descriptor, rrtype string) string {
	var prefix string
	switch desc.Mode {
	case query.ModeRRsetByName:
		prefix = "rrset/name"
	case query.ModeRdataByName:
		prefix = "rdata/name"
	case query.ModeRdataByIP:
		prefix = "rdata/ip"
	case query.ModeRawRRset:
		prefix = "rrset/raw"
	case query.ModeRawName:
		prefix = "rdata/raw"
	}

	thing := desc.Thing
	if desc.Mode == query.ModeRdataByIP && desc.PfxLen > 0 {
		thing = desc.Thing + "," + strconv.Itoa(desc.PfxLen)
	}

	parts := []string{string(desc.Verb), prefix, thing}
	if rrtype != "" {
		parts = append(parts, rrtype)
	}
	if desc.Bailiwick != "" {
		parts = append(parts, desc.Bailiwick)
	}
	return strings.Join(parts, "/")
}

func describe(desc query.Descriptor) string {
	var b strings.Builder
	b.WriteString(desc.Mode.String())
	b.WriteByte(' ')
	b.WriteString(desc.Thing)
	if len(desc.RRTypes) > 0 {
		b.WriteByte('/')
		b.WriteString(strings.Join(desc.RRTypes, ","))
	}
	return b.String()
}
