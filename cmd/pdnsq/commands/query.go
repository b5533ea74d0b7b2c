package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"pdnsq/internal/batch"
	"pdnsq/internal/cli/output"
	"pdnsq/internal/cli/profile"
	"pdnsq/internal/cli/timeutil"
	"pdnsq/internal/config"
	"pdnsq/internal/engine"
	"pdnsq/internal/presenter"
	"pdnsq/internal/query"
	"pdnsq/internal/record"
	"pdnsq/internal/transport"
	"pdnsq/internal/writer"
	"pdnsq/pkg/asninfo"
	"pdnsq/pkg/ttl"
)

// shapeFlags holds the five mutually-exclusive query-shape flag values, in
// the order they are checked.
type shapeFlags struct {
	rrsetName string
	rdataName string
	rdataIP   string
	rawName   string
	rawRRset  string
}

// descriptorLine turns whichever shape flag is set into the same
// kind/subkind/value[/qualifiers] grammar the batch driver parses,
// so a single-shot query reuses batch.ParseLine instead of duplicating
// descriptor-building logic.
func (s shapeFlags) descriptorLine() (string, error) {
	set := 0
	var line string
	check := func(prefix, value string) {
		if value != "" {
			set++
			line = prefix + "/" + value
		}
	}
	check("rrset/name", s.rrsetName)
	check("rdata/name", s.rdataName)
	check("rdata/ip", s.rdataIP)
	check("rdata/raw", s.rawName)
	check("rrset/raw", s.rawRRset)

	if set == 0 {
		return "", fmt.Errorf("no query given: use one of -r, -n, -i, -N, -R")
	}
	if set > 1 {
		return "", fmt.Errorf("-r, -n, -i, -N, -R are mutually exclusive")
	}
	return line, nil
}

// queryOptions collects every flag runQuery needs, parsed and validated.
type queryOptions struct {
	shape shapeFlags
	bare  string // positional dig-style argument, treated as -r when no shape flag is set

	before, after string
	complete      bool

	queryLimit, outputLimit, maxCount, offset int

	framing  int // 0 = none, 1 = terse, 2+ = verbose
	multiple bool

	presentation string
	jsonAlias    bool

	sortAsc, sortDesc bool
	sortKeys          string

	verb string

	backendName, backendKind, server, apikey string

	jsonInputPath string
	timeout       string

	sevenBitOff        bool
	force4, force6     bool
	insecureSkipVerify bool
}

// resolveTimeout parses the -timeout override (TTL-shaped: bare seconds or
// a Go duration string), falling back to the literal DNSDB_TIMEOUT/
// PDNSQ_TIMEOUT environment variables and finally the config file's value.
func (o queryOptions) resolveTimeout(cfg *config.Config) (time.Duration, error) {
	raw := o.timeout
	if raw == "" {
		raw = config.EnvOverride("DNSDB_TIMEOUT", "PDNSQ_TIMEOUT", "")
	}
	if raw == "" {
		return cfg.Transport.Timeout, nil
	}
	secs, err := ttl.Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("--timeout: %w", err)
	}
	return time.Duration(secs) * time.Second, nil
}

// ipVersion resolves the -4/-6 flags to the Transport.Options.IPVersion
// convention (0 = either).
func (o queryOptions) ipVersion() int {
	switch {
	case o.force4:
		return 4
	case o.force6:
		return 6
	default:
		return 0
	}
}

func (o queryOptions) params() (query.Params, error) {
	p := query.Params{
		QueryLimit:  o.queryLimit,
		OutputLimit: o.outputLimit,
		MaxCount:    o.maxCount,
		Offset:      o.offset,
		Complete:    o.complete,
	}
	if o.before != "" {
		v, err := timeutil.ParseTimeArg(o.before)
		if err != nil {
			return p, fmt.Errorf("-A: %w", err)
		}
		p.Before = v
	}
	if o.after != "" {
		v, err := timeutil.ParseTimeArg(o.after)
		if err != nil {
			return p, fmt.Errorf("-B: %w", err)
		}
		p.After = v
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func (o queryOptions) presentationMode(cfg *config.Config) string {
	if o.jsonAlias {
		return "json"
	}
	if o.presentation != "" {
		return o.presentation
	}
	if cfg.Presentation.Mode != "" {
		return cfg.Presentation.Mode
	}
	return "text"
}

func (o queryOptions) verbOrDefault() query.Verb {
	if o.verb == "summarize" {
		return query.VerbSummarize
	}
	return query.VerbLookup
}

func runQuery(w io.Writer, o queryOptions) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := profile.NewStore()
	if err != nil {
		return fmt.Errorf("loading backend profiles: %w", err)
	}

	isoTime := config.EnvOverride("DNSDB_TIME_FORMAT", "PDNSQ_TIME_FORMAT", cfg.Presentation.TimeStyle) == "iso"
	mode := o.presentationMode(cfg)

	p, err := buildPresenter(mode, w, isoTime)
	if err != nil {
		return err
	}

	var sortCols []int
	sortEnabled := o.sortAsc || o.sortDesc || o.sortKeys != ""
	if sortEnabled {
		keys := strings.Split(o.sortKeys, ",")
		if o.sortKeys == "" {
			keys = []string{"rrname"}
		}
		sortCols, err = writer.SortKeyColumns(keys)
		if err != nil {
			return err
		}
	}

	newWriter := func() (*writer.Writer, error) {
		return writer.New(writer.Config{
			Presenter:     p,
			SortEnabled:   sortEnabled,
			SortCols:      sortCols,
			Descending:    o.sortDesc,
			UseMemorySort: o.outputLimit >= 0 && o.outputLimit < 10000,
			OutputLimit:   o.outputLimit,
		})
	}

	if o.jsonInputPath != "" {
		return runOffline(w, o, newWriter)
	}

	params, err := o.params()
	if err != nil {
		return err
	}

	spec, err := resolveBackendSpec(cfg, store, o.backendName, o.backendKind, o.server, o.apikey)
	if err != nil {
		return err
	}
	b, err := buildBackend(spec)
	if err != nil {
		return err
	}

	timeout, err := o.resolveTimeout(cfg)
	if err != nil {
		return err
	}

	tr := transport.New(transport.Options{
		IPVersion:          o.ipVersion(),
		InsecureSkipVerify: o.insecureSkipVerify || cfg.Transport.InsecureSkipVerify,
		Timeout:            timeout,
		MaxInFlight:        cfg.Transport.MaxInFlight,
	})
	e := engine.New(b, tr)

	ctx := context.Background()

	if o.framing > 0 || o.multiple {
		return runBatch(ctx, os.Stdin, w, e, o, params, newWriter)
	}

	line, err := o.shape.descriptorLine()
	if err != nil {
		if o.bare == "" {
			return err
		}
		line = "rrset/name/" + o.bare
	}

	pl, err := batch.ParseLine(line, o.verbOrDefault())
	if err != nil {
		return err
	}

	wtr, err := newWriter()
	if err != nil {
		return err
	}

	q, err := e.Run(ctx, pl.Desc, params, wtr)
	if err != nil {
		return err
	}
	if q.Status != "noerror" {
		return fmt.Errorf("query failed: %s: %s", q.Status, q.Message)
	}
	return nil
}

func runBatch(ctx context.Context, r io.Reader, w io.Writer, e *engine.Engine, o queryOptions, params query.Params, newWriter batch.WriterFactory) error {
	framing := batch.FramingNone
	switch {
	case o.framing >= 2:
		framing = batch.FramingVerbose
	case o.framing == 1:
		framing = batch.FramingTerse
	}

	d := &batch.Driver{
		Engine:      e,
		Verb:        o.verbOrDefault(),
		Baseline:    params,
		NewWriter:   newWriter,
		Framing:     framing,
		Multiple:    o.multiple,
		MaxInFlight: 16,
		Out:         w,
	}
	return d.Run(ctx, r)
}

// runOffline implements -J: read pre-fetched NDJSON (file or "-" for
// stdin) instead of issuing any network fetch, per §9's "info as a
// degenerate non-demuxed query" sibling idea applied to bulk replay —
// every line is parsed, filtered, and handed straight to the writer.
func runOffline(w io.Writer, o queryOptions, newWriter batch.WriterFactory) error {
	var r io.Reader
	if o.jsonInputPath == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(o.jsonInputPath)
		if err != nil {
			return fmt.Errorf("-J: %w", err)
		}
		defer f.Close()
		r = f
	}

	params, err := o.params()
	if err != nil {
		return err
	}

	wtr, err := newWriter()
	if err != nil {
		return err
	}

	desc := query.Descriptor{Verb: o.verbOrDefault()}
	q := query.NewQuery("offline", desc, params, wtr)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		t, perr := record.Parse(line, false)
		if perr != nil {
			continue
		}
		if ok, reason := query.Accept(t, params); !ok {
			wtr.Reject(q, t, reason)
			continue
		}
		if err := wtr.Accept(q, t); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	return wtr.Drain(q)
}

func buildPresenter(mode string, w io.Writer, iso bool) (presenter.Presenter, error) {
	switch mode {
	case "text", "":
		return presenter.NewText(w, output.DefaultPrinter().ColorEnabled(), iso), nil
	case "json":
		return presenter.NewJSON(w, iso, asninfo.NewResolver()), nil
	case "csv":
		return presenter.NewCSV(w, iso), nil
	case "minimal":
		return presenter.NewMinimal(w), nil
	default:
		return nil, fmt.Errorf("unknown presentation mode %q: want text, json, csv, or minimal", mode)
	}
}
