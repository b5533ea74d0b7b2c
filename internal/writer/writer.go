// Package writer groups one or more queries into a single output channel,
// optionally staging accepted records through an external (or in-memory)
// sort for deduplication and ordering before handing them to the presenter.
package writer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"pdnsq/internal/logger"
	"pdnsq/internal/presenter"
	"pdnsq/internal/query"
	"pdnsq/internal/record"
)

// Config configures one Writer.
type Config struct {
	Presenter   presenter.Presenter
	SortEnabled bool
	SortCols    []int
	Descending  bool
	// UseMemorySort selects the in-memory sorter over the external `sort`
	// subprocess; recommended by design when OutputLimit is small enough
	// that buffering every record is cheap.
	UseMemorySort bool
	OutputLimit   int // -1 = unset
}

// Writer is a query.Sink that fans accepted records into either the sort
// stage or straight to the presenter, and enforces the writer-wide
// outputLimit.
type Writer struct {
	cfg Config

	mu       sync.Mutex
	sorter   Sorter
	accepted int64
	rejected int64

	perQuery map[*query.Query]int
}

// New creates a Writer. If cfg.SortEnabled, the sort stage is started
// immediately so writes during fetch can stream into it without deadlocking
// its pipe.
func New(cfg Config) (*Writer, error) {
	w := &Writer{cfg: cfg, perQuery: make(map[*query.Query]int)}

	if cfg.SortEnabled {
		var s Sorter
		var err error
		if cfg.UseMemorySort {
			s = NewMemorySort(cfg.SortCols, cfg.Descending)
		} else {
			s, err = NewExternalSort(cfg.SortCols, cfg.Descending)
		}
		if err != nil {
			return nil, fmt.Errorf("writer: %w", err)
		}
		w.sorter = s
	}

	return w, nil
}

// Accept implements query.Sink. The mutex is held across the sorter/
// presenter write, not just the bookkeeping: a multitype query dispatches
// one goroutine per rrtype Fetch (internal/transport.Run), and all of them
// share this Writer, so an unserialized write path would let memorySort's
// slice append and the text/CSV presenters' multi-call Present race and
// interleave across goroutines.
func (w *Writer) Accept(q *query.Query, t *record.Tuple) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.limitReachedLocked() {
		return nil
	}
	w.accepted++
	w.perQuery[q]++

	if w.cfg.SortEnabled {
		return w.sorter.Write(sortLine(t))
	}
	return w.cfg.Presenter.Present(q, t)
}

// Reject implements query.Sink: rejected records are counted but dropped.
func (w *Writer) Reject(q *query.Query, t *record.Tuple, reason string) {
	w.mu.Lock()
	w.rejected++
	w.mu.Unlock()
	logger.Debug("record rejected", logger.KeyReason, reason, logger.KeyRRType, t.RRType)
}

// LimitReached implements query.Sink.
func (w *Writer) LimitReached() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.limitReachedLocked()
}

func (w *Writer) limitReachedLocked() bool {
	return w.cfg.OutputLimit >= 0 && w.accepted >= int64(w.cfg.OutputLimit)
}

// AcceptedFor returns how many records a given query contributed, for the
// summarize verb's banner.
func (w *Writer) AcceptedFor(q *query.Query) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.perQuery[q]
}

// Summarize renders the summarize verb's banner-only presentation for q,
// using the count of records it contributed.
func (w *Writer) Summarize(q *query.Query) error {
	return w.cfg.Presenter.Summarize(q, w.AcceptedFor(q))
}

// sortLine formats an accepted record for the sort stage: first, last,
// duration (last-first), count, rrname, rrtype, then the raw JSON suffix
// the read-back stage reparses.
func sortLine(t *record.Tuple) string {
	first := t.EffectiveFirst()
	last := t.EffectiveLast()
	duration := last - first

	var b strings.Builder
	b.WriteString(strconv.FormatInt(first, 10))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatInt(last, 10))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatInt(duration, 10))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatInt(t.Count, 10))
	b.WriteByte(' ')
	b.WriteString(orDash(t.RRName))
	b.WriteByte(' ')
	b.WriteString(orDash(t.RRType))
	b.WriteByte(' ')
	b.Write(t.Raw)
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Drain finalizes sort-enabled writers: closes the sort's stdin (safe only
// once every Fetch has finished writing), reads its output back in order,
// skips the six leading sort-key fields, reparses the trailing JSON, and
// feeds each record to the presenter — enforcing outputLimit again at this
// read-back stage. If the limit is hit mid-drain the sort child is
// terminated once and the remainder of its output is discarded so it can
// exit without SIGPIPE. Writers with sorting disabled have nothing to do.
func (w *Writer) Drain(q *query.Query) error {
	if !w.cfg.SortEnabled {
		return nil
	}

	if err := w.sorter.CloseWrite(); err != nil {
		return fmt.Errorf("writer: closing sort stdin: %w", err)
	}

	emitted := 0
	for {
		line, ok, err := w.sorter.Next()
		if err != nil {
			return fmt.Errorf("writer: reading sort output: %w", err)
		}
		if !ok {
			break
		}

		if w.cfg.OutputLimit >= 0 && emitted >= w.cfg.OutputLimit {
			w.sorter.Terminate()
			continue // drain and discard the rest so the child exits cleanly
		}

		raw, err := stripSortKeys(line)
		if err != nil {
			logger.Warn("writer: malformed sorted line", logger.KeyError, err)
			continue
		}

		t, perr := record.Parse(raw, false)
		if perr != nil {
			logger.Warn("writer: reparse after sort failed", logger.KeyError, perr)
			continue
		}

		if err := w.cfg.Presenter.Present(q, t); err != nil {
			return err
		}
		emitted++
	}

	return w.sorter.Wait()
}

// stripSortKeys removes the six leading whitespace-separated sort-key
// fields from a sorted line, returning the trailing raw JSON payload.
func stripSortKeys(line string) ([]byte, error) {
	rest := line
	for i := 0; i < 6; i++ {
		idx := strings.IndexByte(rest, ' ')
		if idx < 0 {
			return nil, fmt.Errorf("writer: expected 6 leading sort-key fields, line too short")
		}
		rest = rest[idx+1:]
	}
	if !json.Valid([]byte(rest)) {
		return nil, fmt.Errorf("writer: trailing payload is not valid JSON")
	}
	return []byte(rest), nil
}

// Stats returns the writer's accepted/rejected counters.
func (w *Writer) Stats() (accepted, rejected int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.accepted, w.rejected
}
