package query

import (
	"sync"

	"pdnsq/internal/demux"
	"pdnsq/internal/logger"
	"pdnsq/internal/record"
)

// Fetch is one in-flight HTTP request bound to a Query.
type Fetch struct {
	URL string

	demux       *demux.Demuxer
	saf         SAFMachine
	isSAF       bool
	httpStatus  int
	chunksSeen  int
	stopped     bool

	// StatusBody captures the verbatim first-chunk body when the HTTP code
	// is non-2xx, per the "first-chunk status handling" rule.
	StatusBody []byte

	// TransportErr is set by the transport layer when the library-level
	// result is non-OK (DNS/connect/TLS failure); distinct from an HTTP
	// protocol error.
	TransportErr error

	query *Query
}

// NewFetch creates a Fetch bound to url, recording whether its backend
// streams SAF or COF framing.
func NewFetch(url string, isSAF bool) *Fetch {
	return &Fetch{URL: url, demux: demux.New(), isSAF: isSAF}
}

// OnStatus is called once the HTTP response's status line is known, before
// the first body chunk is processed.
func (f *Fetch) OnStatus(code int) {
	f.httpStatus = code
}

// OnChunk processes one received chunk. On the first chunk, if the HTTP
// status is non-2xx, the chunk is captured verbatim as the terminal
// status/message and the fetch stops accepting further bytes. Otherwise the
// chunk is demultiplexed into lines and each line is run through parse →
// SAF → filter → dispatch.
func (f *Fetch) OnChunk(chunk []byte, isNonErrorStatus func(code int) bool) error {
	if f.stopped {
		return nil
	}

	f.chunksSeen++
	if f.chunksSeen == 1 && !isNonErrorStatus(f.httpStatus) {
		f.StatusBody = append([]byte(nil), chunk...)
		f.stopped = true
		return nil
	}

	return f.demux.Feed(chunk, f.handleLine)
}

func (f *Fetch) handleLine(line []byte) error {
	if len(line) == 0 {
		return nil
	}

	if f.query.sink.LimitReached() {
		return nil // drain quietly, don't even parse
	}

	t, err := record.Parse(line, f.isSAF)
	if err != nil {
		f.query.logParseError(err, line)
		return nil
	}

	if f.isSAF {
		if skip := f.saf.Advance(t); skip {
			return nil
		}
	}

	ok, reason := Accept(t, f.query.params)
	if !ok {
		f.query.sink.Reject(f.query, t, reason)
		return nil
	}

	return f.query.sink.Accept(f.query, t)
}

// Finalize is called when the fetch's HTTP request completes (EOF). It
// finalizes the SAF state machine for fetches that never reached a terminal
// condition.
func (f *Fetch) Finalize() {
	if f.isSAF {
		f.saf.Finalize()
	}
}

// SAFState returns the fetch's latched SAF state (StateInit for non-SAF
// backends or a stream that carried no cond field).
func (f *Fetch) SAFState() SAFState { return f.saf.State() }

// SAFMessage returns the message latched alongside the terminal SAF state.
func (f *Fetch) SAFMessage() string { return f.saf.Message() }

// Query owns a set of Fetches, its params snapshot, and terminal status.
type Query struct {
	mu        sync.Mutex
	Descrip   string
	Desc      Descriptor
	fetches   []*Fetch
	params    Params
	sink      Sink
	MultiType bool

	Status  string
	Message string
}

// NewQuery creates a Query bound to a sink (its Writer) and param snapshot.
func NewQuery(descrip string, desc Descriptor, params Params, sink Sink) *Query {
	return &Query{Descrip: descrip, Desc: desc, params: params, sink: sink}
}

// AddFetch appends a Fetch to this query and binds its back-pointer.
func (q *Query) AddFetch(f *Fetch) {
	f.query = q
	q.mu.Lock()
	q.fetches = append(q.fetches, f)
	q.mu.Unlock()
}

// Fetches returns the query's fetch set.
func (q *Query) Fetches() []*Fetch {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*Fetch, len(q.fetches))
	copy(out, q.fetches)
	return out
}

// Params returns the query's params snapshot.
func (q *Query) Params() Params { return q.params }

// logParseError reports a single line's parse failure to stderr and drops
// it; it never aborts the query or touches Status/Message, which only
// reflect the terminal outcome computed in Finalize.
func (q *Query) logParseError(err error, line []byte) {
	logger.Error("record parse failed", logger.KeyQueryID, q.Descrip, logger.KeyError, err, logger.KeyLine, string(line))
}

// Finalize computes the query's terminal status/message from the most
// severe outcome across its fetches, once all fetches have completed.
func (q *Query) Finalize() {
	q.mu.Lock()
	defer q.mu.Unlock()

	var worstStatus, worstMessage string
	for _, f := range q.fetches {
		f.Finalize()

		if len(f.StatusBody) > 0 {
			worstStatus = "error"
			worstMessage = string(f.StatusBody)
			continue
		}
		if f.TransportErr != nil {
			worstStatus = "error"
			worstMessage = f.TransportErr.Error()
			continue
		}
		if f.isSAF {
			switch f.SAFState() {
			case StateFailed, StateLimited, StateMissing:
				if worstStatus == "" {
					worstStatus = "error"
					worstMessage = f.SAFMessage()
					if worstMessage == "" {
						worstMessage = string(f.SAFState())
					}
				}
			}
		}
	}

	if worstStatus == "" {
		worstStatus = "noerror"
		worstMessage = "success"
	}

	q.Status = worstStatus
	q.Message = worstMessage
}
