package query

import "pdnsq/internal/record"

// Sink receives the outcome of filtering for one tuple: either forward it
// to the sort stage / presenter, or note that it was rejected. A Writer
// implements Sink; Accept's error is only non-nil on an unrecoverable
// downstream failure (a dead sort child, a presenter write error) and
// aborts the owning Fetch.
type Sink interface {
	Accept(q *Query, t *record.Tuple) error
	Reject(q *Query, t *record.Tuple, reason string)

	// LimitReached reports whether the writer's outputLimit has already
	// been hit, so the demultiplexer can stop parsing incoming lines
	// entirely rather than parse-then-discard.
	LimitReached() bool
}
