// Package presenter formats one tuple under one of four presentation
// modes: dig-style text, raw JSON, CSV, or deduplicated minimal.
package presenter

import (
	"pdnsq/internal/query"
	"pdnsq/internal/record"
)

// Mode selects a presentation format.
type Mode string

const (
	ModeText    Mode = "text"
	ModeJSON    Mode = "json"
	ModeCSV     Mode = "csv"
	ModeMinimal Mode = "minimal"
)

// Presenter renders tuples for one Writer's lifetime. Present is called once
// per accepted tuple (after any sort-stage reordering). There is no final
// flush call: each Present call writes its output directly.
type Presenter interface {
	Mode() Mode
	Present(q *query.Query, t *record.Tuple) error
	// Summarize is called once per Query whose verb is "summarize": no
	// per-record lines are emitted, only a banner built from descriptive
	// counts gathered during filtering.
	Summarize(q *query.Query, count int) error
}
