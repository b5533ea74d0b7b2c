package presenter

import (
	"fmt"
	"io"

	"pdnsq/internal/query"
	"pdnsq/internal/record"
	"pdnsq/pkg/dedupe"
)

// Minimal emits each distinct value once across the run: for RHS-style
// queries (by rdata name or IP) it emits the owner name only; for LHS-style
// queries (by owner) it emits each rdatum. It is not sortable: there is
// nothing for the writer's sort stage to key on once lines collapse to a
// single bare value.
type Minimal struct {
	w    io.Writer
	seen *dedupe.Set
}

// NewMinimal creates a minimal presenter writing to w.
func NewMinimal(w io.Writer) *Minimal {
	return &Minimal{w: w, seen: dedupe.New()}
}

func (m *Minimal) Mode() Mode { return ModeMinimal }

func (m *Minimal) Present(q *query.Query, t *record.Tuple) error {
	if q.Desc.Mode.IsRHS() {
		return m.emit(t.RRName)
	}
	for _, rdatum := range t.Rdata {
		if err := m.emit(rdatum); err != nil {
			return err
		}
	}
	return nil
}

func (m *Minimal) Summarize(q *query.Query, count int) error {
	return nil // summarize has nothing to dedupe against
}

func (m *Minimal) emit(v string) error {
	if v == "" || !m.seen.Add(v) {
		return nil
	}
	_, err := fmt.Fprintln(m.w, v)
	return err
}
