package presenter

import (
	"encoding/csv"
	"io"
	"strconv"

	"pdnsq/internal/cli/timeutil"
	"pdnsq/internal/query"
	"pdnsq/internal/record"
)

var csvHeader = []string{"rrname", "rrtype", "rdata", "bailiwick", "count", "time_first", "time_last"}

// CSV emits exactly one header line per Writer, then one line per rdatum.
// There is no third-party CSV library in the dependency set this module
// draws from, so this uses the standard library's encoding/csv directly.
type CSV struct {
	w           *csv.Writer
	iso         bool
	headerDone  bool
}

// NewCSV creates a CSV presenter writing to w.
func NewCSV(w io.Writer, iso bool) *CSV {
	return &CSV{w: csv.NewWriter(w), iso: iso}
}

func (c *CSV) Mode() Mode { return ModeCSV }

func (c *CSV) Present(q *query.Query, t *record.Tuple) error {
	if !c.headerDone {
		if err := c.w.Write(csvHeader); err != nil {
			return err
		}
		c.headerDone = true
	}

	for _, rdatum := range rdataOrPlaceholder(t) {
		count := ""
		if t.HasCount {
			count = strconv.FormatInt(t.Count, 10)
		}
		row := []string{
			t.RRName,
			t.RRType,
			rdatum,
			t.Bailiwick,
			count,
			timeutil.FormatEpoch(t.EffectiveFirst(), c.iso),
			timeutil.FormatEpoch(t.EffectiveLast(), c.iso),
		}
		if err := c.w.Write(row); err != nil {
			return err
		}
	}
	c.w.Flush()
	return c.w.Error()
}

func (c *CSV) Summarize(q *query.Query, count int) error {
	if !c.headerDone {
		if err := c.w.Write([]string{"count"}); err != nil {
			return err
		}
		c.headerDone = true
	}
	if err := c.w.Write([]string{strconv.Itoa(count)}); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}
