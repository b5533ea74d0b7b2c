package presenter

import (
	"io"

	"pdnsq/internal/cli/output"
	"pdnsq/internal/cli/timeutil"
	"pdnsq/internal/query"
	"pdnsq/internal/record"
)

// Text renders dig-style banners followed by one line per rdatum.
type Text struct {
	printer *output.Printer
	iso     bool
}

// NewText creates a dig-style presenter writing to w.
func NewText(w io.Writer, color bool, iso bool) *Text {
	return &Text{printer: output.NewPrinter(w, output.FormatTable, color), iso: iso}
}

func (t *Text) Mode() Mode { return ModeText }

func (t *Text) Present(q *query.Query, tup *record.Tuple) error {
	t.printBanner(tup)

	for _, rdatum := range rdataOrPlaceholder(tup) {
		t.printer.Printf("%s  %s  %s\n", tup.RRName, tup.RRType, rdatum)
	}
	t.printer.Println()
	return nil
}

func (t *Text) Summarize(q *query.Query, count int) error {
	t.printer.Printf(";; count: %d\n", count)
	t.printer.Println()
	return nil
}

func (t *Text) printBanner(tup *record.Tuple) {
	if first := tup.EffectiveFirst(); first != 0 {
		t.printer.Printf(";; first seen: %s\n", timeutil.FormatEpoch(first, t.iso))
	}
	if last := tup.EffectiveLast(); last != 0 {
		t.printer.Printf(";; last seen:  %s\n", timeutil.FormatEpoch(last, t.iso))
	}
	if tup.HasCount {
		t.printer.Printf(";; count: %d\n", tup.Count)
	}
	if tup.Bailiwick != "" {
		t.printer.Printf(";; bailiwick: %s\n", tup.Bailiwick)
	}
}

// rdataOrPlaceholder returns the rdata sequence, or a single placeholder so
// a rrset with zero rdata still emits one banner-only block without a panic
// on an empty range.
func rdataOrPlaceholder(t *record.Tuple) []string {
	if len(t.Rdata) == 0 {
		return []string{"<no rdata>"}
	}
	return t.Rdata
}
