package presenter

import (
	"bytes"
	"strings"
	"testing"

	"pdnsq/internal/query"
	"pdnsq/internal/record"
)

func TestCSVHeaderEmittedOnce(t *testing.T) {
	var buf bytes.Buffer
	c := NewCSV(&buf, false)
	q := query.NewQuery("", query.Descriptor{}, query.Params{}, nil)

	_ = c.Present(q, &record.Tuple{RRName: "a.example.", RRType: "A", Rdata: []string{"192.0.2.1"}})
	_ = c.Present(q, &record.Tuple{RRName: "b.example.", RRType: "A", Rdata: []string{"192.0.2.2"}})

	out := buf.String()
	if strings.Count(out, "rrname,rrtype,rdata") != 1 {
		t.Errorf("expected exactly one header line, got:\n%s", out)
	}
}

func TestCSVRowPerRdatum(t *testing.T) {
	var buf bytes.Buffer
	c := NewCSV(&buf, false)
	q := query.NewQuery("", query.Descriptor{}, query.Params{}, nil)

	_ = c.Present(q, &record.Tuple{RRName: "a.example.", RRType: "NS", Rdata: []string{"ns1.example.", "ns2.example."}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 { // header + 2 rdata rows
		t.Fatalf("expected header + 2 rows, got %d lines: %v", len(lines), lines)
	}
}
