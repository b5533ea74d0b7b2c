package batch

import (
	"testing"

	"pdnsq/internal/query"
)

func TestParseLineRRsetName(t *testing.T) {
	pl, err := ParseLine("rrset/name/example.com/A,AAAA/bailiwick.", query.VerbLookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pl.Desc.Mode != query.ModeRRsetByName {
		t.Errorf("mode = %v, want ModeRRsetByName", pl.Desc.Mode)
	}
	if pl.Desc.Thing != "example.com" {
		t.Errorf("thing = %q", pl.Desc.Thing)
	}
	if len(pl.Desc.RRTypes) != 2 || pl.Desc.RRTypes[0] != "A" || pl.Desc.RRTypes[1] != "AAAA" {
		t.Errorf("rrtypes = %v", pl.Desc.RRTypes)
	}
	if pl.Desc.Bailiwick != "bailiwick." {
		t.Errorf("bailiwick = %q", pl.Desc.Bailiwick)
	}
	if pl.Desc.Verb != query.VerbLookup {
		t.Errorf("verb = %q", pl.Desc.Verb)
	}
}

func TestParseLineRdataIP(t *testing.T) {
	pl, err := ParseLine("rdata/ip/192.0.2.0/24", query.VerbLookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pl.Desc.Mode != query.ModeRdataByIP {
		t.Errorf("mode = %v", pl.Desc.Mode)
	}
	if pl.Desc.Thing != "192.0.2.0" {
		t.Errorf("thing = %q", pl.Desc.Thing)
	}
	if pl.Desc.PfxLen != 24 {
		t.Errorf("pfxlen = %d", pl.Desc.PfxLen)
	}
}

func TestParseLineRdataName(t *testing.T) {
	pl, err := ParseLine("rdata/name/www.example.com/A", query.VerbSummarize)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pl.Desc.Mode != query.ModeRdataByName {
		t.Errorf("mode = %v", pl.Desc.Mode)
	}
	if pl.Desc.Verb != query.VerbSummarize {
		t.Errorf("verb = %q", pl.Desc.Verb)
	}
}

func TestParseLineRawForms(t *testing.T) {
	pl, err := ParseLine("rrset/raw/deadbeef/MX", query.VerbLookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pl.Desc.Mode != query.ModeRawRRset {
		t.Errorf("mode = %v", pl.Desc.Mode)
	}

	pl2, err := ParseLine("rdata/raw/deadbeef", query.VerbLookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pl2.Desc.Mode != query.ModeRawName {
		t.Errorf("mode = %v", pl2.Desc.Mode)
	}
}

func TestParseLineMalformed(t *testing.T) {
	cases := []string{
		"rrset/name",
		"bogus/name/x",
		"rrset/name/x/A/bw/extra",
		"rdata/ip/192.0.2.1/notanumber",
	}
	for _, c := range cases {
		if _, err := ParseLine(c, query.VerbLookup); err == nil {
			t.Errorf("ParseLine(%q) expected error, got none", c)
		}
	}
}
