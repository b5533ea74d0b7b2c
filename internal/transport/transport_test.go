package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pdnsq/internal/backend/cof"
	"pdnsq/internal/query"
	"pdnsq/internal/record"
)

func TestTransportRunDeliversChunks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rrname":"a.example.","rrtype":"A","rdata":"192.0.2.1"}` + "\n"))
		_, _ = w.Write([]byte(`{"rrname":"b.example.","rrtype":"A","rdata":"192.0.2.2"}` + "\n"))
	}))
	defer srv.Close()

	b := cof.New("test", srv.URL)
	tr := New(Options{})

	desc := query.Descriptor{Mode: query.ModeRRsetByName, Thing: "a.example", Verb: query.VerbLookup}
	url, err := b.URL("lookup/rrset/name/a.example", query.Params{QueryLimit: -1}, query.Fence{}, false)
	if err != nil {
		t.Fatalf("URL: %v", err)
	}

	sink := &collectingSink{}
	q := query.NewQuery("a.example", desc, query.Params{OutputLimit: -1}, sink)
	f := query.NewFetch(url, false)
	q.AddFetch(f)

	if err := tr.Run(context.Background(), b, q); err != nil {
		t.Fatalf("Run: %v", err)
	}
	q.Finalize()

	if q.Status != "noerror" {
		t.Errorf("status = %q", q.Status)
	}
	if len(sink.accepted) != 2 {
		t.Fatalf("expected 2 accepted records, got %d", len(sink.accepted))
	}
}

func TestTransportRunReportsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("backend exploded"))
	}))
	defer srv.Close()

	b := cof.New("test", srv.URL)
	tr := New(Options{})

	desc := query.Descriptor{Mode: query.ModeRRsetByName, Thing: "a.example", Verb: query.VerbLookup}
	url, err := b.URL("lookup/rrset/name/a.example", query.Params{QueryLimit: -1}, query.Fence{}, false)
	if err != nil {
		t.Fatalf("URL: %v", err)
	}

	sink := &collectingSink{}
	q := query.NewQuery("a.example", desc, query.Params{OutputLimit: -1}, sink)
	f := query.NewFetch(url, false)
	q.AddFetch(f)

	if err := tr.Run(context.Background(), b, q); err != nil {
		t.Fatalf("Run: %v", err)
	}
	q.Finalize()

	if q.Status != "error" {
		t.Errorf("status = %q, want error", q.Status)
	}
	if !strings.Contains(q.Message, "backend exploded") {
		t.Errorf("message = %q", q.Message)
	}
}

type collectingSink struct {
	accepted []string
}

func (s *collectingSink) Accept(q *query.Query, t *record.Tuple) error {
	s.accepted = append(s.accepted, t.RRName)
	return nil
}
func (s *collectingSink) Reject(q *query.Query, t *record.Tuple, reason string) {}
func (s *collectingSink) LimitReached() bool                                   { return false }
