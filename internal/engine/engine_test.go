package engine

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pdnsq/internal/backend/cof"
	"pdnsq/internal/backend/saf"
	"pdnsq/internal/presenter"
	"pdnsq/internal/query"
	"pdnsq/internal/transport"
	"pdnsq/internal/writer"
)

func TestEngineRunLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rrname":"example.com.","rrtype":"A","rdata":["192.0.2.1","192.0.2.2"]}` + "\n"))
	}))
	defer srv.Close()

	b := cof.New("test", srv.URL)
	tr := transport.New(transport.Options{})
	e := New(b, tr)

	var out bytes.Buffer
	w, err := writer.New(writer.Config{Presenter: presenter.NewJSON(&out, false, nil), OutputLimit: -1})
	if err != nil {
		t.Fatalf("writer.New: %v", err)
	}

	desc := query.Descriptor{Mode: query.ModeRRsetByName, Thing: "example.com", Verb: query.VerbLookup}
	q, err := e.Run(context.Background(), desc, query.Params{OutputLimit: -1, MaxCount: -1, QueryLimit: -1}, w)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if q.Status != "noerror" {
		t.Errorf("status = %q, want noerror", q.Status)
	}
	if !strings.Contains(out.String(), "example.com.") {
		t.Errorf("expected record in output, got:\n%s", out.String())
	}
}

func TestEngineRunRejectsUnsupportedVerb(t *testing.T) {
	b := cof.New("test", "https://pdns.example")
	tr := transport.New(transport.Options{})
	e := New(b, tr)

	w, err := writer.New(writer.Config{Presenter: presenter.NewJSON(&bytes.Buffer{}, false, nil), OutputLimit: -1})
	if err != nil {
		t.Fatalf("writer.New: %v", err)
	}

	desc := query.Descriptor{Mode: query.ModeRRsetByName, Thing: "example.com", Verb: query.VerbSummarize}
	if _, err := e.Run(context.Background(), desc, query.Params{OutputLimit: -1, MaxCount: -1, QueryLimit: -1}, w); err == nil {
		t.Fatal("expected an error: cof backend does not support summarize")
	}
}

func TestEngineRunRejectsTooManyRRTypes(t *testing.T) {
	b := cof.New("test", "https://pdns.example")
	tr := transport.New(transport.Options{})
	e := New(b, tr)

	w, err := writer.New(writer.Config{Presenter: presenter.NewJSON(&bytes.Buffer{}, false, nil), OutputLimit: -1})
	if err != nil {
		t.Fatalf("writer.New: %v", err)
	}

	desc := query.Descriptor{
		Mode: query.ModeRRsetByName, Thing: "example.com", Verb: query.VerbLookup,
		RRTypes: []string{"A", "AAAA"}, // cof's MaxRRTypes is 1
	}
	if _, err := e.Run(context.Background(), desc, query.Params{OutputLimit: -1, MaxCount: -1, QueryLimit: -1}, w); err == nil {
		t.Fatal("expected an error: too many rrtypes for this backend")
	}
}

func TestEngineDispatchOrdersRRTypeBeforeBailiwick(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"cond":"succeeded"}` + "\n"))
	}))
	defer srv.Close()

	b := saf.New("test", srv.URL)
	b.SetVal("apikey", "x")
	tr := transport.New(transport.Options{})
	e := New(b, tr)

	ww, err := writer.New(writer.Config{Presenter: presenter.NewJSON(&bytes.Buffer{}, false, nil), OutputLimit: -1})
	if err != nil {
		t.Fatalf("writer.New: %v", err)
	}

	desc := query.Descriptor{
		Mode:      query.ModeRRsetByName,
		Thing:     "example.com",
		Verb:      query.VerbLookup,
		RRTypes:   []string{"A"},
		Bailiwick: "com.",
	}
	if _, err := e.Run(context.Background(), desc, query.Params{OutputLimit: -1, MaxCount: -1, QueryLimit: -1}, ww); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(gotPath, "/rrset/name/example.com/A/com.") {
		t.Errorf("rrtype must precede bailiwick in the request path, got %q", gotPath)
	}
}

func TestRestPathOrdersRRTypeBeforeBailiwick(t *testing.T) {
	desc := query.Descriptor{Mode: query.ModeRRsetByName, Thing: "example.com", Verb: query.VerbLookup, Bailiwick: "com."}
	got := restPath(desc, "A")
	want := "lookup/rrset/name/example.com/A/com."
	if got != want {
		t.Errorf("restPath = %q, want %q", got, want)
	}
}

func TestEngineRunSharedSkipsDrain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rrname":"example.com.","rrtype":"A","rdata":"192.0.2.1"}` + "\n"))
	}))
	defer srv.Close()

	b := cof.New("test", srv.URL)
	tr := transport.New(transport.Options{})
	e := New(b, tr)

	var out bytes.Buffer
	w, err := writer.New(writer.Config{
		Presenter: presenter.NewJSON(&out, false, nil), OutputLimit: -1,
		SortEnabled: true, SortCols: []int{1}, UseMemorySort: true,
	})
	if err != nil {
		t.Fatalf("writer.New: %v", err)
	}

	desc := query.Descriptor{Mode: query.ModeRRsetByName, Thing: "example.com", Verb: query.VerbLookup}
	q, err := e.RunShared(context.Background(), desc, query.Params{OutputLimit: -1, MaxCount: -1, QueryLimit: -1}, w)
	if err != nil {
		t.Fatalf("RunShared: %v", err)
	}
	if q.Status != "noerror" {
		t.Errorf("status = %q", q.Status)
	}
	// RunShared must not drain: nothing reaches the presenter until the
	// caller explicitly calls Drain.
	if out.Len() != 0 {
		t.Errorf("expected no presenter output before an explicit Drain, got:\n%s", out.String())
	}

	if err := w.Drain(q); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if !strings.Contains(out.String(), "example.com.") {
		t.Errorf("expected record after explicit drain, got:\n%s", out.String())
	}
}
