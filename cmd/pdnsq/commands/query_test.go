package commands

import (
	"os"
	"testing"
	"time"

	"pdnsq/internal/config"
	"pdnsq/internal/query"
)

func TestShapeFlagsDescriptorLine(t *testing.T) {
	cases := []struct {
		name    string
		shape   shapeFlags
		want    string
		wantErr bool
	}{
		{"rrset name", shapeFlags{rrsetName: "example.com"}, "rrset/name/example.com", false},
		{"rdata name", shapeFlags{rdataName: "example.com"}, "rdata/name/example.com", false},
		{"rdata ip", shapeFlags{rdataIP: "192.0.2.1"}, "rdata/ip/192.0.2.1", false},
		{"raw name", shapeFlags{rawName: "example.com"}, "rdata/raw/example.com", false},
		{"raw rrset", shapeFlags{rawRRset: "example.com"}, "rrset/raw/example.com", false},
		{"none set", shapeFlags{}, "", true},
		{"two set", shapeFlags{rrsetName: "a.com", rdataName: "b.com"}, "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.shape.descriptorLine()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got line %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("descriptorLine() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestQueryOptionsIPVersion(t *testing.T) {
	if v := (queryOptions{}).ipVersion(); v != 0 {
		t.Errorf("default ipVersion = %d, want 0", v)
	}
	if v := (queryOptions{force4: true}).ipVersion(); v != 4 {
		t.Errorf("force4 ipVersion = %d, want 4", v)
	}
	if v := (queryOptions{force6: true}).ipVersion(); v != 6 {
		t.Errorf("force6 ipVersion = %d, want 6", v)
	}
}

func TestQueryOptionsVerbOrDefault(t *testing.T) {
	if v := (queryOptions{}).verbOrDefault(); v != query.VerbLookup {
		t.Errorf("default verb = %q, want lookup", v)
	}
	if v := (queryOptions{verb: "summarize"}).verbOrDefault(); v != query.VerbSummarize {
		t.Errorf("summarize verb = %q, want summarize", v)
	}
}

func TestQueryOptionsPresentationMode(t *testing.T) {
	cfg := config.DefaultConfig()

	if m := (queryOptions{jsonAlias: true}).presentationMode(cfg); m != "json" {
		t.Errorf("jsonAlias presentationMode = %q, want json", m)
	}
	if m := (queryOptions{presentation: "csv"}).presentationMode(cfg); m != "csv" {
		t.Errorf("explicit presentationMode = %q, want csv", m)
	}
	if m := (queryOptions{}).presentationMode(cfg); m != cfg.Presentation.Mode {
		t.Errorf("default presentationMode = %q, want config default %q", m, cfg.Presentation.Mode)
	}
}

func TestQueryOptionsParamsTimeParsing(t *testing.T) {
	o := queryOptions{before: "1700000000", after: "1690000000", queryLimit: -1, outputLimit: -1, maxCount: -1}
	p, err := o.params()
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if p.Before != 1700000000 {
		t.Errorf("Before = %d, want 1700000000", p.Before)
	}
	if p.After != 1690000000 {
		t.Errorf("After = %d, want 1690000000", p.After)
	}
}

func TestQueryOptionsParamsBadTime(t *testing.T) {
	o := queryOptions{before: "not-a-time", queryLimit: -1, outputLimit: -1, maxCount: -1}
	if _, err := o.params(); err == nil {
		t.Fatal("expected error for unparseable -A value")
	}
}

func TestQueryOptionsResolveTimeout(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Transport.Timeout = 30 * time.Second

	if d, err := (queryOptions{}).resolveTimeout(cfg); err != nil || d != 30*time.Second {
		t.Errorf("default resolveTimeout = %v, %v; want 30s, nil", d, err)
	}

	if d, err := (queryOptions{timeout: "45"}).resolveTimeout(cfg); err != nil || d != 45*time.Second {
		t.Errorf("bare-seconds resolveTimeout = %v, %v; want 45s, nil", d, err)
	}

	if d, err := (queryOptions{timeout: "1m30s"}).resolveTimeout(cfg); err != nil || d != 90*time.Second {
		t.Errorf("duration-string resolveTimeout = %v, %v; want 90s, nil", d, err)
	}

	if _, err := (queryOptions{timeout: "not-a-duration"}).resolveTimeout(cfg); err == nil {
		t.Error("expected error for invalid --timeout value")
	}
}

func TestQueryOptionsResolveTimeoutEnv(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Transport.Timeout = 30 * time.Second

	old := os.Getenv("DNSDB_TIMEOUT")
	os.Setenv("DNSDB_TIMEOUT", "15s")
	t.Cleanup(func() { os.Setenv("DNSDB_TIMEOUT", old) })

	d, err := (queryOptions{}).resolveTimeout(cfg)
	if err != nil || d != 15*time.Second {
		t.Errorf("env resolveTimeout = %v, %v; want 15s, nil", d, err)
	}
}
