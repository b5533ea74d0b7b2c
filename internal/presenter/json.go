package presenter

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"pdnsq/internal/query"
	"pdnsq/internal/record"
	"pdnsq/pkg/asninfo"
)

// JSON emits the raw COF JSON line, optionally rewriting integer timestamps
// to ISO-8601 strings and/or annotating rdata with ASN/CIDR info.
type JSON struct {
	w        io.Writer
	datefix  bool
	asn      *asninfo.Resolver // nil disables dnsdbq_rdata annotation
}

// NewJSON creates a raw-passthrough JSON presenter. asn may be nil.
func NewJSON(w io.Writer, datefix bool, asn *asninfo.Resolver) *JSON {
	return &JSON{w: w, datefix: datefix, asn: asn}
}

func (j *JSON) Mode() Mode { return ModeJSON }

func (j *JSON) Present(q *query.Query, t *record.Tuple) error {
	if !j.datefix && j.asn == nil {
		_, err := fmt.Fprintln(j.w, string(t.Raw))
		return err
	}

	var obj map[string]any
	if err := json.Unmarshal(t.Raw, &obj); err != nil {
		_, err := fmt.Fprintln(j.w, string(t.Raw))
		return err
	}

	if j.datefix {
		for _, key := range []string{"time_first", "time_last", "zone_time_first", "zone_time_last"} {
			if v, ok := obj[key].(float64); ok {
				obj[key] = isoSeconds(int64(v))
			}
		}
	}

	if j.asn != nil {
		if rdata, ok := obj["rdata"].(string); ok {
			if info, found := j.asn.Lookup(rdata); found {
				obj["dnsdbq_rdata"] = info
			}
		}
	}

	out, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(j.w, string(out))
	return err
}

func (j *JSON) Summarize(q *query.Query, count int) error {
	_, err := fmt.Fprintf(j.w, `{"count":%d}`+"\n", count)
	return err
}

func isoSeconds(seconds int64) string {
	return time.Unix(seconds, 0).UTC().Format(time.RFC3339)
}
