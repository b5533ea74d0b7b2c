// Package record parses one line of a pDNS response stream into a Tuple.
package record

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
)

// SAFCond is the lifecycle condition carried by a SAF-encapsulated line.
type SAFCond string

const (
	CondNone      SAFCond = ""
	CondBegin     SAFCond = "begin"
	CondOngoing   SAFCond = "ongoing"
	CondSucceeded SAFCond = "succeeded"
	CondLimited   SAFCond = "limited"
	CondFailed    SAFCond = "failed"
)

// Tuple is one parsed pDNS record, COF fields plus the optional SAF envelope.
type Tuple struct {
	RRName     string
	RRType     string
	Bailiwick  string
	Rdata      []string // one element for a scalar rdata, N for an array
	Count      int64
	HasCount   bool
	NumResults int64
	HasNumRes  bool
	TimeFirst  int64
	TimeLast   int64
	ZoneFirst  int64
	ZoneLast   int64

	// SAF envelope, zero values when the stream is plain COF.
	Cond SAFCond
	Msg  string

	// Raw is the undecoded COF payload (the SAF obj, or the whole line for
	// COF streams), retained for sort-stage reparsing and JSON pass-through.
	Raw json.RawMessage
}

// cofWire is the wire shape of one COF object.
type cofWire struct {
	RRName        *string         `json:"rrname"`
	RRType        *string         `json:"rrtype"`
	Bailiwick     *string         `json:"bailiwick"`
	Rdata         json.RawMessage `json:"rdata"`
	Count         *int64          `json:"count"`
	NumResults    *int64          `json:"num_results"`
	TimeFirst     *int64          `json:"time_first"`
	TimeLast      *int64          `json:"time_last"`
	ZoneTimeFirst *int64          `json:"zone_time_first"`
	ZoneTimeLast  *int64          `json:"zone_time_last"`
}

// safWire is the wire shape of one SAF-enveloped line.
type safWire struct {
	Cond *string         `json:"cond"`
	Msg  *string         `json:"msg"`
	Obj  json.RawMessage `json:"obj"`
}

// ParseError wraps a record-level parse failure. It is never fatal to the
// stream: the caller logs it once and continues with the next line.
type ParseError struct {
	Line []byte
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("record: parse error: %v", e.Err)
}
func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes one line. When saf is true the line is unwrapped as a SAF
// envelope first and the COF payload comes from its "obj" field; an empty
// obj is a keepalive and Parse returns a Tuple with only Cond/Msg set and
// Raw == nil.
func Parse(line []byte, saf bool) (*Tuple, error) {
	if !saf {
		t, err := parseCOF(line)
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		return t, nil
	}

	var env safWire
	if err := sonic.Unmarshal(line, &env); err != nil {
		return nil, &ParseError{Line: line, Err: fmt.Errorf("saf envelope: %w", err)}
	}

	t := &Tuple{}
	if env.Cond != nil {
		t.Cond = SAFCond(*env.Cond)
	}
	if env.Msg != nil {
		t.Msg = *env.Msg
	}

	if len(env.Obj) == 0 || string(env.Obj) == "null" {
		return t, nil // keepalive or terminal line with no payload
	}

	cof, err := parseCOF(env.Obj)
	if err != nil {
		return nil, &ParseError{Line: line, Err: fmt.Errorf("saf obj: %w", err)}
	}
	cof.Cond = t.Cond
	cof.Msg = t.Msg
	return cof, nil
}

func parseCOF(raw json.RawMessage) (*Tuple, error) {
	var w cofWire
	if err := sonic.Unmarshal(raw, &w); err != nil {
		return nil, err
	}

	t := &Tuple{Raw: append(json.RawMessage(nil), raw...)}
	if w.RRName != nil {
		t.RRName = *w.RRName
	}
	if w.RRType != nil {
		t.RRType = *w.RRType
	}
	if w.Bailiwick != nil {
		t.Bailiwick = *w.Bailiwick
	}
	if w.Count != nil {
		t.Count = *w.Count
		t.HasCount = true
	}
	if w.NumResults != nil {
		t.NumResults = *w.NumResults
		t.HasNumRes = true
	}
	if w.TimeFirst != nil {
		t.TimeFirst = *w.TimeFirst
	}
	if w.TimeLast != nil {
		t.TimeLast = *w.TimeLast
	}
	if w.ZoneTimeFirst != nil {
		t.ZoneFirst = *w.ZoneTimeFirst
	}
	if w.ZoneTimeLast != nil {
		t.ZoneLast = *w.ZoneTimeLast
	}

	if len(w.Rdata) > 0 {
		rdata, err := parseRdata(w.Rdata)
		if err != nil {
			return nil, err
		}
		t.Rdata = rdata
	}

	return t, nil
}

// parseRdata accepts either a bare string or an array of strings.
func parseRdata(raw json.RawMessage) ([]string, error) {
	var single string
	if err := sonic.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}

	var list []string
	if err := sonic.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	return nil, fmt.Errorf("rdata: expected string or array of strings")
}

// EffectiveFirst returns the wire time_first, falling back to zone_time_first.
func (t *Tuple) EffectiveFirst() int64 {
	if t.TimeFirst != 0 {
		return t.TimeFirst
	}
	return t.ZoneFirst
}

// EffectiveLast returns the wire time_last, falling back to zone_time_last.
func (t *Tuple) EffectiveLast() int64 {
	if t.TimeLast != 0 {
		return t.TimeLast
	}
	return t.ZoneLast
}
