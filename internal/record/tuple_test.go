package record

import "testing"

func TestParseCOFScalarRdata(t *testing.T) {
	line := []byte(`{"rrname":"www.example.com.","rrtype":"A","rdata":"192.0.2.1","count":5,"time_first":1000,"time_last":2000}`)

	tup, err := Parse(line, false)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tup.RRName != "www.example.com." || tup.RRType != "A" {
		t.Errorf("unexpected rrname/rrtype: %+v", tup)
	}
	if len(tup.Rdata) != 1 || tup.Rdata[0] != "192.0.2.1" {
		t.Errorf("unexpected rdata: %v", tup.Rdata)
	}
	if !tup.HasCount || tup.Count != 5 {
		t.Errorf("unexpected count: %+v", tup)
	}
	if tup.TimeFirst != 1000 || tup.TimeLast != 2000 {
		t.Errorf("unexpected times: %+v", tup)
	}
}

func TestParseCOFArrayRdata(t *testing.T) {
	line := []byte(`{"rrname":"example.com.","rrtype":"NS","rdata":["ns1.example.com.","ns2.example.com."]}`)

	tup, err := Parse(line, false)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(tup.Rdata) != 2 {
		t.Fatalf("expected 2 rdata entries, got %d", len(tup.Rdata))
	}
}

func TestParseCOFBadFieldType(t *testing.T) {
	line := []byte(`{"rrname":"example.com.","rrtype":"A","count":"not-a-number"}`)
	if _, err := Parse(line, false); err == nil {
		t.Fatal("expected parse error for a count field of the wrong type")
	}
}

func TestParseSAFBegin(t *testing.T) {
	line := []byte(`{"cond":"begin"}`)
	tup, err := Parse(line, true)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tup.Cond != CondBegin {
		t.Errorf("expected cond=begin, got %q", tup.Cond)
	}
	if len(tup.Raw) != 0 {
		t.Errorf("begin envelope should carry no payload, got %q", tup.Raw)
	}
}

func TestParseSAFOngoingWithObj(t *testing.T) {
	line := []byte(`{"cond":"ongoing","obj":{"rrname":"x.example.","rrtype":"A","rdata":"198.51.100.1"}}`)
	tup, err := Parse(line, true)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tup.Cond != CondOngoing {
		t.Errorf("expected cond=ongoing, got %q", tup.Cond)
	}
	if tup.RRName != "x.example." {
		t.Errorf("expected obj payload to populate rrname, got %+v", tup)
	}
}

func TestParseSAFTerminalWithMessage(t *testing.T) {
	line := []byte(`{"cond":"limited","msg":"result limit"}`)
	tup, err := Parse(line, true)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tup.Cond != CondLimited || tup.Msg != "result limit" {
		t.Errorf("unexpected terminal envelope: %+v", tup)
	}
}

func TestParseMalformedJSON(t *testing.T) {
	if _, err := Parse([]byte(`{not json`), false); err == nil {
		t.Fatal("expected parse error for malformed JSON")
	}
	var pe *ParseError
	_, err := Parse([]byte(`{not json`), false)
	if err == nil {
		t.Fatal("expected error")
	}
	if !isParseError(err, &pe) {
		t.Errorf("expected *ParseError, got %T", err)
	}
}

func isParseError(err error, target **ParseError) bool {
	pe, ok := err.(*ParseError)
	if ok {
		*target = pe
	}
	return ok
}

func TestEffectiveTimesFallback(t *testing.T) {
	tup := &Tuple{ZoneFirst: 111, ZoneLast: 222}
	if tup.EffectiveFirst() != 111 || tup.EffectiveLast() != 222 {
		t.Errorf("expected fallback to zone times, got first=%d last=%d", tup.EffectiveFirst(), tup.EffectiveLast())
	}
	tup.TimeFirst = 999
	if tup.EffectiveFirst() != 999 {
		t.Errorf("expected wire time to take precedence, got %d", tup.EffectiveFirst())
	}
}
