package logger

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so a single query's
// log lines can be correlated by fetch_id/query_id regardless of backend.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // correlation id for a single CLI invocation
	KeySpanID  = "span_id"  // correlation id for a single fetch

	// ========================================================================
	// Query & Backend
	// ========================================================================
	KeyBackend   = "backend"    // backend name: dnsdb, circl, ...
	KeyQueryID   = "query_id"   // descriptive label of the Query (mode, name, rrtypes)
	KeyFetchID   = "fetch_id"   // sequence number of the Fetch within its Query
	KeyQueryMode = "query_mode" // rrset/name, rdata/name, rdata/ip, rrset/raw, rdata/raw
	KeyVerb      = "verb"       // lookup or summarize
	KeyURL       = "url"        // composed request URL (credentials redacted)
	KeyRRType    = "rrtype"     // rrtype filter applied to a fetch

	// ========================================================================
	// HTTP / Transport
	// ========================================================================
	KeyHTTPStatus = "http_status" // HTTP response status code
	KeyRcode      = "rcode"       // transport-level result code (non-OK means DNS/connect/TLS failure)
	KeyBytes      = "bytes"       // bytes received in a chunk

	// ========================================================================
	// SAF envelope
	// ========================================================================
	KeySAFCond = "saf_cond" // begin, ongoing, succeeded, limited, failed, missing
	KeySAFMsg  = "saf_msg"  // SAF terminal message

	// ========================================================================
	// Record filtering
	// ========================================================================
	KeyAccepted = "accepted" // records accepted by receive-side filtering
	KeyRejected = "rejected" // records dropped by receive-side filtering
	KeyReason   = "reason"   // reason a record was rejected

	// ========================================================================
	// Writer / sort stage
	// ========================================================================
	KeySortKeys   = "sort_keys"   // requested sort keys
	KeyOutputSeen = "output_seen" // records presented so far by a Writer
	KeyLine       = "line"        // offending raw line text for a parse failure

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // operation duration in milliseconds
	KeyError      = "error"       // error message
)
