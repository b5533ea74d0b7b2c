// Package transport performs the concurrent HTTP fetches that feed a
// query's Fetches. One goroutine runs per Fetch; a weighted semaphore
// bounds how many run at once, mirroring the libcurl-multi maxInFlight
// knob the original engine exposed.
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"pdnsq/internal/backend"
	"pdnsq/internal/logger"
	"pdnsq/internal/query"
	"pdnsq/pkg/bufpool"
)

// Options tunes the shared HTTP client used for all fetches of one
// invocation.
type Options struct {
	// IPVersion forces the dialer to a single family: 0 = either, 4, or 6.
	IPVersion int
	// InsecureSkipVerify disables TLS peer/host verification (-U).
	InsecureSkipVerify bool
	// Timeout bounds each individual HTTP request; 0 = no timeout.
	Timeout time.Duration
	// MaxInFlight bounds concurrently in-flight fetches; <= 0 means 32.
	MaxInFlight int64
}

// Transport owns the shared HTTP client and concurrency gate for one
// invocation's fetches.
type Transport struct {
	client *http.Client
	sem    *semaphore.Weighted
}

// New builds a Transport from the given options.
func New(opts Options) *Transport {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	dialContext := func(ctx context.Context, network, addr string) (net.Conn, error) {
		switch opts.IPVersion {
		case 4:
			network = "tcp4"
		case 6:
			network = "tcp6"
		}
		return dialer.DialContext(ctx, network, addr)
	}

	transport := &http.Transport{
		DialContext: dialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: opts.InsecureSkipVerify, //nolint:gosec // operator-requested via -U
		},
	}

	maxInFlight := opts.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = 32
	}

	return &Transport{
		client: &http.Client{Transport: transport, Timeout: opts.Timeout},
		sem:    semaphore.NewWeighted(maxInFlight),
	}
}

// Run executes every Fetch on q concurrently against b, blocking until all
// complete. Bytes for a single Fetch are always delivered to that Fetch's
// goroutine in wire order; two fetches never interleave within one Fetch's
// OnChunk calls because each Fetch owns exactly one goroutine.
func (t *Transport) Run(ctx context.Context, b backend.Backend, q *query.Query) error {
	fetches := q.Fetches()
	var wg sync.WaitGroup
	var exitErr error
	var mu sync.Mutex

	for _, f := range fetches {
		f := f
		if err := t.sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			exitErr = err
			mu.Unlock()
			break
		}

		wg.Add(1)
		go func() {
			defer t.sem.Release(1)
			defer wg.Done()
			t.runOne(ctx, b, f)
		}()
	}

	wg.Wait()
	return exitErr
}

// FetchBlob performs a single GET against url and returns the whole response
// body as one blob, for the backend's degenerate "info" endpoint, which is
// consumed by a backend-specific post-script rather than line-demuxed.
func (t *Transport) FetchBlob(ctx context.Context, b backend.Backend, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("transport: building info request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	b.Auth(req)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("transport: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	buf := bufpool.Get(bufpool.DefaultSmallSize)
	defer bufpool.Put(buf)

	var body []byte
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			body = append(body, buf[:n]...)
		}
		if readErr != nil {
			break
		}
	}
	return body, resp.StatusCode, nil
}

func (t *Transport) runOne(ctx context.Context, b backend.Backend, f *query.Fetch) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		f.TransportErr = fmt.Errorf("transport: building request: %w", err)
		logger.Error("fetch request construction failed", logger.KeyURL, f.URL, logger.KeyError, err)
		return
	}
	req.Header.Set("Accept", "application/json")
	b.Auth(req)

	resp, err := t.client.Do(req)
	if err != nil {
		f.TransportErr = fmt.Errorf("transport: %w", err)
		logger.Error("fetch transport error", logger.KeyURL, f.URL, logger.KeyError, err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	f.OnStatus(resp.StatusCode)
	logger.Debug("fetch response", logger.KeyURL, f.URL, logger.KeyHTTPStatus, resp.StatusCode)

	isNoError := func(code int) bool { return b.Status(code) == backend.StatusNoError }

	buf := bufpool.Get(bufpool.DefaultMediumSize)
	defer bufpool.Put(buf)

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if err := f.OnChunk(buf[:n], isNoError); err != nil {
				f.TransportErr = fmt.Errorf("transport: dispatch: %w", err)
				return
			}
		}
		if readErr != nil {
			break
		}
	}

	f.Finalize()
}
