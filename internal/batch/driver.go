// Package batch implements the §4.7 batch driver: one query descriptor per
// input line, $options reparsing, none/terse/verbose framing, and the
// multiple (single shared Writer) vs per-line Writer execution modes.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"pdnsq/internal/engine"
	"pdnsq/internal/query"
	"pdnsq/internal/writer"
)

// Framing selects the per-line output separators.
type Framing int

const (
	FramingNone Framing = iota
	FramingTerse
	FramingVerbose
)

// WriterFactory builds a fresh Writer per call, used either once (multiple
// mode) or once per line (the default).
type WriterFactory func() (*writer.Writer, error)

// Driver runs a batch input stream against an engine.
type Driver struct {
	Engine      *engine.Engine
	Verb        query.Verb
	Baseline    query.Params
	NewWriter   WriterFactory
	Framing     Framing
	Multiple    bool
	MaxInFlight int // only consulted when Multiple; <=0 means 16
	Out         io.Writer
}

// Run reads r line by line and drives the batch per §4.7. It returns an
// error only for a fatal I/O failure reading the input; per-line query
// failures are reported via framing/status and never stop the batch.
func (d *Driver) Run(ctx context.Context, r io.Reader) error {
	var sharedWriter *writer.Writer
	if d.Multiple {
		w, err := d.NewWriter()
		if err != nil {
			return fmt.Errorf("batch: creating shared writer: %w", err)
		}
		sharedWriter = w
	}

	maxInFlight := d.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = 16
	}
	sem := make(chan struct{}, maxInFlight)

	var wg sync.WaitGroup
	var mu sync.Mutex // serializes d.Out writes across concurrent goroutines
	var lastShared *query.Query

	params := d.Baseline

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "$options") {
			np, err := ApplyOptions(line, d.Baseline)
			if err != nil {
				d.report(&mu, fmt.Sprintf("-- error (%v)\n", err))
				continue
			}
			params = np
			continue
		}

		pl, err := ParseLine(line, d.Verb)
		if err != nil {
			if d.Framing == FramingVerbose {
				d.report(&mu, fmt.Sprintf("++ %s\n-- error (%v)\n", line, err))
			} else {
				d.report(&mu, fmt.Sprintf("-- error (%v)\n", err))
			}
			continue
		}

		if d.Multiple {
			sem <- struct{}{}
			wg.Add(1)
			go func(pl ParsedLine, params query.Params) {
				defer wg.Done()
				defer func() { <-sem }()

				if d.Framing == FramingVerbose {
					d.report(&mu, fmt.Sprintf("++ %s\n", pl.Raw))
				}

				q, err := d.Engine.RunShared(ctx, pl.Desc, params, sharedWriter)
				d.reportOutcome(&mu, pl, q, err)

				if err == nil {
					mu.Lock()
					lastShared = q
					mu.Unlock()
				}
			}(pl, params)
			continue
		}

		w, werr := d.NewWriter()
		if werr != nil {
			return fmt.Errorf("batch: creating writer: %w", werr)
		}

		if d.Framing == FramingVerbose {
			d.report(&mu, fmt.Sprintf("++ %s\n", pl.Raw))
		}

		q, err := d.Engine.Run(ctx, pl.Desc, params, w)
		d.reportOutcome(&mu, pl, q, err)
	}

	if d.Multiple {
		wg.Wait() // io_engine(0): wait for every in-flight query to finish

		if lastShared != nil {
			if err := sharedWriter.Drain(lastShared); err != nil {
				return fmt.Errorf("batch: draining shared writer: %w", err)
			}
		}
	}

	return scanner.Err()
}

func (d *Driver) reportOutcome(mu *sync.Mutex, pl ParsedLine, q *query.Query, err error) {
	switch d.Framing {
	case FramingVerbose:
		status, message := "error", ""
		if err != nil {
			message = err.Error()
		} else {
			status, message = q.Status, q.Message
		}
		d.report(mu, fmt.Sprintf("-- %s (%s)\n", status, message))
	case FramingTerse:
		d.report(mu, "--\n")
	}
}

func (d *Driver) report(mu *sync.Mutex, s string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprint(d.Out, s)
}
