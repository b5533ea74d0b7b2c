package batch

import (
	"fmt"
	"strconv"

	"pdnsq/internal/query"
	"pdnsq/pkg/tokenizer"
)

// ApplyOptions reparses the trailing tokens of a "$options ..." batch line
// as if they were command-line flags, mutating a copy of the baseline
// params. An empty options line restores baseline unchanged.
func ApplyOptions(line string, baseline query.Params) (query.Params, error) {
	p := baseline

	tokens := tokenizer.New(line).All()
	if len(tokens) <= 1 {
		return baseline, nil // "$options" alone: restore defaults
	}

	args := tokens[1:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		next := func() (string, error) {
			i++
			if i >= len(args) {
				return "", fmt.Errorf("batch: option %q requires a value", arg)
			}
			return args[i], nil
		}

		switch arg {
		case "-A":
			v, err := next()
			if err != nil {
				return query.Params{}, err
			}
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return query.Params{}, fmt.Errorf("batch: -A: %w", err)
			}
			p.Before = n
		case "-B":
			v, err := next()
			if err != nil {
				return query.Params{}, err
			}
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return query.Params{}, fmt.Errorf("batch: -B: %w", err)
			}
			p.After = n
		case "-c":
			p.Complete = true
		case "-l":
			v, err := next()
			if err != nil {
				return query.Params{}, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return query.Params{}, fmt.Errorf("batch: -l: %w", err)
			}
			p.QueryLimit = n
		case "-L":
			v, err := next()
			if err != nil {
				return query.Params{}, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return query.Params{}, fmt.Errorf("batch: -L: %w", err)
			}
			p.OutputLimit = n
		case "-M":
			v, err := next()
			if err != nil {
				return query.Params{}, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return query.Params{}, fmt.Errorf("batch: -M: %w", err)
			}
			p.MaxCount = n
		case "-O":
			v, err := next()
			if err != nil {
				return query.Params{}, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return query.Params{}, fmt.Errorf("batch: -O: %w", err)
			}
			p.Offset = n
		case "-g":
			p.Gravel = true
		default:
			return query.Params{}, fmt.Errorf("batch: unrecognized $options flag %q", arg)
		}
	}

	return p, nil
}
