package batch

import (
	"fmt"
	"strconv"
	"strings"

	"pdnsq/internal/query"
	"pdnsq/pkg/tokenizer"
)

// ParsedLine is one non-comment, non-$options batch input line decomposed
// into a query descriptor.
type ParsedLine struct {
	Desc query.Descriptor
	Raw  string
}

// ParseLine parses one batch line into a Descriptor, per the five
// slash-delimited grammars in §4.7. verb is applied to the resulting
// descriptor (batch lines don't carry their own verb).
func ParseLine(line string, verb query.Verb) (ParsedLine, error) {
	parts := tokenizer.SplitPath(line)
	if len(parts) < 3 {
		return ParsedLine{}, fmt.Errorf("batch: malformed line %q: need at least kind/subkind/value", line)
	}

	kind, subkind, value := parts[0], parts[1], parts[2]
	rest := parts[3:]

	var desc query.Descriptor
	desc.Verb = verb
	desc.Thing = value

	switch {
	case kind == "rrset" && subkind == "name":
		desc.Mode = query.ModeRRsetByName
		if err := applyTypeBailiwick(&desc, rest); err != nil {
			return ParsedLine{}, fmt.Errorf("batch: %q: %w", line, err)
		}
	case kind == "rrset" && subkind == "raw":
		desc.Mode = query.ModeRawRRset
		if err := applyTypeBailiwick(&desc, rest); err != nil {
			return ParsedLine{}, fmt.Errorf("batch: %q: %w", line, err)
		}
	case kind == "rdata" && subkind == "name":
		desc.Mode = query.ModeRdataByName
		if err := applyType(&desc, rest); err != nil {
			return ParsedLine{}, fmt.Errorf("batch: %q: %w", line, err)
		}
	case kind == "rdata" && subkind == "raw":
		desc.Mode = query.ModeRawName
		if err := applyType(&desc, rest); err != nil {
			return ParsedLine{}, fmt.Errorf("batch: %q: %w", line, err)
		}
	case kind == "rdata" && subkind == "ip":
		desc.Mode = query.ModeRdataByIP
		if len(rest) > 0 {
			pfx, err := strconv.Atoi(rest[0])
			if err != nil {
				return ParsedLine{}, fmt.Errorf("batch: %q: invalid prefix length %q", line, rest[0])
			}
			desc.PfxLen = pfx
		}
	default:
		return ParsedLine{}, fmt.Errorf("batch: %q: unrecognized grammar %s/%s", line, kind, subkind)
	}

	return ParsedLine{Desc: desc, Raw: line}, nil
}

func applyTypeBailiwick(desc *query.Descriptor, rest []string) error {
	if len(rest) > 0 && rest[0] != "" {
		desc.RRTypes = strings.Split(rest[0], ",")
	}
	if len(rest) > 1 {
		desc.Bailiwick = rest[1]
	}
	if len(rest) > 2 {
		return fmt.Errorf("too many qualifiers")
	}
	return nil
}

func applyType(desc *query.Descriptor, rest []string) error {
	if len(rest) > 0 && rest[0] != "" {
		desc.RRTypes = strings.Split(rest[0], ",")
	}
	if len(rest) > 1 {
		return fmt.Errorf("too many qualifiers")
	}
	return nil
}
