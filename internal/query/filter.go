package query

import "pdnsq/internal/record"

// Accept applies receive-side time filtering to a tuple that has already
// passed the SAF state machine. It prefers wire times (time_first/time_last)
// falling back to zone times, per the after/before/complete rules.
func Accept(t *record.Tuple, p Params) (ok bool, reason string) {
	first := t.EffectiveFirst()
	last := t.EffectiveLast()

	if p.After > 0 {
		if p.Complete {
			if first < p.After {
				return false, "first is too early"
			}
		} else if last < p.After {
			return false, "last is too early"
		}
	}

	if p.Before > 0 {
		if p.Complete {
			if last > p.Before {
				return false, "last is too late"
			}
		} else if first > p.Before {
			return false, "first is too late"
		}
	}

	return true, ""
}
