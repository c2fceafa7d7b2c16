package solver

import (
	"fmt"
	"strings"
)

// Rule selects the priority order used to dispatch ready operations.
type Rule int

const (
	// FIFO commits operations in declaration order.
	FIFO Rule = iota
	// SPT prefers the shortest processing time among ready operations.
	SPT
	// LPT prefers the longest processing time among ready operations.
	LPT
)

// Rules lists every available dispatch rule in selection-surface order.
func Rules() []Rule {
	return []Rule{FIFO, SPT, LPT}
}

// String returns the short identifier used in flags, config, and APIs.
func (r Rule) String() string {
	switch r {
	case FIFO:
		return "fifo"
	case SPT:
		return "spt"
	case LPT:
		return "lpt"
	default:
		return fmt.Sprintf("rule(%d)", int(r))
	}
}

// DisplayName returns the human-readable name shown in UIs and reports.
func (r Rule) DisplayName() string {
	switch r {
	case FIFO:
		return "FIFO (First-In-First-Out)"
	case SPT:
		return "SPT (Shortest Processing Time)"
	case LPT:
		return "LPT (Longest Processing Time)"
	default:
		return "Unknown"
	}
}

// ParseRule maps a short identifier to its Rule, case-insensitively.
func ParseRule(s string) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fifo":
		return FIFO, nil
	case "spt":
		return SPT, nil
	case "lpt":
		return LPT, nil
	default:
		return FIFO, fmt.Errorf("unknown dispatch rule %q (want fifo, spt, or lpt)", s)
	}
}
