package viewer

import (
	"fmt"
	"strings"
	"time"
)

// EndPolicy decides what the tour does after the last node.
type EndPolicy string

const (
	// EndWrap returns to the first node and keeps going.
	EndWrap EndPolicy = "wrap"
	// EndHalt stops the tour, leaving the last node selected.
	EndHalt EndPolicy = "halt"
)

// ParseEndPolicy parses "wrap" or "halt". Empty input is wrap.
func ParseEndPolicy(s string) (EndPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wrap", "loop":
		return EndWrap, nil
	case "halt", "stop":
		return EndHalt, nil
	default:
		return EndWrap, fmt.Errorf("unknown tour end policy %q (want wrap or halt)", s)
	}
}

// DefaultTourInterval is the delay between tour steps.
const DefaultTourInterval = 3 * time.Second

// TourPolicy configures the autoplay tour.
type TourPolicy struct {
	Interval time.Duration
	End      EndPolicy
	// StopOnSelect ends a running tour when the user picks a node.
	StopOnSelect bool
}

// DefaultTourPolicy wraps every 3 seconds and stops on manual selection.
func DefaultTourPolicy() TourPolicy {
	return TourPolicy{
		Interval:     DefaultTourInterval,
		End:          EndWrap,
		StopOnSelect: true,
	}
}

func (p TourPolicy) normalized() TourPolicy {
	if p.Interval <= 0 {
		p.Interval = DefaultTourInterval
	}
	if p.End != EndHalt {
		p.End = EndWrap
	}
	return p
}
