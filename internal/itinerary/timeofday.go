package itinerary

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

// ParseTimeOfDay returns minutes since midnight for inputs such as "09:30",
// "9:30", "9:30 PM", "9pm" or "noon".
func ParseTimeOfDay(s string) (int, bool) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, ".", "")
	switch v {
	case "":
		return 0, false
	case "NOON":
		return 12 * 60, true
	case "MIDNIGHT":
		return 0, true
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}

// NormalizeTime renders a parseable time as HH:MM and otherwise returns the trimmed input.
func NormalizeTime(s string) string {
	m, ok := ParseTimeOfDay(s)
	if !ok {
		return strings.TrimSpace(s)
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// SortDay orders activities by time of day. Unparseable times go last and
// keep their relative order. Order is rewritten to 0..n-1.
func SortDay(day Day) Day {
	out := day.clone()
	sortActivities(out.Activities)
	return out
}

func sortActivities(acts []Activity) {
	type key struct {
		minutes int
		ok      bool
	}
	keys := make(map[int]key, len(acts))
	idx := make([]int, len(acts))
	for i, a := range acts {
		m, ok := ParseTimeOfDay(a.Time)
		keys[i] = key{m, ok}
		idx[i] = i
	}

	sort.SliceStable(idx, func(i, j int) bool {
		a, b := keys[idx[i]], keys[idx[j]]
		if a.ok != b.ok {
			return a.ok
		}
		return a.ok && a.minutes < b.minutes
	})

	sorted := make([]Activity, len(acts))
	for i, k := range idx {
		sorted[i] = acts[k]
	}
	copy(acts, sorted)
	renumberOrder(acts)
}

// IsSorted reports whether the day's activities are in time-of-day order.
func IsSorted(day Day) bool {
	seenUnparsed := false
	prev := -1
	for _, a := range day.Activities {
		m, ok := ParseTimeOfDay(a.Time)
		if !ok {
			seenUnparsed = true
			continue
		}
		if seenUnparsed || m < prev {
			return false
		}
		prev = m
	}
	return true
}
