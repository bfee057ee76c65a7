package sim

import "sort"

// MinutesPerDay is the length of the daily clock. Activity times use the
// travel-survey clock, so a day runs from 0 to 2399 and a window whose end is
// before its start wraps past midnight.
const MinutesPerDay = 2400

func validClock(v int) bool {
	return v >= 0 && v < MinutesPerDay
}

// NormalizeWindow converts a (start, end) clock pair into a start, an end that
// may exceed MinutesPerDay, and a non-negative duration.
func NormalizeWindow(start, end int) (int, int, int) {
	duration := end - start
	// in case of activities across midnight
	if duration < 0 {
		duration += MinutesPerDay
	}
	return start, start + duration, duration
}

// Span is a half-open minute range [Start, End) inside one day.
type Span struct {
	Start int
	End   int
}

// Len returns the number of minutes in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlap is a sorted set of disjoint spans on the daily clock.
type Overlap []Span

// windowSpans lays an activity window onto the daily ring. A window that runs
// past midnight is split into its early-morning part and its evening part.
func windowSpans(start, end int) Overlap {
	s, e, d := NormalizeWindow(start, end)
	if d == 0 {
		return nil
	}
	if e <= MinutesPerDay {
		return Overlap{{Start: s, End: e}}
	}
	return Overlap{{Start: 0, End: e - MinutesPerDay}, {Start: s, End: MinutesPerDay}}
}

// CalculateOverlap returns the minutes two activities have in common.
func CalculateOverlap(a, b Activity) Overlap {
	return windowSpans(a.Start, a.End).Intersect(windowSpans(b.Start, b.End))
}

// Intersect returns the minutes present in both o and other.
func (o Overlap) Intersect(other Overlap) Overlap {
	var out Overlap
	i, j := 0, 0
	for i < len(o) && j < len(other) {
		lo := max(o[i].Start, other[j].Start)
		hi := min(o[i].End, other[j].End)
		if lo < hi {
			out = append(out, Span{Start: lo, End: hi})
		}
		if o[i].End < other[j].End {
			i++
		} else {
			j++
		}
	}
	return out
}

// Union returns the minutes present in either o or other, coalescing spans
// that touch.
func (o Overlap) Union(other Overlap) Overlap {
	all := make(Overlap, 0, len(o)+len(other))
	all = append(all, o...)
	all = append(all, other...)
	if len(all) == 0 {
		return nil
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Start < all[j].Start })

	out := Overlap{all[0]}
	for _, s := range all[1:] {
		last := &out[len(out)-1]
		if s.Start <= last.End {
			last.End = max(last.End, s.End)
			continue
		}
		out = append(out, s)
	}
	return out
}

// Len returns the total number of minutes in the overlap.
func (o Overlap) Len() int {
	n := 0
	for _, s := range o {
		n += s.Len()
	}
	return n
}

// Empty reports whether the overlap contains no minutes.
func (o Overlap) Empty() bool {
	return o.Len() == 0
}

// Minute returns the i-th minute of the overlap in ascending order.
// i must be in [0, Len()).
func (o Overlap) Minute(i int) int {
	for _, s := range o {
		if i < s.Len() {
			return s.Start + i
		}
		i -= s.Len()
	}
	panic("sim: overlap minute index out of range")
}

// Minutes expands the overlap into its individual minutes.
func (o Overlap) Minutes() []int {
	out := make([]int, 0, o.Len())
	for _, s := range o {
		for m := s.Start; m < s.End; m++ {
			out = append(out, m)
		}
	}
	return out
}
