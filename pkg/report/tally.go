package report

import "strconv"

// Tally counts occurrences of status labels. The zero value is ready to use.
type Tally struct {
	counts map[string]int
	order  []string // first-seen order, used for output
}

// Increment adds one to status, starting at 1 on first sight.
func (t *Tally) Increment(status string) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if _, ok := t.counts[status]; !ok {
		t.order = append(t.order, status)
	}
	t.counts[status]++
}

// Count returns the count for status (0 if never seen).
func (t *Tally) Count(status string) int {
	return t.counts[status]
}

// Len returns the number of distinct statuses.
func (t *Tally) Len() int {
	return len(t.order)
}

// Total returns the sum of all counts.
func (t *Tally) Total() int {
	n := 0
	for _, c := range t.counts {
		n += c
	}
	return n
}

// Counts returns a copy of the status -> count mapping.
func (t *Tally) Counts() map[string]int {
	out := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// RowSet renders the tally as (status, count) rows in first-seen order.
func (t *Tally) RowSet(statusCol, countCol string) *RowSet {
	rs := New(statusCol, countCol)
	for _, s := range t.order {
		rs.Add(s, strconv.Itoa(t.counts[s]))
	}
	return rs
}
