package core

// Series is the chart data for an ordered run of month keys. Labels[i] and
// Counts[i] always describe Keys[i].
type Series struct {
	Keys   []MonthKey
	Labels []string
	Counts []int
}

// BuildSeries maps month keys to their bucket sizes; absent buckets count 0.
func BuildSeries(keys []MonthKey, buckets map[MonthKey][]JobRecord) Series {
	s := Series{
		Keys:   make([]MonthKey, len(keys)),
		Labels: make([]string, len(keys)),
		Counts: make([]int, len(keys)),
	}
	for i, k := range keys {
		s.Keys[i] = k
		s.Labels[i] = string(k)
		s.Counts[i] = len(buckets[k])
	}
	return s
}

// Matches reports whether the series already covers exactly keys, in order.
func (s Series) Matches(keys []MonthKey) bool {
	if len(s.Labels) != len(keys) {
		return false
	}
	for i, k := range keys {
		if s.Labels[i] != string(k) {
			return false
		}
	}
	return true
}

// KeyAt resolves a chart index to its month key. Out-of-range indices
// resolve to nothing.
func (s Series) KeyAt(index int) (MonthKey, bool) {
	if index < 0 || index >= len(s.Keys) {
		return "", false
	}
	return s.Keys[index], true
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.Labels) }
