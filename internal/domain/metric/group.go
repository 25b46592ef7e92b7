package metric

import "sort"

// KV is one aggregation bucket of a grouped computation
type KV struct {
	Key   string
	Value float64
}

// SortedDesc returns the map entries ordered by value descending, with ties
// broken by key, so grouped tables render deterministically
func SortedDesc(m map[string]float64) []KV {
	out := make([]KV, 0, len(m))
	for k, v := range m {
		out = append(out, KV{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// SortedByKey returns the map entries in ascending key order. Month buckets
// keyed as "2006-01" sort chronologically.
func SortedByKey(m map[string]float64) []KV {
	out := make([]KV, 0, len(m))
	for k, v := range m {
		out = append(out, KV{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Keys returns just the keys of a sorted KV slice
func Keys(kvs []KV) []string {
	out := make([]string, 0, len(kvs))
	for _, kv := range kvs {
		out = append(out, kv.Key)
	}
	return out
}

// Top truncates a sorted KV slice to at most n entries
func Top(kvs []KV, n int) []KV {
	if n <= 0 || n >= len(kvs) {
		return kvs
	}
	return kvs[:n]
}
