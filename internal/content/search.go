package content

import "strings"

type searchable interface {
	searchable() []string
}

// search keeps the records with any field containing q, ignoring case. An
// empty query keeps everything.
func search[T searchable](records []T, q string) []T {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return records
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		for _, v := range r.searchable() {
			if strings.Contains(strings.ToLower(v), q) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
