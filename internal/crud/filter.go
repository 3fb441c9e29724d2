package crud

import "strings"

// Filter keeps the records whose status equals status (case-insensitive)
// and whose text fields contain term. Empty arguments match everything.
func Filter[T Entity[T]](items []T, status, term string) []T {
	status = strings.TrimSpace(status)
	term = strings.ToLower(strings.TrimSpace(term))
	if status == "" && term == "" {
		return items
	}

	out := make([]T, 0, len(items))
	for _, rec := range items {
		if status != "" && !strings.EqualFold(rec.StatusLabel(), status) {
			continue
		}
		if term != "" && !rec.Matches(term) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// ContainsFold reports whether any of fields contains the lower-cased term.
func ContainsFold(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
