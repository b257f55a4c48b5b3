package storage

import "fmt"

// Quota wraps a Storage and rejects values larger than Limit bytes.
type Quota struct {
	Storage
	Limit int
}

// WithQuota wraps s with a byte limit. A limit of zero or less returns s
// unchanged.
func WithQuota(s Storage, limit int) Storage {
	if limit <= 0 {
		return s
	}
	return &Quota{Storage: s, Limit: limit}
}

// Set implements Storage.
func (q *Quota) Set(key, value string) error {
	if len(value) > q.Limit {
		return fmt.Errorf("slot %s: value of %d bytes exceeds %d byte limit: %w", key, len(value), q.Limit, ErrQuotaExceeded)
	}
	return q.Storage.Set(key, value)
}
