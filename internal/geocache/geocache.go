// Package geocache persists resolved coordinates for normalized address
// strings. It is the only mutable state the engine keeps: entries are read
// before every external geocoding call and appended after every success.
// Failed lookups are never stored, so later requests retry.
package geocache

import "context"

// Entry is one cached coordinate pair. Found is false for the "not found"
// sentinel the persisted format supports.
type Entry struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Found bool    `json:"found"`
}

// Store is the durable cache backend. Implementations must tolerate
// concurrent callers; last writer wins is acceptable, a corrupted backing
// store is not.
type Store interface {
	Lookup(ctx context.Context, address string) (Entry, bool, error)
	Save(ctx context.Context, address string, e Entry) error
}
