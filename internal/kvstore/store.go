// Package kvstore persists a string-keyed mapping of records as a single unit.
//
// A Store always reads and writes the full mapping. Backends must make Save
// all-or-nothing: a Load that follows a failed Save observes the previous
// mapping, never a partial one.
package kvstore

import "context"

type Store[V any] interface {
	Load(ctx context.Context) (map[string]V, error)
	Save(ctx context.Context, records map[string]V) error
}
