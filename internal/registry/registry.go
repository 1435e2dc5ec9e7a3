// Package registry merges built-in reference data with user-created exercises
// and routines.
package registry

import "context"

// Persister is the write-through mirror the registries save into.
type Persister interface {
	Load(ctx context.Context, key string, dst any) bool
	ScheduleJSON(key string, v any)
}
