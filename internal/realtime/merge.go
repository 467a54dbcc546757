// internal/realtime/merge.go
// The client aggregation contract: pushed rows are prepended to the
// newest-first list a client already fetched over REST. The merge is
// append-only and performs NO deduplication against paginated results, so
// a row can appear twice when it arrives both ways. Overall delivery is
// therefore at-least-once from the client's point of view; consumers that
// care render by ID.

package realtime

// Merge prepends pushed rows (oldest pushed first) onto a newest-first
// list, returning the combined list. Neither input is mutated.
func Merge[T any](existing []T, pushed []T) []T {
	merged := make([]T, 0, len(existing)+len(pushed))

	// Later pushes are newer; they end up at the front.
	for i := len(pushed) - 1; i >= 0; i-- {
		merged = append(merged, pushed[i])
	}

	return append(merged, existing...)
}
