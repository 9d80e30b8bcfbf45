package core

import "sort"

// fifoOrder sorts batches in the order spec §4.3 defines: dated batches
// before undated; within dated, earliest expires_at first; ties broken by
// received_at, then by batch id for a stable total order.
func fifoOrder(batches []Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		return fifoLess(batches[i], batches[j])
	})
}

func fifoLess(a, b Batch) bool {
	aHas := a.ExpiresAt != nil
	bHas := b.ExpiresAt != nil
	if aHas != bHas {
		return aHas // dated batches sort first
	}
	if aHas && bHas && !a.ExpiresAt.Equal(*b.ExpiresAt) {
		return a.ExpiresAt.Before(*b.ExpiresAt)
	}
	if !a.ReceivedAt.Equal(b.ReceivedAt) {
		return a.ReceivedAt.Before(b.ReceivedAt)
	}
	return a.ID.String() < b.ID.String()
}
