package batch

const (
	// DefaultChunkSize is used when the caller neither supplies a chunk
	// size nor a memory budget to derive one from.
	DefaultChunkSize = 100

	// defaultMemoryBudgetMB bounds how much of the dataset is resident
	// while a chunk is in flight.
	defaultMemoryBudgetMB = 1024

	// estimatedRowSizeKB is a deliberately pessimistic guess at the
	// in-memory footprint of a single product row.
	estimatedRowSizeKB = 1
)

// RecommendChunkSize picks a chunk size for a dataset of totalRows rows
// given an available memory budget in megabytes. Small datasets are
// processed in a single chunk; larger ones are bounded by a quarter of
// the theoretical row capacity of the budget, clamped to [10, 1000].
func RecommendChunkSize(totalRows, availableMemoryMB int) int {
	if totalRows < 1 {
		return 1
	}
	if availableMemoryMB <= 0 {
		availableMemoryMB = defaultMemoryBudgetMB
	}

	maxRowsInMemory := availableMemoryMB * 1024 / estimatedRowSizeKB

	// Keep a 4x safety margin over the theoretical capacity.
	recommended := maxRowsInMemory / 4
	if recommended > 1000 {
		recommended = 1000
	}
	if recommended < 10 {
		recommended = 10
	}

	switch {
	case totalRows < 100:
		return totalRows
	case totalRows < 1000:
		if recommended > 100 {
			return 100
		}
		return recommended
	default:
		return recommended
	}
}
