package models

// Elimination is the outcome of narrowing a candidate set.
type Elimination struct {
	// Remaining holds the candidates without activity in any checked table,
	// in ascending order.
	Remaining []int64

	// BlockedBy maps every eliminated candidate to the group ("component/module")
	// whose references removed it.
	BlockedBy map[int64]string
}

// Decision splits a candidate batch into users to purge and users to keep.
type Decision struct {
	Purgeable []int64
	Excluded  []int64
	BlockedBy map[int64]string

	// Failed holds excluded users whose no-purge entry could not be written.
	// They stay candidates for the next run.
	Failed map[int64]error
}

// PurgeReport summarizes a purge batch.
type PurgeReport struct {
	Candidates []int64
	Purged     []int64
	Excluded   []int64
	BlockedBy  map[int64]string
	Failed     map[int64]error
}

// HasFailures reports whether any user of the batch failed.
func (r PurgeReport) HasFailures() bool {
	return len(r.Failed) > 0
}

// RestoreReport summarizes a restore run.
type RestoreReport struct {
	Restored []int64

	// Skipped holds ids without an identity backup: there is no purge to undo.
	Skipped []int64

	// AlreadyPresent holds ids whose identity record still exists.
	AlreadyPresent []int64

	Failed map[int64]error
}

// HasFailures reports whether any user of the run failed.
func (r RestoreReport) HasFailures() bool {
	return len(r.Failed) > 0
}
