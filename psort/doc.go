// Package psort provides parallel divide-and-conquer sorting on a fork-join
// worker pool.
//
// # Algorithms
//
// Both sorts split a slice recursively into disjoint sub-slices and sort the
// two halves in parallel with forkjoin.Pool.Fork2:
//   - QuickSort partitions around a median-of-three pivot (first, middle and
//     last element) and recurses on both sides of the pivot.
//   - MergeSort splits at the middle, sorts both halves and merges them
//     through an auxiliary buffer. It is stable.
//
// Ranges with high-low at or below the cutoff are insertion sorted. The
// cutoffs only affect performance, never the result.
//
// # Configuration
//
// The package-level functions read the process-wide cutoffs, which default
// to 30 and can be set with SetQuicksortCutoff and SetMergesortCutoff or the
// PSORT_QUICKSORT_CUTOFF and PSORT_MERGESORT_CUTOFF environment variables.
// Each sort takes a snapshot when it starts. An Engine carries its own
// Config and pool instead:
//
//	cfg := psort.NewConfig()
//	if err := cfg.SetQuicksortCutoff(64); err != nil {
//	    return err
//	}
//	eng := psort.NewOrdered[int64](cfg, psort.WithPool(pool))
//	if err := eng.QuickSort(data); err != nil {
//	    return err
//	}
//
// # Errors
//
// Sorting fails with ErrComparisonFailure when a float slice contains NaN or
// when a comparison function panics. In the second case the slice is left
// partially reordered.
//
// Sorts must not be started from inside a task running on the same pool.
package psort
