// First-fit memory allocator for constrained environments
// https://github.com/usbarmory/memalloc
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package memalloc

// Stats reports the running counters maintained when Config.EnableStats
// is true. Reading stats on an instance assembled with EnableStats false
// returns the zero value.
type Stats struct {
	// TotalBytes is the sum of usable bytes across all linked regions
	// (full mode) or the single region (simple mode), fixed at Assign
	// time.
	TotalBytes int

	// Available is the number of bytes currently free for allocation.
	Available int

	// MinAvailable is the lowest value Available has ever reached,
	// updated on every allocation and every realloc that grows a block,
	// to surface worst-case pressure without requiring the caller to
	// sample continuously.
	MinAvailable int

	// AllocCount and FreeCount count completed Malloc/Calloc and Free
	// calls respectively; a Realloc fallback (Case F) counts as one of
	// each, and an in-place Realloc counts as neither.
	AllocCount uint64
	FreeCount  uint64
}

// GetStats returns the instance's running counters. ok is false when the
// instance was not assembled with Config.EnableStats.
func (a *Instance) GetStats() (Stats, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.assembled || !a.cfg.EnableStats {
		return Stats{}, false
	}

	available := a.available
	if !a.cfg.FullMode {
		available = a.simpleAvailable
	}

	return Stats{
		TotalBytes:   int(a.totalBytes),
		Available:    int(available),
		MinAvailable: int(a.minAvailable),
		AllocCount:   a.allocCount,
		FreeCount:    a.freeCount,
	}, true
}
