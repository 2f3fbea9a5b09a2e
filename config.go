// First-fit memory allocator for constrained environments
// https://github.com/usbarmory/memalloc
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package memalloc implements a dynamic memory allocator for constrained,
// bare-metal, or OS-supervised environments. It manages a fixed set of
// application-supplied contiguous byte regions and serves variable-sized
// requests with in-band metadata, using a free-list-based, first-fit
// strategy with neighbour coalescing on free and a three-way realloc
// (shrink in place, grow into an adjacent free neighbour, or
// allocate-copy-free).
//
// Multiple independent Instance values may coexist, each with its own
// regions and optional mutual-exclusion guard. A package-level default
// instance is provided for callers who only need one (see Assign, Malloc,
// Free and friends at package scope).
package memalloc

// Mutex is the capability set the allocator core depends on for optional
// per-instance guarding: Lock on entry to every guarded operation and
// Unlock on every exit path.
//
// The core never assumes a concrete primitive: any implementation that
// preserves acquire/release ordering is acceptable, and a non-recursive
// mutex is preferred since the core never re-enters its own lock.
type Mutex interface {
	Lock()
	Unlock()
}

// noMutex is the zero-cost Mutex used when a Config does not request
// os-mode guarding. Every method is a no-op.
type noMutex struct{}

func (noMutex) Lock()   {}
func (noMutex) Unlock() {}

// Config carries the build-time knobs the original C allocator this
// package is modeled on selects via preprocessor defines. In Go they are
// supplied once, at construction, and fixed for the instance's lifetime.
type Config struct {
	// Alignment is the configured alignment, in bytes. Must be a power of
	// two; 4 or 8 are typical. Zero selects the platform word size.
	Alignment uintptr

	// FullMode selects the full allocator (free list, split, coalesce,
	// realloc) when true. When false, the instance runs in grow-only
	// "simple" mode (see simple.go): a single region, bump-pointer
	// allocation, no free/realloc/size-query.
	FullMode bool

	// NewMutex, when non-nil, is called once during Assign to construct
	// the instance's guard; ok false fails the whole assignment, leaving
	// the instance unassembled. Leaving it nil means the instance is
	// unguarded and external synchronisation is the caller's
	// responsibility. Assigning it is the Go equivalent of enabling
	// os-mode at build time.
	NewMutex func() (m Mutex, ok bool)

	// CleanMemory, when true, zeroes a payload during Free/insert-free,
	// before any coalescing with neighbours.
	CleanMemory bool

	// EnableStats, when true, maintains the counters exposed by Stats.
	EnableStats bool
}

func (c Config) alignment() uintptr {
	if c.Alignment == 0 {
		return wordSize
	}
	return c.Alignment
}
