// First-fit memory allocator for constrained environments
// https://github.com/usbarmory/memalloc
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package memalloc

import "unsafe"

// Instance is an independent allocator: its own free list, regions,
// counters, and optional mutex. The zero value is not ready for use;
// construct with New.
type Instance struct {
	mu  Mutex
	cfg Config

	footprint uintptr // M, the metadata footprint

	// sentinel is the instance-resident start block of the free list:
	// size 0, next pointing to the first free block across all regions,
	// or to a region end marker if none is free. Its two words are laid
	// out exactly like an in-region block header so the free-list code
	// can address it through the same block type with no null
	// special-case for the first element.
	sentinel [2]uintptr

	regions []normalized

	available uintptr
	assembled bool

	// simple (grow-only) mode state; unused when cfg.FullMode is true.
	simpleAvailable uintptr
	simpleNext      uintptr

	// statistics, maintained only when cfg.EnableStats is true.
	totalBytes   uintptr
	minAvailable uintptr
	allocCount   uint64
	freeCount    uint64
}

// RegionHandle identifies one of the regions linked by Assign, in the
// order they were supplied, for use as a region pin on Malloc/Calloc/
// Realloc.
type RegionHandle int

// New constructs an unassembled Instance with the given configuration.
func New(cfg Config) *Instance {
	a := &Instance{
		cfg: cfg,
		mu:  noMutex{},
	}
	a.footprint = alignUp(2*wordSize, cfg.alignment())
	return a
}

func (a *Instance) sentinelBlock() block {
	return block(uintptr(unsafe.Pointer(&a.sentinel[0])))
}

// Assign validates and links the supplied regions into the instance.
// It is not mutex-guarded (the mutex does not exist until
// assembly succeeds) and must be called before any concurrent use. It
// returns the number of regions linked; 0 means assignment failed and
// the instance remains unassembled.
func (a *Instance) Assign(regions []Region) (linked int, ok bool) {
	if a.assembled {
		return 0, false
	}

	if len(regions) == 0 {
		return 0, false
	}

	if !a.cfg.FullMode && len(regions) > 1 {
		return 0, false
	}

	for i := 1; i < len(regions); i++ {
		if regions[i].Base < regions[i-1].End() {
			return 0, false
		}
	}

	alignment := a.cfg.alignment()
	if !isPowerOfTwo(alignment) {
		return 0, false
	}

	if a.cfg.FullMode {
		return a.assignFull(regions, alignment)
	}

	return a.assignSimple(regions[0], alignment)
}

func (a *Instance) assignFull(regions []Region, alignment uintptr) (linked int, ok bool) {
	usable := make([]normalized, 0, len(regions))

	for _, r := range regions {
		n, ok := normalize(r, alignment)
		if !ok || !usableFull(n, a.footprint) {
			continue
		}
		usable = append(usable, n)
	}

	if len(usable) == 0 {
		return 0, false
	}

	var mu Mutex = noMutex{}
	if a.cfg.NewMutex != nil {
		m, created := a.cfg.NewMutex()
		if !created {
			return 0, false
		}
		mu = m
	}

	var available uintptr
	var prevEndMarker block

	for i, n := range usable {
		first := block(n.base)
		endMarker := block(n.end() - a.footprint)

		firstSize := n.size - a.footprint
		first.setSize(firstSize)
		first.setAllocated(false)
		first.setNext(uintptr(endMarker))

		endMarker.setSize(0)
		endMarker.setAllocated(false)
		endMarker.setNext(0)

		if i == 0 {
			a.sentinelBlock().setNext(uintptr(first))
		} else {
			prevEndMarker.setNext(uintptr(first))
		}

		prevEndMarker = endMarker
		available += firstSize
	}

	a.regions = usable
	a.available = available
	a.totalBytes = available
	a.minAvailable = available
	a.mu = mu
	a.assembled = true

	return len(usable), true
}

func (a *Instance) assignSimple(r Region, alignment uintptr) (linked int, ok bool) {
	n, ok := normalize(r, alignment)
	if !ok || n.size == 0 {
		return 0, false
	}

	var mu Mutex = noMutex{}
	if a.cfg.NewMutex != nil {
		m, created := a.cfg.NewMutex()
		if !created {
			return 0, false
		}
		mu = m
	}

	a.regions = []normalized{n}
	a.simpleAvailable = n.size
	a.simpleNext = n.base
	a.totalBytes = n.size
	a.minAvailable = n.size
	a.mu = mu
	a.assembled = true

	return 1, true
}

// Regions returns the normalized extents linked by Assign, in link
// order; index i corresponds to RegionHandle(i).
func (a *Instance) Regions() []Region {
	out := make([]Region, len(a.regions))
	for i, n := range a.regions {
		out[i] = Region{Base: n.base, Size: n.size}
	}
	return out
}
