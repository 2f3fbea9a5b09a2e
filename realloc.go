// First-fit memory allocator for constrained environments
// https://github.com/usbarmory/memalloc
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package memalloc

import "unsafe"

// Realloc resizes the block identified by ptr to newSize bytes, trying
// each of the six resize strategies in turn. It returns the (possibly
// new) payload pointer and an ok flag; ok is false only when ptr is
// invalid or no strategy, including the allocate-copy-free fallback,
// could satisfy the request.
func (a *Instance) Realloc(ptr unsafe.Pointer, newSize int) (unsafe.Pointer, bool) {
	return a.realloc(ptr, newSize, nil)
}

// ReallocIn is Realloc restricted, for its allocate-copy-free fallback
// (Case F), to the region identified by h.
func (a *Instance) ReallocIn(h RegionHandle, ptr unsafe.Pointer, newSize int) (unsafe.Pointer, bool) {
	return a.realloc(ptr, newSize, &h)
}

// ReallocSafe reallocates *ptr and, on success, updates the caller's
// pointer variable in place; on failure *ptr is left untouched (the
// original block, if any, remains valid and owned by the caller).
func (a *Instance) ReallocSafe(ptr *unsafe.Pointer, newSize int) bool {
	if ptr == nil {
		return false
	}

	out, ok := a.realloc(*ptr, newSize, nil)
	if !ok {
		return false
	}

	*ptr = out
	return true
}

func (a *Instance) realloc(ptr unsafe.Pointer, newSize int, pin *RegionHandle) (unsafe.Pointer, bool) {
	if newSize == 0 {
		if ptr == nil {
			return nil, true
		}
		a.Free(ptr)
		return nil, true
	}

	if ptr == nil {
		return a.malloc(uintptr(newSize), pin)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.assembled || !a.cfg.FullMode {
		return nil, false
	}

	blk := blockFromPayload(uintptr(ptr), a.footprint)
	if !blk.inUse() {
		return nil, false
	}

	fs, ok := a.finalSize(uintptr(newSize))
	if !ok {
		return nil, false
	}

	blockSize := blk.size()

	if fs == blockSize {
		// Case A: identical size, no-op.
		return ptr, true
	}

	pprev, prev, succAddr := a.surrounding(uintptr(blk))

	if fs < blockSize {
		return a.reallocShrink(blk, fs, prev, succAddr), true
	}

	return a.reallocGrow(blk, blockSize, fs, pprev, prev, succAddr, pin)
}

// reallocShrink implements the shrink case: split the tail off as a new
// free block when it is large enough, otherwise extend an adjacent free
// successor, otherwise leave the block's size untouched.
func (a *Instance) reallocShrink(blk block, fs uintptr, prev block, succAddr uintptr) unsafe.Pointer {
	blockSize := blk.size()
	diff := blockSize - fs

	switch {
	case diff >= a.footprint:
		// splitIfTooBig reads blk's current (full) size itself, carves
		// off the diff-sized tail as a new free block, and credits
		// available; do not pre-shrink blk first, or the split sees
		// nothing left to carve and the tail bytes are lost.
		a.splitIfTooBig(blk, fs)

	case succAddr != 0 && uintptr(blk)+blockSize == succAddr && block(succAddr).size() > 0:
		succ := block(succAddr)
		succOldSize := succ.size()
		succOldNext := succ.next()

		newSuccAddr := uintptr(blk) + fs
		newSucc := block(newSuccAddr)
		newSucc.setSize(succOldSize + diff)
		newSucc.setAllocated(false)
		newSucc.setNext(succOldNext)

		prev.setNext(newSuccAddr)
		blk.setSize(fs)
		a.available += diff

	default:
		// leave blk.size untouched: the extra tail bytes are wasted
		// but not reclaimed, since neither a split nor a merge with a
		// free neighbour is possible.
	}

	blk.setAllocated(true)
	blk.setNext(allocMark)

	return rawPointer(blk.payload(a.footprint))
}

// reallocGrow implements the four growth strategies, tried in order:
// absorb the next-adjacent free block, absorb the prev-adjacent free
// block, absorb both, or fall back to allocate-copy-free.
func (a *Instance) reallocGrow(blk block, blockSize, fs uintptr, pprev, prev block, succAddr uintptr, pin *RegionHandle) (unsafe.Pointer, bool) {
	succAdjacent := succAddr != 0 && succAddr == uintptr(blk)+blockSize
	prevAdjacent := prev != a.sentinelBlock() && uintptr(prev)+prev.size() == uintptr(blk)

	// Case C: absorb the adjacent free successor.
	if succAdjacent {
		succ := block(succAddr)
		if blockSize+succ.size() >= fs {
			prev.setNext(succ.next())
			a.available -= succ.size()

			blk.setSize(blockSize + succ.size())
			a.splitIfTooBig(blk, fs)
			blk.setAllocated(true)
			blk.setNext(allocMark)
			a.noteGrowth()

			return rawPointer(blk.payload(a.footprint)), true
		}
	}

	// Case D: absorb the adjacent free predecessor.
	if prevAdjacent && prev.size()+blockSize >= fs {
		return a.growIntoPrev(blk, blockSize, fs, pprev, prev), true
	}

	// Case E: absorb both adjacent free neighbours.
	if prevAdjacent && succAdjacent {
		succ := block(succAddr)
		if prev.size()+blockSize+succ.size() >= fs {
			copyBytes(prev.payload(a.footprint), blk.payload(a.footprint), blockSize-a.footprint)

			pprev.setNext(succ.next())
			a.available -= prev.size() + succ.size()

			newBlk := prev
			newBlk.setSize(prev.size() + blockSize + succ.size())
			a.splitIfTooBig(newBlk, fs)
			newBlk.setAllocated(true)
			newBlk.setNext(allocMark)
			a.noteGrowth()

			return rawPointer(newBlk.payload(a.footprint)), true
		}
	}

	// Case F: no in-place strategy fits; allocate fresh, copy, free the
	// original.
	return a.reallocFallback(blk, blockSize, fs, pin)
}

func (a *Instance) growIntoPrev(blk block, blockSize, fs uintptr, pprev, prev block) unsafe.Pointer {
	copyBytes(prev.payload(a.footprint), blk.payload(a.footprint), blockSize-a.footprint)

	pprev.setNext(prev.next())
	a.available -= prev.size()

	newBlk := prev
	newBlk.setSize(prev.size() + blockSize)
	a.splitIfTooBig(newBlk, fs)
	newBlk.setAllocated(true)
	newBlk.setNext(allocMark)
	a.noteGrowth()

	return rawPointer(newBlk.payload(a.footprint))
}

// reallocFallback implements the allocate-copy-free fallback: allocate
// fresh (honouring pin), copy the smaller of the old and new payload
// sizes, and free the original block. The original block is left
// untouched on failure.
func (a *Instance) reallocFallback(blk block, blockSize, fs uintptr, pin *RegionHandle) (unsafe.Pointer, bool) {
	var region *normalized
	if pin != nil {
		r, ok := a.regionPin(*pin)
		if !ok {
			return nil, false
		}
		region = r
	}

	fresh, ok := a.takeFirstFit(fs, region)
	if !ok {
		return nil, false
	}

	a.available -= fresh.size()
	a.splitIfTooBig(fresh, fs)
	fresh.setAllocated(true)
	fresh.setNext(allocMark)

	if a.cfg.EnableStats {
		a.allocCount++
		if a.available < a.minAvailable {
			a.minAvailable = a.available
		}
	}

	oldPayload := blockSize - a.footprint
	newPayload := fs - a.footprint
	n := oldPayload
	if newPayload < n {
		n = newPayload
	}
	copyBytes(fresh.payload(a.footprint), blk.payload(a.footprint), n)

	blk.setAllocated(false)
	a.available += blockSize
	a.insertFree(blk)

	if a.cfg.EnableStats {
		a.freeCount++
	}

	return rawPointer(fresh.payload(a.footprint)), true
}

// noteGrowth updates the minimum-ever-available watermark after a
// realloc that grew a block in place (Cases C, D, E all shrink
// available, never grow it, so only the low-water check applies). The
// fallback (Case F) updates the watermark itself, as an allocation.
func (a *Instance) noteGrowth() {
	if a.cfg.EnableStats && a.available < a.minAvailable {
		a.minAvailable = a.available
	}
}
