// First-fit memory allocator for constrained environments
// https://github.com/usbarmory/memalloc
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package memalloc

// insertFree links blk back into the free list in ascending-address
// order, coalescing with its physical neighbours. It does not touch the
// available-bytes counter: the caller credits blk's full size exactly
// once, and coalescing never changes the sum of free bytes.
func (a *Instance) insertFree(blk block) {
	prev := a.sentinelBlock()

	for {
		next := prev.next()
		if next == 0 || next >= uintptr(blk) {
			break
		}
		prev = block(next)
	}

	if a.cfg.CleanMemory {
		zeroBytes(blk.payload(a.footprint), blk.size()-a.footprint)
	}

	working := blk

	// merge with the physically-preceding free block, if adjacent.
	if uintptr(prev)+prev.size() == uintptr(blk) {
		prev.setSize(prev.size() + blk.size())
		working = prev
	}

	succAddr := prev.next()

	// merge with the physically-following free block, if adjacent and
	// not an end marker; otherwise simply link to whatever follows
	// (a free block, an end marker, or nothing).
	if succAddr != 0 {
		succ := block(succAddr)
		if succ.size() > 0 && uintptr(working)+working.size() == succAddr {
			working.setSize(working.size() + succ.size())
			working.setNext(succ.next())
		} else {
			working.setNext(succAddr)
		}
	} else {
		working.setNext(0)
	}

	if working != prev {
		prev.setNext(uintptr(working))
	}
}

// splitIfTooBig trims blk down to targetSize and reinserts the leftover
// as a new free block, when the leftover is large enough to host a block
// header of its own. blk's alloc bit is preserved across the split.
func (a *Instance) splitIfTooBig(blk block, targetSize uintptr) {
	leftover := blk.size() - targetSize

	if leftover < a.footprint {
		return
	}

	newBlk := block(uintptr(blk) + targetSize)
	newBlk.setSize(leftover)
	newBlk.setAllocated(false)
	newBlk.setNext(0)

	blk.setSize(targetSize)

	a.available += leftover
	a.insertFree(newBlk)
}

// takeFirstFit searches the free list, starting from the sentinel, for
// the first block with at least targetSize capacity and unlinks it in
// the same traversal. When pin is non-nil, the search additionally skips
// blocks below pin.base and fails as soon as it passes pin.end()
// (region-pinned allocation).
func (a *Instance) takeFirstFit(targetSize uintptr, pin *normalized) (block, bool) {
	prev := a.sentinelBlock()

	for {
		next := prev.next()
		if next == 0 {
			return 0, false
		}
		if pin != nil && next >= pin.end() {
			return 0, false
		}

		b := block(next)
		eligible := pin == nil || next >= pin.base

		if eligible && b.size() >= targetSize {
			prev.setNext(b.next())
			return b, true
		}

		prev = b
	}
}

// surrounding locates, for a given address (an allocated block about to
// be resized), the free-list context realloc needs: pprev is the node
// whose next field points at prev ("pprev" itself may be the sentinel),
// prev is the last free block strictly below addr (or the sentinel if
// none), and succAddr is prev's next field, i.e. the first free entry
// strictly above addr: a free block, an end marker, or (impossibly, for
// any address inside an assembled region) null.
func (a *Instance) surrounding(addr uintptr) (pprev, prev block, succAddr uintptr) {
	pprev = a.sentinelBlock()
	prev = a.sentinelBlock()

	for {
		next := prev.next()
		if next == 0 || next >= addr {
			break
		}
		pprev = prev
		prev = block(next)
	}

	return pprev, prev, prev.next()
}

// unlinkFree removes blk from the free list by walking it from the
// sentinel; if blk is not reachable on the list, nothing changes.
// realloc's grow cases do not use it: they unlink an absorbed neighbour
// directly through the predecessor found by surrounding.
func (a *Instance) unlinkFree(blk block) {
	prev := a.sentinelBlock()

	for {
		next := prev.next()
		if next == uintptr(blk) {
			prev.setNext(blk.next())
			return
		}
		if next == 0 {
			return
		}
		prev = block(next)
	}
}
