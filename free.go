// First-fit memory allocator for constrained environments
// https://github.com/usbarmory/memalloc
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package memalloc

import "unsafe"

// blockOf validates ptr as identifying a live allocated block and
// returns its block handle. It never mutates state.
func (a *Instance) blockOf(ptr unsafe.Pointer) (block, bool) {
	if ptr == nil || !a.assembled || !a.cfg.FullMode {
		return 0, false
	}

	blk := blockFromPayload(uintptr(ptr), a.footprint)
	if !blk.inUse() {
		return 0, false
	}

	return blk, true
}

// Free releases the block identified by ptr. An invalid pointer,
// including nil, is a silent no-op.
func (a *Instance) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	blk, ok := a.blockOf(ptr)
	if !ok {
		return
	}

	blk.setAllocated(false)
	a.available += blk.size()
	a.insertFree(blk)

	if a.cfg.EnableStats {
		a.freeCount++
	}
}

// FreeSafe frees *ptr and, on success, nulls the caller's pointer
// variable.
func (a *Instance) FreeSafe(ptr *unsafe.Pointer) {
	if ptr == nil {
		return
	}

	p := *ptr
	if p == nil {
		return
	}

	a.mu.Lock()
	blk, ok := a.blockOf(p)
	if !ok {
		a.mu.Unlock()
		return
	}

	blk.setAllocated(false)
	a.available += blk.size()
	a.insertFree(blk)

	if a.cfg.EnableStats {
		a.freeCount++
	}
	a.mu.Unlock()

	*ptr = nil
}

// GetSize returns the payload size in bytes of the block identified by
// ptr, or (0, false) if ptr does not identify a live allocated block.
func (a *Instance) GetSize(ptr unsafe.Pointer) (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	blk, ok := a.blockOf(ptr)
	if !ok {
		return 0, false
	}

	return int(blk.size() - a.footprint), true
}

// Payload returns a byte slice view over the payload of the block
// identified by ptr, or nil if ptr is not a live allocated block. It
// performs the same validation as Free and allocates nothing.
func (a *Instance) Payload(ptr unsafe.Pointer) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	blk, ok := a.blockOf(ptr)
	if !ok {
		return nil
	}

	return unsafe.Slice((*byte)(ptr), int(blk.size()-a.footprint))
}

// ReadAt copies len(buf) bytes from offset off within the block identified
// by ptr into buf, bounds-checking against the block's live payload size.
// ok is false if ptr is not a live allocated block or the requested range
// exceeds the payload.
func (a *Instance) ReadAt(ptr unsafe.Pointer, off int, buf []byte) (ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	blk, valid := a.blockOf(ptr)
	if !valid {
		return false
	}

	payloadSize := int(blk.size() - a.footprint)
	if off < 0 || off+len(buf) > payloadSize {
		return false
	}

	mem := unsafe.Slice((*byte)(ptr), payloadSize)
	copy(buf, mem[off:])

	return true
}

// WriteAt copies buf into the block identified by ptr starting at offset
// off, bounds-checking against the block's live payload size.
func (a *Instance) WriteAt(ptr unsafe.Pointer, off int, buf []byte) (ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	blk, valid := a.blockOf(ptr)
	if !valid {
		return false
	}

	payloadSize := int(blk.size() - a.footprint)
	if off < 0 || off+len(buf) > payloadSize {
		return false
	}

	mem := unsafe.Slice((*byte)(ptr), payloadSize)
	copy(mem[off:], buf)

	return true
}
