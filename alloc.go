// First-fit memory allocator for constrained environments
// https://github.com/usbarmory/memalloc
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package memalloc

import "unsafe"

// allocBitValue is the alloc bit isolated as a mask, used to detect a
// requested size that would alias it.
const allocBitValue = uintptr(1) << allocBitPos

// finalSize computes the final block size, align_up(userSize) plus the
// metadata footprint, rejecting zero, overflow, and sizes that would
// alias the alloc bit.
func (a *Instance) finalSize(userSize uintptr) (uintptr, bool) {
	if userSize == 0 {
		return 0, false
	}

	aligned := alignUp(userSize, a.cfg.alignment())
	if aligned < userSize {
		return 0, false
	}

	fs := aligned + a.footprint
	if fs < aligned {
		return 0, false
	}

	if fs&allocBitValue != 0 {
		return 0, false
	}

	return fs, true
}

func (a *Instance) regionPin(h RegionHandle) (*normalized, bool) {
	if int(h) < 0 || int(h) >= len(a.regions) {
		return nil, false
	}
	return &a.regions[h], true
}

// Malloc allocates size bytes from anywhere across the instance's
// regions and returns the payload pointer, or (nil, false) on failure.
func (a *Instance) Malloc(size int) (unsafe.Pointer, bool) {
	if size <= 0 {
		return nil, false
	}
	if !a.cfg.FullMode {
		return a.simpleMalloc(uintptr(size))
	}
	return a.malloc(uintptr(size), nil)
}

// MallocIn is Malloc restricted to the region identified by h
// (region-pinned allocation). Region pinning is a full-mode-only
// concept: it fails immediately in simple mode, which has exactly one
// region.
func (a *Instance) MallocIn(h RegionHandle, size int) (unsafe.Pointer, bool) {
	if size <= 0 || !a.cfg.FullMode {
		return nil, false
	}
	return a.malloc(uintptr(size), &h)
}

func (a *Instance) malloc(size uintptr, pin *RegionHandle) (unsafe.Pointer, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.assembled || !a.cfg.FullMode {
		return nil, false
	}

	fs, ok := a.finalSize(size)
	if !ok {
		return nil, false
	}

	var region *normalized
	if pin != nil {
		region, ok = a.regionPin(*pin)
		if !ok {
			return nil, false
		}
	}

	blk, ok := a.takeFirstFit(fs, region)
	if !ok {
		return nil, false
	}

	a.available -= blk.size()
	a.splitIfTooBig(blk, fs)
	blk.setAllocated(true)
	blk.setNext(allocMark)

	if a.cfg.EnableStats {
		a.allocCount++
		if a.available < a.minAvailable {
			a.minAvailable = a.available
		}
	}

	return rawPointer(blk.payload(a.footprint)), true
}

// Calloc allocates space for nitems elements of size bytes each,
// zero-initialised, detecting multiplication overflow.
func (a *Instance) Calloc(nitems, size int) (unsafe.Pointer, bool) {
	return a.calloc(nitems, size, nil)
}

// CallocIn is Calloc restricted to the region identified by h.
func (a *Instance) CallocIn(h RegionHandle, nitems, size int) (unsafe.Pointer, bool) {
	return a.calloc(nitems, size, &h)
}

func (a *Instance) calloc(nitems, size int, pin *RegionHandle) (unsafe.Pointer, bool) {
	if nitems <= 0 || size <= 0 {
		return nil, false
	}

	total := uintptr(nitems) * uintptr(size)
	if total/uintptr(size) != uintptr(nitems) {
		// multiplication overflowed uintptr
		return nil, false
	}

	var ptr unsafe.Pointer
	var ok bool

	if !a.cfg.FullMode {
		if pin != nil {
			return nil, false
		}
		ptr, ok = a.simpleMalloc(total)
	} else {
		ptr, ok = a.malloc(total, pin)
	}
	if !ok {
		return nil, false
	}

	zeroBytes(uintptr(ptr), total)

	return ptr, true
}
