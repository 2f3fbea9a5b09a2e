// First-fit memory allocator for constrained environments
// https://github.com/usbarmory/memalloc
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package memalloc

import "unsafe"

// def is the package-level default instance, for callers who only need
// one allocator and prefer the package-scope form over carrying an
// *Instance around. It starts in full mode; call Configure before the
// first Assign to change that.
var def = New(Config{FullMode: true})

// Configure replaces the default instance's configuration. It must be
// called before the default instance's first Assign; it is a no-op once
// the default instance is assembled.
func Configure(cfg Config) {
	if def.assembled {
		return
	}
	def = New(cfg)
}

// Assign assigns regions to the default instance.
func Assign(regions []Region) (linked int, ok bool) { return def.Assign(regions) }

// Malloc allocates from the default instance.
func Malloc(size int) (unsafe.Pointer, bool) { return def.Malloc(size) }

// MallocIn allocates from the default instance, pinned to region h.
func MallocIn(h RegionHandle, size int) (unsafe.Pointer, bool) { return def.MallocIn(h, size) }

// Calloc allocates zero-initialised memory from the default instance.
func Calloc(nitems, size int) (unsafe.Pointer, bool) { return def.Calloc(nitems, size) }

// CallocIn allocates zero-initialised memory from the default instance,
// pinned to region h.
func CallocIn(h RegionHandle, nitems, size int) (unsafe.Pointer, bool) {
	return def.CallocIn(h, nitems, size)
}

// Realloc resizes a block previously obtained from the default instance.
func Realloc(ptr unsafe.Pointer, newSize int) (unsafe.Pointer, bool) {
	return def.Realloc(ptr, newSize)
}

// ReallocIn resizes a block previously obtained from the default
// instance, pinning the allocate-copy-free fallback to region h.
func ReallocIn(h RegionHandle, ptr unsafe.Pointer, newSize int) (unsafe.Pointer, bool) {
	return def.ReallocIn(h, ptr, newSize)
}

// ReallocSafe reallocates *ptr against the default instance.
func ReallocSafe(ptr *unsafe.Pointer, newSize int) bool { return def.ReallocSafe(ptr, newSize) }

// Free releases a block previously obtained from the default instance.
func Free(ptr unsafe.Pointer) { def.Free(ptr) }

// FreeSafe frees *ptr against the default instance and nulls it on
// success.
func FreeSafe(ptr *unsafe.Pointer) { def.FreeSafe(ptr) }

// GetSize returns the payload size of a block previously obtained from
// the default instance.
func GetSize(ptr unsafe.Pointer) (int, bool) { return def.GetSize(ptr) }

// Payload returns a byte slice view over a block previously obtained
// from the default instance.
func Payload(ptr unsafe.Pointer) []byte { return def.Payload(ptr) }

// ReadAt reads from a block previously obtained from the default instance.
func ReadAt(ptr unsafe.Pointer, off int, buf []byte) bool { return def.ReadAt(ptr, off, buf) }

// WriteAt writes into a block previously obtained from the default instance.
func WriteAt(ptr unsafe.Pointer, off int, buf []byte) bool { return def.WriteAt(ptr, off, buf) }

// GetStats returns the default instance's running counters.
func GetStats() (Stats, bool) { return def.GetStats() }

// Regions returns the default instance's linked regions.
func Regions() []Region { return def.Regions() }
