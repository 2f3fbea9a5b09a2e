// First-fit memory allocator for constrained environments
// https://github.com/usbarmory/memalloc
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package hostregion supplies memalloc.Region values backed by anonymous
// mmap mappings on a host OS, for development and testing away from the
// bare-metal/tamago targets memalloc's regions are ultimately destined
// for (where a region instead comes from a board's goos.RamStart/
// goos.RamSize). The mapping is pinned in place for as long as the
// region is in use: nothing in this package moves or resizes it, which
// is exactly what memalloc's in-band metadata requires of its backing
// storage.
package hostregion

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/usbarmory/memalloc"
)

// Reserve mmaps an anonymous, zero-filled region of at least size bytes
// and returns it as a memalloc.Region together with a release function.
// The caller must call release exactly once, after the region is no
// longer in use by any Instance.
func Reserve(size int) (memalloc.Region, func() error, bool) {
	if size <= 0 {
		return memalloc.Region{}, nil, false
	}

	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return memalloc.Region{}, nil, false
	}

	r := memalloc.Region{
		Base: uintptr(unsafe.Pointer(&b[0])),
		Size: uintptr(len(b)),
	}

	released := false
	release := func() error {
		if released {
			return nil
		}
		released = true
		return unix.Munmap(b)
	}

	return r, release, true
}
