// First-fit memory allocator for constrained environments
// https://github.com/usbarmory/memalloc
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package memalloc

import "unsafe"

// simpleMalloc implements the degenerate grow-only mode: a bare bump
// allocator over the instance's single region, with no header, no split,
// no free list. It is the only allocation path reachable when
// cfg.FullMode is false; Free, Realloc, and GetSize all refuse to operate
// on an instance assembled in this mode.
func (a *Instance) simpleMalloc(size uintptr) (unsafe.Pointer, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.assembled || a.cfg.FullMode {
		return nil, false
	}

	aligned := alignUp(size, a.cfg.alignment())
	if aligned < size || aligned > a.simpleAvailable {
		return nil, false
	}

	addr := a.simpleNext
	a.simpleNext += aligned
	a.simpleAvailable -= aligned

	if a.cfg.EnableStats {
		a.allocCount++
		if a.simpleAvailable < a.minAvailable {
			a.minAvailable = a.simpleAvailable
		}
	}

	return rawPointer(addr), true
}
