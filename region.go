// First-fit memory allocator for constrained environments
// https://github.com/usbarmory/memalloc
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package memalloc

// Region describes an application-supplied contiguous byte extent handed
// to Assign. Base is the address of the first byte (obtained, for a
// Go-backed region, via uintptr(unsafe.Pointer(&buf[0]))); the caller is
// responsible for keeping the backing memory alive for at least as long
// as the instance that owns it (see package hostregion for a host-side
// mmap-backed provider).
type Region struct {
	Base uintptr
	Size uintptr
}

// End returns the exclusive upper bound of the raw (unnormalised) region.
func (r Region) End() uintptr {
	return r.Base + r.Size
}

// normalized is a Region after alignment normalisation: base advanced up
// to the next multiple of the configured alignment, size reduced by the
// advance and then rounded down to a multiple of the alignment.
type normalized struct {
	base uintptr
	size uintptr
}

func (n normalized) end() uintptr {
	return n.base + n.size
}

// alignUp rounds v up to the next multiple of align, which must be a
// power of two.
func alignUp(v, align uintptr) uintptr {
	return (v + align - 1) &^ (align - 1)
}

// alignDown rounds v down to a multiple of align, which must be a power
// of two.
func alignDown(v, align uintptr) uintptr {
	return v &^ (align - 1)
}

// isPowerOfTwo reports whether v is a nonzero power of two.
func isPowerOfTwo(v uintptr) bool {
	return v != 0 && v&(v-1) == 0
}

// normalize applies the configured alignment to a raw region: base is
// advanced up to the next multiple of alignment and size is reduced by
// the advance, then rounded down to a multiple of alignment. ok is false
// only if the advance would have consumed more than the whole region.
func normalize(r Region, alignment uintptr) (n normalized, ok bool) {
	base := alignUp(r.Base, alignment)

	advance := base - r.Base
	if advance > r.Size {
		return normalized{}, false
	}

	size := alignDown(r.Size-advance, alignment)

	return normalized{base: base, size: size}, true
}

// usableFull reports whether a normalized region is large enough to host
// a full-mode first block plus its end marker: usable iff the normalised
// size is at least twice the metadata footprint.
func usableFull(n normalized, footprint uintptr) bool {
	return n.size >= 2*footprint
}
