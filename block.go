// First-fit memory allocator for constrained environments
// https://github.com/usbarmory/memalloc
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package memalloc

import (
	"unsafe"

	"github.com/usbarmory/memalloc/bits"
)

// wordSize is the machine word size, matching the "word-sized fields"
// the in-band block header is built from.
const wordSize = unsafe.Sizeof(uintptr(0))

// wordBits is the bit width of a word, used to locate the alloc bit at
// the most-significant bit of the size field.
const wordBits = int(wordSize) * 8

// allocBitPos is the position of the alloc bit within the size field.
const allocBitPos = wordBits - 1

// allocMark is the sentinel written into an allocated block's next field.
// It is chosen as all-ones: no real region offset can ever equal it,
// since every region is strictly smaller than the address space.
const allocMark = ^uintptr(0)

// block is a handle to an in-band block header: its own address. All
// metadata lives at that address in the region's backing memory, not in
// this Go value, the same way tamago's dma package treats a raw DMA
// address as the identity of a buffer.
type block uintptr

// rawPointer reconstructs an unsafe.Pointer to an arbitrary address,
// mirroring the read/write idiom of tamago's dma/block.go: start from a
// nil unsafe.Pointer and use unsafe.Add to reach an absolute address that
// does not originate from a Go allocation.
func rawPointer(addr uintptr) unsafe.Pointer {
	var p unsafe.Pointer
	return unsafe.Add(p, addr)
}

func readWord(addr uintptr) uintptr {
	return *(*uintptr)(rawPointer(addr))
}

func writeWord(addr uintptr, v uintptr) {
	*(*uintptr)(rawPointer(addr)) = v
}

func wordPtr(addr uintptr) *uintptr {
	return (*uintptr)(rawPointer(addr))
}

// next returns the block's free-list successor address, or allocMark if
// the block is in use.
func (b block) next() uintptr {
	return readWord(uintptr(b))
}

func (b block) setNext(n uintptr) {
	writeWord(uintptr(b), n)
}

// rawSize returns the size field including the alloc bit.
func (b block) rawSize() uintptr {
	return readWord(uintptr(b) + wordSize)
}

func (b block) sizePtr() *uintptr {
	return wordPtr(uintptr(b) + wordSize)
}

// size returns the block length (metadata included) with the alloc bit
// masked off.
func (b block) size() uintptr {
	return b.rawSize() &^ (uintptr(1) << allocBitPos)
}

// setSize overwrites the block length, preserving the current alloc bit.
func (b block) setSize(sz uintptr) {
	alloc := bits.Get(b.sizePtr(), allocBitPos)
	writeWord(uintptr(b)+wordSize, sz)
	bits.SetTo(b.sizePtr(), allocBitPos, alloc)
}

// allocated reports whether the alloc bit is set.
func (b block) allocated() bool {
	return bits.Get(b.sizePtr(), allocBitPos)
}

func (b block) setAllocated(v bool) {
	bits.SetTo(b.sizePtr(), allocBitPos, v)
}

// inUse is the free/realloc validation predicate: a pointer identifies a
// live allocated block iff the alloc bit is set AND next equals the
// allocated mark.
func (b block) inUse() bool {
	return b.allocated() && b.next() == allocMark
}

// payload returns the address of the user-visible bytes, M past the
// header.
func (b block) payload(footprint uintptr) uintptr {
	return uintptr(b) + footprint
}

// blockFromPayload derives a block handle from a payload address.
func blockFromPayload(p uintptr, footprint uintptr) block {
	return block(p - footprint)
}

// zeroBytes clears n bytes starting at addr. Used for clean-memory payload
// zeroing and for zero-initialising variants.
func zeroBytes(addr uintptr, n uintptr) {
	if n == 0 {
		return
	}
	mem := unsafe.Slice((*byte)(rawPointer(addr)), int(n))
	for i := range mem {
		mem[i] = 0
	}
}

// copyBytes copies n bytes from src to dst, tolerating overlap exactly
// like memmove (used by realloc Cases D/E, where the destination is
// always at a lower address than the source).
func copyBytes(dst, src uintptr, n uintptr) {
	if n == 0 {
		return
	}

	dstMem := unsafe.Slice((*byte)(rawPointer(dst)), int(n))
	srcMem := unsafe.Slice((*byte)(rawPointer(src)), int(n))

	if dst < src {
		for i := 0; i < int(n); i++ {
			dstMem[i] = srcMem[i]
		}
	} else if dst > src {
		for i := int(n) - 1; i >= 0; i-- {
			dstMem[i] = srcMem[i]
		}
	}
}
