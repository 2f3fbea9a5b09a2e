// First-fit memory allocator for constrained environments
// https://github.com/usbarmory/memalloc
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package memalloc

import (
	"testing"
	"unsafe"
)

// keepAliveRegions retains every slice ever handed to backing() for the
// remaining lifetime of the test binary. Once a Region's Base is reduced
// to a bare uintptr, nothing else roots the backing slice for the
// garbage collector (Region.Base deliberately is not a Go pointer, so
// that Instance can treat it exactly like a bare-metal address) -
// without this, a GC cycle triggered by a later test's allocations could
// reclaim an in-use region's backing store out from under it.
var keepAliveRegions [][]byte

// backing allocates a Go-heap byte slice to stand in for a caller-owned
// region and returns it as a Region.
func backing(buf []byte) Region {
	keepAliveRegions = append(keepAliveRegions, buf)

	return Region{
		Base: uintptr(unsafe.Pointer(&buf[0])),
		Size: uintptr(len(buf)),
	}
}

// assertFreeListInvariants checks the allocator's structural invariants
// against a's current state: the free list is address-ascending, no two
// free blocks are physically adjacent, every allocated block carries the
// allocated mark, available-bytes equals the sum of reachable free
// sizes, and available plus allocated sums to the per-region total
// established at Assign. It only applies to full-mode instances.
func assertFreeListInvariants(t *testing.T, a *Instance) {
	t.Helper()

	if !a.cfg.FullMode {
		return
	}

	// free list strictly address-ascending; sum of reachable free sizes
	// (excluding end markers) must equal available.
	var sum uintptr
	prevAddr := uintptr(0)
	seenFirst := false

	cur := a.sentinelBlock().next()
	for cur != 0 {
		b := block(cur)
		if seenFirst && cur <= prevAddr {
			t.Fatalf("free list not strictly ascending: %#x after %#x", cur, prevAddr)
		}
		seenFirst = true
		prevAddr = cur

		if b.size() > 0 {
			if b.allocated() {
				t.Fatalf("free-list block at %#x has its alloc bit set", cur)
			}
			sum += b.size()
		}

		cur = b.next()
	}

	if sum != a.available {
		t.Fatalf("accounting violated: sum of free sizes = %d, available = %d", sum, a.available)
	}

	// walk every region physically, block by block.
	var allocatedSum uintptr
	var regionTotal uintptr

	for _, n := range a.regions {
		addr := n.base
		end := n.end() - a.footprint // end marker address
		regionTotal += n.size - a.footprint

		prevWasFree := false
		for addr < end {
			b := block(addr)
			sz := b.size()
			if sz == 0 {
				t.Fatalf("zero-size block encountered mid-region at %#x", addr)
			}

			if b.allocated() {
				if b.next() != allocMark {
					t.Fatalf("allocated block at %#x has next %#x, want allocMark", addr, b.next())
				}
				allocatedSum += sz
				prevWasFree = false
			} else {
				if prevWasFree {
					t.Fatalf("two adjacent free blocks meeting at %#x, want coalesced", addr)
				}
				prevWasFree = true
			}

			addr += sz
		}

		if addr != end {
			t.Fatalf("region blocks do not partition exactly: ended at %#x, want %#x", addr, end)
		}
	}

	if allocatedSum+a.available != regionTotal {
		t.Fatalf("allocated (%d) + available (%d) != region total (%d)", allocatedSum, a.available, regionTotal)
	}
}
