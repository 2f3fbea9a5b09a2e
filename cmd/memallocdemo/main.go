// First-fit memory allocator for constrained environments
// https://github.com/usbarmory/memalloc
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Command memallocdemo exercises a memalloc.Instance against a host-mmap
// region, printing a handful of allocation, realloc, and free outcomes
// along with the running stats. It is a smoke test for the library, not
// a benchmark.
package main

import (
	"log"

	"github.com/usbarmory/memalloc"
	"github.com/usbarmory/memalloc/hostregion"
)

func main() {
	log.SetFlags(0)

	region, release, ok := hostregion.Reserve(1 << 20)
	if !ok {
		log.Fatalf("memallocdemo: failed to reserve backing memory")
	}
	defer release()

	a := memalloc.New(memalloc.Config{
		FullMode:    true,
		CleanMemory: true,
		EnableStats: true,
	})

	if linked, ok := a.Assign([]memalloc.Region{region}); !ok {
		log.Fatalf("memallocdemo: Assign failed")
	} else {
		log.Printf("assigned %d region(s)", linked)
	}

	p1, ok := a.Malloc(128)
	if !ok {
		log.Fatalf("memallocdemo: Malloc(128) failed")
	}
	log.Printf("allocated 128 bytes at %p", p1)

	p2, ok := a.Calloc(16, 64)
	if !ok {
		log.Fatalf("memallocdemo: Calloc(16, 64) failed")
	}
	log.Printf("allocated 1024 zeroed bytes at %p", p2)

	if grown, ok := a.Realloc(p1, 512); ok {
		p1 = grown
		log.Printf("grew first block to 512 bytes at %p", p1)
	} else {
		log.Printf("realloc to 512 bytes failed")
	}

	a.Free(p2)

	if st, ok := a.GetStats(); ok {
		log.Printf("stats: total=%d available=%d min_available=%d allocs=%d frees=%d",
			st.TotalBytes, st.Available, st.MinAvailable, st.AllocCount, st.FreeCount)
	}

	a.Free(p1)
}
