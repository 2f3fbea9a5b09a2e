// First-fit memory allocator for constrained environments
// https://github.com/usbarmory/memalloc
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package hostregion

import (
	"testing"

	"github.com/usbarmory/memalloc"
)

func TestReserveRelease(t *testing.T) {
	r, release, ok := Reserve(64 * 1024)
	if !ok {
		t.Fatal("Reserve failed")
	}
	if r.Base == 0 {
		t.Fatal("zero base address")
	}
	if r.Size < 64*1024 {
		t.Fatalf("got size %d, want at least %d", r.Size, 64*1024)
	}

	a := memalloc.New(memalloc.Config{FullMode: true})
	if linked, ok := a.Assign([]memalloc.Region{r}); !ok || linked != 1 {
		t.Fatalf("Assign(%v) = %d, %v", r, linked, ok)
	}

	ptr, ok := a.Malloc(256)
	if !ok || ptr == nil {
		t.Fatal("Malloc failed against an mmap-backed region")
	}
	a.Free(ptr)

	if err := release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := release(); err != nil {
		t.Fatalf("second release must be a no-op, got: %v", err)
	}
}

func TestReserveInvalidSize(t *testing.T) {
	if _, _, ok := Reserve(0); ok {
		t.Fatal("Reserve(0) should fail")
	}
	if _, _, ok := Reserve(-1); ok {
		t.Fatal("Reserve(-1) should fail")
	}
}
