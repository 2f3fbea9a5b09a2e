// https://github.com/usbarmory/tamago
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package bits

import "testing"

func TestGetSet32(t *testing.T) {
	var v uint32

	Set(&v, 31)

	if !Get(&v, 31) {
		t.Fatalf("expected bit 31 set, got %#x", v)
	}

	if Get(&v, 0) {
		t.Fatalf("expected bit 0 clear, got %#x", v)
	}

	Clear(&v, 31)

	if Get(&v, 31) {
		t.Fatalf("expected bit 31 clear after Clear, got %#x", v)
	}
}

func TestSetToUintptr(t *testing.T) {
	var v uintptr

	SetTo(&v, 63, true)

	if v == 0 {
		t.Fatalf("SetTo(true) left value unchanged")
	}

	SetTo(&v, 63, false)

	if v != 0 {
		t.Fatalf("SetTo(false) did not clear, got %#x", v)
	}
}

func TestGetNSetN(t *testing.T) {
	var v uint32

	SetN(&v, 4, 0xf, 0xa)

	if got := GetN(&v, 4, 0xf); got != 0xa {
		t.Fatalf("GetN() = %#x, want %#x", got, 0xa)
	}

	// bits outside the field must be untouched
	Set(&v, 0)

	if got := GetN(&v, 4, 0xf); got != 0xa {
		t.Fatalf("GetN() after unrelated Set = %#x, want %#x", got, 0xa)
	}
}
