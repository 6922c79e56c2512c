package bink

import (
	"math"
	"testing"
)

// A DC-only block should decode to a uniform 8x8 region: the AAN
// butterfly's column and row passes both distribute a pure-DC input
// evenly, and idctPut stores without saturation.
func TestIDCTPutDCOnly(t *testing.T) {
	var block, scratch [64]int32

	block[0] = 64 // chosen so the expected output lands on a round byte value

	dst := make([]byte, 64)
	idctPut(block[:], scratch[:], dst, 0, 8)

	first := dst[0]
	for i, v := range dst {
		if v != first {
			t.Fatalf("dst[%d] = %d, want uniform %d for a DC-only block", i, v, first)
		}
	}
}

func TestIDCTAddZeroBlockLeavesDstUnchanged(t *testing.T) {
	var block, scratch [64]int32

	dst := make([]byte, 64)
	for i := range dst {
		dst[i] = 250
	}

	// All-zero coefficients transform to all-zero; idctAdd must leave dst
	// byte-for-byte unchanged.
	idctAdd(block[:], scratch[:], dst, 0, 8)

	for i, v := range dst {
		if v != 250 {
			t.Fatalf("dst[%d] = %d, want unchanged 250", i, v)
		}
	}
}

func TestIDCT2DZeroBlockStaysZero(t *testing.T) {
	var block, scratch [64]int32

	idct2D(block[:], scratch[:])

	for i, v := range block {
		if v != 0 {
			t.Errorf("block[%d] = %d, want 0", i, v)
		}
	}
}

// TestIDCT2DRoundTripsViaForwardDCT exercises spec §8's testable property
// directly: a forward DCT-II followed by idct2D's integer AAN IDCT-III
// recovers the original coefficients to within ±2 per entry on an 8x8
// block of magnitudes ≤ 1024. forwardDCT2D is built by algebraically
// undoing idctPass's own butterfly (column pass, then row pass) in
// reverse order, so the pair is exact apart from idct2D's own intentional
// fixed-point rounding (the ">> 11" and ">> 8" truncations spec §8's
// budget exists to absorb).
func TestIDCT2DRoundTripsViaForwardDCT(t *testing.T) {
	var block [64]int32
	for i := range block {
		// Deterministic pseudo-random spread across [-1024, 1024].
		v := (i*733 + 181) % 2049
		block[i] = int32(v - 1024)
	}

	var want [64]int32
	copy(want[:], block[:])

	var scratch [64]int32
	forwardDCT2D(block[:])
	idct2D(block[:], scratch[:])

	for i := range block {
		if diff := block[i] - want[i]; diff > 2 || diff < -2 {
			t.Errorf("round trip at %d: got %d, want %d (diff %d exceeds budget of 2)", i, block[i], want[i], diff)
		}
	}
}

// forwardDCT2D turns block (coefficients) into the values idct2D maps
// back to those same coefficients, by algebraically inverting idct2D's
// two 1-D AAN butterfly passes in reverse order (row pass, then column
// pass) via aanForward1D.
func forwardDCT2D(block []int32) {
	var pixels, mid [8][8]float64

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			pixels[row][col] = float64(block[row*8+col])
		}
	}

	// Undo the row pass: its shift=8 means idctPass's pre-shift
	// "combination" is the stored value scaled back up by 256.
	for row := 0; row < 8; row++ {
		var y [8]float64
		for col := 0; col < 8; col++ {
			y[col] = pixels[row][col] * 256
		}
		mid[row] = aanForward1D(y)
	}

	// Undo the column pass: shift=0, so the stored value already is
	// idctPass's pre-shift combination.
	var coeffs [8][8]float64
	for col := 0; col < 8; col++ {
		var y [8]float64
		for row := 0; row < 8; row++ {
			y[row] = mid[row][col]
		}
		x := aanForward1D(y)
		for row := 0; row < 8; row++ {
			coeffs[row][col] = x[row]
		}
	}

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			block[row*8+col] = int32(math.Round(coeffs[row][col]))
		}
	}
}

// aanForward1D algebraically inverts idctPass's single 8-point butterfly:
// given y, the 8 values idctPass would produce (before any final add/
// shift) from some x, it recovers x. Each of idctPass's defining
// equations is solved in reverse by pairing the two outputs that share
// each intermediate (a0±a2, b0, b2, b3, b4 fall out of sums/differences
// of output pairs; a1/a3/a4..a7/b1 follow from there), the same
// elementary-step inversion used for the audio path's forwardDCT.
func aanForward1D(y [8]float64) [8]float64 {
	c0 := float64(idctC0)
	c1 := float64(idctC1)
	c2 := float64(idctC2)
	c3 := float64(idctC3)

	sum07 := (y[0] + y[7]) / 2 // a0+a2
	b0 := (y[0] - y[7]) / 2
	sum34 := (y[3] + y[4]) / 2 // a0-a2
	b4 := (y[4] - y[3]) / 2

	a0 := (sum07 + sum34) / 2
	a2 := (sum07 - sum34) / 2

	p := (y[1] + y[6]) / 2 // a1+a3-a2
	q := (y[2] + y[5]) / 2 // a1-a3+a2
	b2 := (y[1] - y[6]) / 2
	b3 := (y[2] - y[5]) / 2

	a1 := (p + q) / 2
	a3 := (p-q)/2 + a2

	denom := 1 - c2/c1 + c2/c3
	b1 := (c2*(b2+b0)/c3 + c2*(b4-b3)/c1) / denom

	a5 := (b2 + b0 - b1) * 2048 / c3
	a7 := (b4 - b3 + b1) * 2048 / c1

	d1 := (b3 + b2) * 2048 / c0 // a6-a4
	a6 := (b0 + d1) / 2
	a4 := (b0 - d1) / 2

	d2 := a3 * 2048 / c0 // x2-x6

	var x [8]float64
	x[0] = (a0 + a1) / 2
	x[4] = (a0 - a1) / 2
	x[2] = (a2 + d2) / 2
	x[6] = (a2 - d2) / 2
	x[5] = (a4 + a5) / 2
	x[3] = (a4 - a5) / 2
	x[1] = (a6 + a7) / 2
	x[7] = (a6 - a7) / 2

	return x
}
