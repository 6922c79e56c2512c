package bink

// Integer 2-D AAN IDCT-III for 8x8 blocks, per spec §4.3.7.
//
// All intermediate products are computed in int32; right shifts are
// arithmetic (Go's >> on signed integers already is). Writes into
// destination byte planes use wrapping truncation, never saturation,
// per the spec's explicit note on both points.

const (
	idctC0 = 2896
	idctC1 = 2217
	idctC2 = 3784
	idctC3 = -5352
)

// idctPass runs the shared AAN butterfly on eight inputs spaced by stride
// starting at off within in, writing eight outputs spaced by outStride
// starting at outOff within out. add is the rounding constant and shift
// is the destination right-shift (0/0 for the column pass, 127/8 for the
// row pass, per spec §4.3.7).
func idctPass(in []int32, off, stride int, out []int32, outOff, outStride int, add, shift int32) {
	x0 := in[off+0*stride]
	x1 := in[off+1*stride]
	x2 := in[off+2*stride]
	x3 := in[off+3*stride]
	x4 := in[off+4*stride]
	x5 := in[off+5*stride]
	x6 := in[off+6*stride]
	x7 := in[off+7*stride]

	a0 := x0 + x4
	a1 := x0 - x4
	a2 := x2 + x6
	a3 := (idctC0 * (x2 - x6)) >> 11
	a4 := x5 + x3
	a5 := x5 - x3
	a6 := x1 + x7
	a7 := x1 - x7

	b0 := a4 + a6
	b1 := (idctC2 * (a5 + a7)) >> 11
	b2 := ((idctC3 * a5) >> 11) - b0 + b1
	b3 := ((idctC0 * (a6 - a4)) >> 11) - b2
	b4 := ((idctC1 * a7) >> 11) + b3 - b1

	y := [8]int32{
		(a0 + add + a2 + b0) >> shift,
		(a1 + add + a3 - a2 + b2) >> shift,
		(a1 + add - a3 + a2 + b3) >> shift,
		(a0 + add - a2 - b4) >> shift,
		(a0 + add - a2 + b4) >> shift,
		(a1 + add - a3 + a2 - b3) >> shift,
		(a1 + add + a3 - a2 - b2) >> shift,
		(a0 + add + a2 - b0) >> shift,
	}

	for i := 0; i < 8; i++ {
		out[outOff+i*outStride] = y[i]
	}
}

// idct2D runs the column pass (stride 8, no rounding/shift) followed by
// the row pass (stride 1, +127 rounding, >>8) of block in place into
// scratch, a caller-owned 64-entry buffer reused across blocks.
func idct2D(block []int32, scratch []int32) {
	for col := 0; col < 8; col++ {
		idctPass(block, col, 8, scratch, col, 8, 0, 0)
	}

	for row := 0; row < 8; row++ {
		idctPass(scratch, row*8, 1, block, row*8, 1, 127, 8)
	}
}

// idctPut applies the 2-D IDCT to block and stores the result directly
// into dst's 8x8 region starting at index, with row stride stride.
// Truncating store to u8 implicitly wraps.
func idctPut(block []int32, scratch []int32, dst []byte, index, stride int) {
	idct2D(block, scratch)

	for row := 0; row < 8; row++ {
		di := index + row*stride
		bi := row * 8
		for col := 0; col < 8; col++ {
			dst[di+col] = byte(block[bi+col])
		}
	}
}

// idctAdd applies the 2-D IDCT to block and adds the result into dst's
// existing 8x8 region, wrapping on u8 overflow.
func idctAdd(block []int32, scratch []int32, dst []byte, index, stride int) {
	idct2D(block, scratch)

	for row := 0; row < 8; row++ {
		di := index + row*stride
		bi := row * 8
		for col := 0; col < 8; col++ {
			dst[di+col] = dst[di+col] + byte(block[bi+col])
		}
	}
}
