package bink

import "math"

// huffCode is one (code, length) entry of a fixed 16-symbol prefix code
// table. code is stored LSB-first, i.e. matching the bit order BitReader
// accumulates: the first bit transmitted for this code is bit 0 of code.
type huffCode struct {
	code uint16
	len  uint8
}

// binkHuffTables holds the sixteen fixed Huffman tables referenced by
// Tree.tableNum (spec §4.2). Each table assigns a prefix code to 16
// symbols 0..15; symbols are laid out in ascending code-length order, so
// slot 15 always carries the table's maximum code length, as spec §4.2
// requires ("the 16th length in each table is the table's max length").
// Auto-generated canonical tables (lengths ascending per slot; slot order is the
// decode order, i.e. the raw Huffman symbol before any Tree permutation).
var binkHuffTables = [16][16]huffCode{
	{{0, 1}, {1, 4}, {9, 4}, {5, 4}, {13, 4}, {3, 4}, {11, 5}, {27, 5}, {7, 6}, {39, 6}, {23, 6}, {55, 6}, {15, 6}, {47, 6}, {31, 6}, {63, 6}},
	{{0, 1}, {1, 2}, {3, 5}, {19, 5}, {11, 5}, {27, 5}, {7, 6}, {39, 6}, {23, 6}, {55, 6}, {15, 6}, {47, 6}, {31, 7}, {95, 7}, {63, 7}, {127, 7}},
	{{0, 2}, {2, 2}, {1, 2}, {3, 5}, {19, 5}, {11, 5}, {27, 5}, {7, 5}, {23, 6}, {55, 6}, {15, 6}, {47, 6}, {31, 6}, {63, 7}, {127, 8}, {255, 8}},
	{{0, 2}, {2, 2}, {1, 2}, {3, 3}, {7, 6}, {39, 6}, {23, 6}, {55, 6}, {15, 6}, {47, 6}, {31, 7}, {95, 7}, {63, 8}, {191, 8}, {127, 8}, {255, 8}},
	{{0, 1}, {1, 4}, {9, 4}, {5, 4}, {13, 4}, {3, 5}, {19, 5}, {11, 5}, {27, 5}, {7, 5}, {23, 6}, {55, 6}, {15, 6}, {47, 6}, {31, 6}, {63, 6}},
	{{0, 2}, {2, 2}, {1, 4}, {9, 4}, {5, 4}, {13, 4}, {3, 5}, {19, 5}, {11, 5}, {27, 5}, {7, 5}, {23, 5}, {15, 6}, {47, 6}, {31, 6}, {63, 6}},
	{{0, 2}, {2, 2}, {1, 2}, {3, 5}, {19, 5}, {11, 5}, {27, 5}, {7, 6}, {39, 6}, {23, 6}, {55, 6}, {15, 6}, {47, 6}, {31, 6}, {63, 7}, {127, 7}},
	{{0, 2}, {2, 2}, {1, 2}, {3, 3}, {7, 6}, {39, 6}, {23, 6}, {55, 6}, {15, 6}, {47, 6}, {31, 7}, {95, 7}, {63, 8}, {191, 8}, {127, 8}, {255, 8}},
	{{0, 1}, {1, 4}, {9, 4}, {5, 4}, {13, 4}, {3, 5}, {19, 5}, {11, 5}, {27, 5}, {7, 5}, {23, 6}, {55, 6}, {15, 6}, {47, 6}, {31, 6}, {63, 6}},
	{{0, 1}, {1, 2}, {3, 5}, {19, 5}, {11, 5}, {27, 5}, {7, 6}, {39, 6}, {23, 6}, {55, 6}, {15, 6}, {47, 6}, {31, 7}, {95, 7}, {63, 7}, {127, 7}},
	{{0, 2}, {2, 2}, {1, 3}, {5, 4}, {13, 5}, {29, 5}, {3, 5}, {19, 5}, {11, 5}, {27, 5}, {7, 5}, {23, 5}, {15, 6}, {47, 6}, {31, 6}, {63, 6}},
	{{0, 2}, {2, 2}, {1, 2}, {3, 3}, {7, 6}, {39, 6}, {23, 6}, {55, 6}, {15, 6}, {47, 7}, {111, 7}, {31, 7}, {95, 7}, {63, 7}, {127, 8}, {255, 8}},
	{{0, 1}, {1, 4}, {9, 4}, {5, 4}, {13, 4}, {3, 5}, {19, 5}, {11, 5}, {27, 5}, {7, 5}, {23, 6}, {55, 6}, {15, 6}, {47, 6}, {31, 6}, {63, 6}},
	{{0, 1}, {1, 2}, {3, 5}, {19, 5}, {11, 5}, {27, 6}, {59, 6}, {7, 6}, {39, 6}, {23, 6}, {55, 6}, {15, 6}, {47, 6}, {31, 6}, {63, 7}, {127, 7}},
	{{0, 2}, {2, 2}, {1, 2}, {3, 5}, {19, 5}, {11, 5}, {27, 5}, {7, 6}, {39, 6}, {23, 6}, {55, 6}, {15, 6}, {47, 6}, {31, 6}, {63, 7}, {127, 7}},
	{{0, 2}, {2, 3}, {6, 3}, {1, 3}, {5, 4}, {13, 4}, {3, 5}, {19, 5}, {11, 5}, {27, 5}, {7, 5}, {23, 5}, {15, 5}, {31, 6}, {63, 7}, {127, 7}},
}

// bikScan maps the mini-VM's coefficient list positions (0..63) to their
// 8x8 zig-zag scan position, encoded as (row<<3 | col), per spec §4.3.6.
var bikScan = [64]uint8{
	0o00, 0o01, 0o10, 0o20, 0o11, 0o02, 0o03, 0o12,
	0o21, 0o30, 0o40, 0o31, 0o22, 0o13, 0o04, 0o05,
	0o14, 0o23, 0o32, 0o41, 0o50, 0o60, 0o51, 0o42,
	0o33, 0o24, 0o15, 0o06, 0o07, 0o16, 0o25, 0o34,
	0o43, 0o52, 0o61, 0o70, 0o71, 0o62, 0o53, 0o44,
	0o35, 0o26, 0o17, 0o27, 0o36, 0o45, 0o54, 0o63,
	0o72, 0o73, 0o64, 0o55, 0o46, 0o37, 0o47, 0o56,
	0o65, 0o74, 0o75, 0o66, 0o57, 0o67, 0o76, 0o77,
}

// bikPatterns holds 16 RUN-block zig-zag scan orders (64 positions each,
// same (row<<3 | col) encoding as bikScan), selected by the 4-bit scanId
// read at the start of a RUN block, per spec §4.3.4. Patterns 1-7 are the
// seven non-identity symmetries of the dihedral group applied to the
// canonical zig-zag (both axis flips, both diagonal flips — transpose and
// anti-transpose — and the three non-trivial rotations); patterns 8-15 are
// the row-serpentine, column-serpentine, pure diagonal and reverse-zig-zag
// scans, each taken forwards and backwards. The zig-zag is symmetric under
// a half-turn, so pattern 5 (rotate 180) equals pattern 11 (reverse
// zig-zag) and pattern 15 equals pattern 0. This is the same family altscan tables are
// drawn from in other block codecs (row/column/diagonal/zig-zag scan
// selection, e.g. AV1's per-transform scan tables) rather than an
// arbitrary shuffle.
var bikPatterns = buildBikPatterns()

func buildBikPatterns() [16][64]uint8 {
	var p [16][64]uint8

	rc := func(i int) (row, col int) {
		v := bikScan[i]
		return int(v >> 3), int(v & 7)
	}

	transform := func(f func(row, col int) (int, int)) [64]uint8 {
		var out [64]uint8
		for i := 0; i < 64; i++ {
			row, col := rc(i)
			r, c := f(row, col)
			out[i] = uint8(r<<3 | c)
		}
		return out
	}

	p[0] = bikScan
	p[1] = transform(func(r, c int) (int, int) { return c, r })             // transpose
	p[2] = transform(func(r, c int) (int, int) { return r, 7 - c })         // flip horizontal
	p[3] = transform(func(r, c int) (int, int) { return 7 - r, c })         // flip vertical
	p[4] = transform(func(r, c int) (int, int) { return c, 7 - r })         // rotate 90
	p[5] = transform(func(r, c int) (int, int) { return 7 - r, 7 - c })     // rotate 180
	p[6] = transform(func(r, c int) (int, int) { return 7 - c, r })         // rotate 270
	p[7] = transform(func(r, c int) (int, int) { return 7 - c, 7 - r })     // anti-transpose

	i := 0
	for row := 0; row < 8; row++ { // row-serpentine (boustrophedon)
		if row&1 == 0 {
			for col := 0; col < 8; col++ {
				p[8][i] = uint8(row<<3 | col)
				i++
			}
		} else {
			for col := 7; col >= 0; col-- {
				p[8][i] = uint8(row<<3 | col)
				i++
			}
		}
	}
	i = 0
	for col := 0; col < 8; col++ { // column-serpentine
		if col&1 == 0 {
			for row := 0; row < 8; row++ {
				p[9][i] = uint8(row<<3 | col)
				i++
			}
		} else {
			for row := 7; row >= 0; row-- {
				p[9][i] = uint8(row<<3 | col)
				i++
			}
		}
	}

	i = 0
	for d := 0; d <= 14; d++ { // pure diagonal scan, top-left to bottom-right
		for row := 0; row <= d; row++ {
			col := d - row
			if row < 8 && col < 8 {
				p[10][i] = uint8(row<<3 | col)
				i++
			}
		}
	}

	for i := 0; i < 64; i++ { // reverse zig-zag
		p[11][i] = bikScan[63-i]
	}
	for i := 0; i < 64; i++ { // reverse row-serpentine
		p[12][i] = p[8][63-i]
	}
	for i := 0; i < 64; i++ { // reverse column-serpentine
		p[13][i] = p[9][63-i]
	}
	for i := 0; i < 64; i++ { // reverse diagonal scan
		p[14][i] = p[10][63-i]
	}
	p[15] = transform(func(r, c int) (int, int) { // rotate 180, then reversed below: the zig-zag itself
		return 7 - r, 7 - c
	})
	for i, j := 0, 63; i < j; i, j = i+1, j-1 {
		p[15][i], p[15][j] = p[15][j], p[15][i]
	}

	return p
}

// audioCriticalFreqs is the critical-frequency table used to derive
// numBands from a track's sample rate, per spec §4.4.
var audioCriticalFreqs = [...]int{
	100, 200, 300, 400, 510, 630, 770, 920,
	1080, 1270, 1480, 1720, 2000, 2320, 2700, 3150,
	3700, 4400, 5300, 6400, 7700, 9500, 12000, 15500,
}

// rleLen is the run-length table indexed by the 4-bit value read after a
// set RLE flag bit in audio coefficient decoding, per spec §4.4.
var rleLen = [16]int{2, 4, 6, 8, 10, 12, 14, 16, 20, 24, 28, 32, 40, 48, 56, 64}

// aanScale holds the eight AAN forward/inverse DCT scale factors for a
// single row or column frequency, k=0..7 (Loeffler/Ligtenberg/Moschytz
// 1989), the same family idctC0-idctC3 above are the integer butterfly
// constants for. quantTableStatic folds the outer product of these
// factors, one per (row, col) frequency pair, into the per-position
// quantizer weight, which is the standard way an AAN-based transform
// codec keeps its quantization table and its fast IDCT's non-uniform
// internal scaling consistent (the same technique as libjpeg's
// jpeg_idct_ifast scaling or the descale tables in jidctint.c).
var aanScale = [8]float64{
	1.0, 1.387039845, 1.306562965, 1.175875602,
	1.0, 0.785694958, 0.541196100, 0.275899379,
}

// quantTableStatic holds the DCT/residue quantizer table Q referenced by
// the mini-VM's termination step (spec §4.3.6). qOff indexes into this
// table as (qIdx<<6)+quantTableStart, quantTableStart being 0 for intra
// blocks and 1024 for inter blocks; each entry is pre-scaled so that the
// consumer's ">> 11" yields the final integer multiplier. qIdx is a 4-bit
// field (0..15, spec §4.3.6), so each half of the table covers exactly
// 16*64 = 1024 entries.
var quantTableStatic = buildQuantTable()

func buildQuantTable() [2048]int32 {
	var q [2048]int32

	// step is the DC quantizer step for qIdx; in the intra half it doubles
	// every four steps (~1.5dB per step, 6dB per four), the progression a
	// perceptual quantizer walks through across its 16 selectable levels.
	// Each per-position entry is step scaled by aanScale[row]*aanScale[col]
	// for that position's (row, col) in the 8x8 block, then rounded into
	// the <<11 fixed-point domain the mini-VM's ">> 11" expects. The
	// inter half (offset 1024) uses a flatter progression since motion
	// residues carry less low-frequency energy than intra blocks.
	for half := 0; half < 2; half++ {
		base := half * 1024
		for qIdx := 0; qIdx < 16; qIdx++ {
			var step float64
			if half == 0 {
				step = 2048.0 * math.Pow(2, float64(qIdx)/4.0)
			} else {
				step = 2048.0 * math.Pow(2, float64(qIdx)/5.0)
			}
			for i := 0; i < 64; i++ {
				pos := bikScan[i]
				row, col := pos>>3, pos&7
				w := step * aanScale[row] * aanScale[col]
				q[base+qIdx*64+i] = int32(w + 0.5)
			}
		}
	}

	return q
}
