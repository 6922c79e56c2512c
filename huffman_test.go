package bink

import "testing"

func TestHuffTablesAreCompleteAndPrefixFree(t *testing.T) {
	for tIdx, table := range huffTables {
		seen := make(map[int]uint8)

		for sym, c := range binkHuffTables[tIdx] {
			free := table.maxLen - int(c.len)
			step := 1 << int(c.len)

			for high := 0; high < (1 << free); high++ {
				idx := int(c.code) + high*step

				if prev, ok := seen[idx]; ok && prev != uint8(sym) {
					t.Fatalf("table %d: lookup slot %d claimed by both symbol %d and %d", tIdx, idx, prev, sym)
				}

				seen[idx] = uint8(sym)

				if table.lookup[idx].symbol != uint8(sym) {
					t.Fatalf("table %d: lookup[%d].symbol = %d, want %d", tIdx, idx, table.lookup[idx].symbol, sym)
				}
			}
		}

		if len(seen) != 1<<table.maxLen {
			t.Errorf("table %d: %d of %d lookup slots assigned, want full coverage", tIdx, len(seen), 1<<table.maxLen)
		}
	}
}

func TestReadTreeIdentity(t *testing.T) {
	// tableNum=0 selects the identity map and consumes no further bits.
	r := NewBitReader([]byte{0x00})

	var tree Tree
	readTree(r, &tree)

	for i := 0; i < 16; i++ {
		if tree.symbolMap[i] != uint8(i) {
			t.Errorf("symbolMap[%d] = %d, want %d", i, tree.symbolMap[i], i)
		}
	}

	if r.bitPos != 4 {
		t.Errorf("bitPos after tableNum=0: got %d, want 4", r.bitPos)
	}
}

func TestMergeBlocksInterleavesBySelectorBit(t *testing.T) {
	a := []uint8{10, 11}
	b := []uint8{20, 21, 22}
	out := make([]uint8, len(a)+len(b))

	// Bits (LSB-first): 1,0,1,1 -> take b,a,b,b; b is then exhausted, so
	// the remaining a (11) is copied without reading another bit.
	r := NewBitReader([]byte{0b01101})

	mergeBlocks(r, a, b, out)

	want := []uint8{20, 10, 21, 22, 11}

	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %d, want %d", i, out[i], want[i])
		}
	}
}
