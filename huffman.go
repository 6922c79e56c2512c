package bink

// huffEntry is one slot of a HuffTable's expanded lookup: the symbol a
// peeked bit pattern decodes to, and how many bits of the stream it
// actually consumes.
type huffEntry struct {
	symbol uint8
	length uint8
}

// HuffTable is a lookup-table decoder for one of the sixteen fixed
// 16-symbol prefix codes (spec §4.2). It is built once, at package
// initialization, from the hard-coded (code, length) pairs in
// binkHuffTables.
type HuffTable struct {
	maxLen int
	lookup []huffEntry
}

// huffTables holds the sixteen process-wide HuffTable instances,
// indexed by the 0..15 tableNum read from the bitstream.
var huffTables = buildHuffTables()

func buildHuffTables() [16]*HuffTable {
	var tables [16]*HuffTable
	for i, codes := range binkHuffTables {
		tables[i] = newHuffTable(codes)
	}

	return tables
}

// newHuffTable expands 16 (code, length) pairs, each stored LSB-first,
// into a flat lookup of size 1<<maxLen. codes[i] is the symbol produced
// before any Tree permutation is applied — i.e. a raw index into the
// symbolMap the caller passes to decode.
func newHuffTable(codes [16]huffCode) *HuffTable {
	maxLen := 0
	for _, c := range codes {
		if int(c.len) > maxLen {
			maxLen = int(c.len)
		}
	}

	t := &HuffTable{
		maxLen: maxLen,
		lookup: make([]huffEntry, 1<<maxLen),
	}

	for symbol, c := range codes {
		// The code's low c.len bits must match; the remaining
		// (maxLen-c.len) high bits of the peeked value are free, since
		// they belong to whatever follows this code in the stream.
		free := maxLen - int(c.len)
		step := 1 << int(c.len)
		for high := 0; high < (1 << free); high++ {
			idx := int(c.code) + high*step
			t.lookup[idx] = huffEntry{symbol: uint8(symbol), length: c.len}
		}
	}

	return t
}

// decode peeks maxLen bits from r, looks up the (symbol, length) pair,
// advances r by length bits, and returns symbolMap[symbol].
func (t *HuffTable) decode(r *BitReader, symbolMap *[16]uint8) uint8 {
	peeked := r.PeekBits(t.maxLen)
	entry := t.lookup[peeked]
	r.Skip(int(entry.length))

	return symbolMap[entry.symbol]
}

// Tree binds a reference HuffTable (selected by tableNum, 0..15) with a
// 16-entry permutation mapping decoded raw symbols to final 4-bit values
// (spec §4.2.1).
type Tree struct {
	table     *HuffTable
	symbolMap [16]uint8
}

// decode decodes one symbol using t's bound table and permutation.
func (t *Tree) decode(r *BitReader) uint8 {
	return t.table.decode(r, &t.symbolMap)
}

// readTree reads a Tree description from r and stores it into t,
// reusing t's backing array (no per-call allocation), per spec §4.2.1.
func readTree(r *BitReader, t *Tree) {
	tableNum := r.ReadBits(4)
	t.table = huffTables[tableNum]

	if tableNum == 0 {
		for i := 0; i < 16; i++ {
			t.symbolMap[i] = uint8(i)
		}

		return
	}

	if r.ReadBit() == 0 {
		readTreeOrder(r, t)
	} else {
		readTreeShuffle(r, t)
	}
}

// readTreeOrder implements the "order mode" branch of spec §4.2.1: read
// len+1 explicit 4-bit symbols, then append the remaining symbols (those
// not explicitly placed) in ascending order.
func readTreeOrder(r *BitReader, t *Tree) {
	length := int(r.ReadBits(3))

	var present [16]bool

	pos := 0
	for ; pos <= length; pos++ {
		v := uint8(r.ReadBits(4))
		t.symbolMap[pos] = v
		present[v] = true
	}

	for sym := 0; pos < 16; sym++ {
		if !present[sym] {
			t.symbolMap[pos] = uint8(sym)
			pos++
		}
	}
}

// readTreeShuffle implements the "shuffle mode" branch of spec §4.2.1:
// repeated bit-interleaved merges of adjacent blocks of an identity
// array, doubling block size each pass.
func readTreeShuffle(r *BitReader, t *Tree) {
	mergeDepth := int(r.ReadBits(2))

	var a, b [16]uint8
	for i := 0; i < 16; i++ {
		a[i] = uint8(i)
	}

	src, dst := &a, &b
	for depth := 0; depth <= mergeDepth; depth++ {
		size := 1 << depth
		for base := 0; base+2*size <= 16; base += 2 * size {
			mergeBlocks(r, src[base:base+size], src[base+size:base+2*size], dst[base:base+2*size])
		}
		src, dst = dst, src
	}

	copy(t.symbolMap[:], src[:])
}

// mergeBlocks interleaves two equal-length blocks a and b into out,
// reading one selector bit per output element until one side is
// exhausted, then copying the remainder verbatim.
func mergeBlocks(r *BitReader, a, b, out []uint8) {
	ai, bi, oi := 0, 0, 0
	for ai < len(a) && bi < len(b) {
		if r.ReadBit() == 0 {
			out[oi] = a[ai]
			ai++
		} else {
			out[oi] = b[bi]
			bi++
		}
		oi++
	}

	for ai < len(a) {
		out[oi] = a[ai]
		ai++
		oi++
	}

	for bi < len(b) {
		out[oi] = b[bi]
		bi++
		oi++
	}
}
