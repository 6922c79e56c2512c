package bink

// Nine per-plane, per-row parameter streams, per spec §4.3.2/§4.3.3.
const (
	stBlockTypes = iota
	stSubBlockTypes
	stColors
	stPattern
	stXOff
	stYOff
	stIntraDC
	stInterDC
	stRun
	numStreams
)

// Ten block types, per spec §4.3.4.
const (
	blkSkip = iota
	blkScaled
	blkMotion
	blkRun
	blkResidue
	blkIntra
	blkFill
	blkPattern
	blkInter
	blkRaw
)

// paramStream is one of the nine per-plane parameter streams. items are
// stored in exactly one of u8/i8/i16 depending on the stream's value
// type (spec's design note: "items buffer type differs between
// byte-valued streams and DC streams").
type paramStream struct {
	tree Tree

	bitWidth int
	curDec   int
	curPtr   int

	u8  []uint8
	i8  []int8
	i16 []int16
}

func (p *paramStream) resetForPlane(bitWidth, capHint int) {
	p.bitWidth = bitWidth
	p.curDec = 0
	p.curPtr = 0

	switch {
	case p.u8 != nil || (p.i8 == nil && p.i16 == nil):
		p.u8 = growU8(p.u8, capHint)
	case p.i8 != nil:
		p.i8 = growI8(p.i8, capHint)
	default:
		p.i16 = growI16(p.i16, capHint)
	}
}

func growU8(s []uint8, capHint int) []uint8 {
	if cap(s) < capHint {
		s = make([]uint8, 0, capHint)
	}

	return s[:0]
}

func growI8(s []int8, capHint int) []int8 {
	if cap(s) < capHint {
		s = make([]int8, 0, capHint)
	}

	return s[:0]
}

func growI16(s []int16, capHint int) []int16 {
	if cap(s) < capHint {
		s = make([]int16, 0, capHint)
	}

	return s[:0]
}

// readCount implements spec §4.3.2's readCodedDataCount, preserving the
// exact curDec/curPtr comparisons called out in spec §9: curDec==curPtr
// means "ready for a new read", curDec>curPtr means "already buffered
// from a prior row".
func (p *paramStream) readCount(r *BitReader) int {
	if p.curDec < 0 || p.curDec > p.curPtr {
		return 0
	}

	count := int(r.ReadBits(p.bitWidth))
	if count == 0 {
		p.curDec = -1
	}

	return count
}

// nextU8/nextI8/nextI16 advance curPtr regardless of whether an item was
// actually buffered: a truncated or corrupt stream can leave a row's
// block-type consumers running past what was decoded, and per spec §7
// that is an OutOfRange condition handled by a defensive clamp (zero
// value) rather than a fault.
func (p *paramStream) nextU8() uint8 {
	if p.curPtr >= len(p.u8) {
		p.curPtr++

		return 0
	}

	v := p.u8[p.curPtr]
	p.curPtr++

	return v
}

func (p *paramStream) nextI8() int8 {
	if p.curPtr >= len(p.i8) {
		p.curPtr++

		return 0
	}

	v := p.i8[p.curPtr]
	p.curPtr++

	return v
}

func (p *paramStream) nextI16() int16 {
	if p.curPtr >= len(p.i16) {
		p.curPtr++

		return 0
	}

	v := p.i16[p.curPtr]
	p.curPtr++

	return v
}

// VideoDecoder decodes the video payload of successive Bink frames into
// a persistent pair of previous/current planar pixel buffers, per spec
// §4.3. A VideoDecoder is constructed once for the lifetime of a Decoder
// and allocates its scratch state up front; NextFrame performs no
// per-block heap allocation.
type VideoDecoder struct {
	width, height      int
	hasAlpha           bool
	hasSwappedUVPlanes bool
	subVersion         byte

	streams [numStreams]paramStream
	colHigh [16]Tree
	colLast int

	prev *planeSet
	cur  *planeSet

	vmCoeffList [128]int32
	vmModeList  [128]int32
	vmCoeffIdx  []int32

	idctScratch [64]int32
	blockBuf    [64]int32
}

// planeSet holds the four (or three, if no alpha) plane buffers for one
// frame, padded to block-aligned dimensions so every block handler can
// write a full 8x8 (or 16x16) tile without bounds checks.
type planeSet struct {
	planes [4]planeBuf
}

type planeBuf struct {
	w, h, stride int
	data         []byte
}

func newPlaneBuf(w, h int) planeBuf {
	return planeBuf{w: w, h: h, stride: w, data: make([]byte, w*h)}
}

// NewVideoDecoder constructs a VideoDecoder for a stream of the given
// coded dimensions and flags (spec §3's Header fields).
func NewVideoDecoder(width, height int, hasAlpha, hasSwappedUVPlanes bool, subVersion byte) *VideoDecoder {
	vd := &VideoDecoder{
		width:              width,
		height:             height,
		hasAlpha:           hasAlpha,
		hasSwappedUVPlanes: hasSwappedUVPlanes,
		subVersion:         subVersion,
		vmCoeffIdx:         make([]int32, 0, 64),
	}

	lumaBW, lumaBH := blockDims(width, height, 8)
	chromaBW, chromaBH := blockDims(width, height, 16)

	vd.prev = newPlaneSetPadded(lumaBW, lumaBH, chromaBW, chromaBH, hasAlpha)
	vd.cur = newPlaneSetPadded(lumaBW, lumaBH, chromaBW, chromaBH, hasAlpha)

	for i := range vd.streams {
		switch i {
		case stXOff, stYOff:
			vd.streams[i].i8 = make([]int8, 0, 64)
		case stIntraDC, stInterDC:
			vd.streams[i].i16 = make([]int16, 0, 64)
		default:
			vd.streams[i].u8 = make([]uint8, 0, 64)
		}
	}

	return vd
}

func blockDims(width, height, macroSize int) (int, int) {
	bw := (width + macroSize - 1) / macroSize
	bh := (height + macroSize - 1) / macroSize

	return bw, bh
}

func roundUpEven(v int) int {
	if v%2 != 0 {
		return v + 1
	}

	return v
}

// newPlaneSetPadded allocates block-aligned plane buffers. Luma/alpha
// block-row and block-column counts are rounded up to even: a SCALED
// block spans two adjacent 8x8 block slots (16x16), decoded only from
// an even block-row/column, so the buffer must have room for that pair
// even when the true block grid ends on an odd row or column.
func newPlaneSetPadded(lumaBW, lumaBH, chromaBW, chromaBH int, hasAlpha bool) *planeSet {
	paddedW := roundUpEven(lumaBW)
	paddedH := roundUpEven(lumaBH)
	paddedChromaW := roundUpEven(chromaBW)
	paddedChromaH := roundUpEven(chromaBH)

	ps := &planeSet{}
	ps.planes[PlaneY] = newPlaneBuf(paddedW*8, paddedH*8)
	ps.planes[PlaneU] = newPlaneBuf(paddedChromaW*8, paddedChromaH*8)
	ps.planes[PlaneV] = newPlaneBuf(paddedChromaW*8, paddedChromaH*8)

	if hasAlpha {
		ps.planes[PlaneA] = newPlaneBuf(paddedW*8, paddedH*8)
	}

	return ps
}

func (ps *planeSet) copyFrom(src *planeSet) {
	for i := range ps.planes {
		if len(src.planes[i].data) != 0 {
			copy(ps.planes[i].data, src.planes[i].data)
		}
	}
}

// Reset clears the previous-frame reference to all-zero bytes in every
// plane, as if no frame had
// ever been decoded. Used by Decoder.Reset.
func (vd *VideoDecoder) Reset() {
	for i := range vd.prev.planes {
		for j := range vd.prev.planes[i].data {
			vd.prev.planes[i].data[j] = 0
		}
	}
}

// DecodeFrame decodes one frame's video payload into dst, which is
// resized as needed. dst may be a previously-returned Frame to decode
// in place. Returns ErrCorruptStream if the payload contains an
// unrecognized block type or sub-block type; per spec §7 this is fatal
// for the current Decoder.
func (vd *VideoDecoder) DecodeFrame(payload []byte, dst *Frame) error {
	r := NewBitReader(payload)

	vd.cur.copyFrom(vd.prev)

	planeOrder := [3]int{PlaneY, PlaneU, PlaneV}

	if vd.hasAlpha {
		if vd.subVersion > 'd' {
			r.Skip(32)
		}

		if err := vd.decodePlane(r, PlaneA, false); err != nil {
			return err
		}
		r.Align32()

		if r.BitsLeft() == 0 {
			vd.finish(dst)

			return nil
		}
	}

	for _, logical := range planeOrder {
		if vd.subVersion > 'd' {
			r.Skip(32)
		}

		dest := logical
		if logical != PlaneY && vd.hasSwappedUVPlanes {
			dest = logical ^ 3
		}

		chroma := logical != PlaneY
		if err := vd.decodePlane(r, dest, chroma); err != nil {
			return err
		}
		r.Align32()

		if r.BitsLeft() == 0 {
			break
		}
	}

	vd.finish(dst)

	return nil
}

// finish swaps cur into prev (so the just-decoded frame becomes the
// reference for the next one) and crops the padded planes into dst.
func (vd *VideoDecoder) finish(dst *Frame) {
	vd.prev, vd.cur = vd.cur, vd.prev

	dst.Width = vd.width
	dst.Height = vd.height
	dst.HasAlpha = vd.hasAlpha
	dst.resize()

	for _, p := range []int{PlaneY, PlaneU, PlaneV, PlaneA} {
		if p == PlaneA && !vd.hasAlpha {
			continue
		}

		src := vd.prev.planes[p]
		w, h := dst.PlaneDims(p)
		stride := dst.LineSize(p)
		off := dst.PlaneOffset(p)

		for row := 0; row < h; row++ {
			copy(dst.Pixels[off+row*stride:off+row*stride+w], src.data[row*src.stride:row*src.stride+w])
		}
	}
}

// decodePlane decodes one plane (spec §4.3.2) into vd.cur.planes[dest].
// chroma selects the /16 macroblock-width formula instead of /8.
func (vd *VideoDecoder) decodePlane(r *BitReader, dest int, chroma bool) error {
	macro := 8
	if chroma {
		macro = 16
	}

	blockWidth, blockHeight := blockDims(vd.width, vd.height, macro)

	vd.initStreams(r, blockWidth)

	buf := &vd.cur.planes[dest]
	ref := &vd.prev.planes[dest]

	for row := 0; row < blockHeight; row++ {
		vd.readRow(r, blockWidth)
		if err := vd.decodeRow(r, buf, ref, row, blockWidth); err != nil {
			return err
		}
	}

	return nil
}

func fieldCountEstimate(stream, blockWidth int) int {
	switch stream {
	case stBlockTypes, stXOff, stYOff, stIntraDC, stInterDC:
		return blockWidth + 511
	case stSubBlockTypes:
		return (blockWidth+1)/2 + 511
	case stColors:
		return blockWidth*64 + 511
	case stPattern:
		return blockWidth*8 + 511
	case stRun:
		return blockWidth*48 + 511
	default:
		panic("bink: unknown stream")
	}
}

func bitWidthFor(fieldCount int) int {
	n := 0
	for v := fieldCount; v > 0; v >>= 1 {
		n++
	}

	return n
}

func (vd *VideoDecoder) initStreams(r *BitReader, blockWidth int) {
	for i := range vd.streams {
		est := fieldCountEstimate(i, blockWidth)
		bw := bitWidthFor(est)

		vd.streams[i].resetForPlane(bw, est)

		if i != stIntraDC && i != stInterDC {
			readTree(r, &vd.streams[i].tree)
		}
	}

	for i := range vd.colHigh {
		readTree(r, &vd.colHigh[i])
	}

	vd.colLast = 0
}

func (vd *VideoDecoder) readRow(r *BitReader, blockWidth int) {
	vd.readRowTypes(r, &vd.streams[stBlockTypes], true)
	vd.readRowTypes(r, &vd.streams[stSubBlockTypes], true)
	vd.readRowColors(r)
	vd.readRowPattern(r)
	vd.readRowMotion(r, &vd.streams[stXOff])
	vd.readRowMotion(r, &vd.streams[stYOff])
	vd.readRowDC(r, &vd.streams[stIntraDC], true)
	vd.readRowDC(r, &vd.streams[stInterDC], true)
	vd.readRowTypes(r, &vd.streams[stRun], false)
}

// readRowTypes implements the BLOCK_TYPES/SUB_BLOCK_TYPES/RUN row reader
// of spec §4.3.3. expandRuns enables the 12..15 run-length-expansion
// branch (disabled for RUN, which "uses the simple form").
func (vd *VideoDecoder) readRowTypes(r *BitReader, s *paramStream, expandRuns bool) {
	count := s.readCount(r)
	if count == 0 {
		return
	}

	if r.ReadBit() == 1 {
		v := uint8(r.ReadBits(4))
		for i := 0; i < count; i++ {
			s.u8 = append(s.u8, v)
		}

		s.curDec += count

		return
	}

	var prevValue uint8

	runCounts := [4]int{4, 8, 12, 32}

	for i := 0; i < count; i++ {
		v := s.tree.decode(r)

		if expandRuns && v >= 12 {
			n := runCounts[v-12]
			for k := 0; k < n; k++ {
				s.u8 = append(s.u8, prevValue)
			}

			s.curDec += n
			i += n - 1

			continue
		}

		s.u8 = append(s.u8, v)
		prevValue = v
		s.curDec++
	}
}

// readRowColors implements the COLORS row reader of spec §4.3.3.
func (vd *VideoDecoder) readRowColors(r *BitReader) {
	s := &vd.streams[stColors]

	count := s.readCount(r)
	if count == 0 {
		return
	}

	isRun := r.ReadBit() == 1

	iterations := count
	if isRun {
		iterations = 1
	}

	var last uint8

	for i := 0; i < iterations; i++ {
		high := vd.colHigh[vd.colLast].decode(r)
		low := s.tree.decode(r)
		v := (high << 4) | low
		vd.colLast = int(high)

		if vd.subVersion < 'e' {
			if v > 127 {
				v = uint8(256 - int(v))
			} else {
				v = v + 128
			}
		}

		last = v

		if !isRun {
			s.u8 = append(s.u8, v)
		}
	}

	if isRun {
		for i := 0; i < count; i++ {
			s.u8 = append(s.u8, last)
		}
	}

	s.curDec += count
}

// readRowPattern implements the PATTERN row reader of spec §4.3.3.
func (vd *VideoDecoder) readRowPattern(r *BitReader) {
	s := &vd.streams[stPattern]

	count := s.readCount(r)
	if count == 0 {
		return
	}

	for i := 0; i < count; i++ {
		low := s.tree.decode(r)
		high := s.tree.decode(r)
		s.u8 = append(s.u8, low|(high<<4))
	}

	s.curDec += count
}

// readRowMotion implements the X_OFF/Y_OFF row reader of spec §4.3.3.
func (vd *VideoDecoder) readRowMotion(r *BitReader, s *paramStream) {
	count := s.readCount(r)
	if count == 0 {
		return
	}

	if r.ReadBit() == 1 {
		v := int32(r.ReadBits(4))
		if v != 0 {
			v = r.ApplySign(v)
		}

		sv := signExtend8(v)

		for i := 0; i < count; i++ {
			s.i8 = append(s.i8, sv)
		}
	} else {
		for i := 0; i < count; i++ {
			v := int32(s.tree.decode(r))
			if v != 0 {
				v = r.ApplySign(v)
			}

			s.i8 = append(s.i8, signExtend8(v))
		}
	}

	s.curDec += count
}

func signExtend8(v int32) int8 {
	return int8(v)
}

// readRowDC implements the INTRA_DC/INTER_DC row reader of spec §4.3.3.
// hasSign resolves the spec's unspecified "hasSign" flag: INTER_DC
// (residual, can be negative) is signed; INTRA_DC (always non-negative
// pixel-domain DC) is unsigned. See DESIGN.md.
func (vd *VideoDecoder) readRowDC(r *BitReader, s *paramStream, _ bool) {
	count := s.readCount(r)
	if count == 0 {
		return
	}

	hasSign := s == &vd.streams[stInterDC]

	width := 11
	if hasSign {
		width = 10
	}

	v := int32(r.ReadBits(width))
	if hasSign && v != 0 {
		v = r.ApplySign(v)
	}

	s.i16 = append(s.i16, int16(v))
	written := 1

	for written < count {
		remaining := count - written

		length := remaining
		if length > 8 {
			length = 8
		}

		_ = remaining

		group := int(r.ReadBits(4))
		if group == 0 {
			group = 16
		}

		length = group
		if length > count-written {
			length = count - written
		}

		bsize := int(r.ReadBits(4))

		if bsize == 0 {
			for i := 0; i < length; i++ {
				s.i16 = append(s.i16, int16(v))
			}
		} else {
			for i := 0; i < length; i++ {
				delta := int32(r.ReadBits(bsize))
				if delta != 0 {
					delta = r.ApplySign(delta)
				}

				v += delta
				s.i16 = append(s.i16, int16(v))
			}
		}

		written += length
	}

	s.curDec += count
}

// decodeRow dispatches every 8x8 block slot of one block-row (spec
// §4.3.4). dst/ref are the current/previous padded plane buffers.
func (vd *VideoDecoder) decodeRow(r *BitReader, dst, ref *planeBuf, blockRow, blockWidth int) error {
	col := 0
	for col < blockWidth {
		bt := vd.streams[stBlockTypes].nextU8()

		switch bt {
		case blkSkip:
			col++
		case blkScaled:
			if err := vd.decodeScaled(r, dst, ref, blockRow, col); err != nil {
				return err
			}
			col += 2
		case blkMotion:
			vd.decodeMotion(r, dst, ref, blockRow, col)
			col++
		case blkRun:
			vd.decodeRun(r, dst, blockRow, col)
			col++
		case blkResidue:
			vd.decodeResidue(r, dst, ref, blockRow, col)
			col++
		case blkIntra:
			vd.decodeIntra(r, dst, blockRow, col)
			col++
		case blkFill:
			vd.decodeFill(dst, blockRow, col, 8)
			col++
		case blkPattern:
			vd.decodePattern(r, dst, blockRow, col)
			col++
		case blkInter:
			vd.decodeInter(r, dst, ref, blockRow, col)
			col++
		case blkRaw:
			vd.decodeRaw(dst, blockRow, col)
			col++
		default:
			return ErrCorruptStream
		}
	}

	return nil
}

func blockOrigin(buf *planeBuf, blockRow, blockCol, size int) int {
	return blockRow*size*buf.stride + blockCol*size
}

func (vd *VideoDecoder) decodeMotion(r *BitReader, dst, ref *planeBuf, blockRow, blockCol int) {
	xOff := int(vd.streams[stXOff].nextI8())
	yOff := int(vd.streams[stYOff].nextI8())

	dstOff := blockOrigin(dst, blockRow, blockCol, 8)
	srcOff := motionRefOffset(ref, blockRow, blockCol, xOff, yOff)

	copyBlock8(dst, dstOff, ref, srcOff)
}

// motionRefOffset computes the reference-plane byte offset for a motion
// vector, clamping the resulting block origin to stay within bounds — an
// OutOfRange defensive clamp per spec §7, guarding against a corrupt or
// pathological motion vector rather than faulting.
func motionRefOffset(ref *planeBuf, blockRow, blockCol, xOff, yOff int) int {
	x := blockCol*8 + xOff
	y := blockRow*8 + yOff

	if x < 0 {
		x = 0
	}

	if x > ref.w-8 {
		x = ref.w - 8
	}

	if y < 0 {
		y = 0
	}

	if y > ref.h-8 {
		y = ref.h - 8
	}

	return y*ref.stride + x
}

// copyBlock8 copies an 8x8 block from ref at srcOff into dst at dstOff.
// Per spec §4.3.5, a no-op when src==dst and the two buffers are the
// same underlying array (the frame was pre-seeded from the reference).
func copyBlock8(dst *planeBuf, dstOff int, ref *planeBuf, srcOff int) {
	if &dst.data[0] == &ref.data[0] && dstOff == srcOff {
		return
	}

	for row := 0; row < 8; row++ {
		copy(dst.data[dstOff+row*dst.stride:dstOff+row*dst.stride+8], ref.data[srcOff+row*ref.stride:srcOff+row*ref.stride+8])
	}
}

func (vd *VideoDecoder) decodeFill(dst *planeBuf, blockRow, blockCol, size int) {
	v := vd.streams[stColors].nextU8()
	off := blockOrigin(dst, blockRow, blockCol, 8)

	for row := 0; row < size; row++ {
		line := dst.data[off+row*dst.stride : off+row*dst.stride+size]
		for i := range line {
			line[i] = v
		}
	}
}

func (vd *VideoDecoder) decodeRaw(dst *planeBuf, blockRow, blockCol int) {
	off := blockOrigin(dst, blockRow, blockCol, 8)

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			dst.data[off+row*dst.stride+col] = vd.streams[stColors].nextU8()
		}
	}
}

func (vd *VideoDecoder) decodePattern(r *BitReader, dst *planeBuf, blockRow, blockCol int) {
	c0 := vd.streams[stColors].nextU8()
	c1 := vd.streams[stColors].nextU8()

	off := blockOrigin(dst, blockRow, blockCol, 8)

	for row := 0; row < 8; row++ {
		mask := vd.streams[stPattern].nextU8()

		line := dst.data[off+row*dst.stride : off+row*dst.stride+8]
		for col := 0; col < 8; col++ {
			if mask&(1<<col) != 0 {
				line[col] = c1
			} else {
				line[col] = c0
			}
		}
	}
}

func (vd *VideoDecoder) decodeRun(r *BitReader, dst *planeBuf, blockRow, blockCol int) {
	scanID := r.ReadBits(4)
	pattern := &bikPatterns[scanID]

	off := blockOrigin(dst, blockRow, blockCol, 8)

	written := 0
	for written < 63 {
		run := int(vd.streams[stRun].nextU8()) + 1

		if r.ReadBit() == 1 {
			c := vd.streams[stColors].nextU8()
			for k := 0; k < run && written < 63; k++ {
				setBlockPixel(dst, off, pattern[written], c)
				written++
			}
		} else {
			for k := 0; k < run && written < 63; k++ {
				c := vd.streams[stColors].nextU8()
				setBlockPixel(dst, off, pattern[written], c)
				written++
			}
		}
	}

	c := vd.streams[stColors].nextU8()
	setBlockPixel(dst, off, pattern[63], c)
}

func setBlockPixel(dst *planeBuf, blockOff int, pos uint8, v uint8) {
	row := int(pos >> 3)
	col := int(pos & 7)
	dst.data[blockOff+row*dst.stride+col] = v
}

func (vd *VideoDecoder) decodeResidue(r *BitReader, dst, ref *planeBuf, blockRow, blockCol int) {
	xOff := int(vd.streams[stXOff].nextI8())
	yOff := int(vd.streams[stYOff].nextI8())

	dstOff := blockOrigin(dst, blockRow, blockCol, 8)
	srcOff := motionRefOffset(ref, blockRow, blockCol, xOff, yOff)

	copyBlock8(dst, dstOff, ref, srcOff)

	block := vd.blockBuf[:]
	for i := range block {
		block[i] = 0
	}

	vd.decodeCoeffs(r, block, -1)

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := row<<3 | col
			idx := dstOff + row*dst.stride + col
			dst.data[idx] = dst.data[idx] + byte(block[p])
		}
	}
}

func (vd *VideoDecoder) decodeIntra(r *BitReader, dst *planeBuf, blockRow, blockCol int) {
	block := vd.blockBuf[:]
	for i := range block {
		block[i] = 0
	}

	block[0] = int32(vd.streams[stIntraDC].nextI16())

	vd.decodeCoeffs(r, block, 0)

	off := blockOrigin(dst, blockRow, blockCol, 8)
	idctPut(block, vd.idctScratch[:], dst.data, off, dst.stride)
}

func (vd *VideoDecoder) decodeInter(r *BitReader, dst, ref *planeBuf, blockRow, blockCol int) {
	xOff := int(vd.streams[stXOff].nextI8())
	yOff := int(vd.streams[stYOff].nextI8())

	dstOff := blockOrigin(dst, blockRow, blockCol, 8)
	srcOff := motionRefOffset(ref, blockRow, blockCol, xOff, yOff)

	copyBlock8(dst, dstOff, ref, srcOff)

	block := vd.blockBuf[:]
	for i := range block {
		block[i] = 0
	}

	block[0] = int32(vd.streams[stInterDC].nextI16())

	vd.decodeCoeffs(r, block, 1024)

	idctAdd(block, vd.idctScratch[:], dst.data, dstOff, dst.stride)
}

// decodeScaled implements the SCALED block type of spec §4.3.4: a 16x16
// macroblock is only coded on even block-rows; on odd rows the
// destination pointer still advances (the spec's §9 "coupling" note) but
// nothing is decoded.
func (vd *VideoDecoder) decodeScaled(r *BitReader, dst, ref *planeBuf, blockRow, blockCol int) error {
	if blockRow%2 != 0 {
		return nil
	}

	sub := vd.streams[stSubBlockTypes].nextU8()

	var small [64]byte
	smallBuf := &planeBuf{w: 8, h: 8, stride: 8, data: small[:]}

	off := blockOrigin(dst, blockRow, blockCol, 8)

	switch sub {
	case blkRaw:
		vd.decodeRaw(smallBuf, 0, 0)
	case blkIntra:
		block := vd.blockBuf[:]
		for i := range block {
			block[i] = 0
		}

		block[0] = int32(vd.streams[stIntraDC].nextI16())
		vd.decodeCoeffs(r, block, 0)
		idctPut(block, vd.idctScratch[:], smallBuf.data, 0, smallBuf.stride)
	case blkRun:
		vd.decodeRun(r, smallBuf, 0, 0)
	case blkPattern:
		vd.decodePattern(r, smallBuf, 0, 0)
	case blkFill:
		v := vd.streams[stColors].nextU8()
		upsampleFillDirect(dst, off, v)

		return nil
	default:
		return ErrCorruptStream
	}

	upsample2x(dst, off, smallBuf)

	return nil
}

// upsample2x nearest-neighbor-upsamples an 8x8 source block into a 16x16
// destination region: each source pixel becomes a 2x2 destination quad.
func upsample2x(dst *planeBuf, dstOff int, src *planeBuf) {
	for row := 0; row < 8; row++ {
		srcLine := src.data[row*src.stride : row*src.stride+8]

		d0 := dstOff + (2*row)*dst.stride
		d1 := dstOff + (2*row+1)*dst.stride

		for col := 0; col < 8; col++ {
			v := srcLine[col]
			dst.data[d0+2*col] = v
			dst.data[d0+2*col+1] = v
			dst.data[d1+2*col] = v
			dst.data[d1+2*col+1] = v
		}
	}
}

func upsampleFillDirect(dst *planeBuf, dstOff int, v byte) {
	for row := 0; row < 16; row++ {
		line := dst.data[dstOff+row*dst.stride : dstOff+row*dst.stride+16]
		for i := range line {
			line[i] = v
		}
	}
}

// decodeCoeffs is the bitplane-oriented coefficient/residue mini-VM of
// spec §4.3.6. quantTableStart < 0 selects residue mode; >= 0 selects
// DCT mode with that quantizer-table base offset (0 for intra, 1024 for
// inter).
func (vd *VideoDecoder) decodeCoeffs(r *BitReader, block []int32, quantTableStart int) {
	residue := quantTableStart < 0

	cl := &vd.vmCoeffList
	ml := &vd.vmModeList

	cl[64], cl[65], cl[66] = 4, 24, 44
	ml[64], ml[65], ml[66] = 0, 0, 0

	listStart := 64

	var listEnd int

	var masksCount int32

	var bits int32

	vd.vmCoeffIdx = vd.vmCoeffIdx[:0]

	if residue {
		listEnd = 68
		masksCount = int32(r.ReadBits(7))
		cl[67], ml[67] = 0, 2
		bits = 1 << r.ReadBits(3)
	} else {
		listEnd = 70
		cl[67], cl[68], cl[69] = 1, 2, 3
		ml[67], ml[68], ml[69] = 3, 3, 3
		bits = int32(r.ReadBits(4)) - 1
	}

	emitLeaf := func(i int32) bool {
		p := bikScan[i]

		if residue {
			block[p] = r.ApplySign(bits)
			vd.vmCoeffIdx = append(vd.vmCoeffIdx, i)

			masksCount--
			if masksCount < 0 {
				return false
			}
		} else {
			var v int32
			if bits == 0 {
				v = 1 - 2*int32(r.ReadBit())
			} else {
				mag := int32(r.ReadBits(int(bits))) | (1 << uint(bits))
				v = r.ApplySign(mag)
			}

			block[p] = v
			vd.vmCoeffIdx = append(vd.vmCoeffIdx, i)
		}

		return true
	}

	for {
		if residue {
			if bits == 0 {
				break
			}
		} else if bits < 0 {
			break
		}

		if residue {
			for _, i := range vd.vmCoeffIdx {
				if r.ReadBit() == 0 {
					continue
				}

				p := bikScan[i]
				if block[p] < 0 {
					block[p] -= bits
				} else {
					block[p] += bits
				}

				masksCount--
				if masksCount < 0 {
					return
				}
			}
		}

		for listPos := listStart; listPos < listEnd; listPos++ {
			cc := cl[listPos]
			md := ml[listPos]

			if cc == 0 && md == 0 {
				continue
			}

			if r.ReadBit() == 0 {
				continue
			}

			switch md {
			case 0, 2:
				if md == 0 {
					cl[listPos] = cc + 4
					ml[listPos] = 1
				} else {
					cl[listPos] = 0
					ml[listPos] = 0
				}

				for i := cc; i < cc+4; i++ {
					if r.ReadBit() == 1 {
						if listStart == 0 || listEnd >= len(cl) {
							// A corrupt stream subdivided past the arena's
							// capacity; stop rather than run off either end.
							return
						}

						listStart--
						cl[listStart] = i
						ml[listStart] = 3
					} else if !emitLeaf(i) {
						return
					}
				}
			case 1:
				ml[listPos] = 2

				if listEnd+3 > len(cl) {
					return
				}

				cl[listEnd], ml[listEnd] = cc+4, 2
				listEnd++
				cl[listEnd], ml[listEnd] = cc+8, 2
				listEnd++
				cl[listEnd], ml[listEnd] = cc+12, 2
				listEnd++
			case 3:
				cl[listPos] = 0
				ml[listPos] = 0

				if !emitLeaf(cc) {
					return
				}
			}
		}

		if residue {
			bits >>= 1
		} else {
			bits--
		}
	}

	if !residue {
		qIdx := int(r.ReadBits(4))
		qOff := qIdx<<6 + quantTableStart

		block[0] = block[0] * (quantTableStatic[qOff] >> 11)

		for _, i := range vd.vmCoeffIdx {
			p := bikScan[i]
			block[p] = block[p] * (quantTableStatic[qOff+int(i)] >> 11)
		}
	}
}
