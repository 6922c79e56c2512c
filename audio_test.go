package bink

import (
	"math"
	"testing"
)

func TestNewAudioDecoderDCTFrameSizing(t *testing.T) {
	ad := NewAudioDecoder(44100, 2, true)

	if ad.frameBits != 11 {
		t.Errorf("frameBits = %d, want 11 for sampleRate>=44100", ad.frameBits)
	}

	if ad.frameLen != 2048 {
		t.Errorf("frameLen = %d, want 2048", ad.frameLen)
	}

	if ad.overlapLen != 128 {
		t.Errorf("overlapLen = %d, want 128", ad.overlapLen)
	}

	wantBlockSize := (2048 - 128) * ad.internalChannels
	if ad.blockSize != wantBlockSize {
		t.Errorf("blockSize = %d, want %d", ad.blockSize, wantBlockSize)
	}

	if ad.internalChannels != 2 {
		t.Errorf("internalChannels = %d, want 2 for a DCT stereo track", ad.internalChannels)
	}
}

func TestNewAudioDecoderIRDFTInterleavesChannels(t *testing.T) {
	ad := NewAudioDecoder(44100, 2, false)

	if ad.internalChannels != 1 {
		t.Errorf("internalChannels = %d, want 1 for an IRDFT track", ad.internalChannels)
	}

	if ad.sampleRate != 44100*2 {
		t.Errorf("sampleRate = %d, want %d (doubled for 2 channels)", ad.sampleRate, 44100*2)
	}
}

func TestNewAudioDecoderChannelCap(t *testing.T) {
	ad := NewAudioDecoder(22050, 99, true)

	if ad.numChannels > 8 {
		t.Errorf("numChannels = %d, want <= 8", ad.numChannels)
	}
}

func TestAudioQuantTableIsIncreasing(t *testing.T) {
	ad := NewAudioDecoder(44100, 1, true)

	for i := 1; i < len(ad.quantTable); i++ {
		if ad.quantTable[i] <= ad.quantTable[i-1] {
			t.Errorf("quantTable[%d]=%v not greater than quantTable[%d]=%v", i, ad.quantTable[i], i-1, ad.quantTable[i-1])
		}
	}
}

func TestAudioBandsEndAtFrameLen(t *testing.T) {
	ad := NewAudioDecoder(44100, 1, true)

	if ad.bands[0] != 2 {
		t.Errorf("bands[0] = %d, want 2", ad.bands[0])
	}

	if ad.bands[ad.numBands] != ad.frameLen {
		t.Errorf("bands[numBands] = %d, want frameLen %d", ad.bands[ad.numBands], ad.frameLen)
	}

	for i := 1; i <= ad.numBands; i++ {
		if ad.bands[i] < ad.bands[i-1] {
			t.Errorf("bands not non-decreasing at %d: %d < %d", i, ad.bands[i], ad.bands[i-1])
		}
	}
}

func TestDCTInverseRoundTripsViaForwardDCT(t *testing.T) {
	const n = 64

	input := make([]float64, n)
	for i := range input {
		input[i] = math.Sin(float64(i) * 0.3)
	}

	s := newDCTState(n)

	coeffs := make([]float64, n)
	copy(coeffs, input)
	forwardDCT(s, coeffs)

	s.inverse(coeffs)

	// forwardDCT is built by algebraically undoing dctInverse's own
	// deinterleave/recurse/combine steps in reverse order, so the
	// composition is an exact inverse pair: recovered values should sit
	// well within the spec's ±2 rounding budget (§8) of the original
	// input, not merely be non-zero.
	for i, want := range input {
		got := coeffs[i]
		if diff := math.Abs(got - want); diff > 2 {
			t.Errorf("round trip at %d: got %v, want %v (diff %v exceeds budget of 2)", i, got, want, diff)
		}
	}
}

// forwardDCT turns data (samples) into the coefficients that dctInverse
// maps back to those same samples, by inverting each of dctInverse's
// three steps (deinterleave+running-sum, recurse, butterfly combine) in
// reverse order. It shares s's cosTables so the two are an exact pair.
func forwardDCT(s *dctState, data []float64) {
	temp := make([]float64, len(data))
	dctForwardStep(s, data, temp, 0, len(data), len(s.cosTables)-1)
}

func dctForwardStep(s *dctState, data, temp []float64, off, n, bits int) {
	if n < 2 {
		return
	}

	half := n / 2
	tbl := s.cosTables[bits]

	for i := 0; i < half; i++ {
		yi := data[off+i]
		yj := data[off+n-1-i]
		temp[off+i] = (yi + yj) / 2
		temp[off+half+i] = tbl[i] * (yi - yj) / 2
	}

	dctForwardStep(s, temp, data, off, half, bits-1)
	dctForwardStep(s, temp, data, off+half, half, bits-1)

	data[off+0] = temp[off+0]
	data[off+1] = temp[off+half]

	prevOdd := data[off+1]
	for i := 1; i < half; i++ {
		data[off+2*i] = temp[off+i]

		odd := temp[off+half+i] - prevOdd
		data[off+2*i+1] = odd
		prevOdd = odd
	}
}

func TestFFTStateProducesConstantSignalForPureDC(t *testing.T) {
	s := newFFTState(6) // n = 64, half = 32

	data := make([]float64, 64)
	data[0] = 10 // pure DC (Re[0]=10, everything else 0)

	s.inverse(data)

	first := data[0]
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("data[%d] = %v, want a finite value", i, v)
		}

		if math.Abs(v-first) > 1e-9 {
			t.Errorf("data[%d] = %v, want constant %v for a pure-DC IRDFT input", i, v, first)
		}
	}

	if first == 0 {
		t.Error("pure-DC input transformed to an all-zero signal")
	}
}
