package bink

import "math"

// Radix-2 decimation-in-time complex FFT plus the half-size-FFT-based
// IRDFT built on top of it, used by the non-DCT (IRDFT) audio path, per
// spec §4.4.2. Bit-reversal and twiddle tables are precomputed once per
// frame size and reused across packets.
type fftState struct {
	n       int
	bitrev  []int
	twR     []float64
	twI     []float64
	irTheta float64
}

// newFFTState builds the tables for an IRDFT of size n = 1<<nBits,
// operating via a forward FFT of size n/2.
func newFFTState(nBits int) *fftState {
	n := 1 << nBits
	half := n / 2

	s := &fftState{
		n:       half,
		irTheta: 2 * math.Pi / float64(n),
	}

	s.bitrev = make([]int, half)
	bits := nBits - 1
	for i := 0; i < half; i++ {
		s.bitrev[i] = reverseBits(i, bits)
	}

	s.twR = make([]float64, half/2+1)
	s.twI = make([]float64, half/2+1)

	for i := 0; i <= half/2; i++ {
		ang := -2 * math.Pi * float64(i) / float64(half)
		s.twR[i] = math.Cos(ang)
		s.twI[i] = math.Sin(ang)
	}

	return s
}

func reverseBits(v, bits int) int {
	r := 0
	for i := 0; i < bits; i++ {
		r = (r << 1) | (v & 1)
		v >>= 1
	}

	return r
}

// inverse runs the IRDFT of spec §4.4.2 in place on data (length n,
// interpreted as n/2 complex pairs after the pre-shuffle step).
func (s *fftState) inverse(data []float64) {
	half := len(data) / 2

	d0 := data[0]
	d1 := data[1]
	data[0] = (d0 + d1) / 2
	data[1] = (d0 - d1) / 2

	quarter := half / 2

	for i := 1; i < quarter; i++ {
		i1 := 2 * i
		i2 := len(data) - i1

		a := data[i1]
		b := data[i2]
		c := data[i1+1]
		d := data[i2+1]

		evenRe := (a + b) / 2
		oddIm := (a - b) / 2
		evenIm := (c - d) / 2
		oddRe := -(c + d) / 2

		ang := float64(i) * s.irTheta
		cs := math.Cos(ang)
		sn := math.Sin(ang)

		data[i1] = evenRe + oddRe*cs - oddIm*sn
		data[i1+1] = evenIm + oddIm*cs + oddRe*sn
		data[i2] = evenRe - oddRe*cs + oddIm*sn
		data[i2+1] = -evenIm + oddIm*cs + oddRe*sn
	}

	s.fft(data)
}

// fft runs an in-place radix-2 decimation-in-time complex FFT over data,
// reinterpreted as s.n complex pairs (data[2k], data[2k+1]).
func (s *fftState) fft(data []float64) {
	n := s.n

	for i := 0; i < n; i++ {
		j := s.bitrev[i]
		if j > i {
			data[2*i], data[2*j] = data[2*j], data[2*i]
			data[2*i+1], data[2*j+1] = data[2*j+1], data[2*i+1]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		twStep := n / size

		for base := 0; base < n; base += size {
			for k := 0; k < half; k++ {
				wr := s.twR[k*twStep]
				wi := s.twI[k*twStep]

				evenIdx := base + k
				oddIdx := evenIdx + half

				er := data[2*evenIdx]
				ei := data[2*evenIdx+1]
				or := data[2*oddIdx]
				oi := data[2*oddIdx+1]

				tr := wr*or - wi*oi
				ti := wr*oi + wi*or

				data[2*evenIdx] = er + tr
				data[2*evenIdx+1] = ei + ti
				data[2*oddIdx] = er - tr
				data[2*oddIdx+1] = ei - ti
			}
		}
	}
}
