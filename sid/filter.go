package sid

import (
	"math"

	"github.com/go-sid/sid65xx/sid/bit"
)

// Filter is the shared 2-pole state-variable multi-mode filter fed by
// whichever voices are routed into it. Its low/band integrator states
// are shared across all voices; high-pass is derived per sample rather
// than stored, per spec.md §4.3.
type Filter struct {
	low  float64
	band float64
}

// reset zeroes the filter's integrator state.
func (f *Filter) reset() {
	f.low = 0
	f.band = 0
}

// sat is the filter's soft-clip saturation polynomial.
func sat(x float64) float64 {
	return x - (x*x*x)/6.0
}

// step runs one sample of the state-variable topology and returns the
// low/band/high taps, per spec.md §4.3:
//
//	input   = in - resonance*band
//	low    += sat(cutoff*band)
//	band   += sat(cutoff*(input-low))
//	high    = input - low - band
func (f *Filter) step(in, cutoffNorm, resonance float64) (low, band, high float64) {
	input := in - resonance*f.band
	f.low += sat(cutoffNorm * f.band)
	f.band += sat(cutoffNorm * (input - f.low))
	high = input - f.low - f.band
	return f.low, f.band, high
}

// cutoffNorm maps the 8-bit register cutoff value to the filter's
// normalized cutoff coefficient, per spec.md §4.3.
func cutoffNorm(cutoff uint8) float64 {
	c := (float64(cutoff)/255.0 - 0.5) * math.Pi
	raw := 0.05 + 0.85*(math.Sin(c)*0.5+0.5)
	return math.Pow(raw, 1.3)
}

// resonanceFromCtrl maps the filter_ctrl register to the resonance
// feedback coefficient, per spec.md §4.3.
func resonanceFromCtrl(filterCtrl uint8) float64 {
	if bit.IsSet(6, filterCtrl) || bit.IsSet(7, filterCtrl) {
		r := bit.ExtractBits(filterCtrl, 7, 4)
		if r != 0 {
			return 7.0 / float64(r)
		}
	}
	return 1.75
}
