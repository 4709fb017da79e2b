package sid

import "github.com/go-sid/sid65xx/sid/bit"

// Engine is the top-level entry point: it owns a Chip and turns a
// register snapshot plus a CPU-cycle budget into a stream of PCM
// samples, per spec.md §4.4.
type Engine struct {
	chip *Chip
}

// NewEngine creates an Engine paced for the given host sample rate,
// with its Chip in the quiescent power-on state.
func NewEngine(sampleRate int) *Engine {
	return &Engine{chip: NewChip(sampleRate)}
}

// Reset restores the engine's Chip to its power-on state.
func (e *Engine) Reset() {
	e.chip.Reset()
}

// BufferSamples ingests a register snapshot and a CPU-cycle budget,
// advances the chip in cycle-sized steps honoring sync/noise sub-step
// boundaries, mixes and filters per emitted sample, and writes up to
// maxSamples signed 16-bit PCM samples into out. It returns the number
// of samples actually written.
//
// Non-positive cpuCycles or maxSamples is a contract violation per
// spec.md §7: BufferSamples returns 0 with no side effects.
func (e *Engine) BufferSamples(cpuCycles int, regs *RegisterSnapshot, out []int16, maxSamples int) int {
	if cpuCycles <= 0 || maxSamples <= 0 {
		return 0
	}

	c := e.chip
	c.applyRegisters(regs)

	masterVol := float64(bit.ExtractBits(regs.Volume, 3, 0)) / 22.5
	lpOn := bit.IsSet(4, regs.Volume)
	bpOn := bit.IsSet(5, regs.Volume)
	hpOn := bit.IsSet(6, regs.Volume)
	cutoff := cutoffNorm(regs.Cutoff)
	resonance := resonanceFromCtrl(regs.FilterCtrl)

	outIndex := 0
	remaining := cpuCycles

	for remaining > 0 && outIndex < maxSamples {
		needed := c.cyclesPerSample - c.cycleAccumulator
		if needed < 0 {
			needed = 0
		}
		step := ceilInt(needed)
		if step == 0 {
			step = 1
		}
		if step > remaining {
			step = remaining
		}

		c.clockVoices(step)
		c.cycleAccumulator += float64(step)
		remaining -= step

		if c.cycleAccumulator >= c.cyclesPerSample {
			c.cycleAccumulator -= c.cyclesPerSample

			var direct, filterIn float64
			for i := range c.voices {
				sample := c.voices[i].output()
				if bit.IsSet(uint8(i), regs.FilterCtrl) {
					filterIn += sample
				} else {
					direct += sample
				}
			}

			low, band, high := c.filter.step(filterIn, cutoff, resonance)
			if lpOn {
				direct += low
			}
			if bpOn {
				direct += band
			}
			if hpOn {
				direct += high
			}

			sample := direct * masterVol
			if sample > 1 {
				sample = 1
			} else if sample < -1 {
				sample = -1
			}

			out[outIndex] = int16(sample * 32767)
			outIndex++
		}
	}

	return outIndex
}

// ceilInt returns the ceiling of a non-negative float as an int. The
// float cycle_accumulator itself is never rounded (spec.md §9, open
// question (c)) - only the per-step cycle budget derived from it is.
func ceilInt(x float64) int {
	i := int(x)
	if float64(i) < x {
		i++
	}
	return i
}
