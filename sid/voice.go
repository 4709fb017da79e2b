package sid

// envelopeState is the ADSR state machine position for a voice.
type envelopeState int

const (
	stateAttack envelopeState = iota
	stateDecay
	stateRelease
)

// Voice is one of the chip's three oscillator/envelope generators. It is a
// pure function of its own register image plus its sync peers; the Chip
// owns storage for all three voices and wires syncTarget/syncSource as
// pointers into its own voice array, forming a ring (see DESIGN.md,
// "sid/chip.go").
type Voice struct {
	frequency  uint16
	pulseWidth uint16
	waveform   uint8
	ad         uint8
	sr         uint8

	state envelopeState

	accumulator uint32 // 24-bit phase, wraps mod 2^24
	noiseLFSR   uint32 // 23-bit noise register

	adsrCounter    uint16 // 15-bit counter
	adsrExpCounter uint8
	volumeLevel    uint8

	// doSync is set true iff the accumulator's bit 23 transitioned 0->1
	// in any sub-step of the last clock() call; several crossings within
	// one clock() batch collapse into a single sync pulse.
	doSync bool

	syncTarget *Voice // voice this one resets on sync
	syncSource *Voice // voice this one XORs against for ring modulation
}

// reset puts the voice back into its power-on state: RELEASE, seeded
// LFSR, zeroed counters and register image.
func (v *Voice) reset() {
	*v = Voice{
		state:      stateRelease,
		noiseLFSR:  0x7FFFF8,
		syncTarget: v.syncTarget,
		syncSource: v.syncSource,
	}
}

// currentRate selects the ADSR rate-table index for the voice's current
// envelope state.
func (v *Voice) currentRate() uint16 {
	switch v.state {
	case stateAttack:
		return adsrRateTable[v.ad>>4]
	case stateDecay:
		return adsrRateTable[v.ad&0xF]
	default: // stateRelease
		return adsrRateTable[v.sr&0xF]
	}
}

// clock advances the voice by a positive number of host CPU cycles,
// stepping the gate/ADSR state machine and the phase accumulator in
// lockstep, per spec.md §4.1.
func (v *Voice) clock(cycles int) {
	if cycles <= 0 {
		return
	}

	v.resolveGate()
	v.stepADSR(cycles)
	v.stepAccumulator(cycles)
}

// resolveGate implements the gate-edge rules: gate=1 while RELEASE moves
// to ATTACK; gate=0 always forces RELEASE, abandoning attack/decay
// immediately.
func (v *Voice) resolveGate() {
	gate := v.waveform&waveGate != 0
	if gate {
		if v.state == stateRelease {
			v.state = stateAttack
		}
	} else {
		v.state = stateRelease
	}
}

// stepADSR consumes cycles into the 15-bit rate counter, firing one
// envelope step each time the counter reaches the current rate.
func (v *Voice) stepADSR(cycles int) {
	remaining := cycles
	for remaining > 0 {
		rate := v.currentRate()

		var needed int
		if v.adsrCounter < rate {
			needed = int(rate - v.adsrCounter)
		} else {
			needed = int(0x8000) + int(rate) - int(v.adsrCounter)
		}

		step := remaining
		if needed < step {
			step = needed
		}

		v.adsrCounter = uint16((uint32(v.adsrCounter) + uint32(step)) % 0x8000)
		remaining -= step

		if step == needed {
			v.adsrCounter = 0
			v.envelopeStep()
		}
	}
}

// envelopeStep applies one ADSR envelope transition, per spec.md §4.1.
func (v *Voice) envelopeStep() {
	switch v.state {
	case stateAttack:
		v.adsrExpCounter = 0
		v.volumeLevel++
		if v.volumeLevel == 0xFF {
			v.state = stateDecay
		}
	case stateDecay:
		v.adsrExpCounter++
		target := expTargetFor(v.volumeLevel)
		if v.volumeLevel >= 0x5D {
			target = 1
		}
		if v.adsrExpCounter >= target {
			v.adsrExpCounter = 0
			if v.volumeLevel > sustainLevel[v.sr>>4] {
				v.volumeLevel--
			}
		}
	case stateRelease:
		if v.volumeLevel > 0 {
			target := expTargetFor(v.volumeLevel)
			if v.volumeLevel >= 0x5D {
				target = 1
			}
			v.adsrExpCounter++
			if v.adsrExpCounter >= target {
				v.adsrExpCounter = 0
				v.volumeLevel--
			}
		}
	}
}

const (
	accumMask      = 0xFFFFFF // 24-bit
	accumBit19     = 0x80000
	accumBit19Wrap = 0x180000
	accumBit23     = 0x800000
	accumBit23Wrap = 0x1800000
)

// stepAccumulator advances the 24-bit phase accumulator by `cycles`
// cycles, handling the test bit, the frequency==0 freeze, and the
// fast/slow path split from spec.md §4.1 point 3.
func (v *Voice) stepAccumulator(cycles int) {
	if v.waveform&waveTest != 0 {
		v.accumulator = 0
		return
	}
	if v.frequency == 0 {
		return
	}

	needsSlowPath := v.waveform&waveNoise != 0 ||
		(v.syncTarget != nil && v.syncTarget.waveform&waveSync != 0)

	if !needsSlowPath {
		v.accumulator = (v.accumulator + uint32(v.frequency)*uint32(cycles)) & accumMask
		v.doSync = false
		return
	}

	v.stepAccumulatorSlow(cycles)
}

// stepAccumulatorSlow advances the accumulator in sub-intervals bounded
// by the next noise-clock (bit 19) or sync (bit 23) crossing, so both
// events are observed exactly where they occur rather than only at the
// end of the cycle batch. The noise step-bound and LFSR clocking only
// apply when this voice's own waveform has the noise bit set: a voice
// that only took the slow path because its sync neighbor has the sync
// bit set must never touch its own LFSR (original_source/simple_sid.c's
// noise handling is gated the same way).
func (v *Voice) stepAccumulatorSlow(cycles int) {
	remaining := cycles
	freq := uint32(v.frequency)
	v.doSync = false
	noiseActive := v.waveform&waveNoise != 0

	for remaining > 0 {
		syncTarget := uint32(accumBit23)
		if v.accumulator >= accumBit23 {
			syncTarget = accumBit23Wrap
		}
		step := (syncTarget-v.accumulator)/freq + 1

		if noiseActive {
			low20 := v.accumulator & 0xFFFFF
			noiseTarget := uint32(accumBit19)
			if low20 >= accumBit19 {
				noiseTarget = accumBit19Wrap
			}
			noiseCycles := (noiseTarget-low20)/freq + 1
			if noiseCycles < step {
				step = noiseCycles
			}
		}

		if uint32(remaining) < step {
			step = uint32(remaining)
		}
		if step == 0 {
			step = 1
		}

		prevBit19 := v.accumulator&accumBit19 != 0
		prevBit23 := v.accumulator&accumBit23 != 0

		v.accumulator = (v.accumulator + freq*step) & accumMask
		remaining -= int(step)

		nowBit19 := v.accumulator&accumBit19 != 0
		nowBit23 := v.accumulator&accumBit23 != 0

		if noiseActive && !prevBit19 && nowBit19 {
			v.clockNoise()
		}
		if !prevBit23 && nowBit23 {
			v.doSync = true
		}
	}
}

// clockNoise advances the 23-bit noise LFSR by one step, per spec.md
// §4.1's noise-clock formula.
func (v *Voice) clockNoise() {
	step := (v.noiseLFSR & 0x400000) ^ ((v.noiseLFSR & 0x20000) << 5)
	bitIn := uint32(0)
	if step != 0 {
		bitIn = 1
	}
	v.noiseLFSR = ((v.noiseLFSR << 1) | bitIn) & 0x7FFFFF
}

// combinedWaveform approximates the real chip's analog AND-mixing of a
// pulse waveform with another 16-bit waveform, per spec.md §4.2 and
// original_source/simple_sid.c's shared combine helper.
func combinedWaveform(pulse, base uint16) uint16 {
	combo := pulse & base & (base >> 1) & (base << 1)
	v := uint32(combo) << 1
	if v > 0xFFFF {
		v = 0xFFFF
	}
	return uint16(v)
}

// noiseBitMap gives the fixed LFSR-bit -> output-bit mapping used to
// derive the 16-bit noise waveform sample.
var noiseBitMap = [8][2]uint8{
	{20, 15}, {18, 14}, {14, 11}, {11, 10},
	{9, 9}, {5, 7}, {2, 4}, {0, 3},
}

// waveformOutput computes the 16-bit unsigned waveform sample selected
// by the waveform register's high nibble, per spec.md §4.2.
func (v *Voice) waveformOutput() uint16 {
	a := v.accumulator
	nibble := v.waveform & 0xF0

	triangle := func() uint16 {
		t := a
		if v.waveform&waveRingMod != 0 && v.syncSource != nil {
			t ^= v.syncSource.accumulator
		}
		if t >= 0x800000 {
			t = a ^ 0xFFFFFF
		}
		return uint16((t >> 7) & 0xFFFF)
	}
	sawtooth := func() uint16 {
		return uint16((a >> 8) & 0xFFFF)
	}
	pulse := func() uint16 {
		if (a>>12) >= uint32(v.pulseWidth&0xFFF) {
			return 0xFFFF
		}
		return 0x0000
	}
	noise := func() uint16 {
		var out uint16
		for _, m := range noiseBitMap {
			if v.noiseLFSR&(1<<m[0]) != 0 {
				out |= 1 << m[1]
			}
		}
		return out
	}

	switch nibble {
	case waveTriangle:
		return triangle()
	case waveSawtooth:
		return sawtooth()
	case wavePulse:
		return pulse()
	case waveTriangle | wavePulse: // 0x50
		return combinedWaveform(pulse(), triangle())
	case waveSawtooth | wavePulse: // 0x60
		return combinedWaveform(pulse(), sawtooth())
	case waveTriangle | waveSawtooth | wavePulse: // 0x70
		base := triangle() & sawtooth()
		return combinedWaveform(pulse(), base)
	case waveNoise:
		return noise()
	default:
		return 0
	}
}

// output returns the voice's normalized sample in [-1, +1], scaled by
// the current envelope level, per spec.md §4.2.
func (v *Voice) output() float64 {
	if v.volumeLevel == 0 {
		return 0
	}

	waveOut := v.waveformOutput()
	signed := int32(waveOut) - 0x8000
	env := float64(v.volumeLevel) / 255.0
	return float64(signed) * env / 32768.0
}
