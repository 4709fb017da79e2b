package sid

// Chip owns the three voices and the shared filter, and paces cycle
// consumption against sample emission. It is the arena for the voice
// ring: the voices live inline in Chip, and Chip points each voice's
// syncTarget/syncSource at the appropriate sibling in that array once,
// at construction (spec.md §3, §9 "cyclic voice topology").
type Chip struct {
	voices [3]Voice
	filter Filter

	cyclesPerSample  float64
	cycleAccumulator float64
}

// sidCyclesPerFrame is the PAL chip clock in cycles per second (63 cycles
// per line * 312 lines * 50 Hz); init derives cycles-per-sample as this
// value / sampleRate.
const sidCyclesPerFrame = 63 * 312 * 50

// NewChip constructs a Chip paced for the given host sample rate and
// puts it in its quiescent power-on state.
func NewChip(sampleRate int) *Chip {
	c := &Chip{}
	c.init(sampleRate)
	return c
}

// init wires the voice sync ring and resets all mutable state, per
// spec.md §4.5. Calling it twice yields the same state as calling it
// once (spec.md §8, "idempotence of re-init").
func (c *Chip) init(sampleRate int) {
	for i := range c.voices {
		c.voices[i].syncTarget = &c.voices[(i+1)%3]
		c.voices[i].syncSource = &c.voices[(i+2)%3]
	}
	c.cyclesPerSample = float64(sidCyclesPerFrame) / float64(sampleRate)
	c.Reset()
}

// Reset zeroes all mutable chip and voice state without reallocating or
// disturbing the sync wiring, restoring the chip to its power-on
// condition. This is the re-init entry point spec.md §8's idempotence
// property implies must exist independently of construction (see
// SPEC_FULL.md, "Supplemented features").
func (c *Chip) Reset() {
	for i := range c.voices {
		c.voices[i].reset()
	}
	c.filter.reset()
	c.cycleAccumulator = 0
}

// applyRegisters copies a register snapshot's per-voice fields into the
// chip's voice register images, per spec.md §4.4 step 1.
func (c *Chip) applyRegisters(regs *RegisterSnapshot) {
	for i := range c.voices {
		v := &c.voices[i]
		r := regs.Voice[i]
		v.frequency = r.Freq
		v.pulseWidth = r.Pulse
		v.waveform = r.Waveform
		v.ad = r.AD
		v.sr = r.SR
	}
}

// clockVoices advances all three voices by `step` cycles and then
// applies any hard-sync resets observed during that step, per spec.md
// §4.4 steps b-c. Sync application happens after all voices have been
// clocked so that a sync observed this step resets its target before
// the next step, but never mid-step.
func (c *Chip) clockVoices(step int) {
	for i := range c.voices {
		c.voices[i].clock(step)
	}
	for i := range c.voices {
		v := &c.voices[i]
		if v.doSync && v.syncTarget.waveform&waveSync != 0 {
			v.syncTarget.accumulator = 0
		}
	}
}
