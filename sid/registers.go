package sid

// Waveform control bits (waveform register, bits MSB to LSB).
const (
	waveNoise    = 0x80
	wavePulse    = 0x40
	waveSawtooth = 0x20
	waveTriangle = 0x10
	waveTest     = 0x08
	waveRingMod  = 0x04
	waveSync     = 0x02
	waveGate     = 0x01
)

// VoiceRegisters is the register image of a single voice, as the host
// would present it for one buffer_samples call.
type VoiceRegisters struct {
	Freq     uint16 // 16-bit frequency / accumulator increment
	Pulse    uint16 // 12-bit pulse width (only low 12 bits used)
	Waveform uint8  // waveform control register
	AD       uint8  // attack (high nibble) / decay (low nibble)
	SR       uint8  // sustain (high nibble) / release (low nibble)
}

// RegisterSnapshot is the read-only register image a caller supplies to
// Engine.BufferSamples for one call. It is valid only for the duration
// of that call.
type RegisterSnapshot struct {
	Voice      [3]VoiceRegisters
	Cutoff     uint8 // 8-bit filter cutoff (low byte of the 11-bit register)
	FilterCtrl uint8 // low 3 bits route voices into filter, high nibble = resonance index
	Volume     uint8 // low nibble = master volume 0..15, 0x10/0x20/0x40 select LP/BP/HP
}
