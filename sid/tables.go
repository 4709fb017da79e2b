package sid

// adsrRateTable maps a 4-bit rate index (attack: ad>>4, decay: ad&0xF,
// release: sr&0xF) to the number of cycles the 15-bit adsrCounter must
// count before an envelope step fires. Values are the standard SID rate
// periods; see spec.md §4.1.
var adsrRateTable = [16]uint16{
	9, 32, 63, 95, 149, 220, 267, 313,
	392, 977, 1954, 3126, 3907, 11720, 19532, 31251,
}

// sustainLevel maps a 4-bit sustain index (sr>>4) to the 8-bit envelope
// level at which DECAY stops falling. sustainLevel[i] = (i<<4)|i so the
// nibble is replicated into both halves of the byte.
var sustainLevel = [16]uint8{
	0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
	0x88, 0x99, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF,
}

// expTarget piecewise-approximates the real chip's exponential decay
// curve: the higher the current envelope level, the more adsrCounter
// ticks must elapse before the next one-unit decrement, indexed by
// volumeLevel. Boundaries: 1 at level 0, 30 for 1-5, 16 for 6-13,
// 8 for 14-25, 4 for 26-53, 2 for 54-92, 1 from 93 up (spec.md uses
// 0x5D = 93 as the "1" threshold).
var expTarget = func() [256]uint8 {
	var t [256]uint8
	t[0] = 1
	for i := 1; i <= 5; i++ {
		t[i] = 30
	}
	for i := 6; i <= 13; i++ {
		t[i] = 16
	}
	for i := 14; i <= 25; i++ {
		t[i] = 8
	}
	for i := 26; i <= 53; i++ {
		t[i] = 4
	}
	for i := 54; i <= 92; i++ {
		t[i] = 2
	}
	for i := 93; i <= 255; i++ {
		t[i] = 1
	}
	return t
}()

// expTargetFor returns the exponential-decay pacing target for the
// given envelope level, per spec.md §4.1's "or 1 when volume_level >=
// 0x5D" clause (already folded into the table above).
func expTargetFor(volumeLevel uint8) uint8 {
	return expTarget[volumeLevel]
}
