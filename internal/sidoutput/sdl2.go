//go:build sdl2

// Package sidoutput provides an optional live-playback backend for
// cmd/sidbench, built on the same SDL2 audio device wiring the teacher
// emulator uses in jeebie/backend/sdl2/sdl2.go's initAudio/
// queueAudioSamples. It is deliberately not the WAV-file writer spec.md
// places out of scope for the core engine - just a way to hear a
// rendered buffer during development.
package sidoutput

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

// Play opens an SDL2 audio device at sampleRate, queues the mono PCM
// buffer for playback, and blocks until it has finished draining.
func Play(sampleRate int, samples []int16) error {
	if len(samples) == 0 {
		return nil
	}

	if err := sdl.Init(sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("sdl init: %w", err)
	}
	defer sdl.Quit()

	spec := &sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  2048,
	}
	obtained := &sdl.AudioSpec{}
	device, err := sdl.OpenAudioDevice("", false, spec, obtained, 0)
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	defer sdl.CloseAudioDevice(device)

	sdl.PauseAudioDevice(device, false)
	if err := sdl.QueueAudio(device, int16SliceToBytes(samples)); err != nil {
		return fmt.Errorf("queue audio: %w", err)
	}

	for sdl.GetQueuedAudioSize(device) > 0 {
		sdl.Delay(20)
	}

	return nil
}

func int16SliceToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		out[i*2] = byte(uint16(s))
		out[i*2+1] = byte(uint16(s) >> 8)
	}
	return out
}
