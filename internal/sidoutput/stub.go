//go:build !sdl2

package sidoutput

import "fmt"

// Play is a stub used when the module is built without SDL2 development
// libraries available (the default). Build with -tags sdl2 to enable
// live playback.
func Play(sampleRate int, samples []int16) error {
	return fmt.Errorf("sdl2 playback not available - build with -tags sdl2")
}
