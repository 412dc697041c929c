package testsupport

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"teasers/internal/audio"
)

// WriteFile writes size filler bytes to path, at least one.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()
	WriteText(t, path, strings.Repeat("B", int(max(size, 1))))
}

// Tone builds a waveform of frames sample frames holding a 440 Hz sine on
// every channel.
func Tone(frames, channels, rate int) audio.Waveform {
	if channels <= 0 {
		channels = 1
	}
	samples := make([]float64, frames*channels)
	for i := range frames {
		v := 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(rate))
		for c := range channels {
			samples[i*channels+c] = v
		}
	}
	return audio.Waveform{Samples: samples, Channels: channels, SampleRate: rate, BitDepth: audio.DefaultBitDepth}
}

// WriteWAV writes a tone of the given length to path and returns it.
func WriteWAV(t testing.TB, path string, frames, channels, rate int) audio.Waveform {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	w := Tone(frames, channels, rate)
	if err := audio.WriteFile(path, w); err != nil {
		t.Fatalf("write wav %s: %v", path, err)
	}
	return w
}

// WriteText writes content to path, creating parent directories.
func WriteText(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
