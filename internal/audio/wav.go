package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrUnsupportedFormat reports WAV data this package cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported wav format")

const wavFormatPCM = 1

// ReadFile decodes a PCM WAV file into a normalized waveform.
func ReadFile(path string) (Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return Waveform{}, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return Waveform{}, fmt.Errorf("%s: %w: not a valid wav file", path, ErrUnsupportedFormat)
	}
	if decoder.WavAudioFormat != wavFormatPCM {
		return Waveform{}, fmt.Errorf("%s: %w: audio format %d", path, ErrUnsupportedFormat, decoder.WavAudioFormat)
	}
	depth := int(decoder.BitDepth)
	switch depth {
	case 16, 24, 32:
	default:
		return Waveform{}, fmt.Errorf("%s: %w: %d-bit samples", path, ErrUnsupportedFormat, depth)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return Waveform{}, fmt.Errorf("%s: read pcm: %w", path, err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 || buf.Format.NumChannels <= 0 {
		return Waveform{}, fmt.Errorf("%s: %w: missing format", path, ErrUnsupportedFormat)
	}

	scale := fullScale(depth)
	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v) / scale
	}
	return Waveform{
		Samples:    samples,
		Channels:   buf.Format.NumChannels,
		SampleRate: buf.Format.SampleRate,
		BitDepth:   depth,
	}, nil
}

// WriteFile encodes w as PCM WAV at its own rate, channel count and bit
// depth. The file is written beside path and renamed into place so readers
// never observe a partial file.
func WriteFile(path string, w Waveform) error {
	if w.SampleRate <= 0 {
		return fmt.Errorf("write %s: invalid sample rate %d", path, w.SampleRate)
	}
	depth := w.bitDepth()
	ch := w.channels()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	encoder := wav.NewEncoder(tmp, w.SampleRate, depth, ch, wavFormatPCM)
	if err := encoder.Write(toIntBuffer(w, depth, ch)); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := encoder.Close(); err != nil {
		cleanup()
		return fmt.Errorf("write %s: close encoder: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func toIntBuffer(w Waveform, depth, ch int) *audio.IntBuffer {
	scale := fullScale(depth)
	lo, hi := -scale, scale-1
	data := make([]int, len(w.Samples))
	for i, s := range w.Samples {
		v := math.Round(s * scale)
		if v < lo {
			v = lo
		}
		if v > hi {
			v = hi
		}
		data[i] = int(v)
	}
	return &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: ch,
			SampleRate:  w.SampleRate,
		},
		Data:           data,
		SourceBitDepth: depth,
	}
}

func fullScale(depth int) float64 {
	return math.Ldexp(1, depth-1)
}
