package audio

import (
	"testing"
	"time"
)

func TestSliceClampsToBounds(t *testing.T) {
	w := Waveform{Samples: []float64{0, 1, 2, 3, 4, 5}, Channels: 2, SampleRate: 2}
	tests := []struct {
		name       string
		start, end int
		want       []float64
	}{
		{name: "inside", start: 1, end: 2, want: []float64{2, 3}},
		{name: "past end", start: 2, end: 10, want: []float64{4, 5}},
		{name: "fully past end", start: 5, end: 9, want: []float64{}},
		{name: "negative start", start: -3, end: 1, want: []float64{0, 1}},
		{name: "inverted", start: 2, end: 1, want: []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.Slice(tt.start, tt.end)
			if len(got.Samples) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got.Samples), len(tt.want))
			}
			for i := range got.Samples {
				if got.Samples[i] != tt.want[i] {
					t.Fatalf("samples = %v, want %v", got.Samples, tt.want)
				}
			}
			if got.Channels != 2 || got.SampleRate != 2 {
				t.Fatalf("format not preserved: %+v", got)
			}
		})
	}
}

func TestDownmixAveragesChannels(t *testing.T) {
	w := Waveform{Samples: []float64{1, 0, 0.5, 0.5, -1, 1}, Channels: 2, SampleRate: 8000, BitDepth: 24}
	mono := Downmix(w)
	want := []float64{0.5, 0.5, 0}
	if mono.Channels != 1 || mono.SampleRate != 8000 || mono.BitDepth != 24 {
		t.Fatalf("unexpected format: %+v", mono)
	}
	for i, v := range want {
		if mono.Samples[i] != v {
			t.Fatalf("samples = %v, want %v", mono.Samples, want)
		}
	}
}

func TestDuration(t *testing.T) {
	w := Waveform{Samples: make([]float64, 32000), Channels: 2, SampleRate: 16000}
	if got := w.Duration(); got != time.Second {
		t.Fatalf("duration = %v", got)
	}
	if w.Frames() != 16000 {
		t.Fatalf("frames = %d", w.Frames())
	}
}
