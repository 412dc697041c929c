package subtitles

import "testing"

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "00:00:01,500", want: 1500},
		{in: "00:00:01.500", want: 1500},
		{in: "01:02.250", want: 62250},
		{in: "0:00:04.87", want: 4870},
		{in: "0:00:04.8", want: 4800},
		{in: "100:00:00.000", want: 360000000},
		{in: "00:00:05", want: 5000},
		{in: "  00:00:05.000 ", want: 5000},
		{in: "00:60.000", wantErr: true},
		{in: "00:00:01.5000", wantErr: true},
		{in: "1.5", wantErr: true},
		{in: "aa:bb:cc", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseTimestamp(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("parseTimestamp(%q) expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("parseTimestamp(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		raw    string
		format Format
		want   string
	}{
		{raw: "<b>bold</b>\n  spaced   out ", format: FormatSRT, want: "bold spaced out"},
		{raw: "a &lt;b&gt; &amp; c", format: FormatVTT, want: "a <b> & c"},
		{raw: "{\\pos(1,2)}line one\\Nline two", format: FormatASS, want: "line one line two"},
		{raw: "\n\n", format: FormatVTT, want: ""},
	}
	for _, tt := range tests {
		if got := plainText(tt.raw, tt.format); got != tt.want {
			t.Fatalf("plainText(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
