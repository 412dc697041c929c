package logs

import (
	"encoding/json"
	"strings"
)

var levelRank = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
}

// Filter selects JSON log records. Empty fields match everything.
type Filter struct {
	Entry    string
	MinLevel string
}

// Match reports whether line passes the filter. Lines that are not JSON
// objects only pass an empty filter.
func (f Filter) Match(line string) bool {
	if f.Entry == "" && f.MinLevel == "" {
		return true
	}
	var record struct {
		Level string `json:"level"`
		Entry string `json:"entry"`
	}
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		return false
	}
	if f.Entry != "" && record.Entry != f.Entry {
		return false
	}
	if f.MinLevel != "" {
		want, ok := levelRank[strings.ToLower(f.MinLevel)]
		if !ok {
			return true
		}
		if levelRank[strings.ToLower(record.Level)] < want {
			return false
		}
	}
	return true
}

// Apply returns the lines that match f.
func (f Filter) Apply(lines []string) []string {
	out := lines[:0:0]
	for _, line := range lines {
		if f.Match(line) {
			out = append(out, line)
		}
	}
	return out
}
