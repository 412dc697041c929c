package segment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestFile is the per-entry manifest name.
const ManifestFile = "segments.json"

// Segment is one manifest record.
type Segment struct {
	Filename   string `json:"filename"`
	StartFrame int64  `json:"start_frame"`
	EndFrame   int64  `json:"end_frame"`
	StartMS    int64  `json:"start_ms"`
	EndMS      int64  `json:"end_ms"`
	AudioLang  string `json:"audio_lang"`
	TextLang   string `json:"text_lang"`
	Text       string `json:"text"`
}

// Manifest lists the segments of one entry in cue order.
type Manifest []Segment

// Filenames returns the set of clip names in m.
func (m Manifest) Filenames() map[string]struct{} {
	names := make(map[string]struct{}, len(m))
	for _, seg := range m {
		names[seg.Filename] = struct{}{}
	}
	return names
}

// EncodeManifest renders m as an indented JSON array with non-ASCII text left
// unescaped. A nil manifest encodes as [].
func EncodeManifest(m Manifest) ([]byte, error) {
	if m == nil {
		m = Manifest{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteManifest replaces dir/segments.json atomically.
func WriteManifest(dir string, m Manifest) error {
	data, err := EncodeManifest(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+ManifestFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("create manifest temp: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close manifest: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(dir, ManifestFile)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace manifest: %w", err)
	}
	return nil
}

// ReadManifest loads dir/segments.json.
func ReadManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m == nil {
		m = Manifest{}
	}
	return m, nil
}
