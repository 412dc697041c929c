package subtitles

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"teasers/internal/services"
)

// DefaultEncoding is assumed when callers pass an empty encoding name.
const DefaultEncoding = "utf-8"

// Read loads the subtitle document at path, decoding it from the named text
// encoding (any WHATWG label such as "utf-8" or "windows-1251").
func Read(path, encodingName string) ([]Cue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrEntryIO, "", "read subtitles", path, err)
	}
	text, err := Decode(data, encodingName)
	if err != nil {
		return nil, withPath(err, path)
	}
	format := DetectFormat(path, []byte(text))
	cues, err := Parse(text, format)
	if err != nil {
		return nil, withPath(err, path)
	}
	return cues, nil
}

// Parse parses already decoded subtitle text in the given format.
func Parse(text string, format Format) ([]Cue, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	switch format {
	case FormatVTT:
		return parseVTT(lines)
	case FormatSRT:
		return parseSRT(lines)
	case FormatASS:
		return parseASS(lines)
	default:
		return nil, parseErrorf(0, "unrecognized subtitle format")
	}
}

// Decode converts raw bytes in the named encoding to a UTF-8 string.
func Decode(data []byte, encodingName string) (string, error) {
	name := strings.TrimSpace(encodingName)
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", parseErrorf(0, "unknown encoding %q", name)
	}
	if isUTF8(enc) {
		data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
		if !utf8.Valid(data) {
			return "", parseErrorf(0, "content is not valid %s", name)
		}
		return string(data), nil
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", parseErrorf(0, "decode %s: %v", name, err)
	}
	return string(decoded), nil
}

func isUTF8(enc encoding.Encoding) bool {
	return enc == unicode.UTF8 || enc == encoding.Nop
}

func withPath(err error, path string) error {
	var perr *ParseError
	if errors.As(err, &perr) {
		perr.Path = path
		return perr
	}
	return fmt.Errorf("%s: %w", path, err)
}
