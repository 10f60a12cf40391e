package tabular

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names reported by DecodeText.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
)

// DecodeText converts raw file content to a string. UTF-8, with or without a
// byte order mark, is tried first; anything else is read as Windows-1252,
// which accepts every byte sequence that Latin-1 exports produce.
func DecodeText(data []byte) (text, encoding string, err error) {
	if utf8.Valid(data) {
		out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
		if err != nil {
			return "", "", fmt.Errorf("decode utf-8: %w", err)
		}
		return string(out), EncodingUTF8, nil
	}

	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("decode windows-1252: %w", err)
	}
	return string(out), EncodingWindows1252, nil
}
