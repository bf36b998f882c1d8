package reader

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// decodeName converts an NK/VK name to UTF-8. Compressed names are
// Windows-1252, everything else is UTF-16LE.
func decodeName(raw []byte, compressed bool) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	if compressed {
		if isASCII(raw) {
			return string(raw), nil
		}
		out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("decode Windows-1252 name: %w", err)
		}
		return string(out), nil
	}
	if len(raw)%2 != 0 {
		return "", errors.New("utf-16 name has odd length")
	}
	out, err := utf16le.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode UTF-16LE name: %w", err)
	}
	return string(out), nil
}

// decodeUTF16Z decodes a NUL-terminated, NUL-padded UTF-16LE field such as
// the base block file name. Undecodable input yields "".
func decodeUTF16Z(raw []byte) string {
	for i := 0; i+1 < len(raw); i += 2 {
		if raw[i] == 0 && raw[i+1] == 0 {
			raw = raw[:i]
			break
		}
	}
	if len(raw)%2 != 0 {
		raw = raw[:len(raw)-1]
	}
	out, err := utf16le.NewDecoder().Bytes(raw)
	if err != nil {
		return ""
	}
	return string(bytes.TrimSpace(out))
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}
