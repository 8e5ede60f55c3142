package ingest

import (
	"bytes"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeText returns data as a string. Content is UTF-8 unless it starts with
// a UTF-16 byte order mark. A UTF-8 BOM is dropped.
func decodeText(data []byte) (string, error) {
	if bytes.HasPrefix(data, bomUTF16LE) || bytes.HasPrefix(data, bomUTF16BE) {
		// The decoder substitutes U+FFFD instead of failing, so reject bad input first.
		if !validUTF16(data) {
			return "", newError(KindDecode, "invalid UTF-16", nil)
		}
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, data)
		if err != nil {
			return "", newError(KindDecode, "invalid UTF-16", err)
		}
		return string(out), nil
	}

	data = bytes.TrimPrefix(data, bomUTF8)
	if !utf8.Valid(data) {
		return "", newError(KindDecode, "invalid UTF-8", nil)
	}
	return string(data), nil
}

// validUTF16 reports whether data, starting with a UTF-16 BOM, holds whole
// code units with every surrogate correctly paired.
func validUTF16(data []byte) bool {
	littleEndian := bytes.HasPrefix(data, bomUTF16LE)
	body := data[2:]
	if len(body)%2 != 0 {
		return false
	}
	unit := func(i int) rune {
		if littleEndian {
			return rune(body[i]) | rune(body[i+1])<<8
		}
		return rune(body[i])<<8 | rune(body[i+1])
	}
	for i := 0; i < len(body); i += 2 {
		u := unit(i)
		if !utf16.IsSurrogate(u) {
			continue
		}
		// A high surrogate (D800-DBFF) must be followed by a low one (DC00-DFFF).
		if u >= 0xDC00 || i+2 >= len(body) {
			return false
		}
		next := unit(i + 2)
		if next < 0xDC00 || next > 0xDFFF {
			return false
		}
		i += 2
	}
	return true
}
