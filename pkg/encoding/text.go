// Package encoding provides text decoding for mesh source files.
package encoding

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownCharset is returned for charset names DecodeText does not support.
var ErrUnknownCharset = errors.New("unknown charset")

// Supported charset names.
const (
	CharsetUTF8  = "utf-8"
	CharsetUTF16 = "utf-16"
	CharsetEUCKR = "euc-kr"
)

// Charsets lists the names accepted by DecodeText.
var Charsets = []string{CharsetUTF8, CharsetUTF16, CharsetEUCKR}

// DecodeText converts raw file bytes to a UTF-8 string.
//
// An empty charset means UTF-8. For UTF-8 and UTF-16 a leading byte order
// mark is honoured and stripped, so exporters that write one still parse.
func DecodeText(data []byte, charset string) (string, error) {
	dec, err := decoder(charset)
	if err != nil {
		return "", err
	}
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", charsetName(charset), err)
	}
	return string(out), nil
}

func decoder(charset string) (*encoding.Decoder, error) {
	switch charsetName(charset) {
	case CharsetUTF8:
		return unicode.UTF8BOM.NewDecoder(), nil
	case CharsetUTF16:
		// Little endian unless a BOM says otherwise (Windows exporters)
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder(), nil
	case CharsetEUCKR:
		return korean.EUCKR.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, charset)
	}
}

// charsetName normalizes user-supplied charset names.
func charsetName(charset string) string {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf8", "utf-8", "ascii":
		return CharsetUTF8
	case "utf16", "utf-16", "utf-16le":
		return CharsetUTF16
	case "euckr", "euc-kr", "cp949":
		return CharsetEUCKR
	default:
		return charset
	}
}
