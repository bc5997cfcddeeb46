// Package textcodec turns raw downloaded bytes into text using a fixed
// fallback chain: UTF-8, then GBK, then ISO-8859-1.
package textcodec

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// Charset names the decoder that produced the text.
type Charset string

const (
	UTF8   Charset = "utf-8"
	GBK    Charset = "gbk"
	Latin1 Charset = "iso-8859-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts raw bytes to text. It never fails.
func Decode(raw []byte) string {
	text, _ := DecodeWithCharset(raw)
	return text
}

// DecodeWithCharset converts raw bytes to text and reports which charset
// was accepted.
func DecodeWithCharset(raw []byte) (string, Charset) {
	if utf8.Valid(raw) {
		return string(bytes.TrimPrefix(raw, utf8BOM)), UTF8
	}

	if text, ok := decodeStrict(simplifiedchinese.GBK, raw); ok {
		return text, GBK
	}

	return decodeLatin1(raw), Latin1
}

// decodeStrict decodes with enc and rejects output carrying U+FFFD, which
// x/text emits for byte sequences invalid in the source charset.
func decodeStrict(enc encoding.Encoding, raw []byte) (string, bool) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}
	text := string(out)
	if strings.ContainsRune(text, utf8.RuneError) {
		return "", false
	}
	return text, true
}

func decodeLatin1(raw []byte) string {
	if out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw); err == nil {
		return string(out)
	}

	// ISO-8859-1 maps every byte to the code point of the same value
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}
