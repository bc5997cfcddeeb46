// Package textclean detects and strips garbage left behind when text was
// decoded with the wrong charset.
package textclean

import (
	"strings"
	"unicode"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Pattern names reported by Detect.
const (
	PatternSignature    = "garbled-signature"
	PatternControl      = "control-characters"
	PatternSpecialRun   = "special-character-run"
	PatternPrivateUse   = "private-use-codepoints"
	minSuspiciousRunLen = 5
)

// mojibakeTriple is what UTF-8 FFFD bytes look like when read back as GBK.
const mojibakeTriple = "锟斤拷"

// Runes that only show up in text decoded with the wrong charset.
var signatureRunes = []rune{'\uFFFD', 'Ʈ', 'Ů'}

type Detection struct {
	HasGarbled bool     `json:"hasGarbled"`
	Severity   Severity `json:"severity"`
	Patterns   []string `json:"patterns"`
}

// Detect classifies text without modifying it.
func Detect(text string) Detection {
	var (
		hasSignature  bool
		hasControl    bool
		hasPrivateUse bool
		hasRun        bool
		run           int
	)

	if strings.Contains(text, mojibakeTriple) {
		hasSignature = true
	}

	for _, r := range text {
		switch {
		case isSignature(r):
			hasSignature = true
		case isControl(r):
			hasControl = true
		case isPrivateOrSpecial(r):
			hasPrivateUse = true
		}

		if isAllowed(r) {
			run = 0
			continue
		}
		run++
		if run >= minSuspiciousRunLen {
			hasRun = true
		}
	}

	d := Detection{Severity: SeverityLow, Patterns: []string{}}
	if hasSignature {
		d.Patterns = append(d.Patterns, PatternSignature)
	}
	if hasControl {
		d.Patterns = append(d.Patterns, PatternControl)
	}
	if hasRun {
		d.Patterns = append(d.Patterns, PatternSpecialRun)
	}
	if hasPrivateUse {
		d.Patterns = append(d.Patterns, PatternPrivateUse)
	}

	switch {
	case hasSignature || hasControl:
		d.Severity = SeverityHigh
	case hasRun || hasPrivateUse:
		d.Severity = SeverityMedium
	}
	d.HasGarbled = d.Severity != SeverityLow

	return d
}

func isSignature(r rune) bool {
	for _, s := range signatureRunes {
		if r == s {
			return true
		}
	}
	return false
}

// isControl matches C0 (except tab, newline, carriage return), DEL and C1.
func isControl(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20:
		return true
	case r >= 0x7F && r <= 0x9F:
		return true
	}
	return false
}

// isPrivateOrSpecial matches private-use code points and the Specials block
// except U+FFFD, which is handled as a signature.
func isPrivateOrSpecial(r rune) bool {
	if r == '\uFFFD' {
		return false
	}
	if r >= 0xFFF0 && r <= 0xFFFF {
		return true
	}
	return unicode.Is(unicode.Co, r)
}

func isAllowed(r rune) bool {
	switch {
	case r >= 0x20 && r <= 0x7E:
		return true
	case unicode.IsSpace(r):
		return true
	case r >= 0x4E00 && r <= 0x9FFF: // CJK unified ideographs
		return true
	case r >= 0x3400 && r <= 0x4DBF: // CJK extension A
		return true
	case r >= 0x3000 && r <= 0x303F: // CJK symbols and punctuation
		return true
	case r >= 0x3040 && r <= 0x30FF: // hiragana, katakana
		return true
	case r >= 0xAC00 && r <= 0xD7AF: // hangul syllables
		return true
	case r >= 0xFF00 && r <= 0xFFEF: // halfwidth and fullwidth forms
		return true
	}
	return unicode.IsPunct(r)
}
