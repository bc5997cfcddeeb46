package textclean

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		severity Severity
		patterns []string
	}{
		{
			name:     "clean chinese text",
			input:    "第一章 陨落的天才\n“斗之力，三段！”",
			severity: SeverityLow,
			patterns: []string{},
		},
		{
			name:     "replacement character",
			input:    "abc\uFFFDdef",
			severity: SeverityHigh,
			patterns: []string{PatternSignature},
		},
		{
			name:     "mojibake triple",
			input:    "正文锟斤拷锟斤拷",
			severity: SeverityHigh,
			patterns: []string{PatternSignature},
		},
		{
			name:     "control characters",
			input:    "hello\x01world",
			severity: SeverityHigh,
			patterns: []string{PatternControl},
		},
		{
			name:     "tabs and newlines are fine",
			input:    "a\tb\r\nc",
			severity: SeverityLow,
			patterns: []string{},
		},
		{
			name:     "long run of latin-1 junk",
			input:    "text ÃÂÃÂÃ text",
			severity: SeverityMedium,
			patterns: []string{PatternSpecialRun},
		},
		{
			name:     "short disallowed run",
			input:    "café",
			severity: SeverityLow,
			patterns: []string{},
		},
		{
			name:     "private use code point",
			input:    "ab\uE000c",
			severity: SeverityMedium,
			patterns: []string{PatternPrivateUse},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Detect(tt.input)
			assert.Equal(t, tt.severity, d.Severity)
			assert.Equal(t, tt.patterns, d.Patterns)
			assert.Equal(t, tt.severity != SeverityLow, d.HasGarbled)
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "removes control characters",
			input:    "a\x00b\x7Fc\u0085d",
			expected: "abcd",
		},
		{
			name:     "keeps whitespace",
			input:    "line one\n\tline two\r\n",
			expected: "line one\n\tline two\r\n",
		},
		{
			name:     "collapses replacement runs to one space",
			input:    "前\uFFFD\uFFFD\uFFFD后",
			expected: "前 后",
		},
		{
			name:     "removes signature letters",
			input:    "aƮbŮc",
			expected: "abc",
		},
		{
			name:     "removes private use",
			input:    "ab\uFFF9c",
			expected: "abc",
		},
		{
			name:     "deletes long disallowed runs",
			input:    "x ÃÂÃÂÃÂ y",
			expected: "x  y",
		},
		{
			name:     "short disallowed runs become a space",
			input:    "caféx",
			expected: "caf x",
		},
		{
			name:     "removes nested mojibake",
			input:    "开始锟锟斤拷斤拷结束",
			expected: "开始结束",
		},
		{
			name:     "keeps cjk punctuation and fullwidth",
			input:    "《书名》：ＡＢＣ，「引号」",
			expected: "《书名》：ＡＢＣ，「引号」",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Clean(tt.input).Text)
		})
	}
}

func TestClean_Counts(t *testing.T) {
	res := Clean("a\x01\uFFFD\uFFFDb锟斤拷")

	assert.Equal(t, "a b", res.Text)
	assert.Equal(t, 4, res.Removed)
	assert.Equal(t, 2, res.Replaced)
}

func TestSmartClean_SkipsLowSeverity(t *testing.T) {
	input := "café au lait"
	rep := SmartClean(input)

	assert.False(t, rep.Cleaned)
	assert.Equal(t, input, rep.Text)
	assert.Equal(t, rep.OriginalLength, rep.CleanedLength)
}

func TestSmartClean_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"正常文本",
		"abc\uFFFD\uFFFDdef\x02",
		"text ÃÂÃÂÃ text and é",
		"锟锟斤拷斤拷\u0090 mixed",
		"ƮŮ\uFFFD\uFFFF",
	}

	for _, in := range inputs {
		once := SmartClean(in)
		twice := SmartClean(once.Text)

		assert.Equal(t, once.Text, twice.Text, "input %q", in)
		assert.False(t, twice.Cleaned, "input %q", in)
		assert.Equal(t, SeverityLow, Detect(once.Text).Severity, "input %q", in)
	}
}
