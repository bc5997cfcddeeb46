package textcodec

import (
	"math/rand"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestDecode_UTF8RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain ascii",
		"《斗破苍穹》\n作者：天蚕土豆\n第一章 陨落的天才",
		"mixed ünïcödé and 日本語 and 한국어",
	}

	for _, in := range inputs {
		text, cs := DecodeWithCharset([]byte(in))
		assert.Equal(t, in, text)
		assert.Equal(t, UTF8, cs)
	}
}

func TestDecode_StripsBOM(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...)
	assert.Equal(t, "hello", Decode(raw))
}

func TestDecode_GBK(t *testing.T) {
	want := "《斗破苍穹》\n作者：天蚕土豆"
	raw, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(want))
	require.NoError(t, err)
	require.False(t, utf8.Valid(raw))

	text, cs := DecodeWithCharset(raw)
	assert.Equal(t, want, text)
	assert.Equal(t, GBK, cs)
}

func TestDecode_Latin1Fallback(t *testing.T) {
	// 0xFF is neither valid UTF-8 nor a valid GBK lead byte
	raw := []byte{'c', 'a', 'f', 0xE9, ' ', 0xFF}

	text, cs := DecodeWithCharset(raw)
	assert.Equal(t, Latin1, cs)
	assert.Equal(t, "café ÿ", text)
}

func TestDecode_Totality(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		raw := make([]byte, rng.Intn(256))
		rng.Read(raw)

		assert.NotPanics(t, func() {
			text := Decode(raw)
			assert.True(t, utf8.ValidString(text))
		})
	}
}
