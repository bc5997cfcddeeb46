package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const sample = `{
	"a": {"b": [{"c": "x"}, {"c": "y"}]},
	"title": "",
	"name": "Fallback",
	"nothing": null,
	"count": 3,
	"list": [[1, 2], [3]],
	"weird.key": 1,
	"star*": "literal"
}`

func TestResolve(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	tests := []struct {
		path  string
		found bool
		want  string
	}{
		{"a.b[1].c", true, "y"},
		{"a.b[0].c", true, "x"},
		{"a.b[2].c", false, ""},
		{"a.c", false, ""},
		{"a.b.c", false, ""},
		{"count.x", false, ""},
		{"count[0]", false, ""},
		{"name", true, "Fallback"},
		{"nothing", true, ""},
		{"list[0]", true, "[1, 2]"},
		{"star*", true, "literal"},
		{"", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, ok := doc.Resolve(tt.path)
			assert.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.want, v.String())
			}
		})
	}
}

func TestResolve_TopLevelArray(t *testing.T) {
	doc, err := Parse([]byte(`[{"text": "first"}, {"text": "second"}]`))
	require.NoError(t, err)

	v, ok := doc.Resolve("[1].text")
	require.True(t, ok)
	assert.Equal(t, "second", v.String())
}

func TestResolve_NullIsFound(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	v, ok := doc.Resolve("nothing")
	assert.True(t, ok)
	assert.Equal(t, gjson.Null, v.Type)
}

func TestFirst(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	v, ok := doc.First("missing", "nothing", "title", "name")
	require.True(t, ok)
	assert.Equal(t, "Fallback", v.String())

	_, ok = doc.First("missing", "nothing", "title")
	assert.False(t, ok)

	v, ok = doc.First("count")
	require.True(t, ok)
	assert.Equal(t, int64(3), v.Int())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`{"a": `))
	assert.ErrorIs(t, err, ErrInvalidJSON)
}
