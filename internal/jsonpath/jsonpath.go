// Package jsonpath resolves dotted, array-indexed paths such as
// "data.chapters[0].text" against arbitrary JSON documents.
package jsonpath

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var ErrInvalidJSON = errors.New("invalid JSON document")

// name[index]
var indexedSegment = regexp.MustCompile(`^([^\[\]]*)\[(\d+)\]$`)

// Document is a parsed JSON value.
type Document struct {
	root gjson.Result
}

// Parse validates raw and wraps it for path lookups.
func Parse(raw []byte) (Document, error) {
	if !gjson.ValidBytes(raw) {
		return Document{}, ErrInvalidJSON
	}
	return Document{root: gjson.ParseBytes(raw)}, nil
}

// FromResult wraps an already-parsed value.
func FromResult(r gjson.Result) Document {
	return Document{root: r}
}

// Root returns the whole document.
func (d Document) Root() gjson.Result {
	return d.root
}

// Resolve walks path one segment at a time. The second return value is
// false when any segment is missing, indexes into a non-array, reads a key
// from a non-object, or is out of bounds. A present JSON null is found.
func (d Document) Resolve(path string) (gjson.Result, bool) {
	if path == "" {
		return gjson.Result{}, false
	}

	cur := d.root
	for _, seg := range strings.Split(path, ".") {
		name, index, hasIndex := splitSegment(seg)

		if name != "" || !hasIndex {
			next, ok := member(cur, name)
			if !ok {
				return gjson.Result{}, false
			}
			cur = next
		}

		if hasIndex {
			if !cur.IsArray() {
				return gjson.Result{}, false
			}
			items := cur.Array()
			if index >= len(items) {
				return gjson.Result{}, false
			}
			cur = items[index]
		}
	}

	return cur, true
}

// First returns the first path whose value is present, not null and not an
// empty string.
func (d Document) First(paths ...string) (gjson.Result, bool) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		v, ok := d.Resolve(p)
		if !ok || v.Type == gjson.Null {
			continue
		}
		if v.Type == gjson.String && v.Str == "" {
			continue
		}
		return v, true
	}
	return gjson.Result{}, false
}

func splitSegment(seg string) (name string, index int, hasIndex bool) {
	m := indexedSegment.FindStringSubmatch(seg)
	if m == nil {
		return seg, 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return seg, 0, false
	}
	return m[1], n, true
}

// member looks a key up by exact match. gjson path syntax would treat
// characters like '*' or '?' in key names as wildcards, so keys are
// compared directly. When a key repeats, the last one wins.
func member(obj gjson.Result, key string) (gjson.Result, bool) {
	if !obj.IsObject() {
		return gjson.Result{}, false
	}

	var (
		found gjson.Result
		ok    bool
	)
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found, ok = v, true
		}
		return true
	})
	return found, ok
}
