package tsconfig

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/tidwall/gjson"
)

// Layout records the key order of every object in a document, so a
// rewritten file keeps the order its author chose. Objects are identified
// by their path from the top level; the top level itself is the empty path.
type Layout map[string][]string

// LayoutOf reads the key order of data. Content that does not parse yields
// an empty layout.
func LayoutOf(data []byte) Layout {
	layout := Layout{}
	clean, _ := cleanJSON(data)
	if !gjson.ValidBytes(clean) {
		return layout
	}
	layout.record(gjson.ParseBytes(clean), "")
	return layout
}

func (l Layout) record(value gjson.Result, path string) {
	switch {
	case value.IsObject():
		var keys []string
		value.ForEach(func(key, child gjson.Result) bool {
			name := key.String()
			keys = append(keys, name)
			l.record(child, childPath(path, name))
			return true
		})
		l[path] = keys
	case value.IsArray():
		for i, child := range value.Array() {
			l.record(child, childPath(path, strconv.Itoa(i)))
		}
	}
}

// Append adds keys to the end of the object at object (a list of keys from
// the top level), skipping keys it already holds.
func (l Layout) Append(object []string, keys ...string) {
	path := ""
	for _, name := range object {
		path = childPath(path, name)
	}
	known := make(map[string]bool, len(l[path]))
	for _, k := range l[path] {
		known[k] = true
	}
	for _, k := range keys {
		if !known[k] {
			l[path] = append(l[path], k)
			known[k] = true
		}
	}
}

// orderedKeys lists the keys of t: those the layout knows first, in layout
// order, then the rest sorted.
func (l Layout) orderedKeys(t Tree, path string) []string {
	keys := make([]string, 0, len(t))
	seen := make(map[string]bool, len(t))
	for _, k := range l[path] {
		if _, ok := t[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range t {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// childPath joins with NUL, which cannot appear unescaped in a key.
func childPath(path, name string) string {
	return path + "\x00" + name
}

// encodeValue writes v as compact JSON with objects in layout order.
func encodeValue(buf *bytes.Buffer, v any, l Layout, path string) error {
	switch x := v.(type) {
	case Tree:
		return encodeObject(buf, x, l, path)
	case map[string]any:
		return encodeObject(buf, Tree(x), l, path)
	case []any:
		buf.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, item, l, childPath(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case []string:
		return encodeValue(buf, Normalize(x), l, path)
	default:
		return encodeScalar(buf, v)
	}
}

func encodeObject(buf *bytes.Buffer, t Tree, l Layout, path string) error {
	buf.WriteByte('{')
	for i, k := range l.orderedKeys(t, path) {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeScalar(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encodeValue(buf, t[k], l, childPath(path, k)); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func encodeScalar(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
