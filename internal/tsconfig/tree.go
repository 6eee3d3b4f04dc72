package tsconfig

import "sort"

// Well-known top-level keys.
const (
	KeyExtends         = "extends"
	KeyCompilerOptions = "compilerOptions"
	KeyInclude         = "include"
	KeyExclude         = "exclude"
	KeyFiles           = "files"
)

// Tree is one decoded configuration object.
type Tree map[string]any

// Normalize converts decoded JSON values so that every nested object is a
// Tree. Values that are already normalized are returned as copies.
func Normalize(v any) any {
	switch x := v.(type) {
	case Tree:
		out := make(Tree, len(x))
		for k, val := range x {
			out[k] = Normalize(val)
		}
		return out
	case map[string]any:
		out := make(Tree, len(x))
		for k, val := range x {
			out[k] = Normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = Normalize(val)
		}
		return out
	case []string:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = val
		}
		return out
	default:
		return v
	}
}

// Clone returns a deep structural copy of t. A nil tree clones to an empty one.
func Clone(t Tree) Tree {
	if t == nil {
		return Tree{}
	}
	return Normalize(t).(Tree)
}

// AsTree reports whether v is an object value and returns it as a Tree.
func AsTree(v any) (Tree, bool) {
	switch x := v.(type) {
	case Tree:
		return x, true
	case map[string]any:
		return Tree(x), true
	default:
		return nil, false
	}
}

// Has reports whether key is present, even with a null value.
func (t Tree) Has(key string) bool {
	_, ok := t[key]
	return ok
}

// Sub returns the object stored under key, or nil when key is absent or
// not an object.
func (t Tree) Sub(key string) Tree {
	sub, _ := AsTree(t[key])
	return sub
}

// CompilerOptions returns the compilerOptions object, or nil.
func (t Tree) CompilerOptions() Tree {
	return t.Sub(KeyCompilerOptions)
}

// EnsureSub returns the object under key, creating an empty one when the key
// is missing or holds a non-object value.
func (t Tree) EnsureSub(key string) Tree {
	if sub, ok := AsTree(t[key]); ok {
		// Store back as Tree so later type switches see one representation.
		t[key] = sub
		return sub
	}
	sub := Tree{}
	t[key] = sub
	return sub
}

// Keys returns the tree's keys in sorted order.
func (t Tree) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StringList returns the value under key as a list of strings. ok is false
// when the key is absent or holds anything other than a list of strings.
func (t Tree) StringList(key string) (list []string, ok bool) {
	raw, present := t[key]
	if !present {
		return nil, false
	}
	items, isList := raw.([]any)
	if !isList {
		if strs, isStrs := raw.([]string); isStrs {
			return append([]string(nil), strs...), true
		}
		return nil, false
	}
	list = make([]string, 0, len(items))
	for _, item := range items {
		s, isStr := item.(string)
		if !isStr {
			return nil, false
		}
		list = append(list, s)
	}
	return list, true
}
