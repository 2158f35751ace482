// Package params holds the unified request parameter map and the fold
// rule used wherever two sources contribute a value for the same key.
package params

import (
	"net/url"
	"sort"
	"strings"
)

// listSuffix marks a key whose value is always a list, as in "tags[]=a".
const listSuffix = "[]"

// Params maps parameter names to values.
type Params map[string]Value

// New returns an empty Params.
func New() Params {
	return make(Params)
}

// Add folds v into the value stored under key. Empty keys are ignored.
func (p Params) Add(key string, v Value) {
	if key == "" {
		return
	}
	if existing, ok := p[key]; ok {
		p[key] = Fold(existing, v)
		return
	}
	p[key] = v
}

// Set stores v under key, replacing any existing value.
func (p Params) Set(key string, v Value) {
	p[key] = v
}

// Lookup returns the value stored under key.
func (p Params) Lookup(key string) (Value, bool) {
	v, ok := p[key]
	return v, ok
}

// Get returns the string form of the value under key, or "".
func (p Params) Get(key string) string {
	if v, ok := p[key]; ok {
		return v.String()
	}
	return ""
}

// Strings returns the values under key, or nil when key is absent.
func (p Params) Strings(key string) []string {
	if v, ok := p[key]; ok {
		return v.Values()
	}
	return nil
}

// Keys returns the keys in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		if v.isList {
			v = List(v.list...)
		}
		out[k] = v
	}
	return out
}

// Equal reports whether p and other hold the same keys and values.
func (p Params) Equal(other Params) bool {
	if len(p) != len(other) {
		return false
	}
	for k, v := range p {
		o, ok := other[k]
		if !ok || !v.Equal(o) {
			return false
		}
	}
	return true
}

// Merge folds the sources, in order, into a fresh Params. Sources are not
// modified.
func Merge(sources ...Params) Params {
	out := New()
	for _, src := range sources {
		for _, k := range src.Keys() {
			v := src[k]
			if v.isList {
				v = List(v.list...)
			}
			out.Add(k, v)
		}
	}
	return out
}

// FromValues converts url.Values, splitting comma-separated values and
// honouring the "key[]" list form.
func FromValues(values url.Values) Params {
	out := New()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, rawKey := range keys {
		key, forceList := splitListKey(rawKey)
		for _, raw := range values[rawKey] {
			v := Split(raw)
			if forceList && !v.isList {
				v = List(raw)
			}
			out.Add(key, v)
		}
	}
	return out
}

// ParseQuery parses a URL query string. Pairs with malformed escapes are
// skipped.
func ParseQuery(query string) Params {
	values, _ := url.ParseQuery(query)
	return FromValues(values)
}

// ParseInline parses a "key:value" or "key:v1,v2" path segment. The key
// must be non-empty. Pieces are unescaped after splitting, so escaped
// separators survive.
func ParseInline(segment string) (string, Value, bool) {
	idx := strings.IndexByte(segment, ':')
	if idx <= 0 {
		return "", Value{}, false
	}

	rawKey, forceList := splitListKey(segment[:idx])
	key := unescape(rawKey)
	if key == "" {
		return "", Value{}, false
	}

	pieces := strings.Split(segment[idx+1:], ",")
	for i, piece := range pieces {
		pieces[i] = unescape(piece)
	}

	if len(pieces) > 1 || forceList {
		return key, List(pieces...), true
	}
	return key, Scalar(pieces[0]), true
}

// ParseSuffix parses a canonical suffix produced by Encode.
func ParseSuffix(suffix string) Params {
	out := New()
	for _, segment := range strings.Split(suffix, "/") {
		if key, v, ok := ParseInline(segment); ok {
			out.Add(key, v)
		}
	}
	return out
}

// Encode serializes p as "key:value/key:v1,v2" with keys sorted. Keys and
// values are escaped so ParseSuffix restores an equal map. Single-element
// lists use the "key[]" form; empty lists are omitted.
func (p Params) Encode() string {
	var b strings.Builder
	for _, k := range p.Keys() {
		v := p[k]
		if v.isList && len(v.list) == 0 {
			continue
		}

		if b.Len() > 0 {
			b.WriteByte('/')
		}
		b.WriteString(escape(k))
		if v.isList && len(v.list) == 1 {
			b.WriteString(listSuffix)
		}
		b.WriteByte(':')

		for i, s := range v.Values() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escape(s))
		}
	}
	return b.String()
}

func splitListKey(key string) (string, bool) {
	if strings.HasSuffix(key, listSuffix) {
		return strings.TrimSuffix(key, listSuffix), true
	}
	return key, false
}

// escape path-escapes s. PathEscape leaves ':' intact, so it is escaped
// separately.
func escape(s string) string {
	return strings.ReplaceAll(url.PathEscape(s), ":", "%3A")
}

func unescape(s string) string {
	if out, err := url.PathUnescape(s); err == nil {
		return out
	}
	return s
}
