package request

import (
	"net/url"
	"strings"

	"github.com/vyrodovalexey/sprout/internal/params"
	"github.com/vyrodovalexey/sprout/internal/router"
)

// Normalized is a raw request path split into its routable path and the
// parameters carried by the query string and inline path segments.
type Normalized struct {
	// Path is the routable path: front controller removed, empty and
	// traversal segments dropped, inline segments removed. Root is "/".
	Path string
	// Inline holds the "key:value" path segments, folded in path order.
	Inline params.Params
	// Query holds the query string parameters.
	Query params.Params
	// Combined is Query folded with Inline.
	Combined params.Params
	// Suffix is the canonical serialization of Combined.
	Suffix string
}

// Normalize parses raw, a request path with an optional query string.
// The front-controller prefix is removed when present, in both the path
// form "/index.php/users" and the query form "/index.php?/users".
func Normalize(raw, frontController string) Normalized {
	raw = router.StripFrontController(raw, frontController)
	if rest := strings.TrimPrefix(raw, "/"); strings.HasPrefix(rest, "?/") {
		raw = rest[1:]
	}

	path, query, _ := strings.Cut(raw, "?")

	n := Normalized{
		Inline: params.New(),
		Query:  params.ParseQuery(query),
	}

	segments := make([]string, 0, strings.Count(path, "/")+1)
	for _, segment := range strings.Split(path, "/") {
		switch segment {
		case "", ".", "..":
			continue
		}
		if key, value, ok := params.ParseInline(segment); ok {
			n.Inline.Add(key, value)
			continue
		}
		segments = append(segments, unescapeSegment(segment))
	}

	trimFormat(n.Query)
	trimFormat(n.Inline)

	n.Path = "/" + strings.Join(segments, "/")
	n.Combined = params.Merge(n.Query, n.Inline)
	n.Suffix = n.Combined.Encode()
	return n
}

// trimFormat drops the leading "." from format values so that "?format=.json"
// and "/format:.json" read the same as a ".json" route token.
func trimFormat(p params.Params) {
	v, ok := p.Lookup(router.KeyFormat)
	if !ok {
		return
	}
	values := v.Values()
	for i := range values {
		values[i] = strings.TrimPrefix(values[i], ".")
	}
	if v.IsList() {
		p.Set(router.KeyFormat, params.List(values...))
		return
	}
	p.Set(router.KeyFormat, params.Scalar(values[0]))
}

// unescapeSegment decodes a path segment. Segments that decode to a
// separator or fail to decode are kept as is.
func unescapeSegment(segment string) string {
	out, err := url.PathUnescape(segment)
	if err != nil || strings.ContainsRune(out, '/') {
		return segment
	}
	return out
}
