package router

import (
	"regexp"
	"strings"

	"github.com/vyrodovalexey/sprout/internal/inflect"
	"github.com/vyrodovalexey/sprout/internal/util"
)

// Reserved component keys.
const (
	KeyController = "controller"
	KeyAction     = "action"
	KeyID         = "id"
	KeyFormat     = "format"
)

// Built-in token expressions. Each holds exactly one capturing group.
const (
	nameTokenRegex    = `([a-zA-Z_\x{7f}-\x{10ffff}][a-zA-Z0-9_\-\x{7f}-\x{10ffff}]+)`
	idTokenRegex      = `([1-9][0-9]{0,9})`
	formatTokenRegex  = `(\.[\w\-]{1,12})?`
	genericTokenRegex = `([\w@$()_+\-=.&]+)`
)

var reservedTokenRegex = map[string]string{
	KeyController: nameTokenRegex,
	KeyAction:     nameTokenRegex,
	KeyID:         idTokenRegex,
	KeyFormat:     formatTokenRegex,
}

// Route is a compiled route pattern. It is immutable once compiled and may
// be shared between goroutines.
type Route struct {
	// Name is the explicit or inferred route name.
	Name string
	// Pattern is the canonical pattern: no trailing slash except for root.
	Pattern string
	// Components holds every component, including injected defaults and
	// token overrides.
	Components map[string]string
	// Defaults holds the static components, those not keyed by a token.
	Defaults map[string]string
	// Tokens lists token names in pattern order, one per capturing group.
	Tokens []string

	regex *regexp.Regexp
}

// Settings are the table values a pattern is compiled against.
type Settings struct {
	DefaultController string
	DefaultAction     string
	Inflector         inflect.Inflector
}

// Static reports whether the pattern has no tokens.
func (r *Route) Static() bool {
	return len(r.Tokens) == 0
}

// Regexp returns the compiled matcher.
func (r *Route) Regexp() *regexp.Regexp {
	return r.regex
}

// extract matches path against the route. The returned map is freshly
// allocated: static defaults overlaid by the values of participating
// tokens.
func (r *Route) extract(path string) (map[string]string, bool) {
	loc := r.regex.FindStringSubmatchIndex(path)
	if loc == nil {
		return nil, false
	}

	out := r.staticValues()
	for i, token := range r.Tokens {
		start, end := loc[2*(i+1)], loc[2*(i+1)+1]
		if start < 0 {
			continue
		}
		out[token] = path[start:end]
	}
	return out, true
}

func (r *Route) staticValues() map[string]string {
	out := make(map[string]string, len(r.Defaults)+len(r.Tokens))
	for k, v := range r.Defaults {
		out[k] = v
	}
	return out
}

// Compile compiles pattern with its component overrides into a Route.
// An empty name is inferred from the static controller and action, or
// falls back to the canonical pattern.
func Compile(pattern string, components map[string]string, name string, settings Settings) (*Route, error) {
	if settings.Inflector == nil {
		settings.Inflector = inflect.Default
	}

	canonical, err := canonicalPattern(pattern)
	if err != nil {
		return nil, err
	}

	parts, tokens, err := tokenize(canonical)
	if err != nil {
		return nil, err
	}

	comps := make(map[string]string, len(components)+2)
	for k, v := range components {
		comps[k] = v
	}
	isToken := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		isToken[tok] = true
	}
	if _, ok := comps[KeyController]; !ok && !isToken[KeyController] && settings.DefaultController != "" {
		comps[KeyController] = settings.DefaultController
	}
	if _, ok := comps[KeyAction]; !ok && !isToken[KeyAction] && settings.DefaultAction != "" {
		comps[KeyAction] = settings.DefaultAction
	}

	var expr strings.Builder
	expr.WriteString("(?i)^")
	for _, part := range parts {
		if !part.token {
			expr.WriteString(regexp.QuoteMeta(part.text))
			continue
		}
		tokenExpr, err := tokenRegex(canonical, part.text, comps)
		if err != nil {
			return nil, err
		}
		expr.WriteString(tokenExpr)
	}
	expr.WriteString("$")

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, util.NewCompileErrorWithCause(canonical, "", "invalid route expression", err)
	}

	defaults := make(map[string]string, len(comps))
	for k, v := range comps {
		if !isToken[k] {
			defaults[k] = v
		}
	}

	if name == "" {
		name = inferName(canonical, defaults, settings.Inflector)
	}

	return &Route{
		Name:       name,
		Pattern:    canonical,
		Components: comps,
		Defaults:   defaults,
		Tokens:     tokens,
		regex:      re,
	}, nil
}

// canonicalPattern trims trailing slashes. Root stays "/".
func canonicalPattern(pattern string) (string, error) {
	if pattern == "" {
		return "", util.NewCompileError(pattern, "", "pattern is empty")
	}
	if !strings.HasPrefix(pattern, "/") {
		return "", util.NewCompileError(pattern, "", "pattern must start with /")
	}
	if trimmed := strings.TrimRight(pattern, "/"); trimmed != "" {
		return trimmed, nil
	}
	return "/", nil
}

type patternPart struct {
	text  string
	token bool
}

// tokenize splits a canonical pattern into literal text and ":name"
// tokens, left to right.
func tokenize(pattern string) ([]patternPart, []string, error) {
	var (
		parts   []patternPart
		tokens  []string
		literal strings.Builder
		seen    = make(map[string]bool)
	)

	for i := 0; i < len(pattern); {
		if pattern[i] != ':' {
			literal.WriteByte(pattern[i])
			i++
			continue
		}

		j := i + 1
		for j < len(pattern) && isTokenChar(pattern[j]) {
			j++
		}
		if j == i+1 {
			return nil, nil, util.NewCompileError(pattern, "", "':' must be followed by a token name")
		}

		tok := pattern[i+1 : j]
		if seen[tok] {
			return nil, nil, util.NewCompileError(pattern, tok, "duplicate token")
		}
		seen[tok] = true

		if literal.Len() > 0 {
			parts = append(parts, patternPart{text: literal.String()})
			literal.Reset()
		}
		parts = append(parts, patternPart{text: tok, token: true})
		tokens = append(tokens, tok)
		i = j
	}

	if literal.Len() > 0 {
		parts = append(parts, patternPart{text: literal.String()})
	}
	return parts, tokens, nil
}

func isTokenChar(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// tokenRegex resolves the expression for token: explicit override, then
// the reserved default, then the generic default. The result holds exactly
// one capturing group.
func tokenRegex(pattern, token string, comps map[string]string) (string, error) {
	override, ok := comps[token]
	if !ok {
		if reserved, ok := reservedTokenRegex[token]; ok {
			return reserved, nil
		}
		return genericTokenRegex, nil
	}

	re, err := regexp.Compile(override)
	if err != nil {
		return "", util.NewCompileErrorWithCause(pattern, token, "invalid override expression", err)
	}

	switch groups := re.NumSubexp(); {
	case groups == 0:
		return "(" + override + ")", nil
	case groups == 1:
		return "(?:" + override + ")", nil
	default:
		return "", util.NewAmbiguousTokenError(pattern, token, override, groups)
	}
}

// inferName derives a route name from static controller and action values.
func inferName(pattern string, defaults map[string]string, inflector inflect.Inflector) string {
	controller, hasController := defaults[KeyController]
	action, hasAction := defaults[KeyAction]
	if !hasController || !hasAction || controller == "" || action == "" {
		return pattern
	}
	return inflector.Underscore(action + "_" + controller)
}
