// Package inflect provides the English word inflections used to turn
// route components into canonical controller and action names.
package inflect

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Inflector is the string transformation surface consumed by the router.
type Inflector interface {
	Underscore(text string) string
	Pluralize(text string) string
	Controllerize(text string) string
}

var (
	reAcronymBoundary = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	reCamelBoundary   = regexp.MustCompile(`([a-z\d])([A-Z])`)
	reNonWord         = regexp.MustCompile(`[^A-Za-z0-9/]+`)
	reNamespace       = regexp.MustCompile(`/(.?)`)
	reNonCamel        = regexp.MustCompile(`[^A-Za-z0-9:]+`)
	reControllerName  = regexp.MustCompile(`(?i)_?controller`)
)

// English is the default Inflector. It is safe for concurrent use once
// constructed.
type English struct {
	uncountables []string
	irregulars   []irregular
}

type irregular struct {
	singular string
	plural   string
}

// Option configures an English inflector.
type Option func(*English)

// WithUncountables adds words that have no distinct plural form.
func WithUncountables(words ...string) Option {
	return func(e *English) {
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w == "" || containsString(e.uncountables, w) {
				continue
			}
			e.uncountables = append(e.uncountables, w)
		}
	}
}

// WithIrregulars adds singular to plural pairs. They take precedence over
// the built-in irregular forms.
func WithIrregulars(pairs map[string]string) Option {
	return func(e *English) {
		extra := make([]irregular, 0, len(pairs))
		for singular, plural := range pairs {
			extra = append(extra, irregular{
				singular: strings.ToLower(singular),
				plural:   strings.ToLower(plural),
			})
		}
		sortIrregulars(extra)
		e.irregulars = append(extra, e.irregulars...)
	}
}

// New returns an English inflector with the built-in word lists.
func New(opts ...Option) *English {
	e := &English{
		uncountables: append([]string(nil), defaultUncountables...),
		irregulars:   make([]irregular, 0, len(defaultIrregulars)),
	}
	for singular, plural := range defaultIrregulars {
		e.irregulars = append(e.irregulars, irregular{singular: singular, plural: plural})
	}
	sortIrregulars(e.irregulars)

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// sortIrregulars orders longer words first so that "woman" is tried
// before "man".
func sortIrregulars(list []irregular) {
	sort.Slice(list, func(i, j int) bool {
		if len(list[i].singular) != len(list[j].singular) {
			return len(list[i].singular) > len(list[j].singular)
		}
		return list[i].singular < list[j].singular
	})
}

// Pluralize returns the plural form of the last word of text.
func (e *English) Pluralize(text string) string {
	if text == "" || e.isUncountable(text) {
		return text
	}

	for _, irr := range e.irregulars {
		if hasWordSuffix(text, irr.plural) {
			return text
		}
		if hasWordSuffix(text, irr.singular) {
			return replaceSuffix(text, irr.singular, irr.plural)
		}
	}

	return applyRules(pluralRules, text)
}

// Singularize returns the singular form of the last word of text.
func (e *English) Singularize(text string) string {
	if text == "" || e.isUncountable(text) {
		return text
	}

	for _, irr := range e.irregulars {
		if hasWordSuffix(text, irr.singular) {
			return text
		}
		if hasWordSuffix(text, irr.plural) {
			return replaceSuffix(text, irr.plural, irr.singular)
		}
	}

	return applyRules(singularRules, text)
}

// Underscore converts CamelCase, namespaced, or dashed text to
// lower_snake_case. Slashes are kept as namespace separators.
func (e *English) Underscore(text string) string {
	text = Unaccent(text)
	text = strings.ReplaceAll(text, "::", "/")
	text = reAcronymBoundary.ReplaceAllString(text, "${1}_${2}")
	text = reCamelBoundary.ReplaceAllString(text, "${1}_${2}")
	text = reNonWord.ReplaceAllString(text, "_")
	return strings.TrimSpace(strings.ToLower(text))
}

// Camelize converts snake_case or dashed text to CamelCase. Slashes
// become "::" namespace separators.
func (e *English) Camelize(text string) string {
	text = reNamespace.ReplaceAllStringFunc(text, func(m string) string {
		return "::" + strings.ToUpper(m[1:])
	})
	text = reNonCamel.ReplaceAllString(text, " ")
	// Casers keep state between calls and must not be shared.
	text = cases.Title(language.Und, cases.NoLower).String(text)
	return strings.ReplaceAll(text, " ", "")
}

// Controllerize returns the controller type name for text, e.g.
// "user_accounts" becomes "UserAccountsController".
func (e *English) Controllerize(text string) string {
	text = reControllerName.ReplaceAllString(text, "")
	return e.Camelize(Unaccent(text)) + "Controller"
}

func (e *English) isUncountable(text string) bool {
	for _, word := range e.uncountables {
		if hasWordSuffix(text, word) {
			return true
		}
	}
	return false
}

// Unaccent strips combining marks, so "café" becomes "cafe".
func Unaccent(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// hasWordSuffix reports whether text ends with word, case-insensitively,
// and word starts text or follows a separator.
func hasWordSuffix(text, word string) bool {
	if len(text) < len(word) || !strings.EqualFold(text[len(text)-len(word):], word) {
		return false
	}
	if len(text) == len(word) {
		return true
	}
	prev := text[len(text)-len(word)-1]
	return prev == '_' || prev == '-' || prev == ' ' || prev == '/' || isUpper(text[len(text)-len(word)])
}

// replaceSuffix swaps the trailing from with to, preserving the case of
// the first replaced letter.
func replaceSuffix(text, from, to string) string {
	head := text[:len(text)-len(from)]
	first := text[len(head) : len(head)+1]
	return head + first + to[1:]
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Default is the shared English inflector.
var Default = New()
