package router

import (
	"sort"
	"strings"

	"github.com/vyrodovalexey/sprout/internal/params"
)

// RouteParams canonicalizes extracted route values into parameters seeded
// with the table defaults. Keys are underscored; controller values are
// pluralized and underscored, action values underscored, and a leading
// "." is dropped from format. Empty reserved values keep the default.
func (t *Table) RouteParams(extracted map[string]string) params.Params {
	unlock := t.readLock()
	defer unlock()

	out := params.Params{
		KeyController: params.Scalar(t.defaultController),
		KeyAction:     params.Scalar(t.defaultAction),
		KeyFormat:     params.Scalar(t.defaultFormat),
	}

	keys := make([]string, 0, len(extracted))
	for k := range extracted {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := t.inflector.Underscore(k)
		value := extracted[k]

		switch key {
		case KeyController:
			value = t.inflector.Underscore(t.inflector.Pluralize(value))
		case KeyAction:
			value = t.inflector.Underscore(value)
		case KeyFormat:
			value = strings.TrimPrefix(value, ".")
		}

		if value == "" && isReserved(key) {
			continue
		}
		out.Set(key, params.Scalar(value))
	}
	return out
}

func isReserved(key string) bool {
	switch key {
	case KeyController, KeyAction, KeyFormat:
		return true
	}
	return false
}
