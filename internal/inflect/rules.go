package inflect

import "regexp"

type rule struct {
	re   *regexp.Regexp
	repl string
}

func rules(pairs ...string) []rule {
	out := make([]rule, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, rule{re: regexp.MustCompile(pairs[i]), repl: pairs[i+1]})
	}
	return out
}

// applyRules rewrites text with the first matching rule.
func applyRules(list []rule, text string) string {
	for _, r := range list {
		if r.re.MatchString(text) {
			return r.re.ReplaceAllString(text, r.repl)
		}
	}
	return text
}

var pluralRules = rules(
	`(?i)(quiz)$`, "${1}zes",
	`(?i)^(ox)$`, "${1}en",
	`(?i)([ml])ouse$`, "${1}ice",
	`(?i)(matr|vert|ind)(?:ix|ex)$`, "${1}ices",
	`(?i)(x|ch|ss|sh)$`, "${1}es",
	`(?i)([^aeiouy]|qu)ies$`, "${1}ies",
	`(?i)([^aeiouy]|qu)y$`, "${1}ies",
	`(?i)(hive)$`, "${1}s",
	`(?i)(?:([^f])fe|([lr])f)$`, "${1}${2}ves",
	`(?i)sis$`, "ses",
	`(?i)([ti])um$`, "${1}a",
	`(?i)(buffal|tomat)o$`, "${1}oes",
	`(?i)(bu)s$`, "${1}ses",
	`(?i)(alias|status)$`, "${1}es",
	`(?i)(octop|vir)us$`, "${1}i",
	`(?i)(ax|test)is$`, "${1}es",
	`(?i)s$`, "s",
	`$`, "s",
)

var singularRules = rules(
	`(?i)(quiz)zes$`, "${1}",
	`(?i)(matr)ices$`, "${1}ix",
	`(?i)(vert|ind)ices$`, "${1}ex",
	`(?i)^(ox)en`, "${1}",
	`(?i)(alias|status)es$`, "${1}",
	`(?i)(octop|vir)i$`, "${1}us",
	`(?i)(cris|ax|test)es$`, "${1}is",
	`(?i)(shoe)s$`, "${1}",
	`(?i)(o)es$`, "${1}",
	`(?i)(bus)es$`, "${1}",
	`(?i)([ml])ice$`, "${1}ouse",
	`(?i)(x|ch|ss|sh)es$`, "${1}",
	`(?i)(m)ovies$`, "${1}ovie",
	`(?i)(s)eries$`, "${1}eries",
	`(?i)([^aeiouy]|qu)ies$`, "${1}y",
	`(?i)([lr])ves$`, "${1}f",
	`(?i)(tive)s$`, "${1}",
	`(?i)(hive)s$`, "${1}",
	`(?i)([^f])ves$`, "${1}fe",
	`(?i)(^analy)ses$`, "${1}sis",
	`(?i)((a)naly|(b)a|(d)iagno|(p)arenthe|(p)rogno|(s)ynop|(t)he)ses$`, "${1}sis",
	`(?i)([ti])a$`, "${1}um",
	`(?i)(n)ews$`, "${1}ews",
	`(?i)(ss)$`, "${1}",
	`(?i)(alias|status)$`, "${1}",
	`(?i)s$`, "",
)

var defaultUncountables = []string{
	"beef", "cotton", "data", "deer", "electricity", "entertainment",
	"equipment", "fiction", "fish", "flour", "furniture", "gold",
	"happiness", "homework", "ice", "information", "knowledge",
	"literature", "means", "milk", "money", "music", "offspring", "pork",
	"rice", "series", "sheep", "species", "sunshine", "tennis", "thunder",
	"traffic", "weather",
}

var defaultIrregulars = map[string]string{
	"alumnus":     "alumni",
	"analysis":    "analyses",
	"appendix":    "appendices",
	"axis":        "axes",
	"bacterium":   "bacteria",
	"basis":       "bases",
	"cactus":      "cacti",
	"child":       "children",
	"corpus":      "corpora",
	"crisis":      "crises",
	"criterion":   "criteria",
	"curriculum":  "curricula",
	"datum":       "data",
	"diagnosis":   "diagnoses",
	"ellipsis":    "ellipses",
	"foot":        "feet",
	"genus":       "genera",
	"goose":       "geese",
	"hypothesis":  "hypotheses",
	"louse":       "lice",
	"man":         "men",
	"medium":      "media",
	"memorandum":  "memoranda",
	"mouse":       "mice",
	"move":        "moves",
	"nebula":      "nebulae",
	"nucleus":     "nuclei",
	"oasis":       "oases",
	"ox":          "oxen",
	"paralysis":   "paralyses",
	"parenthesis": "parentheses",
	"person":      "people",
	"phenomenon":  "phenomena",
	"radius":      "radii",
	"sex":         "sexes",
	"stimulus":    "stimuli",
	"stratum":     "strata",
	"synopsis":    "synopses",
	"synthesis":   "syntheses",
	"thesis":      "theses",
	"tooth":       "teeth",
	"vertebra":    "vertebrae",
	"vita":        "vitae",
	"woman":       "women",
}
