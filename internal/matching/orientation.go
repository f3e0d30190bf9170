// internal/matching/orientation.go

package matching

import "strings"

type orientation struct {
	name       string // canonical key
	label      string
	compatible map[string]bool
}

func (o orientation) accepts(other string) bool {
	return o.compatible[other]
}

func setOf(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// The six buckets. Demisexual and gray-asexual share the asexual row but keep
// their own name so an exact match still requires the same label. Every entry
// must resolve through lookupOrientation and be accepted back.
var orientationBuckets = map[string]orientation{
	"heterosexual": {
		label:      "Heterosexual",
		compatible: setOf("heterosexual", "bisexual", "pansexual"),
	},
	"gay": {
		label:      "Gay",
		compatible: setOf("gay", "bisexual", "pansexual"),
	},
	"lesbian": {
		label:      "Lesbian",
		compatible: setOf("lesbian", "bisexual", "pansexual"),
	},
	"bisexual": {
		label:      "Bisexual",
		compatible: setOf("bisexual", "heterosexual", "gay", "lesbian", "pansexual"),
	},
	"pansexual": {
		label:      "Pansexual",
		compatible: setOf("pansexual", "heterosexual", "gay", "lesbian", "bisexual"),
	},
	"asexual": {
		label:      "Asexual",
		compatible: setOf("asexual", "demisexual", "gray-asexual"),
	},
}

var orientationAliases = map[string]string{
	"straight":     "heterosexual",
	"hetero":       "heterosexual",
	"bi":           "bisexual",
	"pan":          "pansexual",
	"ace":          "asexual",
	"demi":         "demisexual",
	"grey-asexual": "gray-asexual",
	"greysexual":   "gray-asexual",
	"graysexual":   "gray-asexual",
}

var asexualSpectrumLabels = map[string]string{
	"demisexual":   "Demisexual",
	"gray-asexual": "Gray-Asexual",
}

// lookupOrientation resolves a free-text orientation. Blank or unrecognized
// values report false and are scored as omitted.
func lookupOrientation(raw string) (orientation, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "-", "_", "-").Replace(key)
	if alias, ok := orientationAliases[key]; ok {
		key = alias
	}

	if o, ok := orientationBuckets[key]; ok {
		o.name = key
		return o, true
	}
	if label, ok := asexualSpectrumLabels[key]; ok {
		o := orientationBuckets["asexual"]
		o.name = key
		o.label = label
		return o, true
	}
	return orientation{}, false
}

// complementaryPairs lists the 16 MBTI pairings treated as complementary
var complementaryPairs = map[[2]string]bool{}

func init() {
	for _, p := range [][2]string{
		{"INFJ", "ENFP"}, {"INFJ", "ENTP"}, {"INTJ", "ENFP"}, {"INTJ", "ENTP"},
		{"INFP", "ENFJ"}, {"INFP", "ENTJ"}, {"INTP", "ENTJ"}, {"INTP", "ESTJ"},
		{"ISFJ", "ESFP"}, {"ISFJ", "ESTP"}, {"ISTJ", "ESFP"}, {"ISTJ", "ESTP"},
		{"ISFP", "ENFJ"}, {"ISFP", "ESFJ"}, {"ISTP", "ESFJ"}, {"ISTP", "ESTJ"},
	} {
		complementaryPairs[p] = true
		complementaryPairs[[2]string{p[1], p[0]}] = true
	}
}

func complementaryMBTI(a, b string) bool {
	return complementaryPairs[[2]string{a, b}]
}

// normalizeMBTI uppercases the four-letter type and drops -A/-T suffixes
func normalizeMBTI(raw string) string {
	t := strings.ToUpper(strings.TrimSpace(raw))
	if i := strings.IndexAny(t, "-/ "); i == 4 {
		t = t[:i]
	}
	return t
}
