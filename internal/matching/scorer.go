// internal/matching/scorer.go

package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/imadgeboyega/tadhana-backend/internal/config"
	"github.com/imadgeboyega/tadhana-backend/internal/profile"
)

// Weights is the scoring table. The maxima of each rule must sum to at most 100.
type Weights struct {
	OrientationExact   float64
	OrientationCompat  float64
	OrientationUnknown float64

	PreferenceBase      float64
	PreferenceCollege   float64
	PreferenceYearLevel float64
	PreferenceCourse    float64
	PreferenceCap       float64

	InterestMax        float64
	InterestRatioBoost float64
	InterestPerShared  float64
	InterestFloor      float64

	LoveLanguagePerHit float64
	LoveLanguageBonus  float64
	LoveLanguageCap    float64

	MBTIExact          float64
	MBTIComplementary  float64
	MBTIOther          float64
	SocialBatteryExact float64
	SocialBatteryOther float64
}

// DefaultWeights is the table used for every score shown to users and admins
func DefaultWeights() Weights {
	return Weights{
		OrientationExact:    25,
		OrientationCompat:   18,
		OrientationUnknown:  10,
		PreferenceBase:      10,
		PreferenceCollege:   5,
		PreferenceYearLevel: 3,
		PreferenceCourse:    2,
		PreferenceCap:       30,
		InterestMax:         25,
		InterestRatioBoost:  1.2,
		InterestPerShared:   3,
		InterestFloor:       2,
		LoveLanguagePerHit:  4,
		LoveLanguageBonus:   3,
		LoveLanguageCap:     15,
		MBTIExact:           3,
		MBTIComplementary:   2,
		MBTIOther:           1,
		SocialBatteryExact:  2,
		SocialBatteryOther:  1,
	}
}

// WeightsFromConfig copies the configured table
func WeightsFromConfig(c config.MatchingConfig) Weights {
	return Weights{
		OrientationExact:    c.OrientationExact,
		OrientationCompat:   c.OrientationCompat,
		OrientationUnknown:  c.OrientationUnknown,
		PreferenceBase:      c.PreferenceBase,
		PreferenceCollege:   c.PreferenceCollege,
		PreferenceYearLevel: c.PreferenceYearLevel,
		PreferenceCourse:    c.PreferenceCourse,
		PreferenceCap:       c.PreferenceCap,
		InterestMax:         c.InterestMax,
		InterestRatioBoost:  c.InterestRatioBoost,
		InterestPerShared:   c.InterestPerShared,
		InterestFloor:       c.InterestFloor,
		LoveLanguagePerHit:  c.LoveLanguagePerHit,
		LoveLanguageBonus:   c.LoveLanguageBonus,
		LoveLanguageCap:     c.LoveLanguageCap,
		MBTIExact:           c.MBTIExact,
		MBTIComplementary:   c.MBTIComplementary,
		MBTIOther:           c.MBTIOther,
		SocialBatteryExact:  c.SocialBatteryExact,
		SocialBatteryOther:  c.SocialBatteryOther,
	}
}

// Breakdown holds each rule's contribution before truncation
type Breakdown struct {
	Orientation     float64 `json:"orientation"`
	Preferences     float64 `json:"preferences"`
	Interests       float64 `json:"interests"`
	LoveLanguages   float64 `json:"love_languages"`
	Personality     float64 `json:"personality"`
	SharedInterests int     `json:"shared_interests"`
}

// Result is a score as seen by Perspective, the viewing user.
// Score(a, b) and Score(b, a) may differ.
type Result struct {
	Score       int       `json:"score"`
	Reasons     []string  `json:"reasons"`
	Rejected    bool      `json:"rejected"`
	Perspective int64     `json:"perspective"`
	Breakdown   Breakdown `json:"breakdown"`
}

// Scorer computes compatibility between two profile documents
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer over a weight table
func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Score evaluates candidate from viewer's side. An orientation mismatch in
// either direction rejects the pair with a score of 0.
func (s *Scorer) Score(viewerID int64, viewer, candidate profile.Document) Result {
	w := s.weights
	res := Result{Perspective: viewerID, Reasons: []string{}}

	// 1. Orientation
	points, reason, ok := s.orientation(viewer.SOGIESC.Orientation, candidate.SOGIESC.Orientation)
	if !ok {
		res.Rejected = true
		return res
	}
	res.Breakdown.Orientation = points
	if reason != "" {
		res.Reasons = append(res.Reasons, reason)
	}

	// 2. Preferences, both directions
	prefs := 0.0
	if prefers(viewer.Preferred.College, candidate.College) {
		prefs += w.PreferenceCollege
	}
	if prefers(candidate.Preferred.College, viewer.College) {
		prefs += w.PreferenceCollege
	}
	if prefers(viewer.Preferred.YearLevel, candidate.YearLevel) {
		prefs += w.PreferenceYearLevel
	}
	if prefers(candidate.Preferred.YearLevel, viewer.YearLevel) {
		prefs += w.PreferenceYearLevel
	}
	if prefers(viewer.Preferred.Course, candidate.Course) {
		prefs += w.PreferenceCourse
	}
	if prefers(candidate.Preferred.Course, viewer.Course) {
		prefs += w.PreferenceCourse
	}
	res.Breakdown.Preferences = math.Min(w.PreferenceBase+prefs, w.PreferenceCap)
	if prefs >= 10 {
		res.Reasons = append(res.Reasons, "🎯 Preferences align")
	}

	// 3. Interests
	shared, union := overlap(viewer.Interests, candidate.Interests)
	res.Breakdown.SharedInterests = shared
	res.Breakdown.Interests = s.interestPoints(shared, union)
	switch {
	case shared >= 3:
		res.Reasons = append(res.Reasons, fmt.Sprintf("🌟 %d shared interests", shared))
	case shared == 1:
		res.Reasons = append(res.Reasons, "✨ 1 shared interest")
	case shared > 1:
		res.Reasons = append(res.Reasons, fmt.Sprintf("✨ %d shared interests", shared))
	}

	// 4. Love languages
	receive := countIn(viewer.LoveLanguageReceive, candidate.LoveLanguageProvide)
	provide := countIn(viewer.LoveLanguageProvide, candidate.LoveLanguageReceive)
	if receive > 0 || provide > 0 {
		love := float64(receive+provide) * w.LoveLanguagePerHit
		if receive > 0 && provide > 0 {
			love += w.LoveLanguageBonus
		}
		res.Breakdown.LoveLanguages = math.Min(love, w.LoveLanguageCap)
		res.Reasons = append(res.Reasons, "💌 Love languages click")
	}

	// 5. Personality. Plain comparison after normalizing, so two blanks agree.
	a, b := normalizeMBTI(viewer.Personality.MBTI), normalizeMBTI(candidate.Personality.MBTI)
	switch {
	case a == b:
		res.Breakdown.Personality += w.MBTIExact
		if a != "" {
			res.Reasons = append(res.Reasons, fmt.Sprintf("🧠 Same personality type (%s)", a))
		}
	case complementaryMBTI(a, b):
		res.Breakdown.Personality += w.MBTIComplementary
		res.Reasons = append(res.Reasons, fmt.Sprintf("🧩 Complementary personalities (%s & %s)", a, b))
	default:
		res.Breakdown.Personality += w.MBTIOther
	}
	batteryA := normalize(viewer.Personality.SocialBattery)
	batteryB := normalize(candidate.Personality.SocialBattery)
	if batteryA == batteryB {
		res.Breakdown.Personality += w.SocialBatteryExact
		if batteryA != "" {
			res.Reasons = append(res.Reasons, "🔋 Matching social battery")
		}
	} else {
		res.Breakdown.Personality += w.SocialBatteryOther
	}

	total := res.Breakdown.Orientation + res.Breakdown.Preferences + res.Breakdown.Interests +
		res.Breakdown.LoveLanguages + res.Breakdown.Personality
	res.Score = int(math.Floor(math.Max(0, math.Min(total, 100))))
	return res
}

func (s *Scorer) orientation(viewer, candidate string) (float64, string, bool) {
	a, okA := lookupOrientation(viewer)
	b, okB := lookupOrientation(candidate)
	if !okA || !okB {
		return s.weights.OrientationUnknown, "", true
	}

	if !a.accepts(b.name) || !b.accepts(a.name) {
		return 0, "", false
	}

	if a.name == b.name {
		return s.weights.OrientationExact, fmt.Sprintf("💜 Perfect orientation match (%s)", a.label), true
	}
	return s.weights.OrientationCompat, fmt.Sprintf("💞 Compatible orientations (%s & %s)", a.label, b.label), true
}

// interestPoints never decreases as shared grows for a fixed union
func (s *Scorer) interestPoints(shared, union int) float64 {
	w := s.weights
	switch {
	case shared >= 3:
		ratio := w.InterestMax * (float64(shared) / float64(union) * w.InterestRatioBoost)
		return math.Min(math.Max(ratio, float64(shared)*w.InterestPerShared), w.InterestMax)
	case shared > 0:
		return float64(shared) * w.InterestPerShared
	default:
		return w.InterestFloor
	}
}

// prefers reports whether a stated preference accepts an actual value
func prefers(preference, actual string) bool {
	if profile.IsOpen(preference) {
		return true
	}
	return normalize(preference) == normalize(actual)
}

// overlap returns the intersection and union sizes of two interest lists
func overlap(a, b []string) (shared, union int) {
	setA := toSet(a)
	setB := toSet(b)
	for k := range setA {
		if setB[k] {
			shared++
		}
	}
	union = len(setA) + len(setB) - shared
	return shared, union
}

// countIn counts entries of needles present in haystack
func countIn(needles, haystack []string) int {
	set := toSet(haystack)
	count := 0
	for k := range toSet(needles) {
		if set[k] {
			count++
		}
	}
	return count
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if n := normalize(v); n != "" {
			set[n] = true
		}
	}
	return set
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
