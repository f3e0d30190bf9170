package matching

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/tadhana-backend/internal/profile"
)

func doc(orientation string, interests ...string) profile.Document {
	return profile.Document{
		Interests: interests,
		SOGIESC:   profile.SOGIESC{Orientation: orientation},
	}
}

func TestScoreExampleScenario(t *testing.T) {
	s := NewScorer(DefaultWeights())
	a := doc("Heterosexual", "Gaming", "Music", "Movies")
	b := doc("Heterosexual", "Gaming", "Music", "Movies", "Books")

	res := s.Score(1, a, b)

	assert.False(t, res.Rejected)
	assert.Equal(t, int64(1), res.Perspective)
	// 25 orientation + 30 preferences (all open) + 22.5 interests + 5 personality (blank = blank)
	assert.Equal(t, 82, res.Score)
	assert.GreaterOrEqual(t, res.Score, 80)
	assert.Less(t, res.Score, 100)
	assert.Equal(t, 25.0, res.Breakdown.Orientation)
	assert.Equal(t, 30.0, res.Breakdown.Preferences)
	assert.InDelta(t, 22.5, res.Breakdown.Interests, 1e-9)
	assert.Equal(t, 5.0, res.Breakdown.Personality)
	assert.Equal(t, 3, res.Breakdown.SharedInterests)
	assert.Equal(t, []string{
		"💜 Perfect orientation match (Heterosexual)",
		"🎯 Preferences align",
		"🌟 3 shared interests",
	}, res.Reasons)
}

func TestOrientationVetoIsBidirectional(t *testing.T) {
	s := NewScorer(DefaultWeights())
	cases := []struct {
		a, b     string
		rejected bool
	}{
		{"Heterosexual", "Gay", true},
		{"Gay", "Heterosexual", true},
		{"Lesbian", "Gay", true},
		{"Pansexual", "Demisexual", true}, // asexual row does not list pansexual
		{"Heterosexual", "Demisexual", true},
		{"Gay", "Bisexual", false},
		{"Bisexual", "Heterosexual", false},
		{"Asexual", "Gray-Asexual", false},
		{"demisexual", "ASEXUAL", false},
		{"Heterosexual", "", false},
		{"Queer", "Heterosexual", false}, // unrecognized counts as omitted
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s-%s", tc.a, tc.b), func(t *testing.T) {
			a := doc(tc.a, "Chess", "Hiking", "Jazz")
			b := doc(tc.b, "Chess", "Hiking", "Jazz")
			res := s.Score(1, a, b)
			assert.Equal(t, tc.rejected, res.Rejected)
			if tc.rejected {
				assert.Zero(t, res.Score)
				assert.Empty(t, res.Reasons)
			} else {
				assert.Positive(t, res.Score)
			}
		})
	}
}

func TestOrientationTableReachableAndSymmetric(t *testing.T) {
	for key, row := range orientationBuckets {
		for other := range row.compatible {
			o, ok := lookupOrientation(other)
			require.True(t, ok, "%s lists unknown orientation %q", key, other)
			assert.True(t, o.accepts(key), "%s accepts %s but not the reverse", key, other)
		}
	}
}

func TestOrientationPoints(t *testing.T) {
	s := NewScorer(DefaultWeights())

	exact := s.Score(1, doc("Gay"), doc("gay"))
	assert.Equal(t, 25.0, exact.Breakdown.Orientation)

	cross := s.Score(1, doc("Gay"), doc("Bisexual"))
	assert.Equal(t, 18.0, cross.Breakdown.Orientation)
	assert.Contains(t, cross.Reasons, "💞 Compatible orientations (Gay & Bisexual)")

	omitted := s.Score(1, doc(""), doc("Bisexual"))
	assert.Equal(t, 10.0, omitted.Breakdown.Orientation)

	spectrum := s.Score(1, doc("grey asexual"), doc("Gray-Asexual"))
	assert.Contains(t, spectrum.Reasons, "💜 Perfect orientation match (Gray-Asexual)")
}

func TestScoreReachesButNeverExceeds100(t *testing.T) {
	s := NewScorer(DefaultWeights())
	full := profile.Document{
		College:             "Engineering",
		Course:              "BS CS",
		YearLevel:           "3",
		Interests:           []string{"Chess", "Hiking", "Jazz"},
		Preferred:           profile.Preferences{College: "Engineering", Course: "BS CS", YearLevel: "3"},
		Personality:         profile.Personality{MBTI: "INFJ", SocialBattery: "Ambivert"},
		SOGIESC:             profile.SOGIESC{Orientation: "Lesbian"},
		LoveLanguageReceive: []string{"Words of Affirmation", "Quality Time"},
		LoveLanguageProvide: []string{"Words of Affirmation", "Quality Time"},
	}

	res := s.Score(1, full, full)
	assert.Equal(t, 100, res.Score)
	assert.Len(t, res.Reasons, 6)
}

func TestScoreBoundedAcrossGrid(t *testing.T) {
	s := NewScorer(DefaultWeights())
	orientations := []string{"", "Heterosexual", "Gay", "Lesbian", "Bisexual", "Pansexual", "Asexual", "Demisexual", "Queer"}
	interestSets := [][]string{nil, {"a"}, {"a", "b"}, {"a", "b", "c"}, {"a", "b", "c", "d", "e", "f"}}
	mbti := []string{"", "INFJ", "ENFP", "ESTJ"}

	for _, oa := range orientations {
		for _, ob := range orientations {
			for _, ia := range interestSets {
				for _, ib := range interestSets {
					for _, ma := range mbti {
						a := doc(oa, ia...)
						b := doc(ob, ib...)
						a.Personality.MBTI = ma
						b.Personality.MBTI = "ENFP"
						a.LoveLanguageReceive = []string{"Gifts", "Touch", "Time"}
						b.LoveLanguageProvide = []string{"gifts", "touch", "time"}
						res := s.Score(1, a, b)
						require.GreaterOrEqual(t, res.Score, 0)
						require.LessOrEqual(t, res.Score, 100)
					}
				}
			}
		}
	}
}

func TestInterestPointsMonotonic(t *testing.T) {
	s := NewScorer(DefaultWeights())
	for union := 1; union <= 40; union++ {
		prev := -1.0
		for shared := 0; shared <= union; shared++ {
			got := s.interestPoints(shared, union)
			assert.GreaterOrEqual(t, got, prev, "shared=%d union=%d", shared, union)
			prev = got
		}
	}
}

func TestInterestsCaseInsensitive(t *testing.T) {
	s := NewScorer(DefaultWeights())
	res := s.Score(1, doc("", " gaming", "MUSIC"), doc("", "Gaming", "music "))
	assert.Equal(t, 2, res.Breakdown.SharedInterests)
	assert.Equal(t, 6.0, res.Breakdown.Interests)
	assert.Contains(t, res.Reasons, "✨ 2 shared interests")

	none := s.Score(1, doc("", "Chess"), doc("", "Surfing"))
	assert.Equal(t, 2.0, none.Breakdown.Interests)

	one := s.Score(1, doc("", "Chess"), doc("", "chess"))
	assert.Contains(t, one.Reasons, "✨ 1 shared interest")
}

func TestPreferencesDirectional(t *testing.T) {
	s := NewScorer(DefaultWeights())
	a := doc("")
	a.College = "Science"
	a.Preferred.College = "Engineering"
	b := doc("")
	b.College = "Arts"

	res := s.Score(1, a, b)
	// a rejects b's college; b accepts anything: 10 + 5 + 3 + 3 + 2 + 2
	assert.Equal(t, 25.0, res.Breakdown.Preferences)
}

func TestLoveLanguages(t *testing.T) {
	s := NewScorer(DefaultWeights())
	a := doc("")
	a.LoveLanguageReceive = []string{"Words", "Touch"}
	a.LoveLanguageProvide = []string{"Gifts"}
	b := doc("")
	b.LoveLanguageProvide = []string{"words"}
	b.LoveLanguageReceive = []string{"gifts"}

	res := s.Score(1, a, b)
	assert.Equal(t, 11.0, res.Breakdown.LoveLanguages)
	assert.Contains(t, res.Reasons, "💌 Love languages click")

	b.LoveLanguageReceive = nil
	res = s.Score(1, a, b)
	assert.Equal(t, 4.0, res.Breakdown.LoveLanguages)
}

func TestPersonalityScoring(t *testing.T) {
	s := NewScorer(DefaultWeights())
	a := doc("")
	b := doc("")

	res := s.Score(1, a, b)
	assert.Equal(t, 5.0, res.Breakdown.Personality, "two blanks compare equal")
	assert.NotContains(t, res.Reasons, "🔋 Matching social battery")
	assert.NotContains(t, res.Reasons, "🧠 Same personality type ()")

	a.Personality = profile.Personality{MBTI: "INTJ", SocialBattery: "low"}
	res = s.Score(1, a, b)
	assert.Equal(t, 2.0, res.Breakdown.Personality, "one-sided answers fall back to +1 each")

	a.Personality.SocialBattery = "Introvert"
	b.Personality = profile.Personality{MBTI: "enfp-t", SocialBattery: "Extrovert"}
	res = s.Score(1, a, b)
	assert.Equal(t, 3.0, res.Breakdown.Personality) // complementary 2 + other battery 1
	assert.Contains(t, res.Reasons, "🧩 Complementary personalities (INTJ & ENFP)")

	b.Personality = profile.Personality{MBTI: "INTJ", SocialBattery: "introvert"}
	res = s.Score(1, a, b)
	assert.Equal(t, 5.0, res.Breakdown.Personality)
	assert.Contains(t, res.Reasons, "🧠 Same personality type (INTJ)")
	assert.Contains(t, res.Reasons, "🔋 Matching social battery")

	b.Personality = profile.Personality{MBTI: "ESFP"}
	res = s.Score(1, a, b)
	assert.Equal(t, 2.0, res.Breakdown.Personality)
}

func TestComplementaryPairsSymmetric(t *testing.T) {
	assert.Len(t, complementaryPairs, 32)
	for pair := range complementaryPairs {
		assert.True(t, complementaryMBTI(pair[1], pair[0]))
	}
}

func TestBatchGates(t *testing.T) {
	s := NewScorer(DefaultWeights())
	gates := BatchGates{MinSharedInterests: 3, RequirePreferences: true}

	a := doc("Bisexual", "Chess", "Hiking", "Jazz")
	b := doc("Gay", "Chess", "Hiking", "Jazz")
	assert.True(t, gates.Admit(a, b, s.Score(1, a, b)))

	few := doc("Gay", "Chess", "Hiking")
	assert.False(t, gates.Admit(a, few, s.Score(1, a, few)))

	picky := doc("Gay", "Chess", "Hiking", "Jazz")
	picky.Preferred.Identity = "Woman"
	b.SOGIESC.GenderIdentity = "Man"
	assert.False(t, gates.Admit(b, picky, s.Score(1, b, picky)), "identity preference checked in both directions")
	assert.False(t, gates.Admit(picky, b, s.Score(1, picky, b)))

	relaxed := BatchGates{MinSharedInterests: 3}
	assert.True(t, relaxed.Admit(picky, b, s.Score(1, picky, b)))
}
