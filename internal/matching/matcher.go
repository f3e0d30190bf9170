// internal/matching/matcher.go

package matching

import (
	"github.com/imadgeboyega/tadhana-backend/internal/profile"
)

// BatchGates are the extra hard gates the batch matcher applies on top of the scorer
type BatchGates struct {
	MinSharedInterests int
	RequirePreferences bool
}

// Admit reports whether a scored pair may be paired by the batch run
func (g BatchGates) Admit(u, v profile.Document, res Result) bool {
	if res.Rejected || res.Score <= 0 {
		return false
	}
	if res.Breakdown.SharedInterests < g.MinSharedInterests {
		return false
	}
	if g.RequirePreferences && !preferencePasses(u, v) {
		return false
	}
	return true
}

// preferencePasses requires each side's stated preferences to accept the other
func preferencePasses(a, b profile.Document) bool {
	return acceptsAll(a.Preferred, b) && acceptsAll(b.Preferred, a)
}

func acceptsAll(p profile.Preferences, other profile.Document) bool {
	return prefers(p.College, other.College) &&
		prefers(p.Course, other.Course) &&
		prefers(p.YearLevel, other.YearLevel) &&
		prefers(p.Identity, other.SOGIESC.GenderIdentity)
}

// bestPartner scans candidates after index i and returns the highest admitted
// score. Ties keep the first one found. consumed marks users already paired.
func bestPartner(scorer *Scorer, gates BatchGates, candidates []*Candidate, consumed []bool, i int) (int, Result) {
	u := candidates[i]
	best := -1
	var bestResult Result

	for j := i + 1; j < len(candidates); j++ {
		if consumed[j] {
			continue
		}
		v := candidates[j]
		res := scorer.Score(u.ID, u.Profile, v.Profile)
		if !gates.Admit(u.Profile, v.Profile, res) {
			continue
		}
		if best < 0 || res.Score > bestResult.Score {
			best = j
			bestResult = res
		}
	}

	return best, bestResult
}
