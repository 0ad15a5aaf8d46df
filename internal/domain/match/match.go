// Package match joins slot rosters to result rosters by approximate
// player-name equality.
//
// Transcribed names differ between the two sheet styles (clan tags, OCR
// artifacts, decorations), so the join treats it as a bipartite matching
// problem: normalize every name, score candidate slot/result pairs, then
// assign greedily from the highest score down with a minimum admission
// threshold. This path is opt-in; the default pipeline scores results by
// rank alone without any slot join.
package match

import (
	"sort"
	"strings"

	"github.com/vrushal1018/points-table-system/internal/domain/model"
)

const (
	// minNameLength guards against junk matches on one- and two-letter
	// fragments left over from normalization.
	minNameLength = 3

	exactMatchScore    = 3
	containmentScore   = 2
	admissionThreshold = 3
)

// Normalize reduces a transcribed player name to a comparable form:
// lowercase, alphanumerics only, digits stripped.
func Normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Score rates the roster similarity of a slot and a result. Each member
// pair contributes 3 for an exact normalized match and 2 for containment
// in either direction, counting only names of useful length.
func Score(slotMembers, resultMembers []string) int {
	score := 0
	for _, sm := range slotMembers {
		s := Normalize(sm)
		for _, rm := range resultMembers {
			r := Normalize(rm)
			switch {
			case s == r && len(s) >= minNameLength:
				score += exactMatchScore
			case len(r) >= minNameLength && strings.Contains(s, r):
				score += containmentScore
			case len(s) >= minNameLength && strings.Contains(r, s):
				score += containmentScore
			}
		}
	}
	return score
}

// Assign matches slots to canonical result keys. Each slot and each result
// is used at most once; pairs scoring below the admission threshold stay
// unmatched. Assignment is greedy from the highest-scoring pair down, with
// slot number and result key as deterministic tie-breaks.
func Assign(slots []model.SlotRecord, results map[string]model.ResultRecord) map[int]string {
	type candidate struct {
		slotNo int
		key    string
		score  int
	}

	keys := make([]string, 0, len(results))
	for key := range results {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var candidates []candidate
	for _, slot := range slots {
		for _, key := range keys {
			score := Score(slot.TeamMembers, results[key].TeamMembers)
			if score >= admissionThreshold {
				candidates = append(candidates, candidate{slotNo: slot.SlotNo, key: key, score: score})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].slotNo != candidates[j].slotNo {
			return candidates[i].slotNo < candidates[j].slotNo
		}
		return candidates[i].key < candidates[j].key
	})

	assigned := make(map[int]string)
	usedResults := make(map[string]struct{})
	for _, c := range candidates {
		if _, ok := assigned[c.slotNo]; ok {
			continue
		}
		if _, ok := usedResults[c.key]; ok {
			continue
		}
		assigned[c.slotNo] = c.key
		usedResults[c.key] = struct{}{}
	}
	return assigned
}
