package profiling

import (
	"math"
	"sort"
	"strings"
	"unicode"

	domain "statadvisor/domain/profiling"
)

var idSubstrings = []string{"subject", "participant"}

// nameTokens splits a column name on punctuation and camelCase boundaries
func nameTokens(name string) []string {
	var tokens []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return tokens
}

// nameLooksLikeID matches the token "id" (subject_id, userId, ID) or the
// substrings subject/participant. Plain substring matching on "id" would
// flag columns such as "width" or "valid".
func nameLooksLikeID(name string) bool {
	for _, tok := range nameTokens(name) {
		if tok == "id" || tok == "ids" {
			return true
		}
	}
	lower := strings.ToLower(name)
	for _, s := range idSubstrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// isIntegerSequence reports whether the values are distinct integers that
// form one consecutive run once sorted (1..n row numbers and the like).
func isIntegerSequence(values []float64) bool {
	if len(values) == 0 {
		return false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	for i, v := range sorted {
		if v != math.Trunc(v) {
			return false
		}
		if i > 0 && v-sorted[i-1] != 1 {
			return false
		}
	}
	return true
}

type idEvidence struct {
	name        string
	present     int
	unique      int
	numericMost bool
	temporal    bool
	numbers     []float64
}

func detectIdentifier(ev idEvidence, cfg domain.ProfilingConfig) domain.IDLikelihood {
	if nameLooksLikeID(ev.name) {
		return domain.IDLikelihood{IsID: true, Confidence: 0.9, Reason: "column name suggests an identifier"}
	}
	if ev.present < cfg.IDMinValues {
		return domain.IDLikelihood{}
	}
	ratio := float64(ev.unique) / float64(ev.present)
	if ev.numericMost {
		if ev.unique == ev.present && len(ev.numbers) == ev.present && isIntegerSequence(ev.numbers) {
			return domain.IDLikelihood{IsID: true, Confidence: 0.8, Reason: "values are a consecutive integer sequence"}
		}
		return domain.IDLikelihood{Confidence: 0}
	}
	if !ev.temporal && ratio >= cfg.IDUniqueRatio {
		return domain.IDLikelihood{IsID: true, Confidence: 0.7, Reason: "nearly every value is unique"}
	}
	return domain.IDLikelihood{Confidence: ratio * 0.5}
}
