package assessment

import "unicode"

const (
	baseScore = 15
	maxScore  = 100

	familyHistoryWeight = 20
	ageWeight           = 15
	inactivityWeight    = 10
	smokingWeight       = 15
	sugaryDrinksWeight  = 10

	ageThreshold      = 45
	activeDaysMinimum = 3

	moderateFloor = 30
	highFloor     = 60
)

const disclaimerKey = "riskCheck.disclaimer"

var recommendationKeys = []string{
	"riskCheck.rec1",
	"riskCheck.rec2",
	"riskCheck.rec3",
	"riskCheck.rec4",
	"riskCheck.rec5",
}

// Every band currently carries the same five recommendations.
var bandRecommendations = map[Band][]string{
	BandLow:      recommendationKeys,
	BandModerate: recommendationKeys,
	BandHigh:     recommendationKeys,
}

// Score computes the additive risk heuristic. It is a pure function of a and
// always lies in [0, 100]. Gender, weight, height, blood pressure, former
// smoking and sleep do not contribute.
func Score(a Answers) int {
	score := baseScore
	if a.FamilyHistory == FamilyHistoryYes {
		score += familyHistoryWeight
	}
	if age, ok := ParseLeadingInt(a.Age); ok && age > ageThreshold {
		score += ageWeight
	}
	if a.ExerciseDaysPerWeek < activeDaysMinimum {
		score += inactivityWeight
	}
	if a.Smoking == SmokingYes {
		score += smokingWeight
	}
	if a.SugaryDrinks == DrinksDaily {
		score += sugaryDrinksWeight
	}
	return min(score, maxScore)
}

// BandFor maps a score onto its risk band.
func BandFor(score int) Band {
	switch {
	case score < moderateFloor:
		return BandLow
	case score < highFloor:
		return BandModerate
	default:
		return BandHigh
	}
}

// Recommendations returns the recommendation keys for a band.
func Recommendations(b Band) []string {
	keys := bandRecommendations[b]
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Evaluate scores a and bundles the band, label and recommendations.
func Evaluate(a Answers) Result {
	score := Score(a)
	band := BandFor(score)
	return Result{
		Score:              score,
		Band:               band,
		LabelKey:           band.LabelKey(),
		RecommendationKeys: Recommendations(band),
		DisclaimerKey:      disclaimerKey,
	}
}

// ParseLeadingInt reads an integer the way a browser's parseInt does with
// radix 10: leading whitespace is skipped, an optional sign and the longest
// run of ASCII digits are consumed and the rest is ignored. ok is false when
// no digit is found. The value is a float64 so that overlong inputs saturate
// instead of wrapping.
func ParseLeadingInt(s string) (value float64, ok bool) {
	rs := []rune(s)
	i := 0
	for i < len(rs) && unicode.IsSpace(rs[i]) {
		i++
	}
	negative := false
	if i < len(rs) && (rs[i] == '+' || rs[i] == '-') {
		negative = rs[i] == '-'
		i++
	}
	digits := 0
	for ; i < len(rs) && rs[i] >= '0' && rs[i] <= '9'; i++ {
		value = value*10 + float64(rs[i]-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if negative {
		value = -value
	}
	return value, true
}
