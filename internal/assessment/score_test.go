package assessment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answers(mod func(*Answers)) Answers {
	a := DefaultAnswers()
	mod(&a)
	return a
}

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		answers Answers
		want    int
		band    Band
	}{
		{
			name: "family history, older, inactive",
			answers: answers(func(a *Answers) {
				a.FamilyHistory = FamilyHistoryYes
				a.Age = "50"
				a.ExerciseDaysPerWeek = 1
				a.Smoking = SmokingNo
				a.SugaryDrinks = DrinksRarely
			}),
			want: 60,
			band: BandHigh,
		},
		{
			name: "young and active",
			answers: answers(func(a *Answers) {
				a.FamilyHistory = FamilyHistoryNo
				a.Age = "30"
				a.ExerciseDaysPerWeek = 5
				a.Smoking = SmokingNo
				a.SugaryDrinks = DrinksRarely
			}),
			want: 15,
			band: BandLow,
		},
		{
			name:    "defaults",
			answers: DefaultAnswers(),
			want:    15,
			band:    BandLow,
		},
		{
			name: "every factor",
			answers: answers(func(a *Answers) {
				a.FamilyHistory = FamilyHistoryYes
				a.Age = "70"
				a.ExerciseDaysPerWeek = 0
				a.Smoking = SmokingYes
				a.SugaryDrinks = DrinksDaily
			}),
			want: 85,
			band: BandHigh,
		},
		{
			name: "former smoker does not count",
			answers: answers(func(a *Answers) {
				a.Smoking = SmokingFormer
			}),
			want: 15,
			band: BandLow,
		},
		{
			name: "age 45 is not above threshold",
			answers: answers(func(a *Answers) {
				a.Age = "45"
			}),
			want: 15,
			band: BandLow,
		},
		{
			name: "age with trailing text",
			answers: answers(func(a *Answers) {
				a.Age = "46 years"
			}),
			want: 30,
			band: BandModerate,
		},
		{
			name: "unset age contributes nothing",
			answers: answers(func(a *Answers) {
				a.Age = ""
				a.FamilyHistory = FamilyHistoryYes
			}),
			want: 35,
			band: BandModerate,
		},
		{
			name: "non-numeric age contributes nothing",
			answers: answers(func(a *Answers) {
				a.Age = "abc"
			}),
			want: 15,
			band: BandLow,
		},
		{
			name: "ignored fields",
			answers: answers(func(a *Answers) {
				a.Gender = GenderFemale
				a.WeightKg = "120"
				a.HeightCm = "150"
				a.HighBloodPressure = Yes
				a.SleepHoursPerNight = 4
			}),
			want: 15,
			band: BandLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.answers)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.band, BandFor(got))
		})
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	a := answers(func(a *Answers) {
		a.FamilyHistory = FamilyHistoryYes
		a.Age = "52"
		a.SugaryDrinks = DrinksDaily
	})
	first := Score(a)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, Score(a))
	}
}

func TestScoreStaysInRange(t *testing.T) {
	ages := []string{"", "0", "-5", "46", "999999999999999999999", "x"}
	families := []FamilyHistory{"", FamilyHistoryYes, FamilyHistoryNo, FamilyHistoryUnknown}
	smoking := []Smoking{"", SmokingYes, SmokingNo, SmokingFormer}
	drinks := []DrinkFrequency{"", DrinksDaily, DrinksWeekly, DrinksRarely}

	for _, age := range ages {
		for _, f := range families {
			for _, s := range smoking {
				for _, d := range drinks {
					for days := MinExerciseDays; days <= MaxExerciseDays; days++ {
						score := Score(Answers{Age: age, FamilyHistory: f, Smoking: s, SugaryDrinks: d, ExerciseDaysPerWeek: days})
						require.GreaterOrEqual(t, score, 0)
						require.LessOrEqual(t, score, 100)
					}
				}
			}
		}
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		score int
		want  Band
	}{
		{0, BandLow},
		{29, BandLow},
		{30, BandModerate},
		{59, BandModerate},
		{60, BandHigh},
		{100, BandHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BandFor(tt.score), "score %d", tt.score)
	}
}

func TestEvaluate(t *testing.T) {
	res := Evaluate(answers(func(a *Answers) {
		a.FamilyHistory = FamilyHistoryYes
		a.Age = "50"
		a.ExerciseDaysPerWeek = 1
	}))

	assert.Equal(t, 60, res.Score)
	assert.Equal(t, BandHigh, res.Band)
	assert.Equal(t, "riskCheck.highRisk", res.LabelKey)
	assert.Equal(t, "riskCheck.disclaimer", res.DisclaimerKey)
	assert.Equal(t, []string{
		"riskCheck.rec1", "riskCheck.rec2", "riskCheck.rec3", "riskCheck.rec4", "riskCheck.rec5",
	}, res.RecommendationKeys)
}

func TestRecommendationsReturnsCopy(t *testing.T) {
	keys := Recommendations(BandLow)
	keys[0] = "changed"
	assert.Equal(t, "riskCheck.rec1", Recommendations(BandLow)[0])
}

func TestParseLeadingInt(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"50", 50, true},
		{"  42", 42, true},
		{"+7", 7, true},
		{"-3", -3, true},
		{"46.9", 46, true},
		{"12abc", 12, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
		{" + 5", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLeadingInt(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	huge, ok := ParseLeadingInt("99999999999999999999999999")
	require.True(t, ok)
	assert.False(t, math.IsInf(huge, 0))
	assert.Greater(t, huge, 45.0)
}
