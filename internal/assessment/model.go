package assessment

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Step is the wizard position, 1 through 5.
type Step int

const (
	StepPersonalInfo Step = iota + 1
	StepHealthHistory
	StepLifestyle
	StepDiet
	StepResults
)

// StepCount is the number of wizard steps including the results step.
const StepCount = int(StepResults)

// TitleKey returns the translation key for the step's title.
func (s Step) TitleKey() string {
	switch s {
	case StepPersonalInfo:
		return "riskCheck.step1"
	case StepHealthHistory:
		return "riskCheck.step2"
	case StepLifestyle:
		return "riskCheck.step3"
	case StepDiet:
		return "riskCheck.step4"
	case StepResults:
		return "riskCheck.step5"
	default:
		return ""
	}
}

// HeadingKey returns the translation key for the heading shown above the step's fields.
func (s Step) HeadingKey() string {
	switch s {
	case StepPersonalInfo:
		return "riskCheck.personalInfo"
	case StepHealthHistory:
		return "riskCheck.healthHistory"
	case StepLifestyle:
		return "riskCheck.lifestyleHabits"
	case StepDiet:
		return "riskCheck.dietaryHabits"
	case StepResults:
		return "riskCheck.results"
	default:
		return ""
	}
}

// Valid reports whether s is one of the five wizard steps.
func (s Step) Valid() bool {
	return s >= StepPersonalInfo && s <= StepResults
}

// Steps lists every step in order.
func Steps() []Step {
	return []Step{StepPersonalInfo, StepHealthHistory, StepLifestyle, StepDiet, StepResults}
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type FamilyHistory string

const (
	FamilyHistoryYes     FamilyHistory = "yes"
	FamilyHistoryNo      FamilyHistory = "no"
	FamilyHistoryUnknown FamilyHistory = "unknown"
)

type YesNo string

const (
	Yes YesNo = "yes"
	No  YesNo = "no"
)

type Smoking string

const (
	SmokingYes    Smoking = "yes"
	SmokingNo     Smoking = "no"
	SmokingFormer Smoking = "former"
)

type DrinkFrequency string

const (
	DrinksDaily  DrinkFrequency = "daily"
	DrinksWeekly DrinkFrequency = "weekly"
	DrinksRarely DrinkFrequency = "rarely"
)

// Slider bounds.
const (
	MinExerciseDays     = 0
	MaxExerciseDays     = 7
	DefaultExerciseDays = 3

	MinSleepHours     = 4.0
	MaxSleepHours     = 12.0
	SleepHoursStep    = 0.5
	DefaultSleepHours = 7.0
)

// Answers is the answer set of one assessment session. Free-text numeric
// entries are kept exactly as typed; an empty string or empty enum value
// means the question is unanswered.
type Answers struct {
	Age                 string         `json:"age"`
	Gender              Gender         `json:"gender"`
	WeightKg            string         `json:"weight_kg"`
	HeightCm            string         `json:"height_cm"`
	FamilyHistory       FamilyHistory  `json:"family_history"`
	HighBloodPressure   YesNo          `json:"high_blood_pressure"`
	ExerciseDaysPerWeek int            `json:"exercise_days_per_week"`
	Smoking             Smoking        `json:"smoking"`
	SugaryDrinks        DrinkFrequency `json:"sugary_drinks"`
	SleepHoursPerNight  float64        `json:"sleep_hours_per_night"`
}

// DefaultAnswers returns the answer set a fresh wizard starts with.
func DefaultAnswers() Answers {
	return Answers{
		ExerciseDaysPerWeek: DefaultExerciseDays,
		SleepHoursPerNight:  DefaultSleepHours,
	}
}

// Band is the risk band derived from a score.
type Band string

const (
	BandLow      Band = "low"
	BandModerate Band = "moderate"
	BandHigh     Band = "high"
)

// LabelKey returns the translation key of the band's display label.
func (b Band) LabelKey() string {
	switch b {
	case BandLow:
		return "riskCheck.lowRisk"
	case BandModerate:
		return "riskCheck.moderateRisk"
	case BandHigh:
		return "riskCheck.highRisk"
	default:
		return ""
	}
}

// Result is the outcome shown on the results step.
type Result struct {
	Score              int      `json:"score"`
	Band               Band     `json:"band"`
	LabelKey           string   `json:"label_key"`
	RecommendationKeys []string `json:"recommendation_keys"`
	DisclaimerKey      string   `json:"disclaimer_key"`
}

// Snapshot is the observable state of a wizard after a mutation.
type Snapshot struct {
	Step       Step    `json:"step"`
	Answers    Answers `json:"answers"`
	Progress   int     `json:"progress"`
	CanAdvance bool    `json:"can_advance"`
	CanRetreat bool    `json:"can_retreat"`
	CanReset   bool    `json:"can_reset"`
	Result     *Result `json:"result,omitempty"`
}

// Session is a wizard held by the HTTP service between requests.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Wizard    *Wizard   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	mu sync.Mutex
}
