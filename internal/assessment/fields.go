package assessment

import "strconv"

// FieldKind tells a renderer how a question is answered.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldChoice
	FieldRange
)

// Option is one choice of a FieldChoice question.
type Option struct {
	Value    string
	LabelKey string
}

// Field describes one question of a step for renderers: the web pages, the
// terminal wizard and the PDF report all walk the same descriptors.
type Field struct {
	Name           string
	Kind           FieldKind
	LabelKey       string
	PlaceholderKey string
	UnitKey        string
	Options        []Option
	Min, Max, Step float64
}

var (
	yesNoOptions = []Option{
		{Value: "yes", LabelKey: "riskCheck.yes"},
		{Value: "no", LabelKey: "riskCheck.no"},
	}

	stepFields = map[Step][]Field{
		StepPersonalInfo: {
			{Name: "age", Kind: FieldText, LabelKey: "riskCheck.age", PlaceholderKey: "riskCheck.agePlaceholder"},
			{Name: "gender", Kind: FieldChoice, LabelKey: "riskCheck.gender", Options: []Option{
				{Value: string(GenderMale), LabelKey: "riskCheck.male"},
				{Value: string(GenderFemale), LabelKey: "riskCheck.female"},
			}},
			{Name: "weight_kg", Kind: FieldText, LabelKey: "riskCheck.weight", PlaceholderKey: "riskCheck.weightPlaceholder"},
			{Name: "height_cm", Kind: FieldText, LabelKey: "riskCheck.height", PlaceholderKey: "riskCheck.heightPlaceholder"},
		},
		StepHealthHistory: {
			{Name: "family_history", Kind: FieldChoice, LabelKey: "riskCheck.familyDiabetes", Options: []Option{
				{Value: string(FamilyHistoryYes), LabelKey: "riskCheck.yes"},
				{Value: string(FamilyHistoryNo), LabelKey: "riskCheck.no"},
				{Value: string(FamilyHistoryUnknown), LabelKey: "riskCheck.dontKnow"},
			}},
			{Name: "high_blood_pressure", Kind: FieldChoice, LabelKey: "riskCheck.highBloodPressure", Options: yesNoOptions},
		},
		StepLifestyle: {
			{Name: "exercise_days_per_week", Kind: FieldRange, LabelKey: "riskCheck.exerciseDays", UnitKey: "riskCheck.days",
				Min: MinExerciseDays, Max: MaxExerciseDays, Step: 1},
			{Name: "smoking", Kind: FieldChoice, LabelKey: "riskCheck.smoking", Options: []Option{
				{Value: string(SmokingYes), LabelKey: "riskCheck.yes"},
				{Value: string(SmokingNo), LabelKey: "riskCheck.no"},
				{Value: string(SmokingFormer), LabelKey: "riskCheck.formerSmoker"},
			}},
		},
		StepDiet: {
			{Name: "sugary_drinks", Kind: FieldChoice, LabelKey: "riskCheck.sugaryDrinks", Options: []Option{
				{Value: string(DrinksDaily), LabelKey: "riskCheck.daily"},
				{Value: string(DrinksWeekly), LabelKey: "riskCheck.weekly"},
				{Value: string(DrinksRarely), LabelKey: "riskCheck.rarely"},
			}},
			{Name: "sleep_hours_per_night", Kind: FieldRange, LabelKey: "riskCheck.sleepHours", UnitKey: "riskCheck.hours",
				Min: MinSleepHours, Max: MaxSleepHours, Step: SleepHoursStep},
		},
	}
)

// FieldsFor returns the questions asked on step. The results step has none.
func FieldsFor(step Step) []Field {
	return stepFields[step]
}

// AllFields returns the questions of every step in order.
func AllFields() []Field {
	var out []Field
	for _, s := range Steps() {
		out = append(out, stepFields[s]...)
	}
	return out
}

// Value returns the field's current raw value in a.
func (f Field) Value(a Answers) string {
	switch f.Name {
	case "age":
		return a.Age
	case "gender":
		return string(a.Gender)
	case "weight_kg":
		return a.WeightKg
	case "height_cm":
		return a.HeightCm
	case "family_history":
		return string(a.FamilyHistory)
	case "high_blood_pressure":
		return string(a.HighBloodPressure)
	case "exercise_days_per_week":
		return strconv.Itoa(a.ExerciseDaysPerWeek)
	case "smoking":
		return string(a.Smoking)
	case "sugary_drinks":
		return string(a.SugaryDrinks)
	case "sleep_hours_per_night":
		return strconv.FormatFloat(a.SleepHoursPerNight, 'f', -1, 64)
	default:
		return ""
	}
}

// Display returns the field's value in a as display text, translating
// choice labels and units with t.
func (f Field) Display(a Answers, t func(string) string) string {
	v := f.Value(a)
	if v == "" {
		return t("riskCheck.notAnswered")
	}
	switch f.Kind {
	case FieldChoice:
		for _, o := range f.Options {
			if o.Value == v {
				return t(o.LabelKey)
			}
		}
		return v
	case FieldRange:
		return v + " " + t(f.UnitKey)
	default:
		return v
	}
}

// Input converts a raw value for this field into a StepInput. Range values
// that do not parse are reported as ErrInvalidAnswer.
func (f Field) Input(raw string) (StepInput, error) {
	var in StepInput
	switch f.Name {
	case "age":
		text := Text(raw)
		in.Age = &text
	case "gender":
		in.Gender = raw
	case "weight_kg":
		text := Text(raw)
		in.WeightKg = &text
	case "height_cm":
		text := Text(raw)
		in.HeightCm = &text
	case "family_history":
		in.FamilyHistory = raw
	case "high_blood_pressure":
		in.HighBloodPressure = raw
	case "smoking":
		in.Smoking = raw
	case "sugary_drinks":
		in.SugaryDrinks = raw
	case "exercise_days_per_week":
		n, err := strconv.Atoi(raw)
		if err != nil {
			return in, ErrInvalidAnswer
		}
		in.ExerciseDaysPerWeek = &n
	case "sleep_hours_per_night":
		h, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, ErrInvalidAnswer
		}
		in.SleepHoursPerNight = &h
	}
	return in, nil
}
