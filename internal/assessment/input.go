package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// StepInput is a partial update of the answer set, as posted by a form or
// the JSON API. Nil pointers and empty choice values leave the current
// answer untouched; a non-nil empty text value clears the answer.
type StepInput struct {
	Age                 *Text    `json:"age,omitempty" validate:"omitnil,max=32"`
	Gender              string   `json:"gender,omitempty" validate:"omitempty,oneof=male female"`
	WeightKg            *Text    `json:"weight_kg,omitempty" validate:"omitnil,max=32"`
	HeightCm            *Text    `json:"height_cm,omitempty" validate:"omitnil,max=32"`
	FamilyHistory       string   `json:"family_history,omitempty" validate:"omitempty,oneof=yes no unknown"`
	HighBloodPressure   string   `json:"high_blood_pressure,omitempty" validate:"omitempty,oneof=yes no"`
	ExerciseDaysPerWeek *int     `json:"exercise_days_per_week,omitempty" validate:"omitnil,min=0,max=7"`
	Smoking             string   `json:"smoking,omitempty" validate:"omitempty,oneof=yes no former"`
	SugaryDrinks        string   `json:"sugary_drinks,omitempty" validate:"omitempty,oneof=daily weekly rarely"`
	SleepHoursPerNight  *float64 `json:"sleep_hours_per_night,omitempty" validate:"omitnil,min=4,max=12"`
}

// Text is a free-text answer. In JSON it may be sent either as a string or
// as a number; numbers keep their literal decimal form, so "age": 50 and
// "age": "50" are the same answer.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: want a string or a number, got %s", ErrInvalidAnswer, data)
	}
	*t = Text(n.String())
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the input against the answer domains.
func (in StepInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return fmt.Errorf("%w: %s", ErrInvalidAnswer, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
	}
	return nil
}

// Empty reports whether the input carries no field at all.
func (in StepInput) Empty() bool {
	return in == StepInput{}
}

// Apply validates in and merges it into the answers as one mutation.
// Nothing is changed when validation fails.
func (w *Wizard) Apply(in StepInput) (Snapshot, error) {
	if err := in.Validate(); err != nil {
		return w.Snapshot(), err
	}
	a := &w.answers
	if in.Age != nil {
		a.Age = strings.TrimSpace(string(*in.Age))
	}
	if in.WeightKg != nil {
		a.WeightKg = strings.TrimSpace(string(*in.WeightKg))
	}
	if in.HeightCm != nil {
		a.HeightCm = strings.TrimSpace(string(*in.HeightCm))
	}
	if in.Gender != "" {
		a.Gender = Gender(in.Gender)
	}
	if in.FamilyHistory != "" {
		a.FamilyHistory = FamilyHistory(in.FamilyHistory)
	}
	if in.HighBloodPressure != "" {
		a.HighBloodPressure = YesNo(in.HighBloodPressure)
	}
	if in.ExerciseDaysPerWeek != nil {
		a.ExerciseDaysPerWeek = ClampExerciseDays(*in.ExerciseDaysPerWeek)
	}
	if in.Smoking != "" {
		a.Smoking = Smoking(in.Smoking)
	}
	if in.SugaryDrinks != "" {
		a.SugaryDrinks = DrinkFrequency(in.SugaryDrinks)
	}
	if in.SleepHoursPerNight != nil {
		a.SleepHoursPerNight = ClampSleepHours(*in.SleepHoursPerNight)
	}
	return w.publish(), nil
}
