package assessment

import (
	"fmt"
	"math"
	"slices"
)

// Wizard drives the five-step questionnaire. It is not safe for concurrent
// use; the service serializes access per session.
type Wizard struct {
	step      Step
	answers   Answers
	observers []snapshotObserver
	nextObs   int
}

type snapshotObserver struct {
	id int
	fn func(Snapshot)
}

// New returns a wizard on the first step with default answers.
func New() *Wizard {
	return &Wizard{
		step:    StepPersonalInfo,
		answers: DefaultAnswers(),
	}
}

func (w *Wizard) Step() Step       { return w.step }
func (w *Wizard) Answers() Answers { return w.answers }

// Snapshot returns the current observable state. The result is only
// populated on the results step.
func (w *Wizard) Snapshot() Snapshot {
	s := Snapshot{
		Step:       w.step,
		Answers:    w.answers,
		Progress:   (int(w.step) - 1) * 100 / (StepCount - 1),
		CanAdvance: w.step < StepResults,
		CanRetreat: w.step > StepPersonalInfo && w.step < StepResults,
		CanReset:   w.step == StepResults,
	}
	if res, ok := w.Result(); ok {
		s.Result = &res
	}
	return s
}

// Result evaluates the answers when the wizard is on the results step.
func (w *Wizard) Result() (Result, bool) {
	if w.step != StepResults {
		return Result{}, false
	}
	return Evaluate(w.answers), true
}

// Advance moves to the next step. Step 4 advances into the results step;
// on the results step it does nothing.
func (w *Wizard) Advance() Snapshot {
	if w.step < StepResults {
		w.step++
	}
	return w.publish()
}

// Retreat moves to the previous step. It does nothing on the first step and
// on the results step, which can only be left through Reset.
func (w *Wizard) Retreat() Snapshot {
	if w.step > StepPersonalInfo && w.step < StepResults {
		w.step--
	}
	return w.publish()
}

// Reset returns to the first step with default answers.
func (w *Wizard) Reset() (Snapshot, error) {
	if w.step != StepResults {
		return w.Snapshot(), ErrResetUnavailable
	}
	w.step = StepPersonalInfo
	w.answers = DefaultAnswers()
	return w.publish(), nil
}

// Subscribe registers fn to receive the snapshot after every mutation.
// Observers run in registration order.
func (w *Wizard) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	id := w.nextObs
	w.nextObs++
	w.observers = append(w.observers, snapshotObserver{id: id, fn: fn})
	return func() {
		w.observers = slices.DeleteFunc(w.observers, func(o snapshotObserver) bool { return o.id == id })
	}
}

func (w *Wizard) publish() Snapshot {
	s := w.Snapshot()
	for _, o := range slices.Clone(w.observers) {
		o.fn(s)
	}
	return s
}

func (w *Wizard) SetAge(raw string) Snapshot {
	w.answers.Age = raw
	return w.publish()
}

func (w *Wizard) SetWeight(raw string) Snapshot {
	w.answers.WeightKg = raw
	return w.publish()
}

func (w *Wizard) SetHeight(raw string) Snapshot {
	w.answers.HeightCm = raw
	return w.publish()
}

func (w *Wizard) SetGender(g Gender) (Snapshot, error) {
	switch g {
	case "", GenderMale, GenderFemale:
	default:
		return w.Snapshot(), fmt.Errorf("%w: gender %q", ErrInvalidAnswer, g)
	}
	w.answers.Gender = g
	return w.publish(), nil
}

func (w *Wizard) SetFamilyHistory(v FamilyHistory) (Snapshot, error) {
	switch v {
	case "", FamilyHistoryYes, FamilyHistoryNo, FamilyHistoryUnknown:
	default:
		return w.Snapshot(), fmt.Errorf("%w: family history %q", ErrInvalidAnswer, v)
	}
	w.answers.FamilyHistory = v
	return w.publish(), nil
}

func (w *Wizard) SetHighBloodPressure(v YesNo) (Snapshot, error) {
	switch v {
	case "", Yes, No:
	default:
		return w.Snapshot(), fmt.Errorf("%w: high blood pressure %q", ErrInvalidAnswer, v)
	}
	w.answers.HighBloodPressure = v
	return w.publish(), nil
}

func (w *Wizard) SetSmoking(v Smoking) (Snapshot, error) {
	switch v {
	case "", SmokingYes, SmokingNo, SmokingFormer:
	default:
		return w.Snapshot(), fmt.Errorf("%w: smoking %q", ErrInvalidAnswer, v)
	}
	w.answers.Smoking = v
	return w.publish(), nil
}

func (w *Wizard) SetSugaryDrinks(v DrinkFrequency) (Snapshot, error) {
	switch v {
	case "", DrinksDaily, DrinksWeekly, DrinksRarely:
	default:
		return w.Snapshot(), fmt.Errorf("%w: sugary drinks %q", ErrInvalidAnswer, v)
	}
	w.answers.SugaryDrinks = v
	return w.publish(), nil
}

// SetExerciseDays clamps days into [0, 7].
func (w *Wizard) SetExerciseDays(days int) Snapshot {
	w.answers.ExerciseDaysPerWeek = ClampExerciseDays(days)
	return w.publish()
}

// SetSleepHours clamps hours into [4, 12] and snaps to the nearest half hour.
func (w *Wizard) SetSleepHours(hours float64) Snapshot {
	w.answers.SleepHoursPerNight = ClampSleepHours(hours)
	return w.publish()
}

func ClampExerciseDays(days int) int {
	return max(MinExerciseDays, min(days, MaxExerciseDays))
}

func ClampSleepHours(hours float64) float64 {
	if math.IsNaN(hours) {
		return DefaultSleepHours
	}
	snapped := math.Round(hours/SleepHoursStep) * SleepHoursStep
	return math.Max(MinSleepHours, math.Min(snapped, MaxSleepHours))
}
