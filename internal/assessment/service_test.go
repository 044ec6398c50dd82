package assessment

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() Service {
	return NewService(NewMemoryRepository(time.Hour, discardLogger()), discardLogger())
}

func TestServiceWalkThrough(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	id, snap, err := svc.Start(ctx)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, StepPersonalInfo, snap.Step)

	_, err = svc.Answer(ctx, id, StepInput{Age: ptr(Text("50"))})
	require.NoError(t, err)
	_, err = svc.Advance(ctx, id)
	require.NoError(t, err)
	_, err = svc.Answer(ctx, id, StepInput{FamilyHistory: "yes"})
	require.NoError(t, err)
	_, err = svc.Advance(ctx, id)
	require.NoError(t, err)
	_, err = svc.Answer(ctx, id, StepInput{ExerciseDaysPerWeek: ptr(1), Smoking: "no"})
	require.NoError(t, err)
	_, err = svc.Advance(ctx, id)
	require.NoError(t, err)

	_, _, err = svc.Result(ctx, id)
	require.ErrorIs(t, err, ErrNotAtResults)
	_, err = svc.Reset(ctx, id)
	require.ErrorIs(t, err, ErrResetUnavailable)

	_, err = svc.Answer(ctx, id, StepInput{SugaryDrinks: "rarely"})
	require.NoError(t, err)
	snap, err = svc.Advance(ctx, id)
	require.NoError(t, err)
	require.Equal(t, StepResults, snap.Step)
	require.NotNil(t, snap.Result)
	assert.Equal(t, 60, snap.Result.Score)

	res, answers, err := svc.Result(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, BandHigh, res.Band)
	assert.Equal(t, "50", answers.Age)

	snap, err = svc.Reset(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StepPersonalInfo, snap.Step)
	assert.Equal(t, DefaultAnswers(), snap.Answers)

	snap, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StepPersonalInfo, snap.Step)
}

func TestServiceUnknownSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	id := uuid.New()

	_, err := svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.Advance(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, _, err = svc.Result(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestServiceInvalidAnswerKeepsState(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	id, _, err := svc.Start(ctx)
	require.NoError(t, err)

	_, err = svc.Answer(ctx, id, StepInput{Gender: "robot"})
	require.ErrorIs(t, err, ErrInvalidAnswer)

	snap, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, Gender(""), snap.Answers.Gender)
}

func TestServiceSerializesSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	id, _, err := svc.Start(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Advance(ctx, id)
		}()
	}
	wg.Wait()

	snap, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StepResults, snap.Step)
}

func TestMessageKey(t *testing.T) {
	assert.Equal(t, "errors.sessionNotFound", MessageKey(ErrSessionNotFound))
	assert.Equal(t, "errors.invalidAnswer", MessageKey(StepInput{Gender: "x"}.Validate()))
	assert.Equal(t, "errors.resetUnavailable", MessageKey(ErrResetUnavailable))
	assert.Equal(t, "errors.notAtResults", MessageKey(ErrNotAtResults))
	assert.Equal(t, "errors.internal", MessageKey(assert.AnError))
}

func TestServiceLogsCompletionOnce(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	svc := NewService(NewMemoryRepository(time.Hour, discardLogger()), slog.New(slog.NewJSONHandler(&buf, nil)))

	id, _, err := svc.Start(ctx)
	require.NoError(t, err)
	for n := 0; n < 4; n++ {
		_, err = svc.Advance(ctx, id)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, strings.Count(buf.String(), `"msg":"assessment completed"`))

	snap, err := svc.Advance(ctx, id)
	require.NoError(t, err)
	require.Equal(t, StepResults, snap.Step)
	_, err = svc.Advance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(buf.String(), `"msg":"assessment completed"`), "advancing on the results step is silent")
}
