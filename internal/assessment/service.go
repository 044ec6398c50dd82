package assessment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

type Service interface {
	Start(ctx context.Context) (uuid.UUID, Snapshot, error)
	Get(ctx context.Context, id uuid.UUID) (Snapshot, error)
	Answer(ctx context.Context, id uuid.UUID, in StepInput) (Snapshot, error)
	Advance(ctx context.Context, id uuid.UUID) (Snapshot, error)
	Retreat(ctx context.Context, id uuid.UUID) (Snapshot, error)
	Reset(ctx context.Context, id uuid.UUID) (Snapshot, error)
	Result(ctx context.Context, id uuid.UUID) (Result, Answers, error)
}

type service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	return &service{
		repo: repo,
		log:  log.With("component", "assessment.service"),
	}
}

// Start mounts a fresh wizard in a new session.
func (s *service) Start(ctx context.Context) (uuid.UUID, Snapshot, error) {
	sess := &Session{
		ID:     uuid.New(),
		Wizard: New(),
	}
	if err := s.repo.Save(ctx, sess); err != nil {
		return uuid.Nil, Snapshot{}, fmt.Errorf("save session: %w", err)
	}
	s.log.Debug("assessment session started", "session_id", sess.ID)
	return sess.ID, sess.Wizard.Snapshot(), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	var snap Snapshot
	err := s.with(ctx, id, false, func(w *Wizard) error {
		snap = w.Snapshot()
		return nil
	})
	return snap, err
}

func (s *service) Answer(ctx context.Context, id uuid.UUID, in StepInput) (Snapshot, error) {
	var snap Snapshot
	err := s.with(ctx, id, true, func(w *Wizard) error {
		var err error
		snap, err = w.Apply(in)
		return err
	})
	return snap, err
}

func (s *service) Advance(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	var snap Snapshot
	err := s.with(ctx, id, true, func(w *Wizard) error {
		from := w.Step()
		snap = w.Advance()
		if from == StepDiet && snap.Step == StepResults && snap.Result != nil {
			s.log.Info("assessment completed",
				"session_id", id,
				"score", snap.Result.Score,
				"band", snap.Result.Band)
		}
		return nil
	})
	return snap, err
}

func (s *service) Retreat(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	var snap Snapshot
	err := s.with(ctx, id, true, func(w *Wizard) error {
		snap = w.Retreat()
		return nil
	})
	return snap, err
}

func (s *service) Reset(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	var snap Snapshot
	err := s.with(ctx, id, true, func(w *Wizard) error {
		var err error
		snap, err = w.Reset()
		return err
	})
	return snap, err
}

func (s *service) Result(ctx context.Context, id uuid.UUID) (Result, Answers, error) {
	var (
		res     Result
		answers Answers
	)
	err := s.with(ctx, id, false, func(w *Wizard) error {
		r, ok := w.Result()
		if !ok {
			return ErrNotAtResults
		}
		res, answers = r, w.Answers()
		return nil
	})
	return res, answers, err
}

// with runs fn on the session's wizard while holding the session lock and,
// when touch is set, saves the session afterwards so its idle timer restarts.
func (s *service) with(ctx context.Context, id uuid.UUID, touch bool, fn func(*Wizard) error) error {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := fn(sess.Wizard); err != nil {
		return err
	}
	if !touch {
		return nil
	}
	if err := s.repo.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
