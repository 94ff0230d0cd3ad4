package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/metrics"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrInvalidStateTransition covers unknown ids, foreign ids and sessions
	// that already finished. Callers should drop any running timer.
	ErrInvalidStateTransition = domain.ErrInvalidStateTransition
	ErrWorkoutNameRequired    = errors.New("workout name is required")
)

// ActiveSession is an in-progress session with its running timer.
type ActiveSession struct {
	domain.WorkoutSession
	ElapsedSeconds int64  `json:"elapsedSeconds"`
	Elapsed        string `json:"elapsed"`
}

type SessionService interface {
	// Start opens a new session. Other in-progress sessions are left alone.
	Start(ctx context.Context, userID primitive.ObjectID, workoutName string, day domain.WorkoutDay) (*domain.WorkoutSession, error)
	Complete(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)
	Cancel(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error)
	ListActive(ctx context.Context, userID primitive.ObjectID) ([]ActiveSession, error)
	Stats(ctx context.Context, userID primitive.ObjectID) (domain.SessionStats, error)
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	clock       domain.Clock
	metrics     *metrics.Manager
}

func NewSessionService(sessionRepo repository.SessionRepository, clock domain.Clock, metricsManager *metrics.Manager) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		clock:       clock,
		metrics:     metricsManager,
	}
}

func (s *sessionService) Start(ctx context.Context, userID primitive.ObjectID, workoutName string, day domain.WorkoutDay) (*domain.WorkoutSession, error) {
	workoutName = strings.TrimSpace(workoutName)
	if workoutName == "" {
		return nil, ErrWorkoutNameRequired
	}

	session := domain.NewSession(userID, workoutName, domain.WorkoutDay(strings.TrimSpace(string(day))), s.clock.Now())
	if _, err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, storeFailure("create session", err)
	}

	s.metrics.CounterSessions.WithLabelValues(string(domain.SessionInProgress)).Inc()
	log.Debugf("user %s started session %s (%s)", userID.Hex(), session.ID.Hex(), workoutName)
	return session, nil
}

func (s *sessionService) Complete(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.finish(ctx, userID, sessionID, (*domain.WorkoutSession).Complete)
	if err != nil {
		return nil, err
	}
	if session.DurationMinutes != nil {
		s.metrics.HistogramSessionMinutes.Observe(float64(*session.DurationMinutes))
	}
	return session, nil
}

func (s *sessionService) Cancel(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	return s.finish(ctx, userID, sessionID, (*domain.WorkoutSession).Cancel)
}

// finish applies a terminal transition. The transition is checked twice:
// once on the loaded row, and again by the store's conditional write, which
// catches a concurrent complete/cancel of the same session.
func (s *sessionService) finish(ctx context.Context, userID, sessionID primitive.ObjectID, transition func(*domain.WorkoutSession, time.Time) error) (*domain.WorkoutSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("session %s: %w", sessionID.Hex(), ErrInvalidStateTransition)
		}
		return nil, storeFailure("get session", err)
	}

	if err := transition(session, s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Finish(ctx, session); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			log.Warnf("session %s finished concurrently, rejecting %s", sessionID.Hex(), session.Status)
			return nil, fmt.Errorf("session %s changed concurrently: %w", sessionID.Hex(), ErrInvalidStateTransition)
		}
		return nil, storeFailure("finish session", err)
	}

	s.metrics.CounterSessions.WithLabelValues(string(session.Status)).Inc()
	return session, nil
}

func (s *sessionService) List(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	sessions, err := s.sessionRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, storeFailure("list sessions", err)
	}
	return sessions, nil
}

func (s *sessionService) ListActive(ctx context.Context, userID primitive.ObjectID) ([]ActiveSession, error) {
	sessions, err := s.sessionRepo.ListActiveForUser(ctx, userID)
	if err != nil {
		return nil, storeFailure("list active sessions", err)
	}

	now := s.clock.Now()
	active := make([]ActiveSession, 0, len(sessions))
	for _, session := range sessions {
		elapsed := domain.ElapsedSeconds(session.StartTime, now)
		active = append(active, ActiveSession{
			WorkoutSession: session,
			ElapsedSeconds: elapsed,
			Elapsed:        domain.FormatElapsed(elapsed),
		})
	}
	return active, nil
}

func (s *sessionService) Stats(ctx context.Context, userID primitive.ObjectID) (domain.SessionStats, error) {
	sessions, err := s.List(ctx, userID)
	if err != nil {
		return domain.SessionStats{}, err
	}
	return domain.ComputeSessionStats(sessions, s.clock.Now()), nil
}
