package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/metrics"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrChatLimitReached = errors.New("daily chat prompt limit reached")

// PromptCounter counts prompts per user and day.
type PromptCounter interface {
	Used(ctx context.Context, userID primitive.ObjectID, day domain.Date) (int, error)
	Increment(ctx context.Context, userID primitive.ObjectID, day domain.Date) (int, error)
	Decrement(ctx context.Context, userID primitive.ObjectID, day domain.Date) error
}

type ChatLimitService interface {
	Usage(ctx context.Context, userID primitive.ObjectID) (domain.ChatUsage, error)
	// Consume takes one prompt from today's allowance.
	Consume(ctx context.Context, userID primitive.ObjectID) (domain.ChatUsage, error)
}

type chatLimitService struct {
	counter    PromptCounter
	clock      domain.Clock
	dailyLimit int
	metrics    *metrics.Manager
}

func NewChatLimitService(counter PromptCounter, clock domain.Clock, dailyLimit int, metricsManager *metrics.Manager) ChatLimitService {
	return &chatLimitService{
		counter:    counter,
		clock:      clock,
		dailyLimit: dailyLimit,
		metrics:    metricsManager,
	}
}

func (s *chatLimitService) Usage(ctx context.Context, userID primitive.ObjectID) (domain.ChatUsage, error) {
	today := s.clock.Today()
	used, err := s.counter.Used(ctx, userID, today)
	if err != nil {
		return domain.ChatUsage{}, fmt.Errorf("chat usage: %w: %w", ErrStoreUnavailable, err)
	}
	return domain.ChatUsage{Date: today, Used: used, Limit: s.dailyLimit}, nil
}

func (s *chatLimitService) Consume(ctx context.Context, userID primitive.ObjectID) (domain.ChatUsage, error) {
	today := s.clock.Today()
	used, err := s.counter.Increment(ctx, userID, today)
	if err != nil {
		return domain.ChatUsage{}, fmt.Errorf("consume chat prompt: %w: %w", ErrStoreUnavailable, err)
	}

	if used > s.dailyLimit {
		if err := s.counter.Decrement(ctx, userID, today); err != nil {
			log.WithError(err).Warnf("giving back rejected prompt of %s failed", userID.Hex())
		}
		s.metrics.CounterChatPrompts.WithLabelValues("rejected").Inc()
		return domain.ChatUsage{Date: today, Used: s.dailyLimit, Limit: s.dailyLimit}, ErrChatLimitReached
	}

	s.metrics.CounterChatPrompts.WithLabelValues("accepted").Inc()
	return domain.ChatUsage{Date: today, Used: used, Limit: s.dailyLimit}, nil
}
