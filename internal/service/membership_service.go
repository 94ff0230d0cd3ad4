package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/metrics"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUnknownPlan        = errors.New("unknown membership plan")
	ErrRenewalConflict    = errors.New("membership was renewed concurrently, please retry")
	ErrPaymentAmount      = errors.New("paid amount does not match the plan price")
	ErrMembershipRequired = errors.New("an active membership is required")
	ErrUnverifiedPayment  = errors.New("payment must be verified before renewal")
	ErrUnknownOrder       = errors.New("unknown checkout order")
	ErrOrderMismatch      = errors.New("payment does not match the checkout order")
	ErrOrderAlreadyPaid   = errors.New("checkout order was already paid")
)

const orderCurrencyDefault = "INR"

// MembershipCache holds stored membership rows, never derived state.
type MembershipCache interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*domain.Membership, bool, error)
	Set(ctx context.Context, userID primitive.ObjectID, m *domain.Membership) error
	Invalidate(ctx context.Context, userID primitive.ObjectID) error
}

// MembershipNotifier broadcasts and observes membership row changes.
type MembershipNotifier interface {
	Publish(ctx context.Context, userID primitive.ObjectID) error
	Subscribe(ctx context.Context, userID primitive.ObjectID) (<-chan struct{}, io.Closer, error)
}

type MembershipService interface {
	// Status derives the membership state at the current time.
	Status(ctx context.Context, userID primitive.ObjectID) (domain.MembershipState, error)
	// Checkout opens an order carrying the plan and its price.
	Checkout(ctx context.Context, userID primitive.ObjectID, planID string) (*domain.Order, error)
	// Renew extends the membership for a verified payment of a checkout
	// order. The payment must match the order's user and amount. Replaying
	// any payment already applied returns the current membership unchanged.
	Renew(ctx context.Context, payment domain.VerifiedPayment, planID string) (*domain.Membership, domain.MembershipState, error)
	// Watch emits the current state, then a fresh state after every change
	// of the stored row and when a running membership lapses. The channel is
	// closed when ctx ends.
	Watch(ctx context.Context, userID primitive.ObjectID) (<-chan domain.MembershipState, error)
	Plans() []domain.MembershipPlan
	Orders(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error)
}

type membershipService struct {
	membershipRepo repository.MembershipRepository
	orderRepo      repository.OrderRepository
	cache          MembershipCache
	notifier       MembershipNotifier
	plans          []domain.MembershipPlan
	clock          domain.Clock
	metrics        *metrics.Manager
}

func NewMembershipService(
	membershipRepo repository.MembershipRepository,
	orderRepo repository.OrderRepository,
	cache MembershipCache,
	notifier MembershipNotifier,
	plans []domain.MembershipPlan,
	clock domain.Clock,
	metricsManager *metrics.Manager,
) MembershipService {
	return &membershipService{
		membershipRepo: membershipRepo,
		orderRepo:      orderRepo,
		cache:          cache,
		notifier:       notifier,
		plans:          plans,
		clock:          clock,
		metrics:        metricsManager,
	}
}

func (s *membershipService) Plans() []domain.MembershipPlan {
	return append([]domain.MembershipPlan(nil), s.plans...)
}

func (s *membershipService) plan(id string) (domain.MembershipPlan, bool) {
	for _, p := range s.plans {
		if p.ID == id {
			return p, true
		}
	}
	return domain.MembershipPlan{}, false
}

func (s *membershipService) Status(ctx context.Context, userID primitive.ObjectID) (domain.MembershipState, error) {
	record, err := s.record(ctx, userID)
	if err != nil {
		return domain.MembershipState{}, err
	}
	return domain.DeriveMembership(record, s.clock.Now()), nil
}

// record reads the stored row through the cache. Cache failures fall back
// to the store.
func (s *membershipService) record(ctx context.Context, userID primitive.ObjectID) (*domain.Membership, error) {
	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx, userID)
		if err != nil {
			log.WithError(err).Warn("membership cache read failed, using store")
		} else if found {
			return cached, nil
		}
	}

	record, err := s.membershipRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, storeFailure("get membership", err)
	}
	if errors.Is(err, repository.ErrNotFound) {
		record = nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, record); err != nil {
			log.WithError(err).Warn("membership cache write failed")
		}
	}
	return record, nil
}

// Checkout opens an order for planID. The price stored on the order is the
// one a later payment has to match.
func (s *membershipService) Checkout(ctx context.Context, userID primitive.ObjectID, planID string) (*domain.Order, error) {
	if userID.IsZero() {
		return nil, ErrUnverifiedPayment
	}
	plan, ok := s.plan(planID)
	if !ok {
		return nil, ErrUnknownPlan
	}
	currency := plan.Currency
	if currency == "" {
		currency = orderCurrencyDefault
	}

	now := s.clock.Now().UTC()
	order := &domain.Order{
		UserID:      userID,
		OrderID:     "order_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		PlanID:      plan.ID,
		AmountMinor: plan.AmountMinor,
		Currency:    currency,
		Status:      domain.OrderStatusCreated,
		CreatedAt:   now,
	}
	if _, err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, storeFailure("create order", err)
	}
	log.Debugf("checkout order %s opened for %s on plan %s", order.OrderID, userID.Hex(), plan.ID)
	return order, nil
}

func (s *membershipService) reject(err error) (*domain.Membership, domain.MembershipState, error) {
	s.metrics.CounterRenewals.WithLabelValues("rejected").Inc()
	return nil, domain.MembershipState{}, err
}

func (s *membershipService) Renew(ctx context.Context, payment domain.VerifiedPayment, planID string) (*domain.Membership, domain.MembershipState, error) {
	if payment.UserID.IsZero() || payment.PaymentID == "" || payment.OrderID == "" {
		return nil, domain.MembershipState{}, ErrUnverifiedPayment
	}

	order, err := s.orderRepo.GetByOrderID(ctx, payment.OrderID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.reject(ErrUnknownOrder)
	}
	if err != nil {
		return nil, domain.MembershipState{}, storeFailure("get order", err)
	}
	if order.UserID != payment.UserID || (planID != "" && planID != order.PlanID) {
		return s.reject(ErrOrderMismatch)
	}
	if payment.AmountMinor != order.AmountMinor ||
		(payment.Currency != "" && !strings.EqualFold(payment.Currency, order.Currency)) {
		return s.reject(ErrPaymentAmount)
	}
	if order.Status == domain.OrderStatusCompleted && order.PaymentID != payment.PaymentID {
		return s.reject(ErrOrderAlreadyPaid)
	}
	plan, ok := s.plan(order.PlanID)
	if !ok {
		return s.reject(ErrUnknownPlan)
	}

	// always read the store here, the CAS below must be based on the real row
	current, err := s.membershipRepo.GetByUserID(ctx, payment.UserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, domain.MembershipState{}, storeFailure("get membership", err)
	}
	if errors.Is(err, repository.ErrNotFound) {
		current = nil
	}

	now := s.clock.Now()
	if current.HasPayment(payment.PaymentID) || order.Status == domain.OrderStatusCompleted {
		if order.Status == domain.OrderStatusCreated {
			s.completeOrder(ctx, order.OrderID, payment.PaymentID, now)
		}
		s.metrics.CounterRenewals.WithLabelValues("replayed").Inc()
		return current, domain.DeriveMembership(current, now), nil
	}

	expiresAt := domain.RenewalExpiry(current, now, plan).UTC()
	renewed := &domain.Membership{
		UserID:    payment.UserID,
		Status:    domain.MembershipStatusActive,
		PlanID:    plan.ID,
		ExpiresAt: &expiresAt,
		PaymentID: payment.PaymentID,
		OrderID:   order.OrderID,
		UpdatedAt: now.UTC(),
	}
	var prevExpiresAt *time.Time
	if current != nil {
		renewed.ID = current.ID
		renewed.CreatedAt = current.CreatedAt
		renewed.PaymentIDs = append([]string(nil), current.PaymentIDs...)
		prevExpiresAt = current.ExpiresAt
	}
	renewed.PaymentIDs = append(renewed.PaymentIDs, payment.PaymentID)

	if err := s.membershipRepo.Upsert(ctx, renewed, prevExpiresAt); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.metrics.CounterRenewals.WithLabelValues("conflict").Inc()
			return nil, domain.MembershipState{}, ErrRenewalConflict
		}
		return nil, domain.MembershipState{}, storeFailure("upsert membership", err)
	}

	s.afterChange(ctx, payment.UserID)
	s.completeOrder(ctx, order.OrderID, payment.PaymentID, now)
	s.metrics.CounterRenewals.WithLabelValues("renewed").Inc()
	log.Infof("membership of %s renewed with plan %s until %s", payment.UserID.Hex(), plan.ID, expiresAt.Format(time.RFC3339))

	return renewed, domain.DeriveMembership(renewed, now), nil
}

// afterChange drops the cached row and tells every watcher about the change.
func (s *membershipService) afterChange(ctx context.Context, userID primitive.ObjectID) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			log.WithError(err).Error("membership cache invalidation failed")
		}
	}
	if s.notifier != nil {
		if err := s.notifier.Publish(ctx, userID); err != nil {
			log.WithError(err).Error("membership change notification failed")
		}
	}
}

// completeOrder marks the order paid. It never fails the renewal; the
// membership row already lists the payment, so a replay completes it later.
func (s *membershipService) completeOrder(ctx context.Context, orderID, paymentID string, now time.Time) {
	if err := s.orderRepo.Complete(ctx, orderID, paymentID, now.UTC()); err != nil {
		log.WithError(err).Warnf("order %s not marked completed for payment %s", orderID, paymentID)
	}
}

func (s *membershipService) Orders(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error) {
	orders, err := s.orderRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, storeFailure("list orders", err)
	}
	return orders, nil
}

func (s *membershipService) Watch(ctx context.Context, userID primitive.ObjectID) (<-chan domain.MembershipState, error) {
	changes, closer, err := s.notifier.Subscribe(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("watch membership: %w", err)
	}

	current, err := s.Status(ctx, userID)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	states := make(chan domain.MembershipState, 1)
	states <- current
	s.metrics.GaugeMembershipWatchers.Inc()

	go func() {
		defer close(states)
		defer s.metrics.GaugeMembershipWatchers.Dec()
		defer closer.Close()

		for {
			var (
				timer  *time.Timer
				lapsed <-chan time.Time
			)
			if current.HasMembership && current.ExpiresAt != nil {
				timer = time.NewTimer(current.ExpiresAt.Sub(s.clock.Now()) + time.Second)
				lapsed = timer.C
			}

			var open bool
			select {
			case <-ctx.Done():
				open = false
			case _, open = <-changes:
			case <-lapsed:
				open = true
			}
			if timer != nil {
				timer.Stop()
			}
			if !open {
				return
			}

			next, err := s.Status(ctx, userID)
			if err != nil {
				log.WithError(err).Warn("membership watch refresh failed")
				continue
			}
			current = next

			select {
			case states <- next:
			case <-ctx.Done():
				return
			}
		}
	}()

	return states, nil
}
