package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStoreDown = errors.New("connection refused")

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return primitive.NilObjectID, repository.ErrDuplicateKey
	}
	stored := *user
	stored.ID = primitive.NewObjectID()
	r.users[user.Email] = &stored
	return stored.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// fakeCompletionRepo enforces the (user, day, date) uniqueness of the real index.
type fakeCompletionRepo struct {
	mu          sync.Mutex
	completions []domain.WorkoutCompletion
	failWith    error
}

func (r *fakeCompletionRepo) Insert(_ context.Context, c *domain.WorkoutCompletion) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return primitive.NilObjectID, r.failWith
	}
	for _, existing := range r.completions {
		if existing.UserID == c.UserID && existing.WorkoutDay == c.WorkoutDay && existing.CompletionDate == c.CompletionDate {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	c.ID = primitive.NewObjectID()
	r.completions = append(r.completions, *c)
	return c.ID, nil
}

func (r *fakeCompletionRepo) Delete(_ context.Context, userID primitive.ObjectID, day domain.WorkoutDay, date domain.Date) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.completions {
		if c.UserID == userID && c.WorkoutDay == day && c.CompletionDate == date {
			r.completions = append(r.completions[:i], r.completions[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeCompletionRepo) ListForUser(_ context.Context, userID primitive.ObjectID) ([]domain.WorkoutCompletion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []domain.WorkoutCompletion
	for _, c := range r.completions {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletionDate > out[j].CompletionDate })
	return out, nil
}

func (r *fakeCompletionRepo) ListForUserOnDate(ctx context.Context, userID primitive.ObjectID, date domain.Date) ([]domain.WorkoutCompletion, error) {
	all, err := r.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []domain.WorkoutCompletion
	for _, c := range all {
		if c.CompletionDate == date {
			out = append(out, c)
		}
	}
	return out, nil
}

// fakeSessionRepo applies Finish only to rows still in progress.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[primitive.ObjectID]domain.WorkoutSession
	// beforeFinish runs inside Finish before the status check.
	beforeFinish func(id primitive.ObjectID)
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[primitive.ObjectID]domain.WorkoutSession{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *domain.WorkoutSession) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = primitive.NewObjectID()
	r.sessions[s.ID] = *s
	return s.ID, nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, userID, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *fakeSessionRepo) list(userID primitive.ObjectID, onlyActive bool) []domain.WorkoutSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.WorkoutSession
	for _, s := range r.sessions {
		if s.UserID != userID || (onlyActive && s.Status != domain.SessionInProgress) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out
}

func (r *fakeSessionRepo) ListForUser(_ context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	return r.list(userID, false), nil
}

func (r *fakeSessionRepo) ListActiveForUser(_ context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	return r.list(userID, true), nil
}

func (r *fakeSessionRepo) Finish(_ context.Context, s *domain.WorkoutSession) error {
	if r.beforeFinish != nil {
		r.beforeFinish(s.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sessions[s.ID]
	if !ok || stored.UserID != s.UserID || stored.Status != domain.SessionInProgress {
		return repository.ErrConflict
	}
	r.sessions[s.ID] = *s
	return nil
}

func (r *fakeSessionRepo) forceStatus(id primitive.ObjectID, status domain.SessionStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.sessions[id]
	s.Status = status
	r.sessions[id] = s
}

// fakeMembershipRepo implements the compare-and-set on expiresAt.
type fakeMembershipRepo struct {
	mu      sync.Mutex
	rows    map[primitive.ObjectID]domain.Membership
	upserts int
	// beforeUpsert runs before the compare, to simulate a concurrent writer.
	beforeUpsert func()
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{rows: map[primitive.ObjectID]domain.Membership{}}
}

func (r *fakeMembershipRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func sameExpiry(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (r *fakeMembershipRepo) Upsert(_ context.Context, m *domain.Membership, prevExpiresAt *time.Time) error {
	if hook := r.beforeUpsert; hook != nil {
		r.beforeUpsert = nil
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[m.UserID]
	var storedExpiry *time.Time
	if ok {
		storedExpiry = stored.ExpiresAt
	}
	if !sameExpiry(storedExpiry, prevExpiresAt) {
		return repository.ErrConflict
	}
	if !ok {
		m.ID = primitive.NewObjectID()
		m.CreatedAt = m.UpdatedAt
	}
	r.rows[m.UserID] = *m
	r.upserts++
	return nil
}

func (r *fakeMembershipRepo) put(m domain.Membership) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[m.UserID] = m
}

type fakeOrderRepo struct {
	mu           sync.Mutex
	orders       []domain.Order
	failWith     error
	failComplete error
}

func (r *fakeOrderRepo) Create(_ context.Context, o *domain.Order) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return primitive.NilObjectID, r.failWith
	}
	for _, existing := range r.orders {
		if existing.OrderID == o.OrderID {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	o.ID = primitive.NewObjectID()
	r.orders = append(r.orders, *o)
	return o.ID, nil
}

func (r *fakeOrderRepo) GetByOrderID(_ context.Context, orderID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, o := range r.orders {
		if o.OrderID == orderID {
			found := o
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeOrderRepo) Complete(_ context.Context, orderID, paymentID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failComplete != nil {
		return r.failComplete
	}
	for _, o := range r.orders {
		if o.PaymentID == paymentID && o.OrderID != orderID {
			return repository.ErrDuplicateKey
		}
	}
	for i := range r.orders {
		if r.orders[i].OrderID == orderID && r.orders[i].Status == domain.OrderStatusCreated {
			r.orders[i].Status = domain.OrderStatusCompleted
			r.orders[i].PaymentID = paymentID
			r.orders[i].UpdatedAt = at
			return nil
		}
	}
	return repository.ErrConflict
}

// order returns a copy of the stored order.
func (r *fakeOrderRepo) order(orderID string) domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderID == orderID {
			return o
		}
	}
	return domain.Order{}
}

func (r *fakeOrderRepo) ListForUser(_ context.Context, userID primitive.ObjectID) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeSplitRepo struct {
	splits map[primitive.ObjectID]domain.WorkoutSplit
}

func newFakeSplitRepo() *fakeSplitRepo {
	return &fakeSplitRepo{splits: map[primitive.ObjectID]domain.WorkoutSplit{}}
}

func (r *fakeSplitRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*domain.WorkoutSplit, error) {
	s, ok := r.splits[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *fakeSplitRepo) Save(_ context.Context, split *domain.WorkoutSplit) error {
	if existing, ok := r.splits[split.UserID]; ok {
		split.ID = existing.ID
		split.CreatedAt = existing.CreatedAt
	} else {
		split.ID = primitive.NewObjectID()
	}
	r.splits[split.UserID] = *split
	return nil
}

type fakeMembershipCache struct {
	mu          sync.Mutex
	rows        map[primitive.ObjectID]*domain.Membership
	gets        int
	invalidated int
	failGet     bool
}

func newFakeMembershipCache() *fakeMembershipCache {
	return &fakeMembershipCache{rows: map[primitive.ObjectID]*domain.Membership{}}
}

func (c *fakeMembershipCache) Get(_ context.Context, userID primitive.ObjectID) (*domain.Membership, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGet {
		return nil, false, errStoreDown
	}
	m, ok := c.rows[userID]
	return m, ok, nil
}

func (c *fakeMembershipCache) Set(_ context.Context, userID primitive.ObjectID, m *domain.Membership) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows[userID] = m
	return nil
}

func (c *fakeMembershipCache) Invalidate(_ context.Context, userID primitive.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rows, userID)
	c.invalidated++
	return nil
}

// fakeNotifier is an in-process pub/sub with the same coalescing as redis.
type fakeNotifier struct {
	mu          sync.Mutex
	subscribers map[primitive.ObjectID][]chan struct{}
	published   int
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{subscribers: map[primitive.ObjectID][]chan struct{}{}}
}

func (n *fakeNotifier) Publish(_ context.Context, userID primitive.ObjectID) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.published++
	for _, ch := range n.subscribers[userID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func (n *fakeNotifier) Subscribe(_ context.Context, userID primitive.ObjectID) (<-chan struct{}, io.Closer, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch := make(chan struct{}, 1)
	n.subscribers[userID] = append(n.subscribers[userID], ch)
	var once sync.Once
	return ch, closerFunc(func() error {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			subs := n.subscribers[userID]
			for i, c := range subs {
				if c == ch {
					n.subscribers[userID] = append(subs[:i], subs[i+1:]...)
					break
				}
			}
			close(ch)
		})
		return nil
	}), nil
}

func (n *fakeNotifier) subscriberCount(userID primitive.ObjectID) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subscribers[userID])
}

type fakePromptCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func newFakePromptCounter() *fakePromptCounter {
	return &fakePromptCounter{counts: map[string]int{}}
}

func promptKey(userID primitive.ObjectID, day domain.Date) string {
	return userID.Hex() + ":" + day.String()
}

func (c *fakePromptCounter) Used(_ context.Context, userID primitive.ObjectID, day domain.Date) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[promptKey(userID, day)], nil
}

func (c *fakePromptCounter) Increment(_ context.Context, userID primitive.ObjectID, day domain.Date) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[promptKey(userID, day)]++
	return c.counts[promptKey(userID, day)], nil
}

func (c *fakePromptCounter) Decrement(_ context.Context, userID primitive.ObjectID, day domain.Date) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[promptKey(userID, day)]--
	return nil
}

type fakeStorage struct {
	objects     map[string][]byte
	failPut     bool
	failPresign bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) PutObject(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	if s.failPut {
		return errStoreDown
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return err
	}
	s.objects[key] = buf.Bytes()
	return nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, expires time.Duration) (string, error) {
	if s.failPresign {
		return "", errStoreDown
	}
	return "https://storage.test/" + key + "?expires=" + expires.String(), nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

type fakeWeightRepo struct {
	entries  []domain.WeightEntry
	failWith error
}

func (r *fakeWeightRepo) Insert(_ context.Context, e *domain.WeightEntry) (primitive.ObjectID, error) {
	if r.failWith != nil {
		return primitive.NilObjectID, r.failWith
	}
	e.ID = primitive.NewObjectID()
	r.entries = append(r.entries, *e)
	return e.ID, nil
}

func (r *fakeWeightRepo) ListForUser(_ context.Context, userID primitive.ObjectID) ([]domain.WeightEntry, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []domain.WeightEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedDate < out[j].RecordedDate })
	return out, nil
}

func (r *fakeWeightRepo) Delete(_ context.Context, userID, id primitive.ObjectID) error {
	for i, e := range r.entries {
		if e.ID == id && e.UserID == userID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeStrengthRepo struct {
	entries []domain.StrengthEntry
}

func (r *fakeStrengthRepo) Insert(_ context.Context, e *domain.StrengthEntry) (primitive.ObjectID, error) {
	e.ID = primitive.NewObjectID()
	r.entries = append(r.entries, *e)
	return e.ID, nil
}

func (r *fakeStrengthRepo) ListForUser(_ context.Context, userID primitive.ObjectID) ([]domain.StrengthEntry, error) {
	var out []domain.StrengthEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID == userID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

type fakeMealRepo struct {
	meals []domain.MealEntry
}

func (r *fakeMealRepo) Insert(_ context.Context, m *domain.MealEntry) (primitive.ObjectID, error) {
	m.ID = primitive.NewObjectID()
	r.meals = append(r.meals, *m)
	return m.ID, nil
}

func (r *fakeMealRepo) ListForUserOnDate(_ context.Context, userID primitive.ObjectID, date domain.Date) ([]domain.MealEntry, error) {
	var out []domain.MealEntry
	for _, m := range r.meals {
		if m.UserID == userID && m.MealDate == date {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMealRepo) Delete(_ context.Context, userID, id primitive.ObjectID) error {
	for i, m := range r.meals {
		if m.ID == id && m.UserID == userID {
			r.meals = append(r.meals[:i], r.meals[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeCalculationRepo struct {
	calcs    []domain.CalorieCalculation
	failWith error
}

func (r *fakeCalculationRepo) Insert(_ context.Context, c *domain.CalorieCalculation) (primitive.ObjectID, error) {
	if r.failWith != nil {
		return primitive.NilObjectID, r.failWith
	}
	c.ID = primitive.NewObjectID()
	r.calcs = append(r.calcs, *c)
	return c.ID, nil
}

func (r *fakeCalculationRepo) ListForUser(_ context.Context, userID primitive.ObjectID, limit int64) ([]domain.CalorieCalculation, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []domain.CalorieCalculation
	for i := len(r.calcs) - 1; i >= 0; i-- {
		if r.calcs[i].UserID != userID {
			continue
		}
		out = append(out, r.calcs[i])
		if limit > 0 && int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

type fakeProfileRepo struct {
	profiles map[primitive.ObjectID]domain.UserProfile
	failWith error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[primitive.ObjectID]domain.UserProfile{}}
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*domain.UserProfile, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *fakeProfileRepo) Save(_ context.Context, p *domain.UserProfile) error {
	if r.failWith != nil {
		return r.failWith
	}
	if existing, ok := r.profiles[p.UserID]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = primitive.NewObjectID()
		p.CreatedAt = p.UpdatedAt
	}
	r.profiles[p.UserID] = *p
	return nil
}
