package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"greenlane/internal/domain"
)

// In-memory stores keep local development and the unit tests lightweight.
// They intentionally favor clarity over performance.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]domain.User)}
}

func (s *InMemoryUserStore) Save(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return domain.User{}, ErrNotFound
}

type InMemoryDispensaryStore struct {
	mu           sync.RWMutex
	dispensaries map[string]domain.Dispensary
}

func NewInMemoryDispensaryStore() *InMemoryDispensaryStore {
	return &InMemoryDispensaryStore{dispensaries: make(map[string]domain.Dispensary)}
}

func (s *InMemoryDispensaryStore) Save(_ context.Context, dispensary domain.Dispensary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispensaries[dispensary.ID] = dispensary
	return nil
}

func (s *InMemoryDispensaryStore) FindByID(_ context.Context, id string) (domain.Dispensary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if dispensary, ok := s.dispensaries[id]; ok {
		return dispensary, nil
	}
	return domain.Dispensary{}, ErrNotFound
}

func (s *InMemoryDispensaryStore) List(_ context.Context) ([]domain.Dispensary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Dispensary, 0, len(s.dispensaries))
	for _, d := range s.dispensaries {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type InMemoryProductStore struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{products: make(map[string]domain.Product)}
}

func (s *InMemoryProductStore) Save(_ context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ID] = product
	return nil
}

func (s *InMemoryProductStore) FindByID(_ context.Context, id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if product, ok := s.products[id]; ok {
		return product, nil
	}
	return domain.Product{}, ErrNotFound
}

func (s *InMemoryProductStore) FindByIDs(_ context.Context, ids []string) (map[string]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Product, len(ids))
	for _, id := range ids {
		if product, ok := s.products[id]; ok {
			out[id] = product
		}
	}
	return out, nil
}

func (s *InMemoryProductStore) ListByDispensary(_ context.Context, dispensaryID string) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Product
	for _, p := range s.products {
		if p.DispensaryID == dispensaryID && p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type InMemoryRuleStore struct {
	mu    sync.RWMutex
	rules map[string]domain.ComplianceRule
}

func NewInMemoryRuleStore() *InMemoryRuleStore {
	return &InMemoryRuleStore{rules: make(map[string]domain.ComplianceRule)}
}

func (s *InMemoryRuleStore) Upsert(_ context.Context, rule domain.ComplianceRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[rule.StateCode] = rule
	return nil
}

func (s *InMemoryRuleStore) FindByState(_ context.Context, stateCode string) (domain.ComplianceRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rule, ok := s.rules[stateCode]; ok {
		return rule, nil
	}
	return domain.ComplianceRule{}, ErrNotFound
}

type InMemoryOrderStore struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

func NewInMemoryOrderStore() *InMemoryOrderStore {
	return &InMemoryOrderStore{orders: make(map[string]domain.Order)}
}

func (s *InMemoryOrderStore) Create(_ context.Context, order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order
	return nil
}

func (s *InMemoryOrderStore) FindByID(_ context.Context, id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if order, ok := s.orders[id]; ok {
		return order, nil
	}
	return domain.Order{}, ErrNotFound
}

func (s *InMemoryOrderStore) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryOrderStore) SumTHCMgForUserBetween(_ context.Context, userID string, from, to time.Time) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, o := range s.orders {
		if o.UserID != userID || !o.Status.CountsTowardDailyLimit() {
			continue
		}
		if o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		for _, item := range o.Items {
			total += item.THCMg()
		}
	}
	return total, nil
}

type InMemoryAuditStore struct {
	mu     sync.RWMutex
	events map[string][]domain.AuditEvent
}

func NewInMemoryAuditStore() *InMemoryAuditStore {
	return &InMemoryAuditStore{events: make(map[string][]domain.AuditEvent)}
}

func (s *InMemoryAuditStore) Append(_ context.Context, event domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.UserID] = append(s.events[event.UserID], event)
	return nil
}

func (s *InMemoryAuditStore) ListByUser(_ context.Context, userID string) ([]domain.AuditEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.AuditEvent{}, s.events[userID]...), nil
}
