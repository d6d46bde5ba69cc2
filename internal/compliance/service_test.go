package compliance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"greenlane/internal/compliance"
	"greenlane/internal/domain"
	"greenlane/internal/storage"
	"greenlane/pkg/requestcontext"
)

// The engine suite exercises the full orchestration against in-memory stores:
// lookup wiring, the fixed violation order, the store-not-found short-circuit,
// and the daily aggregation window. The pure rule arithmetic has its own
// tests in rules_test.go.

var evalTime = time.Date(2025, time.June, 15, 20, 30, 0, 0, time.UTC)

type EngineSuite struct {
	suite.Suite
	users        *storage.InMemoryUserStore
	dispensaries *storage.InMemoryDispensaryStore
	products     *storage.InMemoryProductStore
	orders       *storage.InMemoryOrderStore
	rules        *storage.InMemoryRuleStore
	engine       *compliance.Engine
	ctx          context.Context
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.users = storage.NewInMemoryUserStore()
	s.dispensaries = storage.NewInMemoryDispensaryStore()
	s.products = storage.NewInMemoryProductStore()
	s.orders = storage.NewInMemoryOrderStore()
	s.rules = storage.NewInMemoryRuleStore()
	s.engine = compliance.NewEngine(s.users, s.dispensaries, s.products, s.orders, s.rules, nil)
	s.ctx = requestcontext.WithTime(context.Background(), evalTime)

	dob := time.Date(1990, time.March, 10, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.users.Save(s.ctx, domain.User{
		ID:          "adult",
		DateOfBirth: &dob,
		AgeVerified: true,
	}))
	s.Require().NoError(s.dispensaries.Save(s.ctx, domain.Dispensary{
		ID:        "disp-ca",
		Name:      "Golden State Greens",
		StateCode: "CA",
	}))
	s.Require().NoError(s.dispensaries.Save(s.ctx, domain.Dispensary{
		ID:        "disp-mt",
		Name:      "Big Sky Buds",
		StateCode: "MT", // no rule configured
	}))
	s.Require().NoError(s.rules.Upsert(s.ctx, domain.ComplianceRule{
		StateCode:     "CA",
		MinAge:        21,
		MaxDailyTHCMg: 1000,
		MustVerifyAge: true,
	}))
	s.Require().NoError(s.products.Save(s.ctx, domain.Product{
		ID: "gummy-10", DispensaryID: "disp-ca", Name: "Gummy 10mg", THCMgPerUnit: 10, Active: true,
	}))
	s.Require().NoError(s.products.Save(s.ctx, domain.Product{
		ID: "slab-800", DispensaryID: "disp-ca", Name: "Concentrate 800mg", THCMgPerUnit: 800, Active: true,
	}))
}

func (s *EngineSuite) check(userID, dispensaryID string, items ...compliance.RequestedItem) compliance.Result {
	result, err := s.engine.Check(s.ctx, compliance.CheckRequest{
		UserID:       userID,
		DispensaryID: dispensaryID,
		Items:        items,
	})
	s.Require().NoError(err)
	return result
}

func (s *EngineSuite) priorOrder(userID string, status domain.OrderStatus, createdAt time.Time, thcMg float64) {
	s.Require().NoError(s.orders.Create(s.ctx, domain.Order{
		ID:           "order-" + createdAt.Format("150405") + "-" + string(status),
		UserID:       userID,
		DispensaryID: "disp-ca",
		Status:       status,
		CreatedAt:    createdAt,
		Items:        []domain.OrderItem{{ProductID: "slab-800", Quantity: 1, THCMgPerUnit: thcMg}},
	}))
}

func (s *EngineSuite) TestCleanOrderPasses() {
	result := s.check("adult", "disp-ca", compliance.RequestedItem{ProductID: "gummy-10", Quantity: 50})
	s.True(result.Valid)
	s.Empty(result.Violations)
}

func (s *EngineSuite) TestUnconfiguredJurisdictionIsPermissive() {
	minorDOB := time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.users.Save(s.ctx, domain.User{ID: "minor", DateOfBirth: &minorDOB}))

	// Unverified minor ordering a massive quantity: still valid without a rule.
	result := s.check("minor", "disp-mt", compliance.RequestedItem{ProductID: "slab-800", Quantity: 100})
	s.True(result.Valid)
	s.Empty(result.Violations)
}

func (s *EngineSuite) TestUnknownStoreShortCircuits() {
	result := s.check("adult", "nope", compliance.RequestedItem{ProductID: "gummy-10", Quantity: 1})
	s.False(result.Valid)
	s.Require().Len(result.Violations, 1)
	s.Equal(compliance.ViolationStoreUnknown, result.Violations[0].Code)
}

func (s *EngineSuite) TestUnknownStoreWinsOverUnknownUser() {
	result := s.check("nope", "nope")
	s.Require().Len(result.Violations, 1)
	s.Equal(compliance.ViolationStoreUnknown, result.Violations[0].Code)
}

func (s *EngineSuite) TestUnknownUserSkipsDosage() {
	// Well over the cap; the aggregator must not even run.
	result := s.check("nope", "disp-ca", compliance.RequestedItem{ProductID: "slab-800", Quantity: 10})
	s.False(result.Valid)
	s.Require().Len(result.Violations, 1)
	s.Equal(compliance.ViolationUserNotFound, result.Violations[0].Code)
	s.False(result.Contains(compliance.ViolationDailyTHCExceeded))
}

func (s *EngineSuite) TestUnverifiedUserBlocked() {
	dob := time.Date(1990, time.March, 10, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.users.Save(s.ctx, domain.User{ID: "unverified", DateOfBirth: &dob}))

	result := s.check("unverified", "disp-ca", compliance.RequestedItem{ProductID: "gummy-10", Quantity: 1})
	s.False(result.Valid)
	s.Require().Len(result.Violations, 1)
	s.Equal(compliance.ViolationAgeNotVerified, result.Violations[0].Code)
}

func (s *EngineSuite) TestVerificationAndDosageViolationsCoOccur() {
	dob := time.Date(1990, time.March, 10, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.users.Save(s.ctx, domain.User{ID: "unverified", DateOfBirth: &dob}))

	result := s.check("unverified", "disp-ca", compliance.RequestedItem{ProductID: "slab-800", Quantity: 2})
	s.False(result.Valid)
	s.Require().Len(result.Violations, 2)
	s.Equal(compliance.ViolationAgeNotVerified, result.Violations[0].Code)
	s.Equal(compliance.ViolationDailyTHCExceeded, result.Violations[1].Code)
}

func (s *EngineSuite) TestRequestAloneOverLimit() {
	result := s.check("adult", "disp-ca", compliance.RequestedItem{ProductID: "slab-800", Quantity: 2})
	s.False(result.Valid)
	s.Require().Len(result.Violations, 1)
	s.Equal(compliance.ViolationDailyTHCExceeded, result.Violations[0].Code)
}

func (s *EngineSuite) TestConsumedPlusRequestedOverLimit() {
	s.priorOrder("adult", domain.OrderStatusConfirmed, evalTime.Add(-6*time.Hour), 600)

	result := s.check("adult", "disp-ca", compliance.RequestedItem{ProductID: "gummy-10", Quantity: 50})
	s.False(result.Valid)
	s.Require().Len(result.Violations, 1)
	s.Equal(compliance.ViolationDailyTHCExceeded, result.Violations[0].Code)
	s.Contains(result.Violations[0].Message, "500.0")
	s.Contains(result.Violations[0].Message, "600.0")
}

func (s *EngineSuite) TestExactlyAtLimitPasses() {
	s.priorOrder("adult", domain.OrderStatusConfirmed, evalTime.Add(-6*time.Hour), 500)

	result := s.check("adult", "disp-ca", compliance.RequestedItem{ProductID: "gummy-10", Quantity: 50})
	s.True(result.Valid)
}

func (s *EngineSuite) TestCancelledOrdersDoNotCount() {
	s.priorOrder("adult", domain.OrderStatusCancelled, evalTime.Add(-6*time.Hour), 5000)

	result := s.check("adult", "disp-ca", compliance.RequestedItem{ProductID: "gummy-10", Quantity: 50})
	s.True(result.Valid)
}

func (s *EngineSuite) TestDailyWindowIsUTC() {
	// 23:30 UTC yesterday: outside the window even though it may be "today"
	// in the dispensary's local timezone.
	s.priorOrder("adult", domain.OrderStatusCompleted, time.Date(2025, time.June, 14, 23, 30, 0, 0, time.UTC), 900)
	// 00:00 UTC today: inside.
	s.priorOrder("adult", domain.OrderStatusCompleted, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), 600)

	result := s.check("adult", "disp-ca", compliance.RequestedItem{ProductID: "gummy-10", Quantity: 50})
	s.False(result.Valid)
	s.Require().Len(result.Violations, 1)
	s.Contains(result.Violations[0].Message, "600.0")
}

func (s *EngineSuite) TestIdempotentWithoutInterveningWrites() {
	first := s.check("adult", "disp-ca", compliance.RequestedItem{ProductID: "slab-800", Quantity: 2})
	second := s.check("adult", "disp-ca", compliance.RequestedItem{ProductID: "slab-800", Quantity: 2})
	s.Equal(first, second)
}

func (s *EngineSuite) TestMissingProductContributesZero() {
	result := s.check("adult", "disp-ca",
		compliance.RequestedItem{ProductID: "ghost", Quantity: 1000},
		compliance.RequestedItem{ProductID: "gummy-10", Quantity: 10},
	)
	s.True(result.Valid)
}

func (s *EngineSuite) TestInfrastructureFailureIsAnErrorNotAViolation() {
	engine := compliance.NewEngine(failingUserReader{}, s.dispensaries, s.products, s.orders, s.rules, nil)
	_, err := engine.Check(s.ctx, compliance.CheckRequest{UserID: "adult", DispensaryID: "disp-ca"})
	s.Error(err)
}

type failingUserReader struct{}

func (failingUserReader) FindByID(context.Context, string) (domain.User, error) {
	return domain.User{}, errors.New("connection refused")
}
