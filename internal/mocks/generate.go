// Package mocks provides generated mock implementations for testing services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the store interfaces consumed by internal/service. The mocks are generated
// using go:generate directives and provide a fluent API for setting up test
// expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	store := mocks.NewMockMembershipStore(ctrl)
//	store.EXPECT().GetByUserID(gomock.Any(), "user-1").Return(membership, nil)
package mocks

// Generate mock for MembershipStore interface from internal/service.
// This creates MockMembershipStore with methods:
// GetByUserID, UpdatePlan
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=membership_store_mock.go github.com/fitnova/fitnova-ui-api/internal/service MembershipStore

// Generate mock for ReservationStore interface from internal/service.
// This creates MockReservationStore with methods:
// Create, ListByMember, Cancel
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=reservation_store_mock.go github.com/fitnova/fitnova-ui-api/internal/service ReservationStore
