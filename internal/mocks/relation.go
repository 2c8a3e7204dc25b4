package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
)

// MockRelationManager is a mock implementation of service.IRelationManager
type MockRelationManager struct {
	mock.Mock
}

func (m *MockRelationManager) Add(ctx context.Context, userID uuid.UUID, kind models.RelationKind, targetID uuid.UUID) (service.Target, error) {
	args := m.Called(ctx, userID, kind, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(service.Target), args.Error(1)
}

func (m *MockRelationManager) Remove(ctx context.Context, userID uuid.UUID, kind models.RelationKind, targetID uuid.UUID) error {
	args := m.Called(ctx, userID, kind, targetID)
	return args.Error(0)
}

func (m *MockRelationManager) List(ctx context.Context, userID uuid.UUID, kind models.RelationKind, page service.PageRequest) (*service.Page[service.Target], error) {
	args := m.Called(ctx, userID, kind, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Page[service.Target]), args.Error(1)
}

// MockShoppingListService is a mock implementation of service.IShoppingListService
type MockShoppingListService struct {
	mock.Mock
}

func (m *MockShoppingListService) DownloadShoppingList(ctx context.Context, userID uuid.UUID) (*service.ShoppingListFile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ShoppingListFile), args.Error(1)
}

var (
	_ service.IAuthService         = (*MockAuthService)(nil)
	_ service.IRelationManager     = (*MockRelationManager)(nil)
	_ service.IShoppingListService = (*MockShoppingListService)(nil)
)
