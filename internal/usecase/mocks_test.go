package usecase_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/address-tiles/internal/domain"
)

// MockStreetRepository - мок для StreetRepository
type MockStreetRepository struct {
	mock.Mock
}

func (m *MockStreetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Street, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Street), args.Error(1)
}

func (m *MockStreetRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Street, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Street), args.Error(1)
}

func (m *MockStreetRepository) ListIDsByBal(ctx context.Context, balID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, balID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockStreetRepository) UpdateTiles(ctx context.Context, id uuid.UUID, tiles domain.StreetTiles) error {
	args := m.Called(ctx, id, tiles)
	return args.Error(0)
}

// MockAddressRepository - мок для AddressRepository
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AddressPoint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AddressPoint), args.Error(1)
}

func (m *MockAddressRepository) ListByStreet(ctx context.Context, streetID uuid.UUID) ([]*domain.AddressPoint, error) {
	args := m.Called(ctx, streetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AddressPoint), args.Error(1)
}

func (m *MockAddressRepository) UpdateTiles(ctx context.Context, id uuid.UUID, tiles domain.TileSet) error {
	args := m.Called(ctx, id, tiles)
	return args.Error(0)
}

// MockCacheRepository - мок для CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetStreetTiles(ctx context.Context, streetID uuid.UUID) (*domain.StreetTiles, error) {
	args := m.Called(ctx, streetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StreetTiles), args.Error(1)
}

func (m *MockCacheRepository) SetStreetTiles(ctx context.Context, streetID uuid.UUID, tiles *domain.StreetTiles, ttl time.Duration) error {
	args := m.Called(ctx, streetID, tiles, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) DeleteStreetTiles(ctx context.Context, streetID uuid.UUID) error {
	args := m.Called(ctx, streetID)
	return args.Error(0)
}
