package reservation

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) QueryByScreenAndDate(ctx context.Context, screenID int64, date string, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, screenID, date, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockStore) InsertUnique(ctx context.Context, b *domain.Booking, dayPrefix string, next NextCodeFunc) error {
	args := m.Called(ctx, b, dayPrefix)
	if err := args.Error(0); err != nil {
		return err
	}
	code, err := next("")
	if err != nil {
		return err
	}
	b.ID = 999 // simulate DB insert
	b.BookingCode = code
	return nil
}

func (m *MockStore) UpdateUnique(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockStore) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockStore) TransitionStatus(ctx context.Context, id int64, to domain.BookingStatus, c *domain.Cancellation) (bool, error) {
	args := m.Called(ctx, id, to, c)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) UpdatePayment(ctx context.Context, id int64, expectedPaid float64, p domain.Payment) (bool, error) {
	args := m.Called(ctx, id, expectedPaid, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) UpdateRefundStatus(ctx context.Context, id int64, to domain.RefundStatus) (bool, error) {
	args := m.Called(ctx, id, to)
	return args.Bool(0), args.Error(1)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetScreen(ctx context.Context, id int64) (*domain.Screen, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Screen), args.Error(1)
}

func (m *MockCatalog) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockCatalog) GetEventPackage(ctx context.Context, id int64) (*domain.EventPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventPackage), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, snapshot domain.BookingSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}
