package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/meridian-policy/packet-cli/internal/model"
	"github.com/meridian-policy/packet-cli/internal/store"
)

// --- Store Mock ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) PutHazardProfile(ctx context.Context, p *model.HazardProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockStore) GetHazardProfile(ctx context.Context, tribeID string) (*model.HazardProfile, error) {
	args := m.Called(ctx, tribeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HazardProfile), args.Error(1)
}

func (m *mockStore) PutAwards(ctx context.Context, set *model.AwardSet) error {
	args := m.Called(ctx, set)
	return args.Error(0)
}

func (m *mockStore) GetAwards(ctx context.Context, tribeID string) (*model.AwardSet, error) {
	args := m.Called(ctx, tribeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AwardSet), args.Error(1)
}

func (m *mockStore) PutDelegation(ctx context.Context, d *model.Delegation) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *mockStore) GetDelegation(ctx context.Context, tribeID string) (*model.Delegation, error) {
	args := m.Called(ctx, tribeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Delegation), args.Error(1)
}

func (m *mockStore) ListTribeIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockStore) Coverage(ctx context.Context) (*store.Coverage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Coverage), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Ensure interface compliance ---
var _ store.Store = (*mockStore)(nil)
