// File: internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/hogflix-traffic/internal/provision"
)

// -- Provisioner Mock --

// MockProvisioner mocks the session provisioning API.
type MockProvisioner struct {
	mock.Mock
}

func NewMockProvisioner() *MockProvisioner {
	return new(MockProvisioner)
}

func (m *MockProvisioner) Create(ctx context.Context, req provision.SessionRequest) (*provision.Session, error) {
	args := m.Called(ctx, req)
	if s := args.Get(0); s != nil {
		return s.(*provision.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvisioner) Update(ctx context.Context, id string, update provision.SessionUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

// ReleaseCount returns how many times the session with id was released.
func (m *MockProvisioner) ReleaseCount(id string) int {
	n := 0
	for _, call := range m.Calls {
		if call.Method != "Update" {
			continue
		}
		if call.Arguments.String(1) == id && call.Arguments.Get(2).(provision.SessionUpdate).Status == provision.StatusReleased {
			n++
		}
	}
	return n
}
