package webhook

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockSender struct {
	mock.Mock
}

func NewMockSender() *MockSender {
	return &MockSender{}
}

func (m *MockSender) Post(ctx context.Context, url string, payload []byte) (int, error) {
	args := m.Called(ctx, url, payload)
	return args.Int(0), args.Error(1)
}
