package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/blog-platform-api/internal/service"
)

// MockAvatarPresigner is a mock implementation of AvatarPresigner
type MockAvatarPresigner struct {
	BaseURL string
	Err     error
	Keys    []string
}

var _ service.AvatarPresigner = (*MockAvatarPresigner)(nil)

func NewMockAvatarPresigner() *MockAvatarPresigner {
	return &MockAvatarPresigner{BaseURL: "https://storage.test/avatars"}
}

func (m *MockAvatarPresigner) PresignPut(ctx context.Context, key, contentType string) (string, string, time.Time, error) {
	if m.Err != nil {
		return "", "", time.Time{}, m.Err
	}
	m.Keys = append(m.Keys, key)
	publicURL := fmt.Sprintf("%s/%s", m.BaseURL, key)
	return publicURL + "?X-Amz-Signature=test", publicURL, time.Now().Add(15 * time.Minute), nil
}

// MockPinger is a mock implementation of Pinger
type MockPinger struct {
	Err error
}

var _ service.Pinger = (*MockPinger)(nil)

func (m *MockPinger) HealthCheck(ctx context.Context) error {
	return m.Err
}
