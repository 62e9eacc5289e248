package access

import "context"

// MockCapabilityProvider implements CapabilityProvider for testing.
type MockCapabilityProvider struct {
	HasAccessFn     func(ctx context.Context) (bool, error)
	RequestAccessFn func(ctx context.Context) error
}

// HasAccess calls HasAccessFn, reporting no access when it is nil.
func (m *MockCapabilityProvider) HasAccess(ctx context.Context) (bool, error) {
	if m.HasAccessFn == nil {
		return false, nil
	}
	return m.HasAccessFn(ctx)
}

// RequestAccess calls RequestAccessFn, succeeding when it is nil.
func (m *MockCapabilityProvider) RequestAccess(ctx context.Context) error {
	if m.RequestAccessFn == nil {
		return nil
	}
	return m.RequestAccessFn(ctx)
}

// NewGrantingProvider returns a provider that always grants access.
func NewGrantingProvider() *MockCapabilityProvider {
	return &MockCapabilityProvider{
		HasAccessFn: func(ctx context.Context) (bool, error) { return true, nil },
	}
}
