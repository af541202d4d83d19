package auth

import (
	"context"
	"errors"
	"strings"
)

const (
	// DevKeyPrefix marks local development keys of the form
	// sk_local_<actorId>; the suffix becomes the actor id.
	DevKeyPrefix = "sk_local_"
)

// MockAuthorizer resolves dev-prefixed API keys without an external provider.
// Local development only.
type MockAuthorizer struct{}

func NewMockAuthorizer() *MockAuthorizer { return &MockAuthorizer{} }

// Authorize accepts any sk_local_ key and maps it to the embedded actor id
// with full permissions.
func (m *MockAuthorizer) Authorize(ctx context.Context, apiKey, operation, resource string) (*ActorInfo, error) {
	if !strings.HasPrefix(apiKey, DevKeyPrefix) {
		return nil, errors.New("invalid API key for local development")
	}
	actorID := strings.TrimPrefix(apiKey, DevKeyPrefix)
	if actorID == "" {
		return nil, errors.New("dev API key carries no actor id")
	}
	return &ActorInfo{
		ActorID:     actorID,
		KeyName:     "Local Development Key",
		Permissions: []string{"*"},
	}, nil
}
