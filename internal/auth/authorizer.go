package auth

import (
	"context"
)

// ActorInfo describes an authenticated caller. The owner id handed to the
// ordering engine always comes from here, never from request payloads.
type ActorInfo struct {
	ActorID     string   `json:"actor_id"`
	KeyName     string   `json:"key_name"`
	Permissions []string `json:"permissions"`
}

// Authorizer validates API keys and checks permissions in one call.
type Authorizer interface {
	// Authorize validates the API key and checks whether the actor may perform
	// the operation on the resource. Returns ActorInfo when authorized.
	Authorize(ctx context.Context, apiKey, operation, resource string) (*ActorInfo, error)
}
