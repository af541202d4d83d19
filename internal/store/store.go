package store

import (
	"context"

	"github.com/searchrail/searchrail/internal/model"
)

// Store exposes the persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Users() Users
	Searches() Searches
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
}

// Searches persists saved searches and keeps each owner's position sequence
// dense. Mutations run through the position engine inside one transaction;
// callers are expected to have verified ownership beforehand (ResolveOwner).
type Searches interface {
	Create(ctx context.Context, s *model.SavedSearch) (*model.SavedSearch, error)
	// ResolveOwner returns the owner of a search id, model.ErrNotFound if the
	// record does not exist. It is the cheap pre-mutation ownership read.
	ResolveOwner(ctx context.Context, searchID string) (string, error)
	GetByID(ctx context.Context, ownerID, searchID string) (*model.SavedSearch, error)
	// ListByOwner returns the owner's searches ordered by position.
	ListByOwner(ctx context.Context, ownerID string) ([]*model.SavedSearch, error)
	// ListByOwners is the batch read backing the request-scoped loader.
	ListByOwners(ctx context.Context, ownerIDs []string) (map[string][]*model.SavedSearch, error)
	Update(ctx context.Context, req model.UpdateSearchRequest) (*model.SavedSearch, error)
	Delete(ctx context.Context, ownerID, searchID string) error
}
