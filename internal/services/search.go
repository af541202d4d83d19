package services

import (
	"context"
	"fmt"

	"github.com/searchrail/searchrail/internal/model"
	"github.com/searchrail/searchrail/internal/store"
)

// SearchService orchestrates saved-search use cases. Ownership is verified
// with a cheap read before any mutating transaction starts; the store and the
// position engine below it trust the owner id once that check has passed.
type SearchService struct {
	store store.Store
}

func NewSearchService(s store.Store) *SearchService { return &SearchService{store: s} }

func (s *SearchService) CreateSearch(ctx context.Context, ownerID, name, query string) (*model.SavedSearch, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: ownerId is required", model.ErrValidation)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", model.ErrValidation)
	}
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", model.ErrValidation)
	}
	return s.store.Searches().Create(ctx, &model.SavedSearch{OwnerID: ownerID, Name: name, Query: query})
}

func (s *SearchService) GetSearch(ctx context.Context, ownerID, searchID string) (*model.SavedSearch, error) {
	return s.store.Searches().GetByID(ctx, ownerID, searchID)
}

func (s *SearchService) ListSearches(ctx context.Context, ownerID string) ([]*model.SavedSearch, error) {
	return s.store.Searches().ListByOwner(ctx, ownerID)
}

// UpdateSearch applies a partial update (name/query/position). NotFound and
// Unauthorized are distinguished before the mutation runs.
func (s *SearchService) UpdateSearch(ctx context.Context, req model.UpdateSearchRequest) (*model.SavedSearch, error) {
	if req.Name != nil && *req.Name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", model.ErrValidation)
	}
	if req.Query != nil && *req.Query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", model.ErrValidation)
	}
	if err := s.checkOwnership(ctx, req.OwnerID, req.SearchID); err != nil {
		return nil, err
	}
	return s.store.Searches().Update(ctx, req)
}

func (s *SearchService) DeleteSearch(ctx context.Context, ownerID, searchID string) error {
	if err := s.checkOwnership(ctx, ownerID, searchID); err != nil {
		return err
	}
	return s.store.Searches().Delete(ctx, ownerID, searchID)
}

func (s *SearchService) checkOwnership(ctx context.Context, ownerID, searchID string) error {
	owner, err := s.store.Searches().ResolveOwner(ctx, searchID)
	if err != nil {
		return err
	}
	if owner != ownerID {
		return model.ErrUnauthorized
	}
	return nil
}
