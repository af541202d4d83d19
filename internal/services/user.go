package services

import (
	"context"
	"fmt"

	"github.com/searchrail/searchrail/internal/model"
	"github.com/searchrail/searchrail/internal/store"
)

type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService { return &UserService{store: s} }

func (s *UserService) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	if u.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", model.ErrValidation)
	}
	if u.Email == "" {
		return nil, fmt.Errorf("%w: email is required", model.ErrValidation)
	}
	return s.store.Users().Create(ctx, u)
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.store.Users().Get(ctx, userID)
}
