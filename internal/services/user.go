package services

import (
	"context"
	"errors"

	"github.com/coffeelog/apiserver/internal/store"
	"github.com/coffeelog/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// UserRepository defines persistence operations for users and profiles.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	GetProfile(ctx context.Context, userID int) (types.Profile, error)
	UpsertProfile(ctx context.Context, profile types.Profile) (types.Profile, error)
}

// UserService encapsulates account use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates an account with a bcrypt-hashed password. It returns
// store.ErrConflict when the email is already taken; a registration race
// losing to the unique index surfaces the same way.
func (s *UserService) Register(ctx context.Context, email, password, name string) (types.User, error) {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return types.User{}, store.ErrConflict
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return types.User{}, err
	}

	return s.repo.Create(ctx, types.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
	})
}

// Authenticate verifies credentials. Unknown email and wrong password
// both return ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (types.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Profile returns the user's profile, or an empty one if never set.
func (s *UserService) Profile(ctx context.Context, userID int) (types.Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Profile{UserID: userID}, nil
		}
		return types.Profile{}, err
	}
	return profile, nil
}

// UpdateProfileParams carries the fields of a profile upsert.
type UpdateProfileParams struct {
	DisplayName string
	Bio         string
	AvatarURL   string
}

func (s *UserService) UpsertProfile(ctx context.Context, userID int, params UpdateProfileParams) (types.Profile, error) {
	return s.repo.UpsertProfile(ctx, types.Profile{
		UserID:      userID,
		DisplayName: params.DisplayName,
		Bio:         params.Bio,
		AvatarURL:   params.AvatarURL,
	})
}
