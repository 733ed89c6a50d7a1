package service

import (
	"context"
	"errors"
	"time"

	"cinecomments/internal/auth"
	"cinecomments/internal/models"
	"cinecomments/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
}

type UserService struct {
	users  UserStore
	tokens auth.TokenManager
}

func NewUserService(users UserStore, tokens auth.TokenManager) *UserService {
	return &UserService{users: users, tokens: tokens}
}

// Register creates a non-admin account. Only the bcrypt hash of the password is stored.
func (s *UserService) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Email:     in.Email,
		Password:  hash,
		MobileNo:  in.MobileNo,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, u); err != nil {
		// lost the race against a concurrent registration
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return u, nil
}

// Login returns a signed access token for valid credentials.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrUserNotFound
	}
	if !auth.CheckPassword(password, u.Password) {
		return "", ErrIncorrectPassword
	}

	return s.tokens.Generate(auth.Principal{
		UserID:  u.ID.Hex(),
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
	})
}

// GetProfile returns the caller's user record. The password hash never
// leaves the service: it is cleared here and excluded from JSON.
func (s *UserService) GetProfile(ctx context.Context, p auth.Principal) (*models.User, error) {
	id, ok := p.ObjectID()
	if !ok {
		return nil, ErrAuthRequired
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	u.Password = ""
	return u, nil
}
