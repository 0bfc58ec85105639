// Package service holds the business logic behind each API operation. Every
// service is constructed with the store it needs; authorization is checked
// explicitly per operation, never assumed from the transport.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Drij77/ecommerce-graphql-api/internal/auth"
	"github.com/Drij77/ecommerce-graphql-api/internal/domain"
)

type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

type AuthPayload struct {
	Token string
	User  *domain.User
}

type AccountService struct {
	store UserStore
	creds *auth.Credentials
}

func NewAccountService(store UserStore, creds *auth.Credentials) *AccountService {
	return &AccountService{store: store, creds: creds}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

func (in *RegisterInput) Validate() error {
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return domain.Validationf("a valid email is required")
	}
	if in.Password == "" {
		return domain.Validationf("password is required")
	}
	if in.FirstName == "" || in.LastName == "" {
		return domain.Validationf("first and last name are required")
	}
	if in.Role != "" {
		if _, err := domain.ParseRole(in.Role); err != nil {
			return domain.Validationf("invalid role %q", in.Role)
		}
	}
	return nil
}

// Register creates an account and immediately issues a token for it. The
// role defaults to CUSTOMER when the input leaves it empty.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*AuthPayload, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	role := domain.RoleCustomer
	if input.Role != "" {
		role, _ = domain.ParseRole(input.Role)
	}

	hash, err := s.creds.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique email constraint is checked by the store itself, so two
	// concurrent registrations cannot both succeed.
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issuePayload(user)
}

type LoginInput struct {
	Email    string
	Password string
}

func (in *LoginInput) Validate() error {
	if in.Email == "" || in.Password == "" {
		return domain.Validationf("email and password are required")
	}
	return nil
}

// Login returns ErrInvalidCredentials for both an unknown email and a wrong
// password so the two cases cannot be told apart.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (*AuthPayload, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, input.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if !s.creds.VerifyPassword(input.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issuePayload(user)
}

func (s *AccountService) issuePayload(user *domain.User) (*AuthPayload, error) {
	token, err := s.creds.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthPayload{Token: token, User: user}, nil
}

// ResolveUser maps a bearer token to the account it was issued for. The
// account is re-fetched from the store so a role change invalidates the old
// privileges immediately. Any failure yields nil — an anonymous caller, not
// an error.
func (s *AccountService) ResolveUser(ctx context.Context, token string) *domain.User {
	id, ok := s.creds.ResolveToken(token)
	if !ok {
		return nil
	}
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil
	}
	return user
}

func (s *AccountService) Me(caller *domain.User) (*domain.User, error) {
	if caller == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return caller, nil
}

func (s *AccountService) ListUsers(ctx context.Context, caller *domain.User) ([]*domain.User, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrNotAuthorized
	}
	return s.store.ListUsers(ctx)
}
