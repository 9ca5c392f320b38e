package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Anthanoess/task-app/internal/auth"
	"github.com/Anthanoess/task-app/internal/model"
)

type RegisterInput struct {
	Username string     `validate:"required,min=3"`
	Email    string     `validate:"required,email"`
	Password string     `validate:"required,min=6"`
	Role     model.Role `validate:"omitempty,oneof=manager employee"`
}

// UserService is the identity provider: it registers users and exchanges
// credentials for tokens.
type UserService struct {
	users  UserStore
	tokens *auth.Tokens
}

func NewUserService(users UserStore, tokens *auth.Tokens) *UserService {
	return &UserService{users: users, tokens: tokens}
}

// Login returns a signed token and the caller's role.
func (s *UserService) Login(ctx context.Context, username, password string) (string, model.Role, error) {
	if username == "" || password == "" {
		return "", "", unauthorized("Invalid credentials")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", "", storeFailure("Error logging in", err)
	}
	if user == nil || !auth.CheckPassword(user.HashedPassword, password) {
		return "", "", unauthorized("Invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return "", "", storeFailure("Error issuing token", err)
	}
	return token, user.Role, nil
}

// Register is the public sign-up path and always creates employees.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Role = model.RoleEmployee
	return s.create(ctx, in)
}

// EnsureUser creates the user unless the username is already taken. It seeds the
// board's manager account at startup.
func (s *UserService) EnsureUser(ctx context.Context, in RegisterInput) (*model.User, bool, error) {
	user, err := s.create(ctx, in)
	if errors.Is(err, ErrConflict) {
		existing, ferr := s.users.FindByUsername(ctx, strings.TrimSpace(in.Username))
		if ferr != nil {
			return nil, false, storeFailure("Error fetching user", ferr)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storeFailure("Error fetching users", err)
	}
	return users, nil
}

func (s *UserService) create(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, storeFailure("Error creating user", err)
	}
	if existing != nil {
		return nil, conflict("User already exists")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, storeFailure("Error creating user", err)
	}

	role := in.Role
	if role == "" {
		role = model.RoleEmployee
	}
	user := &model.User{
		ID:             uuid.New(),
		Username:       in.Username,
		Email:          in.Email,
		HashedPassword: hash,
		Role:           role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storeFailure("Error creating user", err)
	}
	return user, nil
}
