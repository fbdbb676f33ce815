package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/Kamal-Bhagchandani/jira-lite/apperrors"
	"github.com/Kamal-Bhagchandani/jira-lite/models"
	"github.com/Kamal-Bhagchandani/jira-lite/repositories"
)

type UserService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

// Register creates an account. Emails are unique case-insensitively; the role
// defaults to member.
func (s *UserService) Register(ctx context.Context, name, email, password string, role models.Role) (*models.User, error) {
	email = models.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, apperrors.BadRequest("name, email and password are required")
	}
	if role == "" {
		role = models.RoleMember
	}
	if !role.IsValid() {
		return nil, apperrors.BadRequest("invalid role: %s", role)
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.BadRequest("a user with email %s already exists", email)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Internal("failed to check existing user", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.Internal("failed to create user", err)
	}
	return user, nil
}

// Login verifies credentials and returns the account. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.BadRequest("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Forbidden("invalid email or password")
		}
		return nil, apperrors.Internal("failed to fetch user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.Forbidden("invalid email or password")
	}
	return user, nil
}

// GetUser returns an account by id.
func (s *UserService) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal("failed to fetch user", err)
	}
	return user, nil
}
