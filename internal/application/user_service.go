package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bizbranches/api/internal/domain"
)

// CreateUserCommand creates a user from the admin surface.
type CreateUserCommand struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UserService covers admin-only user management plus credential checks.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, cmd CreateUserCommand) (*domain.User, error)
	Update(ctx context.Context, id, name, email, role string) error
	Delete(ctx context.Context, id string) error
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

type userService struct {
	repo       UserRepository
	businesses BusinessRepository
}

// NewUserService wires user management use-cases.
func NewUserService(repo UserRepository, businesses BusinessRepository) UserService {
	return &userService{repo: repo, businesses: businesses}
}

// List returns every user annotated with how many businesses they submitted.
func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		count, err := s.businesses.CountByCreator(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
		users[i].BusinessCount = count
	}
	return users, nil
}

func (s *userService) Create(ctx context.Context, cmd CreateUserCommand) (*domain.User, error) {
	name := strings.TrimSpace(cmd.Name)
	email := strings.TrimSpace(cmd.Email)
	if name == "" || email == "" || cmd.Password == "" {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "user", Message: "All fields are required"},
		}}
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := cmd.Role
	if role != domain.RoleAdmin {
		role = domain.RoleUser
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id, name, email, role string) error {
	return s.repo.Update(ctx, id, strings.TrimSpace(name), strings.TrimSpace(email), role)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Authenticate verifies credentials and stamps lastLogin on success. The
// same ErrInvalidCredentials comes back for an unknown email and a wrong
// password so the login surface leaks nothing.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.repo.StampLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		return nil, err
	}
	return user, nil
}
