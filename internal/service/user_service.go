package service

import (
	"context"

	"github.com/google/uuid"

	"go-rest-auth-starter/internal/domain"
	"go-rest-auth-starter/internal/repository"
	"go-rest-auth-starter/internal/security"
)

type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Create(_ context.Context, name, email, password, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, NewValidation("role must be user or admin")
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(user); err != nil {
		if err == repository.ErrDuplicateEmail {
			return nil, NewValidation("Email already taken")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, NewNotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(_ context.Context, id uuid.UUID, update UserUpdate) (*domain.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, NewNotFound("User not found")
		}
		return nil, err
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Password != nil {
		hash, err := security.HashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := s.users.Update(user); err != nil {
		if err == repository.ErrDuplicateEmail {
			return nil, NewValidation("Email already taken")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(_ context.Context, id uuid.UUID) error {
	if err := s.users.Delete(id); err != nil {
		if err == repository.ErrUserNotFound {
			return NewNotFound("User not found")
		}
		return err
	}
	return nil
}

func (s *UserService) List(_ context.Context, query repository.UserListQuery) (repository.PageResult[domain.User], error) {
	return s.users.ListPaged(query)
}
