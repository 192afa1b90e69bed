package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/quizmentor/quizmentor/internal/models"
	pgrepo "github.com/quizmentor/quizmentor/internal/repositories/postgres"
	"github.com/quizmentor/quizmentor/internal/utils"
)

type CreateUserInput struct {
	Email    string
	FullName string
	Password string
	Role     models.UserRole
}

type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, limit int) ([]models.User, error)
	Update(ctx context.Context, id string, fullName *string, role *models.UserRole, password *string) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	users pgrepo.UserRepository
}

func NewUserService(users pgrepo.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	const op = "UserService.Create"

	if in.Email == "" || in.Password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, utils.E(utils.CodeConflict, op, "email already registered", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to check email", err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: hash,
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create user", err)
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	const op = "UserService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "id is required", nil)
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get user", err)
	}
	return u, nil
}

func (s *userService) List(ctx context.Context, limit int) ([]models.User, error) {
	const op = "UserService.List"

	rows, err := s.users.List(ctx, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list users", err)
	}
	return rows, nil
}

func (s *userService) Update(ctx context.Context, id string, fullName *string, role *models.UserRole, password *string) (*models.User, error) {
	const op = "UserService.Update"

	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if fullName != nil {
		u.FullName = *fullName
	}
	if role != nil {
		u.Role = *role
	}
	if password != nil {
		hash, err := utils.HashPassword(*password)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, u); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update user", err)
	}
	return u, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	const op = "UserService.Delete"

	if id == "" {
		return utils.E(utils.CodeInvalidArgument, op, "id is required", nil)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete user", err)
	}
	return nil
}
