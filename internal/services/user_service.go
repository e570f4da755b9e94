package services

import (
	"strings"

	"leadtrack/internal/auth"
	"leadtrack/internal/models"
	"leadtrack/internal/repositories"
	"leadtrack/internal/services/dto"

	"leadtrack/pkg/apperrors"
)

type UserService interface {
	List(page, limit int) (*dto.UserListResponse, error)
	Get(id string) (*dto.UserResponse, error)
	Create(req *dto.CreateUserRequest) (*dto.UserResponse, error)
	Update(id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(callerID, id string) error
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
	}
}

func (s *UserServiceImpl) List(page, limit int) (*dto.UserListResponse, error) {
	total, err := s.userRepo.CountAll()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	offset := (page - 1) * limit
	users, err := s.userRepo.FindAll(limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *buildUserResponse(&users[i]))
	}

	return &dto.UserListResponse{
		Users: responses,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (s *UserServiceImpl) Get(id string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("users", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return buildUserResponse(user), nil
}

func (s *UserServiceImpl) Create(req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := models.UserRole(req.Role)
	if err := auth.ValidateRole(role); err != nil {
		return nil, apperrors.ValidationError("invalid role")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.NewConflictError("users", "Email already in use")
		}
		return nil, apperrors.InternalError(err)
	}

	return buildUserResponse(user), nil
}

func (s *UserServiceImpl) Update(id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("users", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		email := strings.ToLower(*req.Email)
		if email != user.Email {
			// Uniqueness is re-checked when the email changes.
			if _, err := s.userRepo.FindByEmail(email); err == nil {
				return nil, apperrors.NewConflictError("users", "Email already in use")
			}
			user.Email = email
		}
	}
	if req.Role != nil {
		role := models.UserRole(*req.Role)
		if err := auth.ValidateRole(role); err != nil {
			return nil, apperrors.ValidationError("invalid role")
		}
		user.Role = role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return buildUserResponse(user), nil
}

func (s *UserServiceImpl) Delete(callerID, id string) error {
	// Self-delete is forbidden for every role, super_admin included.
	if callerID == id {
		return apperrors.NewForbiddenError("You cannot delete your own account")
	}

	if err := s.userRepo.Delete(id); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.NewNotFoundError("users", "User not found")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func buildUserResponse(user *models.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
	}
}
