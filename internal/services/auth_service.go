package services

import (
	"leadtrack/internal/auth"
	"leadtrack/internal/logger"
	"leadtrack/internal/repositories"
	"leadtrack/internal/services/dto"

	"leadtrack/pkg/apperrors"
)

type AuthService interface {
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
	}
}

var errInvalidCredentials = apperrors.New(
	apperrors.CodeInvalidCredentials, "auth", "Invalid email or password", 401)

// Login verifies credentials and issues a bearer token. An unknown email,
// an inactive account and a wrong password are indistinguishable to the caller.
func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !user.IsActive {
		return nil, errInvalidCredentials
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, errInvalidCredentials
	}

	// Successful login is the only path that mutates last_login.
	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		logger.Warn("failed to update last login", "user_id", user.ID, "error", err)
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		Token: token,
		User:  buildUserResponse(user),
	}, nil
}
