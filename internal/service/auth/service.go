package auth

import (
	"context"

	"github.com/dentalreserve/clinic-api/internal/model"
	"github.com/dentalreserve/clinic-api/internal/repository"
	"github.com/dentalreserve/clinic-api/pkg/auth"
	"github.com/dentalreserve/clinic-api/pkg/errors"
	"github.com/dentalreserve/clinic-api/pkg/security"
)

// Service handles login and profile management for dashboard accounts
type Service struct {
	users repository.UserRepository
	jwt   *auth.JWTService
}

func NewService(users repository.UserRepository, jwt *auth.JWTService) *Service {
	return &Service{users: users, jwt: jwt}
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	if !security.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, errors.Unauthorized("invalid credentials")
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, errors.Internal(err)
	}

	return &model.LoginResponse{
		AccessToken: token,
		Profile:     profileOf(user),
	}, nil
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*auth.TokenClaims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, errors.Unauthorized("invalid token")
	}
	return claims, nil
}

func (s *Service) GetProfile(ctx context.Context, username string) (*model.Profile, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return profileOf(user), nil
}

func (s *Service) UpdateProfile(ctx context.Context, username string, req *model.UpdateProfileRequest) (*model.Profile, error) {
	if err := s.users.UpdateLastName(ctx, username, req.LastName); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, username)
}

func (s *Service) ChangePassword(ctx context.Context, username string, req *model.ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return errors.Validation("both current and new password are required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if !security.VerifyPassword(user.PasswordHash, req.CurrentPassword) {
		return errors.Unauthorized("current password is incorrect")
	}

	hash, err := security.HashPassword(req.NewPassword)
	if err != nil {
		return errors.Internal(err)
	}
	return s.users.UpdatePassword(ctx, username, hash)
}

func profileOf(user *model.User) *model.Profile {
	return &model.Profile{
		Username:    user.Username,
		LastName:    user.LastName,
		AccountType: user.AccountType,
	}
}
