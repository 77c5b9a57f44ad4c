package user

import (
	"context"
	"errors"
	"fmt"

	domainUser "ecommerce-backend/internal/domain/user"
	"ecommerce-backend/internal/logger"
	appErrors "ecommerce-backend/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements profile and user administration use cases
type Service struct {
	userRepo domainUser.Repository
}

func NewService(userRepo domainUser.Repository) *Service {
	return &Service{userRepo: userRepo}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.NotFound("User not found.", appErrors.ErrUserNotFound)
		}
		logger.FromContext(ctx).Error("Failed to load profile",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, appErrors.Internal("Internal server error", fmt.Errorf("failed to get profile: %w", err))
	}

	return ToUserResponse(u), nil
}

func (s *Service) ListUsers(ctx context.Context) (*UserListResponse, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to list users", zap.Error(err))
		return nil, appErrors.Internal("Internal server error", fmt.Errorf("failed to list users: %w", err))
	}

	resp := &UserListResponse{Users: make([]*UserResponse, len(users)), Total: len(users)}
	for i, u := range users {
		resp.Users[i] = ToUserResponse(u)
	}
	return resp, nil
}
