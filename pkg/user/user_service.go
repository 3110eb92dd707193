package user

import (
	"Receipt-Tracker/domain"
	"Receipt-Tracker/entities"
	"Receipt-Tracker/pkg/jwt"
	"Receipt-Tracker/pkg/telegram"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type (
	UserService interface {
		// Authenticate verifies Telegram launch data, upserts the user and issues an
		// access token.
		Authenticate(ctx context.Context, initData string) (domain.UserProfile, string, error)
		GetProfile(ctx context.Context, userID string) (domain.UserProfile, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		botToken       string
		initDataMaxAge time.Duration
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, botToken string, initDataMaxAge time.Duration) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		botToken:       botToken,
		initDataMaxAge: initDataMaxAge,
	}
}

func (s *userService) Authenticate(ctx context.Context, initData string) (domain.UserProfile, string, error) {
	data, err := telegram.Parse(initData, s.botToken, s.initDataMaxAge, time.Now())
	if err != nil {
		return domain.UserProfile{}, "", err
	}

	user := &entities.User{
		TelegramID: data.User.ID,
		UserName:   data.User.Username,
		FirstName:  data.User.FirstName,
		LastName:   data.User.LastName,
		PhotoURL:   data.User.PhotoURL,
	}
	if err := s.userRepository.UpsertUser(ctx, user); err != nil {
		return domain.UserProfile{}, "", fmt.Errorf("upsert user: %w", err)
	}

	token, err := s.jwtService.GenerateAccessToken(user.ID.String(), user.TelegramID)
	if err != nil {
		return domain.UserProfile{}, "", err
	}

	return toUserProfile(user), token, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserProfile{}, domain.ErrUserNotFound
		}
		return domain.UserProfile{}, err
	}
	return toUserProfile(user), nil
}

func toUserProfile(user *entities.User) domain.UserProfile {
	return domain.UserProfile{
		ID:         user.ID.String(),
		TelegramID: user.TelegramID,
		UserName:   user.UserName,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		PhotoURL:   user.PhotoURL,
	}
}
