package domain

import (
	"errors"
)

var (
	MessageSuccessGetUserData = "user data retrieved successfully"
	MessageFailedGetUserData  = "failed to retrieve user data"
	MessageInvalidInitData    = "invalid telegram init data"

	ErrInvalidInitData = errors.New("invalid telegram init data")
	ErrInitDataExpired = errors.New("telegram init data expired")
	ErrUserNotFound    = errors.New("user not found")
)

type (
	UserDataRequest struct {
		UserData string `json:"userData" validate:"required"`
	}

	UserProfile struct {
		ID         string `json:"id"`
		TelegramID int64  `json:"telegram_id"`
		UserName   string `json:"user_name"`
		FirstName  string `json:"first_name"`
		LastName   string `json:"last_name,omitempty"`
		PhotoURL   string `json:"photo_url,omitempty"`
	}

	UserDataResponse struct {
		UserProfile  UserProfile       `json:"userProfile"`
		UserReceipts []ReceiptResponse `json:"userReceipts"`
		AccessToken  string            `json:"accessToken"`
	}
)
