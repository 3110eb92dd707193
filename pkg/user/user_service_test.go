package user

import (
	"Receipt-Tracker/domain"
	"Receipt-Tracker/internal/testutil"
	"Receipt-Tracker/pkg/jwt"
	"Receipt-Tracker/pkg/telegram"
	"context"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const botToken = "123456:TEST-bot-token"

func launchString(user string) string {
	values := url.Values{}
	values.Set("user", user)
	values.Set("auth_date", strconv.FormatInt(time.Now().Unix(), 10))
	values.Set("hash", telegram.Sign(telegram.DataCheckString(values), botToken))
	return values.Encode()
}

func TestAuthenticateIssuesTokenForUpsertedUser(t *testing.T) {
	jwtService := jwt.NewJWTService("secret")
	svc := NewUserService(NewUserRepository(testutil.OpenDB(t)), jwtService, botToken, time.Hour)

	profile, token, err := svc.Authenticate(context.Background(), launchString(`{"id":42,"first_name":"Budi","username":"budi"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(42), profile.TelegramID)
	assert.Equal(t, "Budi", profile.FirstName)

	userID, telegramID, err := jwtService.GetUserByToken(token)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, userID)
	assert.Equal(t, int64(42), telegramID)

	again, _, err := svc.Authenticate(context.Background(), launchString(`{"id":42,"first_name":"Budi S"}`))
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
	assert.Equal(t, "Budi S", again.FirstName)
	assert.Equal(t, "budi", again.UserName)
}

func TestAuthenticateRejectsBadSignature(t *testing.T) {
	svc := NewUserService(NewUserRepository(testutil.OpenDB(t)), jwt.NewJWTService("secret"), "999:other", 0)

	_, _, err := svc.Authenticate(context.Background(), launchString(`{"id":42,"first_name":"Budi"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInitData)
}

func TestGetProfileUnknownUser(t *testing.T) {
	svc := NewUserService(NewUserRepository(testutil.OpenDB(t)), jwt.NewJWTService("secret"), botToken, 0)

	_, err := svc.GetProfile(context.Background(), "7f1d8f52-7d55-4e0e-a5a4-3a3f0c1d2e3f")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
