package user

import (
	"Receipt-Tracker/entities"
	"Receipt-Tracker/internal/testutil"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertUserKeepsIdentity(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &entities.User{TelegramID: 279058397, UserName: "rina_s", FirstName: "Rina"}
	require.NoError(t, repo.UpsertUser(ctx, first))
	require.NotEmpty(t, first.ID)

	second := &entities.User{TelegramID: 279058397, UserName: "rina", FirstName: "Rina S."}
	require.NoError(t, repo.UpsertUser(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "rina", second.UserName)

	var count int64
	require.NoError(t, db.Model(&entities.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stored, err := repo.GetUserByTelegramID(ctx, 279058397)
	require.NoError(t, err)
	assert.Equal(t, "Rina S.", stored.FirstName)
}

func TestGetUserByIDMissing(t *testing.T) {
	repo := NewUserRepository(testutil.OpenDB(t))

	_, err := repo.GetUserByID(context.Background(), "7f1d8f52-7d55-4e0e-a5a4-3a3f0c1d2e3f")
	assert.Error(t, err)
}
