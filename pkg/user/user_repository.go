package user

import (
	"Receipt-Tracker/entities"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	UserRepository interface {
		UpsertUser(ctx context.Context, user *entities.User) error
		GetUserByTelegramID(ctx context.Context, telegramID int64) (*entities.User, error)
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Upsert inserts user or refreshes the non-empty profile columns of the row with
// the same telegram id, then reloads it so user.ID always holds the stored
// identity. It runs on whatever handle it is given so callers can use it inside a
// transaction.
func Upsert(tx *gorm.DB, user *entities.User) error {
	user.UpdatedAt = time.Now()

	columns := []string{"updated_at"}
	for column, value := range map[string]string{
		"user_name":  user.UserName,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"photo_url":  user.PhotoURL,
	} {
		if value != "" {
			columns = append(columns, column)
		}
	}

	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(user).Error; err != nil {
		return err
	}

	var stored entities.User
	if err := tx.Where("telegram_id = ?", user.TelegramID).First(&stored).Error; err != nil {
		return err
	}
	*user = stored
	return nil
}

func (r *userRepository) UpsertUser(ctx context.Context, user *entities.User) error {
	return Upsert(r.db.WithContext(ctx), user)
}

func (r *userRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
