package receipt

import (
	"Receipt-Tracker/domain"
	"Receipt-Tracker/entities"
	"Receipt-Tracker/pkg/user"
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

type (
	ReceiptRepository interface {
		IngestReceipt(ctx context.Context, owner *entities.User, receipt *entities.Receipt) error
		GetReceiptByID(ctx context.Context, id string) (*entities.Receipt, error)
		GetReceiptsByUser(ctx context.Context, userID string, filter ReceiptQuery) ([]*entities.Receipt, error)
		ConfirmReceipt(ctx context.Context, receipt *entities.Receipt) error
		UpdateImageURL(ctx context.Context, id string, userID string, imageURL string) error
		GetItemsByUser(ctx context.Context, userID string) ([]*entities.ReceiptItem, error)
	}

	// ReceiptQuery is a resolved list filter; zero values disable a condition.
	ReceiptQuery struct {
		Status string
		Store  string
		Search string
		From   time.Time
		To     time.Time
	}

	receiptRepository struct {
		db *gorm.DB
	}
)

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// IngestReceipt upserts the owner and inserts the receipt with its items in one
// transaction.
func (r *receiptRepository) IngestReceipt(ctx context.Context, owner *entities.User, receipt *entities.Receipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := user.Upsert(tx, owner); err != nil {
			return err
		}
		receipt.UserID = owner.ID
		return tx.Create(receipt).Error
	})
}

func (r *receiptRepository) GetReceiptByID(ctx context.Context, id string) (*entities.Receipt, error) {
	var receipt entities.Receipt
	if err := r.db.WithContext(ctx).
		Preload("ReceiptItems", preloadItems).
		Where("id = ?", id).
		First(&receipt).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) GetReceiptsByUser(ctx context.Context, userID string, filter ReceiptQuery) ([]*entities.Receipt, error) {
	var receipts []*entities.Receipt

	query := r.db.WithContext(ctx).
		Preload("ReceiptItems", preloadItems).
		Where("user_id = ?", userID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Store != "" {
		query = query.Where("store_name = ?", filter.Store)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(store_name) LIKE ? OR CAST(total_amount AS TEXT) LIKE ? OR id IN (?)",
			like, like,
			r.db.WithContext(ctx).Model(&entities.ReceiptItem{}).Select("receipt_id").Where("LOWER(name) LIKE ?", like),
		)
	}
	if !filter.From.IsZero() {
		query = query.Where("transaction_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("transaction_date < ?", filter.To)
	}

	if err := query.Order("created_at DESC").Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// ConfirmReceipt writes the reconciled header and replaces the item collection.
// The header update, the item deletion and the item insertion commit together or
// not at all.
func (r *receiptRepository) ConfirmReceipt(ctx context.Context, receipt *entities.Receipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Receipt{}).
			Where("id = ? AND user_id = ?", receipt.ID, receipt.UserID).
			Updates(map[string]interface{}{
				"store_name":       receipt.StoreName,
				"total_amount":     receipt.TotalAmount,
				"transaction_date": receipt.TransactionDate,
				"status":           receipt.Status,
				"edited_fields":    receipt.EditedFields,
				"updated_at":       time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrReceiptNotFound
		}

		if err := tx.Where("receipt_id = ?", receipt.ID).Delete(&entities.ReceiptItem{}).Error; err != nil {
			return err
		}
		if len(receipt.ReceiptItems) == 0 {
			return nil
		}
		return tx.Create(&receipt.ReceiptItems).Error
	})
}

func (r *receiptRepository) UpdateImageURL(ctx context.Context, id string, userID string, imageURL string) error {
	res := r.db.WithContext(ctx).Model(&entities.Receipt{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"image_url": imageURL, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrReceiptNotFound
	}
	return nil
}

func (r *receiptRepository) GetItemsByUser(ctx context.Context, userID string) ([]*entities.ReceiptItem, error) {
	var items []*entities.ReceiptItem
	if err := r.db.WithContext(ctx).
		Joins("JOIN receipts ON receipts.id = receipt_items.receipt_id").
		Where("receipts.user_id = ?", userID).
		Order("receipt_items.created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
