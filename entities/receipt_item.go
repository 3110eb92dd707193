package entities

import (
	"Receipt-Tracker/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReceiptItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ReceiptID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"receipt_id"`
	Position      int             `json:"position"`
	Name          string          `json:"name"`
	Qty           int             `json:"qty"`
	Price         decimal.Decimal `gorm:"type:numeric(14,2)" json:"price"`
	DiscountType  string          `json:"discount_type"` // none, percentage, nominal
	DiscountValue decimal.Decimal `gorm:"type:numeric(14,2)" json:"discount_value"`
	VoucherAmount decimal.Decimal `gorm:"type:numeric(14,2)" json:"voucher_amount"`
	Category      string          `json:"category"`
	TotalPrice    decimal.Decimal `gorm:"type:numeric(14,2)" json:"total_price"`

	Timestamp
}

func (i *ReceiptItem) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Line returns the priced view of the item used by the money package.
func (i *ReceiptItem) Line() money.Line {
	return money.Line{
		Qty:           i.Qty,
		Price:         i.Price,
		DiscountType:  money.ParseDiscountType(i.DiscountType),
		DiscountValue: i.DiscountValue,
		Voucher:       i.VoucherAmount,
	}
}
