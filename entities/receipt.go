package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LowConfidenceField is an OCR-extracted attribute the extractor was unsure about.
type LowConfidenceField struct {
	Field      string  `json:"field"`
	Confidence float64 `json:"confidence"`
	Value      string  `json:"value"`
}

type Receipt struct {
	ID                  uuid.UUID                                `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID                                `gorm:"type:uuid;index;not null" json:"user_id"`
	StoreName           string                                   `json:"store_name"`
	TransactionDate     time.Time                                `json:"transaction_date"`
	TotalAmount         decimal.Decimal                          `gorm:"type:numeric(14,2)" json:"total_amount"`
	Status              string                                   `gorm:"index" json:"status"` // PENDING, ACTION_REQUIRED, VERIFIED, FAILED
	LowConfidenceFields datatypes.JSONSlice[LowConfidenceField] `json:"low_confidence_fields"`
	EditedFields        datatypes.JSONSlice[string]              `json:"edited_fields"`
	ImageURL            string                                   `json:"image_url,omitempty"`

	User         *User          `gorm:"foreignKey:UserID" json:"-"`
	ReceiptItems []*ReceiptItem `gorm:"foreignKey:ReceiptID" json:"receipt_items"`
	Timestamp
}

func (r *Receipt) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
