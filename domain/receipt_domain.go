package domain

import (
	"Receipt-Tracker/entities"
	"Receipt-Tracker/pkg/money"
	"errors"
	"mime/multipart"
	"time"

	"github.com/shopspring/decimal"
)

var (
	MessageSuccessProcessReceipt = "receipt processed successfully"
	MessageSuccessGetReceipts    = "receipts retrieved successfully"
	MessageSuccessGetReceipt     = "receipt retrieved successfully"
	MessageSuccessConfirmReceipt = "receipt confirmed successfully"
	MessageSuccessUploadImage    = "receipt image uploaded successfully"
	MessageSuccessGetStats       = "category statistics retrieved successfully"

	MessageFailedProcessReceipt = "failed to process receipt"
	MessageFailedGetReceipts    = "failed to retrieve receipts"
	MessageFailedGetReceipt     = "failed to retrieve receipt"
	MessageFailedConfirmReceipt = "failed to confirm receipt"
	MessageFailedUploadImage    = "failed to upload receipt image"
	MessageFailedGetStats       = "failed to retrieve category statistics"

	ErrReceiptNotFound        = errors.New("receipt not found")
	ErrInvalidTransition      = errors.New("receipt cannot be confirmed from its current status")
	ErrInvalidTransactionDate = errors.New("invalid transaction date")
	ErrIngestUnauthorized     = errors.New("invalid ingest key")
	ErrInvalidImageFormat     = errors.New("invalid image format")
)

type (
	IngestUser struct {
		TelegramID int64  `json:"telegram_id" validate:"required"`
		UserName   string `json:"user_name"`
		FirstName  string `json:"first_name"`
	}

	LowConfidenceFieldRequest struct {
		Field      string  `json:"field" validate:"required"`
		Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
		Value      string  `json:"value"`
	}

	IngestItem struct {
		Name          string          `json:"name" validate:"required"`
		Qty           int             `json:"qty" validate:"required,min=1"`
		Price         decimal.Decimal `json:"price" validate:"gte=0"`
		TotalPrice    decimal.Decimal `json:"total_price"`
		Category      string          `json:"category"`
		DiscountType  string          `json:"discount_type" validate:"omitempty,oneof=none percentage nominal"`
		DiscountValue decimal.Decimal `json:"discount_value" validate:"gte=0"`
		VoucherAmount decimal.Decimal `json:"voucher_amount" validate:"gte=0"`
	}

	IngestReceipt struct {
		MerchantName        string                      `json:"merchant_name" validate:"required"`
		TotalAmount         decimal.Decimal             `json:"total_amount" validate:"gte=0"`
		Date                string                      `json:"date" validate:"required,datetime=2006-01-02"`
		Time                string                      `json:"time" validate:"omitempty,datetime=15:04"`
		Status              string                      `json:"status"`
		LowConfidenceFields []LowConfidenceFieldRequest `json:"low_confidence_fields" validate:"dive"`
		Items               []IngestItem                `json:"items" validate:"dive"`
	}

	ProcessReceiptRequest struct {
		User    IngestUser    `json:"user"`
		Receipt IngestReceipt `json:"receipt"`
	}

	ProcessReceiptResponse struct {
		Success   bool   `json:"success"`
		Status    string `json:"status"`
		ReceiptID string `json:"receipt_id"`
		Message   string `json:"message"`
	}

	ConfirmItemRequest struct {
		ID            string          `json:"id" validate:"omitempty,uuid"`
		Name          string          `json:"name" validate:"required"`
		Qty           int             `json:"qty" validate:"required,min=1"`
		Price         decimal.Decimal `json:"price" validate:"gte=0"`
		DiscountType  string          `json:"discount_type" validate:"omitempty,oneof=none percentage nominal"`
		DiscountValue decimal.Decimal `json:"discount_value" validate:"gte=0"`
		VoucherAmount decimal.Decimal `json:"voucher_amount" validate:"gte=0"`
		Category      string          `json:"category"`
		TotalPrice    decimal.Decimal `json:"total_price"` // recomputed server side
	}

	// ConfirmReceiptRequest is the receipt as staged by the user. EditedFields and
	// Status are accepted for compatibility but recomputed by the server.
	ConfirmReceiptRequest struct {
		StoreName       string               `json:"store_name" validate:"required"`
		TotalAmount     decimal.Decimal      `json:"total_amount" validate:"gte=0"`
		TransactionDate time.Time            `json:"transaction_date" validate:"required"`
		ReceiptItems    []ConfirmItemRequest `json:"receipt_items" validate:"dive"`
		EditedFields    []string             `json:"edited_fields"`
		Status          string               `json:"status"`
	}

	ReceiptFilter struct {
		Status string
		Store  string
		Query  string
		Date   string // today, week, month
	}

	ReceiptItemResponse struct {
		ID            string          `json:"id"`
		Name          string          `json:"name"`
		Qty           int             `json:"qty"`
		Price         decimal.Decimal `json:"price"`
		DiscountType  string          `json:"discount_type"`
		DiscountValue decimal.Decimal `json:"discount_value"`
		VoucherAmount decimal.Decimal `json:"voucher_amount"`
		Category      string          `json:"category"`
		TotalPrice    decimal.Decimal `json:"total_price"`
		CreatedAt     time.Time       `json:"created_at"`
	}

	ReceiptResponse struct {
		ID                  string                        `json:"id"`
		StoreName           string                        `json:"store_name"`
		TransactionDate     time.Time                     `json:"transaction_date"`
		TotalAmount         decimal.Decimal               `json:"total_amount"`
		Status              string                        `json:"status"`
		Confidence          float64                       `json:"confidence"`
		Mismatch            bool                          `json:"mismatch"`
		Summary             money.Summary                 `json:"summary"`
		LowConfidenceFields []entities.LowConfidenceField `json:"low_confidence_fields"`
		EditedFields        []string                      `json:"edited_fields"`
		ReceiptItems        []ReceiptItemResponse         `json:"receipt_items"`
		ImageURL            string                        `json:"image_url,omitempty"`
		CreatedAt           time.Time                     `json:"created_at"`
	}

	ReceiptsResponse struct {
		Receipts []ReceiptResponse `json:"receipts"`
	}

	ConfirmReceiptResponse struct {
		Success  bool              `json:"success"`
		Receipt  ReceiptResponse   `json:"receipt"`
		Receipts []ReceiptResponse `json:"receipts"`
	}

	UploadReceiptImageRequest struct {
		ReceiptImage *multipart.FileHeader `json:"receipt_image" form:"receipt_image" validate:"required"`
	}

	UploadReceiptImageResponse struct {
		ReceiptID string `json:"receipt_id"`
		ImageURL  string `json:"image_url"`
	}

	CategoryStat struct {
		Name       string          `json:"name"`
		Total      decimal.Decimal `json:"total"`
		Percentage int             `json:"percentage"`
	}

	CategoryStatsResponse struct {
		TotalSpent decimal.Decimal `json:"total_spent"`
		Categories []CategoryStat  `json:"categories"`
	}
)
