package receipt

import (
	"Receipt-Tracker/domain"
	"Receipt-Tracker/entities"
	"Receipt-Tracker/internal/utils/storage"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type (
	ReceiptService interface {
		IngestReceipt(ctx context.Context, req domain.ProcessReceiptRequest) (domain.ProcessReceiptResponse, error)
		GetReceipts(ctx context.Context, userID string, filter domain.ReceiptFilter) ([]domain.ReceiptResponse, error)
		GetReceipt(ctx context.Context, id string, userID string) (domain.ReceiptResponse, error)
		ConfirmReceipt(ctx context.Context, id string, userID string, req domain.ConfirmReceiptRequest) (domain.ConfirmReceiptResponse, error)
		UploadReceiptImage(ctx context.Context, id string, userID string, req domain.UploadReceiptImageRequest) (domain.UploadReceiptImageResponse, error)
		GetCategoryStats(ctx context.Context, userID string) (domain.CategoryStatsResponse, error)
	}

	receiptService struct {
		receiptRepository ReceiptRepository
		s3                storage.AwsS3
		location          *time.Location
		now               func() time.Time
	}
)

func NewReceiptService(receiptRepository ReceiptRepository, s3 storage.AwsS3, location *time.Location) ReceiptService {
	if location == nil {
		location = time.UTC
	}
	return &receiptService{
		receiptRepository: receiptRepository,
		s3:                s3,
		location:          location,
		now:               time.Now,
	}
}

func (s *receiptService) IngestReceipt(ctx context.Context, req domain.ProcessReceiptRequest) (domain.ProcessReceiptResponse, error) {
	transactionDate, err := parseTransactionDate(req.Receipt.Date, req.Receipt.Time, s.location)
	if err != nil {
		return domain.ProcessReceiptResponse{}, err
	}

	fields := make([]entities.LowConfidenceField, 0, len(req.Receipt.LowConfidenceFields))
	for _, f := range req.Receipt.LowConfidenceFields {
		fields = append(fields, entities.LowConfidenceField{
			Field:      f.Field,
			Confidence: f.Confidence,
			Value:      f.Value,
		})
	}

	items := make([]*entities.ReceiptItem, 0, len(req.Receipt.Items))
	for i, it := range req.Receipt.Items {
		item := &entities.ReceiptItem{
			ID:            uuid.New(),
			Position:      i,
			Name:          it.Name,
			Qty:           it.Qty,
			Price:         it.Price,
			DiscountType:  it.DiscountType,
			DiscountValue: it.DiscountValue,
			VoucherAmount: it.VoucherAmount,
			Category:      it.Category,
		}
		normalizeItem(item)
		items = append(items, item)
	}

	status := ClassifyIngested(req.Receipt.Status, fields, items, req.Receipt.TotalAmount)
	if req.Receipt.Status == "" && status == StatusPending && IsMismatched(extractedItems(req.Receipt.Items, items), req.Receipt.TotalAmount) {
		status = StatusActionRequired
	}

	owner := &entities.User{
		TelegramID: req.User.TelegramID,
		UserName:   req.User.UserName,
		FirstName:  req.User.FirstName,
	}
	receipt := &entities.Receipt{
		ID:                  uuid.New(),
		StoreName:           req.Receipt.MerchantName,
		TransactionDate:     transactionDate,
		TotalAmount:         req.Receipt.TotalAmount,
		Status:              string(status),
		LowConfidenceFields: fields,
		EditedFields:        []string{},
		ReceiptItems:        items,
	}

	if err := s.receiptRepository.IngestReceipt(ctx, owner, receipt); err != nil {
		return domain.ProcessReceiptResponse{}, fmt.Errorf("ingest receipt: %w", err)
	}

	log.Infof("ingested receipt %s for telegram user %d with status %s", receipt.ID, owner.TelegramID, status)

	return domain.ProcessReceiptResponse{
		Success:   true,
		Status:    string(status),
		ReceiptID: receipt.ID.String(),
		Message:   domain.MessageSuccessProcessReceipt,
	}, nil
}

func (s *receiptService) GetReceipts(ctx context.Context, userID string, filter domain.ReceiptFilter) ([]domain.ReceiptResponse, error) {
	query := ReceiptQuery{
		Store:  strings.TrimSpace(filter.Store),
		Search: strings.TrimSpace(filter.Query),
	}
	if filter.Status != "" {
		status, ok := LookupReceiptStatus(filter.Status)
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, filter.Status)
		}
		query.Status = string(status)
	}
	query.From, query.To = DateRange(filter.Date, s.now().In(s.location))

	receipts, err := s.receiptRepository.GetReceiptsByUser(ctx, userID, query)
	if err != nil {
		return nil, err
	}

	response := make([]domain.ReceiptResponse, 0, len(receipts))
	for _, r := range receipts {
		response = append(response, ToReceiptResponse(r))
	}
	return response, nil
}

func (s *receiptService) GetReceipt(ctx context.Context, id string, userID string) (domain.ReceiptResponse, error) {
	receipt, err := s.getOwnedReceipt(ctx, id, userID)
	if err != nil {
		return domain.ReceiptResponse{}, err
	}
	return ToReceiptResponse(receipt), nil
}

func (s *receiptService) ConfirmReceipt(ctx context.Context, id string, userID string, req domain.ConfirmReceiptRequest) (domain.ConfirmReceiptResponse, error) {
	original, err := s.getOwnedReceipt(ctx, id, userID)
	if err != nil {
		return domain.ConfirmReceiptResponse{}, err
	}

	reconciled, err := Reconcile(original, stagedReceipt(req))
	if err != nil {
		return domain.ConfirmReceiptResponse{}, err
	}

	if err := s.receiptRepository.ConfirmReceipt(ctx, reconciled); err != nil {
		if errors.Is(err, domain.ErrReceiptNotFound) {
			return domain.ConfirmReceiptResponse{}, err
		}
		return domain.ConfirmReceiptResponse{}, fmt.Errorf("confirm receipt %s: %w", id, err)
	}

	log.Infof("receipt %s confirmed from %s, edited fields %v", id, original.Status, []string(reconciled.EditedFields))

	stored, err := s.receiptRepository.GetReceiptByID(ctx, id)
	if err != nil {
		return domain.ConfirmReceiptResponse{}, err
	}
	receipts, err := s.GetReceipts(ctx, userID, domain.ReceiptFilter{})
	if err != nil {
		return domain.ConfirmReceiptResponse{}, err
	}

	return domain.ConfirmReceiptResponse{
		Success:  true,
		Receipt:  ToReceiptResponse(stored),
		Receipts: receipts,
	}, nil
}

func (s *receiptService) UploadReceiptImage(ctx context.Context, id string, userID string, req domain.UploadReceiptImageRequest) (domain.UploadReceiptImageResponse, error) {
	receipt, err := s.getOwnedReceipt(ctx, id, userID)
	if err != nil {
		return domain.UploadReceiptImageResponse{}, err
	}

	var objectKey string
	existingKey := ""
	if receipt.ImageURL != "" {
		existingKey = s.s3.GetObjectKeyFromLink(receipt.ImageURL)
	}
	if existingKey != "" {
		objectKey, err = s.s3.UpdateFile(existingKey, req.ReceiptImage, storage.AllowImage...)
	} else {
		fileName := fmt.Sprintf("receipt-%s", receipt.ID.String())
		objectKey, err = s.s3.UploadFile(fileName, req.ReceiptImage, "receipts", storage.AllowImage...)
	}
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) {
			return domain.UploadReceiptImageResponse{}, domain.ErrInvalidImageFormat
		}
		return domain.UploadReceiptImageResponse{}, err
	}

	imageURL := s.s3.GetPublicLinkKey(objectKey)
	if err := s.receiptRepository.UpdateImageURL(ctx, id, userID, imageURL); err != nil {
		if existingKey == "" {
			_ = s.s3.DeleteFile(objectKey)
		}
		return domain.UploadReceiptImageResponse{}, err
	}

	return domain.UploadReceiptImageResponse{
		ReceiptID: id,
		ImageURL:  imageURL,
	}, nil
}

func (s *receiptService) GetCategoryStats(ctx context.Context, userID string) (domain.CategoryStatsResponse, error) {
	items, err := s.receiptRepository.GetItemsByUser(ctx, userID)
	if err != nil {
		return domain.CategoryStatsResponse{}, err
	}
	return CategoryBreakdown(items), nil
}

func (s *receiptService) getOwnedReceipt(ctx context.Context, id string, userID string) (*entities.Receipt, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrReceiptNotFound
	}

	receipt, err := s.receiptRepository.GetReceiptByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReceiptNotFound
		}
		return nil, err
	}

	// foreign receipts look exactly like missing ones
	if receipt.UserID.String() != userID {
		return nil, domain.ErrReceiptNotFound
	}
	return receipt, nil
}

// extractedItems pairs the stored items with the line totals the extractor
// reported. Stored totals are always recomputed, but a receipt whose reported
// lines disagree with its total still needs review.
func extractedItems(reported []domain.IngestItem, items []*entities.ReceiptItem) []*entities.ReceiptItem {
	out := make([]*entities.ReceiptItem, 0, len(items))
	for i, item := range items {
		line := *item
		if !reported[i].TotalPrice.IsZero() {
			line.TotalPrice = reported[i].TotalPrice
		}
		out = append(out, &line)
	}
	return out
}

func stagedReceipt(req domain.ConfirmReceiptRequest) *entities.Receipt {
	items := make([]*entities.ReceiptItem, 0, len(req.ReceiptItems))
	for _, it := range req.ReceiptItems {
		var id uuid.UUID
		if it.ID != "" {
			id, _ = uuid.Parse(it.ID)
		}
		items = append(items, &entities.ReceiptItem{
			ID:            id,
			Name:          it.Name,
			Qty:           it.Qty,
			Price:         it.Price,
			DiscountType:  it.DiscountType,
			DiscountValue: it.DiscountValue,
			VoucherAmount: it.VoucherAmount,
			Category:      it.Category,
			TotalPrice:    it.TotalPrice,
		})
	}
	return &entities.Receipt{
		StoreName:       req.StoreName,
		TotalAmount:     req.TotalAmount,
		TransactionDate: req.TransactionDate,
		ReceiptItems:    items,
	}
}

func parseTransactionDate(date, clock string, location *time.Location) (time.Time, error) {
	layout, value := "2006-01-02", date
	if clock != "" {
		layout, value = "2006-01-02 15:04", date+" "+clock
	}
	t, err := time.ParseInLocation(layout, value, location)
	if err != nil {
		return time.Time{}, domain.ErrInvalidTransactionDate
	}
	return t, nil
}

// DateRange resolves the dashboard's date filter chips into a half-open interval.
// A zero bound means unbounded.
func DateRange(filter string, now time.Time) (time.Time, time.Time) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch filter {
	case "today":
		return startOfDay, startOfDay.AddDate(0, 0, 1)
	case "week":
		return now.AddDate(0, 0, -7), time.Time{}
	case "month":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0)
	default:
		return time.Time{}, time.Time{}
	}
}

// CategoryBreakdown sums item totals per category with whole-number percentages,
// largest first.
func CategoryBreakdown(items []*entities.ReceiptItem) domain.CategoryStatsResponse {
	totals := make(map[string]decimal.Decimal)
	grand := decimal.Zero
	for _, item := range items {
		name := strings.TrimSpace(item.Category)
		if name == "" {
			name = "Other"
		}
		totals[name] = totals[name].Add(item.TotalPrice)
		grand = grand.Add(item.TotalPrice)
	}

	categories := make([]domain.CategoryStat, 0, len(totals))
	for name, total := range totals {
		percentage := 0
		if grand.IsPositive() {
			percentage = int(total.Div(grand).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
		}
		categories = append(categories, domain.CategoryStat{
			Name:       name,
			Total:      total,
			Percentage: percentage,
		})
	}
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Total.Equal(categories[j].Total) {
			return categories[i].Name < categories[j].Name
		}
		return categories[i].Total.GreaterThan(categories[j].Total)
	})

	return domain.CategoryStatsResponse{
		TotalSpent: grand,
		Categories: categories,
	}
}
