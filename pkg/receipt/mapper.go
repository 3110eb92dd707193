package receipt

import (
	"Receipt-Tracker/domain"
	"Receipt-Tracker/entities"
	"Receipt-Tracker/pkg/money"
)

func normalizeItem(item *entities.ReceiptItem) {
	item.DiscountType = string(money.ParseDiscountType(item.DiscountType))
	item.TotalPrice = money.Total(item.Line())
}

func ToReceiptResponse(r *entities.Receipt) domain.ReceiptResponse {
	lines := make([]money.Line, 0, len(r.ReceiptItems))
	items := make([]domain.ReceiptItemResponse, 0, len(r.ReceiptItems))
	for _, item := range r.ReceiptItems {
		lines = append(lines, item.Line())
		items = append(items, domain.ReceiptItemResponse{
			ID:            item.ID.String(),
			Name:          item.Name,
			Qty:           item.Qty,
			Price:         item.Price,
			DiscountType:  item.DiscountType,
			DiscountValue: item.DiscountValue,
			VoucherAmount: item.VoucherAmount,
			Category:      item.Category,
			TotalPrice:    item.TotalPrice,
			CreatedAt:     item.CreatedAt,
		})
	}

	fields := append([]entities.LowConfidenceField{}, r.LowConfidenceFields...)
	edited := append([]string{}, r.EditedFields...)

	return domain.ReceiptResponse{
		ID:                  r.ID.String(),
		StoreName:           r.StoreName,
		TransactionDate:     r.TransactionDate,
		TotalAmount:         r.TotalAmount,
		Status:              r.Status,
		Confidence:          AdvisoryConfidence(fields),
		Mismatch:            IsMismatched(r.ReceiptItems, r.TotalAmount),
		Summary:             money.Summarize(lines),
		LowConfidenceFields: fields,
		EditedFields:        edited,
		ReceiptItems:        items,
		ImageURL:            r.ImageURL,
		CreatedAt:           r.CreatedAt,
	}
}
