package receipt

import (
	"Receipt-Tracker/domain"
	"Receipt-Tracker/entities"
	"Receipt-Tracker/pkg/money"
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

const (
	FieldStoreName       = "store_name"
	FieldTotalAmount     = "total_amount"
	FieldTransactionDate = "transaction_date"
	FieldItems           = "items"
)

type itemSnapshot struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Qty           int    `json:"qty"`
	Price         string `json:"price"`
	DiscountType  string `json:"discount_type"`
	DiscountValue string `json:"discount_value"`
	VoucherAmount string `json:"voucher_amount"`
	Category      string `json:"category"`
}

func serializeItems(items []*entities.ReceiptItem) []byte {
	snapshots := make([]itemSnapshot, 0, len(items))
	for _, item := range items {
		snapshots = append(snapshots, itemSnapshot{
			ID:            item.ID.String(),
			Name:          item.Name,
			Qty:           item.Qty,
			Price:         item.Price.String(),
			DiscountType:  string(money.ParseDiscountType(item.DiscountType)),
			DiscountValue: item.DiscountValue.String(),
			VoucherAmount: item.VoucherAmount.String(),
			Category:      item.Category,
		})
	}
	// plain strings and ints only, Marshal cannot fail
	data, _ := json.Marshal(snapshots)
	return data
}

// EditedFields lists, in a fixed order, the receipt attributes that differ between
// the persisted receipt and the one staged by the user.
func EditedFields(original, edited *entities.Receipt) []string {
	fields := make([]string, 0, 4)
	if original.StoreName != edited.StoreName {
		fields = append(fields, FieldStoreName)
	}
	if !original.TotalAmount.Equal(edited.TotalAmount) {
		fields = append(fields, FieldTotalAmount)
	}
	if !original.TransactionDate.Equal(edited.TransactionDate) {
		fields = append(fields, FieldTransactionDate)
	}
	if !bytes.Equal(serializeItems(original.ReceiptItems), serializeItems(edited.ReceiptItems)) {
		fields = append(fields, FieldItems)
	}
	return fields
}

// mergeEditedFields returns the union of two edited-fields lists in the fixed
// field order.
func mergeEditedFields(previous, current []string) []string {
	seen := make(map[string]struct{}, len(previous)+len(current))
	for _, f := range previous {
		seen[f] = struct{}{}
	}
	for _, f := range current {
		seen[f] = struct{}{}
	}

	merged := make([]string, 0, len(seen))
	for _, f := range []string{FieldStoreName, FieldTotalAmount, FieldTransactionDate, FieldItems} {
		if _, ok := seen[f]; ok {
			merged = append(merged, f)
		}
	}
	return merged
}

// Reconcile applies a user's edits to the persisted receipt and returns the record
// to store: header fields from edited, items renumbered with recomputed totals,
// the edited-fields list and status VERIFIED. Edits of an already verified
// receipt add to its edited fields, so the list covers every change since
// ingestion.
func Reconcile(original, edited *entities.Receipt) (*entities.Receipt, error) {
	status := ParseReceiptStatus(original.Status)
	if !CanConfirm(status) {
		return nil, domain.ErrInvalidTransition
	}

	known := make(map[uuid.UUID]struct{}, len(original.ReceiptItems))
	for _, item := range original.ReceiptItems {
		known[item.ID] = struct{}{}
	}

	seen := make(map[uuid.UUID]struct{}, len(edited.ReceiptItems))
	items := make([]*entities.ReceiptItem, 0, len(edited.ReceiptItems))
	for i, item := range edited.ReceiptItems {
		next := *item
		_, ok := known[next.ID]
		if _, dup := seen[next.ID]; !ok || dup {
			next.ID = uuid.New()
		}
		seen[next.ID] = struct{}{}
		next.ReceiptID = original.ID
		next.Position = i
		next.DiscountType = string(money.ParseDiscountType(next.DiscountType))
		next.TotalPrice = money.Total(next.Line())
		items = append(items, &next)
	}

	fields := EditedFields(original, edited)
	if status == StatusVerified {
		fields = mergeEditedFields(original.EditedFields, fields)
	}

	return &entities.Receipt{
		ID:                  original.ID,
		UserID:              original.UserID,
		StoreName:           edited.StoreName,
		TransactionDate:     edited.TransactionDate,
		TotalAmount:         edited.TotalAmount,
		Status:              string(StatusVerified),
		LowConfidenceFields: original.LowConfidenceFields,
		EditedFields:        fields,
		ImageURL:            original.ImageURL,
		ReceiptItems:        items,
		Timestamp:           original.Timestamp,
	}, nil
}
