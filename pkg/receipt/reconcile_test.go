package receipt

import (
	"Receipt-Tracker/domain"
	"Receipt-Tracker/entities"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groceryReceipt(status Status) *entities.Receipt {
	id := uuid.New()
	item := func(name string, qty int, price int64) *entities.ReceiptItem {
		return &entities.ReceiptItem{
			ID:           uuid.New(),
			ReceiptID:    id,
			Name:         name,
			Qty:          qty,
			Price:        decimal.NewFromInt(price),
			DiscountType: "none",
			Category:     "Groceries",
			TotalPrice:   decimal.NewFromInt(price * int64(qty)),
		}
	}
	return &entities.Receipt{
		ID:              id,
		UserID:          uuid.New(),
		StoreName:       "Grocery Mart",
		TransactionDate: time.Date(2024, 3, 12, 14, 5, 0, 0, time.UTC),
		TotalAmount:     decimal.NewFromInt(45200),
		Status:          string(status),
		LowConfidenceFields: []entities.LowConfidenceField{
			{Field: "total_amount", Confidence: 0.5, Value: "45200"},
			{Field: "store_name", Confidence: 0.8, Value: "Grocery Mart"},
		},
		EditedFields: []string{},
		ReceiptItems: []*entities.ReceiptItem{
			item("Rice 5kg", 1, 15000),
			item("Cooking Oil", 2, 8000),
			item("Eggs", 1, 14200),
		},
	}
}

func copyReceipt(r *entities.Receipt) *entities.Receipt {
	out := *r
	out.ReceiptItems = make([]*entities.ReceiptItem, 0, len(r.ReceiptItems))
	for _, item := range r.ReceiptItems {
		c := *item
		out.ReceiptItems = append(out.ReceiptItems, &c)
	}
	return &out
}

func TestEditedFieldsNoChange(t *testing.T) {
	original := groceryReceipt(StatusPending)

	fields := EditedFields(original, copyReceipt(original))
	assert.NotNil(t, fields)
	assert.Empty(t, fields)
}

func TestEditedFieldsTotalOnly(t *testing.T) {
	original := groceryReceipt(StatusPending)
	edited := copyReceipt(original)
	edited.TotalAmount = decimal.NewFromInt(46000)

	assert.Equal(t, []string{FieldTotalAmount}, EditedFields(original, edited))
}

func TestEditedFieldsOrderIsFixed(t *testing.T) {
	original := groceryReceipt(StatusPending)
	edited := copyReceipt(original)
	edited.ReceiptItems[1].Qty = 3
	edited.TransactionDate = edited.TransactionDate.Add(time.Hour)
	edited.StoreName = "Grocery Mart Plaza"
	edited.TotalAmount = decimal.NewFromInt(53200)

	assert.Equal(t,
		[]string{FieldStoreName, FieldTotalAmount, FieldTransactionDate, FieldItems},
		EditedFields(original, edited))
}

func TestEditedFieldsIgnoresEquivalentRepresentations(t *testing.T) {
	original := groceryReceipt(StatusPending)
	edited := copyReceipt(original)
	edited.TransactionDate = original.TransactionDate.In(time.FixedZone("WIB", 7*3600))
	edited.TotalAmount = decimal.RequireFromString("45200.00")
	edited.ReceiptItems[0].DiscountType = ""

	assert.Empty(t, EditedFields(original, edited))
}

func TestEditedFieldsDetectsItemRemoval(t *testing.T) {
	original := groceryReceipt(StatusPending)
	edited := copyReceipt(original)
	edited.ReceiptItems = edited.ReceiptItems[:2]

	assert.Equal(t, []string{FieldItems}, EditedFields(original, edited))
}

func TestReconcileStoreNameEdit(t *testing.T) {
	original := groceryReceipt(StatusActionRequired)
	assert.InDelta(t, 0.65, AdvisoryConfidence(original.LowConfidenceFields), 1e-9)

	edited := copyReceipt(original)
	edited.StoreName = "Grocery Mart Kemang"

	got, err := Reconcile(original, edited)
	require.NoError(t, err)

	assert.Equal(t, string(StatusVerified), got.Status)
	assert.Equal(t, []string{FieldStoreName}, []string(got.EditedFields))
	assert.Equal(t, "Grocery Mart Kemang", got.StoreName)
	assert.Equal(t, original.UserID, got.UserID)
	assert.Len(t, got.LowConfidenceFields, 2)
	for i, item := range got.ReceiptItems {
		assert.Equal(t, original.ReceiptItems[i].ID, item.ID)
		assert.Equal(t, i, item.Position)
	}
}

func TestReconcileRecomputesItemTotals(t *testing.T) {
	original := groceryReceipt(StatusPending)
	edited := copyReceipt(original)
	edited.ReceiptItems[1].Qty = 3
	edited.ReceiptItems[1].TotalPrice = decimal.NewFromInt(1)
	edited.ReceiptItems = append(edited.ReceiptItems, &entities.ReceiptItem{
		Name:          "Sugar",
		Qty:           2,
		Price:         decimal.NewFromInt(10000),
		DiscountType:  "Percentage",
		DiscountValue: decimal.NewFromInt(10),
	})

	got, err := Reconcile(original, edited)
	require.NoError(t, err)

	require.Len(t, got.ReceiptItems, 4)
	assert.True(t, got.ReceiptItems[1].TotalPrice.Equal(decimal.NewFromInt(24000)))
	added := got.ReceiptItems[3]
	assert.NotEqual(t, uuid.Nil, added.ID)
	assert.Equal(t, original.ID, added.ReceiptID)
	assert.Equal(t, "percentage", added.DiscountType)
	assert.True(t, added.TotalPrice.Equal(decimal.NewFromInt(18000)))
	assert.Equal(t, []string{FieldItems}, []string(got.EditedFields))
}

func TestReconcileReplacesForeignItemIDs(t *testing.T) {
	original := groceryReceipt(StatusPending)
	edited := copyReceipt(original)
	foreign := uuid.New()
	edited.ReceiptItems[0].ID = foreign

	got, err := Reconcile(original, edited)
	require.NoError(t, err)
	assert.NotEqual(t, foreign, got.ReceiptItems[0].ID)
}

func TestReconcileVerifiedIsIdempotent(t *testing.T) {
	original := groceryReceipt(StatusVerified)

	got, err := Reconcile(original, copyReceipt(original))
	require.NoError(t, err)
	assert.Equal(t, string(StatusVerified), got.Status)
	assert.Empty(t, got.EditedFields)
}

func TestReconcileVerifiedKeepsEarlierEdits(t *testing.T) {
	pending := groceryReceipt(StatusPending)
	edited := copyReceipt(pending)
	edited.StoreName = "Grocery Mart Kemang"

	first, err := Reconcile(pending, edited)
	require.NoError(t, err)
	require.Equal(t, []string{FieldStoreName}, []string(first.EditedFields))

	again, err := Reconcile(first, copyReceipt(first))
	require.NoError(t, err)
	assert.Equal(t, []string{FieldStoreName}, []string(again.EditedFields))

	later := copyReceipt(again)
	later.TotalAmount = decimal.NewFromInt(46000)
	got, err := Reconcile(again, later)
	require.NoError(t, err)
	assert.Equal(t, []string{FieldStoreName, FieldTotalAmount}, []string(got.EditedFields))
}

func TestReconcileGivesDuplicateItemIDsFreshIDs(t *testing.T) {
	original := groceryReceipt(StatusPending)
	edited := copyReceipt(original)
	edited.ReceiptItems[1].ID = edited.ReceiptItems[0].ID

	got, err := Reconcile(original, edited)
	require.NoError(t, err)
	require.Len(t, got.ReceiptItems, 3)
	assert.Equal(t, original.ReceiptItems[0].ID, got.ReceiptItems[0].ID)
	assert.NotEqual(t, got.ReceiptItems[0].ID, got.ReceiptItems[1].ID)
	assert.Equal(t, original.ReceiptItems[2].ID, got.ReceiptItems[2].ID)
}

func TestReconcileRejectsFailed(t *testing.T) {
	original := groceryReceipt(StatusFailed)

	_, err := Reconcile(original, copyReceipt(original))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
