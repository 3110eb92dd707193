package receipt

import (
	"Receipt-Tracker/domain"
	"Receipt-Tracker/entities"
	"Receipt-Tracker/internal/testutil"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReceipt(t *testing.T, repo ReceiptRepository, telegramID int64, store string, date time.Time, items ...*entities.ReceiptItem) *entities.Receipt {
	t.Helper()
	total := decimal.Zero
	for i, item := range items {
		item.Position = i
		normalizeItem(item)
		total = total.Add(item.TotalPrice)
	}
	receipt := &entities.Receipt{
		StoreName:       store,
		TransactionDate: date,
		TotalAmount:     total,
		Status:          string(StatusPending),
		EditedFields:    []string{},
		ReceiptItems:    items,
	}
	owner := &entities.User{TelegramID: telegramID, FirstName: "Owner"}
	require.NoError(t, repo.IngestReceipt(context.Background(), owner, receipt))
	return receipt
}

func lineItem(name, category string, qty int, price int64) *entities.ReceiptItem {
	return &entities.ReceiptItem{Name: name, Category: category, Qty: qty, Price: decimal.NewFromInt(price)}
}

func TestIngestReceiptPersistsItemsInOrder(t *testing.T) {
	repo := NewReceiptRepository(testutil.OpenDB(t))
	ctx := context.Background()

	seeded := seedReceipt(t, repo, 1001, "Grocery Mart", time.Date(2024, 3, 12, 14, 5, 0, 0, time.UTC),
		lineItem("Rice 5kg", "Groceries", 1, 15000),
		lineItem("Cooking Oil", "Groceries", 2, 8000),
		lineItem("Eggs", "Groceries", 1, 14200),
	)
	require.NotEqual(t, uuid.Nil, seeded.UserID)

	got, err := repo.GetReceiptByID(ctx, seeded.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Grocery Mart", got.StoreName)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(45200)))
	require.Len(t, got.ReceiptItems, 3)
	assert.Equal(t, "Rice 5kg", got.ReceiptItems[0].Name)
	assert.Equal(t, "Eggs", got.ReceiptItems[2].Name)
	assert.True(t, got.ReceiptItems[1].TotalPrice.Equal(decimal.NewFromInt(16000)))
}

func TestIngestReceiptReusesOwner(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewReceiptRepository(db)
	date := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)

	first := seedReceipt(t, repo, 1001, "Grocery Mart", date, lineItem("Milk", "Groceries", 1, 18000))
	second := seedReceipt(t, repo, 1001, "Coffee House", date, lineItem("Latte", "Food & Dining", 1, 25000))

	assert.Equal(t, first.UserID, second.UserID)
	var users int64
	require.NoError(t, db.Model(&entities.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)
}

func TestGetReceiptsByUserFilters(t *testing.T) {
	repo := NewReceiptRepository(testutil.OpenDB(t))
	ctx := context.Background()

	mart := seedReceipt(t, repo, 1001, "Grocery Mart", time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC),
		lineItem("Eggs", "Groceries", 1, 14200))
	coffee := seedReceipt(t, repo, 1001, "Coffee House", time.Date(2024, 2, 20, 8, 15, 0, 0, time.UTC),
		lineItem("Latte", "Food & Dining", 2, 25000))
	other := seedReceipt(t, repo, 2002, "Grocery Mart", time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC),
		lineItem("Eggs", "Groceries", 1, 14200))
	userID := mart.UserID.String()

	ids := func(receipts []*entities.Receipt) []uuid.UUID {
		out := make([]uuid.UUID, 0, len(receipts))
		for _, r := range receipts {
			out = append(out, r.ID)
		}
		return out
	}

	all, err := repo.GetReceiptsByUser(ctx, userID, ReceiptQuery{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{mart.ID, coffee.ID}, ids(all))
	assert.NotContains(t, ids(all), other.ID)

	byStore, err := repo.GetReceiptsByUser(ctx, userID, ReceiptQuery{Store: "Coffee House"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{coffee.ID}, ids(byStore))

	byItem, err := repo.GetReceiptsByUser(ctx, userID, ReceiptQuery{Search: "EGG"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{mart.ID}, ids(byItem))

	byAmount, err := repo.GetReceiptsByUser(ctx, userID, ReceiptQuery{Search: "5000"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{coffee.ID}, ids(byAmount))

	byStoreSearch, err := repo.GetReceiptsByUser(ctx, userID, ReceiptQuery{Search: "mart"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{mart.ID}, ids(byStoreSearch))

	march, err := repo.GetReceiptsByUser(ctx, userID, ReceiptQuery{
		From: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{mart.ID}, ids(march))

	verified, err := repo.GetReceiptsByUser(ctx, userID, ReceiptQuery{Status: string(StatusVerified)})
	require.NoError(t, err)
	assert.Empty(t, verified)
}

func TestConfirmReceiptReplacesItems(t *testing.T) {
	repo := NewReceiptRepository(testutil.OpenDB(t))
	ctx := context.Background()

	original := seedReceipt(t, repo, 1001, "Grocery Mart", time.Date(2024, 3, 12, 14, 5, 0, 0, time.UTC),
		lineItem("Rice 5kg", "Groceries", 1, 15000),
		lineItem("Cooking Oil", "Groceries", 2, 8000),
	)
	stored, err := repo.GetReceiptByID(ctx, original.ID.String())
	require.NoError(t, err)

	edited := copyReceipt(stored)
	edited.StoreName = "Grocery Mart Kemang"
	edited.ReceiptItems = edited.ReceiptItems[:1]
	reconciled, err := Reconcile(stored, edited)
	require.NoError(t, err)

	require.NoError(t, repo.ConfirmReceipt(ctx, reconciled))

	got, err := repo.GetReceiptByID(ctx, original.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Grocery Mart Kemang", got.StoreName)
	assert.Equal(t, string(StatusVerified), got.Status)
	assert.Equal(t, []string{FieldStoreName, FieldItems}, []string(got.EditedFields))
	require.Len(t, got.ReceiptItems, 1)
	assert.Equal(t, stored.ReceiptItems[0].ID, got.ReceiptItems[0].ID)
}

func TestConfirmReceiptWithRepeatedItemID(t *testing.T) {
	repo := NewReceiptRepository(testutil.OpenDB(t))
	svc := NewReceiptService(repo, nil, time.UTC)
	ctx := context.Background()

	original := seedReceipt(t, repo, 1001, "Grocery Mart", time.Date(2024, 3, 12, 14, 5, 0, 0, time.UTC),
		lineItem("Rice 5kg", "Groceries", 1, 15000),
		lineItem("Cooking Oil", "Groceries", 2, 8000),
	)
	stored, err := repo.GetReceiptByID(ctx, original.ID.String())
	require.NoError(t, err)

	repeated := stored.ReceiptItems[0].ID.String()
	req := domain.ConfirmReceiptRequest{
		StoreName:       stored.StoreName,
		TotalAmount:     stored.TotalAmount,
		TransactionDate: stored.TransactionDate,
		ReceiptItems: []domain.ConfirmItemRequest{
			{ID: repeated, Name: "Rice 5kg", Qty: 1, Price: decimal.NewFromInt(15000), Category: "Groceries"},
			{ID: repeated, Name: "Cooking Oil", Qty: 2, Price: decimal.NewFromInt(8000), Category: "Groceries"},
		},
	}

	res, err := svc.ConfirmReceipt(ctx, stored.ID.String(), stored.UserID.String(), req)
	require.NoError(t, err)
	assert.Equal(t, string(StatusVerified), res.Receipt.Status)

	got, err := repo.GetReceiptByID(ctx, stored.ID.String())
	require.NoError(t, err)
	require.Len(t, got.ReceiptItems, 2)
	assert.Equal(t, repeated, got.ReceiptItems[0].ID.String())
	assert.NotEqual(t, got.ReceiptItems[0].ID, got.ReceiptItems[1].ID)
	assert.Equal(t, "Cooking Oil", got.ReceiptItems[1].Name)
}

func TestConfirmReceiptRollsBackOnItemFailure(t *testing.T) {
	repo := NewReceiptRepository(testutil.OpenDB(t))
	ctx := context.Background()

	original := seedReceipt(t, repo, 1001, "Grocery Mart", time.Date(2024, 3, 12, 14, 5, 0, 0, time.UTC),
		lineItem("Rice 5kg", "Groceries", 1, 15000),
		lineItem("Cooking Oil", "Groceries", 2, 8000),
	)
	stored, err := repo.GetReceiptByID(ctx, original.ID.String())
	require.NoError(t, err)

	edited := copyReceipt(stored)
	edited.StoreName = "Should Not Persist"
	reconciled, err := Reconcile(stored, edited)
	require.NoError(t, err)
	reconciled.ReceiptItems[1].ID = reconciled.ReceiptItems[0].ID

	assert.Error(t, repo.ConfirmReceipt(ctx, reconciled))

	got, err := repo.GetReceiptByID(ctx, original.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Grocery Mart", got.StoreName)
	assert.Equal(t, string(StatusPending), got.Status)
	assert.Len(t, got.ReceiptItems, 2)
}

func TestConfirmReceiptScopedToOwner(t *testing.T) {
	repo := NewReceiptRepository(testutil.OpenDB(t))
	ctx := context.Background()

	original := seedReceipt(t, repo, 1001, "Grocery Mart", time.Date(2024, 3, 12, 14, 5, 0, 0, time.UTC),
		lineItem("Rice 5kg", "Groceries", 1, 15000))
	stored, err := repo.GetReceiptByID(ctx, original.ID.String())
	require.NoError(t, err)

	reconciled, err := Reconcile(stored, copyReceipt(stored))
	require.NoError(t, err)
	reconciled.UserID = uuid.New()

	assert.ErrorIs(t, repo.ConfirmReceipt(ctx, reconciled), domain.ErrReceiptNotFound)
	assert.ErrorIs(t, repo.UpdateImageURL(ctx, original.ID.String(), uuid.NewString(), "https://x/y.png"), domain.ErrReceiptNotFound)
}

func TestGetItemsByUser(t *testing.T) {
	repo := NewReceiptRepository(testutil.OpenDB(t))
	date := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)

	mine := seedReceipt(t, repo, 1001, "Grocery Mart", date,
		lineItem("Milk", "Groceries", 2, 18000),
		lineItem("Bread", "Groceries", 1, 15000))
	seedReceipt(t, repo, 2002, "Coffee House", date, lineItem("Latte", "Food & Dining", 1, 25000))

	items, err := repo.GetItemsByUser(context.Background(), mine.UserID.String())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
