package receipt

import (
	"Receipt-Tracker/entities"
	"strings"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending        Status = "PENDING"
	StatusActionRequired Status = "ACTION_REQUIRED"
	StatusVerified       Status = "VERIFIED"
	StatusFailed         Status = "FAILED"
)

// MismatchTolerance is the absolute difference, in minor currency units, allowed
// between the summed item totals and the declared receipt total.
var MismatchTolerance = decimal.NewFromInt(100)

// ParseReceiptStatus normalizes raw and falls back to StatusPending for anything
// outside the known set.
func ParseReceiptStatus(raw string) Status {
	if s, ok := LookupReceiptStatus(raw); ok {
		return s
	}
	return StatusPending
}

// LookupReceiptStatus is the strict form of ParseReceiptStatus used for query
// filters, where an unknown value must not turn into PENDING.
func LookupReceiptStatus(raw string) (Status, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)

	switch s := Status(normalized); s {
	case StatusPending, StatusActionRequired, StatusVerified, StatusFailed:
		return s, true
	default:
		return "", false
	}
}

// CanConfirm reports whether a receipt in status s may move to VERIFIED through
// the reconciliation workflow. A verified receipt may be re-reviewed and stays
// verified, keeping the fields edited in earlier reviews. Failed receipts are
// terminal.
func CanConfirm(s Status) bool {
	switch s {
	case StatusPending, StatusActionRequired, StatusVerified:
		return true
	default:
		return false
	}
}

func ItemsTotal(items []*entities.ReceiptItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice)
	}
	return total
}

// IsMismatched is display-only and never blocks confirmation.
func IsMismatched(items []*entities.ReceiptItem, declared decimal.Decimal) bool {
	return ItemsTotal(items).Sub(declared).Abs().GreaterThan(MismatchTolerance)
}
