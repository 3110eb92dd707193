package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountPercentage DiscountType = "percentage"
	DiscountNominal    DiscountType = "nominal"
)

var hundred = decimal.NewFromInt(100)

type (
	// Line is the priced part of a receipt item.
	Line struct {
		Qty           int
		Price         decimal.Decimal
		DiscountType  DiscountType
		DiscountValue decimal.Decimal
		Voucher       decimal.Decimal
	}

	Summary struct {
		Subtotal decimal.Decimal `json:"subtotal"`
		Discount decimal.Decimal `json:"discount"`
		Voucher  decimal.Decimal `json:"voucher"`
		Total    decimal.Decimal `json:"total"`
	}
)

// ParseDiscountType maps anything unrecognized to DiscountNone.
func ParseDiscountType(raw string) DiscountType {
	switch DiscountType(strings.ToLower(strings.TrimSpace(raw))) {
	case DiscountPercentage:
		return DiscountPercentage
	case DiscountNominal:
		return DiscountNominal
	default:
		return DiscountNone
	}
}

func Subtotal(l Line) decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

func Discount(l Line) decimal.Decimal {
	switch l.DiscountType {
	case DiscountPercentage:
		return Subtotal(l).Mul(l.DiscountValue).Div(hundred)
	case DiscountNominal:
		return l.DiscountValue
	default:
		return decimal.Zero
	}
}

func Voucher(l Line) decimal.Decimal {
	return l.Voucher
}

// Total is subtotal minus discount minus voucher. The result is not clamped at zero.
func Total(l Line) decimal.Decimal {
	return Subtotal(l).Sub(Discount(l)).Sub(Voucher(l))
}

// Add folds one line into the summary.
func (s Summary) Add(l Line) Summary {
	return Summary{
		Subtotal: s.Subtotal.Add(Subtotal(l)),
		Discount: s.Discount.Add(Discount(l)),
		Voucher:  s.Voucher.Add(Voucher(l)),
		Total:    s.Total.Add(Total(l)),
	}
}

// Merge combines two partial summaries.
func (s Summary) Merge(o Summary) Summary {
	return Summary{
		Subtotal: s.Subtotal.Add(o.Subtotal),
		Discount: s.Discount.Add(o.Discount),
		Voucher:  s.Voucher.Add(o.Voucher),
		Total:    s.Total.Add(o.Total),
	}
}

func Summarize(lines []Line) Summary {
	var s Summary
	for _, l := range lines {
		s = s.Add(l)
	}
	return s
}
