package receipt

import (
	"Receipt-Tracker/entities"

	"github.com/shopspring/decimal"
)

// DefaultConfidence is shown when the extractor flagged no field.
const DefaultConfidence = 0.65

// AdvisoryConfidence is the mean score of the low-confidence fields. It drives the
// dashboard's progress bar only and never feeds back into status transitions.
func AdvisoryConfidence(fields []entities.LowConfidenceField) float64 {
	if len(fields) == 0 {
		return DefaultConfidence
	}
	var sum float64
	for _, f := range fields {
		sum += f.Confidence
	}
	return sum / float64(len(fields))
}

func NeedsReview(fields []entities.LowConfidenceField) bool {
	return len(fields) > 0
}

// ClassifyIngested picks the initial status of an OCR draft. A status supplied by
// the extractor wins (coerced through ParseReceiptStatus); without one the draft
// needs action when a field was flagged or the items do not add up.
func ClassifyIngested(raw string, fields []entities.LowConfidenceField, items []*entities.ReceiptItem, declared decimal.Decimal) Status {
	if raw != "" {
		return ParseReceiptStatus(raw)
	}
	if NeedsReview(fields) || IsMismatched(items, declared) {
		return StatusActionRequired
	}
	return StatusPending
}
