package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Validation constants
const (
	MaxParticularsLength = 500
	MaxAmount            = "1000000000000" // 1 trillion

	// AmountScale matches the NUMERIC(_, 2) amount and balance columns.
	AmountScale = 2
)

// ValidateDraft validates a new entry at the request boundary. The entry
// store itself accepts any draft.
func ValidateDraft(d EntryDraft) error {
	particulars := strings.TrimSpace(d.Particulars)
	if particulars == "" {
		return ErrParticularsRequired
	}

	if utf8.RuneCountInString(particulars) > MaxParticularsLength {
		return fmt.Errorf("%w: maximum is %d characters", ErrParticularsTooLong, MaxParticularsLength)
	}

	if d.EntryDate.IsZero() {
		return ErrEntryDateRequired
	}

	if d.DrAmount.IsNegative() || d.CrAmount.IsNegative() {
		return ErrNegativeAmount
	}

	if !d.DrAmount.IsZero() && !d.CrAmount.IsZero() {
		return ErrAmbiguousAmounts
	}

	if !fitsScale(d.DrAmount) || !fitsScale(d.CrAmount) {
		return ErrAmountPrecision
	}

	maxAmount := decimal.RequireFromString(MaxAmount)
	if d.DrAmount.GreaterThan(maxAmount) || d.CrAmount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// fitsScale reports whether amount is stored without rounding. Trailing
// zeros, as in 1.500, are fine.
func fitsScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(AmountScale))
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (use %s)", ErrInvalidDate, s, DateLayout)
	}
	return t, nil
}
