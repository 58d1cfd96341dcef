package domain

import "errors"

var (
	// Entry errors
	ErrEntryNotFound       = errors.New("ledger entry not found")
	ErrParticularsRequired = errors.New("particulars is required")
	ErrParticularsTooLong  = errors.New("particulars is too long")
	ErrEntryDateRequired   = errors.New("entry_date is required")
	ErrNegativeAmount      = errors.New("amounts must not be negative")
	ErrAmbiguousAmounts    = errors.New("dr_amount and cr_amount cannot both be non-zero")
	ErrAmountTooLarge      = errors.New("amount exceeds maximum allowed")
	ErrAmountPrecision     = errors.New("amounts allow at most 2 decimal places")

	// Ledger errors
	ErrInconsistentLedger = errors.New("ledger running balance is inconsistent")

	// Reporting errors
	ErrInvalidPeriod = errors.New("invalid period")
	ErrInvalidDate   = errors.New("invalid date")
)
