package dto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/iho/daybook/internal/domain"
	"github.com/iho/daybook/internal/usecase"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CreateEntryRequest represents a request to add a ledger entry.
// Missing amounts default to zero.
type CreateEntryRequest struct {
	EntryDate   string          `json:"entry_date"  validate:"required"`
	Particulars string          `json:"particulars" validate:"required,max=500"`
	DrAmount    decimal.Decimal `json:"dr_amount"`
	CrAmount    decimal.Decimal `json:"cr_amount"`
}

// Validate checks the request shape and maps failures onto domain errors.
func (r *CreateEntryRequest) Validate() error {
	r.Particulars = strings.TrimSpace(r.Particulars)

	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	switch fe.Field() {
	case "EntryDate":
		return domain.ErrEntryDateRequired
	case "Particulars":
		if fe.Tag() == "max" {
			return fmt.Errorf("%w: maximum is %d characters", domain.ErrParticularsTooLong, domain.MaxParticularsLength)
		}
		return domain.ErrParticularsRequired
	default:
		return fmt.Errorf("invalid %s: %s", fe.Field(), fe.Tag())
	}
}

// ToUseCaseInput converts to use case input. entry_date accepts a calendar
// date or an RFC 3339 timestamp.
func (r *CreateEntryRequest) ToUseCaseInput() (usecase.CreateEntryInput, error) {
	entryDate, err := ParseEntryDate(r.EntryDate)
	if err != nil {
		return usecase.CreateEntryInput{}, err
	}

	return usecase.CreateEntryInput{
		EntryDate:   entryDate,
		Particulars: r.Particulars,
		DrAmount:    r.DrAmount,
		CrAmount:    r.CrAmount,
	}, nil
}

// ParseEntryDate parses YYYY-MM-DD or RFC 3339.
func ParseEntryDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(s)); err == nil {
		return t, nil
	}
	return domain.ParseDate(s)
}
