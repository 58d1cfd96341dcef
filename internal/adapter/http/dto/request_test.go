package dto

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/daybook/internal/domain"
)

func TestCreateEntryRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request CreateEntryRequest
		wantErr error
	}{
		{
			name:    "valid",
			request: CreateEntryRequest{EntryDate: "2024-01-01", Particulars: "capital", CrAmount: decimal.NewFromInt(10)},
		},
		{
			name:    "missing particulars",
			request: CreateEntryRequest{EntryDate: "2024-01-01", Particulars: "   "},
			wantErr: domain.ErrParticularsRequired,
		},
		{
			name:    "missing date",
			request: CreateEntryRequest{Particulars: "rent"},
			wantErr: domain.ErrEntryDateRequired,
		},
		{
			name:    "particulars too long",
			request: CreateEntryRequest{EntryDate: "2024-01-01", Particulars: strings.Repeat("x", 501)},
			wantErr: domain.ErrParticularsTooLong,
		},
		{
			name:    "multibyte particulars within limit",
			request: CreateEntryRequest{EntryDate: "2024-01-01", Particulars: strings.Repeat("क", 500)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateEntryRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateEntryRequest{
		EntryDate:   "2024-03-10",
		Particulars: "sale",
		CrAmount:    decimal.RequireFromString("12.34"),
	}

	got, err := req.ToUseCaseInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !got.EntryDate.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected entry date %s", got.EntryDate)
	}
	if !got.CrAmount.Equal(decimal.RequireFromString("12.34")) || !got.DrAmount.IsZero() {
		t.Fatalf("unexpected amounts %+v", got)
	}

	req.EntryDate = "10/03/2024"
	if _, err := req.ToUseCaseInput(); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestParseEntryDate_AcceptsTimestamp(t *testing.T) {
	got, err := ParseEntryDate("2024-03-10T18:30:00+05:45")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Day() != 10 || got.Hour() != 18 {
		t.Fatalf("unexpected time %s", got)
	}
}
