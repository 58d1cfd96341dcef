package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodSummary is what the summary report shows for a date and period.
type PeriodSummary struct {
	Date             time.Time
	Period           *Period
	Opening          decimal.Decimal
	Closing          decimal.Decimal
	TotalDebit       decimal.Decimal
	TotalCredit      decimal.Decimal
	TotalIncome      decimal.Decimal
	TotalExpenditure decimal.Decimal
	NetProfitLoss    decimal.Decimal
	EntryCount       int
}

// NewPeriodSummary assembles a summary from its two halves.
func NewPeriodSummary(balance BalanceResult, book DayBook) PeriodSummary {
	return PeriodSummary{
		Date:             balance.Date,
		Period:           book.Period,
		Opening:          balance.Opening,
		Closing:          balance.Closing,
		TotalDebit:       balance.TotalDebit,
		TotalCredit:      balance.TotalCredit,
		TotalIncome:      book.TotalIncome,
		TotalExpenditure: book.TotalExpenditure,
		NetProfitLoss:    book.NetProfitLoss,
		EntryCount:       balance.EntryCount,
	}
}
