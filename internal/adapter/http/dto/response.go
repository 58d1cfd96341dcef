package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/daybook/internal/domain"
	"github.com/iho/daybook/internal/usecase"
)

// Envelope wraps every API response.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`
}

// OK wraps data in a successful envelope.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// Failure wraps an error message.
func Failure(message string) Envelope {
	return Envelope{Success: false, Error: message}
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID          string          `json:"id"`
	EntryDate   string          `json:"entry_date"`
	Particulars string          `json:"particulars"`
	DrAmount    decimal.Decimal `json:"dr_amount"`
	CrAmount    decimal.Decimal `json:"cr_amount"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:          e.ID,
		EntryDate:   e.EntryDate.Format(domain.DateLayout),
		Particulars: e.Particulars,
		DrAmount:    e.DrAmount,
		CrAmount:    e.CrAmount,
		Balance:     e.Balance,
		CreatedAt:   e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// TotalsResponse is the ledger-wide summary.
type TotalsResponse struct {
	TotalDr        decimal.Decimal `json:"totalDr"`
	TotalCr        decimal.Decimal `json:"totalCr"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	TotalEntries   int64           `json:"totalEntries"`
}

// TotalsFromDomain converts ledger totals to response.
func TotalsFromDomain(t domain.LedgerTotals) TotalsResponse {
	return TotalsResponse{
		TotalDr:        t.TotalDr,
		TotalCr:        t.TotalCr,
		CurrentBalance: t.CurrentBalance,
		TotalEntries:   t.TotalEntries,
	}
}

// BalanceResponse is the opening/closing position for one day.
type BalanceResponse struct {
	Date        string          `json:"date"`
	Opening     decimal.Decimal `json:"opening"`
	Closing     decimal.Decimal `json:"closing"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	EntryCount  int             `json:"entryCount"`
}

// BalanceFromDomain converts a balance result to response.
func BalanceFromDomain(b domain.BalanceResult) BalanceResponse {
	return BalanceResponse{
		Date:        b.Date.Format(domain.DateLayout),
		Opening:     b.Opening,
		Closing:     b.Closing,
		TotalDebit:  b.TotalDebit,
		TotalCredit: b.TotalCredit,
		EntryCount:  b.EntryCount,
	}
}

// PeriodResponse is a resolved [start, end) interval. Nil means unfiltered.
type PeriodResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

// PeriodFromDomain converts a period to response.
func PeriodFromDomain(p *domain.Period) *PeriodResponse {
	if p == nil {
		return nil
	}
	return &PeriodResponse{
		Start: p.Start.Format(domain.DateLayout),
		End:   p.End.Format(domain.DateLayout),
		Days:  p.Days(),
	}
}

// RecordResponse is one normalized day-book record.
type RecordResponse struct {
	Date     time.Time         `json:"date"`
	Source   string            `json:"source"`
	Kind     string            `json:"kind"`
	Amount   decimal.Decimal   `json:"amount"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// DayBookResponse is the aggregated income/expenditure report.
type DayBookResponse struct {
	Period           *PeriodResponse            `json:"period"`
	TotalIncome      decimal.Decimal            `json:"totalIncome"`
	TotalExpenditure decimal.Decimal            `json:"totalExpenditure"`
	NetProfitLoss    decimal.Decimal            `json:"netProfitLoss"`
	BySource         map[string]decimal.Decimal `json:"bySource"`
	Records          []RecordResponse           `json:"records"`
}

// DayBookFromDomain converts a day book to response.
func DayBookFromDomain(b domain.DayBook) DayBookResponse {
	bySource := make(map[string]decimal.Decimal, len(b.BySource))
	for source, total := range b.BySource {
		bySource[string(source)] = total
	}

	records := make([]RecordResponse, len(b.Records))
	for i, r := range b.Records {
		records[i] = RecordResponse{
			Date:     r.Date,
			Source:   string(r.Source),
			Kind:     string(r.Kind),
			Amount:   r.Amount,
			Metadata: r.Metadata,
		}
	}

	return DayBookResponse{
		Period:           PeriodFromDomain(b.Period),
		TotalIncome:      b.TotalIncome,
		TotalExpenditure: b.TotalExpenditure,
		NetProfitLoss:    b.NetProfitLoss,
		BySource:         bySource,
		Records:          records,
	}
}

// SummaryResponse is the period summary shown to callers.
type SummaryResponse struct {
	Date             string          `json:"date"`
	Period           *PeriodResponse `json:"period"`
	Opening          decimal.Decimal `json:"opening"`
	Closing          decimal.Decimal `json:"closing"`
	TotalDebit       decimal.Decimal `json:"totalDebit"`
	TotalCredit      decimal.Decimal `json:"totalCredit"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenditure decimal.Decimal `json:"totalExpenditure"`
	NetProfitLoss    decimal.Decimal `json:"netProfitLoss"`
	EntryCount       int             `json:"entryCount"`
}

// SummaryFromDomain converts a period summary to response.
func SummaryFromDomain(s domain.PeriodSummary) SummaryResponse {
	return SummaryResponse{
		Date:             s.Date.Format(domain.DateLayout),
		Period:           PeriodFromDomain(s.Period),
		Opening:          s.Opening,
		Closing:          s.Closing,
		TotalDebit:       s.TotalDebit,
		TotalCredit:      s.TotalCredit,
		TotalIncome:      s.TotalIncome,
		TotalExpenditure: s.TotalExpenditure,
		NetProfitLoss:    s.NetProfitLoss,
		EntryCount:       s.EntryCount,
	}
}

// ConsistencyResponse reports the running-balance check.
type ConsistencyResponse struct {
	CheckedAt       time.Time       `json:"checkedAt"`
	Consistent      bool            `json:"consistent"`
	Problem         string          `json:"problem,omitempty"`
	TotalEntries    int             `json:"totalEntries"`
	ExpectedBalance decimal.Decimal `json:"expectedBalance"`
	RecordedBalance decimal.Decimal `json:"recordedBalance"`
}

// ConsistencyFromReport converts a consistency report to response.
func ConsistencyFromReport(r *usecase.ConsistencyReport) ConsistencyResponse {
	return ConsistencyResponse{
		CheckedAt:       r.CheckedAt,
		Consistent:      r.Consistent,
		Problem:         r.Problem,
		TotalEntries:    r.TotalEntries,
		ExpectedBalance: r.ExpectedBalance,
		RecordedBalance: r.RecordedBalance,
	}
}
