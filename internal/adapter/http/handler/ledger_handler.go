package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/daybook/internal/adapter/http/dto"
	"github.com/iho/daybook/internal/domain"
	"github.com/iho/daybook/internal/usecase"
)

// LedgerService is the ledger use case as seen by HTTP.
type LedgerService interface {
	ListEntries(ctx context.Context) ([]*domain.LedgerEntry, error)
	CreateEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.LedgerEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	Totals(ctx context.Context) (domain.LedgerTotals, error)
	BalanceAsOf(ctx context.Context, date time.Time) (domain.BalanceResult, error)
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
}

// LedgerHandler handles ledger entry requests.
type LedgerHandler struct {
	ledger LedgerService
	now    func() time.Time
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledger LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, now: time.Now}
}

// List handles GET /ledger.
func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledger.ListEntries(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "failed to list entries")
		return
	}

	writeData(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Summary handles GET /ledger/summary.
func (h *LedgerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	totals, err := h.ledger.Totals(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "failed to load ledger summary")
		return
	}

	writeData(w, http.StatusOK, dto.TotalsFromDomain(totals))
}

// Create handles POST /ledger.
func (h *LedgerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.ledger.CreateEntry(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, err, "failed to create entry")
		return
	}

	writeData(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Delete handles DELETE /ledger/{id}.
func (h *LedgerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.ledger.DeleteEntry(r.Context(), id); err != nil {
		writeDomainError(w, r, err, "failed to delete entry")
		return
	}

	writeJSON(w, http.StatusOK, dto.Envelope{Success: true, Message: "entry deleted"})
}

// Balance handles GET /ledger/balance?date=YYYY-MM-DD. Without a date the
// current day is used.
func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateQuery(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// stored entry dates are UTC calendar days
	on := h.now().UTC()
	if date != nil {
		on = *date
	}

	balance, err := h.ledger.BalanceAsOf(r.Context(), on)
	if err != nil {
		writeDomainError(w, r, err, "failed to compute balance")
		return
	}

	writeData(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

// CheckConsistency handles GET /ledger/consistency. An inconsistent ledger
// is reported with 409.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledger.CheckConsistency(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "failed to check consistency")
		return
	}

	status := http.StatusOK
	if !report.Consistent {
		status = http.StatusConflict
	}

	writeJSON(w, status, dto.Envelope{
		Success: report.Consistent,
		Data:    dto.ConsistencyFromReport(report),
	})
}
