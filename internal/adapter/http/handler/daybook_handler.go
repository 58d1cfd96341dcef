package handler

import (
	"context"
	"net/http"

	"github.com/iho/daybook/internal/adapter/http/dto"
	"github.com/iho/daybook/internal/domain"
	"github.com/iho/daybook/internal/usecase"
)

// DayBookService builds day books.
type DayBookService interface {
	Build(ctx context.Context, q usecase.DayBookQuery) (domain.DayBook, error)
}

// ReportService builds period summaries.
type ReportService interface {
	Summary(ctx context.Context, q usecase.DayBookQuery) (domain.PeriodSummary, error)
}

// ReportHandler serves the day book and the summary report.
type ReportHandler struct {
	daybook DayBookService
	reports ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(daybook DayBookService, reports ReportService) *ReportHandler {
	return &ReportHandler{daybook: daybook, reports: reports}
}

// DayBook handles GET /daybook?period=&anchor=&start=&end=.
// A custom period without both bounds is not filtered.
func (h *ReportHandler) DayBook(w http.ResponseWriter, r *http.Request) {
	q, err := parseDayBookQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	book, err := h.daybook.Build(r.Context(), q)
	if err != nil {
		writeDomainError(w, r, err, "failed to build day book")
		return
	}

	writeData(w, http.StatusOK, dto.DayBookFromDomain(book))
}

// Summary handles GET /reports/summary?date=&period=&start=&end=.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	q, err := parseDayBookQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.reports.Summary(r.Context(), q)
	if err != nil {
		writeDomainError(w, r, err, "failed to build summary")
		return
	}

	writeData(w, http.StatusOK, dto.SummaryFromDomain(summary))
}
