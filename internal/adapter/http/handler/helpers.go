package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iho/daybook/internal/adapter/http/dto"
	"github.com/iho/daybook/internal/domain"
	"github.com/iho/daybook/internal/usecase"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

// writeData writes data in a successful envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dto.OK(data))
}

// writeError writes an error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.Failure(message))
}

// writeDomainError maps err to a status. Server-side failures get a generic
// message and are logged.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := mapDomainError(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg(fallback)
		writeError(w, status, fallback)
		return
	}
	writeError(w, status, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrParticularsRequired),
		errors.Is(err, domain.ErrEntryDateRequired),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrAmbiguousAmounts),
		errors.Is(err, domain.ErrParticularsTooLong),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrAmountPrecision),
		errors.Is(err, domain.ErrInvalidPeriod),
		errors.Is(err, domain.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInconsistentLedger):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// parseDateQuery parses an optional YYYY-MM-DD query parameter.
func parseDateQuery(r *http.Request, key string) (*time.Time, error) {
	val := strings.TrimSpace(r.URL.Query().Get(key))
	if val == "" {
		return nil, nil
	}

	t, err := domain.ParseDate(val)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseDayBookQuery reads period, anchor (alias date), start and end.
// A missing period means today.
func parseDayBookQuery(r *http.Request) (usecase.DayBookQuery, error) {
	var q usecase.DayBookQuery

	kind := r.URL.Query().Get("period")
	if kind == "" {
		kind = string(domain.PeriodToday)
	}
	k, err := domain.ParsePeriodKind(kind)
	if err != nil {
		return q, err
	}
	q.Kind = k

	anchorKey := "anchor"
	if r.URL.Query().Get(anchorKey) == "" {
		anchorKey = "date"
	}
	anchor, err := parseDateQuery(r, anchorKey)
	if err != nil {
		return q, err
	}
	if anchor != nil {
		q.Anchor = *anchor
	}

	if q.CustomStart, err = parseDateQuery(r, "start"); err != nil {
		return q, err
	}
	if q.CustomEnd, err = parseDateQuery(r, "end"); err != nil {
		return q, err
	}

	return q, nil
}
