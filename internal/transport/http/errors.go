package httptransport

import (
	"errors"
	"net/http"

	"roundhouse/internal/app/accounts"
	"roundhouse/internal/app/rounds"

	"github.com/rs/zerolog/log"
)

var statusByCode = map[string]int{
	"validation":         http.StatusBadRequest,
	"state_conflict":     http.StatusConflict,
	"insufficient_funds": http.StatusPaymentRequired,
	"not_found":          http.StatusNotFound,
	"inconsistent_state": http.StatusInternalServerError,
}

func errorCode(err error) string {
	if errors.Is(err, accounts.ErrInvalidRequest) {
		return "validation"
	}
	return rounds.Code(err)
}

// writeServiceError maps an engine or accounts error onto the HTTP error body.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := errorCode(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Str("code", code).Msg("request failed")
	}
	WriteHTTPError(w, status, code)
}
