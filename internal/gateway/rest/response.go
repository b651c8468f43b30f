package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/matyusmilan/xm-forex/pkg/logger"
)

// errorResponse is the JSON body returned for every failed request.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// statusForCode maps venue error codes to HTTP status codes. Codes the
// gateway does not recognize are treated as internal failures.
func statusForCode(code string) int {
	switch errors.ErrorCode(code) {
	case errors.InvalidOrder, errors.GeneralBadRequestError:
		return http.StatusBadRequest
	case errors.OrderNotFound, errors.QuoteUnavailable, errors.GeneralNotFoundError:
		return http.StatusNotFound
	case errors.InvalidOrderState:
		return http.StatusConflict
	case errors.VenueClosed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, log logger.Interface, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.ErrorContext(ctx, errors.TracerFromError(err))
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, log logger.Interface, err error) {
	details := errors.GetErrorDetails(err)
	if details == nil {
		details = errors.NewErrorDetails("internal server error", string(errors.GeneralInternalServerError), "")
	}

	status := statusForCode(details.Code)
	if status >= http.StatusInternalServerError {
		log.ErrorContext(ctx, err)
	}

	writeJSON(ctx, w, log, status, errorResponse{
		Code:    details.Code,
		Message: details.Message,
		Field:   details.Field,
	})
}
