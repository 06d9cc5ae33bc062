package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"trading-journal-go/internal/assets"
	"trading-journal-go/internal/auth"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/repository"
)

// requestError is a malformed request rejected by the handler itself.
type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(message string) error {
	return &requestError{status: http.StatusBadRequest, message: message}
}

func notFound(message string) error {
	return &requestError{status: http.StatusNotFound, message: message}
}

// ErrorBody is the payload of every failed request.
type ErrorBody struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Code    string `json:"code,omitempty"`
	Status  int    `json:"status"`
}

// errorResponse maps err onto a status and body.
func errorResponse(err error) ErrorBody {
	var (
		re *requestError
		ve *journal.ValidationError
		ue *assets.UploadError
		be *repository.BackendError
		me *http.MaxBytesError
	)

	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return ErrorBody{Message: auth.ErrUnauthenticated.Error(), Status: http.StatusUnauthorized}
	case errors.As(err, &me):
		return ErrorBody{Message: err.Error(), Status: http.StatusRequestEntityTooLarge}
	case errors.As(err, &re):
		return ErrorBody{Message: re.message, Status: re.status}
	case errors.As(err, &ve):
		return ErrorBody{Message: ve.Error(), Code: "validation", Status: http.StatusBadRequest}
	case errors.Is(err, repository.ErrNotFound):
		return ErrorBody{Message: err.Error(), Status: http.StatusNotFound}
	case errors.As(err, &ue):
		return ErrorBody{Message: ue.Error(), Code: "upload", Status: http.StatusBadGateway}
	case errors.As(err, &be):
		status := be.Status
		if status < 400 {
			status = http.StatusInternalServerError
		}
		return ErrorBody{Message: be.Message, Details: be.Details, Hint: be.Hint, Code: be.Code, Status: status}
	}
	return ErrorBody{Message: err.Error(), Status: http.StatusInternalServerError}
}

func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := errorResponse(err)
	if body.Status >= http.StatusInternalServerError {
		h.log.Error("Request failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.Int("status", body.Status),
			zap.Error(err),
		)
	}
	h.writeJSON(w, body.Status, struct {
		Error ErrorBody `json:"error"`
	}{body})
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to write response", zap.Error(err))
	}
}
