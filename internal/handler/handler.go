package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"luxe-backoffice/internal/model"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

var statusByCode = map[string]int{
	model.ErrCodeInvalidJSON:  http.StatusBadRequest,
	model.ErrCodeValidation:   http.StatusBadRequest,
	model.ErrCodeInvalidQuery: http.StatusBadRequest,
	model.ErrCodeNotFound:     http.StatusNotFound,
	model.ErrCodeConflict:     http.StatusConflict,
	model.ErrCodeUnauthorised: http.StatusUnauthorized,
	model.ErrCodeForbidden:    http.StatusForbidden,
	model.ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError maps err onto a status code and the standard error body.
// Errors outside the domain taxonomy are logged and reported as 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	reqID := chimw.GetReqID(r.Context())

	de, ok := model.AsDomainError(err)
	status, known := http.StatusInternalServerError, false
	if ok {
		status, known = statusByCode[de.Code]
	}
	if !known {
		logger.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", reqID).
			Msg("handler error")
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:         model.ErrCodeInternalError,
			Message:       "internal server error",
			CorrelationID: reqID,
		})
		return
	}

	logger.Debug().Str("error", de.Error()).Int("status", status).Msg("request rejected")
	writeJSON(w, status, model.ErrorResponse{
		Error:         de.Code,
		Message:       de.Message,
		Fields:        de.Fields,
		CorrelationID: reqID,
	})
}

// readBody reads a bounded request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, model.NewDomainError(model.ErrCodeTooLarge, "request body too large")
		}
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "failed to read request body")
	}
	return body, nil
}

// decodeJSON decodes a JSON object body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	return unmarshalBody(body, dst)
}

func unmarshalBody(body []byte, dst interface{}) error {
	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return model.FieldError(typeErr.Field, "invalid type, expected "+typeErr.Type.String())
		}
		return model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body")
	}
	return nil
}

// parseID reads a positive integer path parameter.
func parseID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, model.NewDomainError(model.ErrCodeNotFound, "not found")
	}
	return id, nil
}

// isPartial reports whether the request is a partial update.
func isPartial(r *http.Request) bool {
	return r.Method == http.MethodPatch
}
