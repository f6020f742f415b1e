package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/stockbook/stockbook/internal/shared"
)

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Result writes an action envelope, deriving the status from its error code.
func Result[T any](w http.ResponseWriter, res shared.Result[T]) {
	status := http.StatusOK
	if res.Error != nil {
		status = StatusFor(*res.Error)
	}
	JSON(w, status, res)
}

// REST writes the bare REST surface: 200 with data on success, 500 with the
// error code as body otherwise.
func REST[T any](w http.ResponseWriter, data T, err error) {
	if err != nil {
		JSON(w, http.StatusInternalServerError, shared.CodeOf(err))
		return
	}
	JSON(w, http.StatusOK, data)
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	if r.Body == nil {
		return shared.ErrMissingInput
	}
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return shared.ErrMissingInput
	}
	return nil
}
