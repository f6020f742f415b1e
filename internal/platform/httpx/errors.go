// Package httpx provides HTTP response utilities.
package httpx

import (
	"net/http"

	"github.com/stockbook/stockbook/internal/shared"
)

// StatusFor maps an error code to the HTTP status used by action endpoints.
func StatusFor(code shared.ErrorCode) int {
	switch code {
	case "":
		return http.StatusOK
	case shared.CodeMissingInput:
		return http.StatusBadRequest
	case shared.CodeUnauthorized:
		return http.StatusUnauthorized
	case shared.CodeNotFound, shared.CodeProductNotFound, shared.CodeSupplierNotFound, shared.CodeBusinessNotFound:
		return http.StatusNotFound
	case shared.CodeAlreadyExists:
		return http.StatusConflict
	case shared.CodeInsufficientStock, shared.CodeStripeAccountNotConnected, shared.CodeReceiverStripeAccountNotConnected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the failure envelope for err.
func RespondError(w http.ResponseWriter, err error) {
	res := shared.Fail[any](err)
	JSON(w, StatusFor(*res.Error), res)
}
