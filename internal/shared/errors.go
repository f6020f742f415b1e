package shared

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorCode is the flat error vocabulary surfaced in result envelopes.
type ErrorCode string

const (
	CodeMissingInput                      ErrorCode = "MissingInput"
	CodeUnauthorized                      ErrorCode = "Unauthorized"
	CodeNotFound                          ErrorCode = "NotFound"
	CodeProductNotFound                   ErrorCode = "ProductNotFound"
	CodeSupplierNotFound                  ErrorCode = "SupplierNotFound"
	CodeBusinessNotFound                  ErrorCode = "BusinessNotFound"
	CodeFailedRequest                     ErrorCode = "FailedRequest"
	CodeDatabaseError                     ErrorCode = "DatabaseError"
	CodeAlreadyExists                     ErrorCode = "AlreadyExists"
	CodeInsufficientStock                 ErrorCode = "InsufficientStock"
	CodeStripeAccountNotConnected         ErrorCode = "StripeAccountNotConnected"
	CodeReceiverStripeAccountNotConnected ErrorCode = "ReceiverStripeAccountNotConnected"
)

// Error implements error so codes can be returned and matched with errors.Is.
func (c ErrorCode) Error() string {
	return string(c)
}

var knownCodes = map[string]ErrorCode{}

func init() {
	for _, c := range []ErrorCode{
		CodeMissingInput, CodeUnauthorized, CodeNotFound, CodeProductNotFound,
		CodeSupplierNotFound, CodeBusinessNotFound, CodeFailedRequest, CodeDatabaseError,
		CodeAlreadyExists, CodeInsufficientStock, CodeStripeAccountNotConnected,
		CodeReceiverStripeAccountNotConnected,
	} {
		knownCodes[string(c)] = c
	}
}

var (
	ErrMissingInput                      error = CodeMissingInput
	ErrUnauthorized                      error = CodeUnauthorized
	ErrNotFound                          error = CodeNotFound
	ErrProductNotFound                   error = CodeProductNotFound
	ErrSupplierNotFound                  error = CodeSupplierNotFound
	ErrBusinessNotFound                  error = CodeBusinessNotFound
	ErrFailedRequest                     error = CodeFailedRequest
	ErrDatabase                          error = CodeDatabaseError
	ErrAlreadyExists                     error = CodeAlreadyExists
	ErrInsufficientStock                 error = CodeInsufficientStock
	ErrStripeAccountNotConnected         error = CodeStripeAccountNotConnected
	ErrReceiverStripeAccountNotConnected error = CodeReceiverStripeAccountNotConnected

	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// CodeOf resolves the error code carried by err. Errors whose message equals a
// known code string map to that code; anything else is a FailedRequest.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var code ErrorCode
	if errors.As(err, &code) {
		return code
	}
	if c, ok := knownCodes[err.Error()]; ok {
		return c
	}
	return CodeFailedRequest
}

// IsNotFound reports whether err carries any of the not-found codes.
func IsNotFound(err error) bool {
	switch CodeOf(err) {
	case CodeNotFound, CodeProductNotFound, CodeSupplierNotFound, CodeBusinessNotFound:
		return true
	}
	return false
}

// MapDBError converts driver errors into coded errors at the data-access boundary.
func MapDBError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound == nil {
		notFound = ErrNotFound
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", ErrAlreadyExists, pgErr.ConstraintName)
		case "23503":
			return fmt.Errorf("%w: %s", notFound, pgErr.ConstraintName)
		}
	}
	var code ErrorCode
	if errors.As(err, &code) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrDatabase, err)
}
