package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	require.Equal(t, ErrorCode(""), CodeOf(nil))
	require.Equal(t, CodeMissingInput, CodeOf(ErrMissingInput))
	require.Equal(t, CodeProductNotFound, CodeOf(fmt.Errorf("load: %w", ErrProductNotFound)))
	require.Equal(t, CodeSupplierNotFound, CodeOf(errors.New("SupplierNotFound")))
	require.Equal(t, CodeFailedRequest, CodeOf(errors.New("connection reset")))
}

func TestIsNotFound(t *testing.T) {
	for _, err := range []error{ErrNotFound, ErrProductNotFound, ErrSupplierNotFound, ErrBusinessNotFound} {
		require.True(t, IsNotFound(err), err)
	}
	require.False(t, IsNotFound(ErrUnauthorized))
	require.False(t, IsNotFound(nil))
}

func TestMapDBError(t *testing.T) {
	require.NoError(t, MapDBError(nil, nil))
	require.ErrorIs(t, MapDBError(pgx.ErrNoRows, nil), ErrNotFound)
	require.ErrorIs(t, MapDBError(pgx.ErrNoRows, ErrProductNotFound), ErrProductNotFound)

	unique := &pgconn.PgError{Code: "23505", ConstraintName: "products_business_id_sku_key"}
	err := MapDBError(unique, nil)
	require.ErrorIs(t, err, ErrAlreadyExists)
	require.Equal(t, CodeAlreadyExists, CodeOf(err))

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "transactions_product_id_fkey"}
	require.ErrorIs(t, MapDBError(fk, ErrProductNotFound), ErrProductNotFound)

	require.ErrorIs(t, MapDBError(ErrInsufficientStock, nil), ErrInsufficientStock)

	other := MapDBError(errors.New("conn closed"), nil)
	require.ErrorIs(t, other, ErrDatabase)
	require.Equal(t, CodeDatabaseError, CodeOf(other))
}

func TestResultEnvelope(t *testing.T) {
	ok := Ok(42)
	require.NoError(t, ok.Err())
	require.Nil(t, ok.Error)
	require.Equal(t, 42, ok.Value())

	failed := Fail[int](fmt.Errorf("wrapped: %w", ErrUnauthorized))
	require.Nil(t, failed.Data)
	require.ErrorIs(t, failed.Err(), ErrUnauthorized)
	require.Zero(t, failed.Value())

	require.Equal(t, CodeFailedRequest, *Fail[string](nil).Error)
}

func TestPageNormalize(t *testing.T) {
	require.Equal(t, Page{Limit: DefaultPageLimit}, Page{}.Normalize())
	require.Equal(t, Page{Limit: MaxPageLimit, Offset: 0}, Page{Limit: 500, Offset: -3}.Normalize())
	require.Equal(t, Page{Limit: 5, Offset: 10}, Page{Limit: 5, Offset: 10}.Normalize())
}

func TestDefaultRoleScopes(t *testing.T) {
	scopes := DefaultRoleScopes()
	require.ElementsMatch(t, AllScopes(), scopes["OWNER"])
	require.NotContains(t, scopes["MANAGER"], PermPaymentsCreate)
	require.Contains(t, scopes["MANAGER"], PermPaymentsView)
	require.NotContains(t, scopes["STAFF"], PermStatisticsView)
	require.Equal(t, "summary:sync:2024-05-01:lock", SummaryLockKey("2024-05-01"))
}
