package inventory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdjustQuantitySQLIsRelative(t *testing.T) {
	open := adjustQuantitySQL(true)
	require.Contains(t, open, "SET quantity = wi.quantity + $2")
	require.Contains(t, open, "WHERE wi.id = $1 RETURNING")
	require.NotContains(t, open, ">= 0")

	guarded := adjustQuantitySQL(false)
	require.Contains(t, guarded, "SET quantity = wi.quantity + $2")
	require.Contains(t, guarded, "AND wi.quantity + $2 >= 0 RETURNING")
}

func TestUpsertProductSupplierSQLScopesSupplierToBusiness(t *testing.T) {
	require.Contains(t, upsertProductSupplierSQL, "FROM suppliers s WHERE s.id = $2 AND s.business_id = $4")
	require.Contains(t, upsertProductSupplierSQL, "ON CONFLICT (product_id, supplier_id)")
}
