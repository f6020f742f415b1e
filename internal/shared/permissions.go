package shared

// Capabilities checked by the permission gate.
const (
	PermProductsView = "products.view"
	PermProductsEdit = "products.edit"

	PermSuppliersView = "suppliers.view"
	PermSuppliersEdit = "suppliers.edit"

	PermWarehousesView = "warehouses.view"
	PermWarehousesEdit = "warehouses.edit"

	PermSchedulesView = "schedules.view"
	PermSchedulesEdit = "schedules.edit"

	PermTransactionsView   = "transactions.view"
	PermTransactionsCreate = "transactions.create"

	PermStatisticsView = "statistics.view"

	PermPaymentsView   = "payments.view"
	PermPaymentsCreate = "payments.create"
)

// AllScopes lists every capability, used by the seed script for the owner role.
func AllScopes() []string {
	return []string{
		PermProductsView,
		PermProductsEdit,
		PermSuppliersView,
		PermSuppliersEdit,
		PermWarehousesView,
		PermWarehousesEdit,
		PermSchedulesView,
		PermSchedulesEdit,
		PermTransactionsView,
		PermTransactionsCreate,
		PermStatisticsView,
		PermPaymentsView,
		PermPaymentsCreate,
	}
}

// StaffScopes lists the capabilities granted to the staff role by default.
func StaffScopes() []string {
	return []string{
		PermProductsView,
		PermSuppliersView,
		PermWarehousesView,
		PermSchedulesView,
		PermSchedulesEdit,
		PermTransactionsView,
		PermTransactionsCreate,
	}
}

// ManagerScopes lists the manager role defaults: everything except initiating payments.
func ManagerScopes() []string {
	out := make([]string, 0, len(AllScopes()))
	for _, p := range AllScopes() {
		if p != PermPaymentsCreate {
			out = append(out, p)
		}
	}
	return out
}

// DefaultRoleScopes maps each built-in role to its default capabilities.
func DefaultRoleScopes() map[string][]string {
	return map[string][]string{
		"OWNER":   AllScopes(),
		"MANAGER": ManagerScopes(),
		"STAFF":   StaffScopes(),
	}
}
