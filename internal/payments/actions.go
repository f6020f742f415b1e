package payments

import (
	"context"

	"github.com/stockbook/stockbook/internal/rbac"
	"github.com/stockbook/stockbook/internal/shared"
)

// Actions are the gated payment operations.
type Actions struct {
	Initiate func(ctx context.Context, in InitiateRequest) shared.Result[Payment]
	List     func(ctx context.Context, in shared.Page) shared.Result[shared.Paged[Payment]]
}

// NewActions wraps service operations with the permission gate.
func NewActions(svc *Service, gate *rbac.Gate) Actions {
	return Actions{
		Initiate: rbac.Guard(gate, shared.PermPaymentsCreate, svc.Initiate),
		List:     rbac.Guard(gate, shared.PermPaymentsView, svc.List),
	}
}
