package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/stockbook/stockbook/internal/shared"
)

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, int, error)
	SalesTotal(ctx context.Context, businessID int64, from, to time.Time) (decimal.Decimal, error)
	ExpensesTotal(ctx context.Context, businessID int64, from, to time.Time) (decimal.Decimal, error)
	CountTransactions(ctx context.Context, businessID int64, from, to time.Time) (int64, error)
}

// Recorder observes committed ledger writes.
type Recorder interface {
	TransactionRecorded(txType string, mode string)
}

// Service coordinates stock-moving transactions.
type Service struct {
	repo     RepositoryPort
	ledger   StockLedger
	validate *validator.Validate
	recorder Recorder
	logger   *slog.Logger
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	AllowNegativeStock bool
	Recorder           Recorder
	Logger             *slog.Logger
}

// NewService builds Service.
func NewService(repo RepositoryPort, cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		ledger:   NewStockLedger(cfg.AllowNegativeStock),
		validate: validator.New(),
		recorder: cfg.Recorder,
		logger:   logger,
	}
}

// Record inserts the transaction, applies its signed delta to the warehouse
// item and appends the audit entry as one atomic unit. Nothing is written when
// validation fails, and any failure inside the unit rolls every write back.
func (s *Service) Record(ctx context.Context, actor shared.Actor, req TransactionRequest) (Recorded, error) {
	if actor.BusinessID <= 0 || actor.UserID <= 0 {
		return Recorded{}, shared.ErrMissingInput
	}
	if err := s.validate.Struct(req); err != nil {
		return Recorded{}, fmt.Errorf("%w: %v", shared.ErrMissingInput, err)
	}

	var out Recorded
	mode := req.Mode()
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		err := tx.CheckProduct(ctx, actor.BusinessID, req.ProductID)
		if err != nil {
			return err
		}
		if mode == ModeDirect {
			out, err = s.recordDirect(ctx, tx, actor, req)
		} else {
			out, err = s.recordUpsert(ctx, tx, actor, req)
		}
		return err
	})
	if err != nil {
		return Recorded{}, asFailedRequest(err)
	}
	if s.recorder != nil {
		s.recorder.TransactionRecorded(string(req.Type), string(mode))
	}
	s.logger.Debug("inventory transaction recorded",
		slog.Int64("transaction_id", out.Transaction.ID),
		slog.Int64("warehouse_item_id", out.WarehouseItem.ID),
		slog.String("type", string(req.Type)),
		slog.String("mode", string(mode)),
	)
	return out, nil
}

func (s *Service) recordDirect(ctx context.Context, tx TxRepository, actor shared.Actor, req TransactionRequest) (Recorded, error) {
	item, err := tx.GetItem(ctx, actor.BusinessID, req.WarehouseItemID)
	if err != nil {
		return Recorded{}, err
	}
	if item.ProductID != req.ProductID {
		return Recorded{}, fmt.Errorf("inventory: item %d does not hold product %d: %w", item.ID, req.ProductID, shared.ErrNotFound)
	}
	txn, err := tx.InsertTransaction(ctx, newTransaction(actor, req, item))
	if err != nil {
		return Recorded{}, err
	}
	item, err = s.ledger.Adjust(ctx, tx, item.ID, req.Type.SignedDelta(req.Quantity))
	if err != nil {
		return Recorded{}, err
	}
	rec := Recorded{Transaction: txn, WarehouseItem: item, Mode: ModeDirect}
	if err := s.audit(ctx, tx, actor, rec); err != nil {
		return Recorded{}, err
	}
	return rec, nil
}

func (s *Service) recordUpsert(ctx context.Context, tx TxRepository, actor shared.Actor, req TransactionRequest) (Recorded, error) {
	res, err := s.resolveItem(ctx, tx, actor, req)
	if err != nil {
		return Recorded{}, err
	}
	txn, err := tx.InsertTransaction(ctx, newTransaction(actor, req, res.Item))
	if err != nil {
		return Recorded{}, err
	}
	link, err := tx.UpsertProductSupplier(ctx, actor.BusinessID, ProductSupplier{ProductID: req.ProductID, SupplierID: req.SupplierID, Code: req.SupplierCode})
	if err != nil {
		return Recorded{}, err
	}
	rec := Recorded{Transaction: txn, WarehouseItem: res.Item, Mode: ModeUpsert, Outcome: res.Outcome, Supplier: &link}
	if err := s.audit(ctx, tx, actor, rec); err != nil {
		return Recorded{}, err
	}
	return rec, nil
}

// resolveItem looks up the (product, warehouse) item and either adjusts it
// through the ledger or creates it seeded with the signed delta.
func (s *Service) resolveItem(ctx context.Context, tx TxRepository, actor shared.Actor, req TransactionRequest) (Resolution, error) {
	delta := req.Type.SignedDelta(req.Quantity)
	item, found, err := tx.FindItem(ctx, actor.BusinessID, req.ProductID, req.WarehouseID)
	if err != nil {
		return Resolution{}, err
	}
	if found {
		item, err = s.ledger.Adjust(ctx, tx, item.ID, delta)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Outcome: OutcomeUpdated, Item: item}, nil
	}
	seed, err := s.ledger.Seed(delta)
	if err != nil {
		return Resolution{}, err
	}
	return tx.CreateItem(ctx, actor.BusinessID, req.ProductID, req.WarehouseID, seed)
}

type auditChanges struct {
	Transaction   Transaction      `json:"transaction"`
	WarehouseItem WarehouseItem    `json:"warehouseItem"`
	Outcome       UpsertOutcome    `json:"outcome,omitempty"`
	Supplier      *ProductSupplier `json:"productSupplier,omitempty"`
}

func (s *Service) audit(ctx context.Context, tx TxRepository, actor shared.Actor, rec Recorded) error {
	_, err := tx.Audit().Record(ctx, shared.AuditLog{
		BusinessID:  actor.BusinessID,
		Model:       "Transaction",
		RecordID:    strconv.FormatInt(rec.Transaction.ID, 10),
		Action:      shared.AuditCreate,
		Changes:     auditChanges{Transaction: rec.Transaction, WarehouseItem: rec.WarehouseItem, Outcome: rec.Outcome, Supplier: rec.Supplier},
		PerformedBy: actor.UserID,
	})
	return err
}

func newTransaction(actor shared.Actor, req TransactionRequest, item WarehouseItem) Transaction {
	return Transaction{
		BusinessID:      actor.BusinessID,
		ProductID:       req.ProductID,
		WarehouseID:     item.WarehouseID,
		WarehouseItemID: item.ID,
		Type:            req.Type,
		Quantity:        req.Quantity,
		Note:            req.Note,
		Reference:       req.Reference,
		CreatedBy:       actor.UserID,
	}
}

// asFailedRequest keeps domain codes and folds persistence failures into FailedRequest.
func asFailedRequest(err error) error {
	switch shared.CodeOf(err) {
	case shared.CodeDatabaseError, shared.CodeFailedRequest:
		if errors.Is(err, shared.ErrFailedRequest) {
			return err
		}
		return fmt.Errorf("%w: %w", shared.ErrFailedRequest, err)
	default:
		return err
	}
}
