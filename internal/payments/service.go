package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/stockbook/stockbook/internal/shared"
)

// ErrDuplicateEvent reports a processor event that was already applied.
var ErrDuplicateEvent = errors.New("payments: event already processed")

// Service coordinates inter-business payments.
type Service struct {
	store    Store
	intents  IntentCreator
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService builds Service.
func NewService(store Store, intents IntentCreator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, intents: intents, validate: validator.New(), logger: logger}
}

// Initiate creates a processor intent paying the receiver business and stores
// the PENDING payment with its audit entry.
func (s *Service) Initiate(ctx context.Context, actor shared.Actor, req InitiateRequest) (Payment, error) {
	if actor.BusinessID <= 0 || actor.UserID <= 0 {
		return Payment{}, shared.ErrMissingInput
	}
	if err := s.validate.Struct(req); err != nil {
		return Payment{}, fmt.Errorf("%w: %v", shared.ErrMissingInput, err)
	}
	if req.ReceiverBusinessID == actor.BusinessID {
		return Payment{}, shared.ErrMissingInput
	}
	minor := req.Amount.Shift(2)
	if !req.Amount.IsPositive() || !minor.IsInteger() {
		return Payment{}, shared.ErrMissingInput
	}
	currency := strings.ToLower(req.Currency)

	senderAccount, err := s.store.StripeAccount(ctx, actor.BusinessID)
	if err != nil {
		return Payment{}, err
	}
	if senderAccount == "" {
		return Payment{}, shared.ErrStripeAccountNotConnected
	}
	receiverAccount, err := s.store.StripeAccount(ctx, req.ReceiverBusinessID)
	if err != nil {
		return Payment{}, err
	}
	if receiverAccount == "" {
		return Payment{}, shared.ErrReceiverStripeAccountNotConnected
	}

	intent, err := s.intents.CreateIntent(ctx, IntentRequest{
		AmountMinor:        minor.IntPart(),
		Currency:           currency,
		ReceiverAccountID:  receiverAccount,
		SenderBusinessID:   actor.BusinessID,
		ReceiverBusinessID: req.ReceiverBusinessID,
		Description:        req.Description,
		IdempotencyKey:     uuid.NewString(),
	})
	if err != nil {
		s.logger.Error("create payment intent", slog.Int64("business_id", actor.BusinessID), slog.Any("error", err))
		return Payment{}, fmt.Errorf("%w: %w", shared.ErrFailedRequest, err)
	}

	var out Payment
	err = s.store.WithTx(ctx, func(ctx context.Context, tx TxStore) error {
		p, err := tx.Insert(ctx, Payment{
			SenderBusinessID:      actor.BusinessID,
			ReceiverBusinessID:    req.ReceiverBusinessID,
			Amount:                req.Amount,
			Currency:              currency,
			Status:                StatusPending,
			StripePaymentIntentID: intent.ID,
			CreatedBy:             actor.UserID,
		})
		if err != nil {
			return err
		}
		_, err = tx.Audit().Record(ctx, shared.AuditLog{
			BusinessID:  actor.BusinessID,
			Model:       "InterBusinessPayment",
			RecordID:    strconv.FormatInt(p.ID, 10),
			Action:      shared.AuditCreate,
			Changes:     p,
			PerformedBy: actor.UserID,
		})
		out = p
		return err
	})
	if err != nil {
		s.logger.Error("store payment", slog.String("intent_id", intent.ID), slog.Any("error", err))
		return Payment{}, err
	}
	out.ClientSecret = intent.ClientSecret
	return out, nil
}

// List returns one page of payments the actor's business sent or received.
func (s *Service) List(ctx context.Context, actor shared.Actor, page shared.Page) (shared.Paged[Payment], error) {
	page = page.Normalize()
	rows, total, err := s.store.List(ctx, actor.BusinessID, page)
	if err != nil {
		return shared.Paged[Payment]{}, err
	}
	return shared.Paged[Payment]{Rows: rows, Total: total, Page: page}, nil
}

// Apply records a processor status notification. Each event id is applied at
// most once; ErrDuplicateEvent reports a replay. Transitions the payment cannot
// make are acknowledged without change.
func (s *Service) Apply(ctx context.Context, upd StatusUpdate) (Payment, error) {
	if upd.EventID == "" || upd.Status == "" || (upd.IntentID == "" && upd.ChargeID == "") {
		return Payment{}, shared.ErrMissingInput
	}
	var out Payment
	err := s.store.WithTx(ctx, func(ctx context.Context, tx TxStore) error {
		if err := tx.MarkProcessed(ctx, upd.EventID); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				return ErrDuplicateEvent
			}
			return err
		}
		var (
			current Payment
			err     error
		)
		if upd.IntentID != "" {
			current, err = tx.FindByIntent(ctx, upd.IntentID)
		} else {
			current, err = tx.FindByCharge(ctx, upd.ChargeID)
		}
		if err != nil {
			return err
		}
		if !current.Status.CanTransition(upd.Status) {
			s.logger.Info("payment transition skipped",
				slog.Int64("payment_id", current.ID),
				slog.String("from", string(current.Status)),
				slog.String("to", string(upd.Status)),
			)
			out = current
			return nil
		}
		updated, err := tx.SetStatus(ctx, current.ID, upd.Status, upd.ChargeID)
		if err != nil {
			return err
		}
		_, err = tx.Audit().Record(ctx, shared.AuditLog{
			BusinessID: updated.SenderBusinessID,
			Model:      "InterBusinessPayment",
			RecordID:   strconv.FormatInt(updated.ID, 10),
			Action:     shared.AuditUpdate,
			Changes: map[string]any{
				"eventId": upd.EventID,
				"from":    current.Status,
				"payment": updated,
			},
		})
		out = updated
		return err
	})
	return out, err
}
