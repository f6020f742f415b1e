package payments

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/stockbook/stockbook/internal/platform/httpx"
	"github.com/stockbook/stockbook/internal/shared"
)

const maxWebhookBody = 64 << 10

// eventStatus maps handled processor event types to payment statuses.
var eventStatus = map[string]Status{
	"payment_intent.succeeded":      StatusSucceeded,
	"payment_intent.payment_failed": StatusFailed,
	"payment_intent.canceled":       StatusCanceled,
	"charge.refunded":               StatusRefunded,
}

// WebhookObserver counts webhook outcomes.
type WebhookObserver interface {
	WebhookHandled(outcome string)
}

// WebhookHandler receives Stripe Connect events.
type WebhookHandler struct {
	service  *Service
	secret   string
	logger   *slog.Logger
	observer WebhookObserver
}

// NewWebhookHandler builds the handler verifying signatures with secret.
func NewWebhookHandler(service *Service, secret string, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookHandler{service: service, secret: secret, logger: logger}
}

// WithObserver attaches an outcome observer and returns the handler.
func (h *WebhookHandler) WithObserver(o WebhookObserver) *WebhookHandler {
	h.observer = o
	return h
}

func (h *WebhookHandler) observe(outcome string) {
	if h.observer != nil {
		h.observer.WebhookHandled(outcome)
	}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return
	}
	event, err := webhook.ConstructEventWithOptions(payload, r.Header.Get("Stripe-Signature"), h.secret,
		webhook.ConstructEventOptions{Tolerance: webhook.DefaultTolerance, IgnoreAPIVersionMismatch: true})
	if err != nil {
		h.logger.Warn("stripe webhook signature rejected", slog.Any("error", err))
		h.observe("rejected")
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid signature"})
		return
	}

	upd, ok, err := statusUpdate(event)
	if err != nil {
		h.logger.Warn("stripe webhook payload", slog.String("event_id", event.ID), slog.Any("error", err))
		h.observe("rejected")
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "malformed event"})
		return
	}
	if !ok {
		h.logger.Info("stripe webhook ignored", slog.String("event_id", event.ID), slog.String("type", string(event.Type)))
		h.observe("ignored")
		httpx.JSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	payment, err := h.service.Apply(r.Context(), upd)
	switch {
	case err == nil:
		h.logger.Info("stripe webhook applied",
			slog.String("event_id", event.ID),
			slog.Int64("payment_id", payment.ID),
			slog.String("status", string(payment.Status)),
		)
		h.observe("applied")
		httpx.JSON(w, http.StatusOK, map[string]bool{"received": true})
	case errors.Is(err, ErrDuplicateEvent):
		h.observe("duplicate")
		httpx.JSON(w, http.StatusOK, map[string]bool{"received": true, "duplicate": true})
	case shared.IsNotFound(err):
		// Unknown intents are acknowledged so the processor stops retrying.
		h.logger.Warn("stripe webhook for unknown payment", slog.String("event_id", event.ID))
		h.observe("unknown")
		httpx.JSON(w, http.StatusOK, map[string]bool{"received": true})
	default:
		h.logger.Error("stripe webhook failed", slog.String("event_id", event.ID), slog.Any("error", err))
		h.observe("failed")
		httpx.JSON(w, http.StatusInternalServerError, map[string]string{"error": string(shared.CodeOf(err))})
	}
}

// statusUpdate extracts the payment reference from a verified event. ok is
// false for event types that do not affect payments.
func statusUpdate(event stripe.Event) (StatusUpdate, bool, error) {
	status, ok := eventStatus[string(event.Type)]
	if !ok {
		return StatusUpdate{}, false, nil
	}
	if event.Data == nil {
		return StatusUpdate{}, false, errors.New("event without data")
	}
	upd := StatusUpdate{EventID: event.ID, Status: status}
	if status == StatusRefunded {
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return StatusUpdate{}, false, err
		}
		upd.ChargeID = charge.ID
		if charge.PaymentIntent != nil {
			upd.IntentID = charge.PaymentIntent.ID
		}
	} else {
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return StatusUpdate{}, false, err
		}
		upd.IntentID = intent.ID
		if intent.LatestCharge != nil {
			upd.ChargeID = intent.LatestCharge.ID
		}
	}
	if upd.IntentID == "" && upd.ChargeID == "" {
		return StatusUpdate{}, false, errors.New("event without payment reference")
	}
	return upd, true, nil
}
