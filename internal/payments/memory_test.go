package payments

import (
	"context"
	"sync"
	"time"

	"github.com/stockbook/stockbook/internal/shared"
)

type memoryStore struct {
	mu       sync.Mutex
	accounts map[int64]string
	payments map[int64]Payment
	events   map[string]bool
	audits   []shared.AuditLog
	nextID   int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		accounts: map[int64]string{},
		payments: map[int64]Payment{},
		events:   map[string]bool{},
	}
}

func (m *memoryStore) StripeAccount(ctx context.Context, businessID int64) (string, error) {
	account, ok := m.accounts[businessID]
	if !ok {
		return "", shared.ErrBusinessNotFound
	}
	return account, nil
}

func (m *memoryStore) List(ctx context.Context, businessID int64, page shared.Page) ([]Payment, int, error) {
	out := []Payment{}
	for _, p := range m.payments {
		if p.SenderBusinessID == businessID || p.ReceiverBusinessID == businessID {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (m *memoryStore) WithTx(ctx context.Context, fn func(context.Context, TxStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payments := make(map[int64]Payment, len(m.payments))
	for k, v := range m.payments {
		payments[k] = v
	}
	events := make(map[string]bool, len(m.events))
	for k, v := range m.events {
		events[k] = v
	}
	audits := append([]shared.AuditLog(nil), m.audits...)
	if err := fn(ctx, memoryTx{m}); err != nil {
		m.payments, m.events, m.audits = payments, events, audits
		return err
	}
	return nil
}

type memoryTx struct {
	m *memoryStore
}

func (t memoryTx) Insert(ctx context.Context, p Payment) (Payment, error) {
	t.m.nextID++
	p.ID = t.m.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	t.m.payments[p.ID] = p
	return p, nil
}

func (t memoryTx) MarkProcessed(ctx context.Context, eventID string) error {
	if t.m.events[eventID] {
		return shared.ErrIdempotencyConflict
	}
	t.m.events[eventID] = true
	return nil
}

func (t memoryTx) FindByIntent(ctx context.Context, intentID string) (Payment, error) {
	for _, p := range t.m.payments {
		if p.StripePaymentIntentID == intentID {
			return p, nil
		}
	}
	return Payment{}, shared.ErrNotFound
}

func (t memoryTx) FindByCharge(ctx context.Context, chargeID string) (Payment, error) {
	for _, p := range t.m.payments {
		if p.StripeChargeID == chargeID {
			return p, nil
		}
	}
	return Payment{}, shared.ErrNotFound
}

func (t memoryTx) SetStatus(ctx context.Context, id int64, status Status, chargeID string) (Payment, error) {
	p, ok := t.m.payments[id]
	if !ok {
		return Payment{}, shared.ErrNotFound
	}
	p.Status = status
	if chargeID != "" {
		p.StripeChargeID = chargeID
	}
	p.UpdatedAt = time.Now()
	t.m.payments[id] = p
	return p, nil
}

func (t memoryTx) Audit() shared.AuditWriter {
	return memoryAudit{t.m}
}

type memoryAudit struct {
	m *memoryStore
}

func (a memoryAudit) Record(ctx context.Context, log shared.AuditLog) (shared.AuditLog, error) {
	log.ID = int64(len(a.m.audits) + 1)
	a.m.audits = append(a.m.audits, log)
	return log, nil
}

type fakeIntents struct {
	requests []IntentRequest
	err      error
}

func (f *fakeIntents) CreateIntent(ctx context.Context, req IntentRequest) (Intent, error) {
	if f.err != nil {
		return Intent{}, f.err
	}
	f.requests = append(f.requests, req)
	return Intent{ID: "pi_test_1", ClientSecret: "pi_test_1_secret"}, nil
}
