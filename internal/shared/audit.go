package shared

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// AuditAction names the mutation recorded in audit_logs.
type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// AuditLog represents a record stored in audit_logs.
type AuditLog struct {
	ID          int64       `json:"id"`
	BusinessID  int64       `json:"businessId"`
	Model       string      `json:"model"`
	RecordID    string      `json:"recordId"`
	Action      AuditAction `json:"action"`
	Changes     any         `json:"changes"`
	PerformedBy int64       `json:"performedBy"`
	PerformedAt time.Time   `json:"performedAt"`
}

// AuditWriter appends audit entries. Implementations must join the caller's transaction.
type AuditWriter interface {
	Record(ctx context.Context, log AuditLog) (AuditLog, error)
}

// AuditLogger writes records into audit_logs through db, which may be a pool or a pgx.Tx.
type AuditLogger struct {
	db DBTX
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(db DBTX) *AuditLogger {
	return &AuditLogger{db: db}
}

// Record persists the log entry. Changes are stored as an opaque JSON snapshot.
func (l *AuditLogger) Record(ctx context.Context, log AuditLog) (AuditLog, error) {
	if l == nil || l.db == nil {
		return AuditLog{}, errors.New("audit logger not initialised")
	}
	if err := validateAudit(log); err != nil {
		return AuditLog{}, err
	}
	changes, err := json.Marshal(log.Changes)
	if err != nil {
		return AuditLog{}, err
	}
	var performedAt *time.Time
	if !log.PerformedAt.IsZero() {
		performedAt = &log.PerformedAt
	}
	err = l.db.QueryRow(ctx, `INSERT INTO audit_logs (business_id, model, record_id, action, changes, performed_by, performed_at)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, 0), COALESCE($7, NOW()))
RETURNING id, performed_at`,
		log.BusinessID, log.Model, log.RecordID, string(log.Action), changes, log.PerformedBy, performedAt,
	).Scan(&log.ID, &log.PerformedAt)
	if err != nil {
		return AuditLog{}, MapDBError(err, ErrBusinessNotFound)
	}
	return log, nil
}

func validateAudit(log AuditLog) error {
	if log.BusinessID == 0 || strings.TrimSpace(log.Model) == "" || strings.TrimSpace(log.RecordID) == "" || log.Action == "" {
		return ErrMissingInput
	}
	return nil
}
