package summary

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/stockbook/stockbook/internal/platform/httpx"
	"github.com/stockbook/stockbook/internal/shared"
)

// CronHandler triggers SyncAll for external schedulers authenticated with a bearer secret.
type CronHandler struct {
	syncer *Syncer
	secret string
	logger *slog.Logger
	now    func() time.Time
}

// NewCronHandler builds the handler. An empty secret rejects every request.
func NewCronHandler(syncer *Syncer, secret string, logger *slog.Logger) *CronHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CronHandler{syncer: syncer, secret: secret, logger: logger, now: time.Now}
}

func (h *CronHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	day := h.now()
	if raw := r.URL.Query().Get("day"); raw != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, raw, day.Location())
		if err != nil {
			httpx.RespondError(w, shared.ErrMissingInput)
			return
		}
		day = parsed
	}
	report, err := h.syncer.SyncAll(r.Context(), day)
	switch {
	case err == nil:
		httpx.Result(w, shared.Ok(report))
	case errors.Is(err, ErrSyncInProgress):
		httpx.JSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		h.logger.Error("cron summary sync", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func (h *CronHandler) authorized(r *http.Request) bool {
	if h.secret == "" {
		return false
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) == 1
}
