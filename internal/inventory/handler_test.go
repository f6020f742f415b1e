package inventory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/stockbook/stockbook/internal/rbac"
	"github.com/stockbook/stockbook/internal/shared"
)

type stubAuthorizer struct {
	actors map[int64]shared.Actor
	grants map[string][]string
}

func (s stubAuthorizer) Actor(ctx context.Context, userID int64) (shared.Actor, error) {
	actor, ok := s.actors[userID]
	if !ok {
		return shared.Actor{}, shared.ErrUnauthorized
	}
	return actor, nil
}

func (s stubAuthorizer) EffectivePermissions(ctx context.Context, role string) ([]string, error) {
	return s.grants[role], nil
}

func newTestRouter(t *testing.T) (http.Handler, *memoryRepo) {
	t.Helper()
	svc, repo := newFixture(t, true)
	gate := rbac.NewGate(stubAuthorizer{
		actors: map[int64]shared.Actor{
			7: owner,
			8: {UserID: 8, BusinessID: businessB, Role: "STAFF"},
		},
		grants: map[string][]string{
			"OWNER": shared.AllScopes(),
			"STAFF": {shared.PermTransactionsView},
		},
	}, nil)
	h := NewHandler(nil, NewActions(svc, gate))
	h.now = func() time.Time { return time.Now() }
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r, repo
}

func withUser(req *http.Request, userID string) *http.Request {
	sess := shared.NewSessionManager(nil, "test_session", time.Hour, false).NewSession()
	if userID != "" {
		sess.SetUser(userID)
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) shared.Result[T] {
	t.Helper()
	var out shared.Result[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHandlerRecordsTransaction(t *testing.T) {
	router, repo := newTestRouter(t)

	body := `{"productId":1,"warehouseItemId":500,"type":"SALE","quantity":3}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(body)), "7")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decodeEnvelope[Recorded](t, rec)
	require.Nil(t, env.Error)
	require.Equal(t, int64(7), env.Value().WarehouseItem.Quantity)
	require.Equal(t, int64(7), repo.item(itemPW).Quantity)
}

func TestHandlerEnvelopeErrors(t *testing.T) {
	cases := []struct {
		name   string
		user   string
		body   string
		status int
		code   shared.ErrorCode
	}{
		{"anonymous", "", `{"productId":1,"warehouseItemId":500,"type":"SALE","quantity":1}`, http.StatusUnauthorized, shared.CodeUnauthorized},
		{"missing capability", "8", `{"productId":1,"warehouseItemId":500,"type":"SALE","quantity":1}`, http.StatusUnauthorized, shared.CodeUnauthorized},
		{"malformed body", "7", `{"productId":`, http.StatusBadRequest, shared.CodeMissingInput},
		{"zero quantity", "7", `{"productId":1,"warehouseItemId":500,"type":"SALE","quantity":0}`, http.StatusBadRequest, shared.CodeMissingInput},
		{"unknown product", "7", `{"productId":99,"warehouseItemId":500,"type":"SALE","quantity":1}`, http.StatusNotFound, shared.CodeProductNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, repo := newTestRouter(t)
			req := withUser(httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(tc.body)), tc.user)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			env := decodeEnvelope[Recorded](t, rec)
			require.Nil(t, env.Data)
			require.NotNil(t, env.Error)
			require.Equal(t, tc.code, *env.Error)
			require.Equal(t, int64(10), repo.item(itemPW).Quantity)
		})
	}
}

func TestHandlerListsTransactionsForViewer(t *testing.T) {
	router, _ := newTestRouter(t)
	for i := 0; i < 2; i++ {
		req := withUser(httptest.NewRequest(http.MethodPost, "/transactions",
			strings.NewReader(`{"productId":1,"warehouseItemId":500,"type":"PURCHASE","quantity":1}`)), "7")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := withUser(httptest.NewRequest(http.MethodGet, "/transactions?type=purchase,sale&limit=1", nil), "8")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decodeEnvelope[shared.Paged[Transaction]](t, rec).Value()
	require.Equal(t, 2, page.Total)
	require.Len(t, page.Rows, 1)

	req = withUser(httptest.NewRequest(http.MethodGet, "/transactions?from=yesterday", nil), "8")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerTodayStatsRequiresStatisticsCapability(t *testing.T) {
	router, _ := newTestRouter(t)

	req := withUser(httptest.NewRequest(http.MethodGet, "/stats/today", nil), "8")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = withUser(httptest.NewRequest(http.MethodGet, "/stats/today", nil), "7")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeEnvelope[Stats](t, rec).Value()
	require.Zero(t, stats.TransactionCount)
}

func TestParseTimeAcceptsDateOnly(t *testing.T) {
	got, err := parseTime("2024-03-09")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), got)

	got, err = parseTime("")
	require.NoError(t, err)
	require.True(t, got.IsZero())
}
