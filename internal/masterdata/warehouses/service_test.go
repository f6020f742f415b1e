package warehouses

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/stockbook/stockbook/internal/masterdata/shared"
	"github.com/stockbook/stockbook/internal/rbac"
	internalShared "github.com/stockbook/stockbook/internal/shared"
)

type memoryRepo struct {
	rows   map[int64]Warehouse
	stock  map[int64][]StockLine
	audits []internalShared.AuditAction
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[int64]Warehouse{}, stock: map[int64][]StockLine{}}
}

func (m *memoryRepo) List(ctx context.Context, filters shared.ListFilters) ([]Warehouse, int, error) {
	out := []Warehouse{}
	for _, w := range m.rows {
		if w.BusinessID == filters.BusinessID {
			out = append(out, w)
		}
	}
	return out, len(out), nil
}

func (m *memoryRepo) Get(ctx context.Context, businessID, id int64) (Warehouse, error) {
	w, ok := m.rows[id]
	if !ok || w.BusinessID != businessID {
		return Warehouse{}, internalShared.ErrNotFound
	}
	return w, nil
}

func (m *memoryRepo) Stock(ctx context.Context, businessID, id int64) ([]StockLine, error) {
	return m.stock[id], nil
}

func (m *memoryRepo) Create(ctx context.Context, actor internalShared.Actor, form WarehouseForm) (Warehouse, error) {
	m.nextID++
	w := Warehouse{ID: m.nextID, BusinessID: actor.BusinessID, Name: form.Name, Location: form.Location}
	m.rows[w.ID] = w
	m.audits = append(m.audits, internalShared.AuditCreate)
	return w, nil
}

func (m *memoryRepo) Update(ctx context.Context, actor internalShared.Actor, id int64, form WarehouseForm) (Warehouse, error) {
	w, err := m.Get(ctx, actor.BusinessID, id)
	if err != nil {
		return Warehouse{}, err
	}
	w.Name, w.Location = form.Name, form.Location
	m.rows[id] = w
	m.audits = append(m.audits, internalShared.AuditUpdate)
	return w, nil
}

func (m *memoryRepo) Delete(ctx context.Context, actor internalShared.Actor, id int64) (Warehouse, error) {
	w, err := m.Get(ctx, actor.BusinessID, id)
	if err != nil {
		return Warehouse{}, err
	}
	delete(m.rows, id)
	m.audits = append(m.audits, internalShared.AuditDelete)
	return w, nil
}

var owner = internalShared.Actor{UserID: 1, BusinessID: 10, Role: rbac.RoleOwner}

func TestServiceStockChecksOwnership(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	w, err := svc.Create(ctx, owner, WarehouseForm{Name: " Main ", Location: " Dock 3 "})
	require.NoError(t, err)
	require.Equal(t, "Main", w.Name)
	require.Equal(t, "Dock 3", w.Location)
	repo.stock[w.ID] = []StockLine{{WarehouseItemID: 5, ProductID: 1, ProductName: "Bolt", Quantity: 4}}

	lines, err := svc.Stock(ctx, owner, w.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	other := internalShared.Actor{UserID: 3, BusinessID: 20}
	_, err = svc.Stock(ctx, other, w.ID)
	require.ErrorIs(t, err, internalShared.ErrNotFound)

	_, err = svc.Update(ctx, owner, w.ID, WarehouseForm{Name: "  "})
	require.ErrorIs(t, err, internalShared.ErrMissingInput)
	require.Equal(t, []internalShared.AuditAction{internalShared.AuditCreate}, repo.audits)
}

type fakeStore struct{}

func (fakeStore) FindUser(ctx context.Context, id int64) (rbac.User, error) {
	switch id {
	case 1:
		return rbac.User{ID: 1, BusinessID: 10, Role: rbac.RoleOwner}, nil
	case 2:
		return rbac.User{ID: 2, BusinessID: 10, Role: rbac.RoleStaff}, nil
	}
	return rbac.User{}, internalShared.ErrUnauthorized
}

func (fakeStore) RolePermissions(ctx context.Context, role string) ([]string, error) {
	if role == rbac.RoleOwner {
		return internalShared.AllScopes(), nil
	}
	return internalShared.StaffScopes(), nil
}

func (fakeStore) ListPermissions(ctx context.Context) ([]rbac.Permission, error) { return nil, nil }

func (fakeStore) GrantRole(ctx context.Context, role string, perms []string) error { return nil }

func newRouter(repo Repository) http.Handler {
	mw := rbac.Middleware{Service: rbac.NewService(fakeStore{})}
	h := NewHandler(slog.Default(), NewService(repo), mw)
	r := chi.NewRouter()
	r.Route("/api/warehouses", h.MountRoutes)
	return r
}

func request(method, target, body, user string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	sess := internalShared.NewSessionManager(nil, "test_session", time.Hour, false).NewSession()
	if user != "" {
		sess.SetUser(user)
	}
	return req.WithContext(internalShared.ContextWithSession(req.Context(), sess))
}

func TestHandlerCRUDAndStock(t *testing.T) {
	repo := newMemoryRepo()
	router := newRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, request(http.MethodPost, "/api/warehouses", `{"name":"Main","location":"North"}`, "1"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created Warehouse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, int64(10), created.BusinessID)
	repo.stock[created.ID] = []StockLine{{WarehouseItemID: 9, ProductID: 2, ProductName: "Nut", Quantity: -1}}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, request(http.MethodGet, "/api/warehouses/1/stock", "", "2"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var lines []StockLine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lines))
	require.Equal(t, int64(-1), lines[0].Quantity)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, request(http.MethodPut, "/api/warehouses/1", `{"name":"Main 2"}`, "1"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Main 2", repo.rows[1].Name)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, request(http.MethodGet, "/api/warehouses", "", "2"))
	require.Equal(t, http.StatusOK, rec.Code)
	var list listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, request(http.MethodGet, "/api/warehouses/42/stock", "", "1"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `"NotFound"`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, request(http.MethodDelete, "/api/warehouses/1", "", "1"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []internalShared.AuditAction{
		internalShared.AuditCreate, internalShared.AuditUpdate, internalShared.AuditDelete,
	}, repo.audits)
}

func TestHandlerStaffCannotEdit(t *testing.T) {
	repo := newMemoryRepo()
	router := newRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, request(http.MethodPost, "/api/warehouses", `{"name":"Main"}`, "2"))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, repo.rows)
}
