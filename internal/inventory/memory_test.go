package inventory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockbook/stockbook/internal/shared"
)

// memoryRepo is an in-memory RepositoryPort. WithTx snapshots state and
// restores it when the callback fails, mirroring a database rollback.
type memoryRepo struct {
	mu    sync.Mutex
	state memoryState

	failAdjust error
	failAudit  error
	expenses   decimal.Decimal
}

type memoryState struct {
	products     map[int64]memoryProduct
	warehouses   map[int64]int64
	suppliers    map[int64]int64
	items        map[int64]WarehouseItem
	transactions []Transaction
	links        map[[2]int64]ProductSupplier
	audits       []shared.AuditLog
	nextID       int64
}

type memoryProduct struct {
	businessID int64
	price      decimal.Decimal
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{state: memoryState{
		products:   map[int64]memoryProduct{},
		warehouses: map[int64]int64{},
		suppliers:  map[int64]int64{},
		items:      map[int64]WarehouseItem{},
		links:      map[[2]int64]ProductSupplier{},
		nextID:     1000,
	}}
}

func (s memoryState) clone() memoryState {
	out := s
	out.products = make(map[int64]memoryProduct, len(s.products))
	for k, v := range s.products {
		out.products[k] = v
	}
	out.warehouses = make(map[int64]int64, len(s.warehouses))
	for k, v := range s.warehouses {
		out.warehouses[k] = v
	}
	out.suppliers = make(map[int64]int64, len(s.suppliers))
	for k, v := range s.suppliers {
		out.suppliers[k] = v
	}
	out.items = make(map[int64]WarehouseItem, len(s.items))
	for k, v := range s.items {
		out.items[k] = v
	}
	out.links = make(map[[2]int64]ProductSupplier, len(s.links))
	for k, v := range s.links {
		out.links[k] = v
	}
	out.transactions = append([]Transaction(nil), s.transactions...)
	out.audits = append([]shared.AuditLog(nil), s.audits...)
	return out
}

func (r *memoryRepo) addProduct(id, businessID int64, price string) {
	r.state.products[id] = memoryProduct{businessID: businessID, price: decimal.RequireFromString(price)}
}

func (r *memoryRepo) addItem(id, productID, warehouseID, qty int64) {
	r.state.items[id] = WarehouseItem{ID: id, ProductID: productID, WarehouseID: warehouseID, Quantity: qty}
}

func (r *memoryRepo) item(id int64) WarehouseItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.items[id]
}

func (r *memoryRepo) counts() (txns, audits, links int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.state.transactions), len(r.state.audits), len(r.state.links)
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := r.state.clone()
	if err := fn(ctx, &memoryTx{repo: r}); err != nil {
		r.state = snapshot
		return err
	}
	return nil
}

func (r *memoryRepo) ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []Transaction
	for _, t := range r.state.transactions {
		if t.BusinessID != filter.BusinessID {
			continue
		}
		if len(filter.Types) > 0 && !containsType(filter.Types, t.Type) {
			continue
		}
		if filter.ProductID > 0 && t.ProductID != filter.ProductID {
			continue
		}
		matched = append(matched, t)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	total := len(matched)
	if filter.Offset >= total {
		return []Transaction{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > total {
		end = total
	}
	return matched[filter.Offset:end], total, nil
}

func (r *memoryRepo) SalesTotal(ctx context.Context, businessID int64, from, to time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, t := range r.state.transactions {
		if t.BusinessID != businessID || t.Type != TypeSale || !inWindow(t.CreatedAt, from, to) {
			continue
		}
		total = total.Add(r.state.products[t.ProductID].price.Mul(decimal.NewFromInt(t.Quantity)))
	}
	return total, nil
}

func (r *memoryRepo) ExpensesTotal(ctx context.Context, businessID int64, from, to time.Time) (decimal.Decimal, error) {
	return r.expenses, nil
}

func (r *memoryRepo) CountTransactions(ctx context.Context, businessID int64, from, to time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.state.transactions {
		if t.BusinessID == businessID && inWindow(t.CreatedAt, from, to) {
			n++
		}
	}
	return n, nil
}

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func containsType(types []TransactionType, t TransactionType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

type memoryTx struct {
	repo *memoryRepo
}

func (tx *memoryTx) state() *memoryState {
	return &tx.repo.state
}

func (tx *memoryTx) id() int64 {
	tx.state().nextID++
	return tx.state().nextID
}

func (tx *memoryTx) AdjustQuantity(ctx context.Context, itemID, delta int64, allowNegative bool) (WarehouseItem, error) {
	if tx.repo.failAdjust != nil {
		return WarehouseItem{}, tx.repo.failAdjust
	}
	item, ok := tx.state().items[itemID]
	if !ok {
		return WarehouseItem{}, shared.ErrNotFound
	}
	if !allowNegative && item.Quantity+delta < 0 {
		return WarehouseItem{}, shared.ErrInsufficientStock
	}
	item.Quantity += delta
	item.LastUpdated = time.Now()
	tx.state().items[itemID] = item
	return item, nil
}

func (tx *memoryTx) CheckProduct(ctx context.Context, businessID, productID int64) error {
	p, ok := tx.state().products[productID]
	if !ok || p.businessID != businessID {
		return shared.ErrProductNotFound
	}
	return nil
}

func (tx *memoryTx) GetItem(ctx context.Context, businessID, itemID int64) (WarehouseItem, error) {
	item, ok := tx.state().items[itemID]
	if !ok || tx.state().warehouses[item.WarehouseID] != businessID {
		return WarehouseItem{}, shared.ErrNotFound
	}
	return item, nil
}

func (tx *memoryTx) FindItem(ctx context.Context, businessID, productID, warehouseID int64) (WarehouseItem, bool, error) {
	if tx.state().warehouses[warehouseID] != businessID {
		return WarehouseItem{}, false, nil
	}
	for _, item := range tx.state().items {
		if item.ProductID == productID && item.WarehouseID == warehouseID {
			return item, true, nil
		}
	}
	return WarehouseItem{}, false, nil
}

func (tx *memoryTx) CreateItem(ctx context.Context, businessID, productID, warehouseID, quantity int64) (Resolution, error) {
	if tx.state().warehouses[warehouseID] != businessID {
		return Resolution{}, shared.ErrNotFound
	}
	item := WarehouseItem{ID: tx.id(), ProductID: productID, WarehouseID: warehouseID, Quantity: quantity, LastUpdated: time.Now()}
	tx.state().items[item.ID] = item
	return Resolution{Outcome: OutcomeCreated, Item: item}, nil
}

func (tx *memoryTx) InsertTransaction(ctx context.Context, txn Transaction) (Transaction, error) {
	txn.ID = tx.id()
	txn.CreatedAt = time.Now()
	tx.state().transactions = append(tx.state().transactions, txn)
	return txn, nil
}

func (tx *memoryTx) UpsertProductSupplier(ctx context.Context, businessID int64, link ProductSupplier) (ProductSupplier, error) {
	if owner, ok := tx.state().suppliers[link.SupplierID]; !ok || owner != businessID {
		return ProductSupplier{}, shared.ErrSupplierNotFound
	}
	key := [2]int64{link.ProductID, link.SupplierID}
	if existing, ok := tx.state().links[key]; ok && link.Code == "" {
		link.Code = existing.Code
	}
	tx.state().links[key] = link
	return link, nil
}

func (tx *memoryTx) Audit() shared.AuditWriter {
	return memoryAudit{tx: tx}
}

type memoryAudit struct {
	tx *memoryTx
}

func (a memoryAudit) Record(ctx context.Context, log shared.AuditLog) (shared.AuditLog, error) {
	if a.tx.repo.failAudit != nil {
		return shared.AuditLog{}, a.tx.repo.failAudit
	}
	log.ID = a.tx.id()
	log.PerformedAt = time.Now()
	a.tx.state().audits = append(a.tx.state().audits, log)
	return log, nil
}
