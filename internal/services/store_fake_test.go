package service_test

import (
	"context"
	"database/sql"
	"slices"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// memDB is an in-memory repository.Store. Transactions are serialized by
// txMu, which plays the part of the row locks the SQL implementation takes,
// and a failed transaction restores the snapshot taken when it began.
type memDB struct {
	mu   sync.Mutex
	txMu sync.Mutex

	carts    map[uuid.UUID]models.Cart
	items    map[uuid.UUID]models.CartItem
	variants map[uuid.UUID]models.ProductVariant
	orders   map[uuid.UUID]models.Order
	seq      int

	beforeCreateCart  func(userID uuid.UUID)
	beforeLockCart    func(cartID uuid.UUID)
	failMarkConverted error
}

type memSnapshot struct {
	carts    map[uuid.UUID]models.Cart
	items    map[uuid.UUID]models.CartItem
	variants map[uuid.UUID]models.ProductVariant
	orders   map[uuid.UUID]models.Order
}

func newMemDB() *memDB {
	return &memDB{
		carts:    map[uuid.UUID]models.Cart{},
		items:    map[uuid.UUID]models.CartItem{},
		variants: map[uuid.UUID]models.ProductVariant{},
		orders:   map[uuid.UUID]models.Order{},
	}
}

func (db *memDB) store() repository.Store {
	return &memStore{db: db}
}

func (db *memDB) now() time.Time {
	db.seq++
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(db.seq) * time.Millisecond)
}

func (db *memDB) snapshot() memSnapshot {
	db.mu.Lock()
	defer db.mu.Unlock()

	s := memSnapshot{
		carts:    make(map[uuid.UUID]models.Cart, len(db.carts)),
		items:    make(map[uuid.UUID]models.CartItem, len(db.items)),
		variants: make(map[uuid.UUID]models.ProductVariant, len(db.variants)),
		orders:   make(map[uuid.UUID]models.Order, len(db.orders)),
	}

	for k, v := range db.carts {
		s.carts[k] = v
	}

	for k, v := range db.items {
		s.items[k] = v
	}

	for k, v := range db.variants {
		s.variants[k] = v
	}

	for k, v := range db.orders {
		v.Items = slices.Clone(v.Items)
		s.orders[k] = v
	}

	return s
}

func (db *memDB) restore(s memSnapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.carts, db.items, db.variants, db.orders = s.carts, s.items, s.variants, s.orders
}

// test setup helpers

func (db *memDB) addVariant(price int64) models.ProductVariant {
	db.mu.Lock()
	defer db.mu.Unlock()

	v := models.ProductVariant{ID: uuid.New(), ProductID: uuid.New(), Name: "Default", Price: price, Stock: 10}
	db.variants[v.ID] = v

	return v
}

func (db *memDB) setPrice(variantID uuid.UUID, price int64) {
	db.mu.Lock()
	defer db.mu.Unlock()

	v := db.variants[variantID]
	v.Price = price
	db.variants[variantID] = v
}

func (db *memDB) insertCart(userID uuid.UUID, status models.CartStatus) models.Cart {
	db.mu.Lock()
	defer db.mu.Unlock()

	uid := userID
	cart := models.Cart{ID: uuid.New(), UserID: &uid, Status: status, CreatedAt: db.now()}
	db.carts[cart.ID] = cart

	return cart
}

func (db *memDB) insertItem(cartID, variantID uuid.UUID, qty int) models.CartItem {
	db.mu.Lock()
	defer db.mu.Unlock()

	item := models.CartItem{ID: uuid.New(), CartID: cartID, VariantID: variantID, Quantity: qty, CreatedAt: db.now()}
	db.items[item.ID] = item

	return item
}

func (db *memDB) insertOrder(customerID uuid.UUID, status models.OrderStatus) models.Order {
	db.mu.Lock()
	defer db.mu.Unlock()

	order := models.Order{
		ID:            uuid.New(),
		CustomerID:    customerID,
		CartID:        uuid.New(),
		TotalAmount:   1000,
		Currency:      "usd",
		Status:        status,
		PaymentStatus: models.PaymentStatusPaid,
		Items:         []models.OrderItem{{ID: uuid.New(), Quantity: 1, UnitPrice: 1000}},
		CreatedAt:     db.now(),
	}
	db.orders[order.ID] = order

	return order
}

func (db *memDB) activeCarts(userID uuid.UUID) []models.Cart {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []models.Cart

	for _, c := range db.carts {
		if c.UserID != nil && *c.UserID == userID && c.Status == models.CartStatusActive {
			out = append(out, c)
		}
	}

	return out
}

func (db *memDB) cart(id uuid.UUID) models.Cart {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.carts[id]
}

func (db *memDB) itemsOf(cartID uuid.UUID) []models.CartItem {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []models.CartItem

	for _, it := range db.items {
		if it.CartID == cartID {
			out = append(out, it)
		}
	}

	return out
}

func (db *memDB) orderCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()

	return len(db.orders)
}

type memStore struct {
	db   *memDB
	inTx bool
}

func (s *memStore) Carts() repository.CartRepository       { return memCarts{s.db} }
func (s *memStore) Orders() repository.OrderRepository     { return memOrders{s.db} }
func (s *memStore) Variants() repository.VariantRepository { return memVariants{s.db} }

func (s *memStore) WithTx(ctx context.Context, fn func(repository.Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}

	s.db.txMu.Lock()
	defer s.db.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := s.db.snapshot()

	defer func() {
		if p := recover(); p != nil {
			s.db.restore(snap)
			panic(p)
		}
	}()

	if err := fn(&memStore{db: s.db, inTx: true}); err != nil {
		s.db.restore(snap)
		return err
	}

	if err := ctx.Err(); err != nil {
		s.db.restore(snap)
		return err
	}

	return nil
}

type memCarts struct{ db *memDB }

func (r memCarts) findActive(userID uuid.UUID) (models.Cart, bool) {
	for _, c := range r.db.carts {
		if c.UserID != nil && *c.UserID == userID && c.Status == models.CartStatusActive {
			return c, true
		}
	}

	return models.Cart{}, false
}

func (r memCarts) GetActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.findActive(userID)
	if !ok {
		return nil, sql.ErrNoRows
	}

	return &c, nil
}

func (r memCarts) LockActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return r.GetActiveCart(ctx, userID)
}

func (r memCarts) LockCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.db.beforeLockCart != nil {
		r.db.beforeLockCart(cartID)
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.carts[cartID]
	if !ok {
		return nil, sql.ErrNoRows
	}

	return &c, nil
}

func (r memCarts) CreateActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.db.beforeCreateCart != nil {
		r.db.beforeCreateCart(userID)
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, exists := r.findActive(userID); exists {
		return nil, sql.ErrNoRows
	}

	uid := userID
	c := models.Cart{ID: uuid.New(), UserID: &uid, Status: models.CartStatusActive, CreatedAt: r.db.now()}
	c.UpdatedAt = c.CreatedAt
	r.db.carts[c.ID] = c

	return &c, nil
}

func (r memCarts) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	items := []models.CartItem{}

	for _, it := range r.db.items {
		if it.CartID != cartID {
			continue
		}

		if v, ok := r.db.variants[it.VariantID]; ok {
			it.UnitPrice = v.Price
			it.ProductID = v.ProductID
			it.VariantName = v.Name
		}

		items = append(items, it)
	}

	slices.SortFunc(items, func(a, b models.CartItem) int { return a.CreatedAt.Compare(b.CreatedAt) })

	return items, nil
}

func (r memCarts) UpsertItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int) (*models.CartItem, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for id, it := range r.db.items {
		if it.CartID == cartID && it.VariantID == variantID {
			it.Quantity += quantity
			it.UpdatedAt = r.db.now()
			r.db.items[id] = it

			return &it, false, nil
		}
	}

	it := models.CartItem{ID: uuid.New(), CartID: cartID, VariantID: variantID, Quantity: quantity, CreatedAt: r.db.now()}
	it.UpdatedAt = it.CreatedAt
	r.db.items[it.ID] = it

	return &it, true, nil
}

func (r memCarts) LockItem(ctx context.Context, itemID uuid.UUID) (*models.CartItem, *models.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	it, ok := r.db.items[itemID]
	if !ok {
		return nil, nil, sql.ErrNoRows
	}

	c := r.db.carts[it.CartID]

	return &it, &c, nil
}

func (r memCarts) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	it, ok := r.db.items[itemID]
	if !ok {
		return nil, sql.ErrNoRows
	}

	it.Quantity = quantity
	it.UpdatedAt = r.db.now()
	r.db.items[itemID] = it

	return &it, nil
}

func (r memCarts) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.items[itemID]; !ok {
		return sql.ErrNoRows
	}

	delete(r.db.items, itemID)

	return nil
}

func (r memCarts) MarkConverted(ctx context.Context, cartID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if r.db.failMarkConverted != nil {
		return r.db.failMarkConverted
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.carts[cartID]
	if !ok || c.Status != models.CartStatusActive {
		return repository.ErrCartNotActive
	}

	c.Status = models.CartStatusConverted
	r.db.carts[cartID] = c

	return nil
}

type memOrders struct{ db *memDB }

func (r memOrders) CreateOrder(ctx context.Context, order *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, o := range r.db.orders {
		if o.CartID == order.CartID {
			return &pq.Error{Code: "23505", Constraint: "orders_cart_id_key"}
		}
	}

	order.CreatedAt = r.db.now()
	order.UpdatedAt = order.CreatedAt

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		order.Items[i].CreatedAt = order.CreatedAt
	}

	stored := *order
	stored.Items = slices.Clone(order.Items)
	r.db.orders[order.ID] = stored

	return nil
}

func (r memOrders) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	o, ok := r.db.orders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}

	o.Items = slices.Clone(o.Items)

	return &o, nil
}

func (r memOrders) LockOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, err := r.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	o.Items = nil

	return o, nil
}

func (r memOrders) list(filter func(models.Order) bool) []models.Order {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := []models.Order{}

	for _, o := range r.db.orders {
		if filter(o) {
			o.Items = slices.Clone(o.Items)
			out = append(out, o)
		}
	}

	slices.SortFunc(out, func(a, b models.Order) int { return b.CreatedAt.Compare(a.CreatedAt) })

	return out
}

func (r memOrders) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	return r.list(func(o models.Order) bool { return o.CustomerID == customerID }), ctx.Err()
}

func (r memOrders) ListOrders(ctx context.Context) ([]models.Order, error) {
	return r.list(func(models.Order) bool { return true }), ctx.Err()
}

func (r memOrders) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.Lock()

	o, ok := r.db.orders[id]
	if !ok {
		r.db.mu.Unlock()
		return nil, sql.ErrNoRows
	}

	o.Status = status
	o.UpdatedAt = r.db.now()
	r.db.orders[id] = o
	r.db.mu.Unlock()

	return r.GetOrderByID(ctx, id)
}

func (r memOrders) UpdatePaymentStatusByReference(ctx context.Context, reference string, status models.PaymentStatus) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64

	for id, o := range r.db.orders {
		if o.PaymentReference == reference {
			o.PaymentStatus = status
			r.db.orders[id] = o
			n++
		}
	}

	return n, nil
}

type memVariants struct{ db *memDB }

func (r memVariants) GetVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	v, ok := r.db.variants[id]
	if !ok {
		return nil, sql.ErrNoRows
	}

	return &v, nil
}
