package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pbfreitas/camisetaria/internal/domain"
)

// memStore guarda o estado compartilhado pelos fakes dos três repositórios.
// Os fakes reproduzem a semântica tudo-ou-nada do adaptador postgres.
type memStore struct {
	products   map[uuid.UUID]domain.Product
	variants   map[uuid.UUID]domain.Variant
	categories map[uuid.UUID]domain.Category
	orders     map[uuid.UUID]domain.Order
	items      map[uuid.UUID]domain.OrderItem
	users      map[uuid.UUID]domain.User
}

func newMemStore() *memStore {
	return &memStore{
		products:   map[uuid.UUID]domain.Product{},
		variants:   map[uuid.UUID]domain.Variant{},
		categories: map[uuid.UUID]domain.Category{},
		orders:     map[uuid.UUID]domain.Order{},
		items:      map[uuid.UUID]domain.OrderItem{},
		users:      map[uuid.UUID]domain.User{},
	}
}

func (m *memStore) addProduct(name string, price float64, stock int) domain.Product {
	p := domain.Product{ID: uuid.New(), Name: name, Price: decimal.NewFromFloat(price), Stock: stock}
	m.products[p.ID] = p
	return p
}

func (m *memStore) itemsOf(orderID uuid.UUID) []domain.OrderItem {
	var out []domain.OrderItem
	for _, it := range m.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out
}

// --- domain.ProductRepo ---

type fakeProducts struct{ s *memStore }

func (f *fakeProducts) Save(_ context.Context, p *domain.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.s.products[p.ID] = *p
	return nil
}

func (f *fakeProducts) FindByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := f.s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (f *fakeProducts) List(_ context.Context, flt domain.ProductFilter) ([]domain.Product, int64, error) {
	var out []domain.Product
	for _, p := range f.s.products {
		if flt.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *flt.CategoryID) {
			continue
		}
		if flt.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(flt.Query)) {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProducts) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.s.products, id)
	for vid, v := range f.s.variants {
		if v.ProductID == id {
			delete(f.s.variants, vid)
		}
	}
	return nil
}

func (f *fakeProducts) SaveVariant(_ context.Context, v *domain.Variant) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	f.s.variants[v.ID] = *v
	return nil
}

func (f *fakeProducts) ListVariants(_ context.Context, productID uuid.UUID) ([]domain.Variant, error) {
	var out []domain.Variant
	for _, v := range f.s.variants {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeProducts) DeleteVariant(_ context.Context, id uuid.UUID) error {
	delete(f.s.variants, id)
	return nil
}

func (f *fakeProducts) SaveCategory(_ context.Context, c *domain.Category) error {
	f.s.categories[c.ID] = *c
	return nil
}

func (f *fakeProducts) FindCategory(_ context.Context, id uuid.UUID) (*domain.Category, error) {
	c, ok := f.s.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := c
	return &cp, nil
}

func (f *fakeProducts) ListCategories(_ context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range f.s.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeProducts) DeleteCategory(_ context.Context, id uuid.UUID) error {
	if _, ok := f.s.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.s.categories, id)
	return nil
}

// --- domain.OrderRepo ---

type fakeOrders struct{ s *memStore }

func (f *fakeOrders) Create(_ context.Context, o *domain.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	f.s.orders[o.ID] = *o
	return nil
}

func (f *fakeOrders) Save(_ context.Context, o *domain.Order) error {
	if _, ok := f.s.orders[o.ID]; !ok {
		return domain.ErrNotFound
	}
	f.s.orders[o.ID] = *o
	return nil
}

func (f *fakeOrders) FindByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	o, ok := f.s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := o
	return &cp, nil
}

func (f *fakeOrders) OpenByUser(_ context.Context, userID uuid.UUID) (*domain.Order, error) {
	for _, o := range f.s.orders {
		if o.UserID == userID && o.Status == domain.OrderStatusOpen {
			cp := o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeOrders) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) SaveItem(_ context.Context, it *domain.OrderItem) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	f.s.items[it.ID] = *it
	return nil
}

func (f *fakeOrders) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	if _, ok := f.s.items[itemID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.s.items, itemID)
	return nil
}

func (f *fakeOrders) FindItem(_ context.Context, itemID uuid.UUID) (*domain.OrderItem, error) {
	it, ok := f.s.items[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := it
	return &cp, nil
}

func (f *fakeOrders) ListItems(_ context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	return f.s.itemsOf(orderID), nil
}

func (f *fakeOrders) Finalize(_ context.Context, orderID uuid.UUID, address string, shipping decimal.Decimal, cep string) error {
	o, ok := f.s.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	if o.Status != domain.OrderStatusOpen {
		return domain.ErrNotFound
	}
	items := f.s.itemsOf(orderID)
	if len(items) == 0 {
		return domain.ErrEmptyCart
	}
	// valida tudo antes de mexer em qualquer estoque
	for _, it := range items {
		p, ok := f.s.products[it.ProductID]
		if !ok {
			return domain.ErrNotFound
		}
		if p.Stock < it.Quantity {
			return &domain.InsufficientStockError{ProductID: p.ID, ProductName: p.Name, Available: p.Stock}
		}
	}
	for _, it := range items {
		p := f.s.products[it.ProductID]
		p.Stock -= it.Quantity
		f.s.products[p.ID] = p
	}
	o.Status = domain.OrderStatusFinalized
	o.Address = address
	o.ShippingCost = shipping
	o.DeliveryCEP = cep
	f.s.orders[orderID] = o
	return nil
}

func (f *fakeOrders) CreateFinalized(_ context.Context, o *domain.Order, items []domain.OrderItem) error {
	if len(items) == 0 {
		return domain.ErrEmptyCart
	}
	need := map[uuid.UUID]int{}
	for _, it := range items {
		need[it.ProductID] += it.Quantity
	}
	for pid, qty := range need {
		p, ok := f.s.products[pid]
		if !ok {
			return domain.ErrNotFound
		}
		if p.Stock < qty {
			return &domain.InsufficientStockError{ProductID: p.ID, ProductName: p.Name, Available: p.Stock}
		}
	}
	o.CreatedAt = time.Now()
	o.Status = domain.OrderStatusFinalized
	f.s.orders[o.ID] = *o
	for _, it := range items {
		f.s.items[it.ID] = it
		p := f.s.products[it.ProductID]
		p.Stock -= it.Quantity
		f.s.products[p.ID] = p
	}
	return nil
}

func (f *fakeOrders) Cancel(_ context.Context, orderID uuid.UUID) error {
	o, ok := f.s.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	if !o.Status.Cancellable() {
		return domain.ErrNotFound
	}
	for _, it := range f.s.itemsOf(orderID) {
		if p, ok := f.s.products[it.ProductID]; ok {
			p.Stock += it.Quantity
			f.s.products[p.ID] = p
		}
	}
	o.Status = domain.OrderStatusCancelled
	f.s.orders[orderID] = o
	return nil
}

// --- domain.UserRepo ---

type fakeUsers struct{ s *memStore }

func (f *fakeUsers) Save(_ context.Context, u *domain.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.s.users[u.ID] = *u
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := f.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.s.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}
