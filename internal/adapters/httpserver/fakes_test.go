package httpserver

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pbfreitas/camisetaria/internal/domain"
)

// memState é o banco em memória dos testes de handler. Os fakes seguem o
// contrato do adaptador postgres, inclusive o tudo-ou-nada da finalização.
type memState struct {
	products   map[uuid.UUID]domain.Product
	variants   map[uuid.UUID]domain.Variant
	categories map[uuid.UUID]domain.Category
	orders     map[uuid.UUID]domain.Order
	items      map[uuid.UUID]domain.OrderItem
	users      map[uuid.UUID]domain.User
}

func newMemState() *memState {
	return &memState{
		products:   map[uuid.UUID]domain.Product{},
		variants:   map[uuid.UUID]domain.Variant{},
		categories: map[uuid.UUID]domain.Category{},
		orders:     map[uuid.UUID]domain.Order{},
		items:      map[uuid.UUID]domain.OrderItem{},
		users:      map[uuid.UUID]domain.User{},
	}
}

func (st *memState) addProduct(name string, price float64, stock int) domain.Product {
	p := domain.Product{ID: uuid.New(), Name: name, Price: decimal.NewFromFloat(price), Stock: stock}
	st.products[p.ID] = p
	return p
}

func (st *memState) itemsOf(orderID uuid.UUID) []domain.OrderItem {
	var out []domain.OrderItem
	for _, it := range st.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out
}

type memProducts struct{ st *memState }

func (f *memProducts) Save(_ context.Context, p *domain.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.st.products[p.ID] = *p
	return nil
}

func (f *memProducts) FindByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := f.st.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (f *memProducts) List(_ context.Context, flt domain.ProductFilter) ([]domain.Product, int64, error) {
	var out []domain.Product
	for _, p := range f.st.products {
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

func (f *memProducts) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.st.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.st.products, id)
	return nil
}

func (f *memProducts) SaveVariant(_ context.Context, v *domain.Variant) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	f.st.variants[v.ID] = *v
	return nil
}

func (f *memProducts) ListVariants(_ context.Context, productID uuid.UUID) ([]domain.Variant, error) {
	var out []domain.Variant
	for _, v := range f.st.variants {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *memProducts) DeleteVariant(_ context.Context, id uuid.UUID) error {
	delete(f.st.variants, id)
	return nil
}

func (f *memProducts) SaveCategory(_ context.Context, c *domain.Category) error {
	f.st.categories[c.ID] = *c
	return nil
}

func (f *memProducts) FindCategory(_ context.Context, id uuid.UUID) (*domain.Category, error) {
	c, ok := f.st.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := c
	return &cp, nil
}

func (f *memProducts) ListCategories(_ context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range f.st.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *memProducts) DeleteCategory(_ context.Context, id uuid.UUID) error {
	if _, ok := f.st.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.st.categories, id)
	return nil
}

type memOrders struct{ st *memState }

func (f *memOrders) Create(_ context.Context, o *domain.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	f.st.orders[o.ID] = *o
	return nil
}

func (f *memOrders) Save(_ context.Context, o *domain.Order) error {
	if _, ok := f.st.orders[o.ID]; !ok {
		return domain.ErrNotFound
	}
	f.st.orders[o.ID] = *o
	return nil
}

func (f *memOrders) FindByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	o, ok := f.st.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := o
	return &cp, nil
}

func (f *memOrders) OpenByUser(_ context.Context, userID uuid.UUID) (*domain.Order, error) {
	for _, o := range f.st.orders {
		if o.UserID == userID && o.Status == domain.OrderStatusOpen {
			cp := o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *memOrders) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.st.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *memOrders) SaveItem(_ context.Context, it *domain.OrderItem) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	f.st.items[it.ID] = *it
	return nil
}

func (f *memOrders) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	if _, ok := f.st.items[itemID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.st.items, itemID)
	return nil
}

func (f *memOrders) FindItem(_ context.Context, itemID uuid.UUID) (*domain.OrderItem, error) {
	it, ok := f.st.items[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := it
	return &cp, nil
}

func (f *memOrders) ListItems(_ context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	return f.st.itemsOf(orderID), nil
}

func (f *memOrders) Finalize(_ context.Context, orderID uuid.UUID, address string, shipping decimal.Decimal, cep string) error {
	o, ok := f.st.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	if o.Status != domain.OrderStatusOpen {
		return domain.ErrNotFound
	}
	items := f.st.itemsOf(orderID)
	if len(items) == 0 {
		return domain.ErrEmptyCart
	}
	for _, it := range items {
		p, ok := f.st.products[it.ProductID]
		if !ok {
			return domain.ErrNotFound
		}
		if p.Stock < it.Quantity {
			return &domain.InsufficientStockError{ProductID: p.ID, ProductName: p.Name, Available: p.Stock}
		}
	}
	for _, it := range items {
		p := f.st.products[it.ProductID]
		p.Stock -= it.Quantity
		f.st.products[p.ID] = p
	}
	o.Status = domain.OrderStatusFinalized
	o.Address = address
	o.ShippingCost = shipping
	o.DeliveryCEP = cep
	f.st.orders[orderID] = o
	return nil
}

func (f *memOrders) CreateFinalized(_ context.Context, o *domain.Order, items []domain.OrderItem) error {
	if len(items) == 0 {
		return domain.ErrEmptyCart
	}
	need := map[uuid.UUID]int{}
	for _, it := range items {
		need[it.ProductID] += it.Quantity
	}
	for pid, qty := range need {
		p, ok := f.st.products[pid]
		if !ok {
			return domain.ErrNotFound
		}
		if p.Stock < qty {
			return &domain.InsufficientStockError{ProductID: p.ID, ProductName: p.Name, Available: p.Stock}
		}
	}
	o.CreatedAt = time.Now()
	o.Status = domain.OrderStatusFinalized
	f.st.orders[o.ID] = *o
	for _, it := range items {
		f.st.items[it.ID] = it
		p := f.st.products[it.ProductID]
		p.Stock -= it.Quantity
		f.st.products[p.ID] = p
	}
	return nil
}

func (f *memOrders) Cancel(_ context.Context, orderID uuid.UUID) error {
	o, ok := f.st.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	if !o.Status.Cancellable() {
		return domain.ErrNotFound
	}
	for _, it := range f.st.itemsOf(orderID) {
		if p, ok := f.st.products[it.ProductID]; ok {
			p.Stock += it.Quantity
			f.st.products[p.ID] = p
		}
	}
	o.Status = domain.OrderStatusCancelled
	f.st.orders[orderID] = o
	return nil
}

type memUsers struct{ st *memState }

func (f *memUsers) Save(_ context.Context, u *domain.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.st.users[u.ID] = *u
	return nil
}

func (f *memUsers) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := f.st.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (f *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.st.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}
