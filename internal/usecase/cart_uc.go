package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pbfreitas/camisetaria/internal/domain"
)

// CartUC mantém o único pedido Em andamento de cada usuário. O estoque é
// apenas validado na adição; o débito acontece na finalização, que revalida
// tudo dentro de uma transação.
type CartUC struct {
	Orders   domain.OrderRepo
	Products domain.ProductRepo
}

type CartSummary struct {
	OrderID   uuid.UUID       `json:"pedido_id"`
	Total     decimal.Decimal `json:"valor_total"`
	ItemCount int             `json:"quantidade_total"`
}

type CartLine struct {
	ItemID    uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"produto_id"`
	Name      string          `json:"nome"`
	Price     decimal.Decimal `json:"preco"`
	Quantity  int             `json:"quantidade"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ImageURL  string          `json:"imagem"`
}

type CartView struct {
	Lines []CartLine      `json:"itens_carrinho"`
	Total decimal.Decimal `json:"total_geral"`
	Count int             `json:"total_itens"`
}

type FinalizeResult struct {
	OrderID      uuid.UUID       `json:"pedido_id"`
	Total        decimal.Decimal `json:"valor_total"`
	ShippingCost decimal.Decimal `json:"valor_frete"`
}

func (uc *CartUC) AddItem(ctx context.Context, userID, productID uuid.UUID, qty int) (*CartSummary, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrNotAuthenticated
	}
	if qty <= 0 {
		return nil, errors.New("quantidade deve ser maior que zero")
	}

	p, err := uc.Products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	order, err := uc.Orders.OpenByUser(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		order = &domain.Order{ID: uuid.New(), UserID: userID, Status: domain.OrderStatusOpen, Total: decimal.Zero}
		if err := uc.Orders.Create(ctx, order); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	items, err := uc.Orders.ListItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	var line *domain.OrderItem
	for i := range items {
		if items[i].ProductID == productID {
			line = &items[i]
			break
		}
	}

	newQty := qty
	if line != nil {
		newQty = line.Quantity + qty
	}
	// valida a quantidade acumulada, não apenas o incremento
	if p.Stock < newQty {
		return nil, &domain.InsufficientStockError{ProductID: p.ID, ProductName: p.Name, Available: p.Stock}
	}

	subtotal := p.Price.Mul(decimal.NewFromInt(int64(newQty)))
	if line == nil {
		line = &domain.OrderItem{ID: uuid.New(), OrderID: order.ID, ProductID: p.ID}
	}
	line.Quantity = newQty
	line.Subtotal = subtotal
	if err := uc.Orders.SaveItem(ctx, line); err != nil {
		return nil, err
	}

	return uc.refreshTotal(ctx, order)
}

func (uc *CartUC) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartSummary, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrNotAuthenticated
	}
	item, err := uc.Orders.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	order, err := uc.Orders.FindByID(ctx, item.OrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID || order.Status != domain.OrderStatusOpen {
		return nil, domain.ErrForbidden
	}
	if err := uc.Orders.DeleteItem(ctx, itemID); err != nil {
		return nil, err
	}
	return uc.refreshTotal(ctx, order)
}

func (uc *CartUC) Finalize(ctx context.Context, userID uuid.UUID, address string, shipping decimal.Decimal, cep string) (*FinalizeResult, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrNotAuthenticated
	}
	order, err := uc.Orders.OpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := uc.Orders.ListItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	// adições concorrentes podem ter passado na validação e deixado o
	// carrinho acima do estoque atual; o repo revalida de novo na transação
	for _, it := range items {
		p, err := uc.Products.FindByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p.Stock < it.Quantity {
			return nil, &domain.InsufficientStockError{ProductID: p.ID, ProductName: p.Name, Available: p.Stock}
		}
	}
	if err := uc.Orders.Finalize(ctx, order.ID, address, shipping, cep); err != nil {
		return nil, err
	}
	return &FinalizeResult{OrderID: order.ID, Total: order.Total, ShippingCost: shipping}, nil
}

func (uc *CartUC) Cancel(ctx context.Context, userID, orderID uuid.UUID) error {
	if userID == uuid.Nil {
		return domain.ErrNotAuthenticated
	}
	order, err := uc.Orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.UserID != userID || !order.Status.Cancellable() {
		return domain.ErrNotFound
	}
	return uc.Orders.Cancel(ctx, order.ID)
}

// View monta o carrinho atual para o frontend. Usuário sem pedido aberto
// recebe um carrinho vazio, não um erro.
func (uc *CartUC) View(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	view := &CartView{Lines: []CartLine{}, Total: decimal.Zero}
	order, err := uc.Orders.OpenByUser(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return view, nil
	}
	if err != nil {
		return nil, err
	}
	items, err := uc.Orders.ListItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		p, err := uc.Products.FindByID(ctx, it.ProductID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		view.Lines = append(view.Lines, CartLine{
			ItemID:    it.ID,
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal,
			ImageURL:  p.ImageURL,
		})
		view.Total = view.Total.Add(it.Subtotal)
		view.Count += it.Quantity
	}
	return view, nil
}

func (uc *CartUC) refreshTotal(ctx context.Context, order *domain.Order) (*CartSummary, error) {
	items, err := uc.Orders.ListItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	count := 0
	for _, it := range items {
		total = total.Add(it.Subtotal)
		count += it.Quantity
	}
	order.Total = total
	if err := uc.Orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return &CartSummary{OrderID: order.ID, Total: total, ItemCount: count}, nil
}
