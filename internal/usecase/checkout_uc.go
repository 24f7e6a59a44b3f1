package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/pbfreitas/camisetaria/internal/domain"
)

// CheckoutUC é o caminho alternativo de compra: o cliente manda o carrinho
// pronto e o pedido nasce finalizado, passando pela mesma finalização
// atômica do CartUC.
type CheckoutUC struct {
	Users    domain.UserRepo
	Products domain.ProductRepo
	Orders   domain.OrderRepo
}

type CheckoutItem struct {
	ProductID uuid.UUID `json:"produto_id"`
	Quantity  int       `json:"quantidade"`
}

type OrderLineView struct {
	Product  string          `json:"produto"`
	Quantity int             `json:"quantidade"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type OrderView struct {
	ID           uuid.UUID          `json:"id"`
	PlacedAt     time.Time          `json:"data_pedido"`
	Status       domain.OrderStatus `json:"status"`
	Total        decimal.Decimal    `json:"valor_total"`
	Address      string             `json:"endereco_entrega"`
	ShippingCost decimal.Decimal    `json:"valor_frete"`
	Items        []OrderLineView    `json:"itens"`
}

// IdentifyUser busca por e-mail e cria o usuário se não existir. A senha
// criada aqui é um placeholder aleatório: a conta só vira login de verdade
// após um cadastro explícito. Idempotente por e-mail.
func (uc *CheckoutUC) IdentifyUser(ctx context.Context, email, name, phone string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("e-mail obrigatório")
	}

	u, err := uc.Users.FindByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if name == "" {
		name = email[:strings.Index(email, "@")]
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u = &domain.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: string(hash),
	}
	if err := uc.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// FinalizeCheckout cria o pedido com os itens enviados e finaliza na mesma
// transação: qualquer produto ausente ou sem estoque desfaz tudo.
func (uc *CheckoutUC) FinalizeCheckout(ctx context.Context, userID uuid.UUID, address string, reqItems []CheckoutItem) (*OrderView, error) {
	user, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(reqItems) == 0 {
		return nil, domain.ErrEmptyCart
	}

	order := &domain.Order{
		ID:      uuid.New(),
		UserID:  user.ID,
		Status:  domain.OrderStatusOpen,
		Address: address,
		Total:   decimal.Zero,
	}

	items := make([]domain.OrderItem, 0, len(reqItems))
	lines := make([]OrderLineView, 0, len(reqItems))
	total := decimal.Zero
	for _, ri := range reqItems {
		if ri.Quantity <= 0 {
			return nil, errors.New("quantidade deve ser maior que zero")
		}
		p, err := uc.Products.FindByID(ctx, ri.ProductID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("produto %s: %w", ri.ProductID, domain.ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
		subtotal := p.Price.Mul(decimal.NewFromInt(int64(ri.Quantity)))
		total = total.Add(subtotal)
		items = append(items, domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: p.ID,
			Quantity:  ri.Quantity,
			Subtotal:  subtotal,
		})
		lines = append(lines, OrderLineView{Product: p.Name, Quantity: ri.Quantity, Subtotal: subtotal})
	}
	order.Total = total

	if err := uc.Orders.CreateFinalized(ctx, order, items); err != nil {
		return nil, err
	}

	return &OrderView{
		ID:       order.ID,
		PlacedAt: order.CreatedAt,
		Status:   domain.OrderStatusFinalized,
		Total:    total,
		Address:  address,
		Items:    lines,
	}, nil
}

// History lista os pedidos do usuário, mais recentes primeiro.
func (uc *CheckoutUC) History(ctx context.Context, userID uuid.UUID) ([]OrderView, error) {
	orders, err := uc.Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domain.ErrNotFound
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		items, err := uc.Orders.ListItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		lines := make([]OrderLineView, 0, len(items))
		for _, it := range items {
			name := "Produto removido"
			if p, err := uc.Products.FindByID(ctx, it.ProductID); err == nil {
				name = p.Name
			}
			lines = append(lines, OrderLineView{Product: name, Quantity: it.Quantity, Subtotal: it.Subtotal})
		}
		views = append(views, OrderView{
			ID:           o.ID,
			PlacedAt:     o.CreatedAt,
			Status:       o.Status,
			Total:        o.Total,
			Address:      o.Address,
			ShippingCost: o.ShippingCost,
			Items:        lines,
		})
	}
	return views, nil
}
