package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductRepo interface {
	Save(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context, f ProductFilter) ([]Product, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	SaveVariant(ctx context.Context, v *Variant) error
	ListVariants(ctx context.Context, productID uuid.UUID) ([]Variant, error)
	DeleteVariant(ctx context.Context, id uuid.UUID) error

	SaveCategory(ctx context.Context, c *Category) error
	FindCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type OrderRepo interface {
	Create(ctx context.Context, o *Order) error
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// OpenByUser devolve o único pedido Em andamento do usuário, se houver.
	OpenByUser(ctx context.Context, userID uuid.UUID) (*Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)

	SaveItem(ctx context.Context, it *OrderItem) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	FindItem(ctx context.Context, itemID uuid.UUID) (*OrderItem, error)
	ListItems(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error)

	// Finalize revalida o estoque de cada item, debita os produtos, carimba
	// endereço/frete/cep e muda o status para Finalizado, tudo ou nada.
	Finalize(ctx context.Context, orderID uuid.UUID, address string, shipping decimal.Decimal, cep string) error
	// CreateFinalized cria pedido e itens e finaliza na mesma transação; em
	// falha de estoque nada é persistido.
	CreateFinalized(ctx context.Context, o *Order, items []OrderItem) error
	// Cancel devolve as quantidades dos itens ao estoque e muda o status
	// para Cancelado.
	Cancel(ctx context.Context, orderID uuid.UUID) error
}

type UserRepo interface {
	Save(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
