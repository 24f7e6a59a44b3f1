package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusOpen       OrderStatus = "Em andamento"
	OrderStatusProcessing OrderStatus = "Processando"
	OrderStatusFinalized  OrderStatus = "Finalizado"
	OrderStatusCancelled  OrderStatus = "Cancelado"
)

// Cancellable indica se o pedido ainda pode ser cancelado. Estados
// terminais (Finalizado, Cancelado) são imutáveis.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusOpen || s == OrderStatusProcessing
}

// Order é o "pedido". Um pedido com status Em andamento é o carrinho do
// usuário: no máximo um por usuário a qualquer momento.
type Order struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	Status       OrderStatus     `gorm:"type:varchar(30);index;default:'Em andamento'"`
	Total        decimal.Decimal `gorm:"type:decimal(10,2);default:0"`
	Address      string          `gorm:"size:255"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(10,2);default:0"`
	DeliveryCEP  string          `gorm:"column:delivery_cep;size:8"`
	Items        []OrderItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderItem congela o subtotal no momento da adição: mudanças de preço do
// produto não repassam para itens já adicionados de pedidos fechados.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantity  int             `gorm:"not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time
}
