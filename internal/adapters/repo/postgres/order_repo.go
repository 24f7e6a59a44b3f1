package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pbfreitas/camisetaria/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OrderRepo) Save(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *OrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) OpenByUser(ctx context.Context, userID uuid.UUID) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		First(&o, "user_id = ? AND status = ?", userID, domain.OrderStatusOpen).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	var list []domain.Order
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *OrderRepo) SaveItem(ctx context.Context, it *domain.OrderItem) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(it).Error
}

func (r *OrderRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&domain.OrderItem{}, "id = ?", itemID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) FindItem(ctx context.Context, itemID uuid.UUID) (*domain.OrderItem, error) {
	var it domain.OrderItem
	if err := r.db.WithContext(ctx).First(&it, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *OrderRepo) ListItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	var list []domain.OrderItem
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *OrderRepo) Finalize(ctx context.Context, orderID uuid.UUID, address string, shipping decimal.Decimal, cep string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return finalizeTx(tx, orderID, address, shipping, cep)
	})
}

func (r *OrderRepo) CreateFinalized(ctx context.Context, o *domain.Order, items []domain.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return finalizeTx(tx, o.ID, o.Address, o.ShippingCost, o.DeliveryCEP)
	})
}

// finalizeTx é a finalização canônica: trava o pedido, revalida o estoque
// com lock de linha, debita produto a produto e carimba o pedido. Qualquer
// falha desfaz tudo.
func finalizeTx(tx *gorm.DB, orderID uuid.UUID, address string, shipping decimal.Decimal, cep string) error {
	var o domain.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	// a checagem de status do usecase roda fora da transação e pode estar
	// desatualizada; estado terminal é imutável
	if o.Status != domain.OrderStatusOpen {
		return domain.ErrNotFound
	}
	var items []domain.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return domain.ErrEmptyCart
	}
	for _, it := range items {
		var p domain.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", it.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if p.Stock < it.Quantity {
			return &domain.InsufficientStockError{ProductID: p.ID, ProductName: p.Name, Available: p.Stock}
		}
		if err := tx.Model(&domain.Product{}).Where("id = ?", p.ID).
			UpdateColumn("stock", gorm.Expr("stock - ?", it.Quantity)).Error; err != nil {
			return err
		}
	}
	return tx.Model(&domain.Order{}).Where("id = ?", orderID).Updates(map[string]any{
		"status":        domain.OrderStatusFinalized,
		"address":       address,
		"shipping_cost": shipping,
		"delivery_cep":  cep,
	}).Error
}

func (r *OrderRepo) Cancel(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o domain.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		// dois cancelamentos concorrentes passam na checagem do usecase;
		// só o primeiro a travar a linha pode devolver estoque
		if !o.Status.Cancellable() {
			return domain.ErrNotFound
		}
		var items []domain.OrderItem
		if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
			return err
		}
		for _, it := range items {
			if err := tx.Model(&domain.Product{}).Where("id = ?", it.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", it.Quantity)).Error; err != nil {
				return err
			}
		}
		return tx.Model(&domain.Order{}).Where("id = ?", orderID).
			Update("status", domain.OrderStatusCancelled).Error
	})
}
