package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/pbfreitas/camisetaria/internal/domain"
)

// ProductUC é o gerenciador de catálogo do admin.
type ProductUC struct {
	Products domain.ProductRepo
}

func (uc *ProductUC) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	if f.PageSize == 0 {
		f.PageSize = 20
	}
	return uc.Products.List(ctx, f)
}

func (uc *ProductUC) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if id == uuid.Nil {
		return nil, domain.ErrNotFound
	}
	return uc.Products.FindByID(ctx, id)
}

// Create grava o produto e a variação espelho usada pelo seletor de
// cor/tamanho da vitrine.
func (uc *ProductUC) Create(ctx context.Context, p *domain.Product) error {
	if p.Name == "" {
		return errors.New("nome obrigatório")
	}
	if p.Stock < 0 {
		return errors.New("quantidade não pode ser negativa")
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if err := uc.Products.Save(ctx, p); err != nil {
		return err
	}
	v := &domain.Variant{
		ID:        uuid.New(),
		ProductID: p.ID,
		Color:     p.Color,
		Size:      p.Size,
		Stock:     p.Stock,
		ImageURL:  p.ImageURL,
	}
	return uc.Products.SaveVariant(ctx, v)
}

func (uc *ProductUC) Update(ctx context.Context, p *domain.Product) error {
	if p == nil || p.ID == uuid.Nil {
		return errors.New("produto sem id")
	}
	if p.Stock < 0 {
		return errors.New("quantidade não pode ser negativa")
	}
	return uc.Products.Save(ctx, p)
}

// Delete remove o produto e suas variações; o repo faz os dois na mesma
// transação.
func (uc *ProductUC) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return domain.ErrNotFound
	}
	return uc.Products.Delete(ctx, id)
}

func (uc *ProductUC) ListVariants(ctx context.Context, productID uuid.UUID) ([]domain.Variant, error) {
	if productID == uuid.Nil {
		return nil, errors.New("produto sem id")
	}
	return uc.Products.ListVariants(ctx, productID)
}

// --- Categorias ---

func (uc *ProductUC) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("nome obrigatório")
	}
	c := &domain.Category{ID: uuid.New(), Name: name}
	if err := uc.Products.SaveCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *ProductUC) Categories(ctx context.Context) ([]domain.Category, error) {
	return uc.Products.ListCategories(ctx)
}

func (uc *ProductUC) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return domain.ErrNotFound
	}
	return uc.Products.DeleteCategory(ctx, id)
}

// colorHexTable é fechada de propósito: cor desconhecida cai no neutro.
var colorHexTable = map[string]string{
	"preto":    "#000000",
	"branco":   "#ffffff",
	"vermelho": "#ff0000",
	"azul":     "#0000ff",
	"verde":    "#008000",
	"cinza":    "#808080",
	"bege":     "#f5f5dc",
	"rosa":     "#ff69b4",
	"amarelo":  "#ffff00",
	"laranja":  "#ffa500",
	"roxo":     "#800080",
	"marrom":   "#8b4513",
}

const colorHexDefault = "#cccccc"

// ColorHex converte o nome da cor para o código CSS do seletor.
func ColorHex(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return colorHexDefault
	}
	if i := strings.IndexByte(name, ' '); i > 0 {
		name = name[:i]
	}
	if hex, ok := colorHexTable[name]; ok {
		return hex
	}
	return colorHexDefault
}
