package app

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/pbfreitas/camisetaria/internal/adapters/httpserver"
	"github.com/pbfreitas/camisetaria/internal/adapters/postal/viacep"
	"github.com/pbfreitas/camisetaria/internal/adapters/repo/postgres"
	"github.com/pbfreitas/camisetaria/internal/config"
	"github.com/pbfreitas/camisetaria/internal/domain"
	"github.com/pbfreitas/camisetaria/internal/usecase"
)

type App struct {
	DB         *gorm.DB
	Cfg        *config.Config
	CartUC     *usecase.CartUC
	ShippingUC *usecase.ShippingUC
	CheckoutUC *usecase.CheckoutUC
	UserUC     *usecase.UserUC
	ProductUC  *usecase.ProductUC
	OAuth      *oauth2.Config
}

func New(db *gorm.DB, cfg *config.Config) (*App, error) {
	prodRepo := postgres.NewProductRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	userRepo := postgres.NewUserRepo(db)

	var oauthCfg *oauth2.Config
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.BaseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	a := &App{DB: db, Cfg: cfg, OAuth: oauthCfg}
	a.CartUC = &usecase.CartUC{Orders: orderRepo, Products: prodRepo}
	a.ShippingUC = &usecase.ShippingUC{
		Lookup: viacep.New(cfg.ViaCEPBaseURL),
		Origin: usecase.StoreOrigin{CEP: cfg.StoreCEP, City: cfg.StoreCity, State: cfg.StoreState, Region: cfg.StoreRegion},
	}
	a.CheckoutUC = &usecase.CheckoutUC{Users: userRepo, Products: prodRepo, Orders: orderRepo}
	a.UserUC = &usecase.UserUC{Users: userRepo}
	a.ProductUC = &usecase.ProductUC{Products: prodRepo}
	return a, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.CartUC, a.ShippingUC, a.CheckoutUC, a.UserUC, a.ProductUC, a.OAuth, a.Cfg.SessionKey)
}

func (a *App) Migrate() error {
	if err := a.DB.AutoMigrate(
		&domain.Category{}, &domain.Product{}, &domain.Variant{},
		&domain.User{}, &domain.Order{}, &domain.OrderItem{},
	); err != nil {
		return err
	}

	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)").Error

	return nil
}

// Seed deixa o catálogo navegável num banco recém-criado.
func (a *App) Seed(ctx context.Context) {
	var count int64
	if err := a.DB.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	basica := domain.Category{ID: uuid.New(), Name: "Básicas"}
	estampada := domain.Category{ID: uuid.New(), Name: "Estampadas"}
	a.DB.Create(&basica)
	a.DB.Create(&estampada)

	prods := []domain.Product{
		{ID: uuid.New(), Name: "Camiseta Básica Preta", Price: decimal.NewFromFloat(49.90), Stock: 30, Size: "M", Color: "preto", CategoryID: &basica.ID},
		{ID: uuid.New(), Name: "Camiseta Básica Branca", Price: decimal.NewFromFloat(49.90), Stock: 25, Size: "G", Color: "branco", CategoryID: &basica.ID},
		{ID: uuid.New(), Name: "Camiseta Estampada Azul", Price: decimal.NewFromFloat(69.90), Stock: 15, Size: "M", Color: "azul", CategoryID: &estampada.ID},
		{ID: uuid.New(), Name: "Camiseta Estampada Verde", Price: decimal.NewFromFloat(69.90), Stock: 10, Size: "P", Color: "verde", CategoryID: &estampada.ID},
	}
	for _, p := range prods {
		a.DB.Create(&p)
		a.DB.Create(&domain.Variant{ID: uuid.New(), ProductID: p.ID, Color: p.Color, Size: p.Size, Stock: p.Stock})
	}
}
