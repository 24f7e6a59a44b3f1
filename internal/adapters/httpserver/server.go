package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"

	"github.com/pbfreitas/camisetaria/internal/domain"
	"github.com/pbfreitas/camisetaria/internal/usecase"
)

type Server struct {
	mux      *http.ServeMux
	cart     *usecase.CartUC
	shipping *usecase.ShippingUC
	checkout *usecase.CheckoutUC
	users    *usecase.UserUC
	products *usecase.ProductUC
	oauthCfg *oauth2.Config

	sessionKey []byte
}

func New(cart *usecase.CartUC, shipping *usecase.ShippingUC, checkout *usecase.CheckoutUC, users *usecase.UserUC, products *usecase.ProductUC, oauthCfg *oauth2.Config, sessionKey string) http.Handler {
	s := &Server{
		mux:        http.NewServeMux(),
		cart:       cart,
		shipping:   shipping,
		checkout:   checkout,
		users:      users,
		products:   products,
		oauthCfg:   oauthCfg,
		sessionKey: []byte(sessionKey),
	}
	s.routes()
	return Chain(s.mux,
		Recovery,
		RequestID,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/carrinho/adicionar", s.handleCartAdd)
	s.mux.HandleFunc("/api/carrinho/remover/", s.handleCartRemove)
	s.mux.HandleFunc("/api/carrinho/finalizar", s.handleCartFinalize)
	s.mux.HandleFunc("/api/carrinho/cancelar/", s.handleCartCancel)
	s.mux.HandleFunc("/api/carrinho/dados", s.handleCartData)

	s.mux.HandleFunc("/api/frete", s.handleFrete)
	s.mux.HandleFunc("/api/frete/tabela", s.handleFreteTabela)

	s.mux.HandleFunc("/checkout/identificacao", s.handleCheckoutIdentify)
	s.mux.HandleFunc("/checkout/finalizar", s.handleCheckoutFinalize)
	s.mux.HandleFunc("/checkout/historico/", s.handleCheckoutHistory)

	s.mux.HandleFunc("/register", s.handleRegister)
	s.mux.HandleFunc("/login", s.handleLogin)
	s.mux.HandleFunc("/logout", s.handleLogout)
	s.mux.HandleFunc("/api/perfil", s.handleProfile)

	s.mux.HandleFunc("/auth/google/login", s.handleGoogleLogin)
	s.mux.HandleFunc("/auth/google/callback", s.handleGoogleCallback)

	s.mux.HandleFunc("/api/produtos", s.handleProducts)
	s.mux.HandleFunc("/api/produtos/", s.handleProductByID)
	s.mux.HandleFunc("/api/categorias", s.handleCategories)
	s.mux.HandleFunc("/api/categorias/", s.handleCategoryByID)
	s.mux.HandleFunc("/admin/export/xlsx", s.handleExportXLSX)
}

// --- Carrinho ---

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	u := s.requireUser(w, r)
	if u == nil {
		return
	}

	var productID string
	qty := 1
	if isJSON(r) {
		var req struct {
			ProductID string `json:"produto_id"`
			Quantity  int    `json:"quantidade"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 2048)).Decode(&req); err != nil {
			apiError(w, 400, "dados inválidos")
			return
		}
		productID = req.ProductID
		if req.Quantity != 0 {
			qty = req.Quantity
		}
	} else {
		productID = r.FormValue("produto_id")
		if v := r.FormValue("quantidade"); v != "" {
			q, err := parseInt(v)
			if err != nil {
				apiError(w, 400, "quantidade inválida")
				return
			}
			qty = q
		}
	}

	pid, err := uuid.Parse(productID)
	if err != nil {
		apiError(w, 400, "id do produto é obrigatório")
		return
	}
	sum, err := s.cart.AddItem(r.Context(), u.ID, pid, qty)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{
		"mensagem":         "Item adicionado ao carrinho com sucesso",
		"pedido_id":        sum.OrderID,
		"valor_total":      sum.Total,
		"quantidade_total": sum.ItemCount,
	})
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	u := s.requireUser(w, r)
	if u == nil {
		return
	}
	itemID, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/api/carrinho/remover/"))
	if err != nil {
		apiError(w, 400, "item inválido")
		return
	}
	sum, err := s.cart.RemoveItem(r.Context(), u.ID, itemID)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{
		"mensagem":    "Item removido do carrinho",
		"valor_total": sum.Total,
	})
}

func (s *Server) handleCartFinalize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	u := s.requireUser(w, r)
	if u == nil {
		return
	}

	var address, cep, freteRaw string
	if isJSON(r) {
		var req struct {
			Address string          `json:"endereco"`
			Frete   json.RawMessage `json:"frete"`
			CEP     string          `json:"cep_entrega"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 2048)).Decode(&req); err != nil {
			apiError(w, 400, "dados inválidos")
			return
		}
		address = req.Address
		cep = req.CEP
		freteRaw = strings.Trim(string(req.Frete), `"`)
	} else {
		address = r.FormValue("endereco")
		cep = r.FormValue("cep_entrega")
		freteRaw = r.FormValue("frete")
	}

	frete := decimal.Zero
	if freteRaw != "" && freteRaw != "null" {
		f, err := decimal.NewFromString(freteRaw)
		if err != nil {
			apiError(w, 400, "frete inválido")
			return
		}
		frete = f
	}

	res, err := s.cart.Finalize(r.Context(), u.ID, address, frete, cep)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{
		"mensagem":    "Pedido finalizado com sucesso",
		"pedido_id":   res.OrderID,
		"valor_total": res.Total,
		"valor_frete": res.ShippingCost,
	})
}

func (s *Server) handleCartCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	u := s.requireUser(w, r)
	if u == nil {
		return
	}
	orderID, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/api/carrinho/cancelar/"))
	if err != nil {
		apiError(w, 400, "pedido inválido")
		return
	}
	if err := s.cart.Cancel(r.Context(), u.ID, orderID); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"mensagem": "Pedido cancelado"})
}

func (s *Server) handleCartData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	u := s.readSession(r)
	if u == nil {
		writeJSON(w, 200, map[string]any{
			"itens_carrinho": []any{},
			"total_geral":    0,
			"total_itens":    0,
			"autenticado":    false,
		})
		return
	}
	view, err := s.cart.View(r.Context(), u.ID)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{
		"itens_carrinho": view.Lines,
		"total_geral":    view.Total,
		"total_itens":    view.Count,
		"autenticado":    true,
	})
}

// --- Frete ---

func (s *Server) handleFrete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	if s.requireUser(w, r) == nil {
		return
	}
	quote, err := s.shipping.Estimate(r.Context(), r.URL.Query().Get("cep_destino"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{
		"endereco":            quote.Address,
		"cep":                 quote.CEP,
		"valor_frete":         quote.Cost,
		"prazo_estimado_dias": quote.Days,
		"cidade":              quote.City,
		"estado":              quote.State,
		"regiao":              quote.Region,
		"status":              "cálculo concluído",
	})
}

func (s *Server) handleFreteTabela(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	writeJSON(w, 200, s.shipping.Table())
}

// --- Checkout ---

func (s *Server) handleCheckoutIdentify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var req struct {
		Email string `json:"email"`
		Name  string `json:"nome"`
		Phone string `json:"telefone"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 2048)).Decode(&req); err != nil {
		apiError(w, 400, "dados inválidos")
		return
	}
	u, err := s.checkout.IdentifyUser(r.Context(), req.Email, req.Name, req.Phone)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{
		"mensagem":   "Usuário identificado com sucesso",
		"usuario_id": u.ID,
		"nome":       u.Name,
		"email":      u.Email,
	})
}

func (s *Server) handleCheckoutFinalize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var req struct {
		UserID  string                 `json:"usuario_id"`
		Address string                 `json:"endereco_entrega"`
		Items   []usecase.CheckoutItem `json:"itens"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 65536)).Decode(&req); err != nil {
		apiError(w, 400, "dados inválidos")
		return
	}
	uid, err := uuid.Parse(req.UserID)
	if err != nil {
		apiError(w, 400, "usuário inválido")
		return
	}
	view, err := s.checkout.FinalizeCheckout(r.Context(), uid, req.Address, req.Items)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, 200, view)
}

func (s *Server) handleCheckoutHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	u := s.requireUser(w, r)
	if u == nil {
		return
	}
	uid, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/checkout/historico/"))
	if err != nil {
		apiError(w, 400, "usuário inválido")
		return
	}
	// histórico é do próprio usuário; admin enxerga qualquer um
	if u.ID != uid && !u.Admin {
		apiError(w, 403, "acesso restrito")
		return
	}
	views, err := s.checkout.History(r.Context(), uid)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, 200, views)
}

// --- Cadastro e login ---

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var name, email, phone, password string
	if isJSON(r) {
		var req struct {
			Name     string `json:"nome"`
			Email    string `json:"email"`
			Phone    string `json:"telefone"`
			Password string `json:"senha"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 2048)).Decode(&req); err != nil {
			apiError(w, 400, "dados inválidos")
			return
		}
		name, email, phone, password = req.Name, req.Email, req.Phone, req.Password
	} else {
		name = r.FormValue("nome")
		email = r.FormValue("email")
		phone = r.FormValue("telefone")
		password = r.FormValue("senha")
	}
	u, err := s.users.Register(r.Context(), name, email, phone, password)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeSession(w, &sessionUser{ID: u.ID, Email: u.Email, Name: u.Name, Admin: u.Admin})
	writeJSON(w, 201, map[string]any{"mensagem": "Cadastro realizado com sucesso", "usuario_id": u.ID})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var email, password string
	if isJSON(r) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"senha"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 2048)).Decode(&req); err != nil {
			apiError(w, 400, "dados inválidos")
			return
		}
		email, password = req.Email, req.Password
	} else {
		email = r.FormValue("email")
		password = r.FormValue("senha")
	}
	u, err := s.users.Login(r.Context(), email, password)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeSession(w, &sessionUser{ID: u.ID, Email: u.Email, Name: u.Name, Admin: u.Admin})
	writeJSON(w, 200, map[string]any{"mensagem": "Login realizado com sucesso", "usuario_id": u.ID})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	u := s.requireUser(w, r)
	if u == nil {
		return
	}
	var name, phone string
	if isJSON(r) {
		var req struct {
			Name  string `json:"nome"`
			Phone string `json:"telefone"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 2048)).Decode(&req); err != nil {
			apiError(w, 400, "dados inválidos")
			return
		}
		name, phone = req.Name, req.Phone
	} else {
		name = r.FormValue("nome")
		phone = r.FormValue("telefone")
	}
	updated, err := s.users.UpdateProfile(r.Context(), u.ID, name, phone)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	// o cookie carrega o nome; reemite para refletir a mudança
	s.writeSession(w, &sessionUser{ID: updated.ID, Email: updated.Email, Name: updated.Name, Admin: updated.Admin})
	writeJSON(w, 200, map[string]any{
		"mensagem": "Perfil atualizado com sucesso",
		"nome":     updated.Name,
		"telefone": updated.Phone,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.writeSession(w, nil)
	writeJSON(w, 200, map[string]any{"mensagem": "Sessão encerrada"})
}

// --- helpers ---

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func parseInt(v string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(v))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func apiError(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]any{"detail": detail})
}

// writeErr traduz os erros de domínio para códigos HTTP.
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	var stock *domain.InsufficientStockError
	switch {
	case errors.As(err, &stock):
		apiError(w, 400, stock.Error())
	case errors.Is(err, domain.ErrNotFound):
		apiError(w, 404, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		apiError(w, 403, err.Error())
	case errors.Is(err, domain.ErrNotAuthenticated):
		apiError(w, 401, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		apiError(w, 401, err.Error())
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidCEP),
		errors.Is(err, domain.ErrCEPNotFound),
		errors.Is(err, domain.ErrLookupFailed),
		errors.Is(err, domain.ErrDuplicateEmail):
		apiError(w, 400, err.Error())
	default:
		log.Error().Err(err).Msg("erro interno")
		apiError(w, 500, "erro interno")
	}
}
