package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/pbfreitas/camisetaria/internal/domain"
	"github.com/pbfreitas/camisetaria/internal/usecase"
)

type productPayload struct {
	Name        string          `json:"nome"`
	Price       decimal.Decimal `json:"preco"`
	Stock       int             `json:"quantidade"`
	Size        string          `json:"tamanho"`
	Color       string          `json:"cor"`
	Description string          `json:"descricao"`
	ImageURL    string          `json:"imagem"`
	CategoryID  string          `json:"categoria_id"`
}

type productView struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"nome"`
	Price       decimal.Decimal `json:"preco"`
	Stock       int             `json:"quantidade"`
	Size        string          `json:"tamanho"`
	Color       string          `json:"cor"`
	ColorHex    string          `json:"cor_css"`
	Description string          `json:"descricao"`
	ImageURL    string          `json:"imagem"`
	CategoryID  *uuid.UUID      `json:"categoria_id"`
}

func toProductView(p *domain.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Stock:       p.Stock,
		Size:        p.Size,
		Color:       p.Color,
		ColorHex:    usecase.ColorHex(p.Color),
		Description: p.Description,
		ImageURL:    p.ImageURL,
		CategoryID:  p.CategoryID,
	}
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		qv := r.URL.Query()
		page, _ := parseInt(qv.Get("page"))
		f := domain.ProductFilter{Page: page, Query: qv.Get("q")}
		if raw := qv.Get("categoria_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				apiError(w, 400, "categoria inválida")
				return
			}
			f.CategoryID = &id
		}
		list, total, err := s.products.List(r.Context(), f)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		views := make([]productView, 0, len(list))
		for i := range list {
			views = append(views, toProductView(&list[i]))
		}
		writeJSON(w, 200, map[string]any{"produtos": views, "total": total})

	case http.MethodPost:
		if !s.requireAdmin(w, r) {
			return
		}
		var req productPayload
		if err := json.NewDecoder(io.LimitReader(r.Body, 65536)).Decode(&req); err != nil {
			apiError(w, 400, "dados inválidos")
			return
		}
		p := &domain.Product{
			Name:        req.Name,
			Price:       req.Price,
			Stock:       req.Stock,
			Size:        req.Size,
			Color:       req.Color,
			Description: req.Description,
			ImageURL:    req.ImageURL,
		}
		if req.CategoryID != "" {
			cid, err := uuid.Parse(req.CategoryID)
			if err != nil {
				apiError(w, 400, "categoria inválida")
				return
			}
			p.CategoryID = &cid
		}
		if err := s.products.Create(r.Context(), p); err != nil {
			s.writeErr(w, err)
			return
		}
		writeJSON(w, 201, toProductView(p))

	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) handleProductByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/produtos/")
	idPart, sub, _ := strings.Cut(rest, "/")
	id, err := uuid.Parse(idPart)
	if err != nil {
		apiError(w, 400, "produto inválido")
		return
	}

	if sub == "variacoes" {
		if r.Method != http.MethodGet {
			http.Error(w, "method", 405)
			return
		}
		vars, err := s.products.ListVariants(r.Context(), id)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		writeJSON(w, 200, vars)
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := s.products.Get(r.Context(), id)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		writeJSON(w, 200, toProductView(p))

	case http.MethodPut:
		if !s.requireAdmin(w, r) {
			return
		}
		p, err := s.products.Get(r.Context(), id)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		var req productPayload
		if err := json.NewDecoder(io.LimitReader(r.Body, 65536)).Decode(&req); err != nil {
			apiError(w, 400, "dados inválidos")
			return
		}
		p.Name = req.Name
		p.Price = req.Price
		p.Stock = req.Stock
		p.Size = req.Size
		p.Color = req.Color
		p.Description = req.Description
		if req.ImageURL != "" {
			p.ImageURL = req.ImageURL
		}
		if err := s.products.Update(r.Context(), p); err != nil {
			s.writeErr(w, err)
			return
		}
		writeJSON(w, 200, toProductView(p))

	case http.MethodDelete:
		if !s.requireAdmin(w, r) {
			return
		}
		if err := s.products.Delete(r.Context(), id); err != nil {
			s.writeErr(w, err)
			return
		}
		writeJSON(w, 200, map[string]any{"mensagem": "Produto removido"})

	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cats, err := s.products.Categories(r.Context())
		if err != nil {
			s.writeErr(w, err)
			return
		}
		writeJSON(w, 200, cats)

	case http.MethodPost:
		if !s.requireAdmin(w, r) {
			return
		}
		var req struct {
			Name string `json:"nome"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 2048)).Decode(&req); err != nil {
			apiError(w, 400, "dados inválidos")
			return
		}
		c, err := s.products.CreateCategory(r.Context(), req.Name)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		writeJSON(w, 201, c)

	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) handleCategoryByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method", 405)
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}
	id, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/api/categorias/"))
	if err != nil {
		apiError(w, 400, "categoria inválida")
		return
	}
	if err := s.products.DeleteCategory(r.Context(), id); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"mensagem": "Categoria removida"})
}

// handleExportXLSX exporta o catálogo em planilha, paginando o repo.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}

	f := excelize.NewFile()
	sheet := "Produtos"
	f.SetSheetName("Sheet1", sheet)
	headers := []any{"id", "nome", "preco", "quantidade", "tamanho", "cor", "categoria_id", "descricao", "imagem"}
	_ = f.SetSheetRow(sheet, "A1", &headers)

	row := 2
	page := 1
	for {
		list, total, err := s.products.List(r.Context(), domain.ProductFilter{Page: page, PageSize: 200})
		if err != nil || len(list) == 0 {
			break
		}
		for _, p := range list {
			catID := ""
			if p.CategoryID != nil {
				catID = p.CategoryID.String()
			}
			cells := []any{p.ID.String(), p.Name, p.Price.StringFixed(2), p.Stock, p.Size, p.Color, catID, p.Description, p.ImageURL}
			_ = f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &cells)
			row++
		}
		if page*200 >= int(total) {
			break
		}
		page++
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=produtos.xlsx")
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("exportar xlsx")
	}
}
