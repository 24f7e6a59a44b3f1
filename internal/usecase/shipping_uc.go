package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pbfreitas/camisetaria/internal/domain"
)

// StoreOrigin localiza a loja para o cálculo de frete.
type StoreOrigin struct {
	CEP    string
	City   string
	State  string
	Region string
}

type ShippingTier struct {
	Name string          `json:"nome"`
	Cost decimal.Decimal `json:"valor"`
	Days int             `json:"prazo"`
}

type ShippingQuote struct {
	Address string          `json:"endereco"`
	CEP     string          `json:"cep"`
	Cost    decimal.Decimal `json:"valor_frete"`
	Days    int             `json:"prazo_estimado_dias"`
	City    string          `json:"cidade"`
	State   string          `json:"estado"`
	Region  string          `json:"regiao"`
}

var brazilRegions = map[string][]string{
	"Norte":        {"AC", "AM", "AP", "PA", "RO", "RR", "TO"},
	"Nordeste":     {"AL", "BA", "CE", "MA", "PB", "PE", "PI", "RN", "SE"},
	"Centro-Oeste": {"DF", "GO", "MT", "MS"},
	"Sudeste":      {"ES", "MG", "RJ", "SP"},
	"Sul":          {"PR", "RS", "SC"},
}

// Tabela fixa: heurística de faixas, não integração com transportadora.
var (
	tierLocal       = ShippingTier{Name: "local", Cost: decimal.NewFromFloat(9.90), Days: 2}
	tierState       = ShippingTier{Name: "estado", Cost: decimal.NewFromFloat(12.90), Days: 3}
	tierRegion      = ShippingTier{Name: "regiao", Cost: decimal.NewFromFloat(18.90), Days: 5}
	tierNeighboring = ShippingTier{Name: "vizinha", Cost: decimal.NewFromFloat(24.90), Days: 7}
	tierDistant     = ShippingTier{Name: "distante", Cost: decimal.NewFromFloat(29.90), Days: 10}
	tierFallback    = ShippingTier{Name: "padrao", Cost: decimal.NewFromFloat(25.90), Days: 8}
)

var neighboringRegions = []string{"Sul", "Centro-Oeste"}
var distantRegions = []string{"Norte", "Nordeste"}

// ShippingUC resolve o CEP de destino via colaborador externo e aplica a
// tabela de faixas em ordem estrita de prioridade.
type ShippingUC struct {
	Lookup domain.PostalLookup
	Origin StoreOrigin
}

func (uc *ShippingUC) Estimate(ctx context.Context, cep string) (*ShippingQuote, error) {
	cep = strings.TrimSpace(cep)
	if !validCEP(cep) {
		return nil, domain.ErrInvalidCEP
	}
	addr, err := uc.Lookup.Lookup(ctx, cep)
	if err != nil {
		return nil, err
	}

	region := RegionForState(addr.State)
	tier := uc.tierFor(addr.City, addr.State, region)

	return &ShippingQuote{
		Address: fmt.Sprintf("%s, %s, %s - %s", addr.Street, addr.District, addr.City, addr.State),
		CEP:     cep,
		Cost:    tier.Cost,
		Days:    tier.Days,
		City:    addr.City,
		State:   addr.State,
		Region:  region,
	}, nil
}

// tierFor avalia as faixas em ordem: a prioridade é política de preço, não
// acidente de implementação.
func (uc *ShippingUC) tierFor(city, state, region string) ShippingTier {
	switch {
	case strings.EqualFold(city, uc.Origin.City):
		return tierLocal
	case strings.EqualFold(state, uc.Origin.State):
		return tierState
	case region == uc.Origin.Region:
		return tierRegion
	case contains(neighboringRegions, region):
		return tierNeighboring
	case contains(distantRegions, region):
		return tierDistant
	default:
		return tierFallback
	}
}

// Table expõe a tabela completa para o frontend.
func (uc *ShippingUC) Table() map[string]any {
	return map[string]any{
		"loja": map[string]string{
			"cep":    uc.Origin.CEP,
			"cidade": uc.Origin.City,
			"estado": uc.Origin.State,
			"regiao": uc.Origin.Region,
		},
		"tabela_fretes": []ShippingTier{tierLocal, tierState, tierRegion, tierNeighboring, tierDistant, tierFallback},
		"regioes":       brazilRegions,
	}
}

func RegionForState(uf string) string {
	uf = strings.ToUpper(strings.TrimSpace(uf))
	for region, states := range brazilRegions {
		for _, s := range states {
			if s == uf {
				return region
			}
		}
	}
	return "Desconhecida"
}

func validCEP(cep string) bool {
	if len(cep) != 8 {
		return false
	}
	for _, r := range cep {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
