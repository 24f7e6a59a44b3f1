package viacep

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pbfreitas/camisetaria/internal/domain"
)

const defaultBaseURL = "https://viacep.com.br"

// Client consulta o ViaCEP. Timeout limitado: frete é cotação de página,
// não pode segurar a requisição.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{baseURL: baseURL, httpClient: &http.Client{Timeout: 10 * time.Second}}
}

type cepResponse struct {
	CEP        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       bool   `json:"erro"`
}

func (c *Client) Lookup(ctx context.Context, cep string) (*domain.PostalAddress, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrLookupFailed, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	var out cepResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	if out.Erro {
		return nil, domain.ErrCEPNotFound
	}
	return &domain.PostalAddress{
		CEP:      cep,
		Street:   out.Logradouro,
		District: out.Bairro,
		City:     out.Localidade,
		State:    out.UF,
	}, nil
}
