package viacep

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbfreitas/camisetaria/internal/domain"
)

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws/01310100/json/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"cep":"01310-100","logradouro":"Avenida Paulista","bairro":"Bela Vista","localidade":"São Paulo","uf":"SP"}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	addr, err := c.Lookup(context.Background(), "01310100")
	require.NoError(t, err)
	assert.Equal(t, "01310100", addr.CEP)
	assert.Equal(t, "Avenida Paulista", addr.Street)
	assert.Equal(t, "Bela Vista", addr.District)
	assert.Equal(t, "São Paulo", addr.City)
	assert.Equal(t, "SP", addr.State)
}

func TestLookupUnknownCEP(t *testing.T) {
	// o ViaCEP responde 200 com {"erro": true} para CEP inexistente
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"erro": true}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Lookup(context.Background(), "99999999")
	assert.ErrorIs(t, err, domain.ErrCEPNotFound)
}

func TestLookupUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Lookup(context.Background(), "01310100")
	assert.ErrorIs(t, err, domain.ErrLookupFailed)
}

func TestLookupBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>proxy error</html>`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Lookup(context.Background(), "01310100")
	assert.ErrorIs(t, err, domain.ErrLookupFailed)
}

func TestLookupConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := New(srv.URL).Lookup(context.Background(), "01310100")
	assert.ErrorIs(t, err, domain.ErrLookupFailed)
}
