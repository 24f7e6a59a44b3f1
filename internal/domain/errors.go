package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("não encontrado")
	ErrForbidden          = errors.New("recurso não pertence ao usuário")
	ErrEmptyCart          = errors.New("carrinho vazio")
	ErrNotAuthenticated   = errors.New("usuário não autenticado")
	ErrInvalidCEP         = errors.New("cep inválido")
	ErrCEPNotFound        = errors.New("cep não encontrado")
	ErrLookupFailed       = errors.New("falha ao consultar o cep")
	ErrDuplicateEmail     = errors.New("e-mail já cadastrado")
	ErrInvalidCredentials = errors.New("credenciais inválidas")
)

// InsufficientStockError reporta quanto ainda há disponível para que o
// chamador possa exibir uma mensagem útil.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	if e.ProductName != "" {
		return fmt.Sprintf("estoque insuficiente para %s. disponível: %d", e.ProductName, e.Available)
	}
	return fmt.Sprintf("estoque insuficiente. disponível: %d", e.Available)
}
