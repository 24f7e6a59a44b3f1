package domain

import "context"

// PostalAddress é o resultado bruto da consulta de CEP.
type PostalAddress struct {
	CEP      string
	Street   string
	District string
	City     string
	State    string
}

// PostalLookup resolve um CEP de 8 dígitos para cidade/estado. Falhas de
// transporte viram ErrLookupFailed; CEP inexistente vira ErrCEPNotFound.
type PostalLookup interface {
	Lookup(ctx context.Context, cep string) (*PostalAddress, error)
}
