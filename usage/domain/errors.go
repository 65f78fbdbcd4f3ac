package domain

import "errors"

var (
	// ErrLockFailure indica que o estado protegido pelo lock ficou corrompido
	// (panic dentro da seção crítica). A contagem não é mais confiável.
	ErrLockFailure = errors.New("usage: lock failure")

	ErrUnknownOperation = errors.New("usage: unknown operation")
)
