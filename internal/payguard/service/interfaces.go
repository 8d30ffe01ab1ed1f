package service

import "context"

type TransactionManager interface {
	DoWithTransaction(ctx context.Context, f func(ctx context.Context) error) error
}

type TokenFactory interface {
	Generate(extraClaims map[string]string) (string, error)
}
