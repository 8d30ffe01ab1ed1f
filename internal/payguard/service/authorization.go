package service

import (
	"context"
	"errors"
	"fmt"

	"go-payguard/internal/payguard/data"
)

var UsernameClaimName = "username"

type UserRepository interface {
	InsertUser(ctx context.Context, login, password string) (userID int, err error)
	ValidateUser(ctx context.Context, login, password string) (userID int, err error)
}

type Authorization struct {
	userRepository     UserRepository
	transactionManager TransactionManager
	tokenFactory       TokenFactory
}

func NewAuthorization(
	userRepository UserRepository,
	transactionManager TransactionManager,
	tokenFactory TokenFactory,
) *Authorization {
	return &Authorization{
		userRepository:     userRepository,
		transactionManager: transactionManager,
		tokenFactory:       tokenFactory,
	}
}

func (a *Authorization) Register(ctx context.Context, login string, password string) (string, error) {
	_, err := a.userRepository.InsertUser(ctx, login, password)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrUniqueConstraintViolation):
			return "", ErrLoginTaken
		default:
			return "", fmt.Errorf("error inserting user: %w", err)
		}
	}

	token, err := a.tokenFactory.Generate(map[string]string{
		UsernameClaimName: login,
	})
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}

func (a *Authorization) Login(ctx context.Context, login string, password string) (string, error) {
	_, err := a.userRepository.ValidateUser(ctx, login, password)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrInvalidPassword):
			return "", ErrInvalidCredentials
		case errors.Is(err, data.ErrInvalidLogin):
			return "", ErrInvalidCredentials
		default:
			return "", fmt.Errorf("error validating user: %w", err)
		}
	}

	token, err := a.tokenFactory.Generate(map[string]string{
		UsernameClaimName: login,
	})
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}
