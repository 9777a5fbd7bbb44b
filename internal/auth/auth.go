// Package auth supplies the authenticated actor's identity to every operation
// that records or scopes by one. Credentials are the demo fixtures checked by
// plain equality; sessions are stateless JWTs.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/usbankcorp/bankd/internal/account"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// ActorType distinguishes customers from administrators.
type ActorType string

const (
	ActorCustomer ActorType = "customer"
	ActorAdmin    ActorType = "admin"
)

// Identity is the authenticated actor attached to a request.
type Identity struct {
	ID            string
	Name          string
	Email         string
	Type          ActorType
	AccountNumber string // empty for administrators
}

// Demo credential pairs, checked by equality as in the reference system.
var (
	customerCredentials = map[string]string{
		"danielhenney707@gmail.com": "Coolguy1977$",
		"jane@bank.com":             "jane123",
	}

	adminCredentials = map[string]string{
		"admin@usbankcorp.com": "Neo4Cent47$",
	}
)

type Service struct {
	accounts account.Repository
	secret   []byte
	tokenTTL time.Duration
}

func NewService(accounts account.Repository, secret string, tokenTTL time.Duration) *Service {
	return &Service{accounts: accounts, secret: []byte(secret), tokenTTL: tokenTTL}
}

type claims struct {
	Actor         ActorType `json:"actor"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	AccountNumber string    `json:"acct,omitempty"`
	jwt.RegisteredClaims
}

// LoginCustomer authenticates a customer and returns the account with a
// signed session token.
func (s *Service) LoginCustomer(ctx context.Context, email, password string) (*account.Account, string, error) {
	expected, ok := customerCredentials[email]
	if !ok || expected != password {
		return nil, "", ErrInvalidCredentials
	}

	acc, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}

		return nil, "", err
	}

	token, err := s.issueToken(Identity{
		ID:            acc.ID,
		Name:          acc.Name,
		Email:         acc.Email,
		Type:          ActorCustomer,
		AccountNumber: acc.AccountNumber,
	})
	if err != nil {
		return nil, "", err
	}

	return acc, token, nil
}

// LoginAdmin authenticates an administrator and returns the admin record with
// a signed session token.
func (s *Service) LoginAdmin(ctx context.Context, email, password string) (*account.Admin, string, error) {
	expected, ok := adminCredentials[email]
	if !ok || expected != password {
		return nil, "", ErrInvalidCredentials
	}

	adm, err := s.accounts.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}

		return nil, "", err
	}

	token, err := s.issueToken(Identity{
		ID:    adm.ID,
		Name:  adm.Name,
		Email: adm.Email,
		Type:  ActorAdmin,
	})
	if err != nil {
		return nil, "", err
	}

	return adm, token, nil
}

func (s *Service) issueToken(id Identity) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Actor:         id.Type,
		Name:          id.Name,
		Email:         id.Email,
		AccountNumber: id.AccountNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// VerifyToken parses a session token back into the actor's identity.
func (s *Service) VerifyToken(tokenString string) (*Identity, error) {
	var c claims

	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}

		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &Identity{
		ID:            c.Subject,
		Name:          c.Name,
		Email:         c.Email,
		Type:          c.Actor,
		AccountNumber: c.AccountNumber,
	}, nil
}
