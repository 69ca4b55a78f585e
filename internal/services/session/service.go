// Package session tracks the signed-in account across process restarts.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/models"
	"github.com/bobmcallan/fintrack/internal/storage"
)

const issuer = "fintrack"

// Compile-time interface check
var _ interfaces.SessionService = (*Service)(nil)

// Service persists the current session as a signed token under the session key.
type Service struct {
	kv       interfaces.KVStore
	accounts interfaces.AccountService
	logger   *common.Logger
	secret   []byte
	expiry   time.Duration
	now      func() time.Time
}

// NewService creates a new session service
func NewService(kv interfaces.KVStore, accounts interfaces.AccountService, logger *common.Logger, config *common.Config) *Service {
	return &Service{
		kv:       kv,
		accounts: accounts,
		logger:   logger,
		secret:   []byte(config.Auth.JWTSecret),
		expiry:   config.Auth.GetSessionExpiry(),
		now:      time.Now,
	}
}

// signToken creates an HS256 session token for the account.
func (s *Service) signToken(accountID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": accountID,
		"iss": issuer,
		"iat": now.Unix(),
		"exp": now.Add(s.expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// validateToken parses the token and returns its subject.
func (s *Service) validateToken(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return sub, nil
}

// Login makes accountID the current session.
func (s *Service) Login(ctx context.Context, accountID string) error {
	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		return err
	}

	token, err := s.signToken(accountID)
	if err != nil {
		return fmt.Errorf("failed to sign session token: %w", err)
	}
	if err := s.kv.Put(ctx, storage.SessionKey, []byte(token)); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.Info().Str("account", accountID).Msg("Session started")
	return nil
}

// Logout clears the current session. Logging out twice is not an error.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.kv.Delete(ctx, storage.SessionKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.Info().Msg("Session ended")
	return nil
}

// Current resolves the persisted session to its account. A token that no
// longer validates, or that names a missing account, is cleared and reported
// as ErrNoSession.
func (s *Service) Current(ctx context.Context) (*models.SessionContext, error) {
	data, err := s.kv.Get(ctx, storage.SessionKey)
	if err != nil {
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			return nil, models.ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	accountID, err := s.validateToken(string(data))
	if err != nil {
		s.clearCorrupt(ctx, err.Error())
		return nil, models.ErrNoSession
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			s.clearCorrupt(ctx, "account no longer exists")
			return nil, models.ErrNoSession
		}
		return nil, err
	}

	return &models.SessionContext{Account: account}, nil
}

func (s *Service) clearCorrupt(ctx context.Context, reason string) {
	s.logger.Warn().Str("reason", reason).Msg("Discarding unusable session")
	if err := s.kv.Delete(ctx, storage.SessionKey); err != nil {
		s.logger.Error().Err(err).Msg("Failed to clear session")
	}
}
