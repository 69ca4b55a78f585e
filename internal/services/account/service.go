// Package account manages registered accounts, credentials and the autofill list.
package account

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/models"
	"github.com/bobmcallan/fintrack/internal/storage"
)

// maxRemembered caps the autofill list.
const maxRemembered = 10

// Compile-time interface check
var _ interfaces.AccountService = (*Service)(nil)

// Service implements AccountService on a KVStore
type Service struct {
	kv      interfaces.KVStore
	ledgers interfaces.LedgerService
	logger  *common.Logger
	config  common.AuthConfig
	limiter *rate.Limiter
	now     func() time.Time

	// guards read-modify-write of the accounts and remembered documents
	mu sync.Mutex
}

// NewService creates a new account service. Ledgers for new accounts are
// created through the given LedgerService.
func NewService(kv interfaces.KVStore, ledgers interfaces.LedgerService, logger *common.Logger, config *common.Config) *Service {
	auth := config.Auth
	if auth.BcryptCost < bcrypt.MinCost || auth.BcryptCost > bcrypt.MaxCost {
		auth.BcryptCost = bcrypt.DefaultCost
	}

	var limiter *rate.Limiter
	if auth.LoginRate > 0 {
		burst := auth.LoginBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(auth.LoginRate), burst)
	}

	return &Service{
		kv:      kv,
		ledgers: ledgers,
		logger:  logger,
		config:  auth,
		limiter: limiter,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) loadAccounts(ctx context.Context) (*models.AccountCollection, error) {
	var c models.AccountCollection
	if _, err := storage.GetJSON(ctx, s.kv, storage.AccountsKey, &c); err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	return &c, nil
}

func (s *Service) saveAccounts(ctx context.Context, c *models.AccountCollection) error {
	if err := storage.PutJSON(ctx, s.kv, storage.AccountsKey, c); err != nil {
		return fmt.Errorf("failed to save accounts: %w", err)
	}
	return nil
}

// create appends a new account and initialises its ledger. If the ledger
// cannot be created the account is removed again.
func (s *Service) create(ctx context.Context, account models.Account) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if accounts.FindByEmail(account.Email) >= 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrDuplicateAccount, account.Email)
	}

	account.ID = uuid.New().String()
	account.CreatedAt = s.now()
	accounts.Accounts = append(accounts.Accounts, account)
	if err := s.saveAccounts(ctx, accounts); err != nil {
		return nil, err
	}

	if _, err := s.ledgers.Load(ctx, &account); err != nil {
		accounts.Accounts = accounts.Accounts[:len(accounts.Accounts)-1]
		if rbErr := s.saveAccounts(ctx, accounts); rbErr != nil {
			s.logger.Error().Err(rbErr).Str("account", account.ID).Msg("Failed to roll back account after ledger error")
		}
		return nil, fmt.Errorf("failed to create ledger: %w", err)
	}

	s.logger.Info().Str("account", account.ID).Str("email", account.Email).
		Str("provider", string(account.AuthProvider)).Msg("Account registered")
	return &account, nil
}

// passwordDigest pre-hashes a password so bcrypt, which only accepts 72
// bytes, sees every character of passwords of any length.
func passwordDigest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// Register creates a password account on the configured email domain.
// An empty display name falls back to the email's local part.
func (s *Service) Register(ctx context.Context, email, password, displayName string) (*models.Account, error) {
	email = common.NormalizeEmail(email)
	if !common.IsValidEmailAddress(email, s.config.EmailDomain) {
		return nil, fmt.Errorf("%w: only @%s addresses are supported", models.ErrInvalidEmail, s.config.EmailDomain)
	}
	if err := common.ValidatePassword(password, s.config.MinPasswordLength); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword(passwordDigest(password), s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = common.EmailLocalPart(email)
	}

	return s.create(ctx, models.Account{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  name,
		AuthProvider: models.AuthProviderLocal,
	})
}

// Authenticate checks email and password. Every failure, including an
// address outside the accepted pattern, reports ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("sign-in throttled: %w", err)
		}
	}

	email = common.NormalizeEmail(email)
	if !common.IsValidEmailAddress(email, s.config.EmailDomain) {
		return nil, models.ErrInvalidCredentials
	}

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	idx := accounts.FindByEmail(email)
	if idx < 0 {
		s.logger.Debug().Str("email", email).Msg("Sign-in for unknown email")
		return nil, models.ErrInvalidCredentials
	}

	account := accounts.Accounts[idx]
	if account.PasswordHash == "" {
		return nil, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), passwordDigest(password)); err != nil {
		s.logger.Warn().Str("email", email).Msg("Sign-in with wrong password")
		return nil, models.ErrInvalidCredentials
	}
	return &account, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (*models.Account, error) {
	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	idx := accounts.FindByID(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrAccountNotFound, id)
	}
	account := accounts.Accounts[idx]
	return &account, nil
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	idx := accounts.FindByEmail(common.NormalizeEmail(email))
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrAccountNotFound, email)
	}
	account := accounts.Accounts[idx]
	return &account, nil
}

// ProviderSignUp registers an account through the simulated OAuth provider.
// The account has no password and is named after the email's local part.
func (s *Service) ProviderSignUp(ctx context.Context, email string) (*models.Account, error) {
	email = common.NormalizeEmail(email)
	if !common.IsValidEmailAddress(email, s.config.EmailDomain) {
		return nil, fmt.Errorf("%w: only @%s addresses are supported", models.ErrInvalidEmail, s.config.EmailDomain)
	}
	return s.create(ctx, models.Account{
		Email:        email,
		DisplayName:  common.EmailLocalPart(email),
		AuthProvider: models.AuthProviderSimulatedOAuth,
	})
}

// ProviderSignIn resolves an existing account through the simulated OAuth
// provider.
func (s *Service) ProviderSignIn(ctx context.Context, email string) (*models.Account, error) {
	email = common.NormalizeEmail(email)
	if !common.IsValidEmailAddress(email, s.config.EmailDomain) {
		return nil, fmt.Errorf("%w: only @%s addresses are supported", models.ErrInvalidEmail, s.config.EmailDomain)
	}
	account, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("account", account.ID).Msg("Provider sign-in")
	return account, nil
}

func (s *Service) loadRemembered(ctx context.Context) ([]models.RememberedLogin, error) {
	var list []models.RememberedLogin
	if _, err := storage.GetJSON(ctx, s.kv, storage.RememberedKey, &list); err != nil {
		return nil, fmt.Errorf("failed to load remembered logins: %w", err)
	}
	return list, nil
}

// Remember moves email to the front of the autofill list.
func (s *Service) Remember(ctx context.Context, email string) error {
	email = common.NormalizeEmail(email)
	if email == "" {
		return models.ErrInvalidEmail
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadRemembered(ctx)
	if err != nil {
		return err
	}
	next := []models.RememberedLogin{{Email: email, LastUsedAt: s.now()}}
	for _, r := range list {
		if r.Email != email && len(next) < maxRemembered {
			next = append(next, r)
		}
	}
	return storage.PutJSON(ctx, s.kv, storage.RememberedKey, next)
}

// Forget removes email from the autofill list. Unknown emails are ignored.
func (s *Service) Forget(ctx context.Context, email string) error {
	email = common.NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadRemembered(ctx)
	if err != nil {
		return err
	}
	next := list[:0]
	for _, r := range list {
		if r.Email != email {
			next = append(next, r)
		}
	}
	if len(next) == len(list) {
		return nil
	}
	return storage.PutJSON(ctx, s.kv, storage.RememberedKey, next)
}

// RememberedLogins returns the autofill list, most recently used first.
func (s *Service) RememberedLogins(ctx context.Context) ([]models.RememberedLogin, error) {
	list, err := s.loadRemembered(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.RememberedLogin{}
	}
	return list, nil
}

// IsAuthError reports whether err is one of the user-correctable sign-in errors.
func IsAuthError(err error) bool {
	return errors.Is(err, models.ErrInvalidEmail) ||
		errors.Is(err, models.ErrWeakPassword) ||
		errors.Is(err, models.ErrDuplicateAccount) ||
		errors.Is(err, models.ErrInvalidCredentials) ||
		errors.Is(err, models.ErrAccountNotFound)
}
