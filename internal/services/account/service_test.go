package account

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/models"
	"github.com/bobmcallan/fintrack/internal/services/ledger"
	"github.com/bobmcallan/fintrack/internal/storage"
)

type fixture struct {
	svc     *Service
	ledgers *ledger.Service
	kv      interfaces.KVStore
}

func newFixture(t *testing.T, mutate ...func(*common.Config)) *fixture {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.Auth.BcryptCost = bcrypt.MinCost
	cfg.Auth.LoginRate = 0
	for _, m := range mutate {
		m(cfg)
	}

	kv := storage.NewMemoryStore()
	logger := common.NewSilentLogger()
	ledgers := ledger.NewService(kv, logger, cfg)
	return &fixture{
		svc:     NewService(kv, ledgers, logger, cfg),
		ledgers: ledgers,
		kv:      kv,
	}
}

func TestRegister_ThenAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acct, err := f.svc.Register(ctx, "Ana.Silva@Gmail.com", "pass", "Ana")
	require.NoError(t, err)
	assert.NotEmpty(t, acct.ID)
	assert.Equal(t, "ana.silva@gmail.com", acct.Email)
	assert.Equal(t, "Ana", acct.DisplayName)
	assert.Equal(t, models.AuthProviderLocal, acct.AuthProvider)
	assert.NotEqual(t, "pass", acct.PasswordHash)

	got, err := f.svc.Authenticate(ctx, "ana.silva@gmail.com", "pass")
	require.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)
}

func TestRegister_LongPasswords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	long := strings.Repeat("a", 73)
	acct, err := f.svc.Register(ctx, "long.pw@gmail.com", long, "Long")
	require.NoError(t, err)

	got, err := f.svc.Authenticate(ctx, "long.pw@gmail.com", long)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)

	// Passwords sharing the first 72 bytes are still distinct.
	_, err = f.svc.Authenticate(ctx, "long.pw@gmail.com", strings.Repeat("a", 72)+"b")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = f.svc.Register(ctx, "huge.pw@gmail.com", strings.Repeat("x", 4096), "")
	require.NoError(t, err)
}

func TestRegister_CreatesEmptyLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acct, err := f.svc.Register(ctx, "bo@gmail.com", "secret", "")
	require.NoError(t, err)
	assert.Equal(t, "bo", acct.DisplayName)

	_, err = f.kv.Get(ctx, storage.LedgerKey(acct.ID))
	require.NoError(t, err)

	l, err := f.ledgers.Load(ctx, acct)
	require.NoError(t, err)
	assert.Empty(t, l.Transactions)
	assert.Equal(t, "bo", l.Profile.DisplayName)
	sum := f.ledgers.ComputeSummary(l)
	assert.True(t, sum.Balance.IsZero())
}

func TestRegister_RejectsOtherDomains(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, email := range []string{"user@yahoo.com", "user@gmail.co", "user+tag@gmail.com", "@gmail.com", "user"} {
		t.Run(email, func(t *testing.T) {
			_, err := f.svc.Register(ctx, email, "pass", "")
			assert.ErrorIs(t, err, models.ErrInvalidEmail)

			_, err = f.svc.Authenticate(ctx, email, "pass")
			assert.ErrorIs(t, err, models.ErrInvalidCredentials)
		})
	}

	keys, err := f.kv.Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRegister_WeakPassword(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(context.Background(), "ana@gmail.com", "abc", "")
	assert.ErrorIs(t, err, models.ErrWeakPassword)
}

func TestRegister_DuplicateIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "ana@gmail.com", "pass", "")
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, "ANA@gmail.com", "other", "")
	assert.ErrorIs(t, err, models.ErrDuplicateAccount)
}

func TestAuthenticate_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "ana@gmail.com", "pass", "")
	require.NoError(t, err)

	_, err = f.svc.Authenticate(ctx, "ana@gmail.com", "wrong")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = f.svc.Authenticate(ctx, "nobody@gmail.com", "pass")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestAuthenticate_Throttled(t *testing.T) {
	f := newFixture(t, func(c *common.Config) {
		c.Auth.LoginRate = 0.001
		c.Auth.LoginBurst = 1
	})
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "ana@gmail.com", "pass", "")
	require.NoError(t, err)

	_, err = f.svc.Authenticate(ctx, "ana@gmail.com", "pass")
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = f.svc.Authenticate(short, "ana@gmail.com", "pass")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestFind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acct, err := f.svc.Register(ctx, "ana@gmail.com", "pass", "")
	require.NoError(t, err)

	byID, err := f.svc.FindByID(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, acct.Email, byID.Email)

	byEmail, err := f.svc.FindByEmail(ctx, "ANA@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, acct.ID, byEmail.ID)

	_, err = f.svc.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrAccountNotFound)
	_, err = f.svc.FindByEmail(ctx, "missing@gmail.com")
	assert.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestProviderSignUpAndSignIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ProviderSignIn(ctx, "new.user@gmail.com")
	assert.ErrorIs(t, err, models.ErrAccountNotFound)

	acct, err := f.svc.ProviderSignUp(ctx, "New.User@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "new.user", acct.DisplayName)
	assert.Equal(t, models.AuthProviderSimulatedOAuth, acct.AuthProvider)
	assert.Empty(t, acct.PasswordHash)

	_, err = f.svc.ProviderSignUp(ctx, "new.user@gmail.com")
	assert.ErrorIs(t, err, models.ErrDuplicateAccount)

	got, err := f.svc.ProviderSignIn(ctx, "new.user@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)

	// Provider accounts have no password to sign in with.
	_, err = f.svc.Authenticate(ctx, "new.user@gmail.com", "")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = f.svc.ProviderSignUp(ctx, "x@outlook.com")
	assert.ErrorIs(t, err, models.ErrInvalidEmail)
}

func TestRememberedLogins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list, err := f.svc.RememberedLogins(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, f.svc.Remember(ctx, "a@gmail.com"))
	require.NoError(t, f.svc.Remember(ctx, "b@gmail.com"))
	require.NoError(t, f.svc.Remember(ctx, "A@gmail.com"))

	list, err = f.svc.RememberedLogins(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a@gmail.com", list[0].Email)
	assert.Equal(t, "b@gmail.com", list[1].Email)

	require.NoError(t, f.svc.Forget(ctx, "b@gmail.com"))
	require.NoError(t, f.svc.Forget(ctx, "b@gmail.com"))

	list, err = f.svc.RememberedLogins(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a@gmail.com", list[0].Email)
}

func TestRemember_Capped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, c := range "abcdefghijkl" {
		require.NoError(t, f.svc.Remember(ctx, string(c)+"@gmail.com"))
	}
	list, err := f.svc.RememberedLogins(ctx)
	require.NoError(t, err)
	assert.Len(t, list, maxRemembered)
	assert.Equal(t, "l@gmail.com", list[0].Email)
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(models.ErrInvalidCredentials))
	assert.False(t, IsAuthError(assert.AnError))
}
