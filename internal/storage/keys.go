package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bobmcallan/fintrack/internal/interfaces"
)

// Persisted record layout.
const (
	AccountsKey   = "accounts"   // AccountCollection document
	SessionKey    = "session"    // signed session token
	RememberedKey = "remembered" // []RememberedLogin
	ledgerPrefix  = "ledger/"
)

// LedgerKey returns the key of an account's ledger document.
func LedgerKey(accountID string) string {
	return ledgerPrefix + accountID
}

// GetJSON reads key and unmarshals it into dest. It reports false, without
// error, when the key is absent.
func GetJSON(ctx context.Context, kv interfaces.KVStore, key string, dest interface{}) (bool, error) {
	data, err := kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to parse '%s': %w", key, err)
	}
	return true, nil
}

// PutJSON marshals value to indented JSON and stores it under key.
func PutJSON(ctx context.Context, kv interfaces.KVStore, key string, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal '%s': %w", key, err)
	}
	data = append(data, '\n')
	return kv.Put(ctx, key, data)
}
