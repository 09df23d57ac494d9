package storage

import (
	"context"
	"errors"
)

// TokenKey is the fixed key the bearer token is stored under.
const TokenKey = "token"

// KV is the subset of SQLiteStorage the token store needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// TokenStore persists the bearer token under TokenKey.
type TokenStore struct {
	kv KV
}

// NewTokenStore wraps kv.
func NewTokenStore(kv KV) *TokenStore {
	return &TokenStore{kv: kv}
}

// LoadToken returns the stored token, or "" when none is stored.
func (t *TokenStore) LoadToken(ctx context.Context) (string, error) {
	token, err := t.kv.Get(ctx, TokenKey)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return token, err
}

// SaveToken stores token. An empty token clears it.
func (t *TokenStore) SaveToken(ctx context.Context, token string) error {
	if token == "" {
		return t.ClearToken(ctx)
	}
	return t.kv.Set(ctx, TokenKey, token)
}

// ClearToken removes the stored token.
func (t *TokenStore) ClearToken(ctx context.Context) error {
	return t.kv.Delete(ctx, TokenKey)
}
